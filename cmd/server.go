package cmd

import (
	"github.com/aleph-zero/tinysql/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run a tinysql server",
	Long:  "Run a tinysql server answering queries over HTTP",
	Run: func(cmd *cobra.Command, args []string) {
		config := server.NewConfig(
			server.WithAddress(viper.GetString("server.addr")),
			server.WithPort(viper.GetUint16("server.port")),
			server.WithMetastoreConfig(metastoreConfig()),
			server.WithStorageConfig(storageConfig()),
			server.WithLogConfig(logConfig()),
			server.WithTelemetryEndpoint(viper.GetString("telemetry.endpoint")))
		if err := server.Bootstrap(config); err != nil {
			fail(err)
		}
	},
}

const (
	apiListenAddr = "0.0.0.0"
	apiListenPort = 1234
)

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.PersistentFlags().String("server.addr", apiListenAddr, "Address to bind to")
	serverCmd.PersistentFlags().Uint16("server.port", apiListenPort, "Port to listen on")

	viper.BindPFlag("server.addr", serverCmd.PersistentFlags().Lookup("server.addr"))
	viper.BindPFlag("server.port", serverCmd.PersistentFlags().Lookup("server.port"))
}
