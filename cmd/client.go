package cmd

import (
	"github.com/aleph-zero/tinysql/client"
	"github.com/aleph-zero/tinysql/engine/physical"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Run a tinysql client",
	Long:  "Run an interactive tinysql client against a running server",
	Run: func(cmd *cobra.Command, args []string) {
		format := physical.Table
		if viper.IsSet("output.format") {
			f, err := physical.ParseFormat(viper.GetString("output.format"))
			if err != nil {
				fail(err)
			}
			format = f
		}

		config := client.NewConfig(
			client.WithRemoteAddr(viper.GetString("client.remote-addr")),
			client.WithRemotePort(viper.GetUint16("client.remote-port")),
			client.WithFormat(format),
			client.WithTelemetryEndpoint(viper.GetString("telemetry.endpoint")))
		if err := client.Bootstrap(config); err != nil {
			fail(err)
		}
	},
}

const (
	remoteAddr = "127.0.0.1"
	remotePort = 1234
)

func init() {
	rootCmd.AddCommand(clientCmd)
	clientCmd.PersistentFlags().String("client.remote-addr", remoteAddr, "Address to connect to")
	clientCmd.PersistentFlags().Int("client.remote-port", remotePort, "Port to connect to")

	viper.BindPFlag("client.remote-addr", clientCmd.PersistentFlags().Lookup("client.remote-addr"))
	viper.BindPFlag("client.remote-port", clientCmd.PersistentFlags().Lookup("client.remote-port"))
}
