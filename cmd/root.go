package cmd

import (
	"github.com/aleph-zero/tinysql/telemetry"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "tinysql",
	Short: "A tiny SQL engine",
	Long:  `tinysql: run SELECT queries over integer tables described by a catalog file`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger := telemetry.NewLogger("tinysql", logConfig())
		slog.SetDefault(logger.Logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

const (
	catalogPath   = "metadata.txt"
	storageDir    = "."
	storageFormat = "csv"
	outputFormat  = "csv"
	logLevel      = "warn"
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default is $HOME/.config/tinysql/tinysql.yaml)")
	rootCmd.PersistentFlags().String("catalog.path", catalogPath, "Catalog file (.txt or .json)")
	rootCmd.PersistentFlags().String("storage.dir", storageDir, "Directory holding one file per table")
	rootCmd.PersistentFlags().String("storage.format", storageFormat, "Table file format: csv or parquet")
	rootCmd.PersistentFlags().String("output.format", outputFormat, "Result format: csv, table or json")
	rootCmd.PersistentFlags().String("log.level", logLevel, "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().Bool("log.json", false, "Log as JSON")
	rootCmd.PersistentFlags().String("telemetry.endpoint", "", "OTLP/HTTP collector endpoint, telemetry is off when empty")

	for _, name := range []string{"catalog.path", "storage.dir", "storage.format", "output.format",
		"log.level", "log.json", "telemetry.endpoint"} {
		viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(filepath.Join(home, ".config/tinysql"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("tinysql")
	}

	// TINYSQL_STORAGE_DIR overrides storage.dir
	viper.SetEnvPrefix("tinysql")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// it's ok if we don't have a config file, we can fall back to defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fail(err)
		}
	}
}

func logConfig() telemetry.LogConfig {
	return telemetry.LogConfig{
		Level: viper.GetString("log.level"),
		JSON:  viper.GetBool("log.json"),
	}
}

// fail reports err on stderr and exits with status 1.
func fail(err error) {
	color.New(color.FgRed).Fprintf(os.Stderr, "error: %s\n", err)
	os.Exit(1)
}
