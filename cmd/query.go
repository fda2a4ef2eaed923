package cmd

import (
	"context"
	"fmt"
	"github.com/aleph-zero/tinysql/engine/physical"
	"github.com/aleph-zero/tinysql/service/metastore"
	"github.com/aleph-zero/tinysql/service/query"
	"github.com/aleph-zero/tinysql/service/storage"
	"github.com/aleph-zero/tinysql/telemetry"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"io"
	"strings"
)

var queryCmd = &cobra.Command{
	Use:   "query [statement]",
	Short: "Run a single SELECT statement",
	Long:  "Run a single SELECT statement and print the result. The statement is read from stdin when no argument is given.",
	Run: func(cmd *cobra.Command, args []string) {
		statement := strings.Join(args, " ")
		if len(args) == 0 {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				fail(err)
			}
			statement = string(data)
		}

		format, err := physical.ParseFormat(viper.GetString("output.format"))
		if err != nil {
			fail(err)
		}

		shutdown, err := telemetry.New("tinysql", "0.0.1", viper.GetString("telemetry.endpoint"))
		if err != nil {
			fail(err)
		}
		defer shutdown()

		metaSvc, storageSvc, err := openServices()
		if err != nil {
			fail(err)
		}

		result, err := query.NewService(metaSvc, storageSvc).Execute(context.Background(), statement)
		if err != nil {
			shutdown()
			fail(err)
		}
		if err := result.Render(cmd.OutOrStdout(), format); err != nil {
			shutdown()
			fail(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
}

func metastoreConfig() *metastore.Config {
	return metastore.NewConfig(metastore.WithPath(viper.GetString("catalog.path")))
}

func storageConfig() *storage.Config {
	return storage.NewConfig(
		storage.WithDirectory(viper.GetString("storage.dir")),
		storage.WithFormat(storage.Format(viper.GetString("storage.format"))))
}

func openServices() (metastore.Service, storage.Service, error) {
	metaSvc := metastore.NewService(metastoreConfig())
	if err := metaSvc.Open(); err != nil {
		return nil, nil, fmt.Errorf("opening catalog: %w", err)
	}
	storageSvc, err := storage.NewService(storageConfig())
	if err != nil {
		return nil, nil, err
	}
	return metaSvc, storageSvc, nil
}
