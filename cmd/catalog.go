package cmd

import (
	"context"
	"fmt"
	"github.com/aleph-zero/tinysql/service/metastore"
	"github.com/spf13/cobra"
	"strings"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the tables in the catalog",
	Long:  "List every table in the catalog with its columns in declaration order",
	Run: func(cmd *cobra.Command, args []string) {
		metaSvc := metastore.NewService(metastoreConfig())
		if err := metaSvc.Open(); err != nil {
			fail(err)
		}
		for _, table := range metaSvc.GetTables() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", table.TableName, strings.Join(table.Columns, ", "))
		}
	},
}

var catalogAddCmd = &cobra.Command{
	Use:   "add <table> <column>...",
	Short: "Add a table to the catalog",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		metaSvc := metastore.NewService(metastoreConfig())
		if err := metaSvc.Open(); err != nil {
			fail(err)
		}
		if err := metaSvc.CreateTable(context.Background(), metastore.NewTableMetadata(args[0], args[1:]...)); err != nil {
			fail(err)
		}
		if err := metaSvc.Persist(); err != nil {
			fail(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogAddCmd)
}
