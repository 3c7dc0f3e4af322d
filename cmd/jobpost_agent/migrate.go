package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the trend store schema",
	Long:  "Create the job posting, skill occurrence and skill trend tables if they do not exist. PostgreSQL is used when database_url is set, SQLite otherwise.",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	// openStore ensures the schema
	_, closeStore, err := openStore(cmd.Context(), appConfig)
	if err != nil {
		return err
	}
	defer closeStore()

	target := appConfig.SQLitePath
	if appConfig.DatabaseURL != "" {
		target = "postgres"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Schema is up to date (%s)\n", target)
	return nil
}
