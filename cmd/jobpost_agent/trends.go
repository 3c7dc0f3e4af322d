package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/jobpost-checker/internal/observability"
	"github.com/jonathan/jobpost-checker/internal/trends"
)

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show the most frequently requested skills",
	Long:  "Show skill trends accumulated across every analyzed posting, ordered by total occurrences.",
	RunE:  runTrends,
}

var trendsLimit int

func init() {
	trendsCmd.Flags().IntVarP(&trendsLimit, "limit", "n", 0, "Number of skills to show (defaults to top_n from config)")

	rootCmd.AddCommand(trendsCmd)
}

func runTrends(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	limit := appConfig.TopN
	if cmd.Flags().Changed("limit") {
		limit = trendsLimit
	}

	store, closeStore, err := openStore(ctx, appConfig)
	if err != nil {
		return err
	}
	defer closeStore()

	top, err := trends.NewAggregator(store, logger).Top(ctx, limit)
	if err != nil {
		return err
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintTrends(top)
	return nil
}
