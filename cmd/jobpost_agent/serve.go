package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobpost-checker/internal/pipeline"
	"github.com/jonathan/jobpost-checker/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP API for analyzing postings and reading skill trends.

Endpoints: POST /analyze, POST /analyze/stream (Server-Sent Events),
GET /trends, GET /stats, GET /report, GET /postings/by-url, GET /health.
Rate limits are read from RATE_LIMIT_* environment variables.`,
	RunE: runServe,
}

var servePort int

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "Port to listen on")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, closeStore, err := openStore(ctx, appConfig)
	if err != nil {
		return err
	}
	defer closeStore()

	fetcher, closeFetcher := newFetcher(ctx, appConfig, false)
	defer closeFetcher()

	srv, err := server.New(server.Config{
		Port:  servePort,
		Store: store,
		Analyzer: pipeline.Options{
			Fetcher:     fetcher,
			SkillsMatch: appConfig.SkillsMatchPercentage,
		},
		TopN:   appConfig.TopN,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}
