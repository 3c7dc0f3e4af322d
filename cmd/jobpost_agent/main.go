// Package main provides the entry point for the job posting checker CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jobpost_agent",
	Short: "Job posting freshness checker and skill trend tracker",
	Long: `jobpost_agent fetches job postings, works out how long ago each one was posted,
recommends whether it is still worth applying, and accumulates technical skill
trends across every posting it has analyzed.

Configuration can be loaded from a JSON or YAML file using --config. Environment
variables override the file, and command-line flags override both.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupApp,
}

var (
	configPath string
	verbose    bool
	logJSON    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (.json, .yaml or .yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Emit logs as JSON")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
