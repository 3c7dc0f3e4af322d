package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobpost-checker/internal/observability"
	"github.com/jonathan/jobpost-checker/internal/pipeline"
)

var batchCmd = &cobra.Command{
	Use:   "batch [url...]",
	Short: "Analyze several job postings one after another",
	Long: `Analyze each URL in order, one at a time. A failing URL is reported and the
batch moves on. URLs come from the arguments and from --urls-file (one per line,
'#' starts a comment).`,
	RunE: runBatch,
}

var (
	batchURLsFile    string
	batchSummaryOut  string
	batchNoSave      bool
	batchNoCache     bool
	batchSkillsMatch float64
)

func init() {
	batchCmd.Flags().StringVar(&batchURLsFile, "urls-file", "", "File with one URL per line (defaults to urls_file from config)")
	batchCmd.Flags().StringVar(&batchSummaryOut, "summary-out", "", "Write the batch summary JSON to this path")
	batchCmd.Flags().BoolVar(&batchNoSave, "no-save", false, "Do not record skills in the trend store")
	batchCmd.Flags().BoolVar(&batchNoCache, "no-cache", false, "Bypass the page cache")
	batchCmd.Flags().Float64Var(&batchSkillsMatch, "skills-match", 0, "Your skills match percentage (0-100), adjusts the priority score")

	rootCmd.AddCommand(batchCmd)
}

// collectURLs merges positional URLs with the URL list file, if any.
func collectURLs(args []string, urlsFile string) ([]string, error) {
	urls := append([]string{}, args...)
	if urlsFile != "" {
		fromFile, err := pipeline.ReadURLsFile(urlsFile)
		if err != nil {
			return nil, err
		}
		urls = append(urls, fromFile...)
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("no URLs to analyze: pass URLs as arguments or use --urls-file")
	}
	return urls, nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	urlsFile := appConfig.URLsFile
	if cmd.Flags().Changed("urls-file") {
		urlsFile = batchURLsFile
	}
	urls, err := collectURLs(args, urlsFile)
	if err != nil {
		return err
	}

	skillsMatch, err := skillsMatchSetting(cmd, batchSkillsMatch)
	if err != nil {
		return err
	}

	analyzer, _, cleanup, err := newAnalyzer(ctx, appConfig, analyzerSettings{
		noSave:      batchNoSave,
		noCache:     batchNoCache,
		skillsMatch: skillsMatch,
	})
	if err != nil {
		return err
	}
	defer cleanup()

	printer := observability.NewPrinter(cmd.OutOrStdout())
	items := analyzer.AnalyzeBatch(ctx, urls)
	for _, it := range items {
		if it.Err != nil {
			printer.PrintFailure(it.URL, it.Err)
			continue
		}
		printer.PrintAnalysis(it.Result)
	}

	summary := pipeline.Summarize(items)
	printer.PrintSummary(summary)

	if batchSummaryOut != "" {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal summary: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(batchSummaryOut), 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(batchSummaryOut, data, 0644); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Summary: %s\n", batchSummaryOut)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("batch interrupted after %d of %d URLs: %w", len(items), len(urls), err)
	}
	return nil
}
