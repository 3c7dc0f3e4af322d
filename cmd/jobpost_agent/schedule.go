package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobpost-checker/internal/pipeline"
	"github.com/jonathan/jobpost-checker/internal/report"
	"github.com/jonathan/jobpost-checker/internal/scheduler"
	"github.com/jonathan/jobpost-checker/internal/trends"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Re-analyze a URL list on a cron schedule",
	Long: `Run the batch analysis over the URL list on a cron schedule until interrupted.
A cycle that is still running when the next tick fires is not started twice.
With --report the analytics report is regenerated after every cycle.`,
	RunE: runSchedule,
}

var (
	scheduleSpec     string
	scheduleURLsFile string
	scheduleRunNow   bool
	scheduleReport   bool
	scheduleTelegram bool
)

func init() {
	scheduleCmd.Flags().StringVar(&scheduleSpec, "spec", "", "Cron spec, 5 fields (defaults to schedule from config)")
	scheduleCmd.Flags().StringVar(&scheduleURLsFile, "urls-file", "", "File with one URL per line (defaults to urls_file from config)")
	scheduleCmd.Flags().BoolVar(&scheduleRunNow, "run-now", false, "Run one cycle immediately on start")
	scheduleCmd.Flags().BoolVar(&scheduleReport, "report", false, "Regenerate the report after every cycle")
	scheduleCmd.Flags().BoolVar(&scheduleTelegram, "telegram", false, "Send the report digest to Telegram after every cycle (implies --report)")

	rootCmd.AddCommand(scheduleCmd)
}

// batchCycle returns the scheduled job: re-read the URL list, analyze it and
// optionally publish a report.
func batchCycle(analyzer *pipeline.Analyzer, agg *trends.Aggregator, urlsFile string, topN int, sinks []report.Sink) scheduler.Job {
	return func(ctx context.Context) error {
		urls, err := pipeline.ReadURLsFile(urlsFile)
		if err != nil {
			return err
		}
		if len(urls) == 0 {
			logger.Warn("URL list is empty, nothing to analyze", "path", urlsFile)
			return nil
		}

		summary := pipeline.Summarize(analyzer.AnalyzeBatch(ctx, urls))
		logger.Info("cycle summary",
			"analyzed", summary.TotalAnalyzed,
			"failed", summary.FailedAnalyses,
			"recommended", summary.RecommendedApplications)

		if len(sinks) == 0 || agg == nil {
			return nil
		}
		if _, err := publishReport(ctx, agg, topN, sinks); err != nil {
			return fmt.Errorf("failed to publish report: %w", err)
		}
		return nil
	}
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg := appConfig
	if cmd.Flags().Changed("spec") {
		cfg.Schedule = scheduleSpec
	}
	if cmd.Flags().Changed("urls-file") {
		cfg.URLsFile = scheduleURLsFile
	}
	if cfg.URLsFile == "" {
		return fmt.Errorf("a URL list is required: use --urls-file or set urls_file in config")
	}

	var sinks []report.Sink
	if scheduleReport || scheduleTelegram {
		var err error
		if sinks, err = reportSinks(cfg, scheduleTelegram); err != nil {
			return err
		}
	}

	analyzer, agg, cleanup, err := newAnalyzer(ctx, cfg, analyzerSettings{skillsMatch: cfg.SkillsMatchPercentage})
	if err != nil {
		return err
	}
	defer cleanup()

	sched, err := scheduler.New(cfg.Schedule, batchCycle(analyzer, agg, cfg.URLsFile, cfg.TopN, sinks), logger)
	if err != nil {
		return err
	}
	if err := sched.Start(ctx, scheduleRunNow); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Scheduled batch analysis (%s) of %s. Press Ctrl+C to stop.\n", cfg.Schedule, cfg.URLsFile)

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	sched.Stop(stopCtx)
	return nil
}
