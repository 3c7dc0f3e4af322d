package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobpost-checker/internal/config"
	"github.com/jonathan/jobpost-checker/internal/report"
	"github.com/jonathan/jobpost-checker/internal/trends"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write the skill trends report",
	Long: `Generate the analytics report: top skills with averages per job, category
totals and posting statistics. The report is written to the report directory as
a text summary and a CSV file, and optionally sent to Telegram.`,
	RunE: runReport,
}

var (
	reportTop      int
	reportDir      string
	reportTelegram bool
)

func init() {
	reportCmd.Flags().IntVar(&reportTop, "top", 0, "Number of skills in the report (defaults to top_n from config)")
	reportCmd.Flags().StringVar(&reportDir, "report-dir", "", "Output directory (defaults to report_dir from config)")
	reportCmd.Flags().BoolVar(&reportTelegram, "telegram", false, "Also send a digest to the configured Telegram chat")

	rootCmd.AddCommand(reportCmd)
}

// reportSinks builds the sinks a report is published to.
func reportSinks(cfg config.Config, toTelegram bool) ([]report.Sink, error) {
	sinks := []report.Sink{&report.FileSink{Dir: cfg.ReportDir, Logger: logger}}
	if toTelegram {
		tg, err := report.NewTelegramSink(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, tg)
	}
	return sinks, nil
}

// publishReport generates the report from agg and hands it to every sink.
// Every sink is attempted; their errors are joined.
func publishReport(ctx context.Context, agg *trends.Aggregator, topN int, sinks []report.Sink) (report.Report, error) {
	r, err := report.Generate(ctx, agg, topN, time.Now())
	if err != nil {
		return report.Report{}, err
	}

	var errs []error
	for _, s := range sinks {
		if err := s.Publish(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return r, errors.Join(errs...)
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg := appConfig
	if cmd.Flags().Changed("top") {
		cfg.TopN = reportTop
	}
	if cmd.Flags().Changed("report-dir") {
		cfg.ReportDir = reportDir
	}

	sinks, err := reportSinks(cfg, reportTelegram)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	r, err := publishReport(ctx, trends.NewAggregator(store, logger), cfg.TopN, sinks)
	if err != nil {
		return fmt.Errorf("failed to publish report: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report: %s/%s\n", cfg.ReportDir, report.SummaryFileName)
	fmt.Fprintf(cmd.OutOrStdout(), "Trends: %s/%s\n", cfg.ReportDir, report.CSVFileName)
	logger.Info("report generated", "skills", r.TotalSkills, "postings", r.Stats.TotalJobs)
	return nil
}
