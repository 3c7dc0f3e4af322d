package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobpost-checker/internal/config"
	"github.com/jonathan/jobpost-checker/internal/ingestion"
	"github.com/jonathan/jobpost-checker/internal/observability"
	"github.com/jonathan/jobpost-checker/internal/pipeline"
	"github.com/jonathan/jobpost-checker/internal/trends"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [url]",
	Short: "Analyze a single job posting",
	Long: `Fetch a job posting, extract its posting date, recommend whether to apply,
and record the technical skills it mentions into the trend store.

Use --file to analyze a saved HTML page instead of fetching; --url then only
labels the posting.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeURL         string
	analyzeFile        string
	analyzeOut         string
	analyzeOutDir      string
	analyzeNoSave      bool
	analyzeNoCache     bool
	analyzeSkillsMatch float64
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeURL, "url", "u", "", "URL of the job posting")
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "Analyze a saved HTML file instead of fetching")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "Write the analysis JSON artifact to this path")
	analyzeCmd.Flags().StringVar(&analyzeOutDir, "out-dir", "", "Write cleaned text and metadata to this directory")
	analyzeCmd.Flags().BoolVar(&analyzeNoSave, "no-save", false, "Do not record skills in the trend store")
	analyzeCmd.Flags().BoolVar(&analyzeNoCache, "no-cache", false, "Bypass the page cache")
	analyzeCmd.Flags().Float64Var(&analyzeSkillsMatch, "skills-match", 0, "Your skills match percentage (0-100), adjusts the priority score")

	rootCmd.AddCommand(analyzeCmd)
}

// analyzerSettings collects what newAnalyzer needs from flags and config.
type analyzerSettings struct {
	noSave      bool
	noCache     bool
	skillsMatch *float64
}

// newAnalyzer wires the fetcher, trend store and aggregator into an Analyzer.
// The aggregator is nil when saving is disabled. The returned cleanup closes
// every opened resource.
func newAnalyzer(ctx context.Context, cfg config.Config, s analyzerSettings) (*pipeline.Analyzer, *trends.Aggregator, func(), error) {
	fetcher, closeFetcher := newFetcher(ctx, cfg, s.noCache)

	var aggregator *trends.Aggregator
	closeStore := func() {}
	if !s.noSave {
		store, closeFn, err := openStore(ctx, cfg)
		if err != nil {
			closeFetcher()
			return nil, nil, nil, err
		}
		closeStore = closeFn
		aggregator = trends.NewAggregator(store, logger)
	}

	analyzer := pipeline.NewAnalyzer(pipeline.Options{
		Fetcher:     fetcher,
		Aggregator:  aggregator,
		SkillsMatch: s.skillsMatch,
		Logger:      logger,
		OnProgress: func(e pipeline.ProgressEvent) {
			logger.Debug(e.Message, "step", e.Step, "url", e.URL)
		},
	})
	return analyzer, aggregator, func() {
		closeStore()
		closeFetcher()
	}, nil
}

// skillsMatchSetting returns the flag value when set, else the configured one.
func skillsMatchSetting(cmd *cobra.Command, flagValue float64) (*float64, error) {
	if !cmd.Flags().Changed("skills-match") {
		return appConfig.SkillsMatchPercentage, nil
	}
	if flagValue < 0 || flagValue > 100 {
		return nil, fmt.Errorf("--skills-match must be between 0 and 100")
	}
	return &flagValue, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	pageURL := analyzeURL
	if len(args) == 1 {
		if analyzeURL != "" {
			return fmt.Errorf("provide the URL either as an argument or with --url, not both")
		}
		pageURL = args[0]
	}
	if pageURL == "" && analyzeFile == "" {
		return fmt.Errorf("either a URL or --file must be provided")
	}

	skillsMatch, err := skillsMatchSetting(cmd, analyzeSkillsMatch)
	if err != nil {
		return err
	}

	analyzer, _, cleanup, err := newAnalyzer(ctx, appConfig, analyzerSettings{
		noSave:      analyzeNoSave,
		noCache:     analyzeNoCache,
		skillsMatch: skillsMatch,
	})
	if err != nil {
		return err
	}
	defer cleanup()

	printer := observability.NewPrinter(cmd.OutOrStdout())

	var res *pipeline.Result
	if analyzeFile != "" {
		content, err := os.ReadFile(analyzeFile)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", analyzeFile, err)
		}
		res = analyzer.AnalyzeContent(ctx, pageURL, string(content))
	} else {
		res, err = analyzer.Analyze(ctx, pageURL)
		if err != nil {
			printer.PrintFailure(pageURL, err)
			return err
		}
	}

	printer.PrintAnalysis(res)

	if analyzeOut != "" {
		if err := pipeline.WriteArtifact(analyzeOut, res); err != nil {
			return fmt.Errorf("failed to write analysis: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Analysis: %s\n", analyzeOut)
	}

	if analyzeOutDir != "" {
		if err := ingestion.WriteOutput(analyzeOutDir, res.Job, ingestion.NewMetadata(res.Job, pageURL)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleaned text: %s/job_posting.cleaned.txt\n", analyzeOutDir)
		fmt.Fprintf(cmd.OutOrStdout(), "Metadata: %s/job_posting.meta.json\n", analyzeOutDir)
	}

	return nil
}
