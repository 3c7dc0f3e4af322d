package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobpost-checker/internal/ingestion"
)

var ingestJobCmd = &cobra.Command{
	Use:   "ingest-job",
	Short: "Extract the job description from a saved page or URL",
	Long:  "Extract the job description from either a saved page or a URL, clean the content, and output cleaned text with metadata. Nothing is recorded in the trend store.",
	RunE:  runIngestJob,
}

var (
	ingestTextFile string
	ingestURL      string
	ingestOutDir   string
)

func init() {
	ingestJobCmd.Flags().StringVarP(&ingestTextFile, "text-file", "t", "", "Path to a saved HTML or text file containing the job posting")
	ingestJobCmd.Flags().StringVarP(&ingestURL, "url", "u", "", "URL to fetch job posting from (labels the posting when --text-file is set)")
	ingestJobCmd.Flags().StringVarP(&ingestOutDir, "out", "o", "", "Output directory (required)")

	_ = ingestJobCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(ingestJobCmd)
}

func runIngestJob(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if ingestTextFile == "" && ingestURL == "" {
		return fmt.Errorf("either --text-file or --url must be provided")
	}

	var job ingestion.JobContent
	var metadata *ingestion.Metadata
	var err error

	if ingestTextFile != "" {
		job, metadata, err = ingestion.IngestFromFile(ingestTextFile, ingestURL)
		if err != nil {
			return fmt.Errorf("failed to ingest from file: %w", err)
		}
	} else {
		if _, err := ingestion.ValidateURL(ingestURL); err != nil {
			return err
		}
		fetcher, closeFetcher := newFetcher(ctx, appConfig, false)
		defer closeFetcher()

		page, err := fetcher.Fetch(ctx, ingestURL)
		if err != nil {
			return fmt.Errorf("failed to ingest from URL: %w", err)
		}
		job = ingestion.ExtractJobContent(page.HTML, ingestURL)
		metadata = ingestion.NewMetadata(job, ingestURL)
	}

	if job.Content == "" {
		logger.Warn("no job description content found", "source", ingestTextFile+ingestURL)
	}

	if err := ingestion.WriteOutput(ingestOutDir, job, metadata); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Successfully ingested job posting\n")
	fmt.Fprintf(out, "Company: %s\n", job.Company)
	fmt.Fprintf(out, "Title: %s\n", job.JobTitle)
	fmt.Fprintf(out, "Cleaned text: %s/job_posting.cleaned.txt\n", ingestOutDir)
	fmt.Fprintf(out, "Metadata: %s/job_posting.meta.json\n", ingestOutDir)

	return nil
}
