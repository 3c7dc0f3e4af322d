package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// maxTokenLength drops encoded blobs and inline URLs that survive tag stripping.
	maxTokenLength = 50
)

var hexTokenPattern = regexp.MustCompile(`^[a-f0-9]{20,}$`)

// CleanText collapses all whitespace, line breaks included, to single spaces and
// drops noise tokens. Applying it to its own output is a no-op.
func CleanText(content string) string {
	words := strings.Fields(content)
	kept := words[:0]
	for _, w := range words {
		if isNoiseToken(w) {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

// isNoiseToken reports whether a token is too long to be a word or looks like a hash.
func isNoiseToken(w string) bool {
	if utf8.RuneCountInString(w) > maxTokenLength {
		return true
	}
	return hexTokenPattern.MatchString(strings.ToLower(w))
}

// collapseWhitespace joins all whitespace-separated fields with single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// IngestFromFile reads a saved page (HTML or plain text) and extracts its job content.
// The file name stands in for the page URL when deriving a company fallback.
func IngestFromFile(path, pageURL string) (JobContent, *Metadata, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return JobContent{}, nil, fmt.Errorf("file not found: %w", err)
		}
		return JobContent{}, nil, fmt.Errorf("failed to read file: %w", err)
	}

	job := ExtractJobContent(string(content), pageURL)
	metadata := NewMetadata(job, pageURL)

	return job, metadata, nil
}

// WriteOutput writes the cleaned text and metadata to output files
func WriteOutput(outDir string, job JobContent, metadata *Metadata) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	cleanedPath := filepath.Join(outDir, "job_posting.cleaned.txt")
	if err := os.WriteFile(cleanedPath, []byte(job.Content), 0644); err != nil {
		return fmt.Errorf("failed to write cleaned text file: %w", err)
	}

	metaPath := filepath.Join(outDir, "job_posting.meta.json")
	metaJSON, err := metadata.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(metaPath, metaJSON, 0644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}

	return nil
}
