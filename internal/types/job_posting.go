// Package types provides type definitions for structured data shared by the analyzer, storage, and reporting layers.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// JobPostingRecord is the persisted view of one analyzed posting. URL is the unique key;
// re-analysing the same URL replaces every other field.
type JobPostingRecord struct {
	ID          uuid.UUID `json:"id"`
	URL         string    `json:"url"`
	Company     string    `json:"company"`
	JobTitle    string    `json:"job_title"`
	PostingDate *string   `json:"posting_date,omitempty"`
	AnalyzedAt  time.Time `json:"analyzed_at"`
	RawText     string    `json:"raw_text"` // cleaned job content, not the page markup
}

// PostingStats summarises the postings table for reports.
type PostingStats struct {
	TotalJobs       int        `json:"total_jobs"`
	UniqueCompanies int        `json:"unique_companies"`
	FirstAnalysis   *time.Time `json:"first_analysis,omitempty"`
	LatestAnalysis  *time.Time `json:"latest_analysis,omitempty"`
}
