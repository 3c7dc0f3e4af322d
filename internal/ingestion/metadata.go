package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Metadata describes one cleaned job posting
type Metadata struct {
	URL           string `json:"url,omitempty"`
	Timestamp     string `json:"timestamp"` // RFC3339 format
	Hash          string `json:"hash"`      // SHA256 hex digest of the cleaned content
	Company       string `json:"company,omitempty"`
	JobTitle      string `json:"job_title,omitempty"`
	ContentLength int    `json:"content_length"`
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(job JobContent, url string) *Metadata {
	return &Metadata{
		URL:           url,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Hash:          computeHash(job.Content),
		Company:       job.Company,
		JobTitle:      job.JobTitle,
		ContentLength: len(job.Content),
	}
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to pretty-printed JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}
