// Package dates extracts the "posted" date of a job posting from raw page text.
//
// Extraction runs a fixed cascade of strategies (meta tags, JSON-LD, field lines,
// free text). Strategies that surface several dates pick one with SelectBest.
package dates

import "time"

// Source identifies the strategy that produced a candidate.
type Source string

const (
	SourceMetaTag        Source = "meta_tag"
	SourceStructuredData Source = "structured_data"
	SourceLinePattern    Source = "line_pattern"
	SourceTextPattern    Source = "text_pattern"
)

// Candidate is an unconfirmed date value together with where it was found.
// Parsed and DaysFromToday are nil until the candidate has been parsed.
type Candidate struct {
	RawText        string     `json:"raw_text"`
	NormalizedText string     `json:"normalized_text"`
	Source         Source     `json:"source"`
	Parsed         *time.Time `json:"parsed_date,omitempty"`
	DaysFromToday  *int       `json:"days_from_today,omitempty"`
}

func newCandidate(raw string, source Source) Candidate {
	return Candidate{
		RawText:        raw,
		NormalizedText: NormalizeDate(raw),
		Source:         source,
	}
}

// IsParsed reports whether a calendar date was attached to the candidate.
func (c *Candidate) IsParsed() bool {
	return c != nil && c.Parsed != nil && c.DaysFromToday != nil
}

// Annotate parses the candidate's normalized text and attaches the parsed date and
// its distance from today. It returns false (leaving c untouched) when parsing fails.
func (c *Candidate) Annotate(today time.Time) bool {
	parsed, err := Parse(c.NormalizedText)
	if err != nil {
		return false
	}
	days := DaysBetween(today, parsed)
	c.Parsed = &parsed
	c.DaysFromToday = &days
	return true
}

const secondsPerDay = 24 * 60 * 60

// DaysBetween returns today - d in whole calendar days. Each value keeps its own
// location, so "2025-08-04T23:00:00-05:00" counts as the 4th.
func DaysBetween(today, d time.Time) int {
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	p := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	// Sub saturates past ~292 years, so count in Unix seconds.
	return int((t.Unix() - p.Unix()) / secondsPerDay)
}
