// Package types provides type definitions for structured data shared by the analyzer, storage, and reporting layers.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// MaxContextSnippets bounds the number of context snippets kept per skill.
const MaxContextSnippets = 3

// SkillOccurrence is the per-posting count of one vocabulary skill.
// Count only includes matches that survived false-positive filtering.
type SkillOccurrence struct {
	SkillName string   `json:"skill_name"`
	Count     int      `json:"occurrence_count"`
	Contexts  []string `json:"context_snippets,omitempty"`
}

// SkillTrend is the cross-posting rollup for a skill. Both counters only grow.
type SkillTrend struct {
	SkillName        string    `json:"skill_name"`
	TotalOccurrences int       `json:"total_occurrences"`
	TotalJobs        int       `json:"total_jobs"`
	LastUpdated      time.Time `json:"last_updated"`
}

// AvgPerJob returns total_occurrences / total_jobs, or 0 when no job was counted.
func (t SkillTrend) AvgPerJob() float64 {
	if t.TotalJobs == 0 {
		return 0
	}
	return float64(t.TotalOccurrences) / float64(t.TotalJobs)
}
