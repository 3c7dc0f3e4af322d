// Package report renders skill trend reports to files and chat.
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jonathan/jobpost-checker/internal/types"
)

// DefaultTopN is how many skills a report lists.
const DefaultTopN = 15

// allTrendsLimit bounds the trend rows loaded to compute report totals.
const allTrendsLimit = 10000

// Category groups related skills for the category rollup.
type Category struct {
	Name   string
	Skills []string
}

// Categories is the fixed category rollup used in reports.
var Categories = []Category{
	{Name: "Programming Languages", Skills: []string{"python", "java", "javascript", "typescript", "c++", "c#", "go", "rust"}},
	{Name: "Web Technologies", Skills: []string{"react", "angular", "vue", "node.js", "django", "flask", "spring"}},
	{Name: "Databases", Skills: []string{"mysql", "postgresql", "mongodb", "redis", "sqlite"}},
	{Name: "Cloud & DevOps", Skills: []string{"aws", "azure", "docker", "kubernetes", "jenkins"}},
	{Name: "Data Science", Skills: []string{"machine learning", "deep learning", "pandas", "tensorflow", "pytorch"}},
}

// Row is one ranked skill.
type Row struct {
	Rank int `json:"rank"`
	types.SkillTrend
	AvgPerJob float64 `json:"avg_per_job"`
}

// CategoryTotal is the occurrence sum of one category and its share of all categorized mentions.
type CategoryTotal struct {
	Name        string  `json:"name"`
	Occurrences int     `json:"occurrences"`
	Share       float64 `json:"share_percent"`
}

// Report is a snapshot of skill trends.
type Report struct {
	GeneratedAt   time.Time          `json:"generated_at"`
	Top           []Row              `json:"top"`
	Categories    []CategoryTotal    `json:"categories"`
	TotalSkills   int                `json:"total_skills"`
	TotalMentions int                `json:"total_mentions"`
	Stats         types.PostingStats `json:"stats"`
}

// Source supplies trend data. *trends.Aggregator implements it.
type Source interface {
	Top(ctx context.Context, limit int) ([]types.SkillTrend, error)
	Stats(ctx context.Context) (types.PostingStats, error)
}

// Generate loads trends and posting stats from src and builds a report.
func Generate(ctx context.Context, src Source, topN int, now time.Time) (Report, error) {
	all, err := src.Top(ctx, allTrendsLimit)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load trends: %w", err)
	}
	stats, err := src.Stats(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load posting stats: %w", err)
	}
	return Build(all, topN, stats, now), nil
}

// Build computes a report from every known trend. Trends are ranked by total
// occurrences, then name.
func Build(all []types.SkillTrend, topN int, stats types.PostingStats, now time.Time) Report {
	if topN <= 0 {
		topN = DefaultTopN
	}

	sorted := make([]types.SkillTrend, len(all))
	copy(sorted, all)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].TotalOccurrences != sorted[j].TotalOccurrences {
			return sorted[i].TotalOccurrences > sorted[j].TotalOccurrences
		}
		return sorted[i].SkillName < sorted[j].SkillName
	})

	r := Report{
		GeneratedAt: now,
		TotalSkills: len(sorted),
		Stats:       stats,
	}
	byName := make(map[string]int, len(sorted))
	for i, t := range sorted {
		r.TotalMentions += t.TotalOccurrences
		byName[t.SkillName] = t.TotalOccurrences
		if i < topN {
			r.Top = append(r.Top, Row{Rank: i + 1, SkillTrend: t, AvgPerJob: t.AvgPerJob()})
		}
	}

	var categorized int
	for _, c := range Categories {
		total := 0
		for _, s := range c.Skills {
			total += byName[s]
		}
		if total > 0 {
			r.Categories = append(r.Categories, CategoryTotal{Name: c.Name, Occurrences: total})
			categorized += total
		}
	}
	for i := range r.Categories {
		r.Categories[i].Share = 100 * float64(r.Categories[i].Occurrences) / float64(categorized)
	}
	return r
}
