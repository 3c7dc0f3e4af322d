package observability

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/jobpost-checker/internal/dates"
	"github.com/jonathan/jobpost-checker/internal/pipeline"
	"github.com/jonathan/jobpost-checker/internal/recommend"
	"github.com/jonathan/jobpost-checker/internal/types"
)

func intPtr(i int) *int { return &i }

func TestPrintAnalysis(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	parsed := time.Date(2025, 8, 5, 0, 0, 0, 0, time.UTC)
	res := &pipeline.Result{
		URL:             "https://careers.acme.com/jobs/1",
		Company:         "Acme Corp",
		JobTitle:        "Senior Engineer",
		Outcome:         pipeline.OutcomeSuccess,
		OutcomeMessage:  pipeline.OutcomeSuccess.Message(),
		DateInfo:        &dates.Candidate{RawText: "2025-08-05", Source: dates.SourceMetaTag, Parsed: &parsed, DaysFromToday: intPtr(5)},
		DaysSincePosted: intPtr(5),
		Recommendation:  recommend.Recommend(intPtr(5)),
		Priority:        9,
		Skills:          []types.SkillOccurrence{{SkillName: "go", Count: 3}, {SkillName: "kubernetes", Count: 1}},
		TotalMentions:   4,
	}

	p.PrintAnalysis(res)
	output := buf.String()

	assert.Contains(t, output, "JOB POSTING ANALYSIS")
	assert.Contains(t, output, "Acme Corp")
	assert.Contains(t, output, "meta_tag")
	assert.Contains(t, output, "Days Since: 5")
	assert.Contains(t, output, string(recommend.DecisionDefinitelyApply))
	assert.Contains(t, output, "Priority: 9/10")
	assert.Contains(t, output, "• go (3)")
}

func TestPrintAnalysis_MissAndPersistError(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAnalysis(&pipeline.Result{
		URL:            "https://careers.acme.com/jobs/2",
		Outcome:        pipeline.OutcomeExtractionMiss,
		OutcomeMessage: pipeline.OutcomeExtractionMiss.Message(),
		Recommendation: recommend.Recommend(nil),
		Priority:       5,
		PersistError:   errors.New("database is locked"),
	})
	output := buf.String()

	assert.Contains(t, output, "Date Found: Not found")
	assert.Contains(t, output, "Days Since: Unknown")
	assert.Contains(t, output, "Not saved: database is locked")
}

func TestPrintAnalysis_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAnalysis(nil)

	assert.Empty(t, buf.String())
}

func TestPrintTrends(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintTrends([]types.SkillTrend{
		{SkillName: "python", TotalOccurrences: 8, TotalJobs: 2},
		{SkillName: "docker", TotalOccurrences: 3, TotalJobs: 3},
	})
	output := buf.String()

	assert.Contains(t, output, "TOP TRENDING SKILLS")
	assert.Contains(t, output, " 1. python")
	assert.Contains(t, output, "Avg/Job:  4.0")
	assert.Contains(t, output, " 2. docker")
}

func TestPrintTrends_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintTrends(nil)

	assert.Contains(t, buf.String(), "No skills recorded yet.")
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	avg := 12.5
	p.PrintSummary(pipeline.Summary{
		TotalAnalyzed:           3,
		SuccessfulAnalyses:      2,
		FailedAnalyses:          1,
		RecommendedApplications: 2,
		AveragePostingAge:       &avg,
		PriorityDistribution:    map[int]int{9: 1, 7: 1},
		MostCommonSkills:        []pipeline.SkillRank{{SkillName: "go", Postings: 2}},
	})
	output := buf.String()

	assert.Contains(t, output, "BATCH SUMMARY")
	assert.Contains(t, output, "Average age (days):  12.5")
	assert.Less(t, strings.Index(output, "   9:"), strings.Index(output, "   7:"))
	assert.Contains(t, output, "go (2)")
}

func TestPrintFailure(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintFailure("https://x.example", errors.New("HTTP status 404"))

	assert.Contains(t, buf.String(), "ANALYSIS FAILED")
	assert.Contains(t, buf.String(), "HTTP status 404")
}

func TestPrintBox_AlignsAndTruncates(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", "short\n"+strings.Repeat("é", 200))

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), line)
	}
	assert.Contains(t, buf.String(), "...")
}
