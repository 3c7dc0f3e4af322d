// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/jobpost-checker/internal/pipeline"
	"github.com/jonathan/jobpost-checker/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 10
)

// Printer handles formatted output for CLI results
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad truncates or right-pads line to the box's inner width, counting runes.
func pad(line string) string {
	width := boxWidth - 4
	n := utf8.RuneCountInString(line)
	if n > width {
		r := []rune(line)
		return string(r[:width-3]) + "..."
	}
	return line + strings.Repeat(" ", width-n)
}

// PrintAnalysis outputs the verdict, posting date and skills of one analysis.
func (p *Printer) PrintAnalysis(res *pipeline.Result) {
	if res == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("URL:        %s\n", res.URL))
	sb.WriteString(fmt.Sprintf("Company:    %s\n", res.Company))
	sb.WriteString(fmt.Sprintf("Position:   %s\n", res.JobTitle))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("Outcome:    %s\n", res.OutcomeMessage))
	if c := res.DateInfo; c != nil {
		sb.WriteString(fmt.Sprintf("Date Found: %s\n", c.RawText))
		sb.WriteString(fmt.Sprintf("Source:     %s\n", c.Source))
		if c.Parsed != nil {
			sb.WriteString(fmt.Sprintf("Parsed:     %s\n", c.Parsed.Format("2006-01-02")))
		} else {
			sb.WriteString("Parsed:     Could not parse\n")
		}
	} else {
		sb.WriteString("Date Found: Not found\n")
	}
	if res.DaysSincePosted != nil {
		sb.WriteString(fmt.Sprintf("Days Since: %d\n", *res.DaysSincePosted))
	} else {
		sb.WriteString("Days Since: Unknown\n")
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("Recommendation: %s\n", res.Recommendation.Decision))
	sb.WriteString(fmt.Sprintf("  %s\n", res.Recommendation.Reason))
	sb.WriteString(fmt.Sprintf("Urgency: %s   Priority: %d/10\n", res.Recommendation.Urgency, res.Priority))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("Technical Skills Found: %d\n", len(res.Skills)))
	sb.WriteString(fmt.Sprintf("Total Skill Mentions:   %d\n", res.TotalMentions))
	if len(res.Skills) > 0 {
		count := min(len(res.Skills), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s (%d)\n", res.Skills[i].SkillName, res.Skills[i].Count))
		}
		if len(res.Skills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(res.Skills)-maxItemsToShow))
		}
	}

	switch {
	case res.PersistError != nil:
		sb.WriteString(fmt.Sprintf("\n⚠️  Not saved: %v\n", res.PersistError))
	case res.Saved():
		sb.WriteString("\nSaved to skill trends\n")
	}

	p.printBox("JOB POSTING ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFailure outputs a failed analysis.
func (p *Printer) PrintFailure(url string, err error) {
	p.printBox("ANALYSIS FAILED", fmt.Sprintf("URL:   %s\nError: %v", url, err))
}

// PrintTrends outputs the top skill trends.
func (p *Printer) PrintTrends(trends []types.SkillTrend) {
	if len(trends) == 0 {
		p.printBox("TOP TRENDING SKILLS", "No skills recorded yet.")
		return
	}

	var sb strings.Builder
	for i, t := range trends {
		sb.WriteString(fmt.Sprintf("%2d. %-18s | Jobs: %3d | Mentions: %4d | Avg/Job: %4.1f\n",
			i+1, t.SkillName, t.TotalJobs, t.TotalOccurrences, t.AvgPerJob()))
	}

	p.printBox("TOP TRENDING SKILLS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSummary outputs batch statistics.
func (p *Printer) PrintSummary(s pipeline.Summary) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total analyzed:      %d\n", s.TotalAnalyzed))
	sb.WriteString(fmt.Sprintf("Successful:          %d\n", s.SuccessfulAnalyses))
	sb.WriteString(fmt.Sprintf("Failed:              %d\n", s.FailedAnalyses))
	sb.WriteString(fmt.Sprintf("Recommended:         %d\n", s.RecommendedApplications))
	if s.AveragePostingAge != nil {
		sb.WriteString(fmt.Sprintf("Average age (days):  %.1f\n", *s.AveragePostingAge))
	} else {
		sb.WriteString("Average age (days):  n/a\n")
	}

	if len(s.PriorityDistribution) > 0 {
		priorities := make([]int, 0, len(s.PriorityDistribution))
		for k := range s.PriorityDistribution {
			priorities = append(priorities, k)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(priorities)))

		sb.WriteString("\nPriority distribution:\n")
		for _, k := range priorities {
			sb.WriteString(fmt.Sprintf("  %2d: %s %d\n", k, strings.Repeat("█", s.PriorityDistribution[k]), s.PriorityDistribution[k]))
		}
	}

	if len(s.MostCommonSkills) > 0 {
		names := make([]string, len(s.MostCommonSkills))
		for i, sk := range s.MostCommonSkills {
			names[i] = fmt.Sprintf("%s (%d)", sk.SkillName, sk.Postings)
		}
		sb.WriteString("\nMost common skills:\n")
		sb.WriteString("  " + strings.Join(names, ", ") + "\n")
	}

	p.printBox("BATCH SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}
