package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// File names written by WriteFiles.
const (
	SummaryFileName = "skills_summary_report.txt"
	CSVFileName     = "skills_trends.csv"
)

// WriteText renders r as the plain-text summary report.
func WriteText(w io.Writer, r Report) error {
	var b strings.Builder
	b.WriteString("JOB SKILLS ANALYSIS REPORT\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")
	fmt.Fprintf(&b, "Report Generated: %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))

	fmt.Fprintf(&b, "TOP %d MOST IN-DEMAND SKILLS:\n", len(r.Top))
	b.WriteString(strings.Repeat("-", 30) + "\n")
	for _, row := range r.Top {
		fmt.Fprintf(&b, "%2d. %-20s | Occurrences: %3d | Jobs: %3d | Avg/Job: %4.1f\n",
			row.Rank, row.SkillName, row.TotalOccurrences, row.TotalJobs, row.AvgPerJob)
	}

	if len(r.Categories) > 0 {
		b.WriteString("\nSKILLS BY CATEGORY:\n")
		b.WriteString(strings.Repeat("-", 30) + "\n")
		for _, c := range r.Categories {
			fmt.Fprintf(&b, "%-22s %5d  (%.1f%%)\n", c.Name, c.Occurrences, c.Share)
		}
	}

	b.WriteString("\nJOB POSTINGS:\n")
	b.WriteString(strings.Repeat("-", 30) + "\n")
	fmt.Fprintf(&b, "Total postings:   %d\n", r.Stats.TotalJobs)
	fmt.Fprintf(&b, "Unique companies: %d\n", r.Stats.UniqueCompanies)
	fmt.Fprintf(&b, "First analysis:   %s\n", formatOptionalTime(r.Stats.FirstAnalysis))
	fmt.Fprintf(&b, "Latest analysis:  %s\n", formatOptionalTime(r.Stats.LatestAnalysis))

	fmt.Fprintf(&b, "\n\nTOTAL UNIQUE SKILLS TRACKED: %d\n", r.TotalSkills)
	fmt.Fprintf(&b, "TOTAL SKILL MENTIONS: %d\n", r.TotalMentions)
	fmt.Fprintf(&b, "TOTAL JOBS ANALYZED: %d\n", r.Stats.TotalJobs)

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteCSV writes the ranked skills as a CSV series for charting.
func WriteCSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"rank", "skill_name", "total_occurrences", "total_jobs", "avg_per_job", "last_updated"}); err != nil {
		return err
	}
	for _, row := range r.Top {
		rec := []string{
			strconv.Itoa(row.Rank),
			row.SkillName,
			strconv.Itoa(row.TotalOccurrences),
			strconv.Itoa(row.TotalJobs),
			strconv.FormatFloat(row.AvgPerJob, 'f', 2, 64),
			row.LastUpdated.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFiles writes the summary report and the CSV series into dir and returns their paths.
func WriteFiles(dir string, r Report) (summaryPath, csvPath string, err error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create report directory: %w", err)
	}

	summaryPath = filepath.Join(dir, SummaryFileName)
	if err := writeFile(summaryPath, func(w io.Writer) error { return WriteText(w, r) }); err != nil {
		return "", "", fmt.Errorf("failed to write summary report: %w", err)
	}

	csvPath = filepath.Join(dir, CSVFileName)
	if err := writeFile(csvPath, func(w io.Writer) error { return WriteCSV(w, r) }); err != nil {
		return "", "", fmt.Errorf("failed to write trend CSV: %w", err)
	}
	return summaryPath, csvPath, nil
}

func writeFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return "n/a"
	}
	return t.Format("2006-01-02 15:04:05")
}
