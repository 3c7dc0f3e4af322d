package pipeline

import (
	"context"
	"sort"
)

// BatchItem is the outcome of one URL in a batch. Exactly one of Result and Err is set.
type BatchItem struct {
	URL    string
	Result *Result
	Err    error
}

// AnalyzeBatch analyzes urls strictly in order, one at a time. Failures are
// recorded per item and do not stop the batch; cancelling ctx stops it before
// the next URL.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, urls []string) []BatchItem {
	a.logger.Info("starting batch analysis", "urls", len(urls))

	items := make([]BatchItem, 0, len(urls))
	for i, u := range urls {
		if err := ctx.Err(); err != nil {
			a.logger.Warn("batch analysis interrupted", "processed", i, "remaining", len(urls)-i)
			break
		}
		a.logger.Info("analyzing URL", "index", i+1, "total", len(urls), "url", u)
		res, err := a.Analyze(ctx, u)
		items = append(items, BatchItem{URL: u, Result: res, Err: err})
	}

	a.logger.Info("batch analysis completed", "processed", len(items))
	return items
}

// Summary aggregates a batch.
type Summary struct {
	TotalAnalyzed           int         `json:"total_analyzed"`
	SuccessfulAnalyses      int         `json:"successful_analyses"`
	FailedAnalyses          int         `json:"failed_analyses"`
	RecommendedApplications int         `json:"recommended_applications"`
	AveragePostingAge       *float64    `json:"average_posting_age,omitempty"`
	MostCommonSkills        []SkillRank `json:"most_common_skills"`
	PriorityDistribution    map[int]int `json:"priority_distribution"`
}

// SkillRank counts how many postings in a batch mention a skill.
type SkillRank struct {
	SkillName string `json:"skill_name"`
	Postings  int    `json:"postings"`
}

const summaryTopSkills = 10

// Summarize computes batch statistics over the successful items.
func Summarize(items []BatchItem) Summary {
	s := Summary{
		TotalAnalyzed:        len(items),
		MostCommonSkills:     []SkillRank{},
		PriorityDistribution: map[int]int{},
	}

	var ageSum, ageCount int
	postings := map[string]int{}
	for _, it := range items {
		if it.Err != nil || it.Result == nil {
			s.FailedAnalyses++
			continue
		}
		r := it.Result
		s.SuccessfulAnalyses++
		if r.Recommendation.Apply {
			s.RecommendedApplications++
		}
		if r.DaysSincePosted != nil {
			ageSum += *r.DaysSincePosted
			ageCount++
		}
		s.PriorityDistribution[r.Priority]++
		for _, sk := range r.Skills {
			postings[sk.SkillName]++
		}
	}

	if ageCount > 0 {
		avg := float64(ageSum) / float64(ageCount)
		s.AveragePostingAge = &avg
	}

	for name, n := range postings {
		s.MostCommonSkills = append(s.MostCommonSkills, SkillRank{SkillName: name, Postings: n})
	}
	sort.Slice(s.MostCommonSkills, func(i, j int) bool {
		a, b := s.MostCommonSkills[i], s.MostCommonSkills[j]
		if a.Postings != b.Postings {
			return a.Postings > b.Postings
		}
		return a.SkillName < b.SkillName
	})
	if len(s.MostCommonSkills) > summaryTopSkills {
		s.MostCommonSkills = s.MostCommonSkills[:summaryTopSkills]
	}
	return s
}
