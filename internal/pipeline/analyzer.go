// Package pipeline runs the full analysis of a job posting: fetch, date extraction,
// recommendation, content cleaning, skill matching and trend persistence.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/jobpost-checker/internal/dates"
	"github.com/jonathan/jobpost-checker/internal/fetch"
	"github.com/jonathan/jobpost-checker/internal/ingestion"
	"github.com/jonathan/jobpost-checker/internal/recommend"
	"github.com/jonathan/jobpost-checker/internal/skills"
	"github.com/jonathan/jobpost-checker/internal/trends"
	"github.com/jonathan/jobpost-checker/internal/types"
)

// Step names reported through ProgressEvent.
const (
	StepFetch   = "fetch"
	StepDate    = "posting_date"
	StepClean   = "clean"
	StepSkills  = "skills"
	StepPersist = "persist"
)

// ProgressEvent represents a progress update during an analysis
type ProgressEvent struct {
	Step    string `json:"step"`
	URL     string `json:"url"`
	Message string `json:"message"`
}

// ProgressCallback is called when analysis progress occurs
type ProgressCallback func(event ProgressEvent)

// Options configures an Analyzer. Zero values select the defaults.
type Options struct {
	Fetcher    fetch.Fetcher
	Extractor  *dates.Extractor
	Matcher    *skills.Matcher
	Aggregator *trends.Aggregator // nil disables persistence
	// SkillsMatch is an optional 0-100 percentage passed to the priority score.
	SkillsMatch *float64
	Logger      *slog.Logger
	OnProgress  ProgressCallback
	// Now supplies both "today" for date arithmetic and the analysis timestamp.
	Now func() time.Time
}

// Analyzer analyzes one posting at a time.
type Analyzer struct {
	fetcher     fetch.Fetcher
	extractor   *dates.Extractor
	matcher     *skills.Matcher
	aggregator  *trends.Aggregator
	skillsMatch *float64
	logger      *slog.Logger
	onProgress  ProgressCallback
	now         func() time.Time
}

// Result is everything learned about one posting.
type Result struct {
	URL             string                   `json:"url"`
	Company         string                   `json:"company"`
	JobTitle        string                   `json:"job_title"`
	Outcome         Outcome                  `json:"outcome"`
	OutcomeMessage  string                   `json:"outcome_message"`
	DateInfo        *dates.Candidate         `json:"date_info,omitempty"`
	DaysSincePosted *int                     `json:"days_since_posted,omitempty"`
	Recommendation  recommend.Recommendation `json:"recommendation"`
	Priority        int                      `json:"priority_score"`
	Skills          []types.SkillOccurrence  `json:"skills"`
	TotalMentions   int                      `json:"total_mentions"`
	AnalyzedAt      time.Time                `json:"analyzed_at"`
	PostingID       *uuid.UUID               `json:"posting_id,omitempty"`

	// Job is the cleaned content the skills were matched against.
	Job ingestion.JobContent `json:"-"`
	// PersistError is set when saving failed. The rest of the result is still valid.
	PersistError error `json:"-"`
}

// Saved reports whether the posting was written to the trend store.
func (r *Result) Saved() bool {
	return r.PostingID != nil
}

// NewAnalyzer creates an Analyzer from opts.
func NewAnalyzer(opts Options) *Analyzer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	a := &Analyzer{
		fetcher:     opts.Fetcher,
		extractor:   opts.Extractor,
		matcher:     opts.Matcher,
		aggregator:  opts.Aggregator,
		skillsMatch: opts.SkillsMatch,
		logger:      logger,
		onProgress:  opts.OnProgress,
		now:         opts.Now,
	}
	if a.fetcher == nil {
		a.fetcher = fetch.NewHTTPFetcher(nil)
	}
	if a.extractor == nil {
		a.extractor = dates.NewExtractor(logger)
	}
	if a.matcher == nil {
		a.matcher = skills.NewMatcher(nil, logger)
	}
	if a.now == nil {
		a.now = time.Now
	}
	return a
}

// Analyze validates and fetches pageURL, then analyzes the page. Only an invalid
// URL (ErrInvalidURL) or a failed fetch (*FetchError) return an error; every
// later step degrades to empty values instead.
func (a *Analyzer) Analyze(ctx context.Context, pageURL string) (*Result, error) {
	if _, err := ingestion.ValidateURL(pageURL); err != nil {
		a.logger.Error("invalid URL", "url", pageURL, "error", err)
		return nil, err
	}

	a.emit(StepFetch, pageURL, "Fetching page")
	page, err := a.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		a.logger.Error("failed to fetch page", "url", pageURL, "error", err)
		return nil, &FetchError{URL: pageURL, Cause: err}
	}
	a.logger.Info("fetched page", "url", pageURL, "status", page.StatusCode, "from_cache", page.FromCache)

	return a.AnalyzeContent(ctx, pageURL, page.HTML), nil
}

// AnalyzeContent analyzes already-fetched page content.
func (a *Analyzer) AnalyzeContent(ctx context.Context, pageURL, raw string) *Result {
	now := a.now()
	res := &Result{URL: pageURL, AnalyzedAt: now.UTC()}

	a.emit(StepDate, pageURL, "Extracting posting date")
	candidate := a.extractor.Extract(raw, now)
	res.DateInfo = candidate
	switch {
	case candidate == nil:
		res.Outcome = OutcomeExtractionMiss
		res.Recommendation = recommend.Recommend(nil)
	case !candidate.IsParsed():
		res.Outcome = OutcomeParseFailure
		res.Recommendation = recommend.RecommendParseFailure(candidate.RawText)
	default:
		res.Outcome = OutcomeSuccess
		res.DaysSincePosted = candidate.DaysFromToday
		res.Recommendation = recommend.Recommend(candidate.DaysFromToday)
	}
	res.OutcomeMessage = res.Outcome.Message()
	res.Priority = recommend.Priority(res.DaysSincePosted, a.skillsMatch)

	a.emit(StepClean, pageURL, "Extracting job content")
	res.Job = ingestion.ExtractJobContent(raw, pageURL)
	res.Company = res.Job.Company
	res.JobTitle = res.Job.JobTitle

	a.emit(StepSkills, pageURL, "Matching skills")
	found := a.matcher.Match(res.Job.Content)
	res.Skills = skills.Ranked(found)
	for _, s := range res.Skills {
		res.TotalMentions += s.Count
	}

	a.persist(ctx, res, found)
	return res
}

// persist saves postings that yielded at least one skill.
func (a *Analyzer) persist(ctx context.Context, res *Result, found map[string]types.SkillOccurrence) {
	if a.aggregator == nil {
		return
	}
	if res.Job.Content == "" || len(found) == 0 {
		a.logger.Warn("no technical skills found, posting not saved", "url", res.URL)
		return
	}

	a.emit(StepPersist, res.URL, "Saving skill trends")
	id, err := a.aggregator.Record(ctx, types.JobPostingRecord{
		URL:         res.URL,
		Company:     res.Company,
		JobTitle:    res.JobTitle,
		PostingDate: postingDate(res.DateInfo),
		AnalyzedAt:  res.AnalyzedAt,
		RawText:     res.Job.Content,
	}, found)
	if err != nil {
		a.logger.Error("failed to save analysis", "url", res.URL, "error", err)
		res.PersistError = err
		return
	}
	res.PostingID = &id
}

// postingDate is the stored form of the resolved date: ISO day when parsed,
// the raw text otherwise.
func postingDate(c *dates.Candidate) *string {
	if c == nil {
		return nil
	}
	s := c.RawText
	if c.IsParsed() {
		s = c.Parsed.Format("2006-01-02")
	}
	return &s
}

func (a *Analyzer) emit(step, pageURL, message string) {
	if a.onProgress != nil {
		a.onProgress(ProgressEvent{Step: step, URL: pageURL, Message: message})
	}
}
