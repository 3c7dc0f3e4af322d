package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobpost-checker/internal/db"
	"github.com/jonathan/jobpost-checker/internal/fetch"
	"github.com/jonathan/jobpost-checker/internal/recommend"
	"github.com/jonathan/jobpost-checker/internal/trends"
	"github.com/jonathan/jobpost-checker/internal/types"
)

var testNow = time.Date(2025, 8, 10, 15, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func postingPage(dateMeta string) string {
	return `<!DOCTYPE html>
<html>
<head>
  <title>Senior Go Engineer at Acme Robotics</title>
  <meta property="og:site_name" content="Acme Robotics">
  ` + dateMeta + `
</head>
<body>
  <header class="site-header"><nav>Home Jobs About</nav></header>
  <main>
    <h1 class="job-title">Senior Go Engineer</h1>
    <div class="job-description">
      <p>We are looking for a backend engineer with 5+ years of experience building distributed systems in Go.</p>
      <ul>
        <li>Design APIs with PostgreSQL and Redis</li>
        <li>Deploy on Kubernetes and AWS</li>
      </ul>
    </div>
    <div class="requirements">
      <p>Requirements: strong communication skills, a degree in computer science or equivalent practical experience.</p>
    </div>
  </main>
  <footer>&copy; 2025 Acme Robotics. All rights reserved.</footer>
</body>
</html>`
}

const datedMeta = `<meta property="article:published_time" content="2025-08-05T10:00:00Z">`

type pageFetcher struct {
	pages map[string]string
	calls []string
}

func (f *pageFetcher) Fetch(_ context.Context, urlStr string) (*fetch.Result, error) {
	f.calls = append(f.calls, urlStr)
	html, ok := f.pages[urlStr]
	if !ok {
		return &fetch.Result{URL: urlStr, StatusCode: 404}, &fetch.Error{
			URL: urlStr, Kind: fetch.KindHTTPStatus, StatusCode: 404, Message: "HTTP status 404",
		}
	}
	return &fetch.Result{URL: urlStr, HTML: html, StatusCode: 200}, nil
}

// failingStore rejects every write.
type failingStore struct{}

func (failingStore) WithinTx(context.Context, func(trends.Writer) error) error {
	return errors.New("database is locked")
}

func (failingStore) TopTrends(context.Context, int) ([]types.SkillTrend, error) { return nil, nil }

func (failingStore) PostingStats(context.Context) (types.PostingStats, error) {
	return types.PostingStats{}, nil
}

func openStore(t *testing.T) *db.SQLite {
	t.Helper()
	s, err := db.OpenSQLite(filepath.Join(t.TempDir(), "skills.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func skillNames(res *Result) []string {
	names := make([]string, len(res.Skills))
	for i, s := range res.Skills {
		names[i] = s.SkillName
	}
	return names
}

func TestAnalyze_FreshPosting(t *testing.T) {
	const url = "https://careers.acme.com/jobs/1"
	store := openStore(t)
	var steps []string

	a := NewAnalyzer(Options{
		Fetcher:    &pageFetcher{pages: map[string]string{url: postingPage(datedMeta)}},
		Aggregator: trends.NewAggregator(store, nil),
		Now:        fixedNow,
		OnProgress: func(e ProgressEvent) { steps = append(steps, e.Step) },
	})

	res, err := a.Analyze(context.Background(), url)
	require.NoError(t, err)

	assert.Equal(t, OutcomeSuccess, res.Outcome)
	require.NotNil(t, res.DaysSincePosted)
	assert.Equal(t, 5, *res.DaysSincePosted)
	assert.True(t, res.Recommendation.Apply)
	assert.Equal(t, recommend.UrgencyUrgent, res.Recommendation.Urgency)
	assert.Equal(t, 9, res.Priority)
	assert.Equal(t, "Acme Robotics", res.Company)
	assert.Equal(t, "Senior Go Engineer", res.JobTitle)
	assert.Subset(t, skillNames(res), []string{"go", "postgresql", "redis", "kubernetes", "aws"})
	assert.Equal(t, testNow, res.AnalyzedAt)
	assert.Equal(t, []string{StepFetch, StepDate, StepClean, StepSkills, StepPersist}, steps)

	require.True(t, res.Saved())
	require.NoError(t, res.PersistError)

	stored, err := store.GetPostingByURL(context.Background(), url)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, *res.PostingID, stored.ID)
	require.NotNil(t, stored.PostingDate)
	assert.Equal(t, "2025-08-05", *stored.PostingDate)
	assert.Equal(t, res.Job.Content, stored.RawText)
	assert.NotContains(t, stored.RawText, "<")
}

func TestAnalyze_InvalidURL(t *testing.T) {
	fetcher := &pageFetcher{}
	a := NewAnalyzer(Options{Fetcher: fetcher, Now: fixedNow})

	for _, raw := range []string{"", "careers.acme.com/jobs/1", "ftp://acme.com/x", "https://"} {
		_, err := a.Analyze(context.Background(), raw)
		assert.ErrorIs(t, err, ErrInvalidURL, raw)
	}
	assert.Empty(t, fetcher.calls)
}

func TestAnalyze_FetchFailure(t *testing.T) {
	a := NewAnalyzer(Options{Fetcher: &pageFetcher{}, Now: fixedNow})

	res, err := a.Analyze(context.Background(), "https://careers.acme.com/gone")
	require.Error(t, err)
	assert.Nil(t, res)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	var httpErr *fetch.Error
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, fetch.KindHTTPStatus, httpErr.Kind)
}

func TestAnalyzeContent_ExtractionMiss(t *testing.T) {
	a := NewAnalyzer(Options{Now: fixedNow})

	res := a.AnalyzeContent(context.Background(), "https://careers.acme.com/jobs/2", postingPage(""))

	assert.Equal(t, OutcomeExtractionMiss, res.Outcome)
	assert.Nil(t, res.DateInfo)
	assert.Nil(t, res.DaysSincePosted)
	assert.True(t, res.Recommendation.Apply)
	assert.Equal(t, recommend.UrgencyUnknown, res.Recommendation.Urgency)
	assert.Equal(t, 5, res.Priority)
	assert.False(t, res.Saved())
}

func TestAnalyzeContent_ParseFailure(t *testing.T) {
	a := NewAnalyzer(Options{Now: fixedNow})
	page := postingPage(`<meta itemprop="datePosted" content="sometime last spring">`)

	res := a.AnalyzeContent(context.Background(), "https://careers.acme.com/jobs/3", page)

	assert.Equal(t, OutcomeParseFailure, res.Outcome)
	require.NotNil(t, res.DateInfo)
	assert.Equal(t, "sometime last spring", res.DateInfo.RawText)
	assert.Nil(t, res.DaysSincePosted)
	assert.Equal(t, recommend.UrgencyUnknown, res.Recommendation.Urgency)
	assert.Contains(t, res.Recommendation.Reason, "sometime last spring")
	assert.NotEqual(t, OutcomeExtractionMiss.Message(), res.OutcomeMessage)
}

func TestAnalyzeContent_PersistFailureKeepsResult(t *testing.T) {
	a := NewAnalyzer(Options{Aggregator: trends.NewAggregator(failingStore{}, nil), Now: fixedNow})

	res := a.AnalyzeContent(context.Background(), "https://careers.acme.com/jobs/1", postingPage(datedMeta))

	require.Error(t, res.PersistError)
	var pe *trends.PersistError
	assert.ErrorAs(t, res.PersistError, &pe)
	assert.False(t, res.Saved())
	assert.Equal(t, OutcomeSuccess, res.Outcome)
	assert.NotEmpty(t, res.Skills)
}

func TestAnalyzeContent_NoSkillsNotSaved(t *testing.T) {
	store := openStore(t)
	a := NewAnalyzer(Options{Aggregator: trends.NewAggregator(store, nil), Now: fixedNow})

	res := a.AnalyzeContent(context.Background(), "https://careers.acme.com/jobs/4", "<html><body><p>Short.</p></body></html>")

	assert.Empty(t, res.Skills)
	assert.False(t, res.Saved())
	assert.NoError(t, res.PersistError)

	stats, err := store.PostingStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalJobs)
}

func TestAnalyzeContent_SkillsMatchAdjustsPriority(t *testing.T) {
	match := 85.0
	a := NewAnalyzer(Options{Now: fixedNow, SkillsMatch: &match})

	res := a.AnalyzeContent(context.Background(), "https://careers.acme.com/jobs/1", postingPage(datedMeta))
	assert.Equal(t, 10, res.Priority)
}

func TestAnalyze_ReanalysisAccumulatesTrends(t *testing.T) {
	const url = "https://careers.acme.com/jobs/1"
	store := openStore(t)
	a := NewAnalyzer(Options{
		Fetcher:    &pageFetcher{pages: map[string]string{url: postingPage(datedMeta)}},
		Aggregator: trends.NewAggregator(store, nil),
		Now:        fixedNow,
	})

	first, err := a.Analyze(context.Background(), url)
	require.NoError(t, err)
	second, err := a.Analyze(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, *first.PostingID, *second.PostingID)

	top, err := store.TopTrends(context.Background(), 50)
	require.NoError(t, err)
	for _, tr := range top {
		if tr.SkillName == "kubernetes" {
			assert.Equal(t, 2, tr.TotalJobs)
			return
		}
	}
	t.Fatal("kubernetes trend not recorded")
}

func TestResult_ArtifactValidates(t *testing.T) {
	a := NewAnalyzer(Options{Now: fixedNow})
	res := a.AnalyzeContent(context.Background(), "https://careers.acme.com/jobs/1", postingPage(datedMeta))
	id := uuid.New()
	res.PostingID = &id

	data, err := MarshalArtifact(res)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"outcome": "success"`))

	path := filepath.Join(t.TempDir(), "out", "analysis.json")
	require.NoError(t, WriteArtifact(path, res))
}

func TestOutcome_MessagesAreDistinct(t *testing.T) {
	seen := map[string]Outcome{}
	for _, o := range []Outcome{OutcomeSuccess, OutcomeExtractionMiss, OutcomeParseFailure} {
		msg := o.Message()
		_, dup := seen[msg]
		assert.False(t, dup, "duplicate message for %s", o)
		seen[msg] = o
	}
}

const bulletListPage = `<!DOCTYPE html>
<html>
<head>
  <title>Platform Engineer at Globex</title>
  <meta property="og:site_name" content="Globex">
  ` + datedMeta + `
</head>
<body>
  <main>
    <h1>Platform Engineer</h1>
    <div class="job-description">
      <p>We are looking for a backend engineer with several years of experience shipping production services for our customers.</p>
      <h3>Requirements</h3>
      <ul>
        <li>Python</li>
        <li>Docker</li>
        <li>AWS</li>
        <li>Kubernetes</li>
        <li>Terraform</li>
        <li>Go</li>
      </ul>
    </div>
  </main>
</body>
</html>`

func TestAnalyzeContent_SkillsListedAsBullets(t *testing.T) {
	const url = "https://jobs.globex.com/platform-engineer"
	store := openStore(t)
	a := NewAnalyzer(Options{Aggregator: trends.NewAggregator(store, nil), Now: fixedNow})

	res := a.AnalyzeContent(context.Background(), url, bulletListPage)

	want := []string{"aws", "docker", "go", "kubernetes", "python", "terraform"}
	assert.ElementsMatch(t, want, skillNames(res))
	for _, sk := range res.Skills {
		assert.Equal(t, 1, sk.Count, sk.SkillName)
	}
	require.True(t, res.Saved())

	occurrences, err := store.SkillOccurrences(context.Background(), *res.PostingID)
	require.NoError(t, err)
	assert.Len(t, occurrences, len(want))
	for _, name := range want {
		assert.Equal(t, 1, occurrences[name].Count, name)
	}

	top, err := store.TopTrends(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, top, len(want))
	for _, tr := range top {
		assert.Equal(t, 1, tr.TotalOccurrences, tr.SkillName)
		assert.Equal(t, 1, tr.TotalJobs, tr.SkillName)
	}
}
