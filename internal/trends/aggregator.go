package trends

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/jobpost-checker/internal/types"
)

const (
	// storedContexts is how many snippets are kept on a per-posting skill row.
	storedContexts   = 2
	contextSeparator = " | "
)

// Aggregator records analyzed postings and reads back skill trends.
type Aggregator struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// NewAggregator creates an Aggregator over store. A nil logger uses slog.Default().
func NewAggregator(store Store, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{store: store, logger: logger, now: time.Now}
}

// Record upserts the posting by URL and, in the same transaction, rewrites its skill
// rows and adds every skill's count to the running trend (one job per skill).
// Re-recording a URL adds to the trends again; totals never shrink.
func (a *Aggregator) Record(ctx context.Context, rec types.JobPostingRecord, found map[string]types.SkillOccurrence) (uuid.UUID, error) {
	if rec.AnalyzedAt.IsZero() {
		rec.AnalyzedAt = a.now()
	}
	rec.AnalyzedAt = rec.AnalyzedAt.UTC()

	skills := make([]string, 0, len(found))
	for name, occ := range found {
		if occ.Count > 0 {
			skills = append(skills, name)
		}
	}
	sort.Strings(skills)

	var postingID uuid.UUID
	err := a.store.WithinTx(ctx, func(w Writer) error {
		id, err := w.UpsertPosting(ctx, &rec)
		if err != nil {
			return err
		}
		postingID = id

		if err := w.DeleteOccurrences(ctx, id); err != nil {
			return err
		}
		for _, name := range skills {
			occ := found[name]
			if err := w.UpsertSkillOccurrence(ctx, id, name, occ.Count, joinContexts(occ.Contexts)); err != nil {
				return err
			}
			if err := w.IncrementTrend(ctx, name, occ.Count, 1, rec.AnalyzedAt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, &PersistError{URL: rec.URL, Message: "failed to save posting", Cause: err}
	}

	a.logger.Info("saved job posting", "url", rec.URL, "posting_id", postingID, "skills", len(skills))
	return postingID, nil
}

// Top returns the limit skills with the most total occurrences.
func (a *Aggregator) Top(ctx context.Context, limit int) ([]types.SkillTrend, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}
	trends, err := a.store.TopTrends(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load top trends: %w", err)
	}
	return trends, nil
}

// Stats returns posting-level totals.
func (a *Aggregator) Stats(ctx context.Context) (types.PostingStats, error) {
	stats, err := a.store.PostingStats(ctx)
	if err != nil {
		return types.PostingStats{}, fmt.Errorf("failed to load posting stats: %w", err)
	}
	return stats, nil
}

func joinContexts(contexts []string) string {
	if len(contexts) > storedContexts {
		contexts = contexts[:storedContexts]
	}
	return strings.Join(contexts, contextSeparator)
}
