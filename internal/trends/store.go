// Package trends persists per-posting skill counts and maintains the running,
// cross-posting skill totals used for trend reports.
package trends

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/jobpost-checker/internal/types"
)

// Writer is the set of writes applied for one posting inside a single transaction.
type Writer interface {
	// UpsertPosting inserts the record or replaces every field of the record with
	// the same URL, returning the posting's stable ID.
	UpsertPosting(ctx context.Context, rec *types.JobPostingRecord) (uuid.UUID, error)
	// DeleteOccurrences removes the per-posting skill rows of a posting.
	DeleteOccurrences(ctx context.Context, postingID uuid.UUID) error
	// UpsertSkillOccurrence stores the (skill, posting) row.
	UpsertSkillOccurrence(ctx context.Context, postingID uuid.UUID, skill string, count int, snippets string) error
	// IncrementTrend adds to a skill's running totals, creating the row if needed.
	IncrementTrend(ctx context.Context, skill string, deltaOccurrences, deltaJobs int, at time.Time) error
}

// Store is the persistence collaborator. Implementations must commit everything
// written through the Writer passed to fn, or nothing.
type Store interface {
	WithinTx(ctx context.Context, fn func(Writer) error) error
	TopTrends(ctx context.Context, limit int) ([]types.SkillTrend, error)
	PostingStats(ctx context.Context) (types.PostingStats, error)
}
