// Package db provides the PostgreSQL and SQLite stores behind trend aggregation.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/jobpost-checker/internal/trends"
	"github.com/jonathan/jobpost-checker/internal/types"
)

var _ trends.Store = (*DB)(nil)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// New connects with a background context.
func New(databaseURL string) (*DB, error) {
	return Connect(context.Background(), databaseURL)
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the tables if they do not exist yet.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// WithinTx runs fn in a transaction, committing only if fn succeeds.
func (db *DB) WithinTx(ctx context.Context, fn func(trends.Writer) error) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&pgWriter{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// TopTrends returns skills ordered by total occurrences, highest first.
func (db *DB) TopTrends(ctx context.Context, limit int) ([]types.SkillTrend, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT skill_name, total_occurrences, total_jobs, last_updated
		 FROM skill_trends
		 ORDER BY total_occurrences DESC, skill_name
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query skill trends: %w", err)
	}
	defer rows.Close()

	var out []types.SkillTrend
	for rows.Next() {
		var t types.SkillTrend
		if err := rows.Scan(&t.SkillName, &t.TotalOccurrences, &t.TotalJobs, &t.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan skill trend: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// PostingStats counts postings and distinct companies.
func (db *DB) PostingStats(ctx context.Context) (types.PostingStats, error) {
	var s types.PostingStats
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT company), MIN(analyzed_at), MAX(analyzed_at)
		 FROM job_postings`,
	).Scan(&s.TotalJobs, &s.UniqueCompanies, &s.FirstAnalysis, &s.LatestAnalysis)
	if err != nil {
		return types.PostingStats{}, fmt.Errorf("failed to query posting stats: %w", err)
	}
	return s, nil
}

// GetPostingByURL retrieves a posting by its URL, or nil if there is none.
func (db *DB) GetPostingByURL(ctx context.Context, url string) (*types.JobPostingRecord, error) {
	var p types.JobPostingRecord
	err := db.pool.QueryRow(ctx,
		`SELECT id, url, company, job_title, posting_date, analyzed_at, raw_content
		 FROM job_postings WHERE url = $1`,
		url,
	).Scan(&p.ID, &p.URL, &p.Company, &p.JobTitle, &p.PostingDate, &p.AnalyzedAt, &p.RawText)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}
	return &p, nil
}

// pgWriter applies trend writes on an open transaction.
type pgWriter struct {
	tx pgx.Tx
}

func (w *pgWriter) UpsertPosting(ctx context.Context, rec *types.JobPostingRecord) (uuid.UUID, error) {
	var id uuid.UUID
	err := w.tx.QueryRow(ctx,
		`INSERT INTO job_postings (id, url, company, job_title, posting_date, analyzed_at, raw_content)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (url) DO UPDATE SET
		     company = EXCLUDED.company,
		     job_title = EXCLUDED.job_title,
		     posting_date = EXCLUDED.posting_date,
		     analyzed_at = EXCLUDED.analyzed_at,
		     raw_content = EXCLUDED.raw_content
		 RETURNING id`,
		uuid.New(), rec.URL, rec.Company, rec.JobTitle, rec.PostingDate, rec.AnalyzedAt, rec.RawText,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert job posting: %w", err)
	}
	return id, nil
}

func (w *pgWriter) DeleteOccurrences(ctx context.Context, postingID uuid.UUID) error {
	if _, err := w.tx.Exec(ctx, `DELETE FROM skill_occurrences WHERE job_posting_id = $1`, postingID); err != nil {
		return fmt.Errorf("failed to delete skill occurrences: %w", err)
	}
	return nil
}

func (w *pgWriter) UpsertSkillOccurrence(ctx context.Context, postingID uuid.UUID, skill string, count int, snippets string) error {
	_, err := w.tx.Exec(ctx,
		`INSERT INTO skill_occurrences (skill_name, job_posting_id, occurrences, context)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (skill_name, job_posting_id) DO UPDATE SET
		     occurrences = EXCLUDED.occurrences,
		     context = EXCLUDED.context`,
		skill, postingID, count, snippets,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert skill %s: %w", skill, err)
	}
	return nil
}

func (w *pgWriter) IncrementTrend(ctx context.Context, skill string, deltaOccurrences, deltaJobs int, at time.Time) error {
	_, err := w.tx.Exec(ctx,
		`INSERT INTO skill_trends (skill_name, total_occurrences, total_jobs, last_updated)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (skill_name) DO UPDATE SET
		     total_occurrences = skill_trends.total_occurrences + EXCLUDED.total_occurrences,
		     total_jobs = skill_trends.total_jobs + EXCLUDED.total_jobs,
		     last_updated = EXCLUDED.last_updated`,
		skill, deltaOccurrences, deltaJobs, at,
	)
	if err != nil {
		return fmt.Errorf("failed to update trend for %s: %w", skill, err)
	}
	return nil
}
