package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jonathan/jobpost-checker/internal/trends"
	"github.com/jonathan/jobpost-checker/internal/types"
)

// DefaultSQLitePath is the local database used when no PostgreSQL URL is configured.
const DefaultSQLitePath = "job_skills.db"

var _ trends.Store = (*SQLite)(nil)

// SQLite is a single-file store for local use.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and ensures the schema.
func OpenSQLite(path string) (*SQLite, error) {
	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// The store is single-writer.
	sqlDB.SetMaxOpenConns(1)

	s := &SQLite{db: sqlDB}
	if err := s.EnsureSchema(context.Background()); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection
func (s *SQLite) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the tables if they do not exist yet.
func (s *SQLite) EnsureSchema(ctx context.Context) error {
	for _, stmt := range sqliteSchema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// WithinTx runs fn in a transaction, committing only if fn succeeds.
func (s *SQLite) WithinTx(ctx context.Context, fn func(trends.Writer) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&sqliteWriter{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// TopTrends returns skills ordered by total occurrences, highest first.
func (s *SQLite) TopTrends(ctx context.Context, limit int) ([]types.SkillTrend, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT skill_name, total_occurrences, total_jobs, last_updated
		 FROM skill_trends
		 ORDER BY total_occurrences DESC, skill_name
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query skill trends: %w", err)
	}
	defer rows.Close()

	var out []types.SkillTrend
	for rows.Next() {
		var (
			t       types.SkillTrend
			updated int64
		)
		if err := rows.Scan(&t.SkillName, &t.TotalOccurrences, &t.TotalJobs, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan skill trend: %w", err)
		}
		t.LastUpdated = time.Unix(updated, 0).UTC()
		out = append(out, t)
	}
	return out, rows.Err()
}

// PostingStats counts postings and distinct companies.
func (s *SQLite) PostingStats(ctx context.Context) (types.PostingStats, error) {
	var (
		stats         types.PostingStats
		first, latest sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT company), MIN(analyzed_at), MAX(analyzed_at)
		 FROM job_postings`,
	).Scan(&stats.TotalJobs, &stats.UniqueCompanies, &first, &latest)
	if err != nil {
		return types.PostingStats{}, fmt.Errorf("failed to query posting stats: %w", err)
	}
	if first.Valid {
		t := time.Unix(first.Int64, 0).UTC()
		stats.FirstAnalysis = &t
	}
	if latest.Valid {
		t := time.Unix(latest.Int64, 0).UTC()
		stats.LatestAnalysis = &t
	}
	return stats, nil
}

// GetPostingByURL retrieves a posting by its URL, or nil if there is none.
func (s *SQLite) GetPostingByURL(ctx context.Context, url string) (*types.JobPostingRecord, error) {
	var (
		p           types.JobPostingRecord
		postingDate sql.NullString
		analyzedAt  int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, url, company, job_title, posting_date, analyzed_at, raw_content
		 FROM job_postings WHERE url = ?`,
		url,
	).Scan(&p.ID, &p.URL, &p.Company, &p.JobTitle, &postingDate, &analyzedAt, &p.RawText)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}
	if postingDate.Valid {
		p.PostingDate = &postingDate.String
	}
	p.AnalyzedAt = time.Unix(analyzedAt, 0).UTC()
	return &p, nil
}

// SkillOccurrences returns the per-posting skill rows of a posting keyed by skill.
func (s *SQLite) SkillOccurrences(ctx context.Context, postingID uuid.UUID) (map[string]StoredOccurrence, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT skill_name, occurrences, context FROM skill_occurrences WHERE job_posting_id = ?`,
		postingID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query skill occurrences: %w", err)
	}
	defer rows.Close()

	out := make(map[string]StoredOccurrence)
	for rows.Next() {
		var (
			name string
			o    StoredOccurrence
		)
		if err := rows.Scan(&name, &o.Count, &o.Context); err != nil {
			return nil, fmt.Errorf("failed to scan skill occurrence: %w", err)
		}
		out[name] = o
	}
	return out, rows.Err()
}

// StoredOccurrence is a persisted (skill, posting) row.
type StoredOccurrence struct {
	Count   int
	Context string
}

// sqliteWriter applies trend writes on an open transaction.
type sqliteWriter struct {
	tx *sql.Tx
}

func (w *sqliteWriter) UpsertPosting(ctx context.Context, rec *types.JobPostingRecord) (uuid.UUID, error) {
	var raw string
	err := w.tx.QueryRowContext(ctx,
		`INSERT INTO job_postings (id, url, company, job_title, posting_date, analyzed_at, raw_content)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (url) DO UPDATE SET
		     company = excluded.company,
		     job_title = excluded.job_title,
		     posting_date = excluded.posting_date,
		     analyzed_at = excluded.analyzed_at,
		     raw_content = excluded.raw_content
		 RETURNING id`,
		uuid.New().String(), rec.URL, rec.Company, rec.JobTitle, nullString(rec.PostingDate), rec.AnalyzedAt.Unix(), rec.RawText,
	).Scan(&raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert job posting: %w", err)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid posting id %q: %w", raw, err)
	}
	return id, nil
}

func (w *sqliteWriter) DeleteOccurrences(ctx context.Context, postingID uuid.UUID) error {
	if _, err := w.tx.ExecContext(ctx, `DELETE FROM skill_occurrences WHERE job_posting_id = ?`, postingID.String()); err != nil {
		return fmt.Errorf("failed to delete skill occurrences: %w", err)
	}
	return nil
}

func (w *sqliteWriter) UpsertSkillOccurrence(ctx context.Context, postingID uuid.UUID, skill string, count int, snippets string) error {
	_, err := w.tx.ExecContext(ctx,
		`INSERT INTO skill_occurrences (skill_name, job_posting_id, occurrences, context)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (skill_name, job_posting_id) DO UPDATE SET
		     occurrences = excluded.occurrences,
		     context = excluded.context`,
		skill, postingID.String(), count, snippets,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert skill %s: %w", skill, err)
	}
	return nil
}

func (w *sqliteWriter) IncrementTrend(ctx context.Context, skill string, deltaOccurrences, deltaJobs int, at time.Time) error {
	_, err := w.tx.ExecContext(ctx,
		`INSERT INTO skill_trends (skill_name, total_occurrences, total_jobs, last_updated)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (skill_name) DO UPDATE SET
		     total_occurrences = total_occurrences + excluded.total_occurrences,
		     total_jobs = total_jobs + excluded.total_jobs,
		     last_updated = excluded.last_updated`,
		skill, deltaOccurrences, deltaJobs, at.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to update trend for %s: %w", skill, err)
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
