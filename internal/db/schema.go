package db

// postgresSchema creates the three analysis tables. Occurrence rows go away with
// their posting; trend rows are never deleted.
const postgresSchema = `
CREATE TABLE IF NOT EXISTS job_postings (
    id           UUID PRIMARY KEY,
    url          TEXT NOT NULL UNIQUE,
    company      TEXT NOT NULL DEFAULT '',
    job_title    TEXT NOT NULL DEFAULT '',
    posting_date TEXT,
    analyzed_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    raw_content  TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS skill_occurrences (
    skill_name     TEXT NOT NULL,
    job_posting_id UUID NOT NULL REFERENCES job_postings(id) ON DELETE CASCADE,
    occurrences    INTEGER NOT NULL DEFAULT 1,
    context        TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (skill_name, job_posting_id)
);

CREATE TABLE IF NOT EXISTS skill_trends (
    skill_name        TEXT PRIMARY KEY,
    total_occurrences INTEGER NOT NULL DEFAULT 0,
    total_jobs        INTEGER NOT NULL DEFAULT 0,
    last_updated      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_skill_trends_total_occurrences
    ON skill_trends (total_occurrences DESC);
`

// sqliteSchema mirrors postgresSchema. IDs are stored as text and times as unix seconds.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS job_postings (
		id           TEXT PRIMARY KEY,
		url          TEXT NOT NULL UNIQUE,
		company      TEXT NOT NULL DEFAULT '',
		job_title    TEXT NOT NULL DEFAULT '',
		posting_date TEXT,
		analyzed_at  INTEGER NOT NULL,
		raw_content  TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS skill_occurrences (
		skill_name     TEXT NOT NULL,
		job_posting_id TEXT NOT NULL REFERENCES job_postings(id) ON DELETE CASCADE,
		occurrences    INTEGER NOT NULL DEFAULT 1,
		context        TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (skill_name, job_posting_id)
	)`,
	`CREATE TABLE IF NOT EXISTS skill_trends (
		skill_name        TEXT PRIMARY KEY,
		total_occurrences INTEGER NOT NULL DEFAULT 0,
		total_jobs        INTEGER NOT NULL DEFAULT 0,
		last_updated      INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_skill_trends_total_occurrences
		ON skill_trends (total_occurrences DESC)`,
}
