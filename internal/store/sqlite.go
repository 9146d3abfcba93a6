package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS reports (
	id         TEXT PRIMARY KEY,
	timestamp  TEXT NOT NULL UNIQUE,
	path       TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS submissions (
	id          TEXT PRIMARY KEY,
	institution TEXT NOT NULL,
	merged_rows INTEGER NOT NULL DEFAULT 0,
	status      TEXT NOT NULL,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_reports_timestamp ON reports(timestamp);
CREATE INDEX IF NOT EXISTS idx_submissions_institution ON submissions(institution);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateReport(ctx context.Context, timestamp, path string) (*Report, error) {
	r := &Report{
		ID:        uuid.New().String(),
		Timestamp: timestamp,
		Path:      path,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reports (id, timestamp, path, created_at) VALUES (?, ?, ?, ?)`,
		r.ID, r.Timestamp, r.Path, r.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert report")
	}
	return r, nil
}

func (s *SQLiteStore) GetReport(ctx context.Context, timestamp string) (*Report, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, timestamp, path, created_at FROM reports WHERE timestamp = ?`,
		timestamp,
	)
	var r Report
	if err := row.Scan(&r.ID, &r.Timestamp, &r.Path, &r.CreatedAt); err != nil {
		if eris.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "sqlite: get report %s", timestamp)
	}
	return &r, nil
}

func (s *SQLiteStore) DeleteReport(ctx context.Context, timestamp string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE timestamp = ?`, timestamp)
	return eris.Wrapf(err, "sqlite: delete report %s", timestamp)
}

func (s *SQLiteStore) ListReports(ctx context.Context, limit int) ([]Report, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, timestamp, path, created_at FROM reports ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list reports")
	}
	defer rows.Close()

	var out []Report
	for rows.Next() {
		var r Report
		if err := rows.Scan(&r.ID, &r.Timestamp, &r.Path, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan report")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate reports")
}

func (s *SQLiteStore) RecordSubmission(ctx context.Context, institution string, mergedRows int, status string) (*Submission, error) {
	sub := &Submission{
		ID:          uuid.New().String(),
		Institution: institution,
		MergedRows:  mergedRows,
		Status:      status,
		CreatedAt:   time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO submissions (id, institution, merged_rows, status, created_at) VALUES (?, ?, ?, ?, ?)`,
		sub.ID, sub.Institution, sub.MergedRows, sub.Status, sub.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert submission")
	}
	return sub, nil
}

func (s *SQLiteStore) ListSubmissions(ctx context.Context, limit int) ([]Submission, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, institution, merged_rows, status, created_at FROM submissions ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list submissions")
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		var sub Submission
		if err := rows.Scan(&sub.ID, &sub.Institution, &sub.MergedRows, &sub.Status, &sub.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan submission")
		}
		out = append(out, sub)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate submissions")
}
