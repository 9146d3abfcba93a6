// Package store persists operational records (report index, submission
// audit log) alongside the spreadsheet data stores.
package store

import (
	"context"
	"time"
)

// Report is one generated PDF report.
type Report struct {
	ID        string
	Timestamp string // filename timestamp component, e.g. 2025-03-14_09-30
	Path      string
	CreatedAt time.Time
}

// Submission is one audit row for a questionnaire submission.
type Submission struct {
	ID          string
	Institution string
	MergedRows  int
	Status      string // "ok", "reconcile_skipped", "failed"
	CreatedAt   time.Time
}

// Store defines the operational persistence interface.
type Store interface {
	CreateReport(ctx context.Context, timestamp, path string) (*Report, error)
	GetReport(ctx context.Context, timestamp string) (*Report, error)
	DeleteReport(ctx context.Context, timestamp string) error
	ListReports(ctx context.Context, limit int) ([]Report, error)

	RecordSubmission(ctx context.Context, institution string, mergedRows int, status string) (*Submission, error)
	ListSubmissions(ctx context.Context, limit int) ([]Submission, error)

	Migrate(ctx context.Context) error
	Close() error
}
