package store

import (
	"context"
	"time"
)

// QueryOpts configures run queries with filtering and pagination.
type QueryOpts struct {
	Limit int       // max results (0 = unlimited)
	From  time.Time // created_at >= From
	To    time.Time // created_at <= To
}

// Run is one stored evaluation of a batch of students.
type Run struct {
	ID        string
	Sequence  int64
	CreatedAt time.Time
	Catalog   string
	Questions int
	Options   string
	Scores    []Score
}

// Score is one student's stored result.
type Score struct {
	Student   string
	Score     int
	Evaluated int
	Best      string
	Warnings  []string
	Error     string
}

// RunSummary describes a stored run without its scores.
type RunSummary struct {
	ID        string
	Sequence  int64
	CreatedAt time.Time
	Catalog   string
	Questions int
	Options   string
	Students  int
	TopScore  int
}

// RunRepo manages stored evaluation runs.
type RunRepo interface {
	// SaveRun stores run and its scores. ID, Sequence and CreatedAt are
	// filled in when empty.
	SaveRun(ctx context.Context, run *Run) error

	// ListRuns returns runs newest first.
	ListRuns(ctx context.Context, opts QueryOpts) ([]RunSummary, error)

	// Scores returns the scores of one run in their original order.
	Scores(ctx context.Context, runID string) ([]Score, error)

	// Reset deletes every stored run and returns how many were removed.
	Reset(ctx context.Context) (int64, error)
}
