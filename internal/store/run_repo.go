package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// runRepo implements RunRepo with ent's dialect-aware SQL builder, so the
// same code serves SQLite and Postgres placeholders.
type runRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func (r *runRepo) builder() *entsql.DialectBuilder {
	return entsql.Dialect(r.drv.Dialect())
}

func (r *runRepo) SaveRun(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	if run.Sequence == 0 {
		seq, err := r.seq.Next(ctx)
		if err != nil {
			return err
		}
		run.Sequence = seq
	}

	tx, err := r.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	query, args := r.builder().Insert("runs").
		Columns("id", "sequence", "created_at", "catalog", "questions", "options").
		Values(run.ID, run.Sequence, run.CreatedAt.Unix(), run.Catalog, run.Questions, run.Options).
		Query()
	if err := tx.Exec(ctx, query, args, nil); err != nil {
		tx.Rollback()
		return fmt.Errorf("save run: %w", err)
	}

	if len(run.Scores) > 0 {
		ins := r.builder().Insert("scores").
			Columns("run_id", "position", "student", "score", "evaluated", "best", "warnings", "error")
		for i, s := range run.Scores {
			warnings, err := json.Marshal(nonNil(s.Warnings))
			if err != nil {
				tx.Rollback()
				return fmt.Errorf("marshal warnings: %w", err)
			}
			ins = ins.Values(run.ID, i, s.Student, s.Score, s.Evaluated, s.Best, string(warnings), s.Error)
		}
		query, args = ins.Query()
		if err := tx.Exec(ctx, query, args, nil); err != nil {
			tx.Rollback()
			return fmt.Errorf("save scores: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *runRepo) ListRuns(ctx context.Context, opts QueryOpts) ([]RunSummary, error) {
	b := r.builder()
	scores := b.Table("scores").As("s")
	runs := b.Table("runs").As("r")

	sel := b.Select(
		runs.C("id"), runs.C("sequence"), runs.C("created_at"), runs.C("catalog"),
		runs.C("questions"), runs.C("options"),
		entsql.Count(scores.C("student")),
		"COALESCE(MAX("+scores.C("score")+"), 0)",
	).
		From(runs).
		LeftJoin(scores).On(runs.C("id"), scores.C("run_id")).
		GroupBy(runs.C("id"), runs.C("sequence"), runs.C("created_at"), runs.C("catalog"),
			runs.C("questions"), runs.C("options")).
		OrderBy(entsql.Desc(runs.C("sequence")))

	if !opts.From.IsZero() {
		sel = sel.Where(entsql.GTE(runs.C("created_at"), opts.From.Unix()))
	}
	if !opts.To.IsZero() {
		sel = sel.Where(entsql.LTE(runs.C("created_at"), opts.To.Unix()))
	}
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var s RunSummary
		var created int64
		if err := rows.Scan(&s.ID, &s.Sequence, &created, &s.Catalog, &s.Questions, &s.Options, &s.Students, &s.TopScore); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		s.CreatedAt = time.Unix(created, 0).UTC()
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *runRepo) Scores(ctx context.Context, runID string) ([]Score, error) {
	b := r.builder()
	query, args := b.
		Select("student", "score", "evaluated", "best", "warnings", "error").
		From(b.Table("scores")).
		Where(entsql.EQ("run_id", runID)).
		OrderBy("position").
		Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	var out []Score
	for rows.Next() {
		var s Score
		var warnings string
		if err := rows.Scan(&s.Student, &s.Score, &s.Evaluated, &s.Best, &warnings, &s.Error); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		if err := json.Unmarshal([]byte(warnings), &s.Warnings); err != nil {
			return nil, fmt.Errorf("decode warnings: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *runRepo) Reset(ctx context.Context) (int64, error) {
	tx, err := r.drv.Tx(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}

	query, args := r.builder().Delete("scores").Query()
	if err := tx.Exec(ctx, query, args, nil); err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("delete scores: %w", err)
	}

	var res entsql.Result
	query, args = r.builder().Delete("runs").Query()
	if err := tx.Exec(ctx, query, args, &res); err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("delete runs: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return res.RowsAffected()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
