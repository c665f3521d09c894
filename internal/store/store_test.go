package store

import (
	"context"
	"strings"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	s, err := Open(context.Background(), DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
	if s.Dialect() != "sqlite3" {
		t.Errorf("dialect = %q, want sqlite3", s.Dialect())
	}
}

func TestOpenUnsupportedDriver(t *testing.T) {
	if _, err := Open(context.Background(), Driver("oracle"), ""); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestSchemaCreatesTables(t *testing.T) {
	s := openTestStore(t)
	for _, table := range []string{"runs", "scores", "run_sequence"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("query sqlite_master for %s: %v", table, err)
		}
	}
}

func TestSaveRunAndScores(t *testing.T) {
	s := openTestStore(t)
	repo := s.RunRepo()
	ctx := context.Background()

	run := &Run{
		Catalog:   "swap quiz",
		Questions: 12,
		Options:   "duplicates=last",
		Scores: []Score{
			{Student: "alice", Score: 9, Evaluated: 12, Best: "M2+S1", Warnings: []string{"question 4: duplicate"}},
			{Student: "bob", Score: 3, Evaluated: 11, Error: "question 7: malformed choice"},
		},
	}
	if err := repo.SaveRun(ctx, run); err != nil {
		t.Fatalf("save: %v", err)
	}
	if run.ID == "" {
		t.Fatal("expected generated run id")
	}
	if run.Sequence != 1 {
		t.Errorf("sequence = %d, want 1", run.Sequence)
	}

	scores, err := repo.Scores(ctx, run.ID)
	if err != nil {
		t.Fatalf("scores: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("len(scores) = %d, want 2", len(scores))
	}
	if scores[0].Student != "alice" || scores[0].Score != 9 || scores[0].Best != "M2+S1" {
		t.Errorf("scores[0] = %+v", scores[0])
	}
	if len(scores[0].Warnings) != 1 {
		t.Errorf("warnings = %v, want one", scores[0].Warnings)
	}
	if len(scores[1].Warnings) != 0 {
		t.Errorf("warnings = %v, want none", scores[1].Warnings)
	}
	if scores[1].Error == "" {
		t.Error("expected stored error for bob")
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	s := openTestStore(t)
	repo := s.RunRepo()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		err := repo.SaveRun(ctx, &Run{
			Catalog:   "quiz",
			Questions: 12,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			Scores:    []Score{{Student: "a", Score: i}, {Student: "b", Score: i + 1}},
		})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	if err := repo.SaveRun(ctx, &Run{Catalog: "empty", CreatedAt: base.Add(5 * time.Hour)}); err != nil {
		t.Fatalf("save empty: %v", err)
	}

	runs, err := repo.ListRuns(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 4 {
		t.Fatalf("len(runs) = %d, want 4", len(runs))
	}
	if runs[0].Catalog != "empty" || runs[0].Students != 0 || runs[0].TopScore != 0 {
		t.Errorf("runs[0] = %+v", runs[0])
	}
	if runs[1].Students != 2 || runs[1].TopScore != 3 {
		t.Errorf("runs[1] = %+v, want 2 students with top score 3", runs[1])
	}

	limited, err := repo.ListRuns(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("len(limited) = %d, want 2", len(limited))
	}

	window, err := repo.ListRuns(ctx, QueryOpts{From: base.Add(30 * time.Minute), To: base.Add(90 * time.Minute)})
	if err != nil {
		t.Fatalf("list window: %v", err)
	}
	if len(window) != 1 || !window[0].CreatedAt.Equal(base.Add(time.Hour)) {
		t.Errorf("window = %+v, want the run saved at +1h", window)
	}
}

func TestReset(t *testing.T) {
	s := openTestStore(t)
	repo := s.RunRepo()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := repo.SaveRun(ctx, &Run{Catalog: "quiz", Scores: []Score{{Student: "a"}}}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	n, err := repo.Reset(ctx)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if n != 2 {
		t.Errorf("removed = %d, want 2", n)
	}

	runs, err := repo.ListRuns(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("len(runs) = %d after reset", len(runs))
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sc, err := newSequenceCounter(ctx, s.DB())
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}

	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		if want := int64(i + 1); seq != want {
			t.Errorf("seq[%d] = %d, want %d", i, seq, want)
		}
	}
}
