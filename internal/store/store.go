package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	// Postgres driver registered as "pgx".
	_ "github.com/jackc/pgx/v5/stdlib"
	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Driver names a supported database backend.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Store holds the database handle and provides access to repositories.
type Store struct {
	db  *sql.DB
	drv *entsql.Driver
	seq *sequenceCounter
}

// Open connects to the database and creates the schema if needed.
// SQLite connections get the recommended pragmas applied.
func Open(ctx context.Context, driver Driver, dsn string) (*Store, error) {
	var drvName, dialectName string
	switch driver {
	case DriverSQLite, "":
		drvName, dialectName = "sqlite", dialect.SQLite
	case DriverPostgres:
		drvName, dialectName = "pgx", dialect.Postgres
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dialectName == dialect.SQLite {
		// Pragmas are per connection.
		db.SetMaxOpenConns(1)
		if err := applyPragmas(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragmas: %w", err)
		}
	}

	if err := ensureSchema(ctx, db, dialectName); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	seq, err := newSequenceCounter(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, drv: entsql.OpenDB(dialectName, db), seq: seq}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Dialect returns the SQL dialect in use.
func (s *Store) Dialect() string {
	return s.drv.Dialect()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// RunRepo returns a RunRepo backed by this store.
func (s *Store) RunRepo() RunRepo {
	return &runRepo{drv: s.drv, seq: s.seq}
}

// applyPragmas configures SQLite for single-user batch workloads.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func ensureSchema(ctx context.Context, db *sql.DB, dialectName string) error {
	stmts := schemaSQLite
	if dialectName == dialect.Postgres {
		stmts = schemaPostgres
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

var schemaSQLite = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		sequence INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		catalog TEXT NOT NULL,
		questions INTEGER NOT NULL,
		options TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS scores (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		student TEXT NOT NULL,
		score INTEGER NOT NULL,
		evaluated INTEGER NOT NULL,
		best TEXT NOT NULL DEFAULT '',
		warnings TEXT NOT NULL DEFAULT '[]',
		error TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (run_id, position)
	)`,
}

var schemaPostgres = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		sequence BIGINT NOT NULL,
		created_at BIGINT NOT NULL,
		catalog TEXT NOT NULL,
		questions INTEGER NOT NULL,
		options TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS scores (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		student TEXT NOT NULL,
		score INTEGER NOT NULL,
		evaluated INTEGER NOT NULL,
		best TEXT NOT NULL DEFAULT '',
		warnings TEXT NOT NULL DEFAULT '[]',
		error TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (run_id, position)
	)`,
}

// DefaultDBPath resolves the database file path in priority order:
// 1. MODELSCORE_DB environment variable
// 2. $XDG_DATA_HOME/modelscore/modelscore.db
// 3. ~/.local/share/modelscore/modelscore.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("MODELSCORE_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "modelscore", "modelscore.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
