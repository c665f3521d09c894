// Package config resolves modelscore settings from defaults, an optional
// .env file and the environment. Command-line flags are applied on top by
// the cmd package.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration.
type Config struct {
	// DBDriver selects the result store backend: "sqlite" or "postgres".
	DBDriver string `validate:"oneof=sqlite postgres"`
	// DBDSN is the database path (sqlite) or connection string (postgres).
	// Empty means the default sqlite path.
	DBDSN string `validate:"required_if=DBDriver postgres"`

	// Duplicates resolves duplicate reference answers: "last" or "first".
	Duplicates string `validate:"oneof=last first"`
	// SplitFallback enables single-choice retry for unmatched answers.
	SplitFallback bool

	// Workers bounds concurrent student evaluations. 0 = GOMAXPROCS.
	Workers int `validate:"gte=0,lte=1024"`

	// Highlight styles report scores at or above this value. 0 = off.
	Highlight int `validate:"gte=0"`

	// Addr is the listen address of the HTTP endpoint.
	Addr string `validate:"required"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DBDriver:   "sqlite",
		Duplicates: "last",
		Addr:       ":8080",
	}
}

var validate = validator.New()

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadDotEnv loads variables from the given .env files (default ".env")
// without overriding variables already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// FromEnv builds a Config from DefaultConfig overlaid with MODELSCORE_*
// environment variables.
func FromEnv() (Config, error) {
	cfg := DefaultConfig()
	cfg.DBDriver = envOr("MODELSCORE_DB_DRIVER", cfg.DBDriver)
	cfg.DBDSN = envOr("MODELSCORE_DB", cfg.DBDSN)
	cfg.Duplicates = envOr("MODELSCORE_DUPLICATES", cfg.Duplicates)
	cfg.Addr = envOr("MODELSCORE_ADDR", cfg.Addr)

	var err error
	if cfg.SplitFallback, err = envBool("MODELSCORE_SPLIT_FALLBACK", cfg.SplitFallback); err != nil {
		return cfg, err
	}
	if cfg.Workers, err = envInt("MODELSCORE_WORKERS", cfg.Workers); err != nil {
		return cfg, err
	}
	if cfg.Highlight, err = envInt("MODELSCORE_HIGHLIGHT", cfg.Highlight); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
