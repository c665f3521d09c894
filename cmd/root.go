package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aptitude-lab/modelscore/internal/catalog"
	"github.com/aptitude-lab/modelscore/internal/config"
	"github.com/aptitude-lab/modelscore/internal/diag"
	"github.com/aptitude-lab/modelscore/internal/source"
	"github.com/aptitude-lab/modelscore/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "modelscore",
	Short: "Score mental-model consistency of programming aptitude quizzes",
	Long: `modelscore matches each student answer against a catalog of classified
mental models and reports how consistently a student applies one model.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		if err := config.LoadDotEnv(envFile); err != nil {
			return err
		}
		c, err := config.FromEnv()
		if err != nil {
			return err
		}
		cfg = c
		return nil
	},
}

// cfg is resolved from the environment before any command runs.
var cfg = config.DefaultConfig()

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Database path or DSN (overrides MODELSCORE_DB env var)")
	rootCmd.PersistentFlags().String("db-driver", "", "Database driver: sqlite or postgres (overrides MODELSCORE_DB_DRIVER)")
	rootCmd.PersistentFlags().String("env-file", ".env", "Optional .env file to load")

	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDB returns the driver and DSN using the --db flags (highest
// priority), then MODELSCORE_DB*, then the default XDG path for sqlite.
func resolveDB(cmd *cobra.Command) (store.Driver, string, error) {
	driver := cfg.DBDriver
	if d, _ := cmd.Flags().GetString("db-driver"); d != "" {
		driver = d
	}

	dsn, _ := cmd.Flags().GetString("db")
	if dsn == "" {
		dsn = cfg.DBDSN
	}
	if store.Driver(driver) == store.DriverPostgres {
		if dsn == "" {
			return "", "", fmt.Errorf("postgres needs --db or MODELSCORE_DB")
		}
		return store.DriverPostgres, dsn, nil
	}

	if dsn != "" {
		return store.DriverSQLite, dsn, store.EnsureDir(dsn)
	}
	p, err := store.DefaultDBPath()
	return store.DriverSQLite, p, err
}

// openStore opens the result store selected by flags and environment.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	driver, dsn, err := resolveDB(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database: %w", err)
	}
	st, err := store.Open(cmd.Context(), driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// addCatalogFlags registers the flags shared by commands that load a catalog.
func addCatalogFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("catalog", nil, "Catalog file(s): .json, .yaml or a .csv question sheet (required)")
	cmd.Flags().String("duplicates", "", "Duplicate reference answers: last or first (default from MODELSCORE_DUPLICATES)")
	cmd.Flags().Bool("split-fallback", false, "Retry unmatched multi-choice answers one choice at a time")
	_ = cmd.MarkFlagRequired("catalog")
}

// loadCatalog reads the --catalog files. It also returns the matching
// options in a form suitable for storing with a run.
func loadCatalog(cmd *cobra.Command, sink diag.Sink) (*catalog.Catalog, string, error) {
	paths, _ := cmd.Flags().GetStringSlice("catalog")

	dup := cfg.Duplicates
	if d, _ := cmd.Flags().GetString("duplicates"); d != "" {
		dup = d
	}
	policy, err := catalog.ParseDuplicatePolicy(dup)
	if err != nil {
		return nil, "", err
	}
	opts := []catalog.Option{catalog.WithDuplicatePolicy(policy)}

	split := cfg.SplitFallback
	if cmd.Flags().Changed("split-fallback") {
		split, _ = cmd.Flags().GetBool("split-fallback")
	}
	if split {
		opts = append(opts, catalog.WithSplitFallback())
	}

	cat, err := source.LoadCatalog(catalogName(paths), paths, sink, opts...)
	return cat, fmt.Sprintf("duplicates=%s split-fallback=%t", policy, split), err
}

func catalogName(paths []string) string {
	if len(paths) == 0 {
		return ""
	}
	base := filepath.Base(paths[0])
	return strings.TrimSuffix(base, filepath.Ext(base))
}
