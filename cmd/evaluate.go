package cmd

import (
	"fmt"
	"os"

	"github.com/aptitude-lab/modelscore/internal/diag"
	"github.com/aptitude-lab/modelscore/internal/report"
	"github.com/aptitude-lab/modelscore/internal/scoring"
	"github.com/aptitude-lab/modelscore/internal/source"
	"github.com/aptitude-lab/modelscore/internal/store"
	"github.com/spf13/cobra"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score a responses sheet against a catalog",
	Long: `Score every student of a responses CSV (first cell "Code", one student
per column, one "#<id>" row per question) against the catalog.`,
	RunE: runEvaluate,
}

func init() {
	addCatalogFlags(evaluateCmd)
	evaluateCmd.Flags().String("responses", "", "Responses CSV (required)")
	evaluateCmd.Flags().Bool("store", false, "Save the run to the database")
	evaluateCmd.Flags().Int("highlight", 0, "Highlight scores at or above this value (default from MODELSCORE_HIGHLIGHT)")
	evaluateCmd.Flags().Int("workers", 0, "Students evaluated at once (default from MODELSCORE_WORKERS)")
	evaluateCmd.Flags().String("out", "", "Also write results as CSV to this file")
	evaluateCmd.Flags().Bool("plain", false, "Render without colors")
	evaluateCmd.Flags().Bool("warnings", false, "List each student's warnings")
	_ = evaluateCmd.MarkFlagRequired("responses")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	responsesPath, _ := cmd.Flags().GetString("responses")
	save, _ := cmd.Flags().GetBool("store")
	outPath, _ := cmd.Flags().GetString("out")
	plain, _ := cmd.Flags().GetBool("plain")
	showWarnings, _ := cmd.Flags().GetBool("warnings")

	highlight := cfg.Highlight
	if cmd.Flags().Changed("highlight") {
		highlight, _ = cmd.Flags().GetInt("highlight")
	}
	workers := cfg.Workers
	if cmd.Flags().Changed("workers") {
		workers, _ = cmd.Flags().GetInt("workers")
	}

	catSink := diag.NewCollector(cmd.ErrOrStderr())
	cat, options, err := loadCatalog(cmd, catSink)
	if err != nil {
		if cat == nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: catalog: %v\n", err)
	}
	if cat.Len() == 0 {
		return fmt.Errorf("catalog %q has no questions", cat.Name)
	}

	f, err := os.Open(responsesPath)
	if err != nil {
		return fmt.Errorf("open responses: %w", err)
	}
	students, err := source.ReadResponses(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("read responses %s: %w", responsesPath, err)
	}

	results, err := scoring.New(cat, scoring.WithWorkers(workers)).ScoreAll(ctx, students)
	if err != nil {
		return fmt.Errorf("score: %w", err)
	}

	theme := report.Styled()
	if plain {
		theme = report.Plain()
	}
	if err := report.Write(cmd.OutOrStdout(), cat.Name, results, report.Options{
		Theme:     theme,
		Highlight: highlight,
		Warnings:  showWarnings,
	}); err != nil {
		return err
	}

	if outPath != "" {
		if err := writeCSVFile(outPath, results); err != nil {
			return err
		}
	}

	if save {
		run := newRun(cat.Name, cat.Len(), options, results)
		if err := saveRun(cmd, run); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "saved run %s\n", run.ID)
	}
	return nil
}

func writeCSVFile(path string, results []scoring.StudentResult) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := report.WriteCSV(out, results); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return out.Close()
}

// newRun converts scoring results into a storable run.
func newRun(catalogName string, questions int, options string, results []scoring.StudentResult) *store.Run {
	run := &store.Run{
		Catalog:   catalogName,
		Questions: questions,
		Options:   options,
		Scores:    make([]store.Score, len(results)),
	}
	for i, r := range results {
		s := store.Score{
			Student:   r.Student,
			Score:     r.Result.Score,
			Evaluated: r.Result.Evaluated,
			Best:      report.FormatBest(r.Result.Best),
			Warnings:  r.Warnings,
		}
		if r.Err != nil {
			s.Error = r.Err.Error()
		}
		run.Scores[i] = s
	}
	return run
}

func saveRun(cmd *cobra.Command, run *store.Run) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.RunRepo().SaveRun(cmd.Context(), run); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}
