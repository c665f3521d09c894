package cmd

import (
	"fmt"
	"strings"

	"github.com/aptitude-lab/modelscore/internal/store"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "List stored evaluation runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		runID, _ := cmd.Flags().GetString("run")
		out := cmd.OutOrStdout()

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()
		repo := st.RunRepo()

		if runID != "" {
			scores, err := repo.Scores(cmd.Context(), runID)
			if err != nil {
				return fmt.Errorf("query scores: %w", err)
			}
			if len(scores) == 0 {
				return fmt.Errorf("no scores stored for run %q", runID)
			}
			fmt.Fprintf(out, "%-20s  %-5s  %-9s  %s\n", "Student", "Score", "Evaluated", "Best")
			fmt.Fprintln(out, strings.Repeat("─", 60))
			for _, s := range scores {
				fmt.Fprintf(out, "%-20s  %5d  %9d  %s\n", s.Student, s.Score, s.Evaluated, s.Best)
				if s.Error != "" {
					fmt.Fprintf(out, "    error: %s\n", s.Error)
				}
			}
			return nil
		}

		runs, err := repo.ListRuns(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query runs: %w", err)
		}
		if len(runs) == 0 {
			fmt.Fprintln(out, "No runs found.")
			return nil
		}

		fmt.Fprintf(out, "%-36s  %-19s  %-20s  %-8s  %-4s  %s\n",
			"ID", "Created", "Catalog", "Students", "Top", "Options")
		fmt.Fprintln(out, strings.Repeat("─", 110))
		for _, r := range runs {
			fmt.Fprintf(out, "%-36s  %-19s  %-20s  %8d  %4d  %s\n",
				r.ID,
				r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				r.Catalog,
				r.Students,
				r.TopScore,
				r.Options,
			)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Int("limit", 20, "Maximum number of runs to list")
	statsCmd.Flags().String("run", "", "Show the scores of one run")
}
