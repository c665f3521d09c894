package cmd

import (
	"fmt"
	"strings"

	"github.com/aptitude-lab/modelscore/internal/diag"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate a catalog and list its questions (no database)",
	RunE:  runCheck,
}

func init() {
	addCatalogFlags(checkCmd)
	checkCmd.Flags().BoolP("verbose", "v", false, "List every reference answer with its models")
}

func runCheck(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	verbose, _ := cmd.Flags().GetBool("verbose")
	sink := diag.NewCollector(cmd.ErrOrStderr())

	cat, _, err := loadCatalog(cmd, sink)
	if cat == nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	fmt.Fprintf(out, "Catalog: %s\n", cat.Name)
	for _, q := range cat.Questions() {
		entries := q.Entries()
		fmt.Fprintf(out, "  #%-4d %d reference answers\n", q.ID(), len(entries))
		if !verbose {
			continue
		}
		for _, e := range entries {
			models := make([]string, len(e.Models))
			for i, m := range e.Models {
				models[i] = m.String()
			}
			fmt.Fprintf(out, "        %-24s %s\n", e.Answer.Raw(), strings.Join(models, " | "))
		}
	}
	fmt.Fprintf(out, "%d questions, %d warnings\n", cat.Len(), sink.Len())

	if err != nil {
		return fmt.Errorf("catalog has malformed entries: %w", err)
	}
	return nil
}
