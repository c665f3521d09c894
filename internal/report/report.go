// Package report renders batch scoring results for people (an aligned
// table) and for spreadsheets (CSV).
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/aptitude-lab/modelscore/internal/evaluation"
	"github.com/aptitude-lab/modelscore/internal/model"
	"github.com/aptitude-lab/modelscore/internal/scoring"
)

// Options configures table rendering.
type Options struct {
	Theme Theme
	// Highlight marks scores at or above this value. 0 disables it.
	Highlight int
	// Warnings lists each student's diagnostics under their row.
	Warnings bool
}

var columns = []string{"STUDENT", "SCORE", "ANSWERED", "BEST"}

// Write renders results as a table headed by the catalog name.
func Write(w io.Writer, catalogName string, results []scoring.StudentResult, opts Options) error {
	th := opts.Theme

	widths := []int{len(columns[0]), len(columns[1]), len(columns[2]), len(columns[3])}
	rows := make([][]string, len(results))
	for i, r := range results {
		rows[i] = []string{
			r.Student,
			strconv.Itoa(r.Result.Score),
			fmt.Sprintf("%d/%d", r.Result.Evaluated, r.Result.Questions),
			FormatBest(r.Result.Best),
		}
		for c, v := range rows[i] {
			widths[c] = max(widths[c], lipgloss.Width(v))
		}
	}

	var b strings.Builder
	questions := 0
	if len(results) > 0 {
		questions = results[0].Result.Questions
	}
	b.WriteString(th.Title.Render(fmt.Sprintf("%s (%d questions, %d students)", catalogName, questions, len(results))))
	b.WriteString("\n\n")

	header := make([]string, len(columns))
	for c, name := range columns {
		header[c] = th.Header.Width(widths[c]).Render(name)
	}
	b.WriteString(strings.Join(header, "  "))
	b.WriteString("\n")

	for i, r := range results {
		scoreStyle := th.Number
		if opts.Highlight > 0 && r.Result.Score >= opts.Highlight {
			scoreStyle = th.Highlight
		}
		cells := []string{
			th.Cell.Width(widths[0]).Render(rows[i][0]),
			scoreStyle.Width(widths[1]).Render(rows[i][1]),
			th.Number.Width(widths[2]).Render(rows[i][2]),
			th.Cell.Render(rows[i][3]),
		}
		b.WriteString(strings.TrimRight(strings.Join(cells, "  "), " "))
		b.WriteString("\n")

		if r.Err != nil {
			for _, line := range strings.Split(r.Err.Error(), "\n") {
				b.WriteString(th.Problem.Render("    error: " + line))
				b.WriteString("\n")
			}
		}
		if opts.Warnings {
			for _, wmsg := range r.Warnings {
				b.WriteString(th.Dim.Render("    warning: " + wmsg))
				b.WriteString("\n")
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// FormatBest lists the best buckets. A main model whose every submodel is
// among them is shown once without a submodel.
func FormatBest(best []evaluation.Bucket) string {
	if len(best) == 0 {
		return "-"
	}
	subs := make(map[model.MainModel]int)
	for _, bk := range best {
		subs[bk.Main]++
	}

	var parts []string
	seen := make(map[model.MainModel]bool)
	for _, bk := range best {
		if subs[bk.Main] == len(model.SubModels()) {
			if !seen[bk.Main] {
				parts = append(parts, string(bk.Main))
				seen[bk.Main] = true
			}
			continue
		}
		parts = append(parts, bk.String())
	}
	return strings.Join(parts, ", ")
}

// WriteCSV writes one line per student: student, score, evaluated,
// questions, best, error.
func WriteCSV(w io.Writer, results []scoring.StudentResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"student", "score", "evaluated", "questions", "best", "error"}); err != nil {
		return err
	}
	for _, r := range results {
		errText := ""
		if r.Err != nil {
			errText = strings.ReplaceAll(r.Err.Error(), "\n", "; ")
		}
		rec := []string{
			r.Student,
			strconv.Itoa(r.Result.Score),
			strconv.Itoa(r.Result.Evaluated),
			strconv.Itoa(r.Result.Questions),
			FormatBest(r.Result.Best),
			errText,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
