package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aptitude-lab/modelscore/internal/evaluation"
	"github.com/aptitude-lab/modelscore/internal/model"
	"github.com/aptitude-lab/modelscore/internal/scoring"
)

const testCatalog = `{
  "version": "1.0.0",
  "questions": [
    {"id": 1, "entries": [{"answer": "1,2", "models": "M2,S1"}, {"answer": "2,1", "models": "M4"}]},
    {"id": 2, "entries": [{"answer": "1,2", "models": "M2,S1"}, {"answer": "2,1", "models": "M4"}]}
  ]
}`

const testResponses = "Code,alice,bob\n" +
	"#1,\"1,2\",\"2,1\"\n" +
	"#2,\"1,2\",\"1,x\"\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestEvaluateStoreAndStats(t *testing.T) {
	dir := t.TempDir()
	catPath := writeFile(t, dir, "swap.json", testCatalog)
	respPath := writeFile(t, dir, "responses.csv", testResponses)
	csvPath := filepath.Join(dir, "results.csv")
	dbPath := filepath.Join(dir, "runs.db")
	envPath := filepath.Join(dir, "missing.env")

	out, err := execute(t, "evaluate",
		"--env-file", envPath, "--db", dbPath,
		"--catalog", catPath, "--responses", respPath,
		"--plain", "--store", "--out", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "swap (2 questions, 2 students)")
	assert.Contains(t, out, "M2+S1")
	assert.Contains(t, out, "error: ")

	csv, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(csv), "student,score,evaluated,questions,best,error\n"))
	assert.Contains(t, string(csv), "alice,2,2,2,M2+S1,")

	out, err = execute(t, "stats", "--env-file", envPath, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "swap")
	assert.Contains(t, out, "duplicates=last split-fallback=false")
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	catPath := writeFile(t, dir, "swap.json", testCatalog)

	out, err := execute(t, "check", "--env-file", filepath.Join(dir, "none.env"), "--catalog", catPath, "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "Catalog: swap")
	assert.Contains(t, out, "#1")
	assert.Contains(t, out, "M2+S1")
	assert.Contains(t, out, "2 questions, 0 warnings")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version", "--env-file", filepath.Join(t.TempDir(), "none.env"))
	require.NoError(t, err)
	assert.Equal(t, "modelscore (devel)\n", out)
}

func TestCatalogName(t *testing.T) {
	assert.Equal(t, "swap", catalogName([]string{"/tmp/q/swap.yaml", "other.json"}))
	assert.Equal(t, "", catalogName(nil))
}

func TestNewRun(t *testing.T) {
	results := []scoring.StudentResult{
		{
			Student:  "alice",
			Result:   &evaluation.Result{Score: 2, Questions: 2, Evaluated: 2, Best: []evaluation.Bucket{{Main: model.M2, Sub: model.S1}}},
			Warnings: []string{"w"},
		},
		{
			Student: "bob",
			Result:  &evaluation.Result{Questions: 2},
			Err:     errors.New("bad"),
		},
	}

	run := newRun("swap", 2, "duplicates=last", results)
	assert.Equal(t, "swap", run.Catalog)
	assert.Equal(t, 2, run.Questions)
	require.Len(t, run.Scores, 2)
	assert.Equal(t, "M2+S1", run.Scores[0].Best)
	assert.Equal(t, []string{"w"}, run.Scores[0].Warnings)
	assert.Equal(t, "-", run.Scores[1].Best)
	assert.Equal(t, "bad", run.Scores[1].Error)
}
