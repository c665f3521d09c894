// Package scoring evaluates a batch of students against one catalog.
package scoring

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/aptitude-lab/modelscore/internal/answer"
	"github.com/aptitude-lab/modelscore/internal/catalog"
	"github.com/aptitude-lab/modelscore/internal/diag"
	"github.com/aptitude-lab/modelscore/internal/evaluation"
	"github.com/aptitude-lab/modelscore/internal/source"
)

// StudentResult is the evaluation of one student.
type StudentResult struct {
	Student  string
	Result   *evaluation.Result
	Warnings []string
	// Err joins the parse failures of this student's answers. Questions
	// whose answer failed to parse count as unanswered.
	Err error
}

// Scorer evaluates students against a shared, read-only catalog.
type Scorer struct {
	cat     *catalog.Catalog
	workers int
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithWorkers bounds the number of students evaluated at once. Values below
// one mean GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(s *Scorer) { s.workers = n }
}

// New creates a Scorer for cat.
func New(cat *catalog.Catalog, opts ...Option) *Scorer {
	s := &Scorer{cat: cat}
	for _, o := range opts {
		o(s)
	}
	if s.workers < 1 {
		s.workers = runtime.GOMAXPROCS(0)
	}
	return s
}

// Score evaluates one student's raw answers.
func (s *Scorer) Score(student string, raw []source.RawAnswer) StudentResult {
	c := diag.NewCollector(nil)
	answers := make([]*answer.Answer, 0, len(raw))
	var errs []error
	for _, r := range raw {
		a, err := answer.Parse(r.Text, r.QuestionID, c)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		answers = append(answers, a)
	}

	res, _ := evaluation.Evaluate(s.cat.Questions(), answers, c)
	return StudentResult{
		Student:  student,
		Result:   res,
		Warnings: c.Warnings(),
		Err:      errors.Join(errs...),
	}
}

// ScoreAll evaluates every student concurrently and returns the results in
// input order. It stops early only when ctx is cancelled.
func (s *Scorer) ScoreAll(ctx context.Context, students []source.StudentResponses) ([]StudentResult, error) {
	results := make([]StudentResult, len(students))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, st := range students {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = s.Score(st.Student, st.Answers)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
