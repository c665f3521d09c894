// Package evaluation derives a consistency score for one student: the
// largest number of questions whose answers agree with a single mental
// model variant.
package evaluation

import (
	"github.com/aptitude-lab/modelscore/internal/answer"
	"github.com/aptitude-lab/modelscore/internal/catalog"
	"github.com/aptitude-lab/modelscore/internal/diag"
)

// Result is the outcome of evaluating one student.
type Result struct {
	Score     int
	Questions int // questions in the catalog
	Evaluated int // questions with a student answer
	Best      []Bucket
	Counts    []BucketCount
}

// Evaluate scores one student's answers against questions, in question
// order. A question without a matching student answer is reported to sink
// and contributes nothing. The returned accumulator is owned by the caller.
func Evaluate(questions []*catalog.Question, answers []*answer.Answer, sink diag.Sink) (*Result, *Accumulator) {
	sink = diag.OrDiscard(sink)
	acc := NewAccumulator()

	for _, q := range questions {
		a := answerFor(q.ID(), answers)
		if a == nil {
			sink.Warnf("could not find a student answer for question %d", q.ID())
			continue
		}
		models, err := q.ModelsForAnswer(a, sink)
		if err != nil {
			continue
		}
		acc.AddQuestion(models)
	}

	return &Result{
		Score:     acc.Score(),
		Questions: len(questions),
		Evaluated: acc.Questions(),
		Best:      acc.Best(),
		Counts:    acc.Counts(),
	}, acc
}

func answerFor(questionID int, answers []*answer.Answer) *answer.Answer {
	for _, a := range answers {
		if a != nil && a.QuestionID() == questionID {
			return a
		}
	}
	return nil
}
