// Package catalog holds the author-supplied reference answers for each quiz
// question and resolves student answers to the mental models they represent.
package catalog

import (
	"errors"

	"github.com/aptitude-lab/modelscore/internal/answer"
	"github.com/aptitude-lab/modelscore/internal/diag"
	"github.com/aptitude-lab/modelscore/internal/model"
)

// ErrQuestionMismatch is returned when an answer is looked up against a
// question it does not belong to. It signals caller misuse.
var ErrQuestionMismatch = errors.New("answer does not belong to this question")

// DuplicatePolicy selects which entry wins when several reference answers
// of one question equal the student answer.
type DuplicatePolicy string

const (
	LastMatch  DuplicatePolicy = "last"
	FirstMatch DuplicatePolicy = "first"
)

// ParseDuplicatePolicy accepts "last" or "first".
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(s) {
	case LastMatch, FirstMatch:
		return DuplicatePolicy(s), nil
	case "":
		return LastMatch, nil
	}
	return "", errors.New("duplicate policy must be \"last\" or \"first\"")
}

// Entry maps one reference answer to the models it represents.
type Entry struct {
	Answer *answer.Answer
	Models []model.Model
}

// Options configures answer resolution.
type Options struct {
	Duplicates DuplicatePolicy
	// SplitFallback retries an unmatched multi-choice answer one choice at a
	// time. It over-credits students who tick every option, so it is off
	// unless explicitly requested.
	SplitFallback bool
}

// Option mutates Options.
type Option func(*Options)

// WithDuplicatePolicy sets how duplicate reference answers are resolved.
func WithDuplicatePolicy(p DuplicatePolicy) Option {
	return func(o *Options) { o.Duplicates = p }
}

// WithSplitFallback enables the single-choice fallback.
func WithSplitFallback() Option {
	return func(o *Options) { o.SplitFallback = true }
}

// Question is one quiz question with its ordered reference entries. It is
// read-only after construction and safe to share between goroutines.
type Question struct {
	id      int
	entries []Entry
	opts    Options
}

// NewQuestion registers entries for question id. Entries without choices
// are rejected and duplicate reference answers are flagged; both are
// reported to sink.
func NewQuestion(id int, entries []Entry, sink diag.Sink, opts ...Option) *Question {
	sink = diag.OrDiscard(sink)
	q := &Question{
		id:      id,
		entries: make([]Entry, 0, len(entries)),
		opts:    Options{Duplicates: LastMatch},
	}
	for _, o := range opts {
		o(&q.opts)
	}

	for i, e := range entries {
		if e.Answer == nil || e.Answer.ChoiceCount() < 1 {
			sink.Warnf("question %d: reference entry %d has no choices, rejected", id, i+1)
			continue
		}
		if err := e.Answer.AssignQuestion(id); err != nil {
			sink.Warnf("question %d: reference entry %d: %v, rejected", id, i+1, err)
			continue
		}
		for j, prev := range q.entries {
			if prev.Answer.Equal(e.Answer) {
				sink.Warnf("question %d: reference answer %q duplicates entry %d (models %v and %v)",
					id, e.Answer.Raw(), j+1, prev.Models, e.Models)
				break
			}
		}
		q.entries = append(q.entries, e)
	}
	return q
}

// ID returns the question id.
func (q *Question) ID() int { return q.id }

// Entries returns a copy of the registered entries.
func (q *Question) Entries() []Entry {
	out := make([]Entry, len(q.entries))
	copy(out, q.entries)
	return out
}

// ModelsForAnswer returns the models of the reference entry equal to a.
// No match yields an empty, non-nil slice. An answer for another question
// yields ErrQuestionMismatch and no models.
func (q *Question) ModelsForAnswer(a *answer.Answer, sink diag.Sink) ([]model.Model, error) {
	sink = diag.OrDiscard(sink)
	if a.QuestionID() != q.id {
		sink.Warnf("answer for question %d looked up in question %d", a.QuestionID(), q.id)
		return nil, ErrQuestionMismatch
	}

	result := q.modelsForSingleAnswer(a, sink)
	if len(result) == 0 && q.opts.SplitFallback && a.ChoiceCount() > 1 {
		for _, sub := range a.SplitIntoSingleChoiceAnswers() {
			result = append(result, q.modelsForSingleAnswer(sub, sink)...)
		}
	}
	return result, nil
}

func (q *Question) modelsForSingleAnswer(a *answer.Answer, sink diag.Sink) []model.Model {
	matched := -1
	for i, e := range q.entries {
		if !e.Answer.Equal(a) {
			continue
		}
		if matched >= 0 {
			sink.Warnf("question %d: answer %q matches reference entries %d and %d (%s match wins)",
				q.id, a.Raw(), matched+1, i+1, q.opts.Duplicates)
			if q.opts.Duplicates == FirstMatch {
				continue
			}
		}
		matched = i
	}

	if matched < 0 {
		return []model.Model{}
	}
	out := make([]model.Model, len(q.entries[matched].Models))
	copy(out, q.entries[matched].Models)
	return out
}
