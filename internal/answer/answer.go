// Package answer models a response to one quiz question as a set of
// variable-binding choices, parsed from strings like "1,2|3,4,5".
package answer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aptitude-lab/modelscore/internal/diag"
)

const (
	// ChoiceSeparator separates choices in a raw answer.
	ChoiceSeparator = "|"
	// FieldSeparator separates binding values inside one choice.
	FieldSeparator = ","

	// NoQuestion marks an answer not yet bound to a question.
	NoQuestion = -1
)

// Answer is the set of choices given for one question. An answer with no
// choices is blank. Answers are immutable apart from a single question id
// reassignment when registered into a catalog.
type Answer struct {
	choices    []Choice
	questionID int
	reassigned bool
}

// Blank returns an answer with no choices.
func Blank(questionID int) *Answer {
	return &Answer{questionID: questionID}
}

// New builds an answer from already constructed choices.
func New(questionID int, choices ...Choice) *Answer {
	a := &Answer{questionID: questionID, choices: make([]Choice, len(choices))}
	copy(a.choices, choices)
	return a
}

// Parse builds an answer from its description string. Segments with an
// unsupported number of fields are reported to sink and skipped; a
// non-numeric value fails the whole answer with a *ParseError.
func Parse(raw string, questionID int, sink diag.Sink) (*Answer, error) {
	sink = diag.OrDiscard(sink)
	a := Blank(questionID)
	if strings.TrimSpace(raw) == "" {
		return a, nil
	}

	for _, segment := range splitFields(raw, ChoiceSeparator) {
		fields := splitFields(segment, FieldSeparator)
		if len(fields) != 2 && len(fields) != MaxBindings {
			sink.Warnf("question %d: answer %q has a choice with an unsupported number of variables (%d)",
				questionID, raw, len(fields))
			continue
		}

		values := make([]int, len(fields))
		for i, f := range fields {
			v, err := strconv.Atoi(strings.TrimSpace(f))
			if err != nil {
				return nil, &ParseError{QuestionID: questionID, Segment: segment, Err: err}
			}
			values[i] = v
		}

		c, err := NewChoice(values...)
		if err != nil {
			return nil, &ParseError{QuestionID: questionID, Segment: segment, Err: err}
		}
		a.choices = append(a.choices, c)
	}
	return a, nil
}

// splitFields splits s around sep and drops trailing blank fields, so "1,2|"
// holds a single choice.
func splitFields(s, sep string) []string {
	fields := strings.Split(s, sep)
	for len(fields) > 0 && strings.TrimSpace(fields[len(fields)-1]) == "" {
		fields = fields[:len(fields)-1]
	}
	return fields
}

// MustParse is like Parse but panics on error. Intended for tests and
// static fixtures.
func MustParse(raw string, questionID int) *Answer {
	a, err := Parse(raw, questionID, nil)
	if err != nil {
		panic(err)
	}
	return a
}

// QuestionID returns the id of the question this answer belongs to.
func (a *Answer) QuestionID() int { return a.questionID }

// AssignQuestion binds the answer to a question id. The id can be changed
// at most once; assigning the current id again is a no-op.
func (a *Answer) AssignQuestion(id int) error {
	if id == a.questionID {
		return nil
	}
	if a.reassigned {
		return fmt.Errorf("%w: %d -> %d", ErrAlreadyAssigned, a.questionID, id)
	}
	a.questionID = id
	a.reassigned = true
	return nil
}

// ChoiceCount returns the number of choices.
func (a *Answer) ChoiceCount() int { return len(a.choices) }

// IsBlank reports whether the student left the question unanswered.
func (a *Answer) IsBlank() bool { return len(a.choices) == 0 }

// Choices returns a copy of the choices in parse order.
func (a *Answer) Choices() []Choice {
	out := make([]Choice, len(a.choices))
	copy(out, a.choices)
	return out
}

// Equal reports whether both answers belong to the same question and hold
// the same multiset of choices, in any order.
func (a *Answer) Equal(o *Answer) bool {
	if a == nil || o == nil {
		return a == o
	}
	if a.questionID != o.questionID || len(a.choices) != len(o.choices) {
		return false
	}

	used := make([]bool, len(o.choices))
	for _, c := range a.choices {
		found := false
		for j, oc := range o.choices {
			if !used[j] && c == oc {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// String renders every choice as "a = 1, b = 2", separated by "; ".
func (a *Answer) String() string {
	if len(a.choices) == 0 {
		return "(blank)"
	}
	parts := make([]string, len(a.choices))
	for i, c := range a.choices {
		parts[i] = c.String()
	}
	return strings.Join(parts, "; ")
}

// Raw renders the answer back into its description grammar.
func (a *Answer) Raw() string {
	parts := make([]string, len(a.choices))
	for i, c := range a.choices {
		parts[i] = c.raw()
	}
	return strings.Join(parts, ChoiceSeparator)
}

// SplitIntoSingleChoiceAnswers returns one answer per choice, each bound to
// the same question.
func (a *Answer) SplitIntoSingleChoiceAnswers() []*Answer {
	out := make([]*Answer, 0, len(a.choices))
	for _, c := range a.choices {
		out = append(out, New(a.questionID, c))
	}
	return out
}
