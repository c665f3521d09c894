package answer

import (
	"errors"
	"fmt"
)

// ErrAlreadyAssigned is returned when an answer's question id is changed a
// second time.
var ErrAlreadyAssigned = errors.New("answer question id already reassigned")

// ParseError reports a malformed token inside an answer description.
// It is fatal for the answer being parsed, never for the surrounding batch.
type ParseError struct {
	QuestionID int
	Segment    string
	Err        error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("question %d: malformed choice %q: %v", e.QuestionID, e.Segment, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
