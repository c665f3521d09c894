package source

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned for catalog files with an unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported catalog format")
	// ErrMissingCorner is returned when a responses sheet does not start with "Code".
	ErrMissingCorner = errors.New(`responses sheet must have "Code" in its first cell`)
)

// FormatError reports a document that could not be decoded or validated.
type FormatError struct {
	Path string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }
