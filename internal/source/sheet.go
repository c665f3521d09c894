package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aptitude-lab/modelscore/internal/catalog"
	"github.com/aptitude-lab/modelscore/internal/diag"
)

const (
	// QuestionMarker prefixes question ids in sheet cells ("#3").
	QuestionMarker = "#"
	// CornerLabel is the expected first cell of a responses sheet.
	CornerLabel = "Code"
)

func readRecords(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return records, nil
}

func cell(records [][]string, row, col int) string {
	if row < 0 || row >= len(records) || col < 0 || col >= len(records[row]) {
		return ""
	}
	return strings.TrimSpace(records[row][col])
}

// parseQuestionID reads "#<id>". ok is false when the cell is not a
// question marker at all.
func parseQuestionID(s string) (id int, ok bool, err error) {
	if !strings.HasPrefix(s, QuestionMarker) {
		return 0, false, nil
	}
	id, err = strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(s, QuestionMarker)))
	if err != nil {
		return 0, true, fmt.Errorf("invalid question number %q: %w", s, err)
	}
	return id, true, nil
}

// ReadQuestionSheet reads one question exported from a question sheet: the
// first cell holds "#<id>", then every row carries a reference answer in
// column 0 and its models in column 1. Rows missing either are skipped.
// A nil question means the sheet itself is unusable.
func ReadQuestionSheet(r io.Reader, sink diag.Sink, opts ...catalog.Option) (*catalog.Question, error) {
	records, err := readRecords(r)
	if err != nil {
		return nil, err
	}

	id, ok, err := parseQuestionID(cell(records, 0, 0))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New("question sheet does not start with a question number")
	}

	docs := make([]EntryDoc, 0, len(records))
	for row := 1; row < len(records); row++ {
		docs = append(docs, EntryDoc{Answer: cell(records, row, 0), Models: cell(records, row, 1)})
	}
	return buildQuestion(id, docs, sink, opts...)
}

// RawAnswer is a student's unparsed answer to one question. A blank Text is
// a blank answer.
type RawAnswer struct {
	QuestionID int
	Text       string
}

// StudentResponses holds one student's raw answers in sheet order.
type StudentResponses struct {
	Student string
	Column  int
	Answers []RawAnswer
}

// ReadResponses reads a results sheet: "Code" in the first cell, one
// student code per further column of the first row, and one row per
// question whose first cell is "#<id>". Other rows are ignored.
func ReadResponses(r io.Reader) ([]StudentResponses, error) {
	records, err := readRecords(r)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(cell(records, 0, 0), CornerLabel) {
		return nil, ErrMissingCorner
	}

	header := records[0]
	last := len(header) - 1
	for last > 0 && strings.TrimSpace(header[last]) == "" {
		last--
	}

	students := make([]StudentResponses, 0, last)
	for col := 1; col <= last; col++ {
		name := cell(records, 0, col)
		if name == "" {
			name = fmt.Sprintf("column %d", col)
		}
		students = append(students, StudentResponses{Student: name, Column: col})
	}

	for row := 1; row < len(records); row++ {
		id, ok, err := parseQuestionID(cell(records, row, 0))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row+1, err)
		}
		if !ok {
			continue
		}
		for i := range students {
			students[i].Answers = append(students[i].Answers, RawAnswer{
				QuestionID: id,
				Text:       cell(records, row, students[i].Column),
			})
		}
	}
	return students, nil
}
