package answer

import (
	"errors"
	"strconv"
	"testing"

	"github.com/aptitude-lab/modelscore/internal/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     [][]int
		warnings int
	}{
		{"blank", "", nil, 0},
		{"whitespace only", "   ", nil, 0},
		{"single pair", "1,2", [][]int{{1, 2}}, 0},
		{"triple", "1,2,3", [][]int{{1, 2, 3}}, 0},
		{"multiple choices", "1,2|3,4|5,6,7", [][]int{{1, 2}, {3, 4}, {5, 6, 7}}, 0},
		{"spaces around tokens", " 1 , 2 | 3,4 ", [][]int{{1, 2}, {3, 4}}, 0},
		{"negative values", "-1,0", [][]int{{-1, 0}}, 0},
		{"four fields skipped", "1,2,3,4", nil, 1},
		{"single field skipped", "7|1,2", [][]int{{1, 2}}, 1},
		{"bad segment in the middle", "1,2|1,2,3,4|5,6", [][]int{{1, 2}, {5, 6}}, 1},
		{"trailing choice separator", "1,2|", [][]int{{1, 2}}, 0},
		{"trailing separators and space", "1,2,|3,4| ", [][]int{{1, 2}, {3, 4}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := diag.NewCollector(nil)
			a, err := Parse(tt.input, 3, c)
			require.NoError(t, err)

			assert.Equal(t, 3, a.QuestionID())
			require.Equal(t, len(tt.want), a.ChoiceCount())
			for i, ch := range a.Choices() {
				assert.Equal(t, tt.want[i], ch.Values())
			}
			assert.Equal(t, tt.warnings, c.Len())
		})
	}
}

func TestParseNonNumeric(t *testing.T) {
	for _, in := range []string{"1,x", "a,b,c", "1,2|3,four", "1.5,2"} {
		t.Run(in, func(t *testing.T) {
			a, err := Parse(in, 9, nil)
			require.Error(t, err)
			assert.Nil(t, a)

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, 9, pe.QuestionID)

			var numErr *strconv.NumError
			assert.True(t, errors.As(err, &numErr))
		})
	}
}

func TestEquality(t *testing.T) {
	base := MustParse("1,2|3,4", 1)

	assert.True(t, base.Equal(base), "reflexive")
	assert.True(t, base.Equal(MustParse("3,4|1,2", 1)), "choice order is irrelevant")
	assert.True(t, MustParse("3,4|1,2", 1).Equal(base), "symmetric")
	assert.False(t, base.Equal(MustParse("2,1|3,4", 1)), "binding order matters")
	assert.False(t, base.Equal(MustParse("1,2|3,4", 2)), "question id matters")
	assert.False(t, base.Equal(MustParse("1,2", 1)), "choice count matters")
	assert.False(t, MustParse("1,2", 1).Equal(MustParse("1,2,0", 1)), "arity matters")
	assert.True(t, Blank(1).Equal(MustParse("", 1)))
}

func TestEqualityIsMultiset(t *testing.T) {
	assert.False(t, MustParse("1,2|1,2", 1).Equal(MustParse("1,2|3,4", 1)))
	assert.False(t, MustParse("1,2|3,4", 1).Equal(MustParse("1,2|1,2", 1)))
	assert.True(t, MustParse("1,2|1,2|3,4", 1).Equal(MustParse("1,2|3,4|1,2", 1)))
}

func TestRoundTrip(t *testing.T) {
	for _, in := range []string{"1,2", "1,2,3|4,5", " 10 ,20| 30,40,50 ", "-3,4"} {
		a := MustParse(in, 5)
		again := MustParse(a.Raw(), 5)
		assert.True(t, a.Equal(again), "round trip of %q via %q", in, a.Raw())
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "a = 1, b = 2", MustParse("1,2", 1).String())
	assert.Equal(t, "a = 1, b = 2, c = 3; a = 4, b = 5", MustParse("1,2,3|4,5", 1).String())
	assert.Equal(t, "(blank)", Blank(1).String())
}

func TestAssignQuestion(t *testing.T) {
	a := MustParse("1,2", NoQuestion)

	require.NoError(t, a.AssignQuestion(4))
	assert.Equal(t, 4, a.QuestionID())
	require.NoError(t, a.AssignQuestion(4), "same id again is a no-op")

	err := a.AssignQuestion(5)
	assert.ErrorIs(t, err, ErrAlreadyAssigned)
	assert.Equal(t, 4, a.QuestionID())
}

func TestSplitIntoSingleChoiceAnswers(t *testing.T) {
	a := MustParse("1,2|3,4,5", 7)
	parts := a.SplitIntoSingleChoiceAnswers()

	require.Len(t, parts, 2)
	assert.True(t, parts[0].Equal(MustParse("1,2", 7)))
	assert.True(t, parts[1].Equal(MustParse("3,4,5", 7)))
	assert.Empty(t, Blank(7).SplitIntoSingleChoiceAnswers())
}

func TestNewChoice(t *testing.T) {
	_, err := NewChoice(1)
	assert.Error(t, err)
	_, err = NewChoice(1, 2, 3, 4)
	assert.Error(t, err)

	c, err := NewChoice(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	d, _ := NewChoice(1, 2)
	e, _ := NewChoice(1, 2, 0)
	assert.True(t, c.Equal(d))
	assert.False(t, c.Equal(e))
}
