package answer

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxBindings is the largest number of variable bindings a Choice can hold.
const MaxBindings = 3

// Choice is one selectable option: an ordered tuple of 2 or 3 variable
// bindings (a, b and optionally c). The zero value is not a valid Choice.
//
// Choice is a comparable value type, so == is positional equality.
type Choice struct {
	vars [MaxBindings]int
	n    int
}

// NewChoice builds a Choice from 2 or 3 binding values.
func NewChoice(values ...int) (Choice, error) {
	if len(values) < 2 || len(values) > MaxBindings {
		return Choice{}, fmt.Errorf("choice needs 2 or 3 values, got %d", len(values))
	}
	var c Choice
	c.n = copy(c.vars[:], values)
	return c, nil
}

// Len returns the number of bindings.
func (c Choice) Len() int { return c.n }

// Values returns the bindings in order.
func (c Choice) Values() []int {
	out := make([]int, c.n)
	copy(out, c.vars[:c.n])
	return out
}

// Equal reports whether both choices bind the same values in the same order.
func (c Choice) Equal(o Choice) bool { return c == o }

// String renders the choice as "a = 1, b = 2".
func (c Choice) String() string {
	parts := make([]string, c.n)
	for i := 0; i < c.n; i++ {
		parts[i] = fmt.Sprintf("%c = %d", 'a'+rune(i), c.vars[i])
	}
	return strings.Join(parts, ", ")
}

// raw renders the choice in the input grammar ("1,2").
func (c Choice) raw() string {
	parts := make([]string, c.n)
	for i := 0; i < c.n; i++ {
		parts[i] = strconv.Itoa(c.vars[i])
	}
	return strings.Join(parts, FieldSeparator)
}
