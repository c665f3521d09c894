package diag

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectorKeepsOrder(t *testing.T) {
	c := NewCollector(nil)
	c.Warnf("first %d", 1)
	c.Warnf("second")

	assert.Equal(t, []string{"first 1", "second"}, c.Warnings())
	assert.Equal(t, 2, c.Len())
}

func TestCollectorEcho(t *testing.T) {
	var buf bytes.Buffer
	c := NewCollector(&buf)
	c.Warnf("question %d has no answer", 4)

	assert.Equal(t, "warning: question 4 has no answer\n", buf.String())
}

func TestWarningsReturnsCopy(t *testing.T) {
	c := NewCollector(nil)
	c.Warnf("x")
	w := c.Warnings()
	w[0] = "mutated"
	assert.Equal(t, []string{"x"}, c.Warnings())
}

func TestOrDiscard(t *testing.T) {
	assert.Equal(t, Discard, OrDiscard(nil))
	c := NewCollector(nil)
	assert.Equal(t, Sink(c), OrDiscard(c))
}
