// Package diag collects non-fatal diagnostics produced while parsing and
// scoring. Diagnostics are data: callers get them back as strings and may
// additionally echo them to a writer.
package diag

import (
	"fmt"
	"io"
	"sync"
)

// Sink receives diagnostic messages.
type Sink interface {
	Warnf(format string, args ...any)
}

// Collector accumulates warnings in the order they were emitted.
// It is safe for concurrent use.
type Collector struct {
	mu       sync.Mutex
	warnings []string
	echo     io.Writer
}

// NewCollector creates a Collector. If echo is non-nil every warning is also
// written to it as a "warning: ..." line.
func NewCollector(echo io.Writer) *Collector {
	return &Collector{echo: echo}
}

func (c *Collector) Warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.warnings = append(c.warnings, msg)
	if c.echo != nil {
		fmt.Fprintf(c.echo, "warning: %s\n", msg)
	}
}

// Warnings returns a copy of the collected warnings.
func (c *Collector) Warnings() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.warnings))
	copy(out, c.warnings)
	return out
}

// Len returns the number of collected warnings.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.warnings)
}

// Discard drops every diagnostic.
var Discard Sink = discard{}

type discard struct{}

func (discard) Warnf(string, ...any) {}

// OrDiscard returns s, or Discard when s is nil.
func OrDiscard(s Sink) Sink {
	if s == nil {
		return Discard
	}
	return s
}
