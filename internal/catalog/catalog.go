package catalog

import "github.com/aptitude-lab/modelscore/internal/diag"

// Catalog is the ordered set of questions of one quiz.
type Catalog struct {
	Name      string
	questions []*Question
	byID      map[int]*Question
}

// New creates an empty catalog.
func New(name string) *Catalog {
	return &Catalog{Name: name, byID: make(map[int]*Question)}
}

// Add appends q. A question id that is already registered is reported to
// sink and ignored.
func (c *Catalog) Add(q *Question, sink diag.Sink) bool {
	if _, dup := c.byID[q.ID()]; dup {
		diag.OrDiscard(sink).Warnf("question %d registered twice, keeping the first", q.ID())
		return false
	}
	c.questions = append(c.questions, q)
	c.byID[q.ID()] = q
	return true
}

// Questions returns the questions in registration order.
func (c *Catalog) Questions() []*Question {
	out := make([]*Question, len(c.questions))
	copy(out, c.questions)
	return out
}

// Question looks up a question by id.
func (c *Catalog) Question(id int) (*Question, bool) {
	q, ok := c.byID[id]
	return q, ok
}

// Len returns the number of questions.
func (c *Catalog) Len() int { return len(c.questions) }

// IDs returns the question ids in registration order.
func (c *Catalog) IDs() []int {
	ids := make([]int, len(c.questions))
	for i, q := range c.questions {
		ids[i] = q.ID()
	}
	return ids
}
