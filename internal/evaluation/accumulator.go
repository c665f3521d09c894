package evaluation

import "github.com/aptitude-lab/modelscore/internal/model"

// Accumulator counts, per bucket, how many questions were consistent with
// that bucket. Counts only grow. An Accumulator belongs to one student's
// evaluation and must not be shared or reused.
type Accumulator struct {
	counts    []int
	questions int
}

// NewAccumulator returns a zeroed accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{counts: make([]int, len(buckets))}
}

// AddQuestion folds the models resolved for one question into the table.
// A question adds at most one point to any bucket, however many of its
// models hit that bucket.
func (a *Accumulator) AddQuestion(models []model.Model) {
	hit := make([]int, len(buckets))
	for _, m := range models {
		for _, i := range indexesFor(m) {
			hit[i]++
		}
	}
	for i, n := range hit {
		if n > 0 {
			a.counts[i]++
		}
	}
	a.questions++
}

// Questions returns the number of questions folded in so far.
func (a *Accumulator) Questions() int { return a.questions }

// Count returns the current count of bucket b.
func (a *Accumulator) Count(b Bucket) int {
	i, ok := bucketIndex[b]
	if !ok {
		return 0
	}
	return a.counts[i]
}

// Score returns the largest bucket count.
func (a *Accumulator) Score() int {
	best := 0
	for _, n := range a.counts {
		if n > best {
			best = n
		}
	}
	return best
}

// Best returns the buckets holding the score, in table order. It is empty
// when the score is zero.
func (a *Accumulator) Best() []Bucket {
	score := a.Score()
	if score == 0 {
		return nil
	}
	var out []Bucket
	for i, n := range a.counts {
		if n == score {
			out = append(out, buckets[i])
		}
	}
	return out
}

// Counts returns the non-zero bucket counts in table order.
func (a *Accumulator) Counts() []BucketCount {
	var out []BucketCount
	for i, n := range a.counts {
		if n > 0 {
			out = append(out, BucketCount{Bucket: buckets[i], Count: n})
		}
	}
	return out
}

// BucketCount is a bucket with its count.
type BucketCount struct {
	Bucket Bucket
	Count  int
}
