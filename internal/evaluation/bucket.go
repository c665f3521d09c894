package evaluation

import "github.com/aptitude-lab/modelscore/internal/model"

// Bucket is one concrete (main model, submodel) cell of the accumulator.
type Bucket struct {
	Main model.MainModel
	Sub  model.SubModel
}

func (b Bucket) String() string { return model.New(b.Main, b.Sub).String() }

var (
	buckets     []Bucket
	bucketIndex map[Bucket]int
	// subBuckets lists, per main model, the indexes of all its submodel buckets.
	subBuckets map[model.MainModel][]int
)

func init() {
	bucketIndex = make(map[Bucket]int)
	subBuckets = make(map[model.MainModel][]int)
	for _, m := range model.MainModels() {
		for _, s := range model.SubModels() {
			b := Bucket{Main: m, Sub: s}
			bucketIndex[b] = len(buckets)
			subBuckets[m] = append(subBuckets[m], len(buckets))
			buckets = append(buckets, b)
		}
	}
}

// NumBuckets returns the size of the accumulator table.
func NumBuckets() int { return len(buckets) }

// Buckets returns every bucket in table order.
func Buckets() []Bucket {
	out := make([]Bucket, len(buckets))
	copy(out, buckets)
	return out
}

// indexesFor returns the buckets credited by m. NoModel credits nothing and
// an unspecified submodel credits every submodel of the main model.
func indexesFor(m model.Model) []int {
	if m.Main == model.NoModel {
		return nil
	}
	if m.AnySub() {
		return subBuckets[m.Main]
	}
	if i, ok := bucketIndex[Bucket{Main: m.Main, Sub: m.Sub}]; ok {
		return []int{i}
	}
	return nil
}
