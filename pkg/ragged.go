package km3

// Ragged holds a jagged collection in CSR layout: a flat value buffer plus
// an offsets array with one entry per sub-list boundary. Sub-list i spans
// Values[Offsets[i]:Offsets[i+1]]. All per-event collections (hits, tracks)
// and per-track collections (rec_stages, fitinf, hit_ids) use this shape,
// which keeps sub-list slicing O(1) and lets the selection code run as a
// single pass over the flat buffer.
type Ragged[T any] struct {
	Values  []T
	Offsets []int64
}

// NewRagged builds a ragged array from a flat value buffer and the per-list
// element counts. The counts must sum to len(values).
func NewRagged[T any](values []T, counts []int64) Ragged[T] {
	return Ragged[T]{Values: values, Offsets: OffsetsFromCounts(counts)}
}

func OffsetsFromCounts(counts []int64) []int64 {
	offsets := make([]int64, len(counts)+1)
	for i, n := range counts {
		offsets[i+1] = offsets[i] + n
	}
	return offsets
}

// NumLists returns the number of sub-lists.
func (r Ragged[T]) NumLists() int {
	if len(r.Offsets) == 0 {
		return 0
	}
	return len(r.Offsets) - 1
}

// NumValues returns the total number of elements across all sub-lists.
func (r Ragged[T]) NumValues() int {
	return len(r.Values)
}

// Sublist returns the elements of sub-list i. The returned slice aliases the
// underlying buffer.
func (r Ragged[T]) Sublist(i int) []T {
	return r.Values[r.Offsets[i]:r.Offsets[i+1]]
}

// Count returns the number of elements in sub-list i.
func (r Ragged[T]) Count(i int) int64 {
	return r.Offsets[i+1] - r.Offsets[i]
}

// Counts returns the per-list element counts.
func (r Ragged[T]) Counts() []int64 {
	counts := make([]int64, r.NumLists())
	for i := range counts {
		counts[i] = r.Count(i)
	}
	return counts
}
