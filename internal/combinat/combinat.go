// Package combinat enumerates k-subsets of {0..n-1} in lexicographic order.
package combinat

// Iter walks the k-subsets of n elements.
type Iter struct {
	n, k    int
	idx     []int
	started bool
	done    bool
}

// New returns an iterator positioned before the first subset.
func New(n, k int) *Iter {
	return &Iter{n: n, k: k, done: k > n || k < 0}
}

// Next advances to the next subset and reports whether there is one.
func (it *Iter) Next() bool {
	if it.done {
		return false
	}
	if !it.started {
		it.started = true
		it.idx = make([]int, it.k)
		for i := range it.idx {
			it.idx[i] = i
		}
		return true
	}
	i := it.k - 1
	for i >= 0 && it.idx[i] == it.n-it.k+i {
		i--
	}
	if i < 0 {
		it.done = true
		return false
	}
	it.idx[i]++
	for j := i + 1; j < it.k; j++ {
		it.idx[j] = it.idx[j-1] + 1
	}
	return true
}

// Indices returns the current subset. The slice is reused by Next.
func (it *Iter) Indices() []int {
	return it.idx
}

// Remove returns a copy of s without the elements at the sorted indices idx.
func Remove[T any](s []T, idx []int) []T {
	out := make([]T, 0, len(s)-len(idx))
	j := 0
	for i, v := range s {
		if j < len(idx) && idx[j] == i {
			j++
			continue
		}
		out = append(out, v)
	}
	return out
}

// Select returns the elements of s at the indices idx.
func Select[T any](s []T, idx []int) []T {
	out := make([]T, len(idx))
	for i, j := range idx {
		out[i] = s[j]
	}
	return out
}
