// Package combin enumerates index subsets and cartesian products in a fixed,
// documented order.
package combin

// EachSubset calls fn for every non-empty subset of {0..n-1}, ordered by size
// and lexicographically within a size. fn must not retain the slice; returning
// false stops the walk.
func EachSubset(n int, fn func(idx []int) bool) {
	for k := 1; k <= n; k++ {
		if !eachCombination(n, k, fn) {
			return
		}
	}
}

// Subsets materialises EachSubset
func Subsets(n int) [][]int {
	var out [][]int
	EachSubset(n, func(idx []int) bool {
		c := make([]int, len(idx))
		copy(c, idx)
		out = append(out, c)
		return true
	})
	return out
}

func eachCombination(n, k int, fn func([]int) bool) bool {
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		if !fn(idx) {
			return false
		}
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return true
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// EachProduct calls fn for every tuple in the cartesian product of
// [0,sizes[0]) x ... x [0,sizes[n-1]), last position varying fastest.
// Any zero size yields no tuples.
func EachProduct(sizes []int, fn func(tuple []int) bool) {
	if len(sizes) == 0 {
		return
	}
	for _, s := range sizes {
		if s == 0 {
			return
		}
	}
	tuple := make([]int, len(sizes))
	for {
		if !fn(tuple) {
			return
		}
		i := len(sizes) - 1
		for i >= 0 {
			tuple[i]++
			if tuple[i] < sizes[i] {
				break
			}
			tuple[i] = 0
			i--
		}
		if i < 0 {
			return
		}
	}
}
