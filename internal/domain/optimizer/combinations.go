package optimizer

// firstCombination returns the smallest k-combination whose first element is
// first: [first, first+1, ..., first+k-1].
func firstCombination(first, k int) []int {
	idx := make([]int, k)
	for i := range idx {
		idx[i] = first + i
	}
	return idx
}

// nextCombination advances idx to the next k-combination of [0, n) in
// ascending lexicographic order, leaving positions below frozen untouched.
// It reports false once the positions from frozen onwards are exhausted.
// The order matches nested loops i < j < k < ... over the same indices.
func nextCombination(idx []int, n, frozen int) bool {
	k := len(idx)
	for i := k - 1; i >= frozen; i-- {
		if idx[i] < n-k+i {
			idx[i]++
			for j := i + 1; j < k; j++ {
				idx[j] = idx[j-1] + 1
			}
			return true
		}
	}
	return false
}
