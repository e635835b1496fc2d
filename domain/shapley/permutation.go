package shapley

// MaxCountable is the largest n whose factorial fits in a uint64.
const MaxCountable = 20

// Identity returns the ordering 0, 1, ..., n-1.
func Identity(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return p
}

// NextPermutation rearranges p into the lexicographically next ordering.
//
// It returns false when p was the last ordering, in which case p is reset to
// ascending order so the sequence can restart. Starting from Identity(n) and
// calling NextPermutation until it returns false visits every one of the n!
// orderings exactly once.
func NextPermutation(p []int) bool {
	i := len(p) - 2
	for i >= 0 && p[i] >= p[i+1] {
		i--
	}
	if i < 0 {
		reverse(p)
		return false
	}

	j := len(p) - 1
	for p[j] <= p[i] {
		j--
	}
	p[i], p[j] = p[j], p[i]
	reverse(p[i+1:])
	return true
}

func reverse(p []int) {
	for i, j := 0, len(p)-1; i < j; i, j = i+1, j-1 {
		p[i], p[j] = p[j], p[i]
	}
}

// Count returns n!, the number of orderings of n agents.
// It returns 0 when n is negative or larger than MaxCountable.
func Count(n int) uint64 {
	if n < 0 || n > MaxCountable {
		return 0
	}
	c := uint64(1)
	for i := 2; i <= n; i++ {
		c *= uint64(i)
	}
	return c
}
