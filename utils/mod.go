package utils

import "golang.org/x/exp/rand"

// Sample draws k items from slice uniformly without replacement, in draw order. The
// input is left untouched. If k covers the whole slice a copy of it is returned
// unshuffled.
func Sample[T any](r *rand.Rand, slice []T, k int) []T {
	pool := make([]T, len(slice))
	copy(pool, slice)
	if k >= len(pool) {
		return pool
	}
	if k <= 0 {
		return []T{}
	}
	// Partial Fisher-Yates: the first k slots become the sample
	for i := 0; i < k; i++ {
		j := i + r.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}
