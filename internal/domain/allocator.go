package domain

import (
	"math/rand"
	"sort"
)

// AllocatePools partitions a theme vocabulary into n disjoint pools of k
// words each. The vocabulary is shuffled, sliced into contiguous chunks
// (any remainder is discarded) and each chunk is sorted for stable display.
// Disjointness holds by construction. If the vocabulary cannot cover n*k
// words the allocation fails instead of silently shrinking pools.
func AllocatePools(vocabulary []string, n, k int, rng *rand.Rand) ([][]string, error) {
	if len(vocabulary) < n*k {
		return nil, ErrVocabularyTooSmall
	}

	shuffled := append([]string(nil), vocabulary...)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	pools := make([][]string, n)
	for i := 0; i < n; i++ {
		pool := append([]string(nil), shuffled[i*k:(i+1)*k]...)
		sort.Strings(pool)
		pools[i] = pool
	}

	return pools, nil
}
