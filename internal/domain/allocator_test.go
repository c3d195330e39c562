package domain

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testVocabulary(n int) []string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("word%03d", i)
	}
	return words
}

func TestAllocatePoolsDisjointAndCovering(t *testing.T) {
	vocab := testVocabulary(60)
	rng := rand.New(rand.NewSource(42))

	pools, err := AllocatePools(vocab, 3, 20, rng)
	require.NoError(t, err)
	require.Len(t, pools, 3)

	seen := make(map[string]int)
	for _, pool := range pools {
		assert.Len(t, pool, 20)
		assert.True(t, sort.StringsAreSorted(pool), "pool should be sorted for stable display")
		for _, w := range pool {
			seen[w]++
		}
	}

	// Disjoint and, with W == N*k, covering the full vocabulary.
	assert.Len(t, seen, 60)
	for w, count := range seen {
		assert.Equal(t, 1, count, "word %s appears in more than one pool", w)
	}
}

func TestAllocatePoolsDiscardsRemainder(t *testing.T) {
	vocab := testVocabulary(65)
	rng := rand.New(rand.NewSource(1))

	pools, err := AllocatePools(vocab, 3, 20, rng)
	require.NoError(t, err)

	total := 0
	for _, pool := range pools {
		total += len(pool)
	}
	assert.Equal(t, 60, total)
}

func TestAllocatePoolsVocabularyTooSmall(t *testing.T) {
	vocab := testVocabulary(59)
	rng := rand.New(rand.NewSource(1))

	_, err := AllocatePools(vocab, 3, 20, rng)
	assert.ErrorIs(t, err, ErrVocabularyTooSmall)
}

func TestAllocatePoolsDoesNotMutateInput(t *testing.T) {
	vocab := testVocabulary(60)
	original := append([]string(nil), vocab...)
	rng := rand.New(rand.NewSource(7))

	_, err := AllocatePools(vocab, 3, 20, rng)
	require.NoError(t, err)
	assert.Equal(t, original, vocab)
}
