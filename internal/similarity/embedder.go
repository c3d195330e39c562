// Package similarity provides word embeddings and the precomputed pairwise
// cosine similarity matrix a session scores guesses against.
package similarity

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when the embedding provider cannot be reached
// or answers with an unusable response.
var ErrUnavailable = errors.New("embedding provider unavailable")

// Embedder maps normalized words to fixed-length vectors. Results are
// content-addressed by lowercase word for a fixed model version, so they
// are cacheable indefinitely.
type Embedder interface {
	// Embed generates an embedding for a single word
	Embed(ctx context.Context, word string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple words in one call
	EmbedBatch(ctx context.Context, words []string) (map[string][]float32, error)

	// Dimension returns the embedding dimension
	Dimension() int
}
