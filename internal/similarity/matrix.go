package similarity

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Matrix holds pairwise cosine similarities over a theme vocabulary,
// built once per session when the theme is fixed. Guess scoring is then
// an in-memory lookup instead of a provider round trip. The matrix is
// immutable after construction.
type Matrix struct {
	words   []string
	index   map[string]int
	scores  [][]float64
	vectors map[string][]float32
}

// BuildMatrix batch-resolves embeddings for the full vocabulary in one
// call and computes all pairwise cosine similarities. Symmetry and unit
// self-similarity hold by construction.
func BuildMatrix(ctx context.Context, embedder Embedder, vocabulary []string) (*Matrix, error) {
	words := make([]string, 0, len(vocabulary))
	seen := make(map[string]bool, len(vocabulary))
	for _, w := range vocabulary {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		words = append(words, w)
	}

	vectors, err := embedder.EmbedBatch(ctx, words)
	if err != nil {
		return nil, err
	}
	for _, w := range words {
		if _, ok := vectors[w]; !ok {
			return nil, fmt.Errorf("missing embedding for %q: %w", w, ErrUnavailable)
		}
	}

	m := &Matrix{
		words:   words,
		index:   make(map[string]int, len(words)),
		scores:  make([][]float64, len(words)),
		vectors: vectors,
	}
	for i, w := range words {
		m.index[w] = i
		m.scores[i] = make([]float64, len(words))
	}

	for i := range words {
		m.scores[i][i] = 1
		for j := i + 1; j < len(words); j++ {
			score := Cosine(vectors[words[i]], vectors[words[j]])
			m.scores[i][j] = score
			m.scores[j][i] = score
		}
	}

	return m, nil
}

// Words returns the vocabulary covered by the matrix
func (m *Matrix) Words() []string {
	return m.words
}

// Score returns the similarity between two words. Pairs outside the
// precomputed table fall back to a direct cosine computation when both
// vectors are known; otherwise ok is false.
func (m *Matrix) Score(a, b string) (float64, bool) {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))

	i, iok := m.index[a]
	j, jok := m.index[b]
	if iok && jok {
		return m.scores[i][j], true
	}

	va, aok := m.vectors[a]
	vb, bok := m.vectors[b]
	if aok && bok {
		return Cosine(va, vb), true
	}
	return 0, false
}

// MostSimilar returns up to limit vocabulary words ranked by similarity to
// the given word, excluding the word itself.
func (m *Matrix) MostSimilar(word string, limit int) []string {
	word = strings.ToLower(strings.TrimSpace(word))
	i, ok := m.index[word]
	if !ok {
		return nil
	}

	type ranked struct {
		word  string
		score float64
	}
	candidates := make([]ranked, 0, len(m.words)-1)
	for j, w := range m.words {
		if j == i {
			continue
		}
		candidates = append(candidates, ranked{word: w, score: m.scores[i][j]})
	}
	sort.Slice(candidates, func(a, b int) bool {
		if candidates[a].score != candidates[b].score {
			return candidates[a].score > candidates[b].score
		}
		return candidates[a].word < candidates[b].word
	})

	if limit > len(candidates) {
		limit = len(candidates)
	}
	out := make([]string, limit)
	for k := 0; k < limit; k++ {
		out[k] = candidates[k].word
	}
	return out
}

// MeanSimilarity returns the average similarity of a word against the rest
// of the vocabulary. Low values mark words that resist triangulation.
func (m *Matrix) MeanSimilarity(word string) float64 {
	word = strings.ToLower(strings.TrimSpace(word))
	i, ok := m.index[word]
	if !ok || len(m.words) < 2 {
		return 0
	}
	sum := 0.0
	for j := range m.words {
		if j == i {
			continue
		}
		sum += m.scores[i][j]
	}
	return sum / float64(len(m.words)-1)
}

// Cosine computes the cosine similarity between two vectors
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
