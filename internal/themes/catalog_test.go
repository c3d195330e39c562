package themes

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordhunt/internal/domain"
)

func TestBuiltinCatalog(t *testing.T) {
	catalog, err := Builtin()
	require.NoError(t, err)

	names := catalog.Names()
	assert.Contains(t, names, "animals")
	assert.Contains(t, names, "space")
	assert.Contains(t, names, "food")
	assert.IsIncreasing(t, names)

	for _, name := range names {
		words, err := catalog.WordsFor(name)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(words), MinVocabulary, "theme %q", name)

		seen := make(map[string]bool, len(words))
		for _, w := range words {
			assert.False(t, seen[w], "duplicate word %q in theme %q", w, name)
			seen[w] = true
		}
	}
}

func TestWordsForUnknownTheme(t *testing.T) {
	catalog, err := Builtin()
	require.NoError(t, err)

	_, err = catalog.WordsFor("cryptozoology")
	assert.ErrorIs(t, err, domain.ErrUnknownTheme)
	assert.False(t, catalog.Has("cryptozoology"))
}

func TestWordsForReturnsCopy(t *testing.T) {
	catalog, err := Builtin()
	require.NoError(t, err)

	words, err := catalog.WordsFor("animals")
	require.NoError(t, err)
	words[0] = "mutated"

	again, err := catalog.WordsFor("animals")
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", again[0])
}

func TestLoadDirMergesOverBuiltins(t *testing.T) {
	dir := t.TempDir()

	raw := []byte("oceans:\n")
	for _, w := range syntheticWords(64) {
		raw = append(raw, "  - "...)
		raw = append(raw, w...)
		raw = append(raw, '\n')
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.yaml"), raw, 0o644))

	catalog, err := LoadDir(dir)
	require.NoError(t, err)
	assert.True(t, catalog.Has("oceans"), "directory themes loaded")
	assert.True(t, catalog.Has("animals"), "builtins kept")
}

func TestLoadDirRejectsTinyVocabulary(t *testing.T) {
	dir := t.TempDir()
	raw := []byte("tiny: [one, two, three]\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tiny.yaml"), raw, 0o644))

	_, err := LoadDir(dir)
	assert.Error(t, err)
}

func syntheticWords(n int) []string {
	words := make([]string, n)
	for i := range words {
		words[i] = "word" + string(rune('a'+i%26)) + string(rune('a'+i/26))
	}
	return words
}
