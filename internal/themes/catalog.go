// Package themes provides the theme catalog: named vocabularies sessions
// draw their secrets and guesses from.
package themes

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"wordhunt/internal/domain"
)

//go:embed themes.yaml
var builtinYAML []byte

// MinVocabulary is the smallest vocabulary a theme may carry; anything
// below it cannot cover a full table of word pools.
const MinVocabulary = 60

// Catalog maps theme names to their vocabularies
type Catalog struct {
	vocabularies map[string][]string
	names        []string
}

// Builtin loads the embedded theme catalog
func Builtin() (*Catalog, error) {
	return parse(builtinYAML)
}

// LoadDir loads the builtin catalog plus any *.yaml files in dir, later
// files overriding earlier names.
func LoadDir(dir string) (*Catalog, error) {
	catalog, err := Builtin()
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return catalog, nil
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	for _, path := range matches {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read theme file %s: %w", path, err)
		}
		extra, err := parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse theme file %s: %w", path, err)
		}
		for name, words := range extra.vocabularies {
			if _, ok := catalog.vocabularies[name]; !ok {
				catalog.names = append(catalog.names, name)
			}
			catalog.vocabularies[name] = words
		}
	}
	sort.Strings(catalog.names)
	return catalog, nil
}

func parse(raw []byte) (*Catalog, error) {
	var parsed map[string][]string
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse theme catalog: %w", err)
	}

	catalog := &Catalog{vocabularies: make(map[string][]string, len(parsed))}
	for name, words := range parsed {
		name = strings.ToLower(strings.TrimSpace(name))
		normalized := make([]string, 0, len(words))
		seen := make(map[string]bool, len(words))
		for _, w := range words {
			w = strings.ToLower(strings.TrimSpace(w))
			if w == "" || seen[w] {
				continue
			}
			seen[w] = true
			normalized = append(normalized, w)
		}
		if len(normalized) < MinVocabulary {
			return nil, fmt.Errorf("theme %q has %d words, need at least %d", name, len(normalized), MinVocabulary)
		}
		catalog.vocabularies[name] = normalized
		catalog.names = append(catalog.names, name)
	}
	sort.Strings(catalog.names)
	return catalog, nil
}

// Names returns the available theme names, sorted
func (c *Catalog) Names() []string {
	return append([]string(nil), c.names...)
}

// Has reports whether a theme exists
func (c *Catalog) Has(name string) bool {
	_, ok := c.vocabularies[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// WordsFor returns a copy of the vocabulary for the named theme
func (c *Catalog) WordsFor(name string) ([]string, error) {
	words, ok := c.vocabularies[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, domain.ErrUnknownTheme
	}
	return append([]string(nil), words...), nil
}
