package domain

import "strings"

// Theme is the named vocabulary a session plays with. Words are fixed once
// the theme is chosen and act as the universe of valid secrets and guesses.
type Theme struct {
	Name  string   `json:"name"`
	Words []string `json:"words"`
}

// NewTheme normalizes the vocabulary to lowercase and trims whitespace
func NewTheme(name string, words []string) *Theme {
	normalized := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			normalized = append(normalized, w)
		}
	}
	return &Theme{Name: name, Words: normalized}
}

// HasWord reports whether the word is part of the theme vocabulary
func (t *Theme) HasWord(word string) bool {
	for _, w := range t.Words {
		if w == word {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the theme
func (t *Theme) Clone() *Theme {
	if t == nil {
		return nil
	}
	return &Theme{Name: t.Name, Words: append([]string(nil), t.Words...)}
}
