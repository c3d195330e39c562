package domain

import "time"

// EventType tags a history entry variant
type EventType string

const (
	EventGuess      EventType = "guess"
	EventWordChange EventType = "word_change"
)

// HistoryEntry is an append-only record of something that happened during
// play. Exactly one of the variant fields is set, selected by Type.
type HistoryEntry struct {
	Type       EventType        `json:"type"`
	Guess      *GuessEvent      `json:"guess,omitempty"`
	WordChange *WordChangeEvent `json:"wordChange,omitempty"`
	At         time.Time        `json:"at"`
}

// GuessEvent records a single guess and its consequences
type GuessEvent struct {
	Guesser      string             `json:"guesser"`
	Word         string             `json:"word"`
	Similarities map[string]float64 `json:"similarities"`
	Eliminations []string           `json:"eliminations"`
}

// WordChangeEvent records the resolution of an eliminator's word-change
// privilege. Changed is false when the player kept their secret.
type WordChangeEvent struct {
	Player  string `json:"player"`
	Changed bool   `json:"changed"`
}

func newGuessEntry(ev *GuessEvent) HistoryEntry {
	return HistoryEntry{Type: EventGuess, Guess: ev, At: time.Now()}
}

func newWordChangeEntry(playerID string, changed bool) HistoryEntry {
	return HistoryEntry{
		Type:       EventWordChange,
		WordChange: &WordChangeEvent{Player: playerID, Changed: changed},
		At:         time.Now(),
	}
}

// Clone returns a deep copy of the entry
func (e HistoryEntry) Clone() HistoryEntry {
	cp := e
	if e.Guess != nil {
		g := *e.Guess
		g.Similarities = make(map[string]float64, len(e.Guess.Similarities))
		for id, s := range e.Guess.Similarities {
			g.Similarities[id] = s
		}
		g.Eliminations = append([]string(nil), e.Guess.Eliminations...)
		cp.Guess = &g
	}
	if e.WordChange != nil {
		w := *e.WordChange
		cp.WordChange = &w
	}
	return cp
}
