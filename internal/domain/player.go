package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Player represents one seat in a session. The ID doubles as the player's
// credential, so it is never included in views of other players.
type Player struct {
	ID            string                   `json:"id"`
	Name          string                   `json:"name"`
	SecretWord    string                   `json:"secretWord,omitempty"`
	WordPool      []string                 `json:"wordPool,omitempty"`
	IsAlive       bool                     `json:"isAlive"`
	CanChangeWord bool                     `json:"canChangeWord"`
	IsAI          bool                     `json:"isAi"`
	Difficulty    string                   `json:"difficulty,omitempty"`
	Cosmetics     json.RawMessage          `json:"cosmetics,omitempty"`
	Memory        map[string][]Observation `json:"memory,omitempty"`
	JoinedAt      time.Time                `json:"joinedAt"`
}

// Observation is one remembered similarity reading an AI seat holds about an
// opponent: a guessed word and how close it scored against that opponent's
// secret at the time.
type Observation struct {
	Word  string  `json:"word"`
	Score float64 `json:"score"`
}

// NewPlayer creates a new human player with a fresh unguessable id
func NewPlayer(name string, cosmetics json.RawMessage) *Player {
	return &Player{
		ID:        uuid.NewString(),
		Name:      name,
		IsAlive:   true,
		Cosmetics: cosmetics,
		JoinedAt:  time.Now(),
	}
}

// NewAIPlayer creates a new AI seat at the given difficulty
func NewAIPlayer(name, difficulty string) *Player {
	p := NewPlayer(name, nil)
	p.IsAI = true
	p.Difficulty = difficulty
	p.Memory = make(map[string][]Observation)
	return p
}

// HasPoolWord reports whether the word belongs to the player's pool
func (p *Player) HasPoolWord(word string) bool {
	for _, w := range p.WordPool {
		if w == word {
			return true
		}
	}
	return false
}

// Eliminate marks the player dead. The transition is one-way.
func (p *Player) Eliminate() {
	p.IsAlive = false
}

// Clone returns a deep copy of the player
func (p *Player) Clone() *Player {
	cp := *p
	if p.WordPool != nil {
		cp.WordPool = append([]string(nil), p.WordPool...)
	}
	if p.Cosmetics != nil {
		cp.Cosmetics = append(json.RawMessage(nil), p.Cosmetics...)
	}
	if p.Memory != nil {
		cp.Memory = make(map[string][]Observation, len(p.Memory))
		for id, obs := range p.Memory {
			cp.Memory[id] = append([]Observation(nil), obs...)
		}
	}
	return &cp
}
