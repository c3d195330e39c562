// Package ai implements the difficulty-parameterized decision policy for
// non-human seats. The turn engine is policy-agnostic; callers drive AI
// seats through the same operations humans use.
package ai

import "time"

// SelectionStrategy names how an AI seat picks its secret word
type SelectionStrategy string

const (
	SelectRandom      SelectionStrategy = "random"
	SelectAvoidCommon SelectionStrategy = "avoid-common"
	SelectObscure     SelectionStrategy = "obscure"
	SelectIsolated    SelectionStrategy = "isolated"
)

// Difficulty names for AI seats
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
	DifficultyExpert = "expert"
)

// Profile is the parameter set for one difficulty tier
type Profile struct {
	// StrategicChance is the probability of a targeted guess over a
	// uniform random one.
	StrategicChance float64

	// WordSelection picks the secret-word strategy.
	WordSelection SelectionStrategy

	// MemoryDepth caps remembered observations per opponent seat.
	MemoryDepth int

	// SecretGuard avoids guesses that score at least this close to the
	// AI's own secret, so a guess never telegraphs it.
	SecretGuard float64

	// ThinkDelayMin and ThinkDelayMax pace AI turns so they read as
	// deliberate rather than instant.
	ThinkDelayMin time.Duration
	ThinkDelayMax time.Duration
}

var profiles = map[string]Profile{
	DifficultyEasy: {
		StrategicChance: 0.10,
		WordSelection:   SelectRandom,
		MemoryDepth:     5,
		SecretGuard:     1.01, // never triggers
		ThinkDelayMin:   500 * time.Millisecond,
		ThinkDelayMax:   1500 * time.Millisecond,
	},
	DifficultyMedium: {
		StrategicChance: 0.40,
		WordSelection:   SelectAvoidCommon,
		MemoryDepth:     5,
		SecretGuard:     0.92,
		ThinkDelayMin:   800 * time.Millisecond,
		ThinkDelayMax:   2 * time.Second,
	},
	DifficultyHard: {
		StrategicChance: 0.70,
		WordSelection:   SelectObscure,
		MemoryDepth:     5,
		SecretGuard:     0.85,
		ThinkDelayMin:   time.Second,
		ThinkDelayMax:   3 * time.Second,
	},
	DifficultyExpert: {
		StrategicChance: 0.95,
		WordSelection:   SelectIsolated,
		MemoryDepth:     5,
		SecretGuard:     0.78,
		ThinkDelayMin:   time.Second,
		ThinkDelayMax:   4 * time.Second,
	},
}

// ProfileFor returns the profile for a difficulty name, falling back to
// medium for unknown names.
func ProfileFor(difficulty string) Profile {
	if p, ok := profiles[difficulty]; ok {
		return p
	}
	return profiles[DifficultyMedium]
}

// KnownDifficulty reports whether the difficulty name is valid
func KnownDifficulty(difficulty string) bool {
	_, ok := profiles[difficulty]
	return ok
}
