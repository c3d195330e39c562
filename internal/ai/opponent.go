package ai

import (
	"math/rand"
	"sort"

	"wordhunt/internal/domain"
	"wordhunt/internal/similarity"
)

const (
	// Weighted target score: best observation dominates, the average of
	// the remembered observations refines it.
	bestWeight    = 0.7
	averageWeight = 0.3

	// How many similar words to consider around a clue before picking.
	candidateWindow = 8
	topPickWindow   = 3
)

// Opponent holds the randomness source shared by all AI decisions
type Opponent struct {
	rng *rand.Rand
}

// New creates an Opponent using the given randomness source
func New(rng *rand.Rand) *Opponent {
	return &Opponent{rng: rng}
}

// SelectSecretWord picks a secret word from the pool according to the
// profile's selection strategy.
func (o *Opponent) SelectSecretWord(pool []string, matrix *similarity.Matrix, profile Profile) string {
	if len(pool) == 0 {
		return ""
	}

	switch profile.WordSelection {
	case SelectRandom:
		return pool[o.rng.Intn(len(pool))]

	case SelectAvoidCommon, SelectObscure:
		return o.pickRarest(pool, profile.WordSelection)

	case SelectIsolated:
		return o.pickIsolated(pool, matrix)

	default:
		return pool[o.rng.Intn(len(pool))]
	}
}

// pickRarest biases toward low-frequency pool words. Avoid-common samples
// from the rarer half, obscure takes the rarest few.
func (o *Opponent) pickRarest(pool []string, strategy SelectionStrategy) string {
	sorted := append([]string(nil), pool...)
	sort.Slice(sorted, func(i, j int) bool {
		ri, rj := rarity(sorted[i]), rarity(sorted[j])
		if ri != rj {
			return ri > rj
		}
		return sorted[i] < sorted[j]
	})

	window := len(sorted) / 2
	if strategy == SelectObscure {
		window = len(sorted) / 4
	}
	if window < 1 {
		window = 1
	}
	return sorted[o.rng.Intn(window)]
}

// pickIsolated prefers pool words with low mean similarity to the rest of
// the vocabulary, which resist triangulation. Ties among the most isolated
// few are broken randomly.
func (o *Opponent) pickIsolated(pool []string, matrix *similarity.Matrix) string {
	if matrix == nil {
		return pool[o.rng.Intn(len(pool))]
	}

	sorted := append([]string(nil), pool...)
	sort.Slice(sorted, func(i, j int) bool {
		mi, mj := matrix.MeanSimilarity(sorted[i]), matrix.MeanSimilarity(sorted[j])
		if mi != mj {
			return mi < mj
		}
		return sorted[i] < sorted[j]
	})

	window := 3
	if window > len(sorted) {
		window = len(sorted)
	}
	return sorted[o.rng.Intn(window)]
}

// ChooseGuess decides the AI seat's guess for this turn. With probability
// StrategicChance it targets the remembered opponent with the highest
// weighted score and guesses near that opponent's best-known clue word;
// otherwise it guesses uniformly over the theme, excluding its own secret.
// Re-guessing a previously used word is allowed since targets may have
// changed secrets.
func (o *Opponent) ChooseGuess(player *domain.Player, session *domain.Session, matrix *similarity.Matrix, profile Profile) string {
	theme := session.Theme
	if theme == nil || len(theme.Words) == 0 {
		return ""
	}

	if o.rng.Float64() < profile.StrategicChance {
		if word := o.strategicGuess(player, session, matrix, profile); word != "" {
			return word
		}
	}

	return o.randomGuess(player, theme.Words, matrix, profile)
}

func (o *Opponent) strategicGuess(player *domain.Player, session *domain.Session, matrix *similarity.Matrix, profile Profile) string {
	_, clue := o.bestTarget(player, session)
	if clue == "" || matrix == nil {
		return ""
	}

	candidates := make([]string, 0, candidateWindow)
	for _, w := range matrix.MostSimilar(clue, candidateWindow) {
		if w == player.SecretWord {
			continue
		}
		if o.leaksSecret(w, player.SecretWord, matrix, profile) {
			continue
		}
		candidates = append(candidates, w)
	}
	if len(candidates) == 0 {
		return ""
	}

	window := topPickWindow
	if window > len(candidates) {
		window = len(candidates)
	}
	return candidates[o.rng.Intn(window)]
}

// bestTarget returns the alive opponent with the highest weighted memory
// score along with that opponent's best-known clue word.
func (o *Opponent) bestTarget(player *domain.Player, session *domain.Session) (string, string) {
	bestID, bestClue := "", ""
	bestScore := -1.0

	for _, opponent := range session.AlivePlayers() {
		if opponent.ID == player.ID {
			continue
		}
		observations := player.Memory[opponent.ID]
		if len(observations) == 0 {
			continue
		}

		top := observations[0]
		sum := 0.0
		for _, ob := range observations {
			if ob.Score > top.Score {
				top = ob
			}
			sum += ob.Score
		}
		weighted := bestWeight*top.Score + averageWeight*(sum/float64(len(observations)))
		if weighted > bestScore {
			bestScore = weighted
			bestID = opponent.ID
			bestClue = top.Word
		}
	}

	return bestID, bestClue
}

func (o *Opponent) randomGuess(player *domain.Player, vocabulary []string, matrix *similarity.Matrix, profile Profile) string {
	candidates := make([]string, 0, len(vocabulary))
	for _, w := range vocabulary {
		if w == player.SecretWord {
			continue
		}
		if o.leaksSecret(w, player.SecretWord, matrix, profile) {
			continue
		}
		candidates = append(candidates, w)
	}
	if len(candidates) == 0 {
		// Everything is too close to the secret; guessing beats stalling.
		return vocabulary[o.rng.Intn(len(vocabulary))]
	}
	return candidates[o.rng.Intn(len(candidates))]
}

// leaksSecret reports whether guessing word would sit suspiciously close
// to the AI's own secret.
func (o *Opponent) leaksSecret(word, secret string, matrix *similarity.Matrix, profile Profile) bool {
	if matrix == nil || secret == "" {
		return false
	}
	score, ok := matrix.Score(word, secret)
	return ok && score >= profile.SecretGuard
}

// UpdateMemory records the observed similarities of a guess for one AI
// seat, keeping only the highest-scoring observations per opponent.
// Called after any guess, by anyone.
func UpdateMemory(player *domain.Player, word string, scores map[string]float64, depth int) {
	if !player.IsAI {
		return
	}
	if player.Memory == nil {
		player.Memory = make(map[string][]domain.Observation)
	}

	for opponentID, score := range scores {
		if opponentID == player.ID {
			continue
		}
		observations := append(player.Memory[opponentID], domain.Observation{Word: word, Score: score})
		sort.Slice(observations, func(i, j int) bool {
			if observations[i].Score != observations[j].Score {
				return observations[i].Score > observations[j].Score
			}
			return observations[i].Word < observations[j].Word
		})
		if len(observations) > depth {
			observations = observations[:depth]
		}
		player.Memory[opponentID] = observations
	}
}

// ReactToElimination decides how an AI seat uses its word-change
// privilege: prefer a pool word that has not been guessed yet, keep the
// current secret when none remain.
func (o *Opponent) ReactToElimination(player *domain.Player, session *domain.Session) (string, bool) {
	used := session.GuessedWords()

	fresh := make([]string, 0, len(player.WordPool))
	for _, w := range player.WordPool {
		if w == player.SecretWord || used[w] {
			continue
		}
		fresh = append(fresh, w)
	}
	if len(fresh) == 0 {
		return "", false
	}
	return fresh[o.rng.Intn(len(fresh))], true
}
