package ai

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordhunt/internal/domain"
	"wordhunt/internal/similarity"
)

type mapEmbedder struct {
	vectors map[string][]float32
}

func (m *mapEmbedder) Dimension() int { return 3 }

func (m *mapEmbedder) Embed(ctx context.Context, word string) ([]float32, error) {
	out, err := m.EmbedBatch(ctx, []string{word})
	if err != nil {
		return nil, err
	}
	return out[strings.ToLower(word)], nil
}

func (m *mapEmbedder) EmbedBatch(ctx context.Context, words []string) (map[string][]float32, error) {
	out := make(map[string][]float32, len(words))
	for _, w := range words {
		w = strings.ToLower(w)
		vec, ok := m.vectors[w]
		if !ok {
			return nil, fmt.Errorf("no vector for %q: %w", w, similarity.ErrUnavailable)
		}
		out[w] = vec
	}
	return out, nil
}

// felineMatrix clusters tiger/lion/leopard together and leaves glacier,
// meteor and nebula isolated from the cluster.
func felineMatrix(t *testing.T) *similarity.Matrix {
	t.Helper()
	emb := &mapEmbedder{vectors: map[string][]float32{
		"tiger":   {1, 0, 0},
		"lion":    {0.97, 0.03, 0},
		"leopard": {0.94, 0.06, 0},
		"glacier": {0, 1, 0},
		"meteor":  {0, 0.1, 1},
		"nebula":  {0, 0.05, 0.9},
	}}
	m, err := similarity.BuildMatrix(context.Background(), emb,
		[]string{"tiger", "lion", "leopard", "glacier", "meteor", "nebula"})
	require.NoError(t, err)
	return m
}

func aiSession(t *testing.T) (*domain.Session, *domain.Player, *domain.Player) {
	t.Helper()
	sess := domain.NewSession("AI1234", []string{"animals"}, domain.VisibilityPublic, false, domain.SessionSettings{
		MinPlayers: 2, MaxPlayers: 4, PoolSize: 2,
	})
	human, err := sess.AddPlayer("alice", nil)
	require.NoError(t, err)
	bot, err := sess.AddAIPlayer("hal", DifficultyExpert)
	require.NoError(t, err)

	sess.Theme = domain.NewTheme("animals", []string{"tiger", "lion", "leopard", "glacier", "meteor", "nebula"})
	human.WordPool = []string{"tiger", "lion"}
	bot.WordPool = []string{"glacier", "meteor"}
	human.SecretWord = "tiger"
	bot.SecretWord = "glacier"
	sess.Status = domain.StatusPlaying
	return sess, human, bot
}

func TestProfileFor(t *testing.T) {
	assert.Equal(t, SelectIsolated, ProfileFor(DifficultyExpert).WordSelection)
	assert.Equal(t, SelectRandom, ProfileFor(DifficultyEasy).WordSelection)
	assert.Equal(t, ProfileFor(DifficultyMedium), ProfileFor("bogus"), "unknown difficulty falls back to medium")
	assert.True(t, KnownDifficulty(DifficultyHard))
	assert.False(t, KnownDifficulty("impossible"))
}

func TestSelectSecretWordStaysInPool(t *testing.T) {
	o := New(rand.New(rand.NewSource(1)))
	matrix := felineMatrix(t)
	pool := []string{"tiger", "lion", "glacier", "meteor"}

	for _, difficulty := range []string{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert} {
		for i := 0; i < 20; i++ {
			word := o.SelectSecretWord(pool, matrix, ProfileFor(difficulty))
			assert.Contains(t, pool, word, "difficulty %s", difficulty)
		}
	}
}

func TestSelectSecretWordIsolatedAvoidsClusters(t *testing.T) {
	o := New(rand.New(rand.NewSource(2)))
	matrix := felineMatrix(t)

	// tiger and lion sit in a tight cluster; glacier, meteor and nebula
	// are the isolated picks an expert should prefer.
	counts := map[string]int{}
	for i := 0; i < 100; i++ {
		counts[o.SelectSecretWord([]string{"tiger", "lion", "glacier", "meteor", "nebula"}, matrix, ProfileFor(DifficultyExpert))]++
	}
	assert.Zero(t, counts["tiger"])
	assert.Zero(t, counts["lion"])
}

func TestUpdateMemoryCapsObservations(t *testing.T) {
	bot := domain.NewAIPlayer("hal", DifficultyHard)
	opponentID := "opponent-1"

	for i := 0; i < 8; i++ {
		UpdateMemory(bot, fmt.Sprintf("word%d", i), map[string]float64{
			opponentID: float64(i) / 10,
		}, 5)
	}

	observations := bot.Memory[opponentID]
	require.Len(t, observations, 5)
	assert.Equal(t, 0.7, observations[0].Score, "highest score kept first")
	assert.Equal(t, 0.3, observations[len(observations)-1].Score, "lowest surviving observation")
}

func TestUpdateMemorySkipsSelfAndHumans(t *testing.T) {
	bot := domain.NewAIPlayer("hal", DifficultyHard)
	human := domain.NewPlayer("alice", nil)

	UpdateMemory(bot, "tiger", map[string]float64{bot.ID: 0.9, "other": 0.4}, 5)
	assert.NotContains(t, bot.Memory, bot.ID)
	assert.Contains(t, bot.Memory, "other")

	UpdateMemory(human, "tiger", map[string]float64{"other": 0.4}, 5)
	assert.Nil(t, human.Memory)
}

func TestChooseGuessStrategicTargetsBestClue(t *testing.T) {
	sess, human, bot := aiSession(t)
	matrix := felineMatrix(t)
	o := New(rand.New(rand.NewSource(3)))

	// The bot remembers that "lion" scored very close to alice's secret.
	UpdateMemory(bot, "lion", map[string]float64{human.ID: 0.95}, 5)

	profile := ProfileFor(DifficultyExpert)
	profile.StrategicChance = 1.0

	// The words closest to "lion", after dropping the bot's own secret.
	allowed := make([]string, 0, 3)
	for _, w := range matrix.MostSimilar("lion", 8) {
		if w == bot.SecretWord {
			continue
		}
		allowed = append(allowed, w)
		if len(allowed) == 3 {
			break
		}
	}
	for i := 0; i < 50; i++ {
		guess := o.ChooseGuess(bot, sess, matrix, profile)
		assert.Contains(t, allowed, guess,
			"a fully strategic guess must come from the words most similar to the best-known clue")
		assert.NotEqual(t, bot.SecretWord, guess)
	}
}

func TestChooseGuessWithoutMemoryFallsBackToRandom(t *testing.T) {
	sess, _, bot := aiSession(t)
	matrix := felineMatrix(t)
	o := New(rand.New(rand.NewSource(4)))

	profile := ProfileFor(DifficultyEasy)
	profile.StrategicChance = 1.0 // strategic path has nothing to work with

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		guess := o.ChooseGuess(bot, sess, matrix, profile)
		assert.NotEqual(t, bot.SecretWord, guess)
		assert.True(t, sess.Theme.HasWord(guess))
		seen[guess] = true
	}
	assert.Greater(t, len(seen), 1, "random fallback should spread over the vocabulary")
}

func TestChooseGuessAvoidsLeakingOwnSecret(t *testing.T) {
	sess, _, bot := aiSession(t)
	matrix := felineMatrix(t)
	o := New(rand.New(rand.NewSource(5)))

	bot.SecretWord = "meteor"
	profile := ProfileFor(DifficultyExpert)
	profile.StrategicChance = 0
	profile.SecretGuard = 0.8

	// nebula scores close to meteor, so the guard must filter it.
	for i := 0; i < 100; i++ {
		guess := o.ChooseGuess(bot, sess, matrix, profile)
		assert.NotEqual(t, "meteor", guess)
		assert.NotEqual(t, "nebula", guess)
	}
}

func TestReactToEliminationPrefersUnguessedWords(t *testing.T) {
	sess, _, bot := aiSession(t)
	o := New(rand.New(rand.NewSource(6)))

	// No guesses yet: any pool word other than the current secret works.
	word, ok := o.ReactToElimination(bot, sess)
	assert.True(t, ok)
	assert.Equal(t, "meteor", word)

	// Once every other pool word has been guessed, keep the secret.
	_, err := sess.ApplyGuess(sess.Players[0].ID, "meteor", map[string]float64{}, 0.8)
	require.NoError(t, err)

	_, ok = o.ReactToElimination(bot, sess)
	assert.False(t, ok)
}
