package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordhunt/internal/ai"
	"wordhunt/internal/config"
	"wordhunt/internal/domain"
	"wordhunt/internal/similarity"
	"wordhunt/internal/store"
	"wordhunt/internal/themes"
)

const onehotDim = 512

// onehotEmbedder assigns every distinct word its own orthogonal axis, so
// similarity is exactly 1 for the same word and 0 otherwise. That makes
// guess outcomes fully predictable: a guess eliminates an opponent iff it
// names that opponent's secret.
type onehotEmbedder struct {
	mu    sync.Mutex
	index map[string]int
}

func newOnehotEmbedder() *onehotEmbedder {
	return &onehotEmbedder{index: make(map[string]int)}
}

func (e *onehotEmbedder) Dimension() int { return onehotDim }

func (e *onehotEmbedder) Embed(ctx context.Context, word string) ([]float32, error) {
	out, err := e.EmbedBatch(ctx, []string{word})
	if err != nil {
		return nil, err
	}
	return out[strings.ToLower(word)], nil
}

func (e *onehotEmbedder) EmbedBatch(ctx context.Context, words []string) (map[string][]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make(map[string][]float32, len(words))
	for _, w := range words {
		w = strings.ToLower(w)
		i, ok := e.index[w]
		if !ok {
			i = len(e.index)
			e.index[w] = i
		}
		vec := make([]float32, onehotDim)
		vec[i%onehotDim] = 1
		out[w] = vec
	}
	return out, nil
}

type failingEmbedder struct{}

func (failingEmbedder) Dimension() int { return onehotDim }

func (failingEmbedder) Embed(ctx context.Context, word string) ([]float32, error) {
	return nil, fmt.Errorf("provider down: %w", similarity.ErrUnavailable)
}

func (failingEmbedder) EmbedBatch(ctx context.Context, words []string) (map[string][]float32, error) {
	return nil, fmt.Errorf("provider down: %w", similarity.ErrUnavailable)
}

func testGameConfig() config.GameConfig {
	return config.GameConfig{
		MinPlayers:           3,
		MaxPlayers:           8,
		PoolSize:             20,
		EliminationThreshold: 0.8,
		SessionTTL:           time.Hour,
		GuardMaxRetries:      3,
		CodeLength:           6,
		AIPacing:             false,
	}
}

func newTestService(t *testing.T, embedder similarity.Embedder) *Service {
	t.Helper()

	catalog, err := themes.Builtin()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.NewMemory(logger)
	t.Cleanup(st.Close)

	svc, err := NewService(st, embedder, catalog, testGameConfig(), logger)
	require.NoError(t, err)

	// Deterministic randomness for test runs.
	svc.rng = rand.New(rand.NewSource(42))
	svc.opponent = ai.New(svc.rng)
	return svc
}

// startedTrio creates a session on the animals theme with three human
// players, resolves the theme and returns the session with pools dealt.
func startedTrio(t *testing.T, svc *Service) (*domain.Session, []*domain.Player) {
	t.Helper()
	ctx := context.Background()

	sess, err := svc.Create(ctx, CreateParams{Themes: []string{"animals"}})
	require.NoError(t, err)

	players := make([]*domain.Player, 0, 3)
	for _, name := range []string{"alice", "bob", "carol"} {
		p, _, err := svc.Join(ctx, sess.Code, JoinParams{Name: name})
		require.NoError(t, err)
		players = append(players, p)
	}

	sess, err = svc.Start(ctx, sess.Code, players[0].ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusWordSelection, sess.Status)
	return sess, sess.Players
}

// playingTrio brings a three-player session all the way into play, every
// player using the first word of their pool as the secret.
func playingTrio(t *testing.T, svc *Service) *domain.Session {
	t.Helper()
	ctx := context.Background()

	sess, players := startedTrio(t, svc)
	for _, p := range players {
		_, err := svc.SetWord(ctx, sess.Code, p.ID, p.WordPool[0])
		require.NoError(t, err)
	}

	sess, err := svc.Begin(ctx, sess.Code, players[0].ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPlaying, sess.Status)
	return sess
}

// neutralWord returns a theme word that is nobody's secret, so guessing
// it never eliminates anyone under the one-hot embedder.
func neutralWord(t *testing.T, sess *domain.Session) string {
	t.Helper()
	secrets := make(map[string]bool)
	for _, p := range sess.Players {
		secrets[p.SecretWord] = true
	}
	for _, w := range sess.Theme.Words {
		if !secrets[w] {
			return w
		}
	}
	t.Fatal("no neutral word in vocabulary")
	return ""
}

func TestCreateValidatesThemes(t *testing.T) {
	svc := newTestService(t, newOnehotEmbedder())
	_, err := svc.Create(context.Background(), CreateParams{Themes: []string{"quantum-chromodynamics"}})
	assert.ErrorIs(t, err, domain.ErrUnknownTheme)
}

func TestCreateDefaultsToFullCatalog(t *testing.T) {
	svc := newTestService(t, newOnehotEmbedder())
	sess, err := svc.Create(context.Background(), CreateParams{})
	require.NoError(t, err)
	assert.Len(t, sess.Code, 6)
	assert.ElementsMatch(t, svc.ThemeNames(), sess.ThemeOptions)
}

func TestJoinRejectsUnknownDifficulty(t *testing.T) {
	svc := newTestService(t, newOnehotEmbedder())
	sess, err := svc.Create(context.Background(), CreateParams{Themes: []string{"animals"}})
	require.NoError(t, err)

	_, _, err = svc.Join(context.Background(), sess.Code, JoinParams{Name: "hal", AI: true, Difficulty: "impossible"})
	assert.ErrorIs(t, err, domain.ErrUnknownDifficulty)
}

func TestStateUnknownSession(t *testing.T) {
	svc := newTestService(t, newOnehotEmbedder())
	_, err := svc.State(context.Background(), "ZZZZZZ")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestStartDealsDisjointPools(t *testing.T) {
	svc := newTestService(t, newOnehotEmbedder())
	sess, players := startedTrio(t, svc)

	require.Equal(t, "animals", sess.Theme.Name)
	seen := make(map[string]int)
	for _, p := range players {
		require.Len(t, p.WordPool, 20)
		for _, w := range p.WordPool {
			assert.Contains(t, sess.Theme.Words, w)
			seen[w]++
		}
	}
	for w, n := range seen {
		assert.Equal(t, 1, n, "word %q dealt to more than one pool", w)
	}
}

func TestStartOpensThemeVoteThenResolves(t *testing.T) {
	svc := newTestService(t, newOnehotEmbedder())
	ctx := context.Background()

	sess, err := svc.Create(ctx, CreateParams{})
	require.NoError(t, err)
	require.Greater(t, len(sess.ThemeOptions), 1)

	var ids []string
	for _, name := range []string{"alice", "bob", "carol"} {
		p, _, err := svc.Join(ctx, sess.Code, JoinParams{Name: name})
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}

	sess, err = svc.Start(ctx, sess.Code, ids[0])
	require.NoError(t, err)
	assert.Equal(t, domain.StatusThemeVote, sess.Status)
	assert.Nil(t, sess.Theme)

	for _, id := range ids {
		_, err := svc.Vote(ctx, sess.Code, id, "space")
		require.NoError(t, err)
	}

	sess, err = svc.Start(ctx, sess.Code, ids[0])
	require.NoError(t, err)
	assert.Equal(t, domain.StatusWordSelection, sess.Status)
	assert.Equal(t, "space", sess.Theme.Name)
}

func TestStartRequiresHostAndQuorum(t *testing.T) {
	svc := newTestService(t, newOnehotEmbedder())
	ctx := context.Background()

	sess, err := svc.Create(ctx, CreateParams{Themes: []string{"animals"}})
	require.NoError(t, err)

	host, _, err := svc.Join(ctx, sess.Code, JoinParams{Name: "alice"})
	require.NoError(t, err)
	guest, _, err := svc.Join(ctx, sess.Code, JoinParams{Name: "bob"})
	require.NoError(t, err)

	_, err = svc.Start(ctx, sess.Code, guest.ID)
	assert.ErrorIs(t, err, domain.ErrNotHost)

	_, err = svc.Start(ctx, sess.Code, host.ID)
	assert.ErrorIs(t, err, domain.ErrNotEnoughPlayers)
}

func TestExactGuessEliminatesAndPauses(t *testing.T) {
	svc := newTestService(t, newOnehotEmbedder())
	ctx := context.Background()
	sess := playingTrio(t, svc)

	alice, bob, carol := sess.Players[0], sess.Players[1], sess.Players[2]

	event, sess, err := svc.Guess(ctx, sess.Code, alice.ID, bob.SecretWord)
	require.NoError(t, err)
	assert.Equal(t, []string{bob.ID}, event.Eliminations)
	assert.InDelta(t, 1.0, event.Similarities[bob.ID], 1e-9)
	assert.False(t, sess.Players[1].IsAlive)
	assert.Equal(t, alice.ID, sess.WaitingForWordChange)
	assert.True(t, sess.Players[0].CanChangeWord)

	// Nobody guesses while the eliminator decides on a word change.
	_, _, err = svc.Guess(ctx, sess.Code, carol.ID, neutralWord(t, sess))
	assert.ErrorIs(t, err, domain.ErrAwaitingWordChange)
}

func TestChangeWordResumesPastEliminatedSeat(t *testing.T) {
	svc := newTestService(t, newOnehotEmbedder())
	ctx := context.Background()
	sess := playingTrio(t, svc)

	alice, bob, carol := sess.Players[0], sess.Players[1], sess.Players[2]

	_, sess, err := svc.Guess(ctx, sess.Code, alice.ID, bob.SecretWord)
	require.NoError(t, err)

	newSecret := sess.Players[0].WordPool[1]
	sess, err = svc.ChangeWord(ctx, sess.Code, alice.ID, newSecret)
	require.NoError(t, err)
	assert.Empty(t, sess.WaitingForWordChange)
	assert.Equal(t, newSecret, sess.Players[0].SecretWord)
	assert.Equal(t, carol.ID, sess.CurrentPlayer().ID, "dead seat skipped")

	// Carol hunts down alice's replacement secret and wins.
	event, sess, err := svc.Guess(ctx, sess.Code, carol.ID, newSecret)
	require.NoError(t, err)
	assert.Equal(t, []string{alice.ID}, event.Eliminations)
	assert.Equal(t, domain.StatusFinished, sess.Status)
	assert.Equal(t, carol.ID, sess.Winner)

	_, _, err = svc.Guess(ctx, sess.Code, carol.ID, neutralWord(t, sess))
	assert.ErrorIs(t, err, domain.ErrGameFinished)
}

func TestSkipWordChangeKeepsSecret(t *testing.T) {
	svc := newTestService(t, newOnehotEmbedder())
	ctx := context.Background()
	sess := playingTrio(t, svc)

	alice, bob := sess.Players[0], sess.Players[1]
	secret := alice.SecretWord

	_, sess, err := svc.Guess(ctx, sess.Code, alice.ID, bob.SecretWord)
	require.NoError(t, err)

	sess, err = svc.SkipWordChange(ctx, sess.Code, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, sess.WaitingForWordChange)
	assert.Equal(t, secret, sess.Players[0].SecretWord)
}

func TestGuessRebuildsMatrixAfterEviction(t *testing.T) {
	embedder := newOnehotEmbedder()
	svc := newTestService(t, embedder)
	ctx := context.Background()
	sess := playingTrio(t, svc)

	svc.matrices.Purge()

	// The embedder assigns axes by first sight, so a rebuild reproduces
	// the same geometry and the guess still scores exactly.
	event, sess, err := svc.Guess(ctx, sess.Code, sess.Players[0].ID, sess.Players[1].SecretWord)
	require.NoError(t, err)
	assert.Len(t, event.Eliminations, 1)
	assert.False(t, sess.Players[1].IsAlive)
}

func TestGuessRejectsWordOutsideTheme(t *testing.T) {
	svc := newTestService(t, newOnehotEmbedder())
	sess := playingTrio(t, svc)

	_, _, err := svc.Guess(context.Background(), sess.Code, sess.Players[0].ID, "chromosome")
	assert.ErrorIs(t, err, domain.ErrWordNotInTheme)
}

func TestAISeatPicksSecretAndPlays(t *testing.T) {
	svc := newTestService(t, newOnehotEmbedder())
	ctx := context.Background()

	sess, err := svc.Create(ctx, CreateParams{Themes: []string{"animals"}})
	require.NoError(t, err)

	alice, _, err := svc.Join(ctx, sess.Code, JoinParams{Name: "alice"})
	require.NoError(t, err)
	_, _, err = svc.Join(ctx, sess.Code, JoinParams{Name: "hal", AI: true, Difficulty: ai.DifficultyExpert})
	require.NoError(t, err)
	bob, _, err := svc.Join(ctx, sess.Code, JoinParams{Name: "bob"})
	require.NoError(t, err)

	// Triggering an AI turn before play is a phase error.
	_, err = svc.PlayAITurn(ctx, sess.Code)
	assert.ErrorIs(t, err, domain.ErrWrongStatus)

	sess, err = svc.Start(ctx, sess.Code, alice.ID)
	require.NoError(t, err)

	hal := sess.Players[1]
	require.True(t, hal.IsAI)
	assert.NotEmpty(t, hal.SecretWord, "AI secret chosen at theme fixing")
	assert.Contains(t, hal.WordPool, hal.SecretWord)

	_, err = svc.SetWord(ctx, sess.Code, alice.ID, sess.Players[0].WordPool[0])
	require.NoError(t, err)
	_, err = svc.SetWord(ctx, sess.Code, bob.ID, sess.Players[2].WordPool[0])
	require.NoError(t, err)
	sess, err = svc.Begin(ctx, sess.Code, alice.ID)
	require.NoError(t, err)

	// It is alice's turn, not the AI's.
	_, err = svc.PlayAITurn(ctx, sess.Code)
	assert.ErrorIs(t, err, domain.ErrNotYourTurn)

	_, sess, err = svc.Guess(ctx, sess.Code, alice.ID, neutralWord(t, sess))
	require.NoError(t, err)
	require.Equal(t, hal.ID, sess.CurrentPlayer().ID)

	before := len(sess.History)
	sess, err = svc.PlayAITurn(ctx, sess.Code)
	require.NoError(t, err)
	require.Len(t, sess.History, before+1)

	entry := sess.History[len(sess.History)-1]
	require.Equal(t, domain.EventGuess, entry.Type)
	assert.Equal(t, hal.ID, entry.Guess.Guesser)
	assert.True(t, sess.Theme.HasWord(entry.Guess.Word))
	assert.NotEqual(t, hal.SecretWord, entry.Guess.Word)
}

func TestAISeatResolvesOwnWordChange(t *testing.T) {
	svc := newTestService(t, newOnehotEmbedder())
	ctx := context.Background()

	sess, err := svc.Create(ctx, CreateParams{Themes: []string{"animals"}})
	require.NoError(t, err)

	alice, _, err := svc.Join(ctx, sess.Code, JoinParams{Name: "alice"})
	require.NoError(t, err)
	_, _, err = svc.Join(ctx, sess.Code, JoinParams{Name: "hal", AI: true, Difficulty: ai.DifficultyEasy})
	require.NoError(t, err)
	bob, _, err := svc.Join(ctx, sess.Code, JoinParams{Name: "bob"})
	require.NoError(t, err)

	sess, err = svc.Start(ctx, sess.Code, alice.ID)
	require.NoError(t, err)
	hal := sess.Players[1]

	_, err = svc.SetWord(ctx, sess.Code, alice.ID, sess.Players[0].WordPool[0])
	require.NoError(t, err)
	_, err = svc.SetWord(ctx, sess.Code, bob.ID, sess.Players[2].WordPool[0])
	require.NoError(t, err)
	sess, err = svc.Begin(ctx, sess.Code, alice.ID)
	require.NoError(t, err)

	// Force the AI into the eliminator's pause by guessing bob's secret
	// on its behalf through the ordinary guess path.
	_, sess, err = svc.Guess(ctx, sess.Code, alice.ID, neutralWord(t, sess))
	require.NoError(t, err)
	_, sess, err = svc.Guess(ctx, sess.Code, hal.ID, sess.Players[2].SecretWord)
	require.NoError(t, err)
	require.Equal(t, hal.ID, sess.WaitingForWordChange)

	sess, err = svc.PlayAITurn(ctx, sess.Code)
	require.NoError(t, err)
	assert.Empty(t, sess.WaitingForWordChange)
	assert.Equal(t, domain.EventWordChange, sess.History[len(sess.History)-1].Type)
}

func TestConcurrentGuessesCommitExactlyOnce(t *testing.T) {
	svc := newTestService(t, newOnehotEmbedder())
	ctx := context.Background()
	sess := playingTrio(t, svc)

	word := neutralWord(t, sess)
	alice := sess.Players[0]

	const contenders = 6
	errs := make(chan error, contenders)
	var wg sync.WaitGroup
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := svc.Guess(ctx, sess.Code, alice.ID, word)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	committed := 0
	for err := range errs {
		if err == nil {
			committed++
		} else {
			assert.ErrorIs(t, err, domain.ErrNotYourTurn)
		}
	}
	assert.Equal(t, 1, committed)

	final, err := svc.State(ctx, sess.Code)
	require.NoError(t, err)
	assert.Len(t, final.History, 1)
	assert.NotEqual(t, alice.ID, final.CurrentPlayer().ID)
}

func TestStartUpstreamFailureLeavesSessionUntouched(t *testing.T) {
	svc := newTestService(t, failingEmbedder{})
	ctx := context.Background()

	sess, err := svc.Create(ctx, CreateParams{Themes: []string{"animals"}})
	require.NoError(t, err)

	var hostID string
	for _, name := range []string{"alice", "bob", "carol"} {
		p, _, err := svc.Join(ctx, sess.Code, JoinParams{Name: name})
		require.NoError(t, err)
		if hostID == "" {
			hostID = p.ID
		}
	}

	_, err = svc.Start(ctx, sess.Code, hostID)
	assert.ErrorIs(t, err, domain.ErrUpstream)

	current, err := svc.State(ctx, sess.Code)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusLobby, current.Status)
	assert.Nil(t, current.Theme)
	for _, p := range current.Players {
		assert.Empty(t, p.WordPool)
	}
}
