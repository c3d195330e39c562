package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"wordhunt/internal/ai"
	"wordhunt/internal/domain"
	"wordhunt/internal/similarity"
	"wordhunt/internal/store"
)

// CreateParams configures a new session
type CreateParams struct {
	Visibility string
	Ranked     bool
	Themes     []string
}

// JoinParams describes a joining player
type JoinParams struct {
	Name       string
	Cosmetics  json.RawMessage
	AI         bool
	Difficulty string
}

// Create creates a new session in the lobby. With no explicit theme
// options the whole catalog is up for vote.
func (s *Service) Create(ctx context.Context, params CreateParams) (*domain.Session, error) {
	visibility := domain.VisibilityPublic
	if params.Visibility == string(domain.VisibilityPrivate) {
		visibility = domain.VisibilityPrivate
	}

	options := params.Themes
	if len(options) == 0 {
		options = s.themes.Names()
	}
	for i, name := range options {
		name = strings.ToLower(strings.TrimSpace(name))
		if !s.themes.Has(name) {
			return nil, fmt.Errorf("theme %q: %w", name, domain.ErrUnknownTheme)
		}
		options[i] = name
	}

	settings := domain.SessionSettings{
		MinPlayers: s.cfg.MinPlayers,
		MaxPlayers: s.cfg.MaxPlayers,
		PoolSize:   s.cfg.PoolSize,
	}

	for attempt := 0; attempt < codeAttempts; attempt++ {
		code := s.generateCode()
		sess := domain.NewSession(code, options, visibility, params.Ranked, settings)
		err := s.store.Put(ctx, code, sess, 0, s.cfg.SessionTTL)
		if err == nil {
			s.logger.Info("session created", "code", code, "themes", len(options))
			return sess, nil
		}
		if !errors.Is(err, store.ErrVersionConflict) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("failed to allocate a unique session code")
}

// Join adds a player to the lobby and returns the created player. For AI
// seats the difficulty must name a known tier.
func (s *Service) Join(ctx context.Context, code string, params JoinParams) (*domain.Player, *domain.Session, error) {
	if params.AI && !ai.KnownDifficulty(params.Difficulty) {
		return nil, nil, domain.ErrUnknownDifficulty
	}

	var player *domain.Player
	sess, err := s.mutate(ctx, code, func(sess *domain.Session) error {
		var err error
		if params.AI {
			player, err = sess.AddAIPlayer(params.Name, params.Difficulty)
		} else {
			player, err = sess.AddPlayer(params.Name, params.Cosmetics)
		}
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return player, sess, nil
}

// Vote records a theme vote, last vote wins
func (s *Service) Vote(ctx context.Context, code, playerID, theme string) (*domain.Session, error) {
	return s.mutate(ctx, code, func(sess *domain.Session) error {
		return sess.RecordVote(playerID, theme)
	})
}

// Start resolves the theme and moves the session into word selection.
// A lobby with several theme options and no votes yet is first opened for
// voting; a second start resolves it. The similarity matrix is built here,
// at theme-fixing time, before any state is committed, and AI seats pick
// their secrets immediately.
func (s *Service) Start(ctx context.Context, code, playerID string) (*domain.Session, error) {
	var matrix *similarity.Matrix

	sess, err := s.mutate(ctx, code, func(sess *domain.Session) error {
		if !sess.IsHost(playerID) {
			return domain.ErrNotHost
		}
		if len(sess.Players) < sess.Settings.MinPlayers {
			return domain.ErrNotEnoughPlayers
		}

		if sess.Status == domain.StatusLobby && len(sess.ThemeOptions) > 1 && !sess.HasVotes() {
			return sess.OpenThemeVote()
		}

		name := sess.ResolveTheme(s.rng)
		words, err := s.themes.WordsFor(name)
		if err != nil {
			return err
		}
		theme := domain.NewTheme(name, words)

		matrix, err = similarity.BuildMatrix(ctx, s.embedder, theme.Words)
		if err != nil {
			return upstream(err)
		}

		if err := sess.FixTheme(theme, s.rng); err != nil {
			return err
		}

		for _, p := range sess.Players {
			if !p.IsAI {
				continue
			}
			secret := s.opponent.SelectSecretWord(p.WordPool, matrix, ai.ProfileFor(p.Difficulty))
			if err := sess.SetSecretWord(p.ID, secret); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if matrix != nil {
		s.matrices.Add(code, matrix)
		s.logger.Info("theme fixed", "code", code, "theme", sess.Theme.Name, "vocabulary", len(sess.Theme.Words))
	}
	return sess, nil
}

// SetWord sets a player's secret word from their pool
func (s *Service) SetWord(ctx context.Context, code, playerID, word string) (*domain.Session, error) {
	return s.mutate(ctx, code, func(sess *domain.Session) error {
		return sess.SetSecretWord(playerID, word)
	})
}

// Begin moves the session into play once every player has a secret. The
// matrix is verified warm first so no guess ever suspends on the provider.
func (s *Service) Begin(ctx context.Context, code, playerID string) (*domain.Session, error) {
	return s.mutate(ctx, code, func(sess *domain.Session) error {
		if sess.Status == domain.StatusWordSelection {
			if _, err := s.matrixFor(ctx, sess); err != nil {
				return err
			}
		}
		return sess.BeginPlaying(playerID)
	})
}

// Guess applies a guess by the given player
func (s *Service) Guess(ctx context.Context, code, playerID, word string) (*domain.GuessEvent, *domain.Session, error) {
	var event *domain.GuessEvent
	sess, err := s.mutate(ctx, code, func(sess *domain.Session) error {
		var err error
		event, err = s.applyScoredGuess(ctx, sess, playerID, word)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return event, sess, nil
}

// applyScoredGuess validates the guess, scores it against every alive
// opponent's secret via the similarity matrix, applies the outcome and
// updates every AI seat's observation memory.
func (s *Service) applyScoredGuess(ctx context.Context, sess *domain.Session, playerID, word string) (*domain.GuessEvent, error) {
	if err := sess.CheckGuess(playerID); err != nil {
		return nil, err
	}
	word = strings.ToLower(strings.TrimSpace(word))
	if sess.Theme == nil || !sess.Theme.HasWord(word) {
		return nil, domain.ErrWordNotInTheme
	}

	matrix, err := s.matrixFor(ctx, sess)
	if err != nil {
		return nil, err
	}

	scores := make(map[string]float64)
	for _, p := range sess.AlivePlayers() {
		if p.ID == playerID {
			continue
		}
		if score, ok := matrix.Score(word, p.SecretWord); ok {
			scores[p.ID] = score
		}
	}

	event, err := sess.ApplyGuess(playerID, word, scores, s.cfg.EliminationThreshold)
	if err != nil {
		return nil, err
	}

	for _, p := range sess.Players {
		if p.IsAI && p.IsAlive {
			ai.UpdateMemory(p, word, event.Similarities, ai.ProfileFor(p.Difficulty).MemoryDepth)
		}
	}

	if len(event.Eliminations) > 0 {
		s.logger.Info("players eliminated",
			"code", sess.Code,
			"guesser", playerID,
			"word", word,
			"eliminated", len(event.Eliminations),
		)
	}
	return event, nil
}

// ChangeWord swaps the paused eliminator's secret for a new pool word
func (s *Service) ChangeWord(ctx context.Context, code, playerID, word string) (*domain.Session, error) {
	return s.mutate(ctx, code, func(sess *domain.Session) error {
		return sess.ApplyWordChange(playerID, word)
	})
}

// SkipWordChange resolves the pause without changing the secret
func (s *Service) SkipWordChange(ctx context.Context, code, playerID string) (*domain.Session, error) {
	return s.mutate(ctx, code, func(sess *domain.Session) error {
		return sess.SkipWordChange(playerID)
	})
}

// State returns the current session state
func (s *Service) State(ctx context.Context, code string) (*domain.Session, error) {
	sess, _, err := s.store.Get(ctx, code)
	return sess, err
}
