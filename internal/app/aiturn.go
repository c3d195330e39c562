package app

import (
	"context"
	"time"

	"wordhunt/internal/ai"
	"wordhunt/internal/domain"
)

// PlayAITurn drives the AI seat the session is currently waiting on:
// either the paused eliminator resolving its word change, or the seat
// whose turn it is making a guess. The engine itself never invokes the
// policy; clients (or a scheduler) trigger AI turns through this call,
// and the guard makes duplicate triggers collapse into one committed
// move.
func (s *Service) PlayAITurn(ctx context.Context, code string) (*domain.Session, error) {
	sess, _, err := s.store.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	actor, err := aiActor(sess)
	if err != nil {
		return nil, err
	}

	if s.cfg.AIPacing {
		if err := s.pace(ctx, ai.ProfileFor(actor.Difficulty)); err != nil {
			return nil, err
		}
	}

	return s.mutate(ctx, code, func(sess *domain.Session) error {
		actor, err := aiActor(sess)
		if err != nil {
			return err
		}

		if sess.WaitingForWordChange == actor.ID {
			if word, ok := s.opponent.ReactToElimination(actor, sess); ok {
				return sess.ApplyWordChange(actor.ID, word)
			}
			return sess.SkipWordChange(actor.ID)
		}

		matrix, err := s.matrixFor(ctx, sess)
		if err != nil {
			return err
		}

		profile := ai.ProfileFor(actor.Difficulty)
		word := s.opponent.ChooseGuess(actor, sess, matrix, profile)
		if word == "" {
			return domain.ErrWordNotInTheme
		}

		_, err = s.applyScoredGuess(ctx, sess, actor.ID, word)
		return err
	})
}

// aiActor returns the AI seat the session is waiting on, or a phase error
// when the game is waiting on a human.
func aiActor(sess *domain.Session) (*domain.Player, error) {
	if sess.Status != domain.StatusPlaying {
		return nil, domain.ErrWrongStatus
	}

	if sess.WaitingForWordChange != "" {
		paused, err := sess.Player(sess.WaitingForWordChange)
		if err != nil {
			return nil, err
		}
		if !paused.IsAI {
			return nil, domain.ErrAwaitingWordChange
		}
		return paused, nil
	}

	current := sess.CurrentPlayer()
	if current == nil || !current.IsAI {
		return nil, domain.ErrNotYourTurn
	}
	return current, nil
}

// pace sleeps a random think delay within the profile's bounds
func (s *Service) pace(ctx context.Context, profile ai.Profile) error {
	span := profile.ThinkDelayMax - profile.ThinkDelayMin
	delay := profile.ThinkDelayMin
	if span > 0 {
		delay += time.Duration(s.rng.Int63n(int64(span)))
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
