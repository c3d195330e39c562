package app

import (
	"context"
	"errors"

	"wordhunt/internal/domain"
	"wordhunt/internal/store"
)

// mutate runs one operation under the optimistic concurrency guard: load
// the session together with its version, apply fn to a private copy, and
// write back only if the stored version is unchanged. On a version
// conflict the whole cycle retries a bounded number of times before the
// conflict is surfaced to the caller. fn failures discard the copy, so an
// operation either fully commits or leaves no trace.
func (s *Service) mutate(ctx context.Context, code string, fn func(sess *domain.Session) error) (*domain.Session, error) {
	attempts := s.cfg.GuardMaxRetries
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sess, version, err := s.store.Get(ctx, code)
		if err != nil {
			return nil, err
		}

		if err := fn(sess); err != nil {
			return nil, err
		}

		err = s.store.Put(ctx, code, sess, version, s.cfg.SessionTTL)
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, store.ErrVersionConflict) {
			return nil, err
		}

		s.logger.Debug("session write conflicted, retrying",
			"code", code,
			"attempt", attempt+1,
		)
	}

	return nil, domain.ErrConflict
}
