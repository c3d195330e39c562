// Package store persists sessions keyed by code. Writes are conditional
// on the stored version so concurrent mutations cannot silently overwrite
// each other, and records expire by TTL.
package store

import (
	"context"
	"errors"
	"time"

	"wordhunt/internal/domain"
)

// ErrVersionConflict is returned by Put when the stored version no longer
// matches the expected one. Callers retry the whole read-compute-write
// cycle.
var ErrVersionConflict = errors.New("session version conflict")

// Store is the durable session store. Get returns the session together
// with the version the conditional Put must be based on. expectedVersion 0
// creates the record and conflicts if it already exists.
type Store interface {
	Get(ctx context.Context, code string) (*domain.Session, int64, error)
	Put(ctx context.Context, code string, session *domain.Session, expectedVersion int64, ttl time.Duration) error
	Delete(ctx context.Context, code string) error
}
