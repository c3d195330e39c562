package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"wordhunt/internal/domain"
)

const sweepInterval = time.Minute

type record struct {
	session *domain.Session
	version int64
	expires time.Time
}

// Memory is an in-memory Store implementation. Sessions are deep-copied
// on the way in and out so callers never share state with the store, and
// expired records are reclaimed by a background sweep.
type Memory struct {
	mu        sync.RWMutex
	records   map[string]*record
	logger    *slog.Logger
	done      chan struct{}
	closeOnce sync.Once
}

// NewMemory creates a new in-memory store and starts its sweep loop
func NewMemory(logger *slog.Logger) *Memory {
	m := &Memory{
		records: make(map[string]*record),
		logger:  logger,
		done:    make(chan struct{}),
	}
	go m.sweepLoop()
	return m
}

// Get returns a copy of the stored session and its current version
func (m *Memory) Get(ctx context.Context, code string) (*domain.Session, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[code]
	if !ok || time.Now().After(rec.expires) {
		return nil, 0, domain.ErrSessionNotFound
	}
	return rec.session.Clone(), rec.version, nil
}

// Put writes the session if the stored version still matches
// expectedVersion. Version 0 creates the record.
func (m *Memory) Put(ctx context.Context, code string, session *domain.Session, expectedVersion int64, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[code]
	if ok && time.Now().After(rec.expires) {
		delete(m.records, code)
		ok = false
	}

	if expectedVersion == 0 {
		if ok {
			return ErrVersionConflict
		}
	} else {
		if !ok {
			return domain.ErrSessionNotFound
		}
		if rec.version != expectedVersion {
			return ErrVersionConflict
		}
	}

	stored := session.Clone()
	stored.Version = expectedVersion + 1
	session.Version = stored.Version
	m.records[code] = &record{
		session: stored,
		version: stored.Version,
		expires: time.Now().Add(ttl),
	}
	return nil
}

// Delete removes a session record
func (m *Memory) Delete(ctx context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, code)
	return nil
}

// Len returns the number of live records
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := time.Now()
	count := 0
	for _, rec := range m.records {
		if now.Before(rec.expires) {
			count++
		}
	}
	return count
}

// Close stops the sweep loop
func (m *Memory) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
	})
}

func (m *Memory) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *Memory) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for code, rec := range m.records {
		if now.After(rec.expires) {
			delete(m.records, code)
			if m.logger != nil {
				m.logger.Info("expired session reclaimed", "code", code)
			}
		}
	}
}
