// Package app wires the turn engine to the session store, the similarity
// layer and the AI opponent. Every mutating operation goes through the
// optimistic load/compute/conditional-write cycle in guard.go.
package app

import (
	"context"
	crand "crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"wordhunt/internal/ai"
	"wordhunt/internal/config"
	"wordhunt/internal/domain"
	"wordhunt/internal/similarity"
	"wordhunt/internal/store"
	"wordhunt/internal/themes"
)

// CodeChars are characters used for session codes (no ambiguous chars)
const CodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	codeAttempts    = 10
	warmMatrixLimit = 256
)

// Service owns one game's shared state transitions. It is safe for
// concurrent use: all session state lives in the store and is only
// written through version-checked conditional puts.
type Service struct {
	store    store.Store
	embedder similarity.Embedder
	themes   *themes.Catalog
	matrices *lru.Cache[string, *similarity.Matrix]
	opponent *ai.Opponent
	cfg      config.GameConfig
	logger   *slog.Logger
	rng      *rand.Rand
}

// NewService creates the game service
func NewService(st store.Store, embedder similarity.Embedder, catalog *themes.Catalog, cfg config.GameConfig, logger *slog.Logger) (*Service, error) {
	matrices, err := lru.New[string, *similarity.Matrix](warmMatrixLimit)
	if err != nil {
		return nil, err
	}

	rng := rand.New(&lockedSource{src: rand.NewSource(time.Now().UnixNano())})

	return &Service{
		store:    st,
		embedder: embedder,
		themes:   catalog,
		matrices: matrices,
		opponent: ai.New(rng),
		cfg:      cfg,
		logger:   logger,
		rng:      rng,
	}, nil
}

// lockedSource makes a rand.Source safe for concurrent request handlers
type lockedSource struct {
	mu  sync.Mutex
	src rand.Source
}

func (s *lockedSource) Int63() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Int63()
}

func (s *lockedSource) Seed(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.src.Seed(seed)
}

// ThemeNames returns the available theme names
func (s *Service) ThemeNames() []string {
	return s.themes.Names()
}

// generateCode generates a random session code
func (s *Service) generateCode() string {
	b := make([]byte, s.cfg.CodeLength)
	crand.Read(b)

	code := make([]byte, s.cfg.CodeLength)
	for i := range code {
		code[i] = CodeChars[int(b[i])%len(CodeChars)]
	}
	return string(code)
}

// matrixFor returns the warm similarity matrix for a session, rebuilding
// it from the theme vocabulary when it fell out of the LRU. A rebuild is
// served from the embedding cache when warm, so play does not normally
// suspend on the provider.
func (s *Service) matrixFor(ctx context.Context, sess *domain.Session) (*similarity.Matrix, error) {
	if m, ok := s.matrices.Get(sess.Code); ok {
		return m, nil
	}
	if sess.Theme == nil {
		return nil, domain.ErrWrongStatus
	}

	m, err := similarity.BuildMatrix(ctx, s.embedder, sess.Theme.Words)
	if err != nil {
		return nil, upstream(err)
	}
	s.matrices.Add(sess.Code, m)
	return m, nil
}

// upstream converts provider failures into the domain upstream error so
// callers see one taxonomy.
func upstream(err error) error {
	if errors.Is(err, similarity.ErrUnavailable) {
		return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	return err
}
