package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"wordhunt/internal/app"
	"wordhunt/internal/config"
)

// Server represents the HTTP server
type Server struct {
	server  *http.Server
	service *app.Service
	config  *config.Config
	logger  *slog.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, service *app.Service, logger *slog.Logger) *Server {
	s := &Server{
		service: service,
		config:  cfg,
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(15 * time.Second))
	r.Use(s.requestLogger)
	r.Use(cors)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/themes", s.handleThemes)

		r.Route("/games", func(r chi.Router) {
			r.Post("/", s.handleCreate)
			r.Route("/{code}", func(r chi.Router) {
				r.Get("/", s.handleState)
				r.Get("/player/{playerID}", s.handlePlayerState)
				r.Post("/join", s.handleJoin)
				r.Post("/vote", s.handleVote)
				r.Post("/start", s.handleStart)
				r.Post("/word", s.handleSetWord)
				r.Post("/begin", s.handleBegin)
				r.Post("/guess", s.handleGuess)
				r.Post("/change-word", s.handleChangeWord)
				r.Post("/skip-change", s.handleSkipChange)
				r.Post("/ai-turn", s.handleAITurn)
			})
		})
	})

	s.server = &http.Server{
		Addr:         cfg.GetAddr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// requestLogger logs each request with method, path, status and duration
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(wrapped, r)

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.Status(),
			"duration", time.Since(start),
		)
	})
}

// cors adds permissive CORS headers; clients poll from browsers
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("server starting", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.server.Shutdown(ctx)
}
