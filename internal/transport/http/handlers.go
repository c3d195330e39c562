package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"wordhunt/internal/app"
	"wordhunt/internal/domain"
)

// Response is a standard API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type createRequest struct {
	Visibility string   `json:"visibility"`
	Ranked     bool     `json:"ranked"`
	Themes     []string `json:"themes"`
}

type joinRequest struct {
	Name       string          `json:"name"`
	Cosmetics  json.RawMessage `json:"cosmetics"`
	AI         bool            `json:"ai"`
	Difficulty string          `json:"difficulty"`
}

type actionRequest struct {
	PlayerID string `json:"playerId"`
	Theme    string `json:"theme,omitempty"`
	Word     string `json:"word,omitempty"`
}

func (s *Server) sessionCode(r *http.Request) string {
	return strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "code")))
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.sendError(w, http.StatusBadRequest, "BAD_INPUT", "malformed request body")
		return false
	}
	return true
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if r.ContentLength > 0 && !s.decode(w, r, &req) {
		return
	}

	sess, err := s.service.Create(r.Context(), app.CreateParams{
		Visibility: req.Visibility,
		Ranked:     req.Ranked,
		Themes:     req.Themes,
	})
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendSuccess(w, newSessionView(sess, ""))
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess, err := s.service.State(r.Context(), s.sessionCode(r))
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendSuccess(w, newSessionView(sess, ""))
}

func (s *Server) handlePlayerState(w http.ResponseWriter, r *http.Request) {
	sess, err := s.service.State(r.Context(), s.sessionCode(r))
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	playerID := chi.URLParam(r, "playerID")
	if _, err := sess.Player(playerID); err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendSuccess(w, newSessionView(sess, playerID))
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if !s.decode(w, r, &req) {
		return
	}

	player, sess, err := s.service.Join(r.Context(), s.sessionCode(r), app.JoinParams{
		Name:       req.Name,
		Cosmetics:  req.Cosmetics,
		AI:         req.AI,
		Difficulty: req.Difficulty,
	})
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendSuccess(w, newSessionView(sess, player.ID))
}

func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if !s.decode(w, r, &req) {
		return
	}
	sess, err := s.service.Vote(r.Context(), s.sessionCode(r), req.PlayerID, req.Theme)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendSuccess(w, newSessionView(sess, req.PlayerID))
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if !s.decode(w, r, &req) {
		return
	}
	sess, err := s.service.Start(r.Context(), s.sessionCode(r), req.PlayerID)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendSuccess(w, newSessionView(sess, req.PlayerID))
}

func (s *Server) handleSetWord(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if !s.decode(w, r, &req) {
		return
	}
	sess, err := s.service.SetWord(r.Context(), s.sessionCode(r), req.PlayerID, req.Word)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendSuccess(w, newSessionView(sess, req.PlayerID))
}

func (s *Server) handleBegin(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if !s.decode(w, r, &req) {
		return
	}
	sess, err := s.service.Begin(r.Context(), s.sessionCode(r), req.PlayerID)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendSuccess(w, newSessionView(sess, req.PlayerID))
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if !s.decode(w, r, &req) {
		return
	}
	event, sess, err := s.service.Guess(r.Context(), s.sessionCode(r), req.PlayerID, req.Word)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendSuccess(w, struct {
		Guess   *domain.GuessEvent `json:"guess"`
		Session SessionView        `json:"session"`
	}{Guess: event, Session: newSessionView(sess, req.PlayerID)})
}

func (s *Server) handleChangeWord(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if !s.decode(w, r, &req) {
		return
	}
	sess, err := s.service.ChangeWord(r.Context(), s.sessionCode(r), req.PlayerID, req.Word)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendSuccess(w, newSessionView(sess, req.PlayerID))
}

func (s *Server) handleSkipChange(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if !s.decode(w, r, &req) {
		return
	}
	sess, err := s.service.SkipWordChange(r.Context(), s.sessionCode(r), req.PlayerID)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendSuccess(w, newSessionView(sess, req.PlayerID))
}

func (s *Server) handleAITurn(w http.ResponseWriter, r *http.Request) {
	sess, err := s.service.PlayAITurn(r.Context(), s.sessionCode(r))
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendSuccess(w, newSessionView(sess, ""))
}

func (s *Server) handleThemes(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, struct {
		Themes []string `json:"themes"`
	}{Themes: s.service.ThemeNames()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, struct {
		Status string `json:"status"`
	}{Status: "ok"})
}

// sendDomainError maps the error taxonomy onto HTTP status codes
func (s *Server) sendDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrPlayerNotFound):
		s.sendError(w, http.StatusNotFound, "NOT_FOUND", err.Error())

	case errors.Is(err, domain.ErrNotHost),
		errors.Is(err, domain.ErrNotYourTurn),
		errors.Is(err, domain.ErrPlayerEliminated):
		s.sendError(w, http.StatusForbidden, "FORBIDDEN", err.Error())

	case errors.Is(err, domain.ErrWrongStatus),
		errors.Is(err, domain.ErrSessionFull),
		errors.Is(err, domain.ErrNotEnoughPlayers),
		errors.Is(err, domain.ErrWordAlreadySet),
		errors.Is(err, domain.ErrWordsNotChosen),
		errors.Is(err, domain.ErrAwaitingWordChange),
		errors.Is(err, domain.ErrNoPendingChange),
		errors.Is(err, domain.ErrGameFinished):
		s.sendError(w, http.StatusConflict, "PHASE", err.Error())

	case errors.Is(err, domain.ErrConflict):
		s.sendError(w, http.StatusConflict, "CONFLICT", err.Error())

	case errors.Is(err, domain.ErrUpstream):
		s.sendError(w, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", domain.ErrUpstream.Error())

	case errors.Is(err, domain.ErrEmptyName),
		errors.Is(err, domain.ErrNameTaken),
		errors.Is(err, domain.ErrInvalidCode),
		errors.Is(err, domain.ErrUnknownTheme),
		errors.Is(err, domain.ErrWordNotInTheme),
		errors.Is(err, domain.ErrWordNotInPool),
		errors.Is(err, domain.ErrWordAlreadyUsed),
		errors.Is(err, domain.ErrVocabularyTooSmall),
		errors.Is(err, domain.ErrUnknownDifficulty):
		s.sendError(w, http.StatusBadRequest, "BAD_INPUT", err.Error())

	default:
		s.logger.Error("internal error", "error", err)
		s.sendError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// sendSuccess sends a successful JSON response
func (s *Server) sendSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&Response{
		Success: true,
		Data:    data,
	})
}

// sendError sends an error JSON response
func (s *Server) sendError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	})
}
