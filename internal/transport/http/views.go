package http

import (
	"encoding/json"
	"time"

	"wordhunt/internal/domain"
)

// PlayerView is the projection of a player other players may see. Secret
// words and pools stay hidden until the game is finished.
type PlayerView struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	IsAlive       bool            `json:"isAlive"`
	CanChangeWord bool            `json:"canChangeWord"`
	IsAI          bool            `json:"isAi"`
	Difficulty    string          `json:"difficulty,omitempty"`
	Cosmetics     json.RawMessage `json:"cosmetics,omitempty"`
	HasWord       bool            `json:"hasWord"`
	SecretWord    string          `json:"secretWord,omitempty"`
}

// SelfView is the additional state a player sees about themselves
type SelfView struct {
	ID         string   `json:"id"`
	WordPool   []string `json:"wordPool,omitempty"`
	SecretWord string   `json:"secretWord,omitempty"`
	IsHost     bool     `json:"isHost"`
}

// SessionView is the poll-friendly projection of a session
type SessionView struct {
	Code                 string                 `json:"code"`
	Status               string                 `json:"status"`
	Players              []PlayerView           `json:"players"`
	Theme                string                 `json:"theme,omitempty"`
	ThemeOptions         []string               `json:"themeOptions"`
	ThemeVotes           map[string]int         `json:"themeVotes"`
	TurnIndex            int                    `json:"turnIndex"`
	CurrentPlayerID      string                 `json:"currentPlayerId,omitempty"`
	WaitingForWordChange string                 `json:"waitingForWordChange,omitempty"`
	History              []domain.HistoryEntry  `json:"history"`
	Winner               string                 `json:"winner,omitempty"`
	Visibility           string                 `json:"visibility"`
	Ranked               bool                   `json:"ranked"`
	CreatedAt            time.Time              `json:"createdAt"`
	You                  *SelfView              `json:"you,omitempty"`
}

// newSessionView builds the projection. viewerID may be empty for the
// public state endpoint.
func newSessionView(sess *domain.Session, viewerID string) SessionView {
	finished := sess.Status == domain.StatusFinished

	players := make([]PlayerView, 0, len(sess.Players))
	for _, p := range sess.Players {
		view := PlayerView{
			ID:            p.ID,
			Name:          p.Name,
			IsAlive:       p.IsAlive,
			CanChangeWord: p.CanChangeWord,
			IsAI:          p.IsAI,
			Difficulty:    p.Difficulty,
			Cosmetics:     p.Cosmetics,
			HasWord:       p.SecretWord != "",
		}
		// Secrets of the fallen are revealed, and everything is open
		// once the game ends.
		if finished || !p.IsAlive {
			view.SecretWord = p.SecretWord
		}
		players = append(players, view)
	}

	votes := make(map[string]int, len(sess.ThemeVotes))
	for theme, voters := range sess.ThemeVotes {
		votes[theme] = len(voters)
	}

	view := SessionView{
		Code:                 sess.Code,
		Status:               sess.Status.String(),
		Players:              players,
		ThemeOptions:         sess.ThemeOptions,
		ThemeVotes:           votes,
		TurnIndex:            sess.TurnIndex,
		WaitingForWordChange: sess.WaitingForWordChange,
		History:              sess.History,
		Winner:               sess.Winner,
		Visibility:           string(sess.Visibility),
		Ranked:               sess.Ranked,
		CreatedAt:            sess.CreatedAt,
	}
	if sess.Theme != nil {
		view.Theme = sess.Theme.Name
	}
	if current := sess.CurrentPlayer(); current != nil && sess.Status == domain.StatusPlaying {
		view.CurrentPlayerID = current.ID
	}

	if viewerID != "" {
		if p, err := sess.Player(viewerID); err == nil {
			view.You = &SelfView{
				ID:         p.ID,
				WordPool:   p.WordPool,
				SecretWord: p.SecretWord,
				IsHost:     sess.IsHost(p.ID),
			}
		}
	}

	return view
}
