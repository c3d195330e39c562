package domain

import (
	"encoding/json"
	"math/rand"
	"strings"
	"time"
)

// SchemaVersion is bumped whenever the persisted session layout changes
const SchemaVersion = 1

// Visibility controls whether a session is listed publicly
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// SessionSettings holds configurable per-session game parameters
type SessionSettings struct {
	MinPlayers int `json:"minPlayers"`
	MaxPlayers int `json:"maxPlayers"`
	PoolSize   int `json:"poolSize"`
}

// DefaultSessionSettings returns the default session settings
func DefaultSessionSettings() SessionSettings {
	return SessionSettings{
		MinPlayers: 3,
		MaxPlayers: 8,
		PoolSize:   20,
	}
}

// Session is one instance of the game, identified by a short code. All
// mutation goes through the methods below; callers persist the result
// with a version-checked conditional write.
type Session struct {
	SchemaVersion        int                 `json:"schemaVersion"`
	Code                 string              `json:"code"`
	Status               Status              `json:"status"`
	HostID               string              `json:"hostId"`
	Players              []*Player           `json:"players"`
	Theme                *Theme              `json:"theme,omitempty"`
	ThemeOptions         []string            `json:"themeOptions"`
	ThemeVotes           map[string][]string `json:"themeVotes"`
	TurnIndex            int                 `json:"turnIndex"`
	WaitingForWordChange string              `json:"waitingForWordChange,omitempty"`
	History              []HistoryEntry      `json:"history"`
	Winner               string              `json:"winner,omitempty"`
	Visibility           Visibility          `json:"visibility"`
	Ranked               bool                `json:"ranked"`
	Settings             SessionSettings     `json:"settings"`
	CreatedAt            time.Time           `json:"createdAt"`
	Version              int64               `json:"version"`
}

// NewSession creates a session in the lobby with the given theme options
func NewSession(code string, themeOptions []string, visibility Visibility, ranked bool, settings SessionSettings) *Session {
	return &Session{
		SchemaVersion: SchemaVersion,
		Code:          code,
		Status:        StatusLobby,
		Players:       make([]*Player, 0),
		ThemeOptions:  append([]string(nil), themeOptions...),
		ThemeVotes:    make(map[string][]string),
		Visibility:    visibility,
		Ranked:        ranked,
		Settings:      settings,
		CreatedAt:     time.Now(),
	}
}

// Player returns the player with the given id
func (s *Session) Player(playerID string) (*Player, error) {
	for _, p := range s.Players {
		if p.ID == playerID {
			return p, nil
		}
	}
	return nil, ErrPlayerNotFound
}

// IsHost checks whether the given player is the host
func (s *Session) IsHost(playerID string) bool {
	return s.HostID == playerID && playerID != ""
}

// AddPlayer joins a new human player. The first joiner becomes the host.
func (s *Session) AddPlayer(name string, cosmetics json.RawMessage) (*Player, error) {
	if err := s.checkJoin(name); err != nil {
		return nil, err
	}

	player := NewPlayer(strings.TrimSpace(name), cosmetics)
	s.Players = append(s.Players, player)
	if s.HostID == "" {
		s.HostID = player.ID
	}
	return player, nil
}

// AddAIPlayer joins an AI seat at the given difficulty
func (s *Session) AddAIPlayer(name, difficulty string) (*Player, error) {
	if err := s.checkJoin(name); err != nil {
		return nil, err
	}

	player := NewAIPlayer(strings.TrimSpace(name), difficulty)
	s.Players = append(s.Players, player)
	if s.HostID == "" {
		s.HostID = player.ID
	}
	return player, nil
}

func (s *Session) checkJoin(name string) error {
	if s.Status != StatusLobby {
		return ErrWrongStatus
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	for _, p := range s.Players {
		if strings.EqualFold(p.Name, name) {
			return ErrNameTaken
		}
	}
	if len(s.Players) >= s.Settings.MaxPlayers {
		return ErrSessionFull
	}
	return nil
}

// RecordVote records a theme vote. A player's previous vote, if any, is
// removed first, so re-voting is last-vote-wins.
func (s *Session) RecordVote(playerID, theme string) error {
	if s.Status != StatusLobby && s.Status != StatusThemeVote {
		return ErrWrongStatus
	}
	if _, err := s.Player(playerID); err != nil {
		return err
	}

	valid := false
	for _, opt := range s.ThemeOptions {
		if strings.EqualFold(opt, theme) {
			theme = opt
			valid = true
			break
		}
	}
	if !valid {
		return ErrUnknownTheme
	}

	for t, voters := range s.ThemeVotes {
		kept := voters[:0]
		for _, v := range voters {
			if v != playerID {
				kept = append(kept, v)
			}
		}
		if len(kept) == 0 {
			delete(s.ThemeVotes, t)
		} else {
			s.ThemeVotes[t] = kept
		}
	}

	s.ThemeVotes[theme] = append(s.ThemeVotes[theme], playerID)
	return nil
}

// HasVotes reports whether any theme vote has been recorded
func (s *Session) HasVotes() bool {
	return len(s.ThemeVotes) > 0
}

// OpenThemeVote moves the lobby into the theme-vote state
func (s *Session) OpenThemeVote() error {
	if s.Status != StatusLobby {
		return ErrWrongStatus
	}
	s.Status = StatusThemeVote
	return nil
}

// ResolveTheme picks the winning theme by weighted random choice over the
// options, weighted by vote count. With no votes at all every option gets
// weight 1, so the pick degrades to uniform random.
func (s *Session) ResolveTheme(rng *rand.Rand) string {
	weights := make([]int, len(s.ThemeOptions))
	total := 0
	for i, opt := range s.ThemeOptions {
		weights[i] = len(s.ThemeVotes[opt])
		total += weights[i]
	}
	if total == 0 {
		for i := range weights {
			weights[i] = 1
		}
		total = len(weights)
	}

	pick := rng.Intn(total)
	for i, w := range weights {
		if pick < w {
			return s.ThemeOptions[i]
		}
		pick -= w
	}
	return s.ThemeOptions[len(s.ThemeOptions)-1]
}

// FixTheme installs the chosen theme, assigns disjoint word pools and moves
// the session into word selection.
func (s *Session) FixTheme(theme *Theme, rng *rand.Rand) error {
	if s.Status != StatusLobby && s.Status != StatusThemeVote {
		return ErrWrongStatus
	}
	if len(s.Players) < s.Settings.MinPlayers {
		return ErrNotEnoughPlayers
	}

	pools, err := AllocatePools(theme.Words, len(s.Players), s.Settings.PoolSize, rng)
	if err != nil {
		return err
	}

	s.Theme = theme
	for i, p := range s.Players {
		p.WordPool = pools[i]
	}
	s.Status = StatusWordSelection
	return nil
}

// SetSecretWord sets a player's secret word from their pool
func (s *Session) SetSecretWord(playerID, word string) error {
	if s.Status != StatusWordSelection {
		return ErrWrongStatus
	}
	player, err := s.Player(playerID)
	if err != nil {
		return err
	}
	if player.SecretWord != "" {
		return ErrWordAlreadySet
	}
	word = strings.ToLower(strings.TrimSpace(word))
	if !player.HasPoolWord(word) {
		return ErrWordNotInPool
	}
	player.SecretWord = word
	return nil
}

// AllWordsChosen reports whether every player has a secret word
func (s *Session) AllWordsChosen() bool {
	for _, p := range s.Players {
		if p.SecretWord == "" {
			return false
		}
	}
	return len(s.Players) > 0
}

// BeginPlaying moves the session from word selection into play
func (s *Session) BeginPlaying(hostID string) error {
	if !s.IsHost(hostID) {
		return ErrNotHost
	}
	if s.Status != StatusWordSelection {
		return ErrWrongStatus
	}
	if !s.AllWordsChosen() {
		return ErrWordsNotChosen
	}
	s.Status = StatusPlaying
	s.TurnIndex = 0
	return nil
}

// CurrentPlayer returns the player whose turn it is
func (s *Session) CurrentPlayer() *Player {
	if len(s.Players) == 0 || s.TurnIndex < 0 || s.TurnIndex >= len(s.Players) {
		return nil
	}
	return s.Players[s.TurnIndex]
}

// AliveCount returns how many players are still alive
func (s *Session) AliveCount() int {
	count := 0
	for _, p := range s.Players {
		if p.IsAlive {
			count++
		}
	}
	return count
}

// AlivePlayers returns the players still alive, in seating order
func (s *Session) AlivePlayers() []*Player {
	alive := make([]*Player, 0, len(s.Players))
	for _, p := range s.Players {
		if p.IsAlive {
			alive = append(alive, p)
		}
	}
	return alive
}

// advanceTurn moves the turn index to the next alive player in seating
// order, wrapping around at most once.
func (s *Session) advanceTurn() {
	for i := 1; i <= len(s.Players); i++ {
		idx := (s.TurnIndex + i) % len(s.Players)
		if s.Players[idx].IsAlive {
			s.TurnIndex = idx
			return
		}
	}
}

// CheckGuess validates that the player may guess right now, without
// applying anything. Used to fail fast before similarity scoring.
func (s *Session) CheckGuess(playerID string) error {
	if s.Status == StatusFinished {
		return ErrGameFinished
	}
	if s.Status != StatusPlaying {
		return ErrWrongStatus
	}
	if s.WaitingForWordChange != "" {
		return ErrAwaitingWordChange
	}
	player, err := s.Player(playerID)
	if err != nil {
		return err
	}
	if !player.IsAlive {
		return ErrPlayerEliminated
	}
	if s.CurrentPlayer() == nil || s.CurrentPlayer().ID != playerID {
		return ErrNotYourTurn
	}
	return nil
}

// ApplyGuess applies a scored guess: eliminates every opponent whose
// similarity reached the threshold, grants the word-change privilege and
// pauses the game when the guesser eliminated someone, finishes the game
// when at most one player remains, and otherwise advances the turn.
//
// scores maps alive opponent ids to the similarity between the guessed
// word and that opponent's secret. The guesser is never self-eliminated.
func (s *Session) ApplyGuess(guesserID, word string, scores map[string]float64, threshold float64) (*GuessEvent, error) {
	if err := s.CheckGuess(guesserID); err != nil {
		return nil, err
	}
	word = strings.ToLower(strings.TrimSpace(word))
	if s.Theme == nil || !s.Theme.HasWord(word) {
		return nil, ErrWordNotInTheme
	}

	event := &GuessEvent{
		Guesser:      guesserID,
		Word:         word,
		Similarities: make(map[string]float64, len(scores)),
		Eliminations: make([]string, 0),
	}

	for _, p := range s.Players {
		if !p.IsAlive || p.ID == guesserID {
			continue
		}
		score, ok := scores[p.ID]
		if !ok {
			continue
		}
		event.Similarities[p.ID] = score
		if score >= threshold {
			p.Eliminate()
			event.Eliminations = append(event.Eliminations, p.ID)
		}
	}

	s.History = append(s.History, newGuessEntry(event))

	if s.AliveCount() <= 1 {
		s.finish()
		return event, nil
	}

	if len(event.Eliminations) > 0 {
		guesser, _ := s.Player(guesserID)
		guesser.CanChangeWord = true
		s.WaitingForWordChange = guesserID
		return event, nil
	}

	s.advanceTurn()
	return event, nil
}

func (s *Session) finish() {
	s.Status = StatusFinished
	s.WaitingForWordChange = ""
	for _, p := range s.Players {
		p.CanChangeWord = false
		if p.IsAlive {
			s.Winner = p.ID
		}
	}
}

// GuessedWords returns every word that appears in history as a guess
func (s *Session) GuessedWords() map[string]bool {
	used := make(map[string]bool)
	for _, e := range s.History {
		if e.Type == EventGuess && e.Guess != nil {
			used[e.Guess.Word] = true
		}
	}
	return used
}

// ApplyWordChange swaps the paused eliminator's secret for a new pool word
// that has not been guessed yet, then resumes turn advancement.
func (s *Session) ApplyWordChange(playerID, newWord string) error {
	player, err := s.checkWordChange(playerID)
	if err != nil {
		return err
	}

	newWord = strings.ToLower(strings.TrimSpace(newWord))
	if !player.HasPoolWord(newWord) {
		return ErrWordNotInPool
	}
	if s.GuessedWords()[newWord] {
		return ErrWordAlreadyUsed
	}

	player.SecretWord = newWord
	s.resumeAfterWordChange(playerID, true)
	return nil
}

// SkipWordChange clears the pending word change without changing the secret
func (s *Session) SkipWordChange(playerID string) error {
	if _, err := s.checkWordChange(playerID); err != nil {
		return err
	}
	s.resumeAfterWordChange(playerID, false)
	return nil
}

func (s *Session) checkWordChange(playerID string) (*Player, error) {
	if s.Status != StatusPlaying {
		return nil, ErrWrongStatus
	}
	player, err := s.Player(playerID)
	if err != nil {
		return nil, err
	}
	if s.WaitingForWordChange != playerID || !player.CanChangeWord {
		return nil, ErrNoPendingChange
	}
	return player, nil
}

func (s *Session) resumeAfterWordChange(playerID string, changed bool) {
	player, _ := s.Player(playerID)
	player.CanChangeWord = false
	s.WaitingForWordChange = ""
	s.History = append(s.History, newWordChangeEntry(playerID, changed))
	s.advanceTurn()
}

// Clone returns a deep copy of the session
func (s *Session) Clone() *Session {
	cp := *s
	cp.Players = make([]*Player, len(s.Players))
	for i, p := range s.Players {
		cp.Players[i] = p.Clone()
	}
	cp.Theme = s.Theme.Clone()
	cp.ThemeOptions = append([]string(nil), s.ThemeOptions...)
	cp.ThemeVotes = make(map[string][]string, len(s.ThemeVotes))
	for t, voters := range s.ThemeVotes {
		cp.ThemeVotes[t] = append([]string(nil), voters...)
	}
	cp.History = make([]HistoryEntry, len(s.History))
	for i, e := range s.History {
		cp.History[i] = e.Clone()
	}
	return &cp
}
