package domain

import "errors"

// Validation errors: bad input, reported before any mutation is attempted.
var (
	ErrEmptyName          = errors.New("name cannot be empty")
	ErrNameTaken          = errors.New("name already taken")
	ErrInvalidCode        = errors.New("invalid session code")
	ErrUnknownTheme       = errors.New("unknown theme")
	ErrWordNotInTheme     = errors.New("word is not part of the theme vocabulary")
	ErrWordNotInPool      = errors.New("word is not in your word pool")
	ErrWordAlreadyUsed    = errors.New("word was already guessed this game")
	ErrVocabularyTooSmall = errors.New("theme vocabulary too small for the requested pools")
	ErrUnknownDifficulty  = errors.New("unknown AI difficulty")
)

// Not-found errors.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrPlayerNotFound  = errors.New("player not found")
)

// Phase errors: the operation is valid in general but not in the current state.
var (
	ErrWrongStatus        = errors.New("invalid action for current session status")
	ErrSessionFull        = errors.New("session is full")
	ErrNotEnoughPlayers   = errors.New("not enough players to start")
	ErrNotHost            = errors.New("only the host can perform this action")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrPlayerEliminated   = errors.New("player has been eliminated")
	ErrWordAlreadySet     = errors.New("secret word already set")
	ErrWordsNotChosen     = errors.New("not every player has chosen a secret word")
	ErrAwaitingWordChange = errors.New("waiting for the eliminator to resolve their word change")
	ErrNoPendingChange    = errors.New("no word change is pending for this player")
	ErrGameFinished       = errors.New("game is finished")
)

// Concurrency and upstream errors.
var (
	// ErrConflict is surfaced when optimistic retries are exhausted; the
	// whole operation is safe to retry from the caller side.
	ErrConflict = errors.New("concurrent modification, please retry")

	// ErrUpstream covers embedding provider failures. These are detected
	// before any session mutation so no partial state can be committed.
	ErrUpstream = errors.New("embedding provider unavailable")
)
