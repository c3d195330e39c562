package domain

// Status represents the lifecycle state of a session
type Status string

const (
	StatusLobby         Status = "lobby"          // Waiting for players to join
	StatusThemeVote     Status = "theme_vote"     // Players voting on the theme
	StatusWordSelection Status = "word_selection" // Players picking secret words from their pools
	StatusPlaying       Status = "playing"        // Turn-based guessing in progress
	StatusFinished      Status = "finished"       // Game over, winner recorded
)

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if a transition from the current status to the target is valid
func (s Status) CanTransitionTo(target Status) bool {
	validTransitions := map[Status][]Status{
		StatusLobby:         {StatusThemeVote, StatusWordSelection},
		StatusThemeVote:     {StatusWordSelection},
		StatusWordSelection: {StatusPlaying},
		StatusPlaying:       {StatusFinished},
		StatusFinished:      {},
	}

	allowed, ok := validTransitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}
