package events

import (
	"time"
)

// Event payload types published on the table feed

// PlayerSummary is a player as seen by feed consumers
type PlayerSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Time int    `json:"time"`
}

// SessionStartedPayload is the payload for a SessionStarted event
type SessionStartedPayload struct {
	Players   []PlayerSummary `json:"players"`
	StartedAt time.Time       `json:"started_at"`
}

// TurnEndedPayload is the payload for a TurnEnded event
type TurnEndedPayload struct {
	PlayerID        string    `json:"player_id"`
	PlayerName      string    `json:"player_name"`
	PlayerTime      int       `json:"player_time"`
	NextPlayerID    string    `json:"next_player_id"`
	NextPlayerName  string    `json:"next_player_name"`
	NextPlayerIndex int       `json:"next_player_index"`
	EndedAt         time.Time `json:"ended_at"`
}

// SessionPausedPayload is the payload for a SessionPaused event
type SessionPausedPayload struct {
	CurrentPlayerID string    `json:"current_player_id"`
	PausedAt        time.Time `json:"paused_at"`
}

// SessionResumedPayload is the payload for a SessionResumed event
type SessionResumedPayload struct {
	CurrentPlayerID string    `json:"current_player_id"`
	ResumedAt       time.Time `json:"resumed_at"`
}

// SessionEndedPayload is the payload for a SessionEnded event
type SessionEndedPayload struct {
	Players []PlayerSummary `json:"players"`
	EndedAt time.Time       `json:"ended_at"`
}
