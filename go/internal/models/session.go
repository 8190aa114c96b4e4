package models

// Session is the persisted shape of an active run of turn-taking.
type Session struct {
	Players            Roster `json:"players"`
	CurrentPlayerIndex int    `json:"currentPlayerIndex"`
	IsRunning          bool   `json:"isRunning"`
	IsPaused           bool   `json:"isPaused"`
}
