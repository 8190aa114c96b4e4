package gateway

import (
	"encoding/json"
	"time"

	"github.com/mcdev12/turnclock/go/internal/turn"
)

// MessageType is the type of a message pushed to a view
type MessageType string

const (
	MessageTypeState MessageType = "state"
	MessageTypeError MessageType = "error"
)

// Message is the envelope for everything sent to a websocket view
type Message struct {
	Type      MessageType `json:"type"`
	Change    string      `json:"change,omitempty"` // Change kind for state messages
	State     *TableState `json:"state,omitempty"`
	Intent    string      `json:"intent,omitempty"` // Intent that failed for error messages
	Error     string      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// TableState is the view model of the machine state
type TableState struct {
	Phase              string       `json:"phase"`
	Players            []PlayerView `json:"players"`
	CurrentPlayerIndex int          `json:"currentPlayerIndex"`
	IsRunning          bool         `json:"isRunning"`
	IsPaused           bool         `json:"isPaused"`
	TurnOrder          []string     `json:"turnOrder"` // Player ids, current player first
}

// PlayerView is a player with its formatted clock
type PlayerView struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Time    int    `json:"time"`
	Display string `json:"display"`
}

// NewTableState builds the view model for a state
func NewTableState(s turn.State) *TableState {
	ts := &TableState{
		Phase:              string(s.Phase()),
		Players:            make([]PlayerView, len(s.Players)),
		CurrentPlayerIndex: s.CurrentPlayerIndex,
		IsRunning:          s.IsRunning,
		IsPaused:           s.IsPaused,
	}
	for i, p := range s.Players {
		ts.Players[i] = PlayerView{ID: p.ID, Name: p.Name, Time: p.Time, Display: turn.FormatTime(p.Time)}
	}
	for _, p := range s.TurnOrder() {
		ts.TurnOrder = append(ts.TurnOrder, p.ID)
	}
	return ts
}

func stateMessage(kind turn.ChangeKind, s turn.State, at time.Time) ([]byte, error) {
	return json.Marshal(Message{
		Type:      MessageTypeState,
		Change:    string(kind),
		State:     NewTableState(s),
		Timestamp: at,
	})
}

func errorMessage(intentType string, err error) ([]byte, error) {
	return json.Marshal(Message{
		Type:      MessageTypeError,
		Intent:    intentType,
		Error:     err.Error(),
		Timestamp: time.Now().UTC(),
	})
}
