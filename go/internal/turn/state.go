package turn

import (
	"fmt"
	"time"

	"github.com/mcdev12/turnclock/go/internal/models"
)

// Phase is the coarse machine state.
type Phase string

const (
	PhaseEditing Phase = "editing"
	PhaseActive  Phase = "active"
	PhasePaused  Phase = "paused"
)

// State is a read-only copy of the machine state handed to callers and
// observers.
type State struct {
	Players            models.Roster `json:"players"`
	CurrentPlayerIndex int           `json:"currentPlayerIndex"`
	IsRunning          bool          `json:"isRunning"`
	IsPaused           bool          `json:"isPaused"`
}

// Phase derives the phase from the flags.
func (s State) Phase() Phase {
	switch {
	case !s.IsRunning:
		return PhaseEditing
	case s.IsPaused:
		return PhasePaused
	default:
		return PhaseActive
	}
}

// Current returns the player whose turn it is. ok is false in editing.
func (s State) Current() (models.Player, bool) {
	if !s.IsRunning || s.CurrentPlayerIndex < 0 || s.CurrentPlayerIndex >= len(s.Players) {
		return models.Player{}, false
	}
	return s.Players[s.CurrentPlayerIndex], true
}

// TurnOrder lists the players starting with the current one, followed by
// the players up next in rotation.
func (s State) TurnOrder() models.Roster {
	n := len(s.Players)
	order := make(models.Roster, 0, n)
	start := 0
	if s.IsRunning && n > 0 {
		start = s.CurrentPlayerIndex % n
	}
	for i := 0; i < n; i++ {
		order = append(order, s.Players[(start+i)%n])
	}
	return order
}

func (s State) clone() State {
	s.Players = s.Players.Clone()
	return s
}

func (s State) session() models.Session {
	return models.Session{
		Players:            s.Players.Clone(),
		CurrentPlayerIndex: s.CurrentPlayerIndex,
		IsRunning:          s.IsRunning,
		IsPaused:           s.IsPaused,
	}
}

func stateFromSession(sess models.Session) State {
	return State{
		Players:            sess.Players.Clone(),
		CurrentPlayerIndex: sess.CurrentPlayerIndex,
		IsRunning:          sess.IsRunning,
		IsPaused:           sess.IsPaused,
	}
}

// ChangeKind names the mutation that produced a Change.
type ChangeKind string

const (
	ChangeRestored       ChangeKind = "restored"
	ChangeRosterChanged  ChangeKind = "roster_changed"
	ChangeSessionStarted ChangeKind = "session_started"
	ChangeTicked         ChangeKind = "ticked"
	ChangeTurnEnded      ChangeKind = "turn_ended"
	ChangePaused         ChangeKind = "paused"
	ChangeResumed        ChangeKind = "resumed"
	ChangeSessionEnded   ChangeKind = "session_ended"
)

// Change is delivered to observers after every mutation.
type Change struct {
	Kind  ChangeKind
	State State
	At    time.Time
}

// Observer receives changes on the machine goroutine. Implementations must
// not block and must not call back into the machine.
type Observer interface {
	Observe(Change)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Change)

func (f ObserverFunc) Observe(c Change) { f(c) }

// FormatTime renders whole seconds as m:ss, or h:mm:ss from one hour up.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
