package turn

import "errors"

var (
	// ErrNoNamedPlayers is returned by start when every name is blank.
	ErrNoNamedPlayers = errors.New("please enter at least one player name")
	ErrSessionRunning = errors.New("session is running")
	ErrNotActive      = errors.New("no active turn")
	ErrNotRunning     = errors.New("no session is running")

	// ErrStopped is returned to callers once the machine loop has exited.
	ErrStopped        = errors.New("turn machine stopped")
	ErrAlreadyRunning = errors.New("turn machine already running")
)
