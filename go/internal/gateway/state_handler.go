package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/mcdev12/turnclock/go/internal/intent"
	"github.com/mcdev12/turnclock/go/internal/roster"
	"github.com/mcdev12/turnclock/go/internal/turn"
	"github.com/rs/zerolog/log"
)

const maxIntentBodySize = 4096

// StateProvider interface defines what the REST handlers need
type StateProvider interface {
	Dispatch(ctx context.Context, in intent.Intent) (turn.State, error)
	State(ctx context.Context) (turn.State, error)
}

// ErrorResponse is the body of a failed REST call
type ErrorResponse struct {
	Error string `json:"error"`
}

// StateHandler handles HTTP requests for table state
type StateHandler struct {
	stateProvider StateProvider
	timeout       time.Duration
}

// NewStateHandler creates a new state handler
func NewStateHandler(provider StateProvider, timeout time.Duration) *StateHandler {
	return &StateHandler{
		stateProvider: provider,
		timeout:       timeout,
	}
}

// HandleGetState handles GET /api/state
func (h *StateHandler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	state, err := h.stateProvider.State(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to get table state")
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, NewTableState(state))
}

// HandlePostIntent handles POST /api/intents
func (h *StateHandler) HandlePostIntent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxIntentBodySize))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "request body too large"})
		return
	}
	in, err := intent.Decode(body)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
		return
	}
	// Keys belong to mounted views, which REST callers are not.
	if _, ok := in.(intent.KeyPress); ok {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: "key events require a websocket view"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	state, err := h.stateProvider.Dispatch(ctx, in)
	if err != nil {
		writeJSON(w, StatusForError(err), ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, NewTableState(state))
}

// StatusForError maps machine and roster errors to HTTP status codes
func StatusForError(err error) int {
	switch {
	case errors.Is(err, turn.ErrSessionRunning),
		errors.Is(err, turn.ErrNotActive),
		errors.Is(err, turn.ErrNotRunning):
		return http.StatusConflict
	case errors.Is(err, turn.ErrNoNamedPlayers),
		errors.Is(err, roster.ErrRosterFull),
		errors.Is(err, roster.ErrLastPlayer),
		errors.Is(err, roster.ErrPlayerNotFound),
		errors.Is(err, roster.ErrInvalidOrder):
		return http.StatusUnprocessableEntity
	case errors.Is(err, turn.ErrStopped),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RegisterStateRoutes registers state-related HTTP routes
func (h *StateHandler) RegisterStateRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/state", h.HandleGetState)
	mux.HandleFunc("/api/intents", h.HandlePostIntent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
