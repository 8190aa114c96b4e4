// Package gateway serves websocket and REST views of the turn table.
package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/mcdev12/turnclock/go/internal/intent"
	"github.com/mcdev12/turnclock/go/internal/turn"
	"github.com/rs/zerolog/log"
)

// Machine defines what the gateway needs from the turn machine
type Machine interface {
	Dispatch(ctx context.Context, in intent.Intent) (turn.State, error)
	State(ctx context.Context) (turn.State, error)
	Subscribe(o turn.Observer) func()
}

// Config holds configuration for the gateway service
type Config struct {
	ConnectionConfig ConnectionConfig
	DispatchTimeout  time.Duration
}

// DefaultConfig returns default configuration for the gateway
func DefaultConfig() Config {
	return Config{
		ConnectionConfig: DefaultConnectionConfig(),
		DispatchTimeout:  5 * time.Second,
	}
}

// Service connects websocket views to the turn machine. Every view gets the
// end-turn key bound while it is connected and receives a state message on
// every change.
type Service struct {
	machine           Machine
	keymap            *intent.Keymap
	config            Config
	connectionManager *ConnectionManager
	wsHandler         *WebSocketHandler
	stateHandler      *StateHandler
	unsubscribe       func()
}

// NewService creates the gateway and subscribes it to machine changes
func NewService(config Config, machine Machine, keymap *intent.Keymap) *Service {
	if config.DispatchTimeout <= 0 {
		config.DispatchTimeout = 5 * time.Second
	}
	s := &Service{
		machine: machine,
		keymap:  keymap,
		config:  config,
	}
	s.connectionManager = NewConnectionManager(config.ConnectionConfig, s)
	s.wsHandler = NewWebSocketHandler(s.connectionManager)
	s.stateHandler = NewStateHandler(machine, config.DispatchTimeout)
	s.unsubscribe = machine.Subscribe(s)
	return s
}

// Start runs the broadcast loop until ctx is cancelled
func (s *Service) Start(ctx context.Context) error {
	log.Info().Msg("starting gateway service")
	s.connectionManager.Start(ctx)
	return s.Stop()
}

// Stop detaches the gateway from the machine
func (s *Service) Stop() error {
	s.unsubscribe()
	log.Info().Msg("gateway service stopped")
	return nil
}

// RegisterRoutes registers the WebSocket and REST routes
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	s.wsHandler.RegisterRoutes(mux)
	s.stateHandler.RegisterStateRoutes(mux)
	log.Info().Msg("gateway routes registered")
}

// Observe broadcasts a state message. Called on the machine goroutine.
func (s *Service) Observe(c turn.Change) {
	data, err := stateMessage(c.Kind, c.State, c.At)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal state message")
		return
	}
	s.connectionManager.Broadcast(data)
}

// OnConnect binds the end-turn key for the view and sends it the current state
func (s *Service) OnConnect(c *Connection) {
	s.keymap.Bind(c.ID)

	ctx, cancel := context.WithTimeout(context.Background(), s.config.DispatchTimeout)
	defer cancel()
	state, err := s.machine.State(ctx)
	if err != nil {
		log.Error().Err(err).Str("connection_id", c.ID).Msg("failed to read state for new view")
		return
	}
	data, err := stateMessage("", state, time.Now().UTC())
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal state message")
		return
	}
	s.connectionManager.SendSnapshot(c, data)
}

// OnDisconnect removes the view's key binding
func (s *Service) OnDisconnect(c *Connection) {
	s.keymap.Unbind(c.ID)
}

// OnMessage decodes an intent from a view and dispatches it. Failures are
// reported to that view only.
func (s *Service) OnMessage(c *Connection, message []byte) {
	in, err := intent.Decode(message)
	if err != nil {
		s.sendError(c, "", err)
		return
	}

	if kp, ok := in.(intent.KeyPress); ok {
		translated, bound := s.keymap.Translate(c.ID, kp.Code)
		if !bound {
			log.Debug().Str("connection_id", c.ID).Str("code", kp.Code).Msg("ignoring unbound key")
			return
		}
		in = translated
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.config.DispatchTimeout)
	defer cancel()
	if _, err := s.machine.Dispatch(ctx, in); err != nil {
		log.Debug().
			Err(err).
			Str("connection_id", c.ID).
			Str("intent", string(in.Kind())).
			Msg("intent rejected")
		s.sendError(c, string(in.Kind()), err)
	}
}

func (s *Service) sendError(c *Connection, intentType string, err error) {
	data, merr := errorMessage(intentType, err)
	if merr != nil {
		log.Error().Err(merr).Msg("failed to marshal error message")
		return
	}
	s.connectionManager.SendTo(c, data)
}

// GetStats returns statistics about the gateway service
func (s *Service) GetStats() ConnectionStats {
	return s.connectionManager.GetConnectionStats()
}
