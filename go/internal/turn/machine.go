// Package turn runs the turn timer: a single event loop that owns the
// session, applies intents and ticks, mirrors every change to storage and
// announces it to observers.
package turn

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/turnclock/go/internal/intent"
	"github.com/mcdev12/turnclock/go/internal/models"
	"github.com/mcdev12/turnclock/go/internal/snapshot"
	"github.com/rs/zerolog/log"
)

// DefaultTickPeriod is the interval between time increments.
const DefaultTickPeriod = time.Second

// TimePolicy decides what happens to accrued times when a session starts.
type TimePolicy string

const (
	// PolicyCarry keeps the times already on the roster.
	PolicyCarry TimePolicy = "carry"
	// PolicyReset zeroes every player's time.
	PolicyReset TimePolicy = "reset"
)

// ParseTimePolicy maps a config value to a policy. Empty means carry.
func ParseTimePolicy(s string) (TimePolicy, error) {
	switch TimePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyCarry:
		return PolicyCarry, nil
	case PolicyReset:
		return PolicyReset, nil
	default:
		return "", fmt.Errorf("unknown time policy: %q", s)
	}
}

// RosterApp defines what the machine needs from the roster store
type RosterApp interface {
	Load(ctx context.Context) models.Roster
	Save(ctx context.Context, r models.Roster)
	Add(ctx context.Context, r models.Roster) (models.Roster, error)
	Remove(ctx context.Context, r models.Roster, id string) (models.Roster, error)
	Rename(ctx context.Context, r models.Roster, id, name string) (models.Roster, error)
	Reorder(ctx context.Context, r models.Roster, order []string) (models.Roster, error)
}

// SessionRepository defines what the machine needs from session persistence
type SessionRepository interface {
	GetSession(ctx context.Context) (models.Session, bool, error)
	SaveSession(ctx context.Context, sess models.Session) error
	DeleteSession(ctx context.Context) error
}

// Options configures a Machine. Zero values select the defaults.
type Options struct {
	Clock      clockwork.Clock
	TickPeriod time.Duration
	Policy     TimePolicy
	EndTurnKey string
}

type request struct {
	intent intent.Intent // nil for a state query
	reply  chan response
}

type response struct {
	state State
	err   error
}

// Machine is the turn/timer state machine. All state is owned by the Run
// goroutine; other goroutines talk to it through Dispatch and State.
type Machine struct {
	roster   RosterApp
	sessions SessionRepository
	clock    clockwork.Clock
	period   time.Duration
	policy   TimePolicy
	key      string

	requests chan request
	done     chan struct{}
	started  atomic.Bool

	observersMu sync.RWMutex
	observers   map[int]Observer
	nextObsID   int

	// Owned by the Run goroutine.
	state  State
	ticker clockwork.Ticker
	tickCh <-chan time.Time
}

// NewMachine creates a machine. Call Run to start it.
func NewMachine(roster RosterApp, sessions SessionRepository, opts Options) *Machine {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.TickPeriod <= 0 {
		opts.TickPeriod = DefaultTickPeriod
	}
	if opts.Policy == "" {
		opts.Policy = PolicyCarry
	}
	if opts.EndTurnKey == "" {
		opts.EndTurnKey = intent.DefaultEndTurnKey
	}
	return &Machine{
		roster:    roster,
		sessions:  sessions,
		clock:     opts.Clock,
		period:    opts.TickPeriod,
		policy:    opts.Policy,
		key:       opts.EndTurnKey,
		requests:  make(chan request),
		done:      make(chan struct{}),
		observers: make(map[int]Observer),
	}
}

// Subscribe registers an observer and returns a function that removes it.
func (m *Machine) Subscribe(o Observer) func() {
	m.observersMu.Lock()
	id := m.nextObsID
	m.nextObsID++
	m.observers[id] = o
	m.observersMu.Unlock()

	return func() {
		m.observersMu.Lock()
		delete(m.observers, id)
		m.observersMu.Unlock()
	}
}

// Done is closed when Run returns.
func (m *Machine) Done() <-chan struct{} {
	return m.done
}

// Dispatch queues an intent and waits for the resulting state. Validation
// failures leave the state unchanged and are returned as errors.
func (m *Machine) Dispatch(ctx context.Context, in intent.Intent) (State, error) {
	if in == nil {
		return State{}, errors.New("nil intent")
	}
	return m.call(ctx, in)
}

// State returns a copy of the current state.
func (m *Machine) State(ctx context.Context) (State, error) {
	return m.call(ctx, nil)
}

func (m *Machine) call(ctx context.Context, in intent.Intent) (State, error) {
	req := request{intent: in, reply: make(chan response, 1)}
	select {
	case m.requests <- req:
	case <-m.done:
		return State{}, ErrStopped
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
	select {
	case resp := <-req.reply:
		return resp.state, resp.err
	case <-m.done:
		return State{}, ErrStopped
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

// Run rehydrates from storage and then serves intents and ticks until ctx
// is cancelled. The persisted session is left in place on exit so the next
// Run resumes it.
func (m *Machine) Run(ctx context.Context) error {
	if !m.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(m.done)
	defer m.releaseTicker()

	m.restore(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("turn machine shutdown requested")
			return nil
		case <-m.tickCh:
			m.tick(ctx)
		case req := <-m.requests:
			// A tick that was already pending happened before this request.
			m.drainTick(ctx)
			req.reply <- m.handle(ctx, req.intent)
		}
	}
}

func (m *Machine) restore(ctx context.Context) {
	sess, ok, err := m.sessions.GetSession(ctx)
	switch {
	case errors.Is(err, snapshot.ErrCorrupt):
		log.Warn().Err(err).Msg("discarding corrupt session snapshot")
		m.deleteSession(ctx)
	case err != nil:
		log.Error().Err(err).Msg("failed to load session")
	}

	if ok && sess.IsRunning {
		m.state = stateFromSession(sess)
		m.roster.Save(ctx, m.state.Players)
		if !m.state.IsPaused {
			m.acquireTicker()
		}
		log.Info().
			Int("players", len(m.state.Players)).
			Int("current_player_index", m.state.CurrentPlayerIndex).
			Bool("paused", m.state.IsPaused).
			Msg("resumed stored session")
	} else {
		m.state = State{Players: m.roster.Load(ctx)}
		log.Info().Int("players", len(m.state.Players)).Msg("loaded roster")
	}
	m.notify(ChangeRestored)
}

func (m *Machine) handle(ctx context.Context, in intent.Intent) response {
	var err error
	switch in := in.(type) {
	case nil:
	case intent.Start:
		err = m.start(ctx)
	case intent.EndTurn:
		err = m.endTurn(ctx)
	case intent.Pause:
		err = m.pause(ctx)
	case intent.Resume:
		err = m.resume(ctx)
	case intent.Back:
		m.back(ctx)
	case intent.KeyPress:
		if in.Code == m.key && m.state.Phase() == PhaseActive {
			err = m.endTurn(ctx)
		}
	case intent.AddPlayer:
		err = m.editRoster(func(r models.Roster) (models.Roster, error) {
			return m.roster.Add(ctx, r)
		})
	case intent.RemovePlayer:
		err = m.editRoster(func(r models.Roster) (models.Roster, error) {
			return m.roster.Remove(ctx, r, in.ID)
		})
	case intent.RenamePlayer:
		err = m.editRoster(func(r models.Roster) (models.Roster, error) {
			return m.roster.Rename(ctx, r, in.ID, in.Name)
		})
	case intent.ReorderPlayers:
		err = m.editRoster(func(r models.Roster) (models.Roster, error) {
			return m.roster.Reorder(ctx, r, in.Order)
		})
	default:
		err = fmt.Errorf("unsupported intent: %s", in.Kind())
	}
	return response{state: m.state.clone(), err: err}
}

func (m *Machine) start(ctx context.Context) error {
	if m.state.IsRunning {
		return ErrSessionRunning
	}
	if !m.state.Players.AnyNamed() {
		return ErrNoNamedPlayers
	}

	players := m.state.Players.Clone()
	if m.policy == PolicyReset {
		for i := range players {
			players[i].Time = 0
		}
	}
	m.state = State{Players: players, CurrentPlayerIndex: 0, IsRunning: true}
	m.acquireTicker()
	m.persist(ctx)

	log.Info().
		Int("players", len(players)).
		Str("policy", string(m.policy)).
		Msg("session started")
	m.notify(ChangeSessionStarted)
	return nil
}

func (m *Machine) tick(ctx context.Context) {
	if m.state.Phase() != PhaseActive {
		return
	}
	m.state.Players[m.state.CurrentPlayerIndex].Time++
	m.persist(ctx)
	m.notify(ChangeTicked)
}

func (m *Machine) drainTick(ctx context.Context) {
	if m.tickCh == nil {
		return
	}
	select {
	case <-m.tickCh:
		m.tick(ctx)
	default:
	}
}

func (m *Machine) endTurn(ctx context.Context) error {
	if m.state.Phase() != PhaseActive {
		return ErrNotActive
	}
	ended := m.state.CurrentPlayerIndex
	m.state.Players[ended].Time++
	m.state.CurrentPlayerIndex = (ended + 1) % len(m.state.Players)

	// The next player gets a full period before the first tick.
	m.releaseTicker()
	m.acquireTicker()
	m.persist(ctx)

	log.Info().
		Str("player_id", m.state.Players[ended].ID).
		Int("player_time", m.state.Players[ended].Time).
		Int("current_player_index", m.state.CurrentPlayerIndex).
		Msg("turn ended")
	m.notify(ChangeTurnEnded)
	return nil
}

func (m *Machine) pause(ctx context.Context) error {
	switch m.state.Phase() {
	case PhaseEditing:
		return ErrNotRunning
	case PhasePaused:
		return nil
	}
	m.releaseTicker()
	m.state.IsPaused = true
	m.persist(ctx)

	log.Info().Int("current_player_index", m.state.CurrentPlayerIndex).Msg("session paused")
	m.notify(ChangePaused)
	return nil
}

func (m *Machine) resume(ctx context.Context) error {
	switch m.state.Phase() {
	case PhaseEditing:
		return ErrNotRunning
	case PhaseActive:
		return nil
	}
	m.state.IsPaused = false
	m.acquireTicker()
	m.persist(ctx)

	log.Info().Int("current_player_index", m.state.CurrentPlayerIndex).Msg("session resumed")
	m.notify(ChangeResumed)
	return nil
}

func (m *Machine) back(ctx context.Context) {
	wasRunning := m.state.IsRunning
	m.releaseTicker()
	m.state.IsRunning = false
	m.state.IsPaused = false
	m.state.CurrentPlayerIndex = 0
	m.deleteSession(ctx)

	if !wasRunning {
		return
	}
	log.Info().Msg("session ended")
	m.notify(ChangeSessionEnded)
}

func (m *Machine) editRoster(edit func(models.Roster) (models.Roster, error)) error {
	if m.state.IsRunning {
		return ErrSessionRunning
	}
	r, err := edit(m.state.Players)
	if err != nil {
		return err
	}
	m.state.Players = r
	m.notify(ChangeRosterChanged)
	return nil
}

// persist mirrors the running session to both keys. Write failures are
// logged; the in-memory state stands.
func (m *Machine) persist(ctx context.Context) {
	if err := m.sessions.SaveSession(ctx, m.state.session()); err != nil {
		log.Error().Err(err).Msg("failed to persist session")
	}
	m.roster.Save(ctx, m.state.Players)
}

func (m *Machine) deleteSession(ctx context.Context) {
	if err := m.sessions.DeleteSession(ctx); err != nil {
		log.Error().Err(err).Msg("failed to remove session snapshot")
	}
}

func (m *Machine) acquireTicker() {
	if m.ticker != nil {
		return
	}
	m.ticker = m.clock.NewTicker(m.period)
	m.tickCh = m.ticker.Chan()
	log.Debug().Dur("period", m.period).Msg("ticker acquired")
}

// releaseTicker stops the ticker and drains any pending tick so nothing
// fires after the session leaves Active.
func (m *Machine) releaseTicker() {
	if m.ticker == nil {
		return
	}
	m.ticker.Stop()
	select {
	case <-m.tickCh:
	default:
	}
	m.ticker = nil
	m.tickCh = nil
	log.Debug().Msg("ticker released")
}

func (m *Machine) notify(kind ChangeKind) {
	c := Change{Kind: kind, State: m.state.clone(), At: m.clock.Now()}

	m.observersMu.RLock()
	defer m.observersMu.RUnlock()
	for _, o := range m.observers {
		o.Observe(c)
	}
}
