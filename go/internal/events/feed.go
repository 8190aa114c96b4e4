// Package events publishes session transitions to an external feed. The
// feed is read-only: nothing it publishes flows back into the machine.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/turnclock/go/internal/models"
	"github.com/mcdev12/turnclock/go/internal/turn"
	"github.com/rs/zerolog/log"
)

const (
	DefaultQueueSize      = 64
	DefaultPublishTimeout = 5 * time.Second
)

// Feed is a turn.Observer that queues transitions and publishes them from
// its own worker goroutine.
type Feed struct {
	pub     Publisher
	queue   chan Event
	timeout time.Duration

	published atomic.Uint64
	lastEvent atomic.Int64 // unix nanos of the last published event
	dropped   atomic.Int64
}

// NewFeed creates a feed with a bounded queue.
func NewFeed(pub Publisher, queueSize int) *Feed {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Feed{
		pub:     pub,
		queue:   make(chan Event, queueSize),
		timeout: DefaultPublishTimeout,
	}
}

// Observe converts a change to an event and queues it. Ticks and roster
// edits are not published. It never blocks.
func (f *Feed) Observe(c turn.Change) {
	event, ok, err := FromChange(c)
	if err != nil {
		log.Error().Err(err).Str("kind", string(c.Kind)).Msg("failed to build feed event")
		return
	}
	if !ok {
		return
	}
	select {
	case f.queue <- event:
	default:
		f.dropped.Add(1)
		log.Warn().Str("event_type", event.Type).Msg("feed queue full, dropping event")
	}
}

// Dropped returns how many events were discarded because the queue was full.
func (f *Feed) Dropped() int64 {
	return f.dropped.Load()
}

// Run publishes queued events until ctx is cancelled.
func (f *Feed) Run(ctx context.Context) {
	log.Info().Int("queue_size", cap(f.queue)).Msg("event feed started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("event feed shutting down")
			return
		case event := <-f.queue:
			f.publish(ctx, event)
		}
	}
}

func (f *Feed) publish(ctx context.Context, event Event) {
	pubCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	if err := f.pub.Publish(pubCtx, event); err != nil {
		log.Error().
			Err(err).
			Str("event_type", event.Type).
			Str("event_id", event.ID.String()).
			Msg("failed to publish feed event")
		return
	}
	f.published.Add(1)
	f.lastEvent.Store(time.Now().UnixNano())
}

// Stats returns the number of published events and when the last one went out.
func (f *Feed) Stats() (uint64, time.Time) {
	var last time.Time
	if ns := f.lastEvent.Load(); ns > 0 {
		last = time.Unix(0, ns)
	}
	return f.published.Load(), last
}

// FromChange maps a machine change to a feed event. ok is false for
// changes that are not published.
func FromChange(c turn.Change) (Event, bool, error) {
	s := c.State
	var (
		eventType string
		payload   any
	)
	switch c.Kind {
	case turn.ChangeSessionStarted:
		eventType = TypeSessionStarted
		payload = SessionStartedPayload{Players: summarize(s.Players), StartedAt: c.At}
	case turn.ChangeTurnEnded:
		n := len(s.Players)
		if n == 0 {
			return Event{}, false, nil
		}
		ended := s.Players[(s.CurrentPlayerIndex-1+n)%n]
		next := s.Players[s.CurrentPlayerIndex]
		eventType = TypeTurnEnded
		payload = TurnEndedPayload{
			PlayerID:        ended.ID,
			PlayerName:      ended.Name,
			PlayerTime:      ended.Time,
			NextPlayerID:    next.ID,
			NextPlayerName:  next.Name,
			NextPlayerIndex: s.CurrentPlayerIndex,
			EndedAt:         c.At,
		}
	case turn.ChangePaused:
		eventType = TypeSessionPaused
		payload = SessionPausedPayload{CurrentPlayerID: currentID(s), PausedAt: c.At}
	case turn.ChangeResumed:
		eventType = TypeSessionResumed
		payload = SessionResumedPayload{CurrentPlayerID: currentID(s), ResumedAt: c.At}
	case turn.ChangeSessionEnded:
		eventType = TypeSessionEnded
		payload = SessionEndedPayload{Players: summarize(s.Players), EndedAt: c.At}
	default:
		return Event{}, false, nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, false, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   data,
		CreatedAt: c.At,
	}, true, nil
}

func summarize(r models.Roster) []PlayerSummary {
	out := make([]PlayerSummary, len(r))
	for i, p := range r {
		out[i] = PlayerSummary{ID: p.ID, Name: p.Name, Time: p.Time}
	}
	return out
}

func currentID(s turn.State) string {
	if p, ok := s.Current(); ok {
		return p.ID
	}
	return ""
}
