package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types published on the feed.
const (
	TypeSessionStarted = "SessionStarted"
	TypeTurnEnded      = "TurnEnded"
	TypeSessionPaused  = "SessionPaused"
	TypeSessionResumed = "SessionResumed"
	TypeSessionEnded   = "SessionEnded"
)

type Event struct {
	ID        uuid.UUID
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
