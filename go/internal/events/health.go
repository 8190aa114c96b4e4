package events

import (
	"fmt"
	"time"
)

type HealthStatus struct {
	Healthy         bool      `json:"healthy"`
	NATSConnected   bool      `json:"nats_connected"`
	EventsPublished uint64    `json:"events_published"`
	EventsDropped   int64     `json:"events_dropped"`
	PendingEvents   int       `json:"pending_events"`
	LastEventTime   time.Time `json:"last_event_time"`
	Errors          []string  `json:"errors"`
}

// connectionChecker is implemented by publishers that hold a connection.
type connectionChecker interface {
	IsConnected() bool
}

// IsConnected reports whether the NATS connection is up.
func (p *JetStreamPublisher) IsConnected() bool {
	return p.nc != nil && p.nc.IsConnected()
}

// Check reports the feed's health. A disconnected publisher or a backlog
// above threshold marks it unhealthy.
func (f *Feed) Check() HealthStatus {
	status := HealthStatus{
		Healthy:       true,
		NATSConnected: true,
		EventsDropped: f.Dropped(),
		PendingEvents: len(f.queue),
		Errors:        []string{},
	}
	status.EventsPublished, status.LastEventTime = f.Stats()

	if cc, ok := f.pub.(connectionChecker); ok && !cc.IsConnected() {
		status.NATSConnected = false
		status.Healthy = false
		status.Errors = append(status.Errors, "NATS disconnected")
	}

	if threshold := cap(f.queue) * 3 / 4; status.PendingEvents > threshold {
		status.Healthy = false
		status.Errors = append(status.Errors, fmt.Sprintf("feed backlog: %d events pending", status.PendingEvents))
	}
	return status
}
