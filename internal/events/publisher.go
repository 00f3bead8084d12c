// Package events publishes committed ticket changes.
package events

import (
	"context"
	"sync"

	"github.com/GeorgeJbara/prod-comp-assistant/internal/domain"
)

// Publisher sends ticket events downstream.
type Publisher interface {
	Publish(ctx context.Context, event domain.TicketEvent) error
	Close() error
}

// Noop discards every event. It is used when no brokers are configured.
type Noop struct{}

func (Noop) Publish(context.Context, domain.TicketEvent) error { return nil }
func (Noop) Close() error                                      { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []domain.TicketEvent
	Err    error
}

// Publish records event, or returns Err when set.
func (r *Recorder) Publish(_ context.Context, event domain.TicketEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, event)
	return nil
}

// Close implements Publisher.
func (r *Recorder) Close() error { return nil }

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []domain.TicketEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.TicketEvent(nil), r.events...)
}
