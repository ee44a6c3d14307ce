// Package eventtest provides helpers for tests that observe an event.Bus.
package eventtest

import (
	"sync"

	"github.com/Iron-Ham/bcnf/internal/event"
)

// Recorder collects every event published on the buses it is attached to.
// It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []event.Event
}

// Attach subscribes the recorder to all events on b and returns the
// subscription ID.
func (r *Recorder) Attach(b *event.Bus) string {
	return b.SubscribeAll(r.record)
}

func (r *Recorder) record(e event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a snapshot of the recorded events in publish order.
func (r *Recorder) Events() []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]event.Event, len(r.events))
	copy(out, r.events)
	return out
}

// OfType returns the recorded events whose type is eventType.
func (r *Recorder) OfType(eventType string) []event.Event {
	var out []event.Event
	for _, e := range r.Events() {
		if e.EventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}
