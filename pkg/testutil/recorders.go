package testutil

import (
	"context"
	"sync"

	"github.com/ahesenov7-ai/paysphate.demo/internal/application/sequencer"
	"github.com/ahesenov7-ai/paysphate.demo/pkg/events"
)

// ViewRecorder is a sequencer.Renderer that keeps every view.
type ViewRecorder struct {
	mu    sync.Mutex
	views []sequencer.View
}

// Render implements sequencer.Renderer.
func (r *ViewRecorder) Render(v sequencer.View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views = append(r.views, v)
}

// Views returns a copy of the recorded views.
func (r *ViewRecorder) Views() []sequencer.View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sequencer.View(nil), r.views...)
}

// Last returns the most recent view, or the zero View.
func (r *ViewRecorder) Last() sequencer.View {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.views) == 0 {
		return sequencer.View{}
	}
	return r.views[len(r.views)-1]
}

// Len returns the number of recorded views.
func (r *ViewRecorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// EventRecorder is an event publisher that keeps every event. Err, when set,
// is returned from Publish after recording.
type EventRecorder struct {
	mu     sync.Mutex
	events []events.DomainEvent
	Err    error
}

// Publish records evts.
func (r *EventRecorder) Publish(_ context.Context, evts ...events.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evts...)
	return r.Err
}

// Events returns a copy of the recorded events.
func (r *EventRecorder) Events() []events.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.DomainEvent(nil), r.events...)
}

// Types returns the event types in publish order.
func (r *EventRecorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, len(r.events))
	for i, e := range r.events {
		types[i] = e.EventType()
	}
	return types
}
