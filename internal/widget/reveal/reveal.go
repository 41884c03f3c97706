// Package reveal activates page sections once each as they scroll into view.
package reveal

import (
	"encoding/json"
	"time"

	"github.com/ahesenov7-ai/paysphate.demo/internal/domain/port"
)

// DefaultStagger separates activations within one batch.
const DefaultStagger = 100 * time.Millisecond

// Plan is the scheduled activation of one element.
type Plan struct {
	ID    string
	Delay time.Duration
}

// MarshalJSON renders the delay in milliseconds.
func (p Plan) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID      string `json:"id"`
		DelayMs int64  `json:"delayMs"`
	}{ID: p.ID, DelayMs: p.Delay.Milliseconds()})
}

// Reveal tracks which elements have been activated.
type Reveal struct {
	scheduler  port.Scheduler
	stagger    time.Duration
	onActivate func(id string)

	activated []string
	seen      map[string]bool
	pending   map[string]port.Handle
}

// Option configures a Reveal.
type Option func(*Reveal)

// WithStagger overrides DefaultStagger.
func WithStagger(d time.Duration) Option {
	return func(r *Reveal) { r.stagger = d }
}

// WithListener registers fn to receive each activated element id.
func WithListener(fn func(id string)) Option {
	return func(r *Reveal) { r.onActivate = fn }
}

// New creates a tracker with nothing activated.
func New(scheduler port.Scheduler, opts ...Option) *Reveal {
	r := &Reveal{
		scheduler: scheduler,
		stagger:   DefaultStagger,
		seen:      make(map[string]bool),
		pending:   make(map[string]port.Handle),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Observe reports elements that entered the viewport. Elements already
// activated or scheduled are skipped; the rest are staggered by their index
// within this batch.
func (r *Reveal) Observe(visible []string) []Plan {
	plans := make([]Plan, 0, len(visible))
	for _, id := range visible {
		if id == "" || r.seen[id] {
			continue
		}
		r.seen[id] = true

		delay := time.Duration(len(plans)) * r.stagger
		plans = append(plans, Plan{ID: id, Delay: delay})
		elem := id
		r.pending[elem] = r.scheduler.Schedule(delay, func() { r.activate(elem) })
	}
	return plans
}

// Activated returns the element ids in activation order.
func (r *Reveal) Activated() []string {
	return append([]string{}, r.activated...)
}

// Stop cancels every scheduled activation.
func (r *Reveal) Stop() {
	for id, h := range r.pending {
		h.Cancel()
		delete(r.pending, id)
	}
}

func (r *Reveal) activate(id string) {
	if _, ok := r.pending[id]; !ok {
		return
	}
	delete(r.pending, id)
	r.activated = append(r.activated, id)
	if r.onActivate != nil {
		r.onActivate(id)
	}
}
