package metrics

import (
	"context"

	"github.com/ahesenov7-ai/paysphate.demo/internal/domain/event"
	"github.com/ahesenov7-ai/paysphate.demo/internal/domain/port"
	"github.com/ahesenov7-ai/paysphate.demo/pkg/events"
)

// InstrumentedPublisher derives demo metrics from the domain events flowing
// to the wrapped publisher.
type InstrumentedPublisher struct {
	next port.EventPublisher
}

// NewInstrumentedPublisher wraps next.
func NewInstrumentedPublisher(next port.EventPublisher) *InstrumentedPublisher {
	return &InstrumentedPublisher{next: next}
}

// Publish observes evts and forwards them.
func (p *InstrumentedPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	for _, evt := range evts {
		switch e := evt.(type) {
		case event.AssessmentCompleted:
			DecisionsTotal.WithLabelValues(e.Outcome).Inc()
			RiskScore.Observe(float64(e.Score))
		case event.CycleReset:
			CycleResetsTotal.WithLabelValues(e.FromStage).Inc()
		}
	}

	err := p.next.Publish(ctx, evts...)
	result := "ok"
	if err != nil {
		result = "error"
	}
	for _, evt := range evts {
		EventsPublishedTotal.WithLabelValues(evt.EventType(), result).Inc()
	}
	return err
}
