package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ahesenov7-ai/paysphate.demo/pkg/events"
)

// LogPublisher implements port.EventPublisher by writing events to the
// structured log. It is the sink when no broker is configured.
type LogPublisher struct {
	topic  string
	logger *slog.Logger
}

// NewLogPublisher creates a new log-backed event publisher.
func NewLogPublisher(topic string, logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{
		topic:  topic,
		logger: logger,
	}
}

// Publish logs each event with its JSON payload.
func (p *LogPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	for _, evt := range evts {
		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("failed to marshal event %s: %w", evt.EventType(), err)
		}

		p.logger.InfoContext(ctx, "publishing event",
			slog.String("event_type", evt.EventType()),
			slog.String("event_id", evt.EventID().String()),
			slog.String("aggregate_id", evt.AggregateID().String()),
			slog.String("topic", p.topic),
			slog.Int("payload_size", len(payload)),
		)
		p.logger.DebugContext(ctx, "event payload",
			slog.String("event_type", evt.EventType()),
			slog.String("payload", string(payload)),
		)
	}

	return nil
}
