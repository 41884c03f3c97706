package port

import (
	"context"
	"time"

	"github.com/ahesenov7-ai/paysphate.demo/pkg/events"
)

// Handle refers to a callback registered with a Scheduler.
type Handle interface {
	// Cancel prevents the callback from running. It reports whether the
	// callback was still pending; cancelling twice is a no-op.
	Cancel() bool
}

// Scheduler runs deferred callbacks. Implementations must run every callback
// on the same logical thread that owns the state the callback touches.
type Scheduler interface {
	// Schedule arranges for fn to run once after delay.
	Schedule(delay time.Duration, fn func()) Handle
}

// RandomSource supplies uniformly distributed integers.
type RandomSource interface {
	// IntN returns a value in [0, n). It panics if n <= 0.
	IntN(n int) int
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	// Publish sends one or more domain events to the messaging infrastructure.
	Publish(ctx context.Context, evts ...events.DomainEvent) error
}
