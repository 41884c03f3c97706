package messaging

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/ahesenov7-ai/paysphate.demo/internal/domain/port"
	"github.com/ahesenov7-ai/paysphate.demo/pkg/events"
)

var (
	// ErrQueueFull is returned when a batch is dropped because the queue is full.
	ErrQueueFull = errors.New("event queue full")
	// ErrPublisherClosed is returned by Publish after Close.
	ErrPublisherClosed = errors.New("event publisher closed")
)

// AsyncPublisher queues batches for a background goroutine that forwards them
// to the wrapped publisher. Publish never waits on the sink.
type AsyncPublisher struct {
	next    port.EventPublisher
	timeout time.Duration
	logger  *slog.Logger

	mu     sync.Mutex
	closed bool
	queue  chan []events.DomainEvent
	done   chan struct{}
}

// NewAsyncPublisher starts the forwarding goroutine. Each forwarded batch gets
// its own timeout.
func NewAsyncPublisher(next port.EventPublisher, buffer int, timeout time.Duration, logger *slog.Logger) *AsyncPublisher {
	if buffer <= 0 {
		buffer = 256
	}
	if logger == nil {
		logger = slog.Default()
	}
	p := &AsyncPublisher{
		next:    next,
		timeout: timeout,
		logger:  logger,
		queue:   make(chan []events.DomainEvent, buffer),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

// Publish enqueues the batch and returns immediately.
func (p *AsyncPublisher) Publish(_ context.Context, evts ...events.DomainEvent) error {
	if len(evts) == 0 {
		return nil
	}
	batch := make([]events.DomainEvent, len(evts))
	copy(batch, evts)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPublisherClosed
	}
	select {
	case p.queue <- batch:
		return nil
	default:
		p.logger.Warn("dropping event batch", "count", len(batch))
		return ErrQueueFull
	}
}

// Close stops accepting batches and waits for queued ones to be forwarded or
// for ctx to end.
func (p *AsyncPublisher) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *AsyncPublisher) run() {
	defer close(p.done)
	for batch := range p.queue {
		p.forward(batch)
	}
}

func (p *AsyncPublisher) forward(batch []events.DomainEvent) {
	ctx := context.Background()
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	if err := p.next.Publish(ctx, batch...); err != nil {
		p.logger.Error("failed to forward event batch", "error", err, "count", len(batch))
	}
}
