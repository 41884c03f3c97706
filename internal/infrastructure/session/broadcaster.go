package session

import (
	"sync"
	"time"
)

// EventType names a realtime envelope.
type EventType string

const (
	EventSnapshot      EventType = "snapshot"
	EventDemoView      EventType = "demo_view"
	EventUseCase       EventType = "use_case"
	EventNav           EventType = "nav"
	EventChat          EventType = "chat"
	EventReveal        EventType = "reveal"
	EventFeedback      EventType = "feedback"
	EventSessionClosed EventType = "session_closed"
)

// Envelope is one realtime update.
type Envelope struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// Subscriber receives envelopes on C until it is closed. C is closed when
// the subscriber falls behind, unsubscribes or the broadcaster closes.
type Subscriber struct {
	C  <-chan Envelope
	ch chan Envelope
}

// Broadcaster fans envelopes out to subscribers. Slow subscribers are dropped
// rather than blocking the publisher.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[*Subscriber]struct{}
	closed bool
	now    func() time.Time
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[*Subscriber]struct{}), now: time.Now}
}

// Subscribe registers a subscriber with the given buffer. Subscribing to a
// closed broadcaster returns an already closed subscriber.
func (b *Broadcaster) Subscribe(buffer int) *Subscriber {
	if buffer <= 0 {
		buffer = 64
	}
	ch := make(chan Envelope, buffer)
	s := &Subscriber{C: ch, ch: ch}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return s
	}
	b.subs[s] = struct{}{}
	return s
}

// Unsubscribe removes s and closes its channel. It is safe to call more
// than once.
func (b *Broadcaster) Unsubscribe(s *Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[s]; ok {
		delete(b.subs, s)
		close(s.ch)
	}
}

// Publish delivers an envelope to every subscriber.
func (b *Broadcaster) Publish(t EventType, data any) {
	env := Envelope{Type: t, Timestamp: b.now().UTC(), Data: data}

	b.mu.Lock()
	defer b.mu.Unlock()
	for s := range b.subs {
		select {
		case s.ch <- env:
		default:
			delete(b.subs, s)
			close(s.ch)
		}
	}
}

// Len returns the number of subscribers.
func (b *Broadcaster) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close sends a final session_closed envelope where buffers allow and closes
// every subscriber.
func (b *Broadcaster) Close() {
	env := Envelope{Type: EventSessionClosed, Timestamp: b.now().UTC()}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for s := range b.subs {
		select {
		case s.ch <- env:
		default:
		}
		delete(b.subs, s)
		close(s.ch)
	}
}
