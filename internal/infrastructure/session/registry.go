// Package session keeps the in-memory demo sessions served over HTTP,
// WebSocket and the CLI.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ahesenov7-ai/paysphate.demo/internal/application/sequencer"
	"github.com/ahesenov7-ai/paysphate.demo/internal/domain/port"
	"github.com/ahesenov7-ai/paysphate.demo/internal/domain/service"
	"github.com/ahesenov7-ai/paysphate.demo/internal/infrastructure/metrics"
	"github.com/ahesenov7-ai/paysphate.demo/internal/widget/chat"
	"github.com/ahesenov7-ai/paysphate.demo/internal/widget/feedback"
	"github.com/ahesenov7-ai/paysphate.demo/internal/widget/nav"
	"github.com/ahesenov7-ai/paysphate.demo/internal/widget/reveal"
	"github.com/ahesenov7-ai/paysphate.demo/internal/widget/toggle"
)

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// DefaultTTL is how long an untouched session lives.
const DefaultTTL = 30 * time.Minute

// Dependencies are shared by every session.
type Dependencies struct {
	Scorer    service.Scorer
	Scheduler port.Scheduler
	Random    port.RandomSource
	Publisher port.EventPublisher
	Timings   sequencer.Timings
	Logger    *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(r *Registry) { r.ttl = ttl }
}

// WithClock sets the clock used for expiry.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// Registry owns the live sessions. It is confined to the scheduler's
// thread like the sessions themselves.
type Registry struct {
	deps     Dependencies
	ttl      time.Duration
	now      func() time.Time
	sessions map[uuid.UUID]*Session
}

// NewRegistry creates an empty registry.
func NewRegistry(deps Dependencies, opts ...Option) *Registry {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Timings == (sequencer.Timings{}) {
		deps.Timings = sequencer.DefaultTimings()
	}
	r := &Registry{
		deps:     deps,
		ttl:      DefaultTTL,
		now:      time.Now,
		sessions: make(map[uuid.UUID]*Session),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create opens a new session showing the payment form.
func (r *Registry) Create() (*Session, error) {
	now := r.now()
	hub := NewBroadcaster()
	s := &Session{
		id:        uuid.New(),
		createdAt: now.UTC(),
		lastSeen:  now,
		useCase:   toggle.NewDefault(),
		nav:       nav.New(nil),
		hub:       hub,
	}
	logger := r.deps.Logger.With("session_id", s.id)

	s.demo = sequencer.New(r.deps.Scorer, r.deps.Scheduler, r.deps.Random,
		sequencer.RendererFunc(func(v sequencer.View) { hub.Publish(EventDemoView, v) }),
		sequencer.WithTimings(r.deps.Timings),
		sequencer.WithLogger(logger),
		sequencer.WithPublisher(r.deps.Publisher),
	)
	s.chat = chat.New(r.deps.Scheduler, r.deps.Random,
		chat.WithListener(func(st chat.State) { hub.Publish(EventChat, st) }))
	s.reveal = reveal.New(r.deps.Scheduler,
		reveal.WithListener(func(id string) { hub.Publish(EventReveal, map[string]string{"id": id}) }))
	s.feedback = feedback.New(r.deps.Scheduler,
		feedback.WithListener(func(st feedback.State) { hub.Publish(EventFeedback, st) }))

	if err := s.demo.Open(); err != nil {
		return nil, fmt.Errorf("failed to open demo: %w", err)
	}

	r.sessions[s.id] = s
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
	logger.Info("session created")
	return s, nil
}

// Get returns a live session and marks it as used.
func (r *Registry) Get(id uuid.UUID) (*Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	s.lastSeen = r.now()
	return s, nil
}

// Delete closes and removes a session.
func (r *Registry) Delete(id uuid.UUID) error {
	s, ok := r.sessions[id]
	if !ok {
		return ErrNotFound
	}
	r.remove(s)
	r.deps.Logger.Info("session deleted", "session_id", id)
	return nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	return len(r.sessions)
}

// Sweep removes sessions idle for longer than the TTL and returns how many
// were removed. Sessions with realtime subscribers are kept.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.ttl)
	removed := 0
	for _, s := range r.sessions {
		if s.lastSeen.Before(cutoff) && s.hub.Len() == 0 {
			r.remove(s)
			removed++
		}
	}
	if removed > 0 {
		r.deps.Logger.Info("expired sessions swept", "removed", removed, "remaining", len(r.sessions))
	}
	return removed
}

// CloseAll removes every session.
func (r *Registry) CloseAll() {
	for _, s := range r.sessions {
		r.remove(s)
	}
}

func (r *Registry) remove(s *Session) {
	s.close()
	delete(r.sessions, s.id)
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
}

// Runner executes functions on the registry's thread.
type Runner interface {
	Call(ctx context.Context, fn func()) error
}

// SweepEvery runs Sweep on runner at the given interval until ctx is done.
func (r *Registry) SweepEvery(ctx context.Context, runner Runner, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := runner.Call(ctx, func() { r.Sweep() }); err != nil && !errors.Is(err, context.Canceled) {
				r.deps.Logger.Warn("session sweep failed", "error", err)
			}
		}
	}
}
