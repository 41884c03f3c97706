package ws_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahesenov7-ai/paysphate.demo/internal/domain/service"
	"github.com/ahesenov7-ai/paysphate.demo/internal/infrastructure/random"
	"github.com/ahesenov7-ai/paysphate.demo/internal/infrastructure/scheduler"
	"github.com/ahesenov7-ai/paysphate.demo/internal/infrastructure/session"
	"github.com/ahesenov7-ai/paysphate.demo/internal/presentation/ws"
	"github.com/ahesenov7-ai/paysphate.demo/pkg/testutil"
)

type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type fixture struct {
	server   *httptest.Server
	loop     *scheduler.Loop
	clock    *scheduler.ManualScheduler
	registry *session.Registry
}

// newFixture serves the stream from a running loop. The manual clock and the
// registry are only touched inside loop.Call.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithRunner(t, nil)
}

// newFixtureWithRunner wraps the loop in the runner built by wrap, if any.
func newFixtureWithRunner(t *testing.T, wrap func(*scheduler.Loop) session.Runner) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx, cancel := context.WithCancel(context.Background())
	loop := scheduler.NewLoop(0, logger)
	go loop.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-loop.Done()
	})

	clock := scheduler.NewManualScheduler()
	registry := session.NewRegistry(session.Dependencies{
		Scorer:    service.NewRiskScorer(),
		Scheduler: clock,
		Random:    random.Fixed(0),
		Publisher: &testutil.EventRecorder{},
		Logger:    logger,
	})

	var runner session.Runner = loop
	if wrap != nil {
		runner = wrap(loop)
	}
	mux := http.NewServeMux()
	ws.NewHandler(registry, runner, logger).RegisterRoutes(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &fixture{server: server, loop: loop, clock: clock, registry: registry}
}

func (f *fixture) call(t *testing.T, fn func()) {
	t.Helper()
	require.NoError(t, f.loop.Call(context.Background(), fn))
}

func (f *fixture) createSession(t *testing.T) *session.Session {
	t.Helper()
	var (
		s   *session.Session
		err error
	)
	f.call(t, func() { s, err = f.registry.Create() })
	require.NoError(t, err)
	return s
}

func (f *fixture) dial(t *testing.T, id string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/api/v1/sessions/" + id + "/stream"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var env envelope
	require.NoError(t, conn.ReadJSON(&env))
	return env
}

func TestStream_SnapshotThenDemoViews(t *testing.T) {
	f := newFixture(t)
	s := f.createSession(t)

	conn := f.dial(t, s.ID().String())

	first := read(t, conn)
	assert.Equal(t, string(session.EventSnapshot), first.Type)
	var page session.PageState
	require.NoError(t, json.Unmarshal(first.Data, &page))
	assert.Equal(t, s.ID().String(), page.ID)
	assert.Equal(t, "awaiting_submission", page.Demo.Stage)

	var submitErr error
	f.call(t, func() { submitErr = s.Submit(testutil.ScenarioB()) })
	require.NoError(t, submitErr)

	env := read(t, conn)
	assert.Equal(t, string(session.EventDemoView), env.Type)
	assert.Contains(t, string(env.Data), `"stage":"loading"`)

	f.call(t, func() { f.clock.Advance(1500 * time.Millisecond) })

	env = read(t, conn)
	assert.Equal(t, string(session.EventDemoView), env.Type)
	assert.Contains(t, string(env.Data), `"stage":"analyzing_risk"`)
}

func TestStream_SessionDeleteClosesStream(t *testing.T) {
	f := newFixture(t)
	s := f.createSession(t)
	conn := f.dial(t, s.ID().String())
	read(t, conn)

	var delErr error
	f.call(t, func() { delErr = f.registry.Delete(s.ID()) })
	require.NoError(t, delErr)

	assert.Equal(t, string(session.EventSessionClosed), read(t, conn).Type)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}

func TestStream_ClientDisconnectUnsubscribes(t *testing.T) {
	f := newFixture(t)
	s := f.createSession(t)
	conn := f.dial(t, s.ID().String())
	read(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))

	assert.Eventually(t, func() bool {
		subscribers := -1
		_ = f.loop.Call(context.Background(), func() { subscribers = s.Hub().Len() })
		return subscribers == 0
	}, 5*time.Second, 10*time.Millisecond)
}

func TestStream_UnknownSession(t *testing.T) {
	f := newFixture(t)

	for _, id := range []string{"nope", testutil.TestSessionID1.String()} {
		url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/api/v1/sessions/" + id + "/stream"
		_, resp, err := websocket.DefaultDialer.Dial(url, nil)
		require.ErrorIs(t, err, websocket.ErrBadHandshake)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp.Body.Close()
	}
}

func TestStream_RejectsCrossOrigin(t *testing.T) {
	f := newFixture(t)
	s := f.createSession(t)

	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/api/v1/sessions/" + s.ID().String() + "/stream"
	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://evil.example"}})
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

// abandoningRunner lets its first task finish on the loop but reports the
// caller's deadline as expired, as Loop.Call does when the two race.
type abandoningRunner struct {
	loop  *scheduler.Loop
	calls atomic.Int32
}

func (r *abandoningRunner) Call(ctx context.Context, fn func()) error {
	if err := r.loop.Call(ctx, fn); err != nil {
		return err
	}
	if r.calls.Add(1) == 1 {
		return context.DeadlineExceeded
	}
	return nil
}

func TestStream_AbandonedSubscribeIsReleased(t *testing.T) {
	f := newFixtureWithRunner(t, func(loop *scheduler.Loop) session.Runner {
		return &abandoningRunner{loop: loop}
	})
	s := f.createSession(t)

	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/api/v1/sessions/" + s.ID().String() + "/stream"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	resp.Body.Close()

	subscribers := -1
	f.call(t, func() { subscribers = s.Hub().Len() })
	assert.Zero(t, subscribers)
}
