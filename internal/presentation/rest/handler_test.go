package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahesenov7-ai/paysphate.demo/internal/application/dto"
	"github.com/ahesenov7-ai/paysphate.demo/internal/application/sequencer"
	"github.com/ahesenov7-ai/paysphate.demo/internal/application/usecase"
	"github.com/ahesenov7-ai/paysphate.demo/internal/domain/service"
	"github.com/ahesenov7-ai/paysphate.demo/internal/infrastructure/random"
	"github.com/ahesenov7-ai/paysphate.demo/internal/infrastructure/scheduler"
	"github.com/ahesenov7-ai/paysphate.demo/internal/infrastructure/session"
	"github.com/ahesenov7-ai/paysphate.demo/internal/presentation/rest"
	"github.com/ahesenov7-ai/paysphate.demo/internal/widget/chat"
	"github.com/ahesenov7-ai/paysphate.demo/internal/widget/feedback"
	"github.com/ahesenov7-ai/paysphate.demo/internal/widget/nav"
	"github.com/ahesenov7-ai/paysphate.demo/internal/widget/toggle"
	"github.com/ahesenov7-ai/paysphate.demo/pkg/testutil"
)

// inlineRunner runs session work on the calling goroutine, which is the
// only goroutine touching the registry in these tests.
type inlineRunner struct{}

func (inlineRunner) Call(_ context.Context, fn func()) error {
	fn()
	return nil
}

type fixture struct {
	router http.Handler
	clock  *scheduler.ManualScheduler
	events *testutil.EventRecorder
}

func newFixture(t *testing.T, runner session.Runner) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	scorer := service.NewRiskScorer()
	clock := scheduler.NewManualScheduler()
	events := &testutil.EventRecorder{}
	registry := session.NewRegistry(session.Dependencies{
		Scorer:    scorer,
		Scheduler: clock,
		Random:    random.Fixed(0),
		Publisher: events,
		Logger:    logger,
	})
	if runner == nil {
		runner = inlineRunner{}
	}
	handler := rest.NewHandler(
		usecase.NewAssessTransaction(scorer, logger),
		usecase.NewListJurisdictions(scorer),
		registry, runner, logger,
	)
	health := rest.NewHealthHandler("paysphered", nil, logger)
	router := rest.NewRouter(logger, http.NotFoundHandler(), health, handler)
	return &fixture{router: router, clock: clock, events: events}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(method, path, reader))
	return rec.Result()
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func (f *fixture) createSession(t *testing.T) session.PageState {
	t.Helper()
	resp := f.do(t, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[session.PageState](t, resp)
}

func TestAssessTransaction_Endpoint(t *testing.T) {
	f := newFixture(t, nil)

	tests := []struct {
		name       string
		form       dto.SubmissionForm
		wantStatus int
		wantScore  int
		wantLevel  string
		wantField  string
	}{
		{name: "scenario A is blocked", form: testutil.ScenarioA(), wantStatus: http.StatusOK, wantScore: 100, wantLevel: "high"},
		{name: "scenario B is low", form: testutil.ScenarioB(), wantStatus: http.StatusOK, wantScore: 5, wantLevel: "low"},
		{name: "scenario C sits on the high boundary", form: testutil.ScenarioC(), wantStatus: http.StatusOK, wantScore: 60, wantLevel: "high"},
		{
			name:       "negative amount",
			form:       dto.SubmissionForm{Amount: "-5", Country: "US", TransactionType: "standard", AccountAge: "new"},
			wantStatus: http.StatusUnprocessableEntity,
			wantField:  "amount",
		},
		{
			name:       "missing country",
			form:       dto.SubmissionForm{Amount: "10", TransactionType: "standard", AccountAge: "new"},
			wantStatus: http.StatusUnprocessableEntity,
			wantField:  "country",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := f.do(t, http.MethodPost, "/api/v1/assessments", tt.form)
			require.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantField != "" {
				body := decode[rest.ErrorResponse](t, resp)
				assert.Equal(t, tt.wantField, body.Field)
				return
			}
			body := decode[dto.AssessmentResponse](t, resp)
			assert.Equal(t, tt.wantScore, body.Score)
			assert.Equal(t, tt.wantLevel, body.Level)
		})
	}
}

func TestAssessTransaction_MalformedBody(t *testing.T) {
	f := newFixture(t, nil)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/assessments", bytes.NewBufferString("{")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListJurisdictions_Endpoint(t *testing.T) {
	f := newFixture(t, nil)

	resp := f.do(t, http.MethodGet, "/api/v1/jurisdictions", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[dto.JurisdictionsResponse](t, resp)
	assert.Contains(t, body.High, "NG")
	assert.Contains(t, body.Medium, "CN")
}

func TestSession_Lifecycle(t *testing.T) {
	f := newFixture(t, nil)

	page := f.createSession(t)
	assert.Equal(t, "awaiting_submission", page.Demo.Stage)
	assert.True(t, page.Demo.FormVisible)

	resp := f.do(t, http.MethodGet, "/api/v1/sessions/"+page.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, page.ID, decode[session.PageState](t, resp).ID)

	resp = f.do(t, http.MethodDelete, "/api/v1/sessions/"+page.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/api/v1/sessions/"+page.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSession_UnknownOrMalformedID(t *testing.T) {
	f := newFixture(t, nil)

	for _, id := range []string{"not-a-uuid", testutil.TestSessionID1.String()} {
		resp := f.do(t, http.MethodGet, "/api/v1/sessions/"+id, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, id)
	}
	resp := f.do(t, http.MethodDelete, "/api/v1/sessions/"+testutil.TestSessionID2.String(), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSession_SubmitRunsTheDemo(t *testing.T) {
	f := newFixture(t, nil)
	page := f.createSession(t)
	base := "/api/v1/sessions/" + page.ID

	resp := f.do(t, http.MethodPost, base+"/submit", testutil.ScenarioA())
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	view := decode[sequencer.View](t, resp)
	assert.Equal(t, "loading", view.Stage)
	assert.True(t, view.LoadingVisible)

	resp = f.do(t, http.MethodPost, base+"/submit", testutil.ScenarioB())
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	f.clock.Advance(10 * time.Second)

	resp = f.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	demo := decode[session.PageState](t, resp).Demo
	assert.Equal(t, "decided", demo.Stage)
	assert.Equal(t, 100, demo.DisplayedScore)
	require.NotNil(t, demo.Decision)
	assert.Equal(t, "blocked", demo.Decision.Outcome)

	resp = f.do(t, http.MethodPost, base+"/reset", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "awaiting_submission", decode[sequencer.View](t, resp).Stage)
	assert.Contains(t, f.events.Types(), "demo.cycle.reset")
}

func TestSession_SubmitValidationError(t *testing.T) {
	f := newFixture(t, nil)
	page := f.createSession(t)

	form := testutil.ScenarioB()
	form.AccountAge = " "
	resp := f.do(t, http.MethodPost, "/api/v1/sessions/"+page.ID+"/submit", form)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "accountAge", decode[rest.ErrorResponse](t, resp).Field)

	resp = f.do(t, http.MethodPost, "/api/v1/sessions/"+page.ID+"/submit", testutil.ScenarioB())
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
}

func TestSession_Widgets(t *testing.T) {
	f := newFixture(t, nil)
	page := f.createSession(t)
	base := "/api/v1/sessions/" + page.ID

	resp := f.do(t, http.MethodPost, base+"/use-case", map[string]string{"target": "b2c"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "b2c", decode[toggle.State](t, resp).Active)

	resp = f.do(t, http.MethodPost, base+"/use-case", map[string]string{"target": "enterprise"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = f.do(t, http.MethodPost, base+"/nav/toggle", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[nav.State](t, resp).Open)

	resp = f.do(t, http.MethodPost, base+"/nav/close", map[string]string{"href": "#pricing"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decode[nav.State](t, resp).Open)

	resp = f.do(t, http.MethodPost, base+"/chat/toggle", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[chat.State](t, resp).Open)

	resp = f.do(t, http.MethodPost, base+"/chat/messages", map[string]string{"text": "   "})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decode[rest.ChatResponse](t, resp).Accepted)

	resp = f.do(t, http.MethodPost, base+"/chat/messages", map[string]string{"text": "How much does it cost?"})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	sent := decode[rest.ChatResponse](t, resp)
	assert.True(t, sent.Accepted)
	require.Len(t, sent.Chat.Messages, 2)
	assert.True(t, sent.Chat.Messages[1].Typing)

	resp = f.do(t, http.MethodPost, base+"/reveal", map[string][]string{"visible": {"features", "pricing"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	plans := decode[map[string][]map[string]any](t, resp)["plans"]
	require.Len(t, plans, 2)
	assert.Equal(t, "pricing", plans[1]["id"])
	assert.EqualValues(t, 100, plans[1]["delayMs"])

	resp = f.do(t, http.MethodPost, base+"/feedback", map[string]string{"name": "Ada"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "email", decode[rest.ErrorResponse](t, resp).Field)

	entry := map[string]string{"name": "Ada", "email": "ada@example.com", "message": "Nice demo"}
	resp = f.do(t, http.MethodPost, base+"/feedback", entry)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, feedback.StatusSubmitting, decode[feedback.State](t, resp).Status)

	resp = f.do(t, http.MethodPost, base+"/feedback", entry)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	f.clock.Advance(2 * time.Second)

	resp = f.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state := decode[session.PageState](t, resp)
	assert.Equal(t, feedback.StatusThanked, state.Feedback.Status)
	assert.ElementsMatch(t, []string{"features", "pricing"}, state.Revealed)
	require.Len(t, state.Chat.Messages, 2)
	assert.False(t, state.Chat.Messages[1].Typing)
}

func TestSession_UnknownFieldRejected(t *testing.T) {
	f := newFixture(t, nil)
	page := f.createSession(t)

	resp := f.do(t, http.MethodPost, "/api/v1/sessions/"+page.ID+"/use-case", map[string]string{"panel": "b2c"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

type stoppedRunner struct{}

func (stoppedRunner) Call(context.Context, func()) error {
	return scheduler.ErrLoopStopped
}

func TestSession_StoppedLoopIsUnavailable(t *testing.T) {
	f := newFixture(t, stoppedRunner{})

	resp := f.do(t, http.MethodPost, "/api/v1/sessions", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

// lateRunner gives up before the task runs, then runs it on another
// goroutine, as Loop.Call does when the caller's context ends first.
type lateRunner struct {
	wg *sync.WaitGroup
}

func (r lateRunner) Call(_ context.Context, fn func()) error {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		time.Sleep(5 * time.Millisecond)
		fn()
	}()
	return context.DeadlineExceeded
}

func TestSession_AbandonedCallIsUnavailable(t *testing.T) {
	var wg sync.WaitGroup
	f := newFixture(t, lateRunner{wg: &wg})

	resp := f.do(t, http.MethodPost, "/api/v1/sessions", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Location"))
	wg.Wait()

	resp = f.do(t, http.MethodDelete, "/api/v1/sessions/"+testutil.TestSessionID1.String(), nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	wg.Wait()
}

func TestHealth_Endpoints(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("healthz", func(t *testing.T) {
		h := rest.NewHealthHandler("paysphered", nil, logger)
		rec := httptest.NewRecorder()
		h.Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		var body rest.HealthResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "healthy", body.Status)
		assert.Equal(t, "paysphered", body.Service)
	})

	t.Run("readyz reports failing checks", func(t *testing.T) {
		h := rest.NewHealthHandler("paysphered", map[string]rest.ReadinessCheck{
			"scheduler": func(context.Context) error { return nil },
			"sessions":  func(context.Context) error { return errors.New("loop stopped") },
		}, logger)
		rec := httptest.NewRecorder()
		h.Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var body rest.ReadinessResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "not_ready", body.Status)
		assert.Equal(t, "ok", body.Checks["scheduler"])
		assert.Equal(t, "loop stopped", body.Checks["sessions"])
	})
}
