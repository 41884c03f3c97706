// Package sequencer drives the staged fraud-decision demo: submission,
// loading, risk analysis with an animated score reveal, and the decision.
package sequencer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahesenov7-ai/paysphate.demo/internal/application/dto"
	"github.com/ahesenov7-ai/paysphate.demo/internal/domain/event"
	"github.com/ahesenov7-ai/paysphate.demo/internal/domain/model"
	"github.com/ahesenov7-ai/paysphate.demo/internal/domain/port"
	"github.com/ahesenov7-ai/paysphate.demo/internal/domain/service"
	"github.com/ahesenov7-ai/paysphate.demo/internal/domain/valueobject"
	"github.com/ahesenov7-ai/paysphate.demo/pkg/events"
)

const instrumentationName = "github.com/ahesenov7-ai/paysphate.demo/internal/application/sequencer"

// Synthetic processing time bounds, in milliseconds.
const (
	minProcessingMs  = 800
	processingSpanMs = 400
)

// publishTimeout bounds a single hand-off to the event publisher.
const publishTimeout = 250 * time.Millisecond

// Timings controls the cosmetic delays of a cycle.
type Timings struct {
	LoadingDelay      time.Duration
	DecisionDelay     time.Duration
	AnimationSteps    int
	AnimationInterval time.Duration
}

// DefaultTimings returns the stock demo pacing.
func DefaultTimings() Timings {
	return Timings{
		LoadingDelay:      1500 * time.Millisecond,
		DecisionDelay:     2000 * time.Millisecond,
		AnimationSteps:    30,
		AnimationInterval: 50 * time.Millisecond,
	}
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithTimings overrides DefaultTimings.
func WithTimings(t Timings) Option {
	return func(s *Sequencer) { s.timings = t }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sequencer) { s.logger = l }
}

// WithPublisher sets the domain event publisher.
func WithPublisher(p port.EventPublisher) Option {
	return func(s *Sequencer) { s.publisher = p }
}

// WithClock sets the wall clock used to timestamp events.
func WithClock(now func() time.Time) Option {
	return func(s *Sequencer) { s.now = now }
}

// Sequencer owns one demo panel. It is not safe for concurrent use: every
// method and every scheduled callback must run on the scheduler's thread.
type Sequencer struct {
	scorer    service.Scorer
	scheduler port.Scheduler
	random    port.RandomSource
	renderer  Renderer
	publisher port.EventPublisher
	logger    *slog.Logger
	timings   Timings
	now       func() time.Time

	tracer      trace.Tracer
	transitions metric.Int64Counter

	stage        valueobject.Stage
	cycleID      uuid.UUID
	input        model.TransactionInput
	assessment   *model.RiskAssessment
	animation    ScoreAnimation
	factorsShown bool
	decision     *DecisionState
	pending      port.Handle
	span         trace.Span
	collector    events.EventCollector
}

// New creates a sequencer in the Idle stage. Call Open to show the form.
func New(scorer service.Scorer, scheduler port.Scheduler, random port.RandomSource, renderer Renderer, opts ...Option) *Sequencer {
	s := &Sequencer{
		scorer:    scorer,
		scheduler: scheduler,
		random:    random,
		renderer:  renderer,
		logger:    slog.Default(),
		timings:   DefaultTimings(),
		now:       time.Now,
		tracer:    otel.Tracer(instrumentationName),
		stage:     valueobject.StageIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.renderer == nil {
		s.renderer = RendererFunc(func(View) {})
	}

	counter, err := otel.Meter(instrumentationName).Int64Counter(
		"paysphere.demo.stage_transitions",
		metric.WithDescription("Demo stage transitions by target stage and event"),
	)
	if err != nil {
		s.logger.Warn("stage transition counter unavailable", "error", err)
		counter, _ = noop.NewMeterProvider().Meter(instrumentationName).Int64Counter("paysphere.demo.stage_transitions")
	}
	s.transitions = counter

	return s
}

// Stage returns the current stage.
func (s *Sequencer) Stage() valueobject.Stage {
	return s.stage
}

// Assessment returns the assessment of the current cycle, if it has been
// scored.
func (s *Sequencer) Assessment() (model.RiskAssessment, bool) {
	if s.assessment == nil {
		return model.RiskAssessment{}, false
	}
	return *s.assessment, true
}

// Snapshot returns the state the current view is computed from.
func (s *Sequencer) Snapshot() Snapshot {
	return Snapshot{
		CycleID:      s.cycleID,
		Stage:        s.stage,
		Assessment:   s.assessment,
		Animation:    s.animation,
		FactorsShown: s.factorsShown,
		Decision:     s.decision,
	}
}

// View renders the current state without notifying the renderer.
func (s *Sequencer) View() View {
	return Render(s.Snapshot())
}

// Open shows the form for the first time.
func (s *Sequencer) Open() error {
	if err := s.move(EventOpen); err != nil {
		return err
	}
	s.render()
	return nil
}

// Submit validates the form and starts a cycle. Validation errors are
// returned as *dto.ValidationError and leave the stage unchanged.
func (s *Sequencer) Submit(form dto.SubmissionForm) error {
	input, err := form.Parse()
	if err != nil {
		return err
	}

	if !s.stage.Equal(valueobject.StageAwaitingSubmission) {
		if s.stage.InFlight() {
			return ErrSubmissionInFlight
		}
		return fmt.Errorf("submit in stage %s: %w", s.stage, ErrInvalidTransition)
	}
	if err := s.move(EventSubmit); err != nil {
		return err
	}

	s.cycleID = uuid.New()
	s.input = input
	_, s.span = s.tracer.Start(context.Background(), "demo.cycle", trace.WithAttributes(
		attribute.String("demo.cycle_id", s.cycleID.String()),
		attribute.String("demo.country", input.Country),
	))

	cycle := s.cycleID
	s.pending = s.scheduler.Schedule(s.timings.LoadingDelay, func() { s.loadingElapsed(cycle) })

	s.logger.Info("demo cycle started",
		"cycle_id", cycle,
		"amount", input.Amount.String(),
		"country", input.Country,
		"transaction_type", input.TransactionType,
		"account_age", input.AccountAge,
	)
	s.render()
	return nil
}

// Reset abandons the current cycle, if any, and shows an empty form. It is
// accepted in every stage.
func (s *Sequencer) Reset() {
	if s.pending != nil {
		s.pending.Cancel()
		s.pending = nil
	}

	from := s.stage
	if s.cycleID != uuid.Nil {
		s.collector.Record(event.NewCycleReset(s.cycleID, from.String(), s.now()))
		s.logger.Info("demo cycle reset", "cycle_id", s.cycleID, "from_stage", from.String())
	}
	s.endSpan()

	_ = s.move(EventReset)
	s.cycleID = uuid.Nil
	s.input = model.TransactionInput{}
	s.assessment = nil
	s.animation = ScoreAnimation{}
	s.factorsShown = false
	s.decision = nil

	s.render()
	s.flush()
}

// Stop cancels any pending callback without rendering or publishing. It is
// used when the owning session goes away.
func (s *Sequencer) Stop() {
	if s.pending != nil {
		s.pending.Cancel()
		s.pending = nil
	}
	s.cycleID = uuid.Nil
	s.endSpan()
}

func (s *Sequencer) loadingElapsed(cycle uuid.UUID) {
	if cycle != s.cycleID {
		return
	}
	if err := s.move(EventLoadingElapsed); err != nil {
		s.logger.Error("unexpected loading callback", "cycle_id", cycle, "error", err)
		return
	}

	assessment := s.scorer.Score(s.input)
	s.assessment = &assessment
	s.animation = NewScoreAnimation(assessment.Score(), s.timings.AnimationSteps)
	if s.span != nil {
		s.span.AddEvent("scored", trace.WithAttributes(
			attribute.Int("risk.score", assessment.Score()),
			attribute.String("risk.level", assessment.Level().String()),
		))
	}

	s.render()
	s.pending = s.scheduler.Schedule(s.timings.AnimationInterval, func() { s.animationTick(cycle) })
}

func (s *Sequencer) animationTick(cycle uuid.UUID) {
	if cycle != s.cycleID || !s.stage.Equal(valueobject.StageAnalyzingRisk) {
		return
	}

	s.animation = s.animation.Advance()
	if !s.animation.Done() {
		s.render()
		s.pending = s.scheduler.Schedule(s.timings.AnimationInterval, func() { s.animationTick(cycle) })
		return
	}

	s.factorsShown = true
	s.render()
	s.pending = s.scheduler.Schedule(s.timings.DecisionDelay, func() { s.decisionDue(cycle) })
}

func (s *Sequencer) decisionDue(cycle uuid.UUID) {
	if cycle != s.cycleID {
		return
	}
	if err := s.move(EventDecisionDue); err != nil {
		s.logger.Error("unexpected decision callback", "cycle_id", cycle, "error", err)
		return
	}
	s.pending = nil

	a := *s.assessment
	decision := valueobject.DecisionForLevel(a.Level())
	ms := minProcessingMs + s.random.IntN(processingSpanMs)
	s.decision = &DecisionState{
		Decision:       decision,
		ProcessingTime: time.Duration(ms) * time.Millisecond,
	}

	at := s.now()
	s.collector.Record(event.NewAssessmentCompleted(cycle, a.Score(), a.Level().String(), decision.Outcome.String(), a.Factors(), ms, at))
	if decision.Outcome.IsBlocked() {
		s.collector.Record(event.NewTransactionBlocked(cycle, a.Score(), a.Factors(), at))
	}

	s.logger.Info("demo decision rendered",
		"cycle_id", cycle,
		"score", a.Score(),
		"level", a.Level().String(),
		"outcome", decision.Outcome.String(),
		"processing_ms", ms,
	)
	if s.span != nil {
		s.span.SetAttributes(attribute.String("demo.outcome", decision.Outcome.String()))
	}
	s.endSpan()

	s.render()
	s.flush()
}

func (s *Sequencer) move(ev Event) error {
	next, err := Transition(s.stage, ev)
	if err != nil {
		return err
	}
	s.stage = next
	s.transitions.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("stage", next.String()),
		attribute.String("event", ev.String()),
	))
	return nil
}

func (s *Sequencer) render() {
	s.renderer.Render(s.View())
}

func (s *Sequencer) endSpan() {
	if s.span != nil {
		s.span.End()
		s.span = nil
	}
}

// flush hands recorded events to the publisher once the view is rendered.
// Publishers on the serving path queue the batch and return; failures are
// logged.
func (s *Sequencer) flush() {
	collected := s.collector.ClearEvents()
	if s.publisher == nil || len(collected) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(ctx, collected...); err != nil {
		s.logger.Error("failed to publish demo events", "error", err, "count", len(collected))
	}
}
