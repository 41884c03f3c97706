package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/ahesenov7-ai/paysphate.demo/pkg/events"
)

const (
	// EventTypeAssessmentCompleted is emitted when a demo cycle reaches its decision.
	EventTypeAssessmentCompleted = "demo.assessment.completed"

	// EventTypeTransactionBlocked is emitted when the decision is a block.
	EventTypeTransactionBlocked = "demo.transaction.blocked"

	// EventTypeCycleReset is emitted when a cycle is abandoned by a reset.
	EventTypeCycleReset = "demo.cycle.reset"

	// AggregateTypeDemoCycle names the aggregate every demo event belongs to.
	AggregateTypeDemoCycle = "demo_cycle"
)

// AssessmentCompleted is published when a demo cycle shows its decision.
type AssessmentCompleted struct {
	events.BaseEvent
	Score            int      `json:"score"`
	Level            string   `json:"level"`
	Outcome          string   `json:"outcome"`
	Factors          []string `json:"factors"`
	ProcessingTimeMs int      `json:"processing_time_ms"`
}

// NewAssessmentCompleted builds an AssessmentCompleted event for cycleID.
func NewAssessmentCompleted(cycleID uuid.UUID, score int, level, outcome string, factors []string, processingTimeMs int, at time.Time) AssessmentCompleted {
	return AssessmentCompleted{
		BaseEvent:        events.NewBaseEvent(EventTypeAssessmentCompleted, cycleID, AggregateTypeDemoCycle, at),
		Score:            score,
		Level:            level,
		Outcome:          outcome,
		Factors:          append([]string(nil), factors...),
		ProcessingTimeMs: processingTimeMs,
	}
}

// TransactionBlocked is published alongside AssessmentCompleted for
// high-risk decisions.
type TransactionBlocked struct {
	events.BaseEvent
	Score   int      `json:"score"`
	Factors []string `json:"factors"`
}

// NewTransactionBlocked builds a TransactionBlocked event for cycleID.
func NewTransactionBlocked(cycleID uuid.UUID, score int, factors []string, at time.Time) TransactionBlocked {
	return TransactionBlocked{
		BaseEvent: events.NewBaseEvent(EventTypeTransactionBlocked, cycleID, AggregateTypeDemoCycle, at),
		Score:     score,
		Factors:   append([]string(nil), factors...),
	}
}

// CycleReset is published when a cycle is reset, including mid-flight.
type CycleReset struct {
	events.BaseEvent
	FromStage string `json:"from_stage"`
}

// NewCycleReset builds a CycleReset event for cycleID.
func NewCycleReset(cycleID uuid.UUID, fromStage string, at time.Time) CycleReset {
	return CycleReset{
		BaseEvent: events.NewBaseEvent(EventTypeCycleReset, cycleID, AggregateTypeDemoCycle, at),
		FromStage: fromStage,
	}
}
