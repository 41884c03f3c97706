package sequencer

import (
	"errors"
	"fmt"

	"github.com/ahesenov7-ai/paysphate.demo/internal/domain/valueobject"
)

var (
	// ErrInvalidTransition is returned when an event is not accepted in the
	// current stage.
	ErrInvalidTransition = errors.New("invalid stage transition")

	// ErrSubmissionInFlight is returned when a form is submitted while a
	// cycle is running or awaiting reset.
	ErrSubmissionInFlight = errors.New("a submission is already in flight")
)

// Event drives the stage machine.
type Event int

const (
	EventOpen Event = iota + 1
	EventSubmit
	EventLoadingElapsed
	EventDecisionDue
	EventReset
)

// String returns the event name.
func (e Event) String() string {
	switch e {
	case EventOpen:
		return "open"
	case EventSubmit:
		return "submit"
	case EventLoadingElapsed:
		return "loading_elapsed"
	case EventDecisionDue:
		return "decision_due"
	case EventReset:
		return "reset"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// Transition is the demo's stage table. Reset is accepted from every stage.
func Transition(from valueobject.Stage, ev Event) (valueobject.Stage, error) {
	if ev == EventReset {
		return valueobject.StageAwaitingSubmission, nil
	}

	switch {
	case from.Equal(valueobject.StageIdle) && ev == EventOpen:
		return valueobject.StageAwaitingSubmission, nil
	case from.Equal(valueobject.StageAwaitingSubmission) && ev == EventSubmit:
		return valueobject.StageLoading, nil
	case from.Equal(valueobject.StageLoading) && ev == EventLoadingElapsed:
		return valueobject.StageAnalyzingRisk, nil
	case from.Equal(valueobject.StageAnalyzingRisk) && ev == EventDecisionDue:
		return valueobject.StageDecided, nil
	}

	return from, fmt.Errorf("%s on %s: %w", ev, from, ErrInvalidTransition)
}
