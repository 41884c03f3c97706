package valueobject

import "fmt"

// Stage is a named point in the demo's linear presentation sequence.
type Stage struct {
	value string
}

var (
	StageIdle               = Stage{value: "idle"}
	StageAwaitingSubmission = Stage{value: "awaiting_submission"}
	StageLoading            = Stage{value: "loading"}
	StageAnalyzingRisk      = Stage{value: "analyzing_risk"}
	StageDecided            = Stage{value: "decided"}
)

// StageFromString reconstructs a Stage from its string representation.
func StageFromString(s string) (Stage, error) {
	switch s {
	case "idle":
		return StageIdle, nil
	case "awaiting_submission":
		return StageAwaitingSubmission, nil
	case "loading":
		return StageLoading, nil
	case "analyzing_risk":
		return StageAnalyzingRisk, nil
	case "decided":
		return StageDecided, nil
	default:
		return Stage{}, fmt.Errorf("invalid stage: %s", s)
	}
}

// String returns the string representation.
func (s Stage) String() string {
	if s.value == "" {
		return StageIdle.value
	}
	return s.value
}

// Equal checks equality with another Stage. The zero Stage equals StageIdle.
func (s Stage) Equal(other Stage) bool {
	return s.String() == other.String()
}

// InFlight reports whether a submission cycle is running or awaiting reset.
func (s Stage) InFlight() bool {
	switch s.String() {
	case "loading", "analyzing_risk", "decided":
		return true
	default:
		return false
	}
}
