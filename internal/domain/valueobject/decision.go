package valueobject

import "fmt"

// Outcome is the binary result shown on the decision panel.
type Outcome struct {
	value string
}

var (
	OutcomeApproved = Outcome{value: "approved"}
	OutcomeBlocked  = Outcome{value: "blocked"}
)

// OutcomeFromString reconstructs an Outcome from its string representation.
func OutcomeFromString(s string) (Outcome, error) {
	switch s {
	case "approved":
		return OutcomeApproved, nil
	case "blocked":
		return OutcomeBlocked, nil
	default:
		return Outcome{}, fmt.Errorf("invalid outcome: %s", s)
	}
}

// String returns the string representation.
func (o Outcome) String() string {
	return o.value
}

// IsBlocked returns true for the blocked outcome.
func (o Outcome) IsBlocked() bool {
	return o.value == "blocked"
}

// Equal checks equality with another Outcome.
func (o Outcome) Equal(other Outcome) bool {
	return o.value == other.value
}

// Decision is the copy rendered on the decision panel for a risk level.
type Decision struct {
	Outcome Outcome
	Icon    string
	Title   string
	Message string
}

// DecisionForLevel maps a risk level to its decision. Only high blocks;
// medium is approved with enhanced monitoring.
func DecisionForLevel(level RiskLevel) Decision {
	switch {
	case level.Equal(RiskLevelHigh):
		return Decision{
			Outcome: OutcomeBlocked,
			Icon:    "🛑",
			Title:   "Transaction Blocked",
			Message: "High fraud risk detected. Transaction requires manual review.",
		}
	case level.Equal(RiskLevelMedium):
		return Decision{
			Outcome: OutcomeApproved,
			Icon:    "✅",
			Title:   "Transaction Verified",
			Message: "Moderate risk. Transaction approved with enhanced monitoring.",
		}
	default:
		return Decision{
			Outcome: OutcomeApproved,
			Icon:    "✅",
			Title:   "Transaction Verified",
			Message: "Low risk. Transaction approved successfully.",
		}
	}
}
