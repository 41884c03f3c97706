package testutil

import (
	"github.com/google/uuid"

	"github.com/ahesenov7-ai/paysphate.demo/internal/application/dto"
)

// Fixed UUIDs for deterministic testing
var (
	TestSessionID1 = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	TestSessionID2 = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	TestCycleID    = uuid.MustParse("00000000-0000-0000-0000-000000000010")
)

// ScenarioA scores 115 before clamping: high risk, blocked.
func ScenarioA() dto.SubmissionForm {
	return dto.SubmissionForm{Amount: "15000", Country: "NG", TransactionType: "first-time", AccountAge: "new"}
}

// ScenarioB scores 5: a low-risk micro-transaction.
func ScenarioB() dto.SubmissionForm {
	return dto.SubmissionForm{Amount: "50", Country: "US", TransactionType: "standard", AccountAge: "established"}
}

// ScenarioC scores exactly 60, the high-risk boundary.
func ScenarioC() dto.SubmissionForm {
	return dto.SubmissionForm{Amount: "7000", Country: "CN", TransactionType: "instant", AccountAge: "6months"}
}

// ScenarioMedium scores 35: approved with enhanced monitoring.
func ScenarioMedium() dto.SubmissionForm {
	return dto.SubmissionForm{Amount: "500", Country: "RU", TransactionType: "standard", AccountAge: "established"}
}
