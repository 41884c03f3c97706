package model

import (
	"encoding/json"

	"github.com/ahesenov7-ai/paysphate.demo/internal/domain/valueobject"
)

const (
	MinScore = 0
	MaxScore = 100
)

// RiskAssessment is the score, level and triggered factors for one transaction.
type RiskAssessment struct {
	level   valueobject.RiskLevel
	factors []string
	score   int
}

// NewRiskAssessment clamps the raw rule total into [0,100], derives the level
// from the clamped score and keeps the factors in the given order.
func NewRiskAssessment(rawScore int, factors []string) RiskAssessment {
	score := rawScore
	if score < MinScore {
		score = MinScore
	}
	if score > MaxScore {
		score = MaxScore
	}

	kept := make([]string, len(factors))
	copy(kept, factors)

	return RiskAssessment{
		score:   score,
		level:   valueobject.RiskLevelFromScore(score),
		factors: kept,
	}
}

func (a RiskAssessment) Score() int                   { return a.score }
func (a RiskAssessment) Level() valueobject.RiskLevel { return a.level }

// Factors returns a copy of the triggered factor texts in rule order.
func (a RiskAssessment) Factors() []string {
	out := make([]string, len(a.factors))
	copy(out, a.factors)
	return out
}

// MarshalJSON renders the assessment as {score, level, factors}.
func (a RiskAssessment) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Score   int      `json:"score"`
		Level   string   `json:"level"`
		Factors []string `json:"factors"`
	}{
		Score:   a.score,
		Level:   a.level.String(),
		Factors: a.Factors(),
	})
}
