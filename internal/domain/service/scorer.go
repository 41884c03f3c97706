package service

import "github.com/ahesenov7-ai/paysphate.demo/internal/domain/model"

// Scorer defines the interface for risk scoring strategies.
// Implementations must be pure: the same input always yields the same assessment.
type Scorer interface {
	Score(input model.TransactionInput) model.RiskAssessment
}
