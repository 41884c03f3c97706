package service

import (
	"github.com/shopspring/decimal"

	"github.com/ahesenov7-ai/paysphate.demo/internal/domain/model"
)

// Factor texts, in rule-table order.
const (
	FactorHighAmount           = "High transaction amount"
	FactorElevatedAmount       = "Elevated amount"
	FactorMicroTransaction     = "Micro-transaction"
	FactorHighRiskJurisdiction = "High-risk jurisdiction"
	FactorElevatedJurisdiction = "Elevated jurisdiction risk"
	FactorFirstTimeSender      = "First-time sender"
	FactorInstantPayment       = "Instant payment"
	FactorNewAccount           = "New account (<6 months)"
	FactorRecentAccount        = "Recent account"
)

var (
	highAmountThreshold     = decimal.NewFromInt(10000)
	elevatedAmountThreshold = decimal.NewFromInt(5000)
	microAmountThreshold    = decimal.NewFromInt(100)
)

// RiskScorer is a domain service that scores transactions with a fixed rule
// table. Rules are grouped in categories (amount, jurisdiction, transaction
// type, account age); at most one rule fires per category.
type RiskScorer struct {
	table         JurisdictionTable
	jurisdictions jurisdictionIndex
}

// Option configures a RiskScorer.
type Option func(*RiskScorer)

// WithJurisdictions replaces the default jurisdiction table.
func WithJurisdictions(table JurisdictionTable) Option {
	return func(s *RiskScorer) {
		s.table = table
	}
}

// NewRiskScorer creates a new RiskScorer instance.
func NewRiskScorer(opts ...Option) *RiskScorer {
	s := &RiskScorer{table: DefaultJurisdictions()}
	for _, opt := range opts {
		opt(s)
	}
	s.jurisdictions = newJurisdictionIndex(s.table)
	return s
}

// Jurisdictions returns the table this scorer was built with.
func (s *RiskScorer) Jurisdictions() JurisdictionTable {
	return JurisdictionTable{
		High:   append([]string(nil), s.table.High...),
		Medium: append([]string(nil), s.table.Medium...),
	}
}

// Score evaluates the rule table against the input. Contributions are summed,
// the total is clamped to [0,100] and factors keep category order.
func (s *RiskScorer) Score(input model.TransactionInput) model.RiskAssessment {
	score := 0
	factors := make([]string, 0, 4)

	// Amount.
	amount := input.Amount.Amount()
	switch {
	case amount.GreaterThan(highAmountThreshold):
		score += 25
		factors = append(factors, FactorHighAmount)
	case amount.GreaterThan(elevatedAmountThreshold):
		score += 15
		factors = append(factors, FactorElevatedAmount)
	case amount.LessThan(microAmountThreshold):
		score += 5
		factors = append(factors, FactorMicroTransaction)
	}

	// Jurisdiction.
	switch s.jurisdictions.classify(input.Country) {
	case JurisdictionHigh:
		score += 35
		factors = append(factors, FactorHighRiskJurisdiction)
	case JurisdictionMedium:
		score += 20
		factors = append(factors, FactorElevatedJurisdiction)
	}

	// Transaction type.
	switch input.TransactionType {
	case model.TransactionTypeFirstTime:
		score += 25
		factors = append(factors, FactorFirstTimeSender)
	case model.TransactionTypeInstant:
		score += 10
		factors = append(factors, FactorInstantPayment)
	}

	// Account age.
	switch input.AccountAge {
	case model.AccountAgeNew:
		score += 30
		factors = append(factors, FactorNewAccount)
	case model.AccountAgeRecent:
		score += 15
		factors = append(factors, FactorRecentAccount)
	}

	return model.NewRiskAssessment(score, factors)
}
