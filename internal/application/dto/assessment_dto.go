package dto

import (
	"github.com/ahesenov7-ai/paysphate.demo/internal/domain/model"
	"github.com/ahesenov7-ai/paysphate.demo/internal/domain/service"
	"github.com/ahesenov7-ai/paysphate.demo/internal/domain/valueobject"
)

// AssessmentResponse is the output DTO of a stateless assessment.
type AssessmentResponse struct {
	Amount          string   `json:"amount" yaml:"amount"`
	Currency        string   `json:"currency" yaml:"currency"`
	Country         string   `json:"country" yaml:"country"`
	TransactionType string   `json:"transactionType" yaml:"transactionType"`
	AccountAge      string   `json:"accountAge" yaml:"accountAge"`
	Score           int      `json:"score" yaml:"score"`
	Level           string   `json:"level" yaml:"level"`
	Color           string   `json:"color" yaml:"color"`
	Factors         []string `json:"factors" yaml:"factors"`
	Outcome         string   `json:"outcome" yaml:"outcome"`
	Title           string   `json:"title" yaml:"title"`
	Message         string   `json:"message" yaml:"message"`
}

// FromAssessment maps the scored input to the response DTO.
func FromAssessment(in model.TransactionInput, a model.RiskAssessment) AssessmentResponse {
	decision := valueobject.DecisionForLevel(a.Level())
	return AssessmentResponse{
		Amount:          in.Amount.Amount().StringFixed(2),
		Currency:        in.Amount.Currency().Code(),
		Country:         in.Country,
		TransactionType: in.TransactionType,
		AccountAge:      in.AccountAge,
		Score:           a.Score(),
		Level:           a.Level().String(),
		Color:           a.Level().Color(),
		Factors:         a.Factors(),
		Outcome:         decision.Outcome.String(),
		Title:           decision.Title,
		Message:         decision.Message,
	}
}

// JurisdictionsResponse lists the country codes that raise jurisdiction risk.
type JurisdictionsResponse struct {
	High   []string `json:"high" yaml:"high"`
	Medium []string `json:"medium" yaml:"medium"`
}

// FromJurisdictions maps a jurisdiction table to the response DTO.
func FromJurisdictions(t service.JurisdictionTable) JurisdictionsResponse {
	resp := JurisdictionsResponse{
		High:   append([]string{}, t.High...),
		Medium: append([]string{}, t.Medium...),
	}
	return resp
}
