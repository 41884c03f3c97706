package dto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ahesenov7-ai/paysphate.demo/internal/domain/model"
	"github.com/ahesenov7-ai/paysphate.demo/pkg/money"
)

// ValidationError reports a submission field that could not be accepted.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// SubmissionForm is the raw payment form as entered by a visitor.
type SubmissionForm struct {
	Amount          string `json:"amount" yaml:"amount"`
	Country         string `json:"country" yaml:"country"`
	TransactionType string `json:"transactionType" yaml:"transactionType"`
	AccountAge      string `json:"accountAge" yaml:"accountAge"`
}

// Parse validates the form and converts it to a TransactionInput. The first
// offending field is reported as a *ValidationError.
func (f SubmissionForm) Parse() (model.TransactionInput, error) {
	amount, err := money.ParsePositive(f.Amount, money.USD)
	if err != nil {
		reason := "must be a positive number"
		if strings.TrimSpace(f.Amount) == "" {
			reason = "is required"
		} else if !errors.Is(err, money.ErrNotPositive) {
			reason = "must be a number"
		}
		return model.TransactionInput{}, &ValidationError{Field: "amount", Reason: reason}
	}

	country := strings.ToUpper(strings.TrimSpace(f.Country))
	if country == "" {
		return model.TransactionInput{}, &ValidationError{Field: "country", Reason: "is required"}
	}

	txType := strings.TrimSpace(f.TransactionType)
	if txType == "" {
		return model.TransactionInput{}, &ValidationError{Field: "transactionType", Reason: "is required"}
	}

	age := strings.TrimSpace(f.AccountAge)
	if age == "" {
		return model.TransactionInput{}, &ValidationError{Field: "accountAge", Reason: "is required"}
	}

	return model.TransactionInput{
		Amount:          amount,
		Country:         country,
		TransactionType: txType,
		AccountAge:      age,
	}, nil
}
