package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahesenov7-ai/paysphate.demo/internal/application/dto"
	"github.com/ahesenov7-ai/paysphate.demo/internal/application/usecase"
	"github.com/ahesenov7-ai/paysphate.demo/internal/domain/model"
	"github.com/ahesenov7-ai/paysphate.demo/internal/domain/service"
)

// --- Mock implementations ---

type mockScorer struct {
	calls  int
	result model.RiskAssessment
}

func (m *mockScorer) Score(_ model.TransactionInput) model.RiskAssessment {
	m.calls++
	return m.result
}

// --- Tests ---

func TestAssessTransaction_Execute(t *testing.T) {
	t.Run("blocks a high-risk transaction", func(t *testing.T) {
		uc := usecase.NewAssessTransaction(service.NewRiskScorer(), nil)

		resp, err := uc.Execute(context.Background(), dto.SubmissionForm{
			Amount:          "15000",
			Country:         "NG",
			TransactionType: "first-time",
			AccountAge:      "new",
		})

		require.NoError(t, err)
		assert.Equal(t, 100, resp.Score)
		assert.Equal(t, "high", resp.Level)
		assert.Equal(t, "#EF4444", resp.Color)
		assert.Equal(t, "blocked", resp.Outcome)
		assert.Equal(t, "Transaction Blocked", resp.Title)
		assert.Equal(t, "15000.00", resp.Amount)
		assert.Equal(t, "USD", resp.Currency)
		assert.Len(t, resp.Factors, 4)
	})

	t.Run("approves a low-risk transaction", func(t *testing.T) {
		uc := usecase.NewAssessTransaction(service.NewRiskScorer(), nil)

		resp, err := uc.Execute(context.Background(), dto.SubmissionForm{
			Amount:          "50",
			Country:         "US",
			TransactionType: "standard",
			AccountAge:      "established",
		})

		require.NoError(t, err)
		assert.Equal(t, 5, resp.Score)
		assert.Equal(t, "low", resp.Level)
		assert.Equal(t, "approved", resp.Outcome)
		assert.Equal(t, "Low risk. Transaction approved successfully.", resp.Message)
		assert.Equal(t, []string{"Micro-transaction"}, resp.Factors)
	})

	t.Run("fails with invalid request data without scoring", func(t *testing.T) {
		scorer := &mockScorer{}
		uc := usecase.NewAssessTransaction(scorer, nil)

		_, err := uc.Execute(context.Background(), dto.SubmissionForm{
			Amount:          "-1",
			Country:         "US",
			TransactionType: "standard",
			AccountAge:      "new",
		})

		require.Error(t, err)
		var verr *dto.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "amount", verr.Field)
		assert.Zero(t, scorer.calls)
	})

	t.Run("uses the injected scorer", func(t *testing.T) {
		scorer := &mockScorer{result: model.NewRiskAssessment(45, []string{"Synthetic factor"})}
		uc := usecase.NewAssessTransaction(scorer, nil)

		resp, err := uc.Execute(context.Background(), dto.SubmissionForm{
			Amount:          "500",
			Country:         "US",
			TransactionType: "standard",
			AccountAge:      "established",
		})

		require.NoError(t, err)
		assert.Equal(t, 1, scorer.calls)
		assert.Equal(t, "medium", resp.Level)
		assert.Equal(t, "Moderate risk. Transaction approved with enhanced monitoring.", resp.Message)
	})
}

func TestListJurisdictions_Execute(t *testing.T) {
	scorer := service.NewRiskScorer(service.WithJurisdictions(service.JurisdictionTable{
		High: []string{"XA"},
	}))
	uc := usecase.NewListJurisdictions(scorer)

	resp := uc.Execute(context.Background())

	assert.Equal(t, []string{"XA"}, resp.High)
	assert.NotNil(t, resp.Medium)
	assert.Empty(t, resp.Medium)
}
