package grpc

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ahesenov7-ai/paysphate.demo/internal/application/usecase"
	"github.com/ahesenov7-ai/paysphate.demo/internal/domain/service"
)

// --- Helpers ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func buildTestHandler() *RiskServiceHandler {
	scorer := service.NewRiskScorer()
	logger := testLogger()

	return NewRiskServiceHandler(
		usecase.NewAssessTransaction(scorer, logger),
		usecase.NewListJurisdictions(scorer),
		logger,
	)
}

// --- Tests ---

func TestAssessTransaction_Success(t *testing.T) {
	h := buildTestHandler()

	resp, err := h.AssessTransaction(context.Background(), &AssessTransactionRequest{
		Amount:          "15000",
		Country:         "ng",
		TransactionType: "first-time",
		AccountAge:      "new",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Assessment)

	a := resp.Assessment
	assert.Equal(t, int32(100), a.RiskScore)
	assert.Equal(t, "high", a.RiskLevel)
	assert.Equal(t, "blocked", a.Decision)
	assert.Equal(t, "NG", a.Country)
	assert.Equal(t, "15000.00", a.Amount.Amount)
	assert.Equal(t, "USD", a.Amount.Currency)
	assert.Len(t, a.RiskFactors, 4)
}

func TestAssessTransaction_LowRisk(t *testing.T) {
	h := buildTestHandler()

	resp, err := h.AssessTransaction(context.Background(), &AssessTransactionRequest{
		Amount:          "50",
		Country:         "US",
		TransactionType: "standard",
		AccountAge:      "established",
	})
	require.NoError(t, err)

	assert.Equal(t, int32(5), resp.Assessment.RiskScore)
	assert.Equal(t, "low", resp.Assessment.RiskLevel)
	assert.Equal(t, "approved", resp.Assessment.Decision)
}

func TestAssessTransaction_InvalidArgument(t *testing.T) {
	h := buildTestHandler()

	tests := []struct {
		name string
		req  *AssessTransactionRequest
	}{
		{name: "nil request", req: nil},
		{name: "zero amount", req: &AssessTransactionRequest{Amount: "0", Country: "US", TransactionType: "standard", AccountAge: "new"}},
		{name: "non-numeric amount", req: &AssessTransactionRequest{Amount: "lots", Country: "US", TransactionType: "standard", AccountAge: "new"}},
		{name: "missing type", req: &AssessTransactionRequest{Amount: "10", Country: "US", AccountAge: "new"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.AssessTransaction(context.Background(), tt.req)
			require.Error(t, err)
			st, ok := status.FromError(err)
			require.True(t, ok)
			assert.Equal(t, codes.InvalidArgument, st.Code())
		})
	}
}

func TestListJurisdictions(t *testing.T) {
	h := buildTestHandler()

	resp, err := h.ListJurisdictions(context.Background(), &ListJurisdictionsRequest{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"NG", "RU"}, resp.High)
	assert.ElementsMatch(t, []string{"CN"}, resp.Medium)
}

func TestUnimplementedRiskServiceServer(t *testing.T) {
	var srv UnimplementedRiskServiceServer

	_, err := srv.AssessTransaction(context.Background(), &AssessTransactionRequest{})
	assert.Equal(t, codes.Unimplemented, status.Code(err))
	_, err = srv.ListJurisdictions(context.Background(), &ListJurisdictionsRequest{})
	assert.Equal(t, codes.Unimplemented, status.Code(err))
}
