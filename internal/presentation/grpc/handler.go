package grpc

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ahesenov7-ai/paysphate.demo/internal/application/dto"
	"github.com/ahesenov7-ai/paysphate.demo/internal/application/usecase"
)

// Compile-time assertion that RiskServiceHandler implements RiskServiceServer.
var _ RiskServiceServer = (*RiskServiceHandler)(nil)

// RiskServiceHandler implements the gRPC RiskServiceServer interface.
type RiskServiceHandler struct {
	UnimplementedRiskServiceServer
	assessTransaction *usecase.AssessTransaction
	listJurisdictions *usecase.ListJurisdictions
	logger            *slog.Logger
}

// NewRiskServiceHandler creates a new gRPC handler.
func NewRiskServiceHandler(
	assessTransaction *usecase.AssessTransaction,
	listJurisdictions *usecase.ListJurisdictions,
	logger *slog.Logger,
) *RiskServiceHandler {
	return &RiskServiceHandler{
		assessTransaction: assessTransaction,
		listJurisdictions: listJurisdictions,
		logger:            logger,
	}
}

// Proto-aligned request/response message types.

// AssessTransactionRequest represents the proto AssessTransactionRequest message.
type AssessTransactionRequest struct {
	Amount          string `json:"amount"`
	Country         string `json:"country"`
	TransactionType string `json:"transaction_type"`
	AccountAge      string `json:"account_age"`
}

// MoneyMsg represents the proto Money message.
type MoneyMsg struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// AssessmentMsg represents the proto Assessment message.
type AssessmentMsg struct {
	Amount          *MoneyMsg `json:"amount"`
	Country         string    `json:"country"`
	TransactionType string    `json:"transaction_type"`
	AccountAge      string    `json:"account_age"`
	RiskScore       int32     `json:"risk_score"`
	RiskLevel       string    `json:"risk_level"`
	RiskColor       string    `json:"risk_color"`
	RiskFactors     []string  `json:"risk_factors"`
	Decision        string    `json:"decision"`
	Title           string    `json:"title"`
	Message         string    `json:"message"`
}

// AssessTransactionResponse represents the proto AssessTransactionResponse message.
type AssessTransactionResponse struct {
	Assessment *AssessmentMsg `json:"assessment"`
}

// ListJurisdictionsRequest represents the proto ListJurisdictionsRequest message.
type ListJurisdictionsRequest struct{}

// ListJurisdictionsResponse represents the proto ListJurisdictionsResponse message.
type ListJurisdictionsResponse struct {
	High   []string `json:"high"`
	Medium []string `json:"medium"`
}

// AssessTransaction handles a transaction assessment request.
func (h *RiskServiceHandler) AssessTransaction(ctx context.Context, req *AssessTransactionRequest) (*AssessTransactionResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	result, err := h.assessTransaction.Execute(ctx, dto.SubmissionForm{
		Amount:          req.Amount,
		Country:         req.Country,
		TransactionType: req.TransactionType,
		AccountAge:      req.AccountAge,
	})
	if err != nil {
		var verr *dto.ValidationError
		if errors.As(err, &verr) {
			return nil, status.Error(codes.InvalidArgument, verr.Error())
		}
		h.logger.Error("failed to assess transaction", slog.String("error", err.Error()))
		return nil, status.Error(codes.Internal, "internal error")
	}

	return &AssessTransactionResponse{
		Assessment: &AssessmentMsg{
			Amount:          &MoneyMsg{Amount: result.Amount, Currency: result.Currency},
			Country:         result.Country,
			TransactionType: result.TransactionType,
			AccountAge:      result.AccountAge,
			RiskScore:       int32(result.Score),
			RiskLevel:       result.Level,
			RiskColor:       result.Color,
			RiskFactors:     result.Factors,
			Decision:        result.Outcome,
			Title:           result.Title,
			Message:         result.Message,
		},
	}, nil
}

// ListJurisdictions returns the active jurisdiction table.
func (h *RiskServiceHandler) ListJurisdictions(ctx context.Context, _ *ListJurisdictionsRequest) (*ListJurisdictionsResponse, error) {
	table := h.listJurisdictions.Execute(ctx)
	return &ListJurisdictionsResponse{High: table.High, Medium: table.Medium}, nil
}
