package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahesenov7-ai/paysphate.demo/internal/application/dto"
	"github.com/ahesenov7-ai/paysphate.demo/internal/domain/service"
)

const tracerName = "github.com/ahesenov7-ai/paysphate.demo/internal/application/usecase"

// AssessTransaction is the use case for scoring a submitted form without
// running the staged demo.
type AssessTransaction struct {
	scorer service.Scorer
	logger *slog.Logger
	tracer trace.Tracer
}

// NewAssessTransaction creates a new AssessTransaction use case.
func NewAssessTransaction(scorer service.Scorer, logger *slog.Logger) *AssessTransaction {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssessTransaction{
		scorer: scorer,
		logger: logger,
		tracer: otel.Tracer(tracerName),
	}
}

// Execute validates the form and scores it.
func (uc *AssessTransaction) Execute(ctx context.Context, form dto.SubmissionForm) (dto.AssessmentResponse, error) {
	_, span := uc.tracer.Start(ctx, "AssessTransaction.Execute")
	defer span.End()

	// 1. Validate the form.
	input, err := form.Parse()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid submission")
		return dto.AssessmentResponse{}, fmt.Errorf("failed to parse submission: %w", err)
	}

	// 2. Run risk scoring via the domain service.
	assessment := uc.scorer.Score(input)

	span.SetAttributes(
		attribute.String("risk.country", input.Country),
		attribute.Int("risk.score", assessment.Score()),
		attribute.String("risk.level", assessment.Level().String()),
		attribute.Int("risk.factors", len(assessment.Factors())),
	)

	uc.logger.DebugContext(ctx, "transaction assessed",
		"score", assessment.Score(),
		"level", assessment.Level().String(),
		"factors", len(assessment.Factors()),
	)

	return dto.FromAssessment(input, assessment), nil
}
