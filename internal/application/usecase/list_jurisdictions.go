package usecase

import (
	"context"

	"github.com/ahesenov7-ai/paysphate.demo/internal/application/dto"
	"github.com/ahesenov7-ai/paysphate.demo/internal/domain/service"
)

// JurisdictionSource exposes the jurisdiction table a scorer was built with.
type JurisdictionSource interface {
	Jurisdictions() service.JurisdictionTable
}

// ListJurisdictions is the use case for reading the active jurisdiction table.
type ListJurisdictions struct {
	source JurisdictionSource
}

// NewListJurisdictions creates a new ListJurisdictions use case.
func NewListJurisdictions(source JurisdictionSource) *ListJurisdictions {
	return &ListJurisdictions{source: source}
}

// Execute returns the jurisdiction table.
func (uc *ListJurisdictions) Execute(_ context.Context) dto.JurisdictionsResponse {
	return dto.FromJurisdictions(uc.source.Jurisdictions())
}
