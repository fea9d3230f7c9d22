package service

import (
	"context"

	"MarketLens/internal/domain/models"
)

// AIBackend turns an analysis snapshot into a structured recommendation and
// narrative. The returned output is raw and untrusted: callers must push it
// through schema validation before reading any field out of it.
type AIBackend interface {
	Generate(ctx context.Context, input models.ProviderInput) (models.RawProviderOutput, error)
}
