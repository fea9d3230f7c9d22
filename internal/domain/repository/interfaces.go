package repository

import (
	"context"

	"MarketLens/internal/domain/models"
)

// MarketDataSource fetches historical OHLCV points for a symbol.
// An empty result is valid at this layer; the orchestrator decides it is fatal.
type MarketDataSource interface {
	Fetch(ctx context.Context, symbol string) ([]models.PricePoint, error)
}

// PricePointStore persists raw price points. Save must be an idempotent
// upsert keyed by symbol+timestamp+resolution: duplicate delivery under
// retries must not create duplicate rows.
type PricePointStore interface {
	Save(ctx context.Context, points []models.PricePoint, resolution Resolution) error
	FindBySymbol(ctx context.Context, symbol string) ([]models.PricePoint, error)
}

// RecommendationStore persists recommendations append-only.
type RecommendationStore interface {
	Save(ctx context.Context, rec *models.Recommendation) error
	FindLatest(ctx context.Context, symbol string) (*models.Recommendation, error)
}

// InsightStore persists investment insights append-only.
type InsightStore interface {
	Save(ctx context.Context, insight *models.InvestmentInsight) error
	FindLatest(ctx context.Context, symbol string) (*models.InvestmentInsight, error)
}

// EventPublisher emits pipeline run summaries to an event stream.
// Publishing is best-effort and never part of the pipeline contract.
type EventPublisher interface {
	PublishRunSummary(ctx context.Context, summary *models.PipelineSummary) error
	Close() error
}

// Metrics records operational measurements for pipeline runs.
type Metrics interface {
	RecordPipelineRun(symbol, trend string)
	RecordError(kind string)
	RecordLastClose(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
