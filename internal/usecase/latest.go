package usecase

import (
	"context"
	"fmt"
	"strings"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
)

// LatestQuery answers "latest recommendation/insight" reads against the
// append-only stores. Latest is resolved by the stores as max CreatedAt.
type LatestQuery struct {
	recs     domrepo.RecommendationStore
	insights domrepo.InsightStore
}

func NewLatestQuery(recs domrepo.RecommendationStore, insights domrepo.InsightStore) *LatestQuery {
	return &LatestQuery{recs: recs, insights: insights}
}

// LatestRecommendation returns the most recent recommendation for symbol,
// or nil when none exists yet.
func (q *LatestQuery) LatestRecommendation(ctx context.Context, symbol string) (*models.Recommendation, error) {
	if strings.TrimSpace(symbol) == "" {
		return nil, fmt.Errorf("symbol required")
	}
	rec, err := q.recs.FindLatest(ctx, symbol)
	if err != nil {
		return nil, &models.PersistenceError{Op: "find latest recommendation", Err: err}
	}
	return rec, nil
}

// LatestInsight returns the most recent investment insight for symbol,
// or nil when none exists yet.
func (q *LatestQuery) LatestInsight(ctx context.Context, symbol string) (*models.InvestmentInsight, error) {
	if strings.TrimSpace(symbol) == "" {
		return nil, fmt.Errorf("symbol required")
	}
	ins, err := q.insights.FindLatest(ctx, symbol)
	if err != nil {
		return nil, &models.PersistenceError{Op: "find latest insight", Err: err}
	}
	return ins, nil
}
