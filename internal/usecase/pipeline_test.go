package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
	"MarketLens/internal/services/marketdata"
)

type memPointStore struct {
	saved      []models.PricePoint
	resolution domrepo.Resolution
}

func (s *memPointStore) Save(_ context.Context, points []models.PricePoint, resolution domrepo.Resolution) error {
	s.saved = append(s.saved, points...)
	s.resolution = resolution
	return nil
}

func (s *memPointStore) FindBySymbol(_ context.Context, symbol string) ([]models.PricePoint, error) {
	out := make([]models.PricePoint, 0, len(s.saved))
	for _, p := range s.saved {
		if p.Symbol == symbol {
			out = append(out, p)
		}
	}
	return out, nil
}

type memRecStore struct {
	recs []*models.Recommendation
}

func (s *memRecStore) Save(_ context.Context, rec *models.Recommendation) error {
	s.recs = append(s.recs, rec)
	return nil
}

func (s *memRecStore) FindLatest(_ context.Context, symbol string) (*models.Recommendation, error) {
	for i := len(s.recs) - 1; i >= 0; i-- {
		if s.recs[i].Symbol == symbol {
			return s.recs[i], nil
		}
	}
	return nil, nil
}

type memInsStore struct {
	insights []*models.InvestmentInsight
}

func (s *memInsStore) Save(_ context.Context, ins *models.InvestmentInsight) error {
	s.insights = append(s.insights, ins)
	return nil
}

func (s *memInsStore) FindLatest(_ context.Context, symbol string) (*models.InvestmentInsight, error) {
	for i := len(s.insights) - 1; i >= 0; i-- {
		if s.insights[i].Symbol == symbol {
			return s.insights[i], nil
		}
	}
	return nil, nil
}

type emptySource struct{}

func (emptySource) Fetch(context.Context, string) ([]models.PricePoint, error) {
	return nil, nil
}

func newTestPipeline(backend *stubBackend) (*Pipeline, *memPointStore, *memRecStore, *memInsStore) {
	points := &memPointStore{}
	recs := &memRecStore{}
	insights := &memInsStore{}
	p := NewPipeline(PipelineDeps{
		Source:              marketdata.NewFakeSource(),
		PricePointStore:     points,
		RecommendationStore: recs,
		InsightStore:        insights,
		AIBackend:           backend,
		PromptVersion:       "1.0",
	})
	return p, points, recs, insights
}

func TestPipelineRunEndToEnd(t *testing.T) {
	backend := &stubBackend{out: validProviderOutput()}
	p, points, recs, insights := newTestPipeline(backend)

	summary, err := p.Run(context.Background(), "BTC-USD", domrepo.Res1d)
	require.NoError(t, err)

	assert.Equal(t, "BTC-USD", summary.AssetSymbol)
	assert.Equal(t, "1d", summary.Resolution)
	assert.Equal(t, 30, summary.IngestedCount)
	assert.True(t, summary.IndicatorComputed)
	assert.True(t, summary.AnalysisGenerated)
	assert.True(t, summary.InsightGenerated)
	assert.Equal(t, "BUY", summary.RecommendationAction)
	assert.False(t, summary.ExecutedAt.IsZero())

	assert.Len(t, points.saved, 30)
	assert.Equal(t, domrepo.Res1d, points.resolution)
	require.Len(t, recs.recs, 1)
	require.Len(t, insights.insights, 1)
	assert.Len(t, insights.insights[0].InputSnapshotHash, 64)
	assert.Equal(t, 1, backend.calls)
}

func TestPipelineRunNoData(t *testing.T) {
	recs := &memRecStore{}
	insights := &memInsStore{}
	p := NewPipeline(PipelineDeps{
		Source:              emptySource{},
		PricePointStore:     &memPointStore{},
		RecommendationStore: recs,
		InsightStore:        insights,
		AIBackend:           &stubBackend{out: validProviderOutput()},
		PromptVersion:       "1.0",
	})

	_, err := p.Run(context.Background(), "NOPE", domrepo.Res1d)
	var nde *models.NoDataError
	require.ErrorAs(t, err, &nde)
	assert.Equal(t, "NOPE", nde.Symbol)
	assert.Empty(t, recs.recs)
	assert.Empty(t, insights.insights)
}

func TestPipelineRunInvalidAIOutput(t *testing.T) {
	out := validProviderOutput()
	out["recommendation"].(map[string]interface{})["action"] = "INVALID"
	backend := &stubBackend{out: out}
	p, points, recs, insights := newTestPipeline(backend)

	_, err := p.Run(context.Background(), "BTC-USD", domrepo.Res1d)
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)

	// raw points still land, but nothing derived from the bad output persists
	assert.NotEmpty(t, points.saved)
	assert.Empty(t, recs.recs)
	assert.Empty(t, insights.insights)
}

func TestPipelineRunBackendFailure(t *testing.T) {
	backend := &stubBackend{err: assert.AnError}
	p, _, recs, insights := newTestPipeline(backend)

	_, err := p.Run(context.Background(), "BTC-USD", domrepo.Res1d)
	var be *models.BackendError
	require.ErrorAs(t, err, &be)
	assert.Empty(t, recs.recs)
	assert.Empty(t, insights.insights)
}

func TestLatestQueryAfterRun(t *testing.T) {
	backend := &stubBackend{out: validProviderOutput()}
	p, _, recs, insights := newTestPipeline(backend)

	_, err := p.Run(context.Background(), "BTC-USD", domrepo.Res1d)
	require.NoError(t, err)

	q := NewLatestQuery(recs, insights)
	rec, err := q.LatestRecommendation(context.Background(), "BTC-USD")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, models.ActionBuy, rec.Action)

	ins, err := q.LatestInsight(context.Background(), "BTC-USD")
	require.NoError(t, err)
	require.NotNil(t, ins)
	assert.NotEmpty(t, ins.InputSnapshotHash)

	_, err = q.LatestRecommendation(context.Background(), "  ")
	assert.Error(t, err)
}
