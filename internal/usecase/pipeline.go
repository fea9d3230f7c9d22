package usecase

import (
	"context"
	"time"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
	domsvc "MarketLens/internal/domain/service"
	applogger "MarketLens/pkg/logger"
)

// Pipeline sequences ingestion, persistence, indicator computation, trend
// classification, and insight generation into one unit of work. Stages run
// strictly in order; any failure aborts the run and propagates its typed
// error to the caller, which owns retry and reporting policy.
//
// The pipeline holds no cross-call mutable state, so concurrent runs for
// different symbols are safe. Per-symbol admission control is a caller
// concern.
type Pipeline struct {
	source     domrepo.MarketDataSource
	pointStore domrepo.PricePointStore
	recStore   domrepo.RecommendationStore
	insStore   domrepo.InsightStore
	indicators *IndicatorEngine
	classifier *TrendClassifier
	generator  *InsightGenerator
	metrics    domrepo.Metrics
	l          *applogger.Logger
}

// PipelineDeps bundles the collaborators a Pipeline needs.
type PipelineDeps struct {
	Source              domrepo.MarketDataSource
	PricePointStore     domrepo.PricePointStore
	RecommendationStore domrepo.RecommendationStore
	InsightStore        domrepo.InsightStore
	AIBackend           domsvc.AIBackend
	PromptVersion       string
	Metrics             domrepo.Metrics
}

func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:     deps.Source,
		pointStore: deps.PricePointStore,
		recStore:   deps.RecommendationStore,
		insStore:   deps.InsightStore,
		indicators: NewIndicatorEngine(),
		classifier: NewTrendClassifier(),
		generator:  NewInsightGenerator(deps.AIBackend, deps.PromptVersion),
		metrics:    deps.Metrics,
	}
}

// SetLogger injects a structured logger.
func (p *Pipeline) SetLogger(l *applogger.Logger) { p.l = l }

// Run executes the full analysis pipeline for one symbol at one resolution.
func (p *Pipeline) Run(ctx context.Context, symbol string, resolution domrepo.Resolution) (*models.PipelineSummary, error) {
	start := time.Now()

	points, err := p.source.Fetch(ctx, symbol)
	if err != nil {
		p.recordError("fetch")
		return nil, &models.BackendError{Op: "fetch market data", Err: err}
	}
	if len(points) == 0 {
		p.recordError("no_data")
		return nil, &models.NoDataError{Symbol: symbol}
	}

	if err := p.pointStore.Save(ctx, points, resolution); err != nil {
		p.recordError("save_points")
		return nil, &models.PersistenceError{Op: "save price points", Err: err}
	}

	indicators, err := p.indicators.Compute(points, resolution)
	if err != nil {
		p.recordError("indicators")
		return nil, err
	}

	analysis, err := p.classifier.Classify(points, indicators)
	if err != nil {
		p.recordError("classify")
		return nil, err
	}

	result, err := p.generator.Generate(ctx, analysis)
	if err != nil {
		p.recordError("insight")
		return nil, err
	}

	if err := p.insStore.Save(ctx, &result.Insight); err != nil {
		p.recordError("save_insight")
		return nil, &models.PersistenceError{Op: "save insight", Err: err}
	}
	if err := p.recStore.Save(ctx, &result.Recommendation); err != nil {
		p.recordError("save_recommendation")
		return nil, &models.PersistenceError{Op: "save recommendation", Err: err}
	}

	if p.metrics != nil {
		p.metrics.RecordPipelineRun(symbol, string(analysis.Trend))
		p.metrics.RecordLastClose(symbol, points[len(points)-1].Close)
		p.metrics.RecordLatency("pipeline_run", time.Since(start).Seconds())
	}
	if p.l != nil {
		p.l.Info("pipeline run complete",
			applogger.String("symbol", symbol),
			applogger.String("resolution", string(resolution)),
			applogger.Int("ingested", len(points)),
			applogger.String("trend", string(analysis.Trend)),
			applogger.String("action", string(result.Recommendation.Action)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}

	return &models.PipelineSummary{
		AssetSymbol:          symbol,
		Resolution:           string(resolution),
		IngestedCount:        len(points),
		IndicatorComputed:    true,
		AnalysisGenerated:    true,
		InsightGenerated:     true,
		Trend:                string(analysis.Trend),
		RecommendationAction: string(result.Recommendation.Action),
		ExecutedAt:           time.Now().UTC(),
	}, nil
}

func (p *Pipeline) recordError(kind string) {
	if p.metrics != nil {
		p.metrics.RecordError(kind)
	}
}
