package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
	icache "MarketLens/internal/service/cache"
	"MarketLens/internal/service/ratelimit"
	"MarketLens/internal/usecase"
	xhttp "MarketLens/pkg/http"
	xlogger "MarketLens/pkg/logger"
	xutil "MarketLens/pkg/util"
)

const defaultLatestCacheTTL = 30 * time.Second

// PipelineHandler exposes the analysis pipeline and its read paths over HTTP.
type PipelineHandler struct {
	pipeline *usecase.Pipeline
	latest   *usecase.LatestQuery
	points   domrepo.PricePointStore
	events   domrepo.EventPublisher
	cache    icache.BytesCache
	cacheTTL time.Duration
	rl       *ratelimit.Limiter
	logger   *xlogger.Logger
}

func NewPipelineHandler(logger *xlogger.Logger, pipeline *usecase.Pipeline, latest *usecase.LatestQuery, points domrepo.PricePointStore, events domrepo.EventPublisher) *PipelineHandler {
	return &PipelineHandler{
		pipeline: pipeline,
		latest:   latest,
		points:   points,
		events:   events,
		rl:       ratelimit.New(),
		logger:   logger,
	}
}

// SetCache enables read-path caching for latest recommendation/insight.
// A non-positive ttl falls back to the default.
func (h *PipelineHandler) SetCache(c icache.BytesCache, ttl time.Duration) {
	if ttl <= 0 {
		ttl = defaultLatestCacheTTL
	}
	h.cache = c
	h.cacheTTL = ttl
}

func (h *PipelineHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1")
	g.POST("/pipeline/run", h.Run)
	g.GET("/recommendations/latest", h.LatestRecommendation)
	g.GET("/insights/latest", h.LatestInsight)
	g.GET("/market-data", h.MarketData)
}

// Run executes the full pipeline for one symbol. Concurrent runs for the same
// symbol are admitted through a token bucket; overflow gets 429.
func (h *PipelineHandler) Run(c echo.Context) error {
	req := &models.RunPipelineRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	resolution := domrepo.NormalizeResolution(req.Resolution)

	if !h.rl.Allow("run:"+req.Symbol, 2, 0.2) {
		h.logger.Warn("pipeline run rate limited", xlogger.String("symbol", req.Symbol))
		return xhttp.DataResponse(c, http.StatusTooManyRequests, "rate limited")
	}

	summary, err := h.pipeline.Run(c.Request().Context(), req.Symbol, resolution)
	if err != nil {
		h.logger.Error("pipeline run error",
			xlogger.String("symbol", req.Symbol),
			xlogger.Error(err),
		)
		return xhttp.AppErrorResponse(c, mapPipelineError(err))
	}

	if err := h.events.PublishRunSummary(c.Request().Context(), summary); err != nil {
		// best-effort; the run itself already succeeded
		h.logger.Warn("run summary publish failed",
			xlogger.String("symbol", req.Symbol),
			xlogger.Error(err),
		)
	}

	return xhttp.SuccessResponse(c, summary)
}

func (h *PipelineHandler) LatestRecommendation(c echo.Context) error {
	req := &models.LatestRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	cacheKey := "rec:latest:" + req.Symbol
	if b, ok := h.cacheGet(cacheKey); ok {
		return jsonBlob(c, b)
	}

	rec, err := h.latest.LatestRecommendation(c.Request().Context(), req.Symbol)
	if err != nil {
		h.logger.Error("latest recommendation error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapPipelineError(err))
	}
	if rec == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("no recommendation for symbol %s", req.Symbol))
	}

	h.cacheSet(cacheKey, rec)
	return xhttp.SuccessResponse(c, rec)
}

func (h *PipelineHandler) LatestInsight(c echo.Context) error {
	req := &models.LatestRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	cacheKey := "insight:latest:" + req.Symbol
	if b, ok := h.cacheGet(cacheKey); ok {
		return jsonBlob(c, b)
	}

	ins, err := h.latest.LatestInsight(c.Request().Context(), req.Symbol)
	if err != nil {
		h.logger.Error("latest insight error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapPipelineError(err))
	}
	if ins == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("no insight for symbol %s", req.Symbol))
	}

	h.cacheSet(cacheKey, ins)
	return xhttp.SuccessResponse(c, ins)
}

func (h *PipelineHandler) MarketData(c echo.Context) error {
	req := &models.MarketDataRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	points, err := h.points.FindBySymbol(c.Request().Context(), req.Symbol)
	if err != nil {
		h.logger.Error("market data query error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("market data query failed").WithError(err))
	}

	if req.From != "" || req.To != "" {
		from := xutil.ParseTimeDefault(req.From, time.Time{})
		to := xutil.ParseTimeDefault(req.To, time.Now().UTC())
		from, to = xutil.AlignFromTo(from, to, req.Resolution)
		points = clipRange(points, from, to)
	}
	if len(points) > req.Limit {
		points = points[len(points)-req.Limit:]
	}

	return xhttp.ListResponse(c, points, int64(len(points)))
}

func (h *PipelineHandler) cacheGet(key string) ([]byte, bool) {
	if h.cache == nil {
		return nil, false
	}
	b, ok, err := h.cache.GetBytes(key)
	if err != nil {
		h.logger.Warn("cache get error", xlogger.String("key", key), xlogger.Error(err))
		return nil, false
	}
	return b, ok
}

func (h *PipelineHandler) cacheSet(key string, v interface{}) {
	if h.cache == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := h.cache.SetBytes(key, b, h.cacheTTL); err != nil {
		h.logger.Warn("cache set error", xlogger.String("key", key), xlogger.Error(err))
	}
}

// clipRange keeps points whose timestamps fall within [from, to] inclusive.
// Input order is preserved.
func clipRange(points []models.PricePoint, from, to time.Time) []models.PricePoint {
	out := make([]models.PricePoint, 0, len(points))
	for _, p := range points {
		if p.Timestamp.Before(from) || p.Timestamp.After(to) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func jsonBlob(c echo.Context, b []byte) error {
	var v json.RawMessage = b
	return xhttp.SuccessResponse(c, v)
}

// mapPipelineError translates domain errors into HTTP application errors.
func mapPipelineError(err error) error {
	var nde *models.NoDataError
	if errors.As(err, &nde) {
		return xhttp.NotFoundError(nde.Error()).WithError(err)
	}
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		return xhttp.NewAppError("ERR_AI_OUTPUT", ve.Field, ve.Error(), http.StatusBadGateway).WithError(err)
	}
	var be *models.BackendError
	if errors.As(err, &be) {
		return xhttp.NewAppError("ERR_BACKEND", "", be.Error(), http.StatusBadGateway).WithError(err)
	}
	var pe *models.PersistenceError
	if errors.As(err, &pe) {
		return xhttp.InternalError(pe.Error()).WithError(err)
	}
	return xhttp.InternalError(err.Error()).WithError(err)
}
