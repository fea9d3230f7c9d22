package di

import (
	"context"
	"fmt"
	"time"

	"MarketLens/internal/domain/repository"
	"MarketLens/internal/handler/api"
	internalrepo "MarketLens/internal/repository"
	"MarketLens/internal/scheduler"
	icache "MarketLens/internal/service/cache"
	"MarketLens/internal/services/ai"
	"MarketLens/internal/services/marketdata"
	"MarketLens/internal/usecase"
	pkgch "MarketLens/pkg/clickhouse"
	"MarketLens/pkg/config"
	xhttp "MarketLens/pkg/http"
	pkgkafka "MarketLens/pkg/kafka"
	applogger "MarketLens/pkg/logger"
	"MarketLens/pkg/metrics"
	"MarketLens/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	return applogger.New(&applogger.Config{
		Level:  "info",
		Format: format,
		Output: "stdout",
	})
}

// ProvideClickHouseClient creates a ClickHouse client and ensures the schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.SchemaStatements(cfg.ClickHouse.Database)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideMarketDataSource selects the configured market data provider.
func ProvideMarketDataSource(cfg *config.Config, l *applogger.Logger) (repository.MarketDataSource, error) {
	switch cfg.MarketData.Provider {
	case "fake":
		return marketdata.NewFakeSource(), nil
	case "yahoo":
		src := marketdata.NewYahooSource(marketdata.YahooConfig{
			BaseURL:  cfg.MarketData.BaseURL,
			Range:    cfg.MarketData.Range,
			Interval: cfg.MarketData.Interval,
			Timeout:  cfg.MarketData.Timeout,
		})
		src.SetLogger(l)
		return src, nil
	default:
		return nil, fmt.Errorf("unknown market data provider: %s", cfg.MarketData.Provider)
	}
}

// ProvidePricePointStore creates the ClickHouse price point store.
func ProvidePricePointStore(ch *pkgch.Client, l *applogger.Logger) repository.PricePointStore {
	store := internalrepo.NewCHMarketStore(ch)
	store.SetLogger(l)
	return store
}

// ProvideRecommendationStore creates the ClickHouse recommendation store.
func ProvideRecommendationStore(ch *pkgch.Client, l *applogger.Logger) repository.RecommendationStore {
	store := internalrepo.NewCHRecommendationStore(ch)
	store.SetLogger(l)
	return store
}

// ProvideInsightStore creates the ClickHouse insight store.
func ProvideInsightStore(ch *pkgch.Client, l *applogger.Logger) repository.InsightStore {
	store := internalrepo.NewCHInsightStore(ch)
	store.SetLogger(l)
	return store
}

// ProvideAIBackend creates the Claude insight backend.
func ProvideAIBackend(cfg *config.Config, l *applogger.Logger) (*ai.ClaudeBackend, error) {
	backend, err := ai.NewClaudeBackend(ai.Config{
		APIKey:      cfg.AI.APIKey,
		Model:       cfg.AI.Model,
		MaxTokens:   cfg.AI.MaxTokens,
		Temperature: cfg.AI.Temperature,
		Timeout:     cfg.AI.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("ai backend: %w", err)
	}
	backend.SetLogger(l)
	return backend, nil
}

// ProvideEventPublisher creates the Kafka run summary publisher, or a no-op
// publisher when Kafka is disabled.
func ProvideEventPublisher(cfg *config.Config, l *applogger.Logger) (repository.EventPublisher, error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NewNopEventPublisher(), nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.ReadTimeout),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	pub := internalrepo.NewKafkaEventPublisher(producer, cfg.Kafka.Topic)
	pub.SetLogger(l)
	return pub, nil
}

// ProvidePipeline creates the analysis pipeline use case.
func ProvidePipeline(
	source repository.MarketDataSource,
	points repository.PricePointStore,
	recs repository.RecommendationStore,
	insights repository.InsightStore,
	backend *ai.ClaudeBackend,
	m repository.Metrics,
	cfg *config.Config,
	l *applogger.Logger,
) *usecase.Pipeline {
	p := usecase.NewPipeline(usecase.PipelineDeps{
		Source:              source,
		PricePointStore:     points,
		RecommendationStore: recs,
		InsightStore:        insights,
		AIBackend:           backend,
		PromptVersion:       cfg.Pipeline.PromptVersion,
		Metrics:             m,
	})
	p.SetLogger(l)
	return p
}

// ProvideLatestQuery creates the latest recommendation/insight query.
func ProvideLatestQuery(recs repository.RecommendationStore, insights repository.InsightStore) *usecase.LatestQuery {
	return usecase.NewLatestQuery(recs, insights)
}

// ProvideHTTPHandler creates the API handler with its read cache.
func ProvideHTTPHandler(
	cfg *config.Config,
	l *applogger.Logger,
	pipeline *usecase.Pipeline,
	latest *usecase.LatestQuery,
	points repository.PricePointStore,
	events repository.EventPublisher,
) xhttp.Handler {
	h := api.NewPipelineHandler(l, pipeline, latest, points, events)
	if cfg.Cache.Enabled {
		h.SetCache(icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		}), cfg.Cache.TTL)
	} else {
		h.SetCache(icache.NewTTLCache(), cfg.Cache.TTL)
	}
	return h
}

// ProvideScheduler creates the cron scheduler for periodic runs.
func ProvideScheduler(
	cfg *config.Config,
	l *applogger.Logger,
	pipeline *usecase.Pipeline,
	events repository.EventPublisher,
) *scheduler.Scheduler {
	s := scheduler.New(
		pipeline,
		events,
		cfg.Pipeline.Symbols,
		repository.NormalizeResolution(cfg.Pipeline.Resolution),
		cfg.Pipeline.Schedule,
	)
	s.SetLogger(l)
	return s
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	sched *scheduler.Scheduler,
	events repository.EventPublisher,
	chClient *pkgch.Client,
) *server.App {
	return server.New(cfg, l, handler, sched, events, chClient)
}
