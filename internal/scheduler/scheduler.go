package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	domrepo "MarketLens/internal/domain/repository"
	"MarketLens/internal/usecase"
	applogger "MarketLens/pkg/logger"
)

// Scheduler runs the pipeline for a configured symbol set on a cron
// schedule. Each tick runs symbols sequentially; a failing symbol is logged
// and does not block the rest.
type Scheduler struct {
	cron       *cron.Cron
	pipeline   *usecase.Pipeline
	events     domrepo.EventPublisher
	symbols    []string
	resolution domrepo.Resolution
	spec       string
	l          *applogger.Logger
}

func New(pipeline *usecase.Pipeline, events domrepo.EventPublisher, symbols []string, resolution domrepo.Resolution, spec string) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		pipeline:   pipeline,
		events:     events,
		symbols:    symbols,
		resolution: resolution,
		spec:       spec,
	}
}

// SetLogger injects a structured logger.
func (s *Scheduler) SetLogger(l *applogger.Logger) { s.l = l }

// Start registers the cron entry and starts the scheduler. An empty spec
// disables scheduled runs.
func (s *Scheduler) Start() error {
	if s.spec == "" {
		return nil
	}
	if _, err := s.cron.AddFunc(s.spec, s.runAll); err != nil {
		return fmt.Errorf("schedule pipeline runs: %w", err)
	}
	s.cron.Start()
	if s.l != nil {
		s.l.Info("scheduler started",
			applogger.String("spec", s.spec),
			applogger.Strings("symbols", s.symbols),
		)
	}
	return nil
}

// Stop stops the scheduler and waits for a running tick to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	for _, symbol := range s.symbols {
		summary, err := s.pipeline.Run(ctx, symbol, s.resolution)
		if err != nil {
			if s.l != nil {
				s.l.Error("scheduled pipeline run failed",
					applogger.String("symbol", symbol),
					applogger.Error(err),
				)
			}
			continue
		}
		if err := s.events.PublishRunSummary(ctx, summary); err != nil && s.l != nil {
			s.l.Warn("scheduled run summary publish failed",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
	}
}
