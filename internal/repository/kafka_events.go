package repository

import (
	"context"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
	pkgkafka "MarketLens/pkg/kafka"
	applogger "MarketLens/pkg/logger"
)

// KafkaEventPublisher emits pipeline run summaries to a Kafka topic, keyed by
// symbol so per-symbol ordering holds with a hash balancer.
type KafkaEventPublisher struct {
	producer *pkgkafka.Producer
	topic    string
	l        *applogger.Logger
}

var _ domrepo.EventPublisher = (*KafkaEventPublisher)(nil)

func NewKafkaEventPublisher(producer *pkgkafka.Producer, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

// SetLogger injects a structured logger.
func (p *KafkaEventPublisher) SetLogger(l *applogger.Logger) { p.l = l }

func (p *KafkaEventPublisher) PublishRunSummary(ctx context.Context, summary *models.PipelineSummary) error {
	err := p.producer.Publish(ctx, p.topic, []byte(summary.AssetSymbol), summary)
	if err != nil {
		if p.l != nil {
			p.l.Warn("kafka publish run summary failed",
				applogger.String("symbol", summary.AssetSymbol),
				applogger.Error(err),
			)
		}
		return err
	}
	if p.l != nil {
		p.l.Debug("kafka run summary published",
			applogger.String("symbol", summary.AssetSymbol),
			applogger.String("topic", p.topic),
		)
	}
	return nil
}

func (p *KafkaEventPublisher) Close() error {
	return p.producer.Close()
}

// NopEventPublisher is used when Kafka is disabled.
type NopEventPublisher struct{}

var _ domrepo.EventPublisher = (*NopEventPublisher)(nil)

func NewNopEventPublisher() *NopEventPublisher { return &NopEventPublisher{} }

func (p *NopEventPublisher) PublishRunSummary(context.Context, *models.PipelineSummary) error {
	return nil
}

func (p *NopEventPublisher) Close() error { return nil }
