package repository

import (
	"context"

	"StockCast/internal/domain/models"
	"StockCast/internal/domain/repository"
	pkgkafka "StockCast/pkg/kafka"
)

// KafkaEventPublisher emits training lifecycle events, keyed by ticker so
// per-ticker ordering is preserved under the hash balancer.
type KafkaEventPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaEventPublisher creates a Kafka-backed event publisher.
func NewKafkaEventPublisher(producer *pkgkafka.Producer, topic string) repository.EventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

func (p *KafkaEventPublisher) PublishTrainingEvent(ctx context.Context, ev models.TrainingEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(ev.Ticker), ev)
}

func (p *KafkaEventPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
