// Package events announces finished pipeline runs to downstream consumers.
package events

import (
	"context"
	"fmt"
	"time"

	"negociosverdes/pkg/kafka"
	kafka_config "negociosverdes/pkg/kafka/config"
	kafka_middleware "negociosverdes/pkg/kafka/middleware"
	"negociosverdes/pkg/logger"
	"negociosverdes/pkg/metrics"
)

const (
	EventTypeDatasetCleaned = "dataset.cleaned"
	SchemaVersion           = "1"
	Source                  = "negocios-verdes"
)

// DatasetCleaned is the payload of a dataset.cleaned event.
type DatasetCleaned struct {
	Version      string    `json:"version"`
	RunID        string    `json:"run_id"`
	Source       string    `json:"source"`
	Rows         int       `json:"rows"`
	Aligned      int       `json:"aligned"`
	SkippedSteps []string  `json:"skipped_steps"`
	FinishedAt   time.Time `json:"finished_at"`
}

type Publisher interface {
	PublishDatasetCleaned(ctx context.Context, event DatasetCleaned) error
	Close() error
}

type producer interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	producer producer
	log      *logger.Logger
}

// New returns a Kafka-backed publisher, or a NopPublisher when no brokers are configured.
func New(cfg *kafka_config.Config, log *logger.Logger, m *metrics.Metrics) (Publisher, error) {
	if cfg == nil || !cfg.Enabled() {
		log.Info("Kafka not configured, dataset events disabled")
		return NopPublisher{}, nil
	}

	p, err := kafka.NewProducer(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	if cfg.EnableMiddleware {
		p.Use(kafka_middleware.LoggingProducerMiddleware(log))
		p.Use(kafka_middleware.MetricsProducerMiddleware(m))
	}

	log.Info("Dataset events enabled", "topic", p.Topic())
	return newKafkaPublisher(p, log), nil
}

func newKafkaPublisher(p producer, log *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: p, log: log}
}

func (p *KafkaPublisher) PublishDatasetCleaned(ctx context.Context, event DatasetCleaned) error {
	if event.SkippedSteps == nil {
		event.SkippedSteps = []string{}
	}

	msg, err := kafka.NewMessage().
		WithKey(event.Version).
		WithValue(event).
		WithEventID("").
		WithEventType(EventTypeDatasetCleaned).
		WithCorrelationID(event.RunID).
		WithSchemaVersion(SchemaVersion).
		WithSource(Source).
		WithTimestamp(event.FinishedAt).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build %s event: %w", EventTypeDatasetCleaned, err)
	}

	if err := p.producer.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", EventTypeDatasetCleaned, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

type NopPublisher struct{}

func (NopPublisher) PublishDatasetCleaned(context.Context, DatasetCleaned) error { return nil }

func (NopPublisher) Close() error { return nil }
