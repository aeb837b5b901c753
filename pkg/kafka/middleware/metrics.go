package kafka_middleware

import (
	"context"

	"negociosverdes/pkg/kafka"
	"negociosverdes/pkg/metrics"
)

// MetricsProducerMiddleware counts publishes by outcome.
func MetricsProducerMiddleware(m *metrics.Metrics) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		err := next(ctx, msg)
		if err != nil {
			m.EventPublished("error")
			return err
		}
		m.EventPublished("success")
		return nil
	}
}
