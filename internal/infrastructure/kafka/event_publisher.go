package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/bibbank/mortgageflex/internal/domain/event"
	pkgkafka "github.com/bibbank/mortgageflex/pkg/kafka"
)

// Producer is the subset of pkg/kafka.Producer the publisher needs.
type Producer interface {
	Publish(ctx context.Context, topic string, messages ...pkgkafka.Message) error
}

// EventPublisher implements port.EventPublisher on a Kafka topic. Events are
// keyed by aggregate ID so every event for one adjustment stays ordered.
type EventPublisher struct {
	producer Producer
	topic    string
	logger   *slog.Logger
}

func NewEventPublisher(producer Producer, topic string, logger *slog.Logger) *EventPublisher {
	return &EventPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// Publish serialises events as JSON and sends them in one batch.
func (p *EventPublisher) Publish(ctx context.Context, events ...event.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	messages := make([]pkgkafka.Message, 0, len(events))
	for _, evt := range events {
		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", evt.EventType(), err)
		}

		headers := map[string]string{
			"event_id":       evt.EventID(),
			"event_type":     evt.EventType(),
			"aggregate_type": evt.AggregateType(),
		}
		otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(headers))

		p.logger.DebugContext(ctx, "publishing event",
			slog.String("topic", p.topic),
			slog.String("event_type", evt.EventType()),
			slog.String("aggregate_id", evt.AggregateID()),
			slog.Int("payload_size", len(payload)),
		)

		messages = append(messages, pkgkafka.Message{
			Key:     []byte(evt.AggregateID()),
			Value:   payload,
			Headers: headers,
		})
	}

	if err := p.producer.Publish(ctx, p.topic, messages...); err != nil {
		return fmt.Errorf("publish events to %s: %w", p.topic, err)
	}
	return nil
}
