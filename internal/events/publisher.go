package events

import (
	"context"

	"github.com/KillerWBI/ToolsBackEnd/pkg/kafka"
	"github.com/KillerWBI/ToolsBackEnd/pkg/logger"
)

// Publisher emits rental events keyed by tool ID so events for one tool
// stay ordered within a partition.
type Publisher interface {
	Publish(ctx context.Context, eventType string, toolID string, payload any) error
	Close() error
}

type messagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	producer messagePublisher
	source   string
	log      *logger.Logger
}

func NewPublisher(producer messagePublisher, source string, log *logger.Logger) Publisher {
	return &kafkaPublisher{
		producer: producer,
		source:   source,
		log:      log,
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, eventType string, toolID string, payload any) error {
	msg := kafka.NewMessage().
		WithKey(toolID).
		WithValue(payload).
		WithEventType(eventType).
		WithSource(p.source).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("failed to publish event",
			"event_type", eventType,
			"tool_id", toolID,
			"error", err,
		)
		return err
	}
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

// NopPublisher discards events. Used when the broker is not configured,
// so services keep working without Kafka.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, eventType string, toolID string, payload any) error {
	return nil
}

func (NopPublisher) Close() error { return nil }
