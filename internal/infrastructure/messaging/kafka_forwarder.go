package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/event"
	"go.uber.org/zap"
)

// MessageWriter is the subset of *kafka.Writer the forwarder needs
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaConfig configures the forwarder's writer
type KafkaConfig struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

// NewKafkaWriter builds a writer for the configured topic. Messages with the
// same key (the aggregate ID) land on the same partition, so consumers see an
// order's events in sequence.
func NewKafkaWriter(cfg KafkaConfig) *kafka.Writer {
	timeout := cfg.WriteTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		WriteTimeout:           timeout,
		AllowAutoTopicCreation: true,
	}
}

// KafkaForwarder republishes in-process domain events to a Kafka topic.
// Delivery is best effort: a failed write is logged and reported to the bus.
type KafkaForwarder struct {
	writer     MessageWriter
	serializer *event.EventSerializer
	eventTypes []string
	logger     *zap.Logger
}

// NewKafkaForwarder creates a forwarder for the given event types. No types
// means every event.
func NewKafkaForwarder(writer MessageWriter, serializer *event.EventSerializer, logger *zap.Logger, eventTypes ...string) *KafkaForwarder {
	return &KafkaForwarder{
		writer:     writer,
		serializer: serializer,
		eventTypes: eventTypes,
		logger:     logger,
	}
}

// EventTypes implements shared.EventHandler
func (f *KafkaForwarder) EventTypes() []string {
	return f.eventTypes
}

// Handle implements shared.EventHandler
func (f *KafkaForwarder) Handle(ctx context.Context, evt shared.DomainEvent) error {
	payload, err := f.serializer.Serialize(evt)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", evt.EventType(), err)
	}

	msg := kafka.Message{
		Key:   []byte(evt.AggregateID().String()),
		Value: payload,
		Time:  evt.OccurredAt(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(evt.EventType())},
			{Key: "event_id", Value: []byte(evt.EventID().String())},
			{Key: "aggregate_type", Value: []byte(evt.AggregateType())},
		},
	}
	if err := f.writer.WriteMessages(ctx, msg); err != nil {
		f.logger.Warn("Failed to forward event to Kafka",
			zap.String("event_type", evt.EventType()),
			zap.String("event_id", evt.EventID().String()),
			zap.Error(err))
		return fmt.Errorf("failed to write %s to kafka: %w", evt.EventType(), err)
	}
	return nil
}

// Close flushes and closes the writer
func (f *KafkaForwarder) Close() error {
	return f.writer.Close()
}

var _ shared.EventHandler = (*KafkaForwarder)(nil)
