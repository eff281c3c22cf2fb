// Package push implements the outbound notification channels over Kafka.
// The push publisher fans events out to mobile clients through a stream
// topic; the bot sender writes chat messages to an outbox topic consumed by
// the conversational bot gateway.
package push

import (
	"context"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaPushPublisher publishes push payloads to Kafka. Delivery is
// best-effort with a single broker acknowledgement; the dispatcher treats
// publication failures as droppable.
type KafkaPushPublisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

// NewKafkaPushPublisher creates a publisher over the given brokers. The
// writer carries no fixed topic; each Publish call addresses its own.
func NewKafkaPushPublisher(brokers []string, logger *slog.Logger) *KafkaPushPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	return &KafkaPushPublisher{
		writer: writer,
		logger: logger.With("component", "push_publisher"),
	}
}

// Publish writes the payload to the given topic.
func (p *KafkaPushPublisher) Publish(ctx context.Context, topic string, payload []byte) error {
	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Value: payload,
		Time:  time.Now().UTC(),
	})
}

// Close flushes and closes the underlying writer.
func (p *KafkaPushPublisher) Close() error {
	return p.writer.Close()
}
