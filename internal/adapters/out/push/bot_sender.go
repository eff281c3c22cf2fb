package push

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaBotSender writes chat messages to a bot outbox topic. Messages are
// keyed by chat so a single chat's messages arrive in order. The bot gateway
// consuming the topic owns the actual conversation with the messenger API.
type KafkaBotSender struct {
	writer *kafka.Writer
	logger *slog.Logger
}

type botMessage struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// NewKafkaBotSender creates a sender writing to the given outbox topic.
func NewKafkaBotSender(brokers []string, topic string, logger *slog.Logger) *KafkaBotSender {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	return &KafkaBotSender{
		writer: writer,
		logger: logger.With("component", "bot_sender"),
	}
}

// Send enqueues one chat message. An error here is transient from the
// dispatcher's point of view and subject to its retry budget.
func (s *KafkaBotSender) Send(ctx context.Context, chatID string, text string) error {
	payload, err := json.Marshal(botMessage{ChatID: chatID, Text: text})
	if err != nil {
		return err
	}

	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(chatID),
		Value: payload,
		Time:  time.Now().UTC(),
	})
}

// Close flushes and closes the underlying writer.
func (s *KafkaBotSender) Close() error {
	return s.writer.Close()
}
