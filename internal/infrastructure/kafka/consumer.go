package kafka

import (
	"context"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// Message is a consumed record with its headers flattened.
type Message struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
	Offset  int64
}

type MessageHandler func(ctx context.Context, msg Message) error

// MessageReader is the part of *kafka.Reader the consumer depends on.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type Consumer struct {
	reader MessageReader
	logger logrus.FieldLogger
}

// NewConsumer reads topic. An empty groupID reads without a consumer group,
// starting from the latest offset.
func NewConsumer(brokers []string, topic, groupID string, logger logrus.FieldLogger) *Consumer {
	cfg := kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	}
	if groupID == "" {
		cfg.StartOffset = kafka.LastOffset
	}
	return NewConsumerWithReader(kafka.NewReader(cfg), logger.WithField("topic", topic))
}

func NewConsumerWithReader(reader MessageReader, logger logrus.FieldLogger) *Consumer {
	return &Consumer{
		reader: reader,
		logger: logger.WithField("component", "kafka"),
	}
}

// Consume calls handler for every message until ctx is done. Read and handler
// errors are logged and do not stop the loop.
func (c *Consumer) Consume(ctx context.Context, handler MessageHandler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.WithError(err).Error("read message")
			continue
		}

		msg := Message{
			Key:     m.Key,
			Value:   m.Value,
			Offset:  m.Offset,
			Headers: make(map[string]string, len(m.Headers)),
		}
		for _, h := range m.Headers {
			msg.Headers[h.Key] = string(h.Value)
		}

		if err := handler(ctx, msg); err != nil {
			c.logger.WithError(err).WithField("offset", m.Offset).Error("handle message")
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
