package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// MessageWriter is the part of *kafka.Writer the producer depends on.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer MessageWriter
	topic  string
	logger logrus.FieldLogger
}

func NewProducer(brokers []string, topic string, logger logrus.FieldLogger) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return NewProducerWithWriter(writer, topic, logger)
}

// NewProducerWithWriter wraps an existing writer, typically a fake in tests.
func NewProducerWithWriter(writer MessageWriter, topic string, logger logrus.FieldLogger) *Producer {
	return &Producer{
		writer: writer,
		topic:  topic,
		logger: logger.WithFields(logrus.Fields{"component": "kafka", "topic": topic}),
	}
}

// Publish writes event as JSON under key. Messages sharing a key land on the
// same partition, so one user's events stay ordered.
func (p *Producer) Publish(ctx context.Context, key string, event any, headers map[string]string) error {
	data, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}
	for k, v := range headers {
		msg.Headers = append(msg.Headers, kafka.Header{Key: k, Value: []byte(v)})
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.WithError(err).WithField("key", key).Warn("publish failed")
		return errors.Wrapf(err, "write to %s", p.topic)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
