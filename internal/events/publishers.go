package events

import (
	"context"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/example/ec-storefront/internal/infrastructure/kafka"
)

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// OfType returns the recorded events with the given type.
func (r *Recorder) OfType(typ Type) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

// LogPublisher writes events to a logger. SyncFailed is logged as a warning.
type LogPublisher struct {
	logger logrus.FieldLogger
}

func NewLogPublisher(logger logrus.FieldLogger) *LogPublisher {
	return &LogPublisher{logger: logger.WithField("component", "events")}
}

func (p *LogPublisher) Publish(_ context.Context, e Event) error {
	entry := p.logger.WithFields(logrus.Fields{
		"event":   e.Type,
		"user_id": e.UserID,
	})
	if e.Collection != "" {
		entry = entry.WithField("collection", e.Collection)
	}
	if e.Type == SyncFailed {
		entry.WithField("operation", e.Operation).Warn(e.Error)
		return nil
	}
	entry.Info("state event")
	return nil
}

// KafkaPublisher sends events to a topic keyed by user id.
type KafkaPublisher struct {
	producer *kafka.Producer
}

func NewKafkaPublisher(producer *kafka.Producer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	key := "guest"
	if e.UserID != 0 {
		key = strconv.FormatInt(e.UserID, 10)
	}
	return p.producer.Publish(ctx, key, e, map[string]string{"event-type": string(e.Type)})
}
