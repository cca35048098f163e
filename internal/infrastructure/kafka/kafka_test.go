package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

// fakeReader replays queued messages then blocks until the context ends.
type fakeReader struct {
	queue []kafka.Message
	errs  []error
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.errs) > 0 {
		err := r.errs[0]
		r.errs = r.errs[1:]
		return kafka.Message{}, err
	}
	if len(r.queue) > 0 {
		m := r.queue[0]
		r.queue = r.queue[1:]
		return m, nil
	}
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) Close() error { return nil }

func TestProducer_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducerWithWriter(w, "storefront.events", quietLogger())

	err := p.Publish(context.Background(), "user-1", map[string]int{"count": 2}, map[string]string{"event-type": "CartSynced"})
	require.NoError(t, err)

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, "user-1", string(msg.Key))
	assert.JSONEq(t, `{"count":2}`, string(msg.Value))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "event-type", msg.Headers[0].Key)
	assert.Equal(t, "CartSynced", string(msg.Headers[0].Value))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestProducer_PublishErrors(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := NewProducerWithWriter(w, "t", quietLogger())

	err := p.Publish(context.Background(), "k", struct{}{}, nil)
	assert.ErrorContains(t, err, "broker down")

	err = p.Publish(context.Background(), "k", make(chan int), nil)
	assert.ErrorContains(t, err, "marshal event")
}

func TestConsumer_Consume(t *testing.T) {
	payload, _ := json.Marshal(map[string]string{"type": "LoggedIn"})
	r := &fakeReader{
		errs: []error{errors.New("transient")},
		queue: []kafka.Message{
			{Key: []byte("a"), Value: payload, Offset: 4, Headers: []kafka.Header{{Key: "event-type", Value: []byte("LoggedIn")}}},
			{Key: []byte("b"), Value: payload, Offset: 5},
		},
	}
	c := NewConsumerWithReader(r, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	var got []Message
	err := c.Consume(ctx, func(ctx context.Context, msg Message) error {
		got = append(got, msg)
		if len(got) == 2 {
			cancel()
		}
		return errors.New("handler errors are logged")
	})

	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, got, 2)
	assert.Equal(t, "a", string(got[0].Key))
	assert.Equal(t, "LoggedIn", got[0].Headers["event-type"])
	assert.Equal(t, int64(5), got[1].Offset)
	assert.NoError(t, c.Close())
}
