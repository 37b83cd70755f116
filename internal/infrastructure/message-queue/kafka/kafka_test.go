package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alimikegami/point-of-sales/product-quantity-service/internal/dto"
	circuitbreaker "github.com/alimikegami/point-of-sales/product-quantity-service/internal/infrastructure/circuit-breaker"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu       sync.Mutex
	failures int
	calls    int
	written  []kafka.Message
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.calls++
	if w.calls <= w.failures {
		return errors.New("broker unavailable")
	}
	w.written = append(w.written, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func newTestPublisher(w *fakeWriter) *Publisher {
	return &Publisher{writer: w, cb: circuitbreaker.CreateCircuitBreaker("test")}
}

func TestPublisher_RetriesUntilWritten(t *testing.T) {
	w := &fakeWriter{failures: 1}
	p := newTestPublisher(w)

	err := p.Publish(context.Background(), "P1", dto.KafkaMessage{
		EventID:   "01J00000000000000000000000",
		EventType: dto.EventProductQuantityUpdated,
		Data:      dto.ProductQuantityResponse{ID: "abc", ProductID: "P1", NewQuantity: 5},
	})
	require.NoError(t, err)

	require.Len(t, w.written, 1)
	assert.Equal(t, "P1", string(w.written[0].Key))

	var msg map[string]interface{}
	require.NoError(t, json.Unmarshal(w.written[0].Value, &msg))
	assert.Equal(t, dto.EventProductQuantityUpdated, msg["event_type"])
	assert.Equal(t, float64(5), msg["data"].(map[string]interface{})["quantity"])
}

func TestPublisher_OpenBreakerFailsFast(t *testing.T) {
	w := &fakeWriter{failures: 100}
	p := newTestPublisher(w)

	err := p.Publish(context.Background(), "P1", dto.KafkaMessage{EventType: dto.EventProductQuantityUpdated})
	require.Error(t, err)
	assert.Equal(t, maxRetries, w.calls)

	err = p.Publish(context.Background(), "P1", dto.KafkaMessage{EventType: dto.EventProductQuantityUpdated})
	require.Error(t, err)
	assert.Equal(t, maxRetries, w.calls, "open breaker must not reach the broker")
}

// stalledWriter never completes a write and only returns once ctx is done.
type stalledWriter struct {
	calls int
}

func (w *stalledWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.calls++
	<-ctx.Done()
	return ctx.Err()
}

func (w *stalledWriter) Close() error { return nil }

func TestPublisher_StalledBrokerIsBoundedByTimeout(t *testing.T) {
	w := &stalledWriter{}
	p := &Publisher{
		writer:  w,
		cb:      circuitbreaker.CreateCircuitBreaker("stalled"),
		backoff: time.Millisecond,
		timeout: 50 * time.Millisecond,
	}

	start := time.Now()
	err := p.Publish(context.Background(), "P1", dto.KafkaMessage{EventType: dto.EventProductQuantityUpdated})
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, w.calls)
	assert.Less(t, elapsed, time.Second)
}
