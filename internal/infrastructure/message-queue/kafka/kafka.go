package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alimikegami/point-of-sales/product-quantity-service/config"
	"github.com/alimikegami/point-of-sales/product-quantity-service/internal/dto"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker/v2"
)

const (
	maxRetries = 3

	// upper bound for one Publish call, retries and backoff included
	publishTimeout = 2 * time.Second
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes events to a single topic through a circuit breaker.
type Publisher struct {
	writer  messageWriter
	cb      *gobreaker.CircuitBreaker[[]byte]
	backoff time.Duration
	timeout time.Duration
}

func CreateKafkaPublisher(config *config.Config, cb *gobreaker.CircuitBreaker[[]byte]) *Publisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(config.KafkaConfig.BrokerAddress),
		Topic:                  config.KafkaConfig.BrokerTopic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		WriteTimeout:           publishTimeout,
		AllowAutoTopicCreation: true,
	}

	return &Publisher{writer: writer, cb: cb, backoff: 100 * time.Millisecond, timeout: publishTimeout}
}

func (p *Publisher) Publish(ctx context.Context, key string, msg dto.KafkaMessage) (err error) {
	jsonMsg, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal Kafka message: %w", err)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	for i := 0; i < maxRetries; i++ {
		_, err = p.cb.Execute(func() ([]byte, error) {
			return jsonMsg, p.writer.WriteMessages(ctx, kafka.Message{
				Key:   []byte(key),
				Value: jsonMsg,
			})
		})
		if err == nil {
			return nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			break
		}

		log.Ctx(ctx).Warn().Err(err).Str("component", "Publish").Msgf("Failed to write Kafka message (attempt %d/%d)", i+1, maxRetries)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.backoff * time.Duration(i+1)):
		}
	}

	return fmt.Errorf("failed to write Kafka message after %d attempts: %w", maxRetries, err)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, key string, msg dto.KafkaMessage) error {
	log.Ctx(ctx).Debug().Str("component", "Publish").Str("event_type", msg.EventType).Msg("no broker configured, event dropped")
	return nil
}

func (NoopPublisher) Close() error {
	return nil
}
