package pubsub

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"

	"market/config"
	"market/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
)

const defaultKafkaBatchTimeout = 50 * time.Millisecond

// ErrPublisherClosed is returned when publishing after Close.
var ErrPublisherClosed = errors.New("publisher is closed")

// messageWriter is the part of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// kafkaPublisher implements EventPublisher with a synchronous kafka writer
type kafkaPublisher struct {
	writer messageWriter
	topic  string
	logger *slog.Logger
	closed atomic.Bool
}

// NewKafkaPublisher creates a publisher writing to cfg.Topic. Messages are keyed
// by order (or buyer) so one entity's events stay on one partition.
func NewKafkaPublisher(cfg *config.KafkaConfig, logger *slog.Logger) (service.EventPublisher, error) {
	if cfg == nil || len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers are required for kafka provider")
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka topic is required for kafka provider")
	}

	batchTimeout := cfg.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = defaultKafkaBatchTimeout
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: batchTimeout,
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			logger.Error("kafka writer error", "message", msg, "args", args)
		}),
	}

	return newKafkaPublisher(writer, cfg.Topic, logger), nil
}

func newKafkaPublisher(writer messageWriter, topic string, logger *slog.Logger) *kafkaPublisher {
	return &kafkaPublisher{writer: writer, topic: topic, logger: logger}
}

// Publish writes the event and blocks until the brokers acknowledge it
func (p *kafkaPublisher) Publish(ctx context.Context, event *service.MarketEvent) error {
	if p.closed.Load() {
		return ErrPublisherClosed
	}

	value, err := json.Marshal(event)
	if err != nil {
		return errors.WithStack(err)
	}

	attributes := eventAttributes(event)
	headers := make([]kafka.Header, 0, len(attributes))
	for k, v := range attributes {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}

	msg := kafka.Message{
		Key:     []byte(eventKey(event)),
		Value:   value,
		Headers: headers,
		Time:    event.OccurredAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return errors.Wrapf(err, "failed to write %s to %s", event.Name, p.topic)
	}

	p.logger.Debug("[Kafka] Event published",
		slog.String("topic", p.topic),
		slog.String("event", string(event.Name)),
	)

	return nil
}

// Close flushes pending writes and closes the writer
func (p *kafkaPublisher) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}

	return errors.WithStack(p.writer.Close())
}
