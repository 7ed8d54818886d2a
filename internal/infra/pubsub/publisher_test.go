package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"market/config"
	"market/internal/domain/constants"
	"market/internal/domain/service"

	"firebase.google.com/go/v4/messaging"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func statusEvent() *service.MarketEvent {
	return &service.MarketEvent{
		Name:       service.EventOrderStatusUpdated,
		RequestID:  "req-1",
		ActorID:    uuid.New(),
		OrderID:    uuid.NewString(),
		StoreID:    7,
		BuyerID:    uuid.NewString(),
		Status:     "shipped",
		OccurredAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestEventAttributes(t *testing.T) {
	event := statusEvent()

	attrs := eventAttributes(event)

	assert.Equal(t, "orderStatusUpdated", attrs["event"])
	assert.Equal(t, "7", attrs["store_id"])
	assert.Equal(t, "shipped", attrs["status"])
	assert.Equal(t, "req-1", attrs["request_id"])
	assert.Equal(t, event.OrderID, eventKey(event))

	cartEvent := &service.MarketEvent{Name: service.EventCartUpdated, BuyerID: "buyer"}
	assert.NotContains(t, eventAttributes(cartEvent), "store_id")
	assert.Equal(t, "buyer", eventKey(cartEvent))
}

func TestLocalHTTPPublisher_Publish(t *testing.T) {
	var received PubSubPushMessage
	var requestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("X-Request-Id")
		_ = json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	event := statusEvent()
	publisher := NewLocalHTTPPublisher(server.URL, discardLogger())

	require.NoError(t, publisher.Publish(context.Background(), event))

	assert.Equal(t, "req-1", requestID)
	assert.Equal(t, "shipped", received.Message.Attributes["status"])
	data, err := base64.StdEncoding.DecodeString(received.Message.Data)
	require.NoError(t, err)
	var decoded service.MarketEvent
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, event.OrderID, decoded.OrderID)
	assert.Equal(t, event.Name, decoded.Name)
}

func TestLocalHTTPPublisher_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, discardLogger())

	assert.Error(t, publisher.Publish(context.Background(), statusEvent()))
}

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   int
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)

	return nil
}

func (w *fakeWriter) Close() error {
	w.closed++

	return nil
}

func TestKafkaPublisher(t *testing.T) {
	writer := &fakeWriter{}
	publisher := newKafkaPublisher(writer, "market-events", discardLogger())
	event := statusEvent()

	require.NoError(t, publisher.Publish(context.Background(), event))
	require.Len(t, writer.messages, 1)
	assert.Equal(t, event.OrderID, string(writer.messages[0].Key))
	assert.Equal(t, event.OccurredAt, writer.messages[0].Time)

	headers := map[string]string{}
	for _, h := range writer.messages[0].Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "orderStatusUpdated", headers["event"])

	require.NoError(t, publisher.Close())
	require.NoError(t, publisher.Close())
	assert.Equal(t, 1, writer.closed)
	assert.ErrorIs(t, publisher.Publish(context.Background(), event), ErrPublisherClosed)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	writer := &fakeWriter{err: errors.New("leader not available")}
	publisher := newKafkaPublisher(writer, "market-events", discardLogger())

	err := publisher.Publish(context.Background(), statusEvent())

	assert.ErrorContains(t, err, "leader not available")
}

func TestNewKafkaPublisher_Validation(t *testing.T) {
	_, err := NewKafkaPublisher(nil, discardLogger())
	assert.Error(t, err)

	_, err = NewKafkaPublisher(&config.KafkaConfig{Brokers: []string{"localhost:9092"}}, discardLogger())
	assert.Error(t, err)

	publisher, err := NewKafkaPublisher(&config.KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "t"}, discardLogger())
	require.NoError(t, err)
	assert.NoError(t, publisher.Close())
}

type fakeSender struct {
	messages []*messaging.Message
}

func (s *fakeSender) Send(_ context.Context, message *messaging.Message) (string, error) {
	s.messages = append(s.messages, message)

	return "id", nil
}

func TestFCMPublisher(t *testing.T) {
	sender := &fakeSender{}
	publisher := &fcmPublisher{sender: sender, logger: discardLogger()}
	event := statusEvent()

	require.NoError(t, publisher.Publish(context.Background(), event))

	require.Len(t, sender.messages, 2)
	assert.Equal(t, "store-7", sender.messages[0].Topic)
	assert.Equal(t, "buyer-"+event.BuyerID, sender.messages[1].Topic)
	assert.Equal(t, "shipped", sender.messages[0].Data["status"])
	assert.Contains(t, sender.messages[0].Notification.Body, "shipped")

	sender.messages = nil
	require.NoError(t, publisher.Publish(context.Background(), &service.MarketEvent{Name: service.EventCartUpdated}))
	assert.Empty(t, sender.messages)
}

func TestNewEventPublisher(t *testing.T) {
	newParams := func(cfg *config.PubSubConfig) PublisherParams {
		return PublisherParams{
			Lc:     fxtest.NewLifecycle(t),
			Ctx:    context.Background(),
			Config: &config.Config{PubSub: cfg},
			Logger: discardLogger(),
		}
	}

	publisher, err := NewEventPublisher(newParams(nil))
	require.NoError(t, err)
	assert.IsType(t, &noopPublisher{}, publisher)
	assert.NoError(t, publisher.Publish(context.Background(), statusEvent()))

	publisher, err = NewEventPublisher(newParams(&config.PubSubConfig{Provider: constants.PubSubProviderNoop}))
	require.NoError(t, err)
	assert.IsType(t, &noopPublisher{}, publisher)

	publisher, err = NewEventPublisher(newParams(&config.PubSubConfig{
		Provider:      constants.PubSubProviderLocal,
		LocalEndpoint: "http://localhost:8085/events",
	}))
	require.NoError(t, err)
	assert.IsType(t, &localHTTPPublisher{}, publisher)

	_, err = NewEventPublisher(newParams(&config.PubSubConfig{Provider: constants.PubSubProviderLocal}))
	assert.Error(t, err)

	_, err = NewEventPublisher(newParams(&config.PubSubConfig{Provider: constants.PubSubProviderGoogle}))
	assert.Error(t, err)

	_, err = NewEventPublisher(newParams(&config.PubSubConfig{Provider: constants.PubSubProviderKafka}))
	assert.Error(t, err)

	_, err = NewEventPublisher(newParams(&config.PubSubConfig{Provider: "sqs"}))
	assert.Error(t, err)
}
