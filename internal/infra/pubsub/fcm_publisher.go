package pubsub

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"market/internal/domain/service"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

// messageSender is the part of *messaging.Client the publisher needs.
type messageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// fcmPublisher pushes events to Firebase Cloud Messaging topics. Seller
// dashboards subscribe to store-{id}; buyer devices subscribe to buyer-{id}.
type fcmPublisher struct {
	sender messageSender
	logger *slog.Logger
}

// NewFCMPublisher initializes the Firebase app. Without a credentials file the
// application default credentials are used.
func NewFCMPublisher(ctx context.Context, projectID, credentialsPath string, logger *slog.Logger) (service.EventPublisher, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	var appConfig *firebase.Config
	if projectID != "" {
		appConfig = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, appConfig, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize Firebase app")
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get messaging client")
	}

	return &fcmPublisher{sender: client, logger: logger}, nil
}

// Publish sends one data message per interested topic
func (p *fcmPublisher) Publish(ctx context.Context, event *service.MarketEvent) error {
	topics := fcmTopics(event)
	if len(topics) == 0 {
		p.logger.Debug("[FCM] Event has no audience, skipping", slog.String("event", string(event.Name)))

		return nil
	}

	data := eventAttributes(event)
	title, body := fcmNotificationText(event)

	for _, topic := range topics {
		message := &messaging.Message{
			Topic: topic,
			Data:  data,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
		}
		if _, err := p.sender.Send(ctx, message); err != nil {
			return errors.Wrapf(err, "failed to send %s to topic %s", event.Name, topic)
		}
	}

	return nil
}

// Close releases resources (no-op for the messaging client)
func (p *fcmPublisher) Close() error {
	return nil
}

func fcmTopics(event *service.MarketEvent) []string {
	var topics []string
	if event.StoreID != 0 {
		topics = append(topics, "store-"+strconv.FormatInt(event.StoreID, 10))
	}
	if event.BuyerID != "" {
		topics = append(topics, "buyer-"+event.BuyerID)
	}

	return topics
}

func fcmNotificationText(event *service.MarketEvent) (title, body string) {
	switch event.Name {
	case service.EventOrderCreated:
		return "新訂單", fmt.Sprintf("訂單 %s 已成立", event.OrderID)
	case service.EventOrderStatusUpdated:
		return "訂單狀態更新", fmt.Sprintf("訂單 %s 狀態變更為 %s", event.OrderID, event.Status)
	default:
		return "購物車已更新", "購物車內容已變更"
	}
}
