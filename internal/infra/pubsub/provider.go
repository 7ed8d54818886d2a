package pubsub

import (
	"context"
	"log/slog"

	"market/config"
	"market/internal/domain/constants"
	"market/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// noopPublisher drops every event. It backs the default configuration.
type noopPublisher struct {
	logger *slog.Logger
}

func (p *noopPublisher) Publish(_ context.Context, event *service.MarketEvent) error {
	p.logger.Debug("Event bus disabled, dropping event",
		slog.String("event", string(event.Name)),
		slog.String("key", eventKey(event)),
	)

	return nil
}

func (p *noopPublisher) Close() error {
	return nil
}

// PublisherParams holds dependencies for EventPublisher, injected by Fx
type PublisherParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

type publisherBuilder func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.EventPublisher, error)

//nolint:gochecknoglobals
var publisherBuilders = map[string]publisherBuilder{
	constants.PubSubProviderLocal:  buildLocalPublisher,
	constants.PubSubProviderGoogle: buildGooglePublisher,
	constants.PubSubProviderKafka:  buildKafkaPublisher,
	constants.PubSubProviderFCM:    buildFCMPublisher,
}

// NewEventPublisher builds the publisher named by pubsub.provider and closes it
// when the application stops.
func NewEventPublisher(params PublisherParams) (service.EventPublisher, error) {
	cfg := params.Config.PubSub
	if cfg == nil || cfg.Provider == "" || cfg.Provider == constants.PubSubProviderNoop {
		params.Logger.Info("Event bus not configured, using no-op publisher")

		return &noopPublisher{logger: params.Logger}, nil
	}

	build, ok := publisherBuilders[cfg.Provider]
	if !ok {
		return nil, errors.Errorf("unknown pubsub provider: %s", cfg.Provider)
	}

	logger := params.Logger.With(slog.String("provider", cfg.Provider))
	publisher, err := build(params.Ctx, params.Config, logger)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build %s publisher", cfg.Provider)
	}
	logger.Info("Event publisher ready")

	params.Lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			logger.Info("Closing event publisher")

			return publisher.Close()
		},
	})

	return publisher, nil
}

func buildLocalPublisher(_ context.Context, cfg *config.Config, logger *slog.Logger) (service.EventPublisher, error) {
	if cfg.PubSub.LocalEndpoint == "" {
		return nil, errors.New("pubsub.localEndpoint is required")
	}

	return NewLocalHTTPPublisher(cfg.PubSub.LocalEndpoint, logger.With(slog.String("endpoint", cfg.PubSub.LocalEndpoint))), nil
}

func buildGooglePublisher(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.EventPublisher, error) {
	if cfg.PubSub.ProjectID == "" || cfg.PubSub.TopicID == "" {
		return nil, errors.New("pubsub.projectId and pubsub.topicId are required")
	}

	return NewGooglePubSubPublisher(ctx, cfg.PubSub.ProjectID, cfg.PubSub.TopicID, logger)
}

func buildKafkaPublisher(_ context.Context, cfg *config.Config, logger *slog.Logger) (service.EventPublisher, error) {
	return NewKafkaPublisher(cfg.PubSub.Kafka, logger)
}

func buildFCMPublisher(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.EventPublisher, error) {
	var projectID, credentialsPath string
	if cfg.Firebase != nil {
		projectID = cfg.Firebase.ProjectID
		credentialsPath = cfg.Firebase.CredentialsPath
	}

	return NewFCMPublisher(ctx, projectID, credentialsPath, logger)
}

// Module provides the Pub/Sub FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewEventPublisher),
)
