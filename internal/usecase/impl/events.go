package impl

import (
	"context"
	"log/slog"
	"time"

	"market/internal/domain/entity"
	"market/internal/domain/service"
	"market/internal/infra/requestctx"

	"github.com/google/uuid"
)

// publishEvent hands the event to the bus after the mutation committed.
// A failed publish is logged and never reported to the caller.
func publishEvent(ctx context.Context, publisher service.EventPublisher, logger *slog.Logger, event *service.MarketEvent) {
	if publisher == nil {
		return
	}
	event.RequestID = requestctx.RequestID(ctx)

	if err := publisher.Publish(ctx, event); err != nil {
		requestctx.Logger(ctx, logger).Warn("Failed to publish event",
			"event", event.Name,
			"orderID", event.OrderID,
			"storeID", event.StoreID,
			"error", err,
		)
	}
}

func orderEvent(name service.EventName, actorID uuid.UUID, order *entity.Order, at time.Time) *service.MarketEvent {
	return &service.MarketEvent{
		Name:       name,
		ActorID:    actorID,
		OrderID:    order.ID.String(),
		StoreID:    order.Store.ID,
		BuyerID:    order.BuyerID.String(),
		Status:     order.Status.String(),
		OccurredAt: at,
	}
}

func cartEvent(buyerID uuid.UUID, at time.Time) *service.MarketEvent {
	return &service.MarketEvent{
		Name:       service.EventCartUpdated,
		ActorID:    buyerID,
		BuyerID:    buyerID.String(),
		OccurredAt: at,
	}
}
