// Package pubsub publishes marketplace events to the configured message bus.
package pubsub

import (
	"strconv"

	"market/internal/domain/service"
)

// eventAttributes flattens the routing fields of an event into string attributes
// usable for subscription filters, kafka headers and FCM data payloads.
func eventAttributes(event *service.MarketEvent) map[string]string {
	attributes := map[string]string{
		"event":    string(event.Name),
		"actor_id": event.ActorID.String(),
	}
	if event.OrderID != "" {
		attributes["order_id"] = event.OrderID
	}
	if event.StoreID != 0 {
		attributes["store_id"] = strconv.FormatInt(event.StoreID, 10)
	}
	if event.BuyerID != "" {
		attributes["buyer_id"] = event.BuyerID
	}
	if event.Status != "" {
		attributes["status"] = event.Status
	}
	if event.RequestID != "" {
		attributes["request_id"] = event.RequestID
	}

	return attributes
}

// eventKey picks the entity an event is about, so that events on the same
// order or cart keep their relative order on partitioned buses.
func eventKey(event *service.MarketEvent) string {
	switch {
	case event.OrderID != "":
		return event.OrderID
	case event.BuyerID != "":
		return event.BuyerID
	case event.StoreID != 0:
		return strconv.FormatInt(event.StoreID, 10)
	default:
		return event.ActorID.String()
	}
}
