package event

import (
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/inventory"
	"github.com/shopfront/backend/internal/domain/order"
)

// RegisterAllEvents registers every domain event the shop emits so that
// consumers of forwarded events can decode them.
func RegisterAllEvents(serializer *EventSerializer) {
	serializer.Register(catalog.EventTypeProductCreated, &catalog.ProductCreatedEvent{})
	serializer.Register(catalog.EventTypeProductPriceChanged, &catalog.ProductPriceChangedEvent{})
	serializer.Register(catalog.EventTypeProductDeleted, &catalog.ProductDeletedEvent{})

	serializer.Register(inventory.EventTypeStockAdjusted, &inventory.StockAdjustedEvent{})
	serializer.Register(inventory.EventTypeLowStockReached, &inventory.LowStockReachedEvent{})

	serializer.Register(order.EventTypeOrderPlaced, &order.PlacedEvent{})
	serializer.Register(order.EventTypeOrderConfirmed, &order.StatusChangedEvent{})
	serializer.Register(order.EventTypeOrderCancelled, &order.StatusChangedEvent{})
	serializer.Register(order.EventTypeOrderRefunded, &order.StatusChangedEvent{})

	serializer.Register(identity.EventTypeUserRegistered, &identity.UserRegisteredEvent{})
}
