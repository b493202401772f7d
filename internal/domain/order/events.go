package order

import (
	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderPlaced    = "OrderPlaced"
	EventTypeOrderConfirmed = "OrderConfirmed"
	EventTypeOrderCancelled = "OrderCancelled"
	EventTypeOrderRefunded  = "OrderRefunded"
)

// ItemInfo represents item information for events
type ItemInfo struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

func itemInfos(o *Order) []ItemInfo {
	items := make([]ItemInfo, len(o.Items))
	for i, item := range o.Items {
		items[i] = ItemInfo{ProductID: item.ProductID, Quantity: item.Quantity, Price: item.Price}
	}
	return items
}

// PlacedEvent is raised when an order is created from a cart
type PlacedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	UserID      uuid.UUID       `json:"user_id"`
	Items       []ItemInfo      `json:"items"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
}

func NewPlacedEvent(o *Order) *PlacedEvent {
	return &PlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
		Items:           itemInfos(o),
		Subtotal:        o.Subtotal,
		Discount:        o.Discount,
		Total:           o.Total,
	}
}

// StatusChangedEvent is the payload shared by the post-creation transitions
type StatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	UserID      uuid.UUID       `json:"user_id"`
	Status      Status          `json:"status"`
	Items       []ItemInfo      `json:"items"`
	Total       decimal.Decimal `json:"total"`
}

func newStatusChangedEvent(eventType string, o *Order) *StatusChangedEvent {
	return &StatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
		Status:          o.Status,
		Items:           itemInfos(o),
		Total:           o.Total,
	}
}

func NewConfirmedEvent(o *Order) *StatusChangedEvent {
	return newStatusChangedEvent(EventTypeOrderConfirmed, o)
}

func NewCancelledEvent(o *Order) *StatusChangedEvent {
	return newStatusChangedEvent(EventTypeOrderCancelled, o)
}

func NewRefundedEvent(o *Order) *StatusChangedEvent {
	return newStatusChangedEvent(EventTypeOrderRefunded, o)
}
