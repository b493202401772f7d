package inventory

import (
	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeInventory = "Inventory"

// Event type constants
const (
	EventTypeStockAdjusted   = "StockAdjusted"
	EventTypeLowStockReached = "LowStockReached"
)

// StockAdjustedEvent is raised after a committed ledger adjustment
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID `json:"product_id"`
	Delta       int       `json:"delta"`
	NewQuantity int       `json:"new_quantity"`
	Reason      string    `json:"reason"`
}

func NewStockAdjustedEvent(inv *Inventory, delta int, reason string) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, AggregateTypeInventory, inv.ID),
		ProductID:       inv.ProductID,
		Delta:           delta,
		NewQuantity:     inv.Quantity,
		Reason:          reason,
	}
}

// LowStockReachedEvent is raised when a decrease leaves quantity at or below the threshold
type LowStockReachedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Threshold int       `json:"threshold"`
}

func NewLowStockReachedEvent(inv *Inventory) *LowStockReachedEvent {
	return &LowStockReachedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLowStockReached, AggregateTypeInventory, inv.ID),
		ProductID:       inv.ProductID,
		Quantity:        inv.Quantity,
		Threshold:       inv.LowStock,
	}
}

// EventsForAdjustment returns the events produced by a committed adjustment.
// inv must already carry the new quantity.
func EventsForAdjustment(inv *Inventory, delta int, reason string) []shared.DomainEvent {
	events := []shared.DomainEvent{NewStockAdjustedEvent(inv, delta, reason)}
	if delta < 0 && inv.IsLowStock() && inv.Quantity-delta > inv.LowStock {
		events = append(events, NewLowStockReachedEvent(inv))
	}
	return events
}
