package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/inventory"
	"github.com/shopfront/backend/internal/domain/shared"
)

// Adjustment is the result of one committed ledger movement.
type Adjustment struct {
	Inventory *inventory.Inventory
	Delta     int
	Reason    string
}

// Events returns the domain events to publish once the enclosing transaction committed.
func (a Adjustment) Events() []shared.DomainEvent {
	return inventory.EventsForAdjustment(a.Inventory, a.Delta, a.Reason)
}

// ApplyAdjustment moves stock of a product by delta and appends the matching
// history row. repo must be bound to the caller's transaction so that the
// quantity change and its history are committed or rolled back together.
func ApplyAdjustment(ctx context.Context, repo inventory.Repository, productID uuid.UUID, delta int, reason string) (*Adjustment, error) {
	if delta == 0 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Adjustment quantity cannot be zero")
	}
	if err := inventory.ValidateReason(reason); err != nil {
		return nil, err
	}

	inv, err := repo.ApplyDelta(ctx, productID, delta)
	if err != nil {
		return nil, err
	}

	entry, err := inventory.NewHistory(inv.ID, delta, reason)
	if err != nil {
		return nil, err
	}
	if err := repo.AppendHistory(ctx, entry); err != nil {
		return nil, err
	}

	return &Adjustment{Inventory: inv, Delta: delta, Reason: reason}, nil
}

// AvailableIn returns the quantity on hand, zero when the product has no inventory row.
func AvailableIn(ctx context.Context, repo inventory.Repository, productID uuid.UUID) (int, error) {
	inv, err := repo.FindByProductID(ctx, productID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return inv.Quantity, nil
}
