package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
)

// Repository persists inventories and their history.
type Repository interface {
	FindByProductID(ctx context.Context, productID uuid.UUID) (*Inventory, error)
	// FindByProductIDs returns inventories keyed by product id; missing products are absent.
	FindByProductIDs(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]*Inventory, error)
	// Create inserts the inventory if the product has none yet.
	Create(ctx context.Context, inv *Inventory) error
	// ApplyDelta adds delta to the quantity only if the result stays >= 0, and
	// returns the updated row. It fails with ErrInsufficientStock when the floor
	// would be crossed and ErrNotFound when the product has no inventory.
	ApplyDelta(ctx context.Context, productID uuid.UUID, delta int) (*Inventory, error)
	AppendHistory(ctx context.Context, entry *History) error
	FindHistory(ctx context.Context, inventoryID uuid.UUID, filter shared.Filter) ([]History, error)
	CountHistory(ctx context.Context, inventoryID uuid.UUID) (int64, error)
	UpdateLowStock(ctx context.Context, productID uuid.UUID, threshold int) error
	CountLowStock(ctx context.Context) (int64, error)
}
