package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
)

// ErrLineLimit is returned by AccumulateItem when the merged quantity would
// pass the given limit. Nothing is written in that case.
var ErrLineLimit = shared.NewDomainError(shared.CodeInsufficientStock, "Cart line would exceed the stock on hand")

// ErrChanged is returned when the cart was modified while an order was being
// placed from it.
var ErrChanged = shared.NewDomainError(shared.CodeConcurrencyConflict, "Cart changed during checkout, retry")

// Repository persists carts. Item level operations are scoped by the owning
// user so a foreign item is indistinguishable from a missing one.
type Repository interface {
	// FindByUserID loads the cart with its items; ErrNotFound if the user has none.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Cart, error)
	// GetOrCreate returns the user's cart, creating an empty one on first use.
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*Cart, error)
	FindItemForUser(ctx context.Context, userID, itemID uuid.UUID) (*CartItem, error)
	// SaveItem writes the line as is, replacing its quantity.
	SaveItem(ctx context.Context, item *CartItem) error
	// AccumulateItem adds item.Quantity onto the (cart, product) line in a single
	// statement, creating the line when absent, as long as the merged quantity
	// stays within limit. On success item holds the stored line.
	AccumulateItem(ctx context.Context, item *CartItem, limit int) error
	// LockForUpdate loads the user's cart and locks its row until the surrounding
	// transaction ends. Must run inside a transaction.
	LockForUpdate(ctx context.Context, userID uuid.UUID) (*Cart, error)
	DeleteItemForUser(ctx context.Context, userID, itemID uuid.UUID) error
	// RemoveLines deletes the given lines, each only while its quantity is still
	// the one given, and returns how many were deleted.
	RemoveLines(ctx context.Context, cartID uuid.UUID, lines []CartItem) (int64, error)
	// ClearItems removes every item of the cart and returns how many were deleted.
	ClearItems(ctx context.Context, cartID uuid.UUID) (int64, error)
}
