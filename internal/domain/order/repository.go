package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
)

// ErrNumberTaken is returned when a generated order number collides with a concurrent placement.
var ErrNumberTaken = shared.NewDomainError(shared.CodeConcurrencyConflict, "Order number already taken, retry")

// Filter narrows an order listing.
type Filter struct {
	shared.Filter
	// UserID restricts the listing to one customer; nil lists every order.
	UserID *uuid.UUID
	Status *Status
}

// Repository defines the interface for order persistence
type Repository interface {
	// FindByID loads the order with its items.
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// FindByIDForUser loads the order only if it belongs to userID.
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*Order, error)
	FindAll(ctx context.Context, filter Filter) ([]Order, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	// Create inserts the order and its items.
	Create(ctx context.Context, o *Order) error
	// SaveStatus persists a status transition with an optimistic version check.
	SaveStatus(ctx context.Context, o *Order) error
	// NextOrderNumber returns the next free number of the given day.
	NextOrderNumber(ctx context.Context, day time.Time) (string, error)
}
