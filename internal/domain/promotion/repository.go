package promotion

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
)

// FilterValidAt is the shared.Filter key (a time.Time) that restricts a
// listing to promotions valid at that instant.
const FilterValidAt = "valid_at"

// Repository defines the interface for promotion persistence.
// Category and product scopes are loaded together with the promotion.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Promotion, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Promotion, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	FindValidAt(ctx context.Context, at time.Time) ([]Promotion, error)
	Save(ctx context.Context, p *Promotion) error
	Delete(ctx context.Context, id uuid.UUID) error
}
