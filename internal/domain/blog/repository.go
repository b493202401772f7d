package blog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
)

// PostRepository defines the interface for blog post persistence
type PostRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Post, error)
	FindBySlug(ctx context.Context, slug string, publishedOnly bool) (*Post, error)
	FindAll(ctx context.Context, filter shared.Filter, publishedOnly bool) ([]Post, error)
	Count(ctx context.Context, filter shared.Filter, publishedOnly bool) (int64, error)
	ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, post *Post) error
	Delete(ctx context.Context, id uuid.UUID) error
}
