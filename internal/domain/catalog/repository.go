package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
)

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindBySlug(ctx context.Context, slug string) (*Category, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Category, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// CountProducts returns the number of products per category id.
	CountProducts(ctx context.Context, categoryIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	HasChildren(ctx context.Context, id uuid.UUID) (bool, error)
	ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductFilter narrows a product listing.
type ProductFilter struct {
	shared.Filter
	CategoryID *uuid.UUID
	Featured   *bool
	InStock    *bool
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	FindAll(ctx context.Context, filter ProductFilter) ([]Product, error)
	Count(ctx context.Context, filter ProductFilter) (int64, error)
	ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, product *Product) error
	// SaveWithLock saves with an optimistic version check.
	SaveWithLock(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductMediaRepository stores images and attribute values of products.
type ProductMediaRepository interface {
	FindImages(ctx context.Context, productID uuid.UUID) ([]ProductImage, error)
	SaveImage(ctx context.Context, image *ProductImage) error
	DeleteImage(ctx context.Context, productID, imageID uuid.UUID) error
	FindAttributeValues(ctx context.Context, productID uuid.UUID) ([]ProductAttributeValue, error)
	// FindOrCreateAttribute returns the attribute with the given name, creating it if needed.
	FindOrCreateAttribute(ctx context.Context, name string) (*ProductAttribute, error)
	// ReplaceAttributeValues swaps the full attribute set of a product.
	ReplaceAttributeValues(ctx context.Context, productID uuid.UUID, values []ProductAttributeValue) error
}
