package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProductMediaRepository implements catalog.ProductMediaRepository using GORM
type GormProductMediaRepository struct {
	db *gorm.DB
}

// NewGormProductMediaRepository creates a new GormProductMediaRepository
func NewGormProductMediaRepository(db *gorm.DB) *GormProductMediaRepository {
	return &GormProductMediaRepository{db: db}
}

// FindImages returns a product's images, primary first then by sort order
func (r *GormProductMediaRepository) FindImages(ctx context.Context, productID uuid.UUID) ([]catalog.ProductImage, error) {
	var images []catalog.ProductImage
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("is_primary DESC, sort_order ASC, created_at ASC").
		Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// SaveImage stores an image. A primary image demotes the previous primary.
func (r *GormProductMediaRepository) SaveImage(ctx context.Context, image *catalog.ProductImage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if image.IsPrimary {
			if err := tx.Model(&catalog.ProductImage{}).
				Where("product_id = ? AND id <> ?", image.ProductID, image.ID).
				Update("is_primary", false).Error; err != nil {
				return err
			}
		}
		return translate(tx.Save(image).Error)
	})
}

// DeleteImage deletes one image of a product
func (r *GormProductMediaRepository) DeleteImage(ctx context.Context, productID, imageID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.ProductImage{}, "id = ? AND product_id = ?", imageID, productID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindAttributeValues returns a product's attribute values with their attribute
func (r *GormProductMediaRepository) FindAttributeValues(ctx context.Context, productID uuid.UUID) ([]catalog.ProductAttributeValue, error) {
	var values []catalog.ProductAttributeValue
	if err := r.db.WithContext(ctx).
		Preload("Attribute").
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&values).Error; err != nil {
		return nil, err
	}
	return values, nil
}

// FindOrCreateAttribute returns the attribute named name, creating it if needed
func (r *GormProductMediaRepository) FindOrCreateAttribute(ctx context.Context, name string) (*catalog.ProductAttribute, error) {
	var attribute catalog.ProductAttribute
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&attribute).Error
	if err == nil {
		return &attribute, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created, err := catalog.NewProductAttribute(name)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Create(created).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// created concurrently
			if err := r.db.WithContext(ctx).Where("name = ?", name).First(&attribute).Error; err != nil {
				return nil, translate(err)
			}
			return &attribute, nil
		}
		return nil, err
	}
	return created, nil
}

// ReplaceAttributeValues swaps the full attribute set of a product
func (r *GormProductMediaRepository) ReplaceAttributeValues(ctx context.Context, productID uuid.UUID, values []catalog.ProductAttributeValue) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&catalog.ProductAttributeValue{}, "product_id = ?", productID).Error; err != nil {
			return err
		}
		if len(values) == 0 {
			return nil
		}
		return translate(tx.Omit("Attribute").Create(&values).Error)
	})
}

var _ catalog.ProductMediaRepository = (*GormProductMediaRepository)(nil)
