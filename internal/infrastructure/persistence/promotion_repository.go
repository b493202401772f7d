package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/promotion"
	"github.com/shopfront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// promotionCategory and promotionProduct hold a promotion's scope
type promotionCategory struct {
	PromotionID uuid.UUID `gorm:"type:uuid;primaryKey"`
	CategoryID  uuid.UUID `gorm:"type:uuid;primaryKey"`
}

func (promotionCategory) TableName() string {
	return "promotion_categories"
}

type promotionProduct struct {
	PromotionID uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID   uuid.UUID `gorm:"type:uuid;primaryKey"`
}

func (promotionProduct) TableName() string {
	return "promotion_products"
}

// GormPromotionRepository implements promotion.Repository using GORM
type GormPromotionRepository struct {
	db *gorm.DB
}

// NewGormPromotionRepository creates a new GormPromotionRepository
func NewGormPromotionRepository(db *gorm.DB) *GormPromotionRepository {
	return &GormPromotionRepository{db: db}
}

// FindByID loads a promotion with its scope
func (r *GormPromotionRepository) FindByID(ctx context.Context, id uuid.UUID) (*promotion.Promotion, error) {
	var p promotion.Promotion
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	promotions := []promotion.Promotion{p}
	if err := r.loadScopes(ctx, promotions); err != nil {
		return nil, err
	}
	return &promotions[0], nil
}

// FindAll lists promotions matching the filter. Filters[promotion.FilterValidAt]
// restricts the result to promotions valid at that time.
func (r *GormPromotionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]promotion.Promotion, error) {
	var promotions []promotion.Promotion
	query := applyPaging(r.filtered(ctx, filter), filter, PromotionSortFields, "valid_to")
	if err := query.Find(&promotions).Error; err != nil {
		return nil, err
	}
	if err := r.loadScopes(ctx, promotions); err != nil {
		return nil, err
	}
	return promotions, nil
}

// Count counts promotions matching the filter
func (r *GormPromotionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.filtered(ctx, filter).Count(&count).Error
	return count, err
}

func (r *GormPromotionRepository) filtered(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&promotion.Promotion{})
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	if at, ok := filter.Filters[promotion.FilterValidAt].(time.Time); ok {
		query = validAt(query, at)
	}
	return query
}

func validAt(query *gorm.DB, at time.Time) *gorm.DB {
	return query.Where("active = ? AND valid_from <= ? AND valid_to >= ?", true, at, at)
}

// FindValidAt returns every promotion valid at the given time
func (r *GormPromotionRepository) FindValidAt(ctx context.Context, at time.Time) ([]promotion.Promotion, error) {
	var promotions []promotion.Promotion
	if err := validAt(r.db.WithContext(ctx).Model(&promotion.Promotion{}), at).
		Order("valid_to ASC").
		Find(&promotions).Error; err != nil {
		return nil, err
	}
	if err := r.loadScopes(ctx, promotions); err != nil {
		return nil, err
	}
	return promotions, nil
}

// Save creates or updates a promotion and replaces its scope
func (r *GormPromotionRepository) Save(ctx context.Context, p *promotion.Promotion) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(p).Error; err != nil {
			return translate(err)
		}
		if err := tx.Delete(&promotionCategory{}, "promotion_id = ?", p.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&promotionProduct{}, "promotion_id = ?", p.ID).Error; err != nil {
			return err
		}
		if len(p.CategoryIDs) > 0 {
			rows := make([]promotionCategory, len(p.CategoryIDs))
			for i, id := range p.CategoryIDs {
				rows[i] = promotionCategory{PromotionID: p.ID, CategoryID: id}
			}
			if err := tx.Create(&rows).Error; err != nil {
				return translate(err)
			}
		}
		if len(p.ProductIDs) > 0 {
			rows := make([]promotionProduct, len(p.ProductIDs))
			for i, id := range p.ProductIDs {
				rows[i] = promotionProduct{PromotionID: p.ID, ProductID: id}
			}
			if err := tx.Create(&rows).Error; err != nil {
				return translate(err)
			}
		}
		return nil
	})
}

// Delete deletes a promotion and its scope
func (r *GormPromotionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&promotionCategory{}, "promotion_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&promotionProduct{}, "promotion_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&promotion.Promotion{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// loadScopes fills CategoryIDs and ProductIDs with two queries for the batch
func (r *GormPromotionRepository) loadScopes(ctx context.Context, promotions []promotion.Promotion) error {
	if len(promotions) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(promotions))
	index := make(map[uuid.UUID]*promotion.Promotion, len(promotions))
	for i := range promotions {
		ids[i] = promotions[i].ID
		index[promotions[i].ID] = &promotions[i]
	}

	var categories []promotionCategory
	if err := r.db.WithContext(ctx).Where("promotion_id IN ?", ids).Find(&categories).Error; err != nil {
		return err
	}
	for _, c := range categories {
		p := index[c.PromotionID]
		p.CategoryIDs = append(p.CategoryIDs, c.CategoryID)
	}

	var products []promotionProduct
	if err := r.db.WithContext(ctx).Where("promotion_id IN ?", ids).Find(&products).Error; err != nil {
		return err
	}
	for _, pp := range products {
		p := index[pp.PromotionID]
		p.ProductIDs = append(p.ProductIDs, pp.ProductID)
	}
	return nil
}

var _ promotion.Repository = (*GormPromotionRepository)(nil)
