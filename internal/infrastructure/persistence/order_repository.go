package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC, product_name ASC")
}

// FindByID loads an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).Preload("Items", preloadItems).First(&o, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

// FindByIDForUser loads an order only if userID owns it
func (r *GormOrderRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).
		Preload("Items", preloadItems).
		Where("id = ? AND user_id = ?", id, userID).
		First(&o).Error; err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

// FindAll lists orders matching the filter with their items
func (r *GormOrderRepository) FindAll(ctx context.Context, filter order.Filter) ([]order.Order, error) {
	var orders []order.Order
	query := applyPaging(r.filtered(ctx, filter), filter.Filter, OrderSortFields, "created_at")
	if err := query.Preload("Items", preloadItems).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter order.Filter) (int64, error) {
	var count int64
	err := r.filtered(ctx, filter).Count(&count).Error
	return count, err
}

func (r *GormOrderRepository) filtered(ctx context.Context, filter order.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&order.Order{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		query = query.Where("order_number LIKE ?", "%"+filter.Search+"%")
	}
	return query
}

// Create inserts the order and its items. A clash on the order number is
// reported as order.ErrNumberTaken so the caller can retry with a new one.
func (r *GormOrderRepository) Create(ctx context.Context, o *order.Order) error {
	err := r.db.WithContext(ctx).Create(o).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return order.ErrNumberTaken
	}
	return translate(err)
}

// SaveStatus persists a status transition with an optimistic version check
func (r *GormOrderRepository) SaveStatus(ctx context.Context, o *order.Order) error {
	result := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Where("id = ? AND version = ?", o.ID, o.Version-1).
		Updates(map[string]interface{}{
			"status":       o.Status,
			"confirmed_at": o.ConfirmedAt,
			"cancelled_at": o.CancelledAt,
			"refunded_at":  o.RefundedAt,
			"version":      o.Version,
			"updated_at":   o.UpdatedAt,
		})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.CodeConcurrencyConflict, "The order has been modified by another request")
	}
	return nil
}

// NextOrderNumber returns the number after the day's highest one. Two
// concurrent placements can draw the same number; the unique index rejects
// the second insert.
func (r *GormOrderRepository) NextOrderNumber(ctx context.Context, day time.Time) (string, error) {
	var last []string
	if err := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Where("order_number LIKE ?", order.NumberPrefix(day)+"%").
		Order("order_number DESC").
		Limit(1).
		Pluck("order_number", &last).Error; err != nil {
		return "", err
	}
	if len(last) == 0 {
		return order.FormatNumber(day, 1), nil
	}
	return order.NextNumber(day, last[0]), nil
}

var _ order.Repository = (*GormOrderRepository)(nil)
