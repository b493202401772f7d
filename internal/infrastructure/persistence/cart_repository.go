package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/cart"
	"github.com/shopfront/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartRepository implements cart.Repository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByUserID loads a user's cart with its items, oldest line first
func (r *GormCartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	var c cart.Cart
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("added_at ASC")
		}).
		Where("user_id = ?", userID).
		First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// GetOrCreate returns the user's cart, creating it on first access. Two
// concurrent first accesses converge on the same row through the unique
// user_id index.
func (r *GormCartRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	c, err := r.FindByUserID(ctx, userID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	created, err := cart.NewCart(userID)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Omit("Items").
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(created).Error; err != nil {
		return nil, translate(err)
	}
	return r.FindByUserID(ctx, userID)
}

// FindItemForUser finds an item only if it sits in userID's cart
func (r *GormCartRepository) FindItemForUser(ctx context.Context, userID, itemID uuid.UUID) (*cart.CartItem, error) {
	var item cart.CartItem
	if err := r.db.WithContext(ctx).
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.user_id = ?", itemID, userID).
		First(&item).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

// LockForUpdate locks the user's cart row, then loads the cart with its items.
// SQLite has no row locks; its writers are serialized by the database lock.
func (r *GormCartRepository) LockForUpdate(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	var locked cart.Cart
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("user_id = ?", userID).
		First(&locked).Error; err != nil {
		return nil, translate(err)
	}
	return r.FindByUserID(ctx, userID)
}

// SaveItem creates or updates a cart line
func (r *GormCartRepository) SaveItem(ctx context.Context, item *cart.CartItem) error {
	return translate(r.db.WithContext(ctx).Save(item).Error)
}

// AccumulateItem upserts the line with quantity = quantity + item.Quantity.
// The conflict update only fires while the sum stays within limit, so two
// concurrent adds either both land or the later one is refused.
func (r *GormCartRepository) AccumulateItem(ctx context.Context, item *cart.CartItem, limit int) error {
	if item.Quantity > limit {
		return cart.ErrLineLimit
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
				"updated_at": gorm.Expr("excluded.updated_at"),
			}),
			Where: clause.Where{Exprs: []clause.Expression{
				clause.Expr{SQL: "cart_items.quantity + excluded.quantity <= ?", Vars: []any{limit}},
			}},
		}).
		Create(item)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return cart.ErrLineLimit
	}

	var stored cart.CartItem
	if err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", item.CartID, item.ProductID).
		First(&stored).Error; err != nil {
		return translate(err)
	}
	*item = stored
	return nil
}

// DeleteItemForUser deletes an item only if it sits in userID's cart
func (r *GormCartRepository) DeleteItemForUser(ctx context.Context, userID, itemID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND cart_id IN (?)", itemID,
			r.db.Model(&cart.Cart{}).Select("id").Where("user_id = ?", userID)).
		Delete(&cart.CartItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// RemoveLines deletes the lines that still carry the given quantities. A line
// updated by a concurrent add no longer matches and is left in place.
func (r *GormCartRepository) RemoveLines(ctx context.Context, cartID uuid.UUID, lines []cart.CartItem) (int64, error) {
	if len(lines) == 0 {
		return 0, nil
	}
	conds := make([]string, 0, len(lines))
	vars := make([]any, 0, 2*len(lines))
	for _, line := range lines {
		conds = append(conds, "(id = ? AND quantity = ?)")
		vars = append(vars, line.ID, line.Quantity)
	}
	result := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Where("("+strings.Join(conds, " OR ")+")", vars...).
		Delete(&cart.CartItem{})
	return result.RowsAffected, result.Error
}

// ClearItems deletes every line of the cart; the cart row stays
func (r *GormCartRepository) ClearItems(ctx context.Context, cartID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&cart.CartItem{})
	return result.RowsAffected, result.Error
}

var _ cart.Repository = (*GormCartRepository)(nil)
