package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/inventory"
	"github.com/shopfront/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInventoryRepository implements inventory.Repository using GORM
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewGormInventoryRepository creates a new GormInventoryRepository
func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// FindByProductID finds the inventory of a product
func (r *GormInventoryRepository) FindByProductID(ctx context.Context, productID uuid.UUID) (*inventory.Inventory, error) {
	var inv inventory.Inventory
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&inv).Error; err != nil {
		return nil, translate(err)
	}
	return &inv, nil
}

// FindByProductIDs returns inventories keyed by product ID
func (r *GormInventoryRepository) FindByProductIDs(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]*inventory.Inventory, error) {
	result := make(map[uuid.UUID]*inventory.Inventory, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}
	var rows []inventory.Inventory
	if err := r.db.WithContext(ctx).Where("product_id IN ?", productIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		result[rows[i].ProductID] = &rows[i]
	}
	return result, nil
}

// Create inserts the inventory unless the product already has one
func (r *GormInventoryRepository) Create(ctx context.Context, inv *inventory.Inventory) error {
	return translate(r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "product_id"}}, DoNothing: true}).
		Create(inv).Error)
}

// ApplyDelta adds delta to the quantity with a single conditional UPDATE, so
// the floor holds under concurrent writers: the database row lock serialises
// them and the losing statement matches no row.
func (r *GormInventoryRepository) ApplyDelta(ctx context.Context, productID uuid.UUID, delta int) (*inventory.Inventory, error) {
	result := r.db.WithContext(ctx).
		Model(&inventory.Inventory{}).
		Where("product_id = ? AND quantity + ? >= 0", productID, delta).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return nil, translate(result.Error)
	}

	inv, err := r.FindByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if result.RowsAffected == 0 {
		return nil, inventory.InsufficientStock(inv.Quantity, -delta)
	}
	return inv, nil
}

// AppendHistory inserts one ledger entry
func (r *GormInventoryRepository) AppendHistory(ctx context.Context, entry *inventory.History) error {
	return translate(r.db.WithContext(ctx).Create(entry).Error)
}

// FindHistory lists the entries of an inventory, newest first by default
func (r *GormInventoryRepository) FindHistory(ctx context.Context, inventoryID uuid.UUID, filter shared.Filter) ([]inventory.History, error) {
	var entries []inventory.History
	query := applyPaging(
		r.db.WithContext(ctx).Model(&inventory.History{}).Where("inventory_id = ?", inventoryID),
		filter, HistorySortFields, "created_at",
	)
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// CountHistory counts the entries of an inventory
func (r *GormInventoryRepository) CountHistory(ctx context.Context, inventoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&inventory.History{}).Where("inventory_id = ?", inventoryID).Count(&count).Error
	return count, err
}

// UpdateLowStock changes the alert threshold of a product's inventory
func (r *GormInventoryRepository) UpdateLowStock(ctx context.Context, productID uuid.UUID, threshold int) error {
	result := r.db.WithContext(ctx).
		Model(&inventory.Inventory{}).
		Where("product_id = ?", productID).
		Updates(map[string]interface{}{
			"low_stock":  threshold,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountLowStock counts inventories at or below their threshold
func (r *GormInventoryRepository) CountLowStock(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&inventory.Inventory{}).Where("quantity <= low_stock").Count(&count).Error
	return count, err
}

var _ inventory.Repository = (*GormInventoryRepository)(nil)
