package inventory

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
)

// DefaultLowStockThreshold is the quantity at or below which a product is reported as low.
const DefaultLowStockThreshold = 6

// Inventory holds the on-hand quantity of one product.
// Quantity is only changed through ledger adjustments, each of which leaves a History row.
type Inventory struct {
	shared.BaseEntity
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Quantity  int       `gorm:"not null;default:0;check:quantity >= 0"`
	LowStock  int       `gorm:"not null;default:6"`
}

// TableName returns the table name for GORM
func (Inventory) TableName() string {
	return "inventories"
}

// NewInventory creates an empty inventory row for a product.
func NewInventory(productID uuid.UUID, lowStock int) (*Inventory, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Product ID is required")
	}
	if lowStock < 0 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Low stock threshold cannot be negative")
	}
	return &Inventory{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		Quantity:   0,
		LowStock:   lowStock,
	}, nil
}

// CheckAdjustment reports whether delta may be applied without going below zero.
func (i *Inventory) CheckAdjustment(delta int) error {
	return CheckAdjustment(i.Quantity, delta)
}

// IsLowStock returns true when the quantity is at or below the threshold.
func (i *Inventory) IsLowStock() bool {
	return i.Quantity <= i.LowStock
}

// SetLowStock changes the alert threshold.
func (i *Inventory) SetLowStock(threshold int) error {
	if threshold < 0 {
		return shared.NewDomainError(shared.CodeValidation, "Low stock threshold cannot be negative")
	}
	i.LowStock = threshold
	i.Touch()
	return nil
}

// CheckAdjustment validates a ledger adjustment against the current quantity.
func CheckAdjustment(current, delta int) error {
	if delta == 0 {
		return shared.NewDomainError(shared.CodeValidation, "Adjustment quantity cannot be zero")
	}
	if current+delta < 0 {
		return InsufficientStock(current, -delta)
	}
	return nil
}

// InsufficientStock builds the error returned when requested exceeds available.
func InsufficientStock(available, requested int) *shared.DomainError {
	return shared.NewDomainError(shared.CodeInsufficientStock,
		fmt.Sprintf("Insufficient stock: requested %d, available %d", requested, available))
}
