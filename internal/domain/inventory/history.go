package inventory

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
)

// Reasons recorded by the order flow.
const (
	ReasonOrderPlaced    = "order placed"
	ReasonOrderCancelled = "order cancelled"
	ReasonOrderRefunded  = "order refunded"
	ReasonRestock        = "restock"
)

// History is an append-only record of one ledger adjustment.
type History struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	InventoryID     uuid.UUID `gorm:"type:uuid;not null;index"`
	QuantityChanged int       `gorm:"not null"`
	Reason          string    `gorm:"type:varchar(200);not null"`
	CreatedAt       time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (History) TableName() string {
	return "inventory_histories"
}

// NewHistory records a signed quantity change.
func NewHistory(inventoryID uuid.UUID, delta int, reason string) (*History, error) {
	if err := ValidateReason(reason); err != nil {
		return nil, err
	}
	if delta == 0 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Adjustment quantity cannot be zero")
	}
	return &History{
		ID:              uuid.New(),
		InventoryID:     inventoryID,
		QuantityChanged: delta,
		Reason:          strings.TrimSpace(reason),
		CreatedAt:       time.Now(),
	}, nil
}

// ValidateReason checks the free-text reason of an adjustment.
func ValidateReason(reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError(shared.CodeValidation, "Adjustment reason is required")
	}
	if len(reason) > 200 {
		return shared.NewDomainError(shared.CodeValidation, "Adjustment reason cannot exceed 200 characters")
	}
	return nil
}
