package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/inventory"
)

// InventoryResponse represents the stock level of a product in API responses
type InventoryResponse struct {
	ID         uuid.UUID `json:"id"`
	ProductID  uuid.UUID `json:"product_id"`
	Quantity   int       `json:"quantity"`
	LowStock   int       `json:"low_stock"`
	IsLowStock bool      `json:"is_low_stock"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// HistoryResponse represents one ledger entry
type HistoryResponse struct {
	ID              uuid.UUID `json:"id"`
	QuantityChanged int       `json:"quantity_changed"`
	Reason          string    `json:"reason"`
	CreatedAt       time.Time `json:"created_at"`
}

// AdjustStockRequest represents a manual stock adjustment by staff
type AdjustStockRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"required,max=200"`
}

// SetLowStockRequest changes the low stock threshold
type SetLowStockRequest struct {
	Threshold int `json:"threshold" binding:"min=0"`
}

// HistoryListFilter represents paging options for the ledger history
type HistoryListFilter struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToInventoryResponse converts the domain entity to a response
func ToInventoryResponse(inv *inventory.Inventory) *InventoryResponse {
	return &InventoryResponse{
		ID:         inv.ID,
		ProductID:  inv.ProductID,
		Quantity:   inv.Quantity,
		LowStock:   inv.LowStock,
		IsLowStock: inv.IsLowStock(),
		UpdatedAt:  inv.UpdatedAt,
	}
}

// ToHistoryResponses converts ledger entries to responses
func ToHistoryResponses(entries []inventory.History) []HistoryResponse {
	out := make([]HistoryResponse, len(entries))
	for i, e := range entries {
		out[i] = HistoryResponse{
			ID:              e.ID,
			QuantityChanged: e.QuantityChanged,
			Reason:          e.Reason,
			CreatedAt:       e.CreatedAt,
		}
	}
	return out
}
