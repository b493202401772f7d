package promotion

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/promotion"
	"github.com/shopspring/decimal"
)

// PromotionRequest creates or replaces a promotion
type PromotionRequest struct {
	Name           string           `json:"name" binding:"required,min=1,max=200"`
	Description    string           `json:"description"`
	DiscountType   string           `json:"discount_type" binding:"required,oneof=percentage fixed"`
	DiscountValue  decimal.Decimal  `json:"discount_value"`
	MaxDiscount    *decimal.Decimal `json:"max_discount"`
	MinOrderAmount *decimal.Decimal `json:"min_order_amount"`
	CategoryIDs    []uuid.UUID      `json:"category_ids"`
	ProductIDs     []uuid.UUID      `json:"product_ids"`
	ValidFrom      time.Time        `json:"valid_from" binding:"required"`
	ValidTo        time.Time        `json:"valid_to" binding:"required"`
	Active         *bool            `json:"active"`
}

// EvaluateRequest asks what a promotion would take off an amount
type EvaluateRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// EvaluateResponse is the outcome of an evaluation
type EvaluateResponse struct {
	PromotionID  uuid.UUID       `json:"promotion_id"`
	Amount       decimal.Decimal `json:"amount"`
	Discount     decimal.Decimal `json:"discount"`
	Valid        bool            `json:"valid"`
	MeetsMinimum bool            `json:"meets_minimum"`
}

// PromotionListFilter represents filter options for the promotion list
type PromotionListFilter struct {
	Search   string `form:"search"`
	All      bool   `form:"all"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// PromotionResponse represents a promotion in API responses
type PromotionResponse struct {
	ID             uuid.UUID        `json:"id"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	DiscountType   string           `json:"discount_type"`
	DiscountValue  decimal.Decimal  `json:"discount_value"`
	MaxDiscount    *decimal.Decimal `json:"max_discount"`
	MinOrderAmount *decimal.Decimal `json:"min_order_amount"`
	CategoryIDs    []uuid.UUID      `json:"category_ids"`
	ProductIDs     []uuid.UUID      `json:"product_ids"`
	ValidFrom      time.Time        `json:"valid_from"`
	ValidTo        time.Time        `json:"valid_to"`
	Active         bool             `json:"active"`
	IsValid        bool             `json:"is_valid"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// ToPromotionResponse converts a domain promotion to its response
func ToPromotionResponse(p *promotion.Promotion, at time.Time) *PromotionResponse {
	categoryIDs := p.CategoryIDs
	if categoryIDs == nil {
		categoryIDs = []uuid.UUID{}
	}
	productIDs := p.ProductIDs
	if productIDs == nil {
		productIDs = []uuid.UUID{}
	}
	return &PromotionResponse{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		DiscountType:   string(p.DiscountType),
		DiscountValue:  p.DiscountValue,
		MaxDiscount:    p.MaxDiscount,
		MinOrderAmount: p.MinOrderAmount,
		CategoryIDs:    categoryIDs,
		ProductIDs:     productIDs,
		ValidFrom:      p.ValidFrom,
		ValidTo:        p.ValidTo,
		Active:         p.Active,
		IsValid:        p.IsValid(at),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
