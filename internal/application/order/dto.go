package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopspring/decimal"
)

// Actor identifies who performs an order operation.
// Staff may act on any order, customers only on their own.
type Actor struct {
	UserID  uuid.UUID
	IsStaff bool
}

// OrderItemResponse represents an order line snapshot
type OrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	OrderNumber   string              `json:"order_number"`
	UserID        uuid.UUID           `json:"user_id"`
	Status        string              `json:"status"`
	CustomerPhone string              `json:"customer_phone"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	Tax           decimal.Decimal     `json:"tax"`
	Discount      decimal.Decimal     `json:"discount"`
	Total         decimal.Decimal     `json:"total"`
	PromotionID   *uuid.UUID          `json:"promotion_id,omitempty"`
	Items         []OrderItemResponse `json:"items"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	ConfirmedAt   *time.Time          `json:"confirmed_at,omitempty"`
	CancelledAt   *time.Time          `json:"cancelled_at,omitempty"`
	RefundedAt    *time.Time          `json:"refunded_at,omitempty"`
}

// OrderListItemResponse represents an order in list responses
type OrderListItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	OrderNumber string          `json:"order_number"`
	Status      string          `json:"status"`
	Total       decimal.Decimal `json:"total"`
	ItemCount   int             `json:"item_count"`
	CreatedAt   time.Time       `json:"created_at"`
}

// OrderListFilter represents filter options for order list
type OrderListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending confirmed cancelled refunded"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToOrderResponse converts the domain order to a response
func ToOrderResponse(o *order.Order) *OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
			LineTotal:   item.LineTotal(),
		}
	}
	return &OrderResponse{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		UserID:        o.UserID,
		Status:        o.Status.String(),
		CustomerPhone: o.CustomerPhone,
		Subtotal:      o.Subtotal,
		Tax:           o.Tax,
		Discount:      o.Discount,
		Total:         o.Total,
		PromotionID:   o.PromotionID,
		Items:         items,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
		ConfirmedAt:   o.ConfirmedAt,
		CancelledAt:   o.CancelledAt,
		RefundedAt:    o.RefundedAt,
	}
}

// ToOrderListItemResponses converts orders to list items
func ToOrderListItemResponses(orders []order.Order) []OrderListItemResponse {
	out := make([]OrderListItemResponse, len(orders))
	for i := range orders {
		o := &orders[i]
		out[i] = OrderListItemResponse{
			ID:          o.ID,
			OrderNumber: o.OrderNumber,
			Status:      o.Status.String(),
			Total:       o.Total,
			ItemCount:   o.TotalQuantity(),
			CreatedAt:   o.CreatedAt,
		}
	}
	return out
}
