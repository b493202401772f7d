package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of an order
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusRefunded  Status = "refunded"
)

// IsValid checks if the status is a known Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can move to target.
// pending -> confirmed|cancelled, confirmed -> cancelled, any -> refunded (once).
func (s Status) CanTransitionTo(target Status) bool {
	if target == StatusRefunded {
		return s != StatusRefunded
	}
	switch s {
	case StatusPending:
		return target == StatusConfirmed || target == StatusCancelled
	case StatusConfirmed:
		return target == StatusCancelled
	}
	return false
}

// HoldsStock reports whether stock taken at placement is still withheld in this state.
func (s Status) HoldsStock() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Item is an immutable snapshot of a purchased product at its price of the moment.
type Item struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    int             `gorm:"not null;check:quantity >= 1"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "order_items"
}

// LineTotal returns quantity times price.
func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Line is the input for one order item.
type Line struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	Price       decimal.Decimal
}

// Order is the record of a purchase. After creation only the status and its
// timestamps change.
type Order struct {
	shared.BaseAggregateRoot
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderNumber   string          `gorm:"type:varchar(20);not null;uniqueIndex"`
	Status        Status          `gorm:"type:varchar(20);not null;default:'pending';index"`
	CustomerPhone string          `gorm:"type:varchar(20)"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Tax           decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Discount      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PromotionID   *uuid.UUID      `gorm:"type:uuid"`
	Items         []Item          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ConfirmedAt   *time.Time
	CancelledAt   *time.Time
	RefundedAt    *time.Time
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder assembles a pending order from its lines.
// subtotal = Σ qty × price, tax = 0, total = subtotal + tax - discount.
func NewOrder(userID uuid.UUID, orderNumber, customerPhone string, lines []Line, discount decimal.Decimal, promotionID *uuid.UUID) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "User ID is required")
	}
	if orderNumber == "" || len(orderNumber) > 20 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Order number must be 1 to 20 characters")
	}
	if len(lines) == 0 {
		return nil, shared.ErrEmptyCart
	}
	if discount.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Discount cannot be negative")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		OrderNumber:       orderNumber,
		Status:            StatusPending,
		CustomerPhone:     customerPhone,
		Tax:               decimal.Zero,
		PromotionID:       promotionID,
		Items:             make([]Item, 0, len(lines)),
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		item, err := newItem(order.ID, line, order.CreatedAt)
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, *item)
		subtotal = subtotal.Add(item.LineTotal())
	}

	order.Subtotal = subtotal
	order.Discount = decimal.Min(discount, subtotal)
	order.Total = order.Subtotal.Add(order.Tax).Sub(order.Discount)

	order.AddDomainEvent(NewPlacedEvent(order))
	return order, nil
}

func newItem(orderID uuid.UUID, line Line, at time.Time) (*Item, error) {
	if line.ProductID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Product ID cannot be empty")
	}
	if line.Quantity < 1 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Quantity must be at least 1")
	}
	if line.Price.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Price cannot be negative")
	}
	return &Item{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductID:   line.ProductID,
		ProductName: line.ProductName,
		Quantity:    line.Quantity,
		Price:       line.Price,
		CreatedAt:   at,
	}, nil
}

// Confirm moves a pending order to confirmed.
func (o *Order) Confirm() error {
	if err := o.transition(StatusConfirmed); err != nil {
		return err
	}
	now := time.Now()
	o.ConfirmedAt = &now
	o.AddDomainEvent(NewConfirmedEvent(o))
	return nil
}

// Cancel moves a pending or confirmed order to cancelled.
// The caller restores the stock of every item in the same unit of work.
func (o *Order) Cancel() error {
	if err := o.transition(StatusCancelled); err != nil {
		return err
	}
	now := time.Now()
	o.CancelledAt = &now
	o.AddDomainEvent(NewCancelledEvent(o))
	return nil
}

// Refund marks the order refunded from any state but refunded.
// It returns whether stock was still held, in which case the caller restores it.
func (o *Order) Refund() (restock bool, err error) {
	held := o.Status.HoldsStock()
	if err := o.transition(StatusRefunded); err != nil {
		return false, err
	}
	now := time.Now()
	o.RefundedAt = &now
	o.AddDomainEvent(NewRefundedEvent(o))
	return held, nil
}

func (o *Order) transition(target Status) error {
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError(shared.CodeInvalidTransition,
			fmt.Sprintf("Cannot change order %s from %s to %s", o.OrderNumber, o.Status, target))
	}
	o.Status = target
	o.Touch()
	o.IncrementVersion()
	return nil
}

// TotalQuantity returns the number of units in the order.
func (o *Order) TotalQuantity() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// IsOwnedBy reports whether the order belongs to userID.
func (o *Order) IsOwnedBy(userID uuid.UUID) bool {
	return o.UserID == userID
}
