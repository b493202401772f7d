package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Cart is the per-user collection of products not yet ordered.
// The cart row survives order placement; only its items are removed.
type Cart struct {
	shared.BaseEntity
	UserID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	SessionKey *string    `gorm:"type:varchar(40);index"`
	Items      []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Cart) TableName() string {
	return "carts"
}

// CartItem is one product line of a cart. (cart, product) is unique.
type CartItem struct {
	shared.BaseEntity
	CartID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_item_product,priority:1"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_item_product,priority:2"`
	Quantity  int       `gorm:"not null;default:1;check:quantity >= 1"`
	AddedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartItem) TableName() string {
	return "cart_items"
}

// NewCart creates an empty cart for a user.
func NewCart(userID uuid.UUID) (*Cart, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "User ID is required")
	}
	return &Cart{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Items:      make([]CartItem, 0),
	}, nil
}

// FindItem returns the line for productID, if any.
func (c *Cart) FindItem(productID uuid.UUID) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// QuantityOf returns the quantity of productID already in the cart.
func (c *Cart) QuantityOf(productID uuid.UUID) int {
	if item := c.FindItem(productID); item != nil {
		return item.Quantity
	}
	return 0
}

// AddItem accumulates quantity onto an existing line or appends a new one.
// The returned item is the line that must be persisted.
func (c *Cart) AddItem(productID uuid.UUID, quantity int) (*CartItem, error) {
	if err := ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	if item := c.FindItem(productID); item != nil {
		item.Quantity += quantity
		item.Touch()
		return item, nil
	}
	item, err := NewItem(c.ID, productID, quantity)
	if err != nil {
		return nil, err
	}
	c.Items = append(c.Items, *item)
	c.Touch()
	return &c.Items[len(c.Items)-1], nil
}

// NewItem creates a line carrying quantity units of productID. Persisted
// through Repository.AccumulateItem it is merged into an existing line.
func NewItem(cartID, productID uuid.UUID, quantity int) (*CartItem, error) {
	if err := ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	return &CartItem{
		BaseEntity: shared.NewBaseEntity(),
		CartID:     cartID,
		ProductID:  productID,
		Quantity:   quantity,
		AddedAt:    time.Now(),
	}, nil
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ProductIDs returns the distinct products in the cart.
func (c *Cart) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(c.Items))
	for _, item := range c.Items {
		ids = append(ids, item.ProductID)
	}
	return ids
}

// Total sums quantity times the given current unit prices.
// Items whose product has no price are skipped.
func (c *Cart) Total(prices map[uuid.UUID]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		price, ok := prices[item.ProductID]
		if !ok {
			continue
		}
		total = total.Add(item.LineTotal(price))
	}
	return total
}

// SetQuantity replaces the quantity of the line.
func (i *CartItem) SetQuantity(quantity int) error {
	if err := ValidateQuantity(quantity); err != nil {
		return err
	}
	i.Quantity = quantity
	i.Touch()
	return nil
}

// LineTotal returns quantity times price.
func (i *CartItem) LineTotal(price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ValidateQuantity rejects quantities below one.
func ValidateQuantity(quantity int) error {
	if quantity < 1 {
		return shared.NewDomainError(shared.CodeValidation, "Quantity must be at least 1")
	}
	return nil
}
