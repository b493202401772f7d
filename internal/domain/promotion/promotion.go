package promotion

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DiscountType selects how DiscountValue is interpreted.
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

func (t DiscountType) IsValid() bool {
	return t == DiscountTypePercentage || t == DiscountTypeFixed
}

var hundred = decimal.NewFromInt(100)

// Promotion is a time-bounded discount rule.
type Promotion struct {
	shared.BaseAggregateRoot
	Name           string           `gorm:"type:varchar(200);not null"`
	Description    string           `gorm:"type:text"`
	DiscountType   DiscountType     `gorm:"type:varchar(20);not null"`
	DiscountValue  decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	MaxDiscount    *decimal.Decimal `gorm:"type:decimal(12,2)"`
	MinOrderAmount *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CategoryIDs    []uuid.UUID      `gorm:"-"`
	ProductIDs     []uuid.UUID      `gorm:"-"`
	ValidFrom      time.Time        `gorm:"not null"`
	ValidTo        time.Time        `gorm:"not null;index"`
	Active         bool             `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (Promotion) TableName() string {
	return "promotions"
}

// NewPromotion creates an active promotion.
func NewPromotion(name, description string, discountType DiscountType, value decimal.Decimal, validFrom, validTo time.Time) (*Promotion, error) {
	p := &Promotion{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Active:            true,
	}
	if err := p.define(name, description, discountType, value, validFrom, validTo); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces the rule definition.
func (p *Promotion) Update(name, description string, discountType DiscountType, value decimal.Decimal, validFrom, validTo time.Time) error {
	if err := p.define(name, description, discountType, value, validFrom, validTo); err != nil {
		return err
	}
	p.IncrementVersion()
	return nil
}

func (p *Promotion) define(name, description string, discountType DiscountType, value decimal.Decimal, validFrom, validTo time.Time) error {
	if name == "" || len(name) > 200 {
		return shared.NewDomainError(shared.CodeValidation, "Promotion name must be 1 to 200 characters")
	}
	if !discountType.IsValid() {
		return shared.NewDomainError(shared.CodeValidation, "Discount type must be 'percentage' or 'fixed'")
	}
	if value.IsNegative() {
		return shared.NewDomainError(shared.CodeValidation, "Discount value cannot be negative")
	}
	if discountType == DiscountTypePercentage && value.GreaterThan(hundred) {
		return shared.NewDomainError(shared.CodeValidation, "Percentage discount cannot exceed 100")
	}
	if validTo.Before(validFrom) {
		return shared.NewDomainError(shared.CodeValidation, "Promotion must end after it starts")
	}

	p.Name = name
	p.Description = description
	p.DiscountType = discountType
	p.DiscountValue = value
	p.ValidFrom = validFrom
	p.ValidTo = validTo
	p.Touch()
	return nil
}

// SetLimits sets the optional discount cap and minimum order amount.
func (p *Promotion) SetLimits(maxDiscount, minOrderAmount *decimal.Decimal) error {
	if maxDiscount != nil && maxDiscount.IsNegative() {
		return shared.NewDomainError(shared.CodeValidation, "Maximum discount cannot be negative")
	}
	if minOrderAmount != nil && minOrderAmount.IsNegative() {
		return shared.NewDomainError(shared.CodeValidation, "Minimum order amount cannot be negative")
	}
	p.MaxDiscount = maxDiscount
	p.MinOrderAmount = minOrderAmount
	p.Touch()
	return nil
}

// SetScope restricts the promotion to categories and products. Empty sets mean "everything".
func (p *Promotion) SetScope(categoryIDs, productIDs []uuid.UUID) {
	p.CategoryIDs = categoryIDs
	p.ProductIDs = productIDs
	p.Touch()
}

func (p *Promotion) Activate() {
	p.Active = true
	p.Touch()
	p.IncrementVersion()
}

func (p *Promotion) Deactivate() {
	p.Active = false
	p.Touch()
	p.IncrementVersion()
}

// IsValid is true iff the promotion is active and at lies within [ValidFrom, ValidTo].
func (p *Promotion) IsValid(at time.Time) bool {
	return p.Active && !at.Before(p.ValidFrom) && !at.After(p.ValidTo)
}

// CalculateDiscount returns the discount for amount at the given instant.
// Percentage: amount * value / 100. Fixed: min(value, amount).
// Invalid promotions and unknown types yield zero. MaxDiscount, when set,
// caps percentage discounts only.
func (p *Promotion) CalculateDiscount(amount decimal.Decimal, at time.Time) decimal.Decimal {
	if !p.IsValid(at) {
		return decimal.Zero
	}

	switch p.DiscountType {
	case DiscountTypePercentage:
		discount := amount.Mul(p.DiscountValue).Div(hundred)
		if p.MaxDiscount != nil && discount.GreaterThan(*p.MaxDiscount) {
			discount = *p.MaxDiscount
		}
		return discount
	case DiscountTypeFixed:
		return decimal.Min(p.DiscountValue, amount)
	default:
		return decimal.Zero
	}
}

// MeetsMinimum reports whether amount reaches the optional minimum order amount.
func (p *Promotion) MeetsMinimum(amount decimal.Decimal) bool {
	return p.MinOrderAmount == nil || !amount.LessThan(*p.MinOrderAmount)
}

// AppliesTo reports whether a product (in the given category) is targeted.
func (p *Promotion) AppliesTo(productID, categoryID uuid.UUID) bool {
	if len(p.ProductIDs) == 0 && len(p.CategoryIDs) == 0 {
		return true
	}
	for _, id := range p.ProductIDs {
		if id == productID {
			return true
		}
	}
	for _, id := range p.CategoryIDs {
		if id == categoryID {
			return true
		}
	}
	return false
}
