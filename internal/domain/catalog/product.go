package catalog

import (
	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product is a sellable item of the catalog.
type Product struct {
	shared.BaseAggregateRoot
	Name         string           `gorm:"type:varchar(200);not null"`
	Slug         string           `gorm:"type:varchar(200);not null;uniqueIndex"`
	Description  string           `gorm:"type:text"`
	Price        decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	ComparePrice *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CategoryID   uuid.UUID        `gorm:"type:uuid;not null;index"`
	Featured     bool             `gorm:"not null;default:false"`
	InStock      bool             `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a product that is in stock and not featured.
func NewProduct(name, slug, description string, price decimal.Decimal, categoryID uuid.UUID) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	slug, err := resolveSlug(slug, name)
	if err != nil {
		return nil, err
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Product category is required")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              slug,
		Description:       description,
		Price:             price.Round(2),
		CategoryID:        categoryID,
		InStock:           true,
	}
	product.AddDomainEvent(NewProductCreatedEvent(product))
	return product, nil
}

// Update replaces the descriptive fields of the product.
func (p *Product) Update(name, slug, description string, categoryID uuid.UUID) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	slug, err := resolveSlug(slug, name)
	if err != nil {
		return err
	}
	if categoryID == uuid.Nil {
		return shared.NewDomainError(shared.CodeValidation, "Product category is required")
	}

	p.Name = name
	p.Slug = slug
	p.Description = description
	p.CategoryID = categoryID
	p.Touch()
	p.IncrementVersion()
	return nil
}

// SetPrices sets the selling price and the optional "was" price shown crossed out.
func (p *Product) SetPrices(price decimal.Decimal, comparePrice *decimal.Decimal) error {
	if err := validatePrice(price); err != nil {
		return err
	}
	if comparePrice != nil {
		if comparePrice.IsNegative() {
			return shared.NewDomainError(shared.CodeValidation, "Compare price cannot be negative")
		}
		rounded := comparePrice.Round(2)
		comparePrice = &rounded
	}

	oldPrice := p.Price
	p.Price = price.Round(2)
	p.ComparePrice = comparePrice
	p.Touch()
	p.IncrementVersion()

	if !oldPrice.Equal(p.Price) {
		p.AddDomainEvent(NewProductPriceChangedEvent(p, oldPrice))
	}
	return nil
}

func (p *Product) SetFeatured(featured bool) {
	p.Featured = featured
	p.Touch()
	p.IncrementVersion()
}

// SetInStock toggles whether the product can be added to carts at all.
func (p *Product) SetInStock(inStock bool) {
	p.InStock = inStock
	p.Touch()
	p.IncrementVersion()
}

// OnSale reports whether a higher compare price is set.
func (p *Product) OnSale() bool {
	return p.ComparePrice != nil && p.ComparePrice.GreaterThan(p.Price)
}

// EnsureOrderable returns ErrOutOfStock when the product is flagged out of stock.
func (p *Product) EnsureOrderable() error {
	if !p.InStock {
		return shared.NewDomainError(shared.CodeOutOfStock, "Product "+p.Name+" is out of stock")
	}
	return nil
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError(shared.CodeValidation, "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError(shared.CodeValidation, "Product name cannot exceed 200 characters")
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError(shared.CodeValidation, "Price cannot be negative")
	}
	return nil
}
