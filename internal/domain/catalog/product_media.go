package catalog

import (
	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
)

// ProductImage references an image stored outside the service by URL.
type ProductImage struct {
	shared.BaseEntity
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	URL       string    `gorm:"column:image;type:varchar(500);not null"`
	AltText   string    `gorm:"type:varchar(200)"`
	IsPrimary bool      `gorm:"not null;default:false"`
	SortOrder int       `gorm:"not null;default:0"`
}

func (ProductImage) TableName() string {
	return "product_images"
}

// NewProductImage creates an image reference for a product.
func NewProductImage(productID uuid.UUID, url, altText string, isPrimary bool, sortOrder int) (*ProductImage, error) {
	if url == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Image URL cannot be empty")
	}
	if len(url) > 500 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Image URL cannot exceed 500 characters")
	}
	return &ProductImage{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		URL:        url,
		AltText:    altText,
		IsPrimary:  isPrimary,
		SortOrder:  sortOrder,
	}, nil
}

// ProductAttribute is a named characteristic such as "Colour" or "Size".
type ProductAttribute struct {
	shared.BaseEntity
	Name string `gorm:"type:varchar(100);not null;uniqueIndex"`
}

func (ProductAttribute) TableName() string {
	return "product_attributes"
}

// ProductAttributeValue is the value of an attribute for one product.
type ProductAttributeValue struct {
	shared.BaseEntity
	ProductID   uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_product_attribute,priority:1"`
	AttributeID uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_product_attribute,priority:2"`
	Attribute   *ProductAttribute `gorm:"foreignKey:AttributeID"`
	Value       string            `gorm:"type:varchar(200);not null"`
}

func (ProductAttributeValue) TableName() string {
	return "product_attribute_values"
}

// NewProductAttribute creates a named attribute.
func NewProductAttribute(name string) (*ProductAttribute, error) {
	if name == "" || len(name) > 100 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Attribute name must be 1 to 100 characters")
	}
	return &ProductAttribute{BaseEntity: shared.NewBaseEntity(), Name: name}, nil
}

// NewProductAttributeValue binds a value of attribute to product.
func NewProductAttributeValue(productID uuid.UUID, attribute *ProductAttribute, value string) (*ProductAttributeValue, error) {
	if attribute == nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Attribute is required")
	}
	if value == "" || len(value) > 200 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Attribute value must be 1 to 200 characters")
	}
	return &ProductAttributeValue{
		BaseEntity:  shared.NewBaseEntity(),
		ProductID:   productID,
		AttributeID: attribute.ID,
		Attribute:   attribute,
		Value:       value,
	}, nil
}
