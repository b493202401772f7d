package catalog

import (
	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
)

// Category groups products. Categories can be nested one under another.
type Category struct {
	shared.BaseAggregateRoot
	Name        string     `gorm:"type:varchar(100);not null"`
	Slug        string     `gorm:"type:varchar(200);not null;uniqueIndex"`
	Description string     `gorm:"type:text"`
	Image       *string    `gorm:"type:varchar(500)"`
	ParentID    *uuid.UUID `gorm:"type:uuid;index"`
	IsActive    bool       `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a category. An empty slug is derived from the name.
func NewCategory(name, slug, description string, parentID *uuid.UUID) (*Category, error) {
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}
	slug, err := resolveSlug(slug, name)
	if err != nil {
		return nil, err
	}

	category := &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              slug,
		Description:       description,
		IsActive:          true,
	}
	if err := category.SetParent(parentID); err != nil {
		return nil, err
	}
	return category, nil
}

// Update replaces the descriptive fields of the category.
func (c *Category) Update(name, slug, description string, image *string) error {
	if err := validateCategoryName(name); err != nil {
		return err
	}
	slug, err := resolveSlug(slug, name)
	if err != nil {
		return err
	}

	c.Name = name
	c.Slug = slug
	c.Description = description
	c.Image = image
	c.Touch()
	c.IncrementVersion()
	return nil
}

// SetParent moves the category under another one, or to the root when nil.
func (c *Category) SetParent(parentID *uuid.UUID) error {
	if parentID != nil && *parentID == c.ID {
		return shared.NewDomainError(shared.CodeValidation, "Category cannot be its own parent")
	}
	c.ParentID = parentID
	c.Touch()
	return nil
}

func (c *Category) Activate() {
	c.IsActive = true
	c.Touch()
	c.IncrementVersion()
}

func (c *Category) Deactivate() {
	c.IsActive = false
	c.Touch()
	c.IncrementVersion()
}

func validateCategoryName(name string) error {
	if name == "" {
		return shared.NewDomainError(shared.CodeValidation, "Category name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError(shared.CodeValidation, "Category name cannot exceed 100 characters")
	}
	return nil
}
