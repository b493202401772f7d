package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name        string     `json:"name" binding:"required,min=1,max=100"`
	Slug        string     `json:"slug" binding:"omitempty,max=200"`
	Description string     `json:"description"`
	Image       *string    `json:"image" binding:"omitempty,url,max=500"`
	ParentID    *uuid.UUID `json:"parent_id"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name        string     `json:"name" binding:"required,min=1,max=100"`
	Slug        string     `json:"slug" binding:"omitempty,max=200"`
	Description string     `json:"description"`
	Image       *string    `json:"image" binding:"omitempty,url,max=500"`
	ParentID    *uuid.UUID `json:"parent_id"`
	IsActive    *bool      `json:"is_active"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Slug         string     `json:"slug"`
	Description  string     `json:"description"`
	Image        *string    `json:"image"`
	ParentID     *uuid.UUID `json:"parent_id"`
	IsActive     bool       `json:"is_active"`
	ProductCount int64      `json:"product_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CategoryListFilter represents filter options for category list
type CategoryListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name         string           `json:"name" binding:"required,min=1,max=200"`
	Slug         string           `json:"slug" binding:"omitempty,max=200"`
	Description  string           `json:"description"`
	Price        decimal.Decimal  `json:"price" binding:"required"`
	ComparePrice *decimal.Decimal `json:"compare_price"`
	CategoryID   uuid.UUID        `json:"category_id" binding:"required"`
	Featured     bool             `json:"featured"`
	InStock      *bool            `json:"in_stock"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name         string           `json:"name" binding:"required,min=1,max=200"`
	Slug         string           `json:"slug" binding:"omitempty,max=200"`
	Description  string           `json:"description"`
	Price        decimal.Decimal  `json:"price" binding:"required"`
	ComparePrice *decimal.Decimal `json:"compare_price"`
	CategoryID   uuid.UUID        `json:"category_id" binding:"required"`
	Featured     *bool            `json:"featured"`
	InStock      *bool            `json:"in_stock"`
}

// ProductListFilter represents filter options for product list
type ProductListFilter struct {
	Search     string     `form:"search"`
	CategoryID *uuid.UUID `form:"-"`
	Featured   *bool      `form:"featured"`
	InStock    *bool      `form:"in_stock"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by" binding:"omitempty,oneof=created_at name price"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ProductImageResponse represents a product image
type ProductImageResponse struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url"`
	AltText   string    `json:"alt_text"`
	IsPrimary bool      `json:"is_primary"`
	SortOrder int       `json:"sort_order"`
}

// ProductAttributeResponse represents one attribute value of a product
type ProductAttributeResponse struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID           uuid.UUID                  `json:"id"`
	Name         string                     `json:"name"`
	Slug         string                     `json:"slug"`
	Description  string                     `json:"description"`
	Price        decimal.Decimal            `json:"price"`
	ComparePrice *decimal.Decimal           `json:"compare_price"`
	OnSale       bool                       `json:"on_sale"`
	CategoryID   uuid.UUID                  `json:"category_id"`
	CategoryName string                     `json:"category_name"`
	Featured     bool                       `json:"featured"`
	InStock      bool                       `json:"in_stock"`
	Available    int                        `json:"available"`
	Images       []ProductImageResponse     `json:"images,omitempty"`
	Attributes   []ProductAttributeResponse `json:"attributes,omitempty"`
	CreatedAt    time.Time                  `json:"created_at"`
	UpdatedAt    time.Time                  `json:"updated_at"`
}

// AddImageRequest represents a request to attach an image to a product
type AddImageRequest struct {
	URL       string `json:"url" binding:"required,url,max=500"`
	AltText   string `json:"alt_text" binding:"max=200"`
	IsPrimary bool   `json:"is_primary"`
	SortOrder int    `json:"sort_order"`
}

// ImageUploadRequest asks for a presigned upload of a product image
type ImageUploadRequest struct {
	ContentType string `json:"content_type" binding:"required,oneof=image/jpeg image/png image/webp image/gif"`
	Size        int64  `json:"size" binding:"required,min=1"`
}

// ImageUploadResponse tells the client where to PUT the image and the URL
// to attach once the upload is done
type ImageUploadResponse struct {
	UploadURL  string    `json:"upload_url"`
	ImageURL   string    `json:"image_url"`
	StorageKey string    `json:"storage_key"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// SetAttributesRequest replaces every attribute value of a product
type SetAttributesRequest struct {
	Attributes []ProductAttributeResponse `json:"attributes" binding:"dive"`
}

// ToCategoryResponse converts a category to a response
func ToCategoryResponse(c *catalog.Category, productCount int64) *CategoryResponse {
	return &CategoryResponse{
		ID:           c.ID,
		Name:         c.Name,
		Slug:         c.Slug,
		Description:  c.Description,
		Image:        c.Image,
		ParentID:     c.ParentID,
		IsActive:     c.IsActive,
		ProductCount: productCount,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// ToProductResponse converts a product to a response
func ToProductResponse(p *catalog.Product, categoryName string, available int) *ProductResponse {
	return &ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Slug:         p.Slug,
		Description:  p.Description,
		Price:        p.Price,
		ComparePrice: p.ComparePrice,
		OnSale:       p.OnSale(),
		CategoryID:   p.CategoryID,
		CategoryName: categoryName,
		Featured:     p.Featured,
		InStock:      p.InStock,
		Available:    available,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func toImageResponses(images []catalog.ProductImage) []ProductImageResponse {
	out := make([]ProductImageResponse, len(images))
	for i, img := range images {
		out[i] = ProductImageResponse{
			ID:        img.ID,
			URL:       img.URL,
			AltText:   img.AltText,
			IsPrimary: img.IsPrimary,
			SortOrder: img.SortOrder,
		}
	}
	return out
}

func toAttributeResponses(values []catalog.ProductAttributeValue) []ProductAttributeResponse {
	out := make([]ProductAttributeResponse, 0, len(values))
	for _, v := range values {
		name := ""
		if v.Attribute != nil {
			name = v.Attribute.Name
		}
		out = append(out, ProductAttributeResponse{Name: name, Value: v.Value})
	}
	return out
}
