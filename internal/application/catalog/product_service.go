package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/shared"
)

// StockReader reports quantities on hand for products.
type StockReader interface {
	AvailableMany(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]int, error)
}

// ProductService handles product-related business operations
type ProductService struct {
	productRepo    catalog.ProductRepository
	categoryRepo   catalog.CategoryRepository
	mediaRepo      catalog.ProductMediaRepository
	stock          StockReader
	eventPublisher shared.EventPublisher
	imageStorage   ImageStorage
	maxImageSize   int64
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	mediaRepo catalog.ProductMediaRepository,
	stock StockReader,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		mediaRepo:    mediaRepo,
		stock:        stock,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new product. Its empty inventory is opened by the ProductCreated handler.
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	category, err := s.findCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(req.Name, req.Slug, req.Description, req.Price, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if req.ComparePrice != nil {
		if err := product.SetPrices(product.Price, req.ComparePrice); err != nil {
			return nil, err
		}
	}
	if req.Featured {
		product.SetFeatured(true)
	}
	if req.InStock != nil && !*req.InStock {
		product.SetInStock(false)
	}

	if err := s.ensureSlugFree(ctx, product.Slug, nil); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, product)

	return ToProductResponse(product, category.Name, 0), nil
}

// Update updates a product with an optimistic version check
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	category, err := s.findCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	if err := product.Update(req.Name, req.Slug, req.Description, req.CategoryID); err != nil {
		return nil, err
	}
	if err := product.SetPrices(req.Price, req.ComparePrice); err != nil {
		return nil, err
	}
	if req.Featured != nil {
		product.SetFeatured(*req.Featured)
	}
	if req.InStock != nil {
		product.SetInStock(*req.InStock)
	}

	if err := s.ensureSlugFree(ctx, product.Slug, &product.ID); err != nil {
		return nil, err
	}
	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, product)

	return s.detail(ctx, product, category.Name)
}

// Delete deletes a product
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return err
	}
	images, err := s.mediaRepo.FindImages(ctx, id)
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	for _, img := range images {
		s.removeStoredImage(ctx, img.URL)
	}
	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, catalog.NewProductDeletedEvent(id))
	}
	return nil
}

// GetByID retrieves a product with its category name, stock, images and attributes
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, product, "")
}

// GetBySlug retrieves a product by its slug
func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySlug(ctx, strings.ToLower(slug))
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, product, "")
}

// List retrieves products matching the filter
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := catalog.ProductFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			Search:   filter.Search,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
		}.Normalize(),
		CategoryID: filter.CategoryID,
		Featured:   filter.Featured,
		InStock:    filter.InStock,
	}

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uuid.UUID, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}
	available, err := s.stock.AvailableMany(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	names, err := s.categoryNames(ctx, products)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProductResponse, len(products))
	for i := range products {
		p := &products[i]
		responses[i] = *ToProductResponse(p, names[p.CategoryID], available[p.ID])
	}
	return responses, total, nil
}

// AddImage attaches an image URL to a product
func (s *ProductService) AddImage(ctx context.Context, productID uuid.UUID, req AddImageRequest) (*ProductImageResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	image, err := catalog.NewProductImage(productID, req.URL, req.AltText, req.IsPrimary, req.SortOrder)
	if err != nil {
		return nil, err
	}
	if err := s.mediaRepo.SaveImage(ctx, image); err != nil {
		return nil, err
	}
	return &toImageResponses([]catalog.ProductImage{*image})[0], nil
}

// DeleteImage removes an image of a product
func (s *ProductService) DeleteImage(ctx context.Context, productID, imageID uuid.UUID) error {
	images, err := s.mediaRepo.FindImages(ctx, productID)
	if err != nil {
		return err
	}
	if err := s.mediaRepo.DeleteImage(ctx, productID, imageID); err != nil {
		return err
	}
	for _, img := range images {
		if img.ID == imageID {
			s.removeStoredImage(ctx, img.URL)
		}
	}
	return nil
}

// SetAttributes replaces the attribute values of a product
func (s *ProductService) SetAttributes(ctx context.Context, productID uuid.UUID, req SetAttributesRequest) ([]ProductAttributeResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(req.Attributes))
	values := make([]catalog.ProductAttributeValue, 0, len(req.Attributes))
	for _, a := range req.Attributes {
		name := strings.TrimSpace(a.Name)
		if seen[strings.ToLower(name)] {
			return nil, shared.NewDomainError(shared.CodeValidation, "Duplicate attribute "+name)
		}
		seen[strings.ToLower(name)] = true

		attribute, err := s.mediaRepo.FindOrCreateAttribute(ctx, name)
		if err != nil {
			return nil, err
		}
		value, err := catalog.NewProductAttributeValue(productID, attribute, strings.TrimSpace(a.Value))
		if err != nil {
			return nil, err
		}
		values = append(values, *value)
	}

	if err := s.mediaRepo.ReplaceAttributeValues(ctx, productID, values); err != nil {
		return nil, err
	}
	return toAttributeResponses(values), nil
}

func (s *ProductService) detail(ctx context.Context, product *catalog.Product, categoryName string) (*ProductResponse, error) {
	if categoryName == "" {
		names, err := s.categoryNames(ctx, []catalog.Product{*product})
		if err != nil {
			return nil, err
		}
		categoryName = names[product.CategoryID]
	}
	available, err := s.stock.AvailableMany(ctx, []uuid.UUID{product.ID})
	if err != nil {
		return nil, err
	}
	images, err := s.mediaRepo.FindImages(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	values, err := s.mediaRepo.FindAttributeValues(ctx, product.ID)
	if err != nil {
		return nil, err
	}

	resp := ToProductResponse(product, categoryName, available[product.ID])
	resp.Images = toImageResponses(images)
	resp.Attributes = toAttributeResponses(values)
	return resp, nil
}

func (s *ProductService) categoryNames(ctx context.Context, products []catalog.Product) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string)
	for i := range products {
		id := products[i].CategoryID
		if _, ok := names[id]; ok {
			continue
		}
		category, err := s.categoryRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				names[id] = ""
				continue
			}
			return nil, err
		}
		names[id] = category.Name
	}
	return names, nil
}

func (s *ProductService) findCategory(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.CodeValidation, "Category not found")
		}
		return nil, err
	}
	return category, nil
}

func (s *ProductService) ensureSlugFree(ctx context.Context, slug string, excludeID *uuid.UUID) error {
	exists, err := s.productRepo.ExistsBySlug(ctx, slug, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError(shared.CodeAlreadyExists, "Product with this slug already exists")
	}
	return nil
}

func (s *ProductService) publishDomainEvents(ctx context.Context, product *catalog.Product) {
	if s.eventPublisher == nil {
		return
	}
	events := product.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	// Publish events (errors are logged by the event bus, not propagated)
	_ = s.eventPublisher.Publish(ctx, events...)
	product.ClearDomainEvents()
}
