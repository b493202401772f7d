package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/cart"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/inventory"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StockReader reports the quantity on hand of a product.
type StockReader interface {
	Available(ctx context.Context, productID uuid.UUID) (int, error)
}

// CartService manages the cart of a user. Every operation takes the owner explicitly.
type CartService struct {
	cartRepo    cart.Repository
	productRepo catalog.ProductRepository
	stock       StockReader
}

// NewCartService creates a new CartService
func NewCartService(cartRepo cart.Repository, productRepo catalog.ProductRepository, stock StockReader) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		stock:       stock,
	}
}

// Get returns the user's cart, creating it on first access.
// Line prices and the total reflect current product prices.
func (s *CartService) Get(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	c, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, c)
}

// AddItem puts quantity units of a product into the cart, accumulating onto an
// existing line. The accumulated quantity may not exceed the stock on hand;
// stock is checked, not held, so carts of different users may overlap.
func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartResponse, error) {
	if err := cart.ValidateQuantity(req.Quantity); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if err := product.EnsureOrderable(); err != nil {
		return nil, err
	}

	c, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	available, err := s.stock.Available(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	requested := c.QuantityOf(product.ID) + req.Quantity
	if requested > available {
		return nil, inventory.InsufficientStock(available, requested)
	}

	item, err := cart.NewItem(c.ID, product.ID, req.Quantity)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.AccumulateItem(ctx, item, available); err != nil {
		if errors.Is(err, cart.ErrLineLimit) {
			return nil, inventory.InsufficientStock(available, requested)
		}
		return nil, err
	}

	return s.Get(ctx, userID)
}

// UpdateItem replaces the quantity of one of the user's cart lines.
func (s *CartService) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, req UpdateItemRequest) (*CartResponse, error) {
	if err := cart.ValidateQuantity(req.Quantity); err != nil {
		return nil, err
	}

	item, err := s.cartRepo.FindItemForUser(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}
	if err := product.EnsureOrderable(); err != nil {
		return nil, err
	}
	if err := s.checkStock(ctx, product.ID, req.Quantity); err != nil {
		return nil, err
	}

	if err := item.SetQuantity(req.Quantity); err != nil {
		return nil, err
	}
	if err := s.cartRepo.SaveItem(ctx, item); err != nil {
		return nil, err
	}

	return s.Get(ctx, userID)
}

// RemoveItem deletes one of the user's cart lines.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartResponse, error) {
	if err := s.cartRepo.DeleteItemForUser(ctx, userID, itemID); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// Clear empties the user's cart. A user without a cart has nothing to clear.
func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	c, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	_, err = s.cartRepo.ClearItems(ctx, c.ID)
	return err
}

func (s *CartService) checkStock(ctx context.Context, productID uuid.UUID, requested int) error {
	available, err := s.stock.Available(ctx, productID)
	if err != nil {
		return err
	}
	if requested > available {
		return inventory.InsufficientStock(available, requested)
	}
	return nil
}

func (s *CartService) toResponse(ctx context.Context, c *cart.Cart) (*CartResponse, error) {
	resp := &CartResponse{
		ID:        c.ID,
		Items:     make([]CartItemResponse, 0, len(c.Items)),
		Total:     decimal.Zero,
		UpdatedAt: c.UpdatedAt,
	}
	if c.IsEmpty() {
		return resp, nil
	}

	products, err := s.productRepo.FindByIDs(ctx, c.ProductIDs())
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	prices := make(map[uuid.UUID]decimal.Decimal, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
		prices[products[i].ID] = products[i].Price
	}

	for i := range c.Items {
		item := &c.Items[i]
		product, ok := byID[item.ProductID]
		if !ok {
			continue
		}
		resp.Items = append(resp.Items, CartItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: product.Name,
			ProductSlug: product.Slug,
			UnitPrice:   product.Price,
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal(product.Price),
			AddedAt:     item.AddedAt,
		})
		resp.ItemCount += item.Quantity
	}
	resp.Total = c.Total(prices)
	return resp, nil
}
