package order

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	appinv "github.com/shopfront/backend/internal/application/inventory"
	"github.com/shopfront/backend/internal/application/uow"
	"github.com/shopfront/backend/internal/domain/cart"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/inventory"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/promotion"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/logger"
	"github.com/shopfront/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxNumberAttempts bounds retries when two placements draw the same order number.
const maxNumberAttempts = 3

// StockNotifier receives stock movements after their transaction committed.
type StockNotifier interface {
	AfterCommit(ctx context.Context, adjustments ...*appinv.Adjustment)
}

// OrderService turns carts into orders and drives their lifecycle.
type OrderService struct {
	txScope         uow.TransactionScope
	orderRepo       order.Repository
	productRepo     catalog.ProductRepository
	userRepo        identity.UserRepository
	applier         promotion.DiscountApplier
	stockNotifier   StockNotifier
	idempotency     shared.IdempotencyStore
	idempotencyTTL  time.Duration
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
	now             func() time.Time
}

// NewOrderService creates a new OrderService that applies no discount.
func NewOrderService(
	txScope uow.TransactionScope,
	orderRepo order.Repository,
	productRepo catalog.ProductRepository,
	userRepo identity.UserRepository,
) *OrderService {
	return &OrderService{
		txScope:        txScope,
		orderRepo:      orderRepo,
		productRepo:    productRepo,
		userRepo:       userRepo,
		applier:        promotion.NoDiscount{},
		idempotencyTTL: shared.DefaultIdempotencyConfig().TTL,
		now:            time.Now,
	}
}

// SetDiscountApplier replaces the discount policy used at placement.
func (s *OrderService) SetDiscountApplier(applier promotion.DiscountApplier) {
	if applier == nil {
		applier = promotion.NoDiscount{}
	}
	s.applier = applier
}

// SetStockNotifier sets the receiver of committed stock movements
func (s *OrderService) SetStockNotifier(n StockNotifier) {
	s.stockNotifier = n
}

// SetIdempotencyStore enables Idempotency-Key handling for PlaceOrder
func (s *OrderService) SetIdempotencyStore(store shared.IdempotencyStore, ttl time.Duration) {
	s.idempotency = store
	if ttl > 0 {
		s.idempotencyTTL = ttl
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *OrderService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// PlaceOrder converts the user's cart into a pending order.
//
// In one transaction it snapshots every cart line at the current price,
// takes the ordered quantities out of stock and empties the cart. Any failure
// leaves cart, stock and orders untouched. idempotencyKey may be empty.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uuid.UUID, idempotencyKey string) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "place",
		telemetry.SpanAttrUserID, userID.String())
	defer span.End()

	release, err := s.claimIdempotencyKey(ctx, userID, idempotencyKey)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		release()
		telemetry.RecordError(span, err)
		return nil, err
	}

	var (
		placed      *order.Order
		adjustments []*appinv.Adjustment
	)
	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		placed, adjustments, err = s.placeOnce(ctx, user)
		if !isNumberCollision(err) {
			break
		}
		telemetry.AddEvent(span, "order_number_collision", "attempt", attempt)
		logger.FromContext(ctx).Warn("Order number collision, retrying",
			zap.String("user_id", userID.String()),
			zap.Int("attempt", attempt))
	}
	if err != nil {
		release()
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, placed.ID.String(),
		telemetry.SpanAttrOrderNumber, placed.OrderNumber,
		telemetry.SpanAttrItemCount, len(placed.Items),
		telemetry.SpanAttrAmount, placed.Total.String(),
	)

	if s.stockNotifier != nil {
		s.stockNotifier.AfterCommit(ctx, adjustments...)
	}
	if s.businessMetrics != nil {
		s.businessMetrics.RecordOrderPlaced(ctx, placed.Total)
	}
	s.publishDomainEvents(ctx, placed)

	return ToOrderResponse(placed), nil
}

func (s *OrderService) placeOnce(ctx context.Context, user *identity.User) (*order.Order, []*appinv.Adjustment, error) {
	var (
		placed      *order.Order
		adjustments []*appinv.Adjustment
	)
	err := s.txScope.Execute(ctx, func(repos uow.TransactionalRepositories) error {
		c, err := repos.CartRepo().LockForUpdate(ctx, user.ID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.ErrEmptyCart
			}
			return err
		}
		if c.IsEmpty() {
			return shared.ErrEmptyCart
		}

		products, err := s.productRepo.FindByIDs(ctx, c.ProductIDs())
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]*catalog.Product, len(products))
		for i := range products {
			byID[products[i].ID] = &products[i]
		}

		lines := make([]order.Line, 0, len(c.Items))
		priced := make([]promotion.Line, 0, len(c.Items))
		subtotal := decimal.Zero
		for _, item := range c.Items {
			product, ok := byID[item.ProductID]
			if !ok {
				return shared.NewDomainError(shared.CodeNotFound, fmt.Sprintf("Product %s no longer exists", item.ProductID))
			}
			if err := product.EnsureOrderable(); err != nil {
				return err
			}
			lines = append(lines, order.Line{
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    item.Quantity,
				Price:       product.Price,
			})
			priced = append(priced, promotion.Line{
				ProductID:  product.ID,
				CategoryID: product.CategoryID,
				Quantity:   item.Quantity,
				UnitPrice:  product.Price,
			})
			subtotal = subtotal.Add(item.LineTotal(product.Price))
		}

		now := s.now()
		applied, err := s.applier.Apply(ctx, subtotal, priced, now)
		if err != nil {
			return err
		}

		number, err := repos.OrderRepo().NextOrderNumber(ctx, now)
		if err != nil {
			return err
		}

		o, err := order.NewOrder(user.ID, number, user.Phone, lines, applied.Amount, applied.PromotionID)
		if err != nil {
			return err
		}
		if err := repos.OrderRepo().Create(ctx, o); err != nil {
			return err
		}

		adjustments, err = moveStock(ctx, repos.InventoryRepo(), o.Items, -1, inventory.ReasonOrderPlaced)
		if err != nil {
			return err
		}

		removed, err := repos.CartRepo().RemoveLines(ctx, c.ID, c.Items)
		if err != nil {
			return err
		}
		if removed != int64(len(c.Items)) {
			return cart.ErrChanged
		}

		placed = o
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return placed, adjustments, nil
}

// isNumberCollision matches the order number sentinel itself; other
// concurrency conflicts share its code but must not be retried.
func isNumberCollision(err error) bool {
	var domainErr *shared.DomainError
	return errors.As(err, &domainErr) && domainErr == order.ErrNumberTaken
}

// Cancel cancels a pending or confirmed order and puts its items back in stock.
func (s *OrderService) Cancel(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, actor, orderID, func(o *order.Order) (bool, string, error) {
		return true, inventory.ReasonOrderCancelled, o.Cancel()
	})
}

// Confirm confirms a pending order. Staff only.
func (s *OrderService) Confirm(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderResponse, error) {
	if !actor.IsStaff {
		return nil, shared.ErrForbidden
	}
	return s.transition(ctx, actor, orderID, func(o *order.Order) (bool, string, error) {
		return false, "", o.Confirm()
	})
}

// Refund refunds an order, restoring stock when the order still held it. Staff only.
func (s *OrderService) Refund(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderResponse, error) {
	if !actor.IsStaff {
		return nil, shared.ErrForbidden
	}
	return s.transition(ctx, actor, orderID, func(o *order.Order) (bool, string, error) {
		restock, err := o.Refund()
		return restock, inventory.ReasonOrderRefunded, err
	})
}

// transition loads the order, applies change and persists the new status in one
// transaction. change reports whether the order's items go back into stock.
func (s *OrderService) transition(
	ctx context.Context,
	actor Actor,
	orderID uuid.UUID,
	change func(o *order.Order) (restock bool, reason string, err error),
) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "transition",
		telemetry.SpanAttrOrderID, orderID.String())
	defer span.End()

	var (
		updated     *order.Order
		adjustments []*appinv.Adjustment
	)
	err := s.txScope.Execute(ctx, func(repos uow.TransactionalRepositories) error {
		o, err := findForActor(ctx, repos.OrderRepo(), actor, orderID)
		if err != nil {
			return err
		}

		restock, reason, err := change(o)
		if err != nil {
			return err
		}
		if err := repos.OrderRepo().SaveStatus(ctx, o); err != nil {
			return err
		}

		if restock {
			adjustments, err = moveStock(ctx, repos.InventoryRepo(), o.Items, 1, reason)
			if err != nil {
				return err
			}
		}

		updated = o
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrOrderStatus, updated.Status.String())

	if s.stockNotifier != nil {
		s.stockNotifier.AfterCommit(ctx, adjustments...)
	}
	if s.businessMetrics != nil {
		s.businessMetrics.RecordOrderTransition(ctx, updated.Status.String())
	}
	s.publishDomainEvents(ctx, updated)

	return ToOrderResponse(updated), nil
}

// Get returns one order visible to the actor.
func (s *OrderService) Get(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := findForActor(ctx, s.orderRepo, actor, orderID)
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(o), nil
}

// List returns the actor's orders, or every order for staff, newest first.
func (s *OrderService) List(ctx context.Context, actor Actor, filter OrderListFilter) ([]OrderListItemResponse, int64, error) {
	domainFilter := order.Filter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  "created_at",
			OrderDir: "desc",
		}.Normalize(),
	}
	if !actor.IsStaff {
		userID := actor.UserID
		domainFilter.UserID = &userID
	}
	if filter.Status != "" {
		status := order.Status(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError(shared.CodeValidation, "Unknown order status")
		}
		domainFilter.Status = &status
	}

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToOrderListItemResponses(orders), total, nil
}

func findForActor(ctx context.Context, repo order.Repository, actor Actor, orderID uuid.UUID) (*order.Order, error) {
	if actor.IsStaff {
		return repo.FindByID(ctx, orderID)
	}
	return repo.FindByIDForUser(ctx, actor.UserID, orderID)
}

// moveStock adjusts stock for every item by sign × quantity. Items are visited
// in product id order so concurrent transactions lock inventory rows in the same order.
func moveStock(ctx context.Context, repo inventory.Repository, items []order.Item, sign int, reason string) ([]*appinv.Adjustment, error) {
	sorted := make([]order.Item, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ProductID.String() < sorted[j].ProductID.String()
	})

	adjustments := make([]*appinv.Adjustment, 0, len(sorted))
	for _, item := range sorted {
		adj, err := appinv.ApplyAdjustment(ctx, repo, item.ProductID, sign*item.Quantity, reason)
		if err != nil {
			return nil, err
		}
		adjustments = append(adjustments, adj)
	}
	return adjustments, nil
}

// claimIdempotencyKey marks the key as used and returns a func that frees it again
// if the placement fails.
func (s *OrderService) claimIdempotencyKey(ctx context.Context, userID uuid.UUID, key string) (func(), error) {
	noop := func() {}
	if key == "" || s.idempotency == nil {
		return noop, nil
	}

	scoped := fmt.Sprintf("order:%s:%s", userID, key)
	fresh, err := s.idempotency.MarkProcessed(ctx, scoped, s.idempotencyTTL)
	if err != nil {
		return nil, fmt.Errorf("claim idempotency key: %w", err)
	}
	if !fresh {
		return nil, shared.ErrDuplicateRequest
	}
	return func() {
		if err := s.idempotency.Release(ctx, scoped); err != nil {
			logger.FromContext(ctx).Warn("Failed to release idempotency key", zap.Error(err))
		}
	}, nil
}

func (s *OrderService) publishDomainEvents(ctx context.Context, o *order.Order) {
	if s.eventPublisher == nil {
		return
	}
	events := o.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	// Publish events (errors are logged by the event bus, not propagated)
	_ = s.eventPublisher.Publish(ctx, events...)
	o.ClearDomainEvents()
}
