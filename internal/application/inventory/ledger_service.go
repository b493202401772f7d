package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/application/uow"
	"github.com/shopfront/backend/internal/domain/inventory"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/telemetry"
)

// LedgerService is the only writer of stock quantities.
type LedgerService struct {
	inventoryRepo   inventory.Repository
	txScope         uow.TransactionScope
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(inventoryRepo inventory.Repository, txScope uow.TransactionScope) *LedgerService {
	return &LedgerService{
		inventoryRepo: inventoryRepo,
		txScope:       txScope,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *LedgerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *LedgerService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Adjust changes the stock of a product by delta and records why.
// It returns the new quantity.
func (s *LedgerService) Adjust(ctx context.Context, productID uuid.UUID, delta int, reason string) (int, error) {
	var adj *Adjustment
	err := s.txScope.Execute(ctx, func(repos uow.TransactionalRepositories) error {
		var err error
		adj, err = ApplyAdjustment(ctx, repos.InventoryRepo(), productID, delta, reason)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.afterCommit(ctx, adj)
	return adj.Inventory.Quantity, nil
}

// AfterCommit publishes events and records metrics of adjustments made by
// another service inside its own transaction.
func (s *LedgerService) AfterCommit(ctx context.Context, adjustments ...*Adjustment) {
	for _, adj := range adjustments {
		s.afterCommit(ctx, adj)
	}
}

func (s *LedgerService) afterCommit(ctx context.Context, adj *Adjustment) {
	if adj == nil {
		return
	}
	if s.businessMetrics != nil {
		s.businessMetrics.RecordStockAdjustment(ctx, adj.Delta, adj.Reason)
	}
	if s.eventPublisher != nil {
		// Handler errors are logged by the event bus, not propagated
		_ = s.eventPublisher.Publish(ctx, adj.Events()...)
	}
}

// Available returns the quantity on hand of a product, zero if never stocked.
func (s *LedgerService) Available(ctx context.Context, productID uuid.UUID) (int, error) {
	return AvailableIn(ctx, s.inventoryRepo, productID)
}

// AvailableMany returns the quantity on hand for each product id.
func (s *LedgerService) AvailableMany(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	result := make(map[uuid.UUID]int, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}
	inventories, err := s.inventoryRepo.FindByProductIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range productIDs {
		if inv, ok := inventories[id]; ok {
			result[id] = inv.Quantity
		} else {
			result[id] = 0
		}
	}
	return result, nil
}

// Get returns the inventory of a product
func (s *LedgerService) Get(ctx context.Context, productID uuid.UUID) (*InventoryResponse, error) {
	inv, err := s.inventoryRepo.FindByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return ToInventoryResponse(inv), nil
}

// History lists the ledger entries of a product, newest first.
func (s *LedgerService) History(ctx context.Context, productID uuid.UUID, filter HistoryListFilter) ([]HistoryResponse, int64, error) {
	inv, err := s.inventoryRepo.FindByProductID(ctx, productID)
	if err != nil {
		return nil, 0, err
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}.Normalize()

	entries, err := s.inventoryRepo.FindHistory(ctx, inv.ID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.inventoryRepo.CountHistory(ctx, inv.ID)
	if err != nil {
		return nil, 0, err
	}
	return ToHistoryResponses(entries), total, nil
}

// SetLowStock changes the low stock threshold of a product
func (s *LedgerService) SetLowStock(ctx context.Context, productID uuid.UUID, threshold int) (*InventoryResponse, error) {
	inv, err := s.inventoryRepo.FindByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := inv.SetLowStock(threshold); err != nil {
		return nil, err
	}
	if err := s.inventoryRepo.UpdateLowStock(ctx, productID, threshold); err != nil {
		return nil, err
	}
	return ToInventoryResponse(inv), nil
}

// EnsureInventory creates an empty inventory row for a product if none exists.
func (s *LedgerService) EnsureInventory(ctx context.Context, productID uuid.UUID) error {
	inv, err := inventory.NewInventory(productID, inventory.DefaultLowStockThreshold)
	if err != nil {
		return err
	}
	return s.inventoryRepo.Create(ctx, inv)
}
