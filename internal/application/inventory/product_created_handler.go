package inventory

import (
	"context"
	"fmt"

	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductCreatedHandler opens an empty inventory for every new product.
type ProductCreatedHandler struct {
	ledger *LedgerService
	logger *zap.Logger
}

// NewProductCreatedHandler creates a new ProductCreatedHandler
func NewProductCreatedHandler(ledger *LedgerService, logger *zap.Logger) *ProductCreatedHandler {
	return &ProductCreatedHandler{ledger: ledger, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *ProductCreatedHandler) EventTypes() []string {
	return []string{catalog.EventTypeProductCreated}
}

// Handle creates the inventory row
func (h *ProductCreatedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*catalog.ProductCreatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: %T", event)
	}

	if err := h.ledger.EnsureInventory(ctx, e.ProductID); err != nil {
		h.logger.Error("Failed to create inventory for product",
			zap.String("product_id", e.ProductID.String()),
			zap.Error(err))
		return fmt.Errorf("create inventory for product %s: %w", e.ProductID, err)
	}

	h.logger.Debug("Inventory created for product", zap.String("product_id", e.ProductID.String()))
	return nil
}

var _ shared.EventHandler = (*ProductCreatedHandler)(nil)
