package uow

import (
	"context"

	"github.com/shopfront/backend/internal/domain/cart"
	"github.com/shopfront/backend/internal/domain/inventory"
	"github.com/shopfront/backend/internal/domain/order"
)

// TransactionScope runs a unit of work against repositories sharing one database transaction.
// If fn returns an error the transaction is rolled back, otherwise it is committed.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories touched by stock-moving use cases.
// All of them share the transaction of the enclosing Execute call.
type TransactionalRepositories interface {
	InventoryRepo() inventory.Repository
	CartRepo() cart.Repository
	OrderRepo() order.Repository
}

// NoOpTransactionScope runs the function directly on the given repositories.
// It is meant for unit tests with in-memory or mocked repositories.
type NoOpTransactionScope struct {
	inventoryRepo inventory.Repository
	cartRepo      cart.Repository
	orderRepo     order.Repository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(inventoryRepo inventory.Repository, cartRepo cart.Repository, orderRepo order.Repository) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		inventoryRepo: inventoryRepo,
		cartRepo:      cartRepo,
		orderRepo:     orderRepo,
	}
}

func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) InventoryRepo() inventory.Repository {
	return s.inventoryRepo
}

func (s *NoOpTransactionScope) CartRepo() cart.Repository {
	return s.cartRepo
}

func (s *NoOpTransactionScope) OrderRepo() order.Repository {
	return s.orderRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
