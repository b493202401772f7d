package order

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/application/uow"
	"github.com/shopfront/backend/internal/domain/cart"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/inventory"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/shared"
)

// store is an in-memory database whose transactions restore a snapshot on error.
type store struct {
	mu        sync.Mutex
	stock     map[uuid.UUID]inventory.Inventory
	history   []inventory.History
	carts     map[uuid.UUID]cart.Cart
	orders    map[uuid.UUID]order.Order
	products  map[uuid.UUID]catalog.Product
	users     map[uuid.UUID]identity.User
	takenOnce map[string]bool
	// beforeRemoveLines runs inside RemoveLines, standing in for a concurrent writer.
	beforeRemoveLines func()
}

func newStore() *store {
	return &store{
		stock:     map[uuid.UUID]inventory.Inventory{},
		carts:     map[uuid.UUID]cart.Cart{},
		orders:    map[uuid.UUID]order.Order{},
		products:  map[uuid.UUID]catalog.Product{},
		users:     map[uuid.UUID]identity.User{},
		takenOnce: map[string]bool{},
	}
}

type snapshot struct {
	stock   map[uuid.UUID]inventory.Inventory
	history []inventory.History
	carts   map[uuid.UUID]cart.Cart
	orders  map[uuid.UUID]order.Order
}

func (s *store) snapshot() snapshot {
	snap := snapshot{
		stock:   map[uuid.UUID]inventory.Inventory{},
		history: append([]inventory.History(nil), s.history...),
		carts:   map[uuid.UUID]cart.Cart{},
		orders:  map[uuid.UUID]order.Order{},
	}
	for k, v := range s.stock {
		snap.stock[k] = v
	}
	for k, v := range s.carts {
		v.Items = append([]cart.CartItem(nil), v.Items...)
		snap.carts[k] = v
	}
	for k, v := range s.orders {
		snap.orders[k] = v
	}
	return snap
}

func (s *store) restore(snap snapshot) {
	s.stock, s.history, s.carts, s.orders = snap.stock, snap.history, snap.carts, snap.orders
}

// Execute serialises units of work and rolls back on error.
func (s *store) Execute(_ context.Context, fn func(repos uow.TransactionalRepositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snapshot()
	if err := fn(s); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *store) InventoryRepo() inventory.Repository { return (*fakeInventory)(s) }
func (s *store) CartRepo() cart.Repository           { return (*fakeCarts)(s) }
func (s *store) OrderRepo() order.Repository         { return (*fakeOrders)(s) }

func (s *store) historyFor(productID uuid.UUID) []inventory.History {
	inv, ok := s.stock[productID]
	if !ok {
		return nil
	}
	var out []inventory.History
	for _, h := range s.history {
		if h.InventoryID == inv.ID {
			out = append(out, h)
		}
	}
	return out
}

type fakeInventory store

func (f *fakeInventory) FindByProductID(_ context.Context, productID uuid.UUID) (*inventory.Inventory, error) {
	inv, ok := f.stock[productID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &inv, nil
}

func (f *fakeInventory) FindByProductIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*inventory.Inventory, error) {
	out := map[uuid.UUID]*inventory.Inventory{}
	for _, id := range ids {
		if inv, ok := f.stock[id]; ok {
			out[id] = &inv
		}
	}
	return out, nil
}

func (f *fakeInventory) Create(_ context.Context, inv *inventory.Inventory) error {
	if _, ok := f.stock[inv.ProductID]; !ok {
		f.stock[inv.ProductID] = *inv
	}
	return nil
}

func (f *fakeInventory) ApplyDelta(_ context.Context, productID uuid.UUID, delta int) (*inventory.Inventory, error) {
	inv, ok := f.stock[productID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if err := inv.CheckAdjustment(delta); err != nil {
		return nil, err
	}
	inv.Quantity += delta
	f.stock[productID] = inv
	return &inv, nil
}

func (f *fakeInventory) AppendHistory(_ context.Context, entry *inventory.History) error {
	f.history = append(f.history, *entry)
	return nil
}

func (f *fakeInventory) FindHistory(context.Context, uuid.UUID, shared.Filter) ([]inventory.History, error) {
	return f.history, nil
}

func (f *fakeInventory) CountHistory(context.Context, uuid.UUID) (int64, error) {
	return int64(len(f.history)), nil
}

func (f *fakeInventory) UpdateLowStock(context.Context, uuid.UUID, int) error { return nil }

func (f *fakeInventory) CountLowStock(context.Context) (int64, error) { return 0, nil }

type fakeCarts store

func (f *fakeCarts) FindByUserID(_ context.Context, userID uuid.UUID) (*cart.Cart, error) {
	c, ok := f.carts[userID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	c.Items = append([]cart.CartItem(nil), c.Items...)
	return &c, nil
}

func (f *fakeCarts) GetOrCreate(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	if c, err := f.FindByUserID(ctx, userID); err == nil {
		return c, nil
	}
	c, err := cart.NewCart(userID)
	if err != nil {
		return nil, err
	}
	f.carts[userID] = *c
	return c, nil
}

func (f *fakeCarts) FindItemForUser(_ context.Context, userID, itemID uuid.UUID) (*cart.CartItem, error) {
	for _, item := range f.carts[userID].Items {
		if item.ID == itemID {
			return &item, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeCarts) LockForUpdate(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	return f.FindByUserID(ctx, userID)
}

func (f *fakeCarts) SaveItem(context.Context, *cart.CartItem) error { return nil }

func (f *fakeCarts) AccumulateItem(context.Context, *cart.CartItem, int) error { return nil }

func (f *fakeCarts) RemoveLines(_ context.Context, cartID uuid.UUID, lines []cart.CartItem) (int64, error) {
	if f.beforeRemoveLines != nil {
		f.beforeRemoveLines()
	}
	want := make(map[uuid.UUID]int, len(lines))
	for _, line := range lines {
		want[line.ID] = line.Quantity
	}
	for userID, c := range f.carts {
		if c.ID != cartID {
			continue
		}
		kept := c.Items[:0:0]
		var removed int64
		for _, item := range c.Items {
			if qty, ok := want[item.ID]; ok && qty == item.Quantity {
				removed++
				continue
			}
			kept = append(kept, item)
		}
		c.Items = kept
		f.carts[userID] = c
		return removed, nil
	}
	return 0, nil
}

func (f *fakeCarts) DeleteItemForUser(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func (f *fakeCarts) ClearItems(_ context.Context, cartID uuid.UUID) (int64, error) {
	for userID, c := range f.carts {
		if c.ID == cartID {
			n := int64(len(c.Items))
			c.Items = nil
			f.carts[userID] = c
			return n, nil
		}
	}
	return 0, nil
}

type fakeOrders store

func (f *fakeOrders) FindByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &o, nil
}

func (f *fakeOrders) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*order.Order, error) {
	o, err := f.FindByID(ctx, id)
	if err != nil || o.UserID != userID {
		return nil, shared.ErrNotFound
	}
	return o, nil
}

func (f *fakeOrders) matching(filter order.Filter) []order.Order {
	var out []order.Order
	for _, o := range f.orders {
		if filter.UserID != nil && o.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderNumber > out[j].OrderNumber })
	return out
}

func (f *fakeOrders) FindAll(_ context.Context, filter order.Filter) ([]order.Order, error) {
	return f.matching(filter), nil
}

func (f *fakeOrders) Count(_ context.Context, filter order.Filter) (int64, error) {
	return int64(len(f.matching(filter))), nil
}

func (f *fakeOrders) Create(_ context.Context, o *order.Order) error {
	for _, existing := range f.orders {
		if existing.OrderNumber == o.OrderNumber {
			return order.ErrNumberTaken
		}
	}
	if f.takenOnce[o.OrderNumber] {
		delete(f.takenOnce, o.OrderNumber)
		return order.ErrNumberTaken
	}
	f.orders[o.ID] = *o
	return nil
}

func (f *fakeOrders) SaveStatus(_ context.Context, o *order.Order) error {
	stored, ok := f.orders[o.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != o.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	f.orders[o.ID] = *o
	return nil
}

func (f *fakeOrders) NextOrderNumber(_ context.Context, day time.Time) (string, error) {
	last := ""
	prefix := order.NumberPrefix(day)
	for _, o := range f.orders {
		if strings.HasPrefix(o.OrderNumber, prefix) && o.OrderNumber > last {
			last = o.OrderNumber
		}
	}
	for number := range f.takenOnce {
		if number > last {
			return number, nil
		}
	}
	return order.NextNumber(day, last), nil
}

type fakeProducts store

func (f *fakeProducts) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &p, nil
}

func (f *fakeProducts) FindBySlug(context.Context, string) (*catalog.Product, error) {
	return nil, shared.ErrNotFound
}

func (f *fakeProducts) FindByIDs(_ context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProducts) FindAll(context.Context, catalog.ProductFilter) ([]catalog.Product, error) {
	return nil, nil
}

func (f *fakeProducts) Count(context.Context, catalog.ProductFilter) (int64, error) { return 0, nil }

func (f *fakeProducts) ExistsBySlug(context.Context, string, *uuid.UUID) (bool, error) {
	return false, nil
}

func (f *fakeProducts) Save(_ context.Context, p *catalog.Product) error {
	f.products[p.ID] = *p
	return nil
}

func (f *fakeProducts) SaveWithLock(ctx context.Context, p *catalog.Product) error {
	return f.Save(ctx, p)
}

func (f *fakeProducts) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.products, id)
	return nil
}

type fakeUsers store

func (f *fakeUsers) Create(_ context.Context, u *identity.User) error {
	f.users[u.ID] = *u
	return nil
}

func (f *fakeUsers) Update(ctx context.Context, u *identity.User) error { return f.Create(ctx, u) }

func (f *fakeUsers) FindByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUsers) FindByUsername(context.Context, string) (*identity.User, error) {
	return nil, shared.ErrNotFound
}

func (f *fakeUsers) ExistsByUsername(context.Context, string) (bool, error) { return false, nil }

func (f *fakeUsers) ExistsByEmail(context.Context, string) (bool, error) { return false, nil }
