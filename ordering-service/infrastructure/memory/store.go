// Package memory is test support: an in-process implementation of the
// ordering repositories with the same compare-and-swap contract as the
// Postgres adapters. The saga and handler tests run against it; services
// always wire the Postgres adapters.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/draftea/order-system/ordering-service/domain"
	"github.com/draftea/order-system/shared/events"
	"github.com/draftea/order-system/shared/models"
)

type stockKey struct {
	warehouseID models.ID
	productID   models.ID
}

// Store implements domain.OrderRepository, domain.StockLedger,
// domain.Catalog and events.Publisher. The mutex stands in for row locks;
// each method is one "transaction".
type Store struct {
	mu         sync.Mutex
	orders     map[models.ID]*domain.Order
	stock      map[stockKey]*domain.Stock
	products   map[models.ID]*domain.Product
	customers  map[models.ID]*domain.Customer
	warehouses map[models.ID]*domain.Warehouse
	outbox     []*events.Event
}

func NewStore() *Store {
	return &Store{
		orders:     map[models.ID]*domain.Order{},
		stock:      map[stockKey]*domain.Stock{},
		products:   map[models.ID]*domain.Product{},
		customers:  map[models.ID]*domain.Customer{},
		warehouses: map[models.ID]*domain.Warehouse{},
	}
}

// Seeding helpers.

func (s *Store) AddProduct(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = &p
}

func (s *Store) AddCustomer(c domain.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[c.ID] = &c
}

func (s *Store) AddWarehouse(w domain.Warehouse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warehouses[w.ID] = &w
}

func (s *Store) SetStock(warehouseID, productID models.ID, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock[stockKey{warehouseID, productID}] = &domain.Stock{
		WarehouseID: warehouseID,
		ProductID:   productID,
		Quantity:    quantity,
		Version:     1,
	}
}

// StockOf returns the quantity held for warehouseID/productID.
func (s *Store) StockOf(warehouseID, productID models.ID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row, ok := s.stock[stockKey{warehouseID, productID}]; ok {
		return row.Quantity
	}
	return 0
}

// Outbox returns the events committed so far, oldest first.
func (s *Store) Outbox() []*events.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*events.Event, len(s.outbox))
	copy(out, s.outbox)
	return out
}

// OutboxByTopic returns the committed events published on topic.
func (s *Store) OutboxByTopic(topic events.Topic) []*events.Event {
	var out []*events.Event
	for _, event := range s.Outbox() {
		if event.Topic == topic {
			out = append(out, event)
		}
	}
	return out
}

// OrderRepository

func (s *Store) Create(_ context.Context, order *domain.Order, outbound ...*events.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[order.ID]; ok {
		return domain.ConcurrencyConflict("order %s already exists", order.ID)
	}
	s.orders[order.ID] = cloneOrder(order)
	s.outbox = append(s.outbox, outbound...)
	return nil
}

func (s *Store) FindByID(_ context.Context, id models.ID) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, domain.OrderNotFound(id)
	}
	return cloneOrder(order), nil
}

func (s *Store) ListByUser(_ context.Context, userID models.ID) ([]*domain.Order, error) {
	return s.list(func(o *domain.Order) bool { return o.UserID == userID }), nil
}

func (s *Store) ListByStatus(_ context.Context, status domain.Status) ([]*domain.Order, error) {
	return s.list(func(o *domain.Order) bool { return o.Status == status }), nil
}

func (s *Store) list(match func(*domain.Order) bool) []*domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []*domain.Order{}
	for _, order := range s.orders {
		if match(order) {
			out = append(out, cloneOrder(order))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamps.CreatedAt.After(out[j].Timestamps.CreatedAt)
	})
	return out
}

func (s *Store) CompareAndSwapStatus(ctx context.Context, id models.ID, expected, next domain.Status) (int64, error) {
	return s.Transition(ctx, domain.Transition{OrderID: id, From: expected, To: next})
}

func (s *Store) Transition(_ context.Context, t domain.Transition) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[t.OrderID]
	if !ok || order.Status != t.From {
		return 0, nil
	}
	if t.RequestRefund && order.RefundRequested {
		return 0, nil
	}

	order.Status = t.To
	order.Version = order.Version.Next()
	order.Timestamps = order.Timestamps.Touch()
	if t.ReleaseStock {
		s.release(order)
	}
	if t.RequestRefund {
		order.RefundRequested = true
	}
	s.outbox = append(s.outbox, t.Outbound...)
	return 1, nil
}

// StockLedger

func (s *Store) ListByProduct(_ context.Context, productID models.ID) ([]domain.Stock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []domain.Stock{}
	for key, row := range s.stock {
		if key.productID == productID {
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WarehouseID < out[j].WarehouseID })
	return out, nil
}

func (s *Store) Deduct(_ context.Context, order *domain.Order) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.orders[order.ID]
	if !ok {
		return false, domain.OrderNotFound(order.ID)
	}
	if stored.StockDeducted {
		return false, nil
	}
	if stored.Status != domain.StatusPaymentSuccess {
		return false, domain.ConcurrencyConflict("order %s left %s before stock was deducted", order.ID, domain.StatusPaymentSuccess)
	}

	// Check every row before touching any, so a failure leaves the ledger as it was.
	for _, a := range stored.Allocations {
		row, ok := s.stock[stockKey{a.WarehouseID, a.ProductID}]
		available := 0
		if ok {
			available = row.Quantity
		}
		if available < a.Quantity {
			return false, domain.InsufficientStock(a.ProductID, a.Quantity, available)
		}
	}
	for _, a := range stored.Allocations {
		row := s.stock[stockKey{a.WarehouseID, a.ProductID}]
		row.Quantity -= a.Quantity
		row.Version++
	}
	stored.StockDeducted = true
	return true, nil
}

func (s *Store) Release(_ context.Context, order *domain.Order) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.orders[order.ID]
	if !ok {
		return false, domain.OrderNotFound(order.ID)
	}
	return s.release(stored), nil
}

func (s *Store) release(order *domain.Order) bool {
	if !order.StockDeducted {
		return false
	}
	for _, a := range order.Allocations {
		key := stockKey{a.WarehouseID, a.ProductID}
		row, ok := s.stock[key]
		if !ok {
			row = &domain.Stock{WarehouseID: a.WarehouseID, ProductID: a.ProductID}
			s.stock[key] = row
		}
		row.Quantity += a.Quantity
		row.Version++
	}
	order.StockDeducted = false
	return true
}

func (s *Store) Restock(_ context.Context, warehouseID, productID models.ID, quantity int) (*domain.Stock, error) {
	if quantity <= 0 {
		return nil, domain.Validation("quantity must be greater than zero")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.warehouses[warehouseID]; !ok {
		return nil, domain.WarehouseNotFound(warehouseID)
	}
	if _, ok := s.products[productID]; !ok {
		return nil, domain.ProductNotFound(productID)
	}

	key := stockKey{warehouseID, productID}
	row, ok := s.stock[key]
	if !ok {
		row = &domain.Stock{WarehouseID: warehouseID, ProductID: productID}
		s.stock[key] = row
	}
	row.Quantity += quantity
	row.Version++

	out := *row
	return &out, nil
}

// Catalog

func (s *Store) FindProduct(_ context.Context, id models.ID) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.products[id]; ok {
		out := *p
		return &out, nil
	}
	return nil, domain.ProductNotFound(id)
}

func (s *Store) FindCustomer(_ context.Context, id models.ID) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.customers[id]; ok {
		out := *c
		return &out, nil
	}
	return nil, domain.CustomerNotFound(id)
}

func (s *Store) FindWarehouse(_ context.Context, id models.ID) (*domain.Warehouse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.warehouses[id]; ok {
		out := *w
		return &out, nil
	}
	return nil, domain.WarehouseNotFound(id)
}

// Publish appends events to the outbox, like the Postgres outbox publisher.
func (s *Store) Publish(_ context.Context, evts ...*events.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outbox = append(s.outbox, evts...)
	return nil
}

func cloneOrder(order *domain.Order) *domain.Order {
	out := *order
	out.Allocations = make([]domain.WarehouseAllocation, len(order.Allocations))
	copy(out.Allocations, order.Allocations)
	return &out
}
