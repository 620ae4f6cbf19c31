package domain

import (
	"context"

	"github.com/draftea/order-system/shared/events"
	"github.com/draftea/order-system/shared/models"
)

// OrderRepository persists orders. Every status change is a compare-and-swap
// on the current status; a zero row count means another writer got there first.
type OrderRepository interface {
	// Create stores a PENDING order with its allocations and outbound messages.
	Create(ctx context.Context, order *Order, outbound ...*events.Event) error
	FindByID(ctx context.Context, id models.ID) (*Order, error)
	ListByUser(ctx context.Context, userID models.ID) ([]*Order, error)
	ListByStatus(ctx context.Context, status Status) ([]*Order, error)
	CompareAndSwapStatus(ctx context.Context, id models.ID, expected, next Status) (int64, error)
	// Transition applies t atomically and reports the affected row count.
	Transition(ctx context.Context, t Transition) (int64, error)
}

// StockLedger holds per-warehouse quantities; every write is a CAS on version.
type StockLedger interface {
	ListByProduct(ctx context.Context, productID models.ID) ([]Stock, error)
	// Deduct applies the order's allocations and marks the order deducted.
	// It reports false when the order was already deducted.
	Deduct(ctx context.Context, order *Order) (bool, error)
	// Release undoes a deduction. It reports false when nothing was deducted.
	Release(ctx context.Context, order *Order) (bool, error)
	// Restock adds quantity, creating the row on first use.
	Restock(ctx context.Context, warehouseID, productID models.ID, quantity int) (*Stock, error)
}

type Catalog interface {
	FindProduct(ctx context.Context, id models.ID) (*Product, error)
	FindCustomer(ctx context.Context, id models.ID) (*Customer, error)
	FindWarehouse(ctx context.Context, id models.ID) (*Warehouse, error)
}
