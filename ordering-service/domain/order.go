package domain

import (
	"strings"

	"github.com/draftea/order-system/shared/events"
	"github.com/draftea/order-system/shared/models"
	"github.com/shopspring/decimal"
)

// Order aggregate root. Status only changes through the repository's
// conditional transition, never by mutating a loaded Order. RefundRequested
// is set once a refund of the captured payment has been asked for.
type Order struct {
	ID              models.ID
	UserID          models.ID
	ProductID       models.ID
	Quantity        int
	Address         string
	TotalPrice      decimal.Decimal
	Status          Status
	Version         models.Version
	StockDeducted   bool
	RefundRequested bool
	Allocations     []WarehouseAllocation
	Timestamps      models.Timestamps
}

// NewOrder builds a PENDING order for an allocation plan.
func NewOrder(customer *Customer, product *Product, quantity int, address string, plan []WarehouseAllocation) (*Order, error) {
	if quantity <= 0 {
		return nil, Validation("quantity must be greater than zero")
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, Validation("address is required")
	}
	if !product.Active {
		return nil, Validation("product is inactive")
	}
	if TotalAllocated(plan) != quantity {
		return nil, Validation("allocation covers %d of %d units", TotalAllocated(plan), quantity)
	}

	allocations := make([]WarehouseAllocation, len(plan))
	copy(allocations, plan)

	return &Order{
		ID:          models.GenerateUUID(),
		UserID:      customer.ID,
		ProductID:   product.ID,
		Quantity:    quantity,
		Address:     address,
		TotalPrice:  product.Price.Mul(decimal.NewFromInt(int64(quantity))),
		Status:      StatusPending,
		Version:     models.NewVersion(),
		Allocations: allocations,
		Timestamps:  models.NewTimestamps(),
	}, nil
}

// AllocationsByWarehouse is the carrier's view of the plan.
func (o *Order) AllocationsByWarehouse() map[models.ID]int {
	out := make(map[models.ID]int, len(o.Allocations))
	for _, a := range o.Allocations {
		out[a.WarehouseID] += a.Quantity
	}
	return out
}

// Transition is a conditional status change together with the messages it
// publishes. It applies only while the order is still in From.
type Transition struct {
	OrderID models.ID
	From    Status
	To      Status
	// ReleaseStock restores the order's deducted stock in the same commit.
	ReleaseStock bool
	// RequestRefund marks the order refunded in the same commit and makes the
	// transition fail when a refund was already requested.
	RequestRefund bool
	Outbound      []*events.Event
}
