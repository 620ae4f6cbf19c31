package application

import (
	"github.com/draftea/order-system/ordering-service/domain"
	"github.com/draftea/order-system/ordering-service/infrastructure/memory"
	"github.com/draftea/order-system/shared/events"
	"github.com/draftea/order-system/shared/logger"
	"github.com/draftea/order-system/shared/models"
	"github.com/shopspring/decimal"
)

var (
	testCustomerID  = models.ID("8f14e45f-ceea-467f-a0e6-0a7a4f1b2c01")
	testProductID   = models.ID("c9f0f895-fb98-4b91-99f5-1b3c8a6d7e01")
	testWarehouseA  = models.ID("45c48cce-2e2d-4fbd-8a4c-6b1f3e9d0a01")
	testWarehouseB  = models.ID("45c48cce-2e2d-4fbd-8a4c-6b1f3e9d0a02")
	testOrderID     = models.ID("a87ff679-a2f3-4e71-9181-a67b7542122c")
	testTransaction = "TX-0001"
)

func testCustomer() *domain.Customer {
	return &domain.Customer{
		ID:             testCustomerID,
		Name:           "customer",
		Email:          "customer@example.com",
		BankAccount:    "CUST001",
		DefaultAddress: "500 Demo St, Sydney",
	}
}

func testProduct() *domain.Product {
	return &domain.Product{
		ID:     testProductID,
		Name:   "Mechanical Keyboard",
		Price:  decimal.RequireFromString("10.50"),
		Active: true,
	}
}

func testOrder(status domain.Status) *domain.Order {
	return &domain.Order{
		ID:         testOrderID,
		UserID:     testCustomerID,
		ProductID:  testProductID,
		Quantity:   12,
		Address:    "500 Demo St, Sydney",
		TotalPrice: decimal.RequireFromString("126.00"),
		Status:     status,
		Version:    models.NewVersion(),
		Allocations: []domain.WarehouseAllocation{
			{WarehouseID: testWarehouseA, ProductID: testProductID, Quantity: 10},
			{WarehouseID: testWarehouseB, ProductID: testProductID, Quantity: 2},
		},
		Timestamps: models.NewTimestamps(),
	}
}

func hasTopic(topic events.Topic) func([]*events.Event) bool {
	return func(evts []*events.Event) bool {
		for _, e := range evts {
			if e.Topic == topic {
				return true
			}
		}
		return false
	}
}

func topics(evts []*events.Event) []events.Topic {
	out := make([]events.Topic, len(evts))
	for i, e := range evts {
		out[i] = e.Topic
	}
	return out
}

// saga wires every use case to one in-memory store seeded with two
// warehouses holding 10 and 5 units.
type saga struct {
	store    *memory.Store
	create   *CreateOrder
	cancel   *CancelOrder
	payment  *ProcessPaymentResult
	delivery *ProcessDeliveryStatus
	refund   *ProcessRefundResult
	adjust   *AdjustStock
}

func newSaga() *saga {
	store := memory.NewStore()
	store.AddCustomer(*testCustomer())
	store.AddProduct(*testProduct())
	store.AddWarehouse(domain.Warehouse{ID: testWarehouseA, Name: "Sydney DC"})
	store.AddWarehouse(domain.Warehouse{ID: testWarehouseB, Name: "Melbourne DC"})
	store.SetStock(testWarehouseA, testProductID, 10)
	store.SetStock(testWarehouseB, testProductID, 5)

	return newSagaWithLedger(store, store)
}

func newSagaWithLedger(store *memory.Store, ledger domain.StockLedger) *saga {
	log := logger.Nop()
	compensator := NewCompensator(store, store, log)

	return &saga{
		store:    store,
		create:   NewCreateOrder(store, ledger, store, log),
		cancel:   NewCancelOrder(store, compensator),
		payment:  NewProcessPaymentResult(store, ledger, store, compensator, log),
		delivery: NewProcessDeliveryStatus(store, store, compensator, log),
		refund:   NewProcessRefundResult(store, store, store, log),
		adjust:   NewAdjustStock(ledger, store, log),
	}
}
