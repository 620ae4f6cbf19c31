package domain

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/draftea/order-system/shared/apperrors"
	"github.com/draftea/order-system/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productID models.ID = "prod-1"

func TestAllocate(t *testing.T) {
	stockAB := []Stock{
		{WarehouseID: "A", ProductID: productID, Quantity: 10},
		{WarehouseID: "B", ProductID: productID, Quantity: 5},
	}

	tests := []struct {
		name     string
		required int
		stock    []Stock
		want     []WarehouseAllocation
		wantCode apperrors.Code
	}{
		{
			name:     "largest warehouse covers the order",
			required: 4,
			stock:    stockAB,
			want:     []WarehouseAllocation{{WarehouseID: "A", ProductID: productID, Quantity: 4}},
		},
		{
			name:     "spills into the next warehouse",
			required: 12,
			stock:    stockAB,
			want: []WarehouseAllocation{
				{WarehouseID: "A", ProductID: productID, Quantity: 10},
				{WarehouseID: "B", ProductID: productID, Quantity: 2},
			},
		},
		{
			name:     "exactly everything",
			required: 15,
			stock:    stockAB,
			want: []WarehouseAllocation{
				{WarehouseID: "A", ProductID: productID, Quantity: 10},
				{WarehouseID: "B", ProductID: productID, Quantity: 5},
			},
		},
		{
			name:     "ties broken by warehouse id",
			required: 3,
			stock: []Stock{
				{WarehouseID: "C", ProductID: productID, Quantity: 5},
				{WarehouseID: "B", ProductID: productID, Quantity: 5},
			},
			want: []WarehouseAllocation{{WarehouseID: "B", ProductID: productID, Quantity: 3}},
		},
		{
			name:     "empty and foreign rows are ignored",
			required: 2,
			stock: []Stock{
				{WarehouseID: "A", ProductID: productID, Quantity: 0},
				{WarehouseID: "B", ProductID: "other", Quantity: 50},
				{WarehouseID: "C", ProductID: productID, Quantity: 2},
			},
			want: []WarehouseAllocation{{WarehouseID: "C", ProductID: productID, Quantity: 2}},
		},
		{name: "insufficient stock", required: 20, stock: stockAB, wantCode: apperrors.CodeInsufficientStock},
		{name: "no stock rows", required: 1, wantCode: apperrors.CodeInsufficientStock},
		{name: "zero quantity", required: 0, stock: stockAB, wantCode: apperrors.CodeValidation},
		{name: "negative quantity", required: -3, stock: stockAB, wantCode: apperrors.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := append([]Stock(nil), tt.stock...)

			got, err := Allocate(productID, tt.required, tt.stock)

			assert.Equal(t, before, tt.stock, "allocation must not modify the ledger snapshot")
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, apperrors.CodeOf(err))
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAllocateRandomDistributions(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		stock := make([]Stock, rng.Intn(6))
		available := map[models.ID]int{}
		total := 0
		for j := range stock {
			id := models.ID(fmt.Sprintf("W%02d", j))
			stock[j] = Stock{WarehouseID: id, ProductID: productID, Quantity: rng.Intn(20)}
			available[id] = stock[j].Quantity
			total += stock[j].Quantity
		}
		required := rng.Intn(total+5) + 1

		plan, err := Allocate(productID, required, stock)
		if required > total {
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, apperrors.CodeInsufficientStock))
			continue
		}

		require.NoError(t, err, "required=%d total=%d", required, total)
		assert.Equal(t, required, TotalAllocated(plan))
		seen := map[models.ID]bool{}
		for _, a := range plan {
			assert.False(t, seen[a.WarehouseID], "warehouse used twice")
			seen[a.WarehouseID] = true
			assert.Greater(t, a.Quantity, 0)
			assert.LessOrEqual(t, a.Quantity, available[a.WarehouseID])
		}
		// Every warehouse except the last one is drained completely.
		for k := 0; k < len(plan)-1; k++ {
			assert.Equal(t, available[plan[k].WarehouseID], plan[k].Quantity)
		}
	}
}

func TestNewOrder(t *testing.T) {
	customer := &Customer{ID: "user-1", Email: "a@example.com"}
	product := &Product{ID: productID, Price: mustDecimal("19.99"), Active: true}
	plan := []WarehouseAllocation{{WarehouseID: "A", ProductID: productID, Quantity: 3}}

	order, err := NewOrder(customer, product, 3, " 1 Main St ", plan)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, order.Status)
	assert.Equal(t, "1 Main St", order.Address)
	assert.Equal(t, "59.97", order.TotalPrice.StringFixed(2))
	assert.Equal(t, map[models.ID]int{"A": 3}, order.AllocationsByWarehouse())
	assert.False(t, order.StockDeducted)

	_, err = NewOrder(customer, &Product{ID: productID, Active: false}, 3, "x", plan)
	assert.EqualError(t, err, "VALIDATION_ERROR: product is inactive")

	_, err = NewOrder(customer, product, 3, "   ", plan)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	_, err = NewOrder(customer, product, 4, "x", plan)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
}
