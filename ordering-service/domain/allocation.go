package domain

import (
	"sort"

	"github.com/draftea/order-system/shared/models"
)

// Stock is the quantity of a product held by one warehouse.
type Stock struct {
	WarehouseID models.ID `json:"warehouse_id"`
	ProductID   models.ID `json:"product_id"`
	Quantity    int       `json:"quantity"`
	Version     int       `json:"version"`
}

// WarehouseAllocation is the share of an order served by one warehouse.
type WarehouseAllocation struct {
	WarehouseID models.ID `json:"warehouse_id"`
	ProductID   models.ID `json:"product_id"`
	Quantity    int       `json:"quantity"`
}

// Allocate plans which warehouses serve required units of productID, taking
// from the best-stocked warehouses first. The ledger is not modified.
func Allocate(productID models.ID, required int, stock []Stock) ([]WarehouseAllocation, error) {
	if required <= 0 {
		return nil, Validation("quantity must be greater than zero")
	}

	candidates := make([]Stock, 0, len(stock))
	available := 0
	for _, row := range stock {
		if row.ProductID != productID || row.Quantity <= 0 {
			continue
		}
		candidates = append(candidates, row)
		available += row.Quantity
	}

	if available < required {
		return nil, InsufficientStock(productID, required, available)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Quantity != candidates[j].Quantity {
			return candidates[i].Quantity > candidates[j].Quantity
		}
		return candidates[i].WarehouseID < candidates[j].WarehouseID
	})

	plan := make([]WarehouseAllocation, 0, len(candidates))
	remaining := required
	for _, row := range candidates {
		take := row.Quantity
		if take >= remaining {
			take = remaining
		}
		plan = append(plan, WarehouseAllocation{
			WarehouseID: row.WarehouseID,
			ProductID:   productID,
			Quantity:    take,
		})
		remaining -= take
		if remaining == 0 {
			break
		}
	}

	return plan, nil
}

// TotalAllocated sums the quantities of a plan.
func TotalAllocated(plan []WarehouseAllocation) int {
	total := 0
	for _, a := range plan {
		total += a.Quantity
	}
	return total
}
