package application

import (
	"time"

	"github.com/draftea/order-system/delivery-service/domain"
)

type ShipmentResponse struct {
	ID                   string         `json:"id"`
	OrderID              string         `json:"order_id"`
	Address              string         `json:"address"`
	WarehouseAllocations map[string]int `json:"warehouse_allocations"`
	Status               string         `json:"status"`
	NextStepAt           *time.Time     `json:"next_step_at,omitempty"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

func toShipmentResponse(s *domain.Shipment) *ShipmentResponse {
	allocations := make(map[string]int, len(s.Allocations))
	for warehouseID, qty := range s.Allocations {
		allocations[warehouseID.String()] = qty
	}

	return &ShipmentResponse{
		ID:                   s.ID.String(),
		OrderID:              s.OrderID.String(),
		Address:              s.Address,
		WarehouseAllocations: allocations,
		Status:               s.Status.String(),
		NextStepAt:           s.NextStepAt,
		CreatedAt:            s.Timestamps.CreatedAt,
		UpdatedAt:            s.Timestamps.UpdatedAt,
	}
}
