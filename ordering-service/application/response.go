package application

import (
	"time"

	"github.com/draftea/order-system/ordering-service/domain"
	"github.com/shopspring/decimal"
)

// OrderResponse is the public representation of an order
type OrderResponse struct {
	ID          string                       `json:"id"`
	UserID      string                       `json:"user_id"`
	ProductID   string                       `json:"product_id"`
	Quantity    int                          `json:"quantity"`
	Address     string                       `json:"address"`
	TotalPrice  decimal.Decimal              `json:"total_price"`
	Status      domain.Status                `json:"status"`
	Version     int                          `json:"version"`
	Allocations []domain.WarehouseAllocation `json:"allocations"`
	CreatedAt   time.Time                    `json:"created_at"`
	UpdatedAt   time.Time                    `json:"updated_at"`
}

func toOrderResponse(order *domain.Order) *OrderResponse {
	return &OrderResponse{
		ID:          order.ID.String(),
		UserID:      order.UserID.String(),
		ProductID:   order.ProductID.String(),
		Quantity:    order.Quantity,
		Address:     order.Address,
		TotalPrice:  order.TotalPrice,
		Status:      order.Status,
		Version:     order.Version.Value,
		Allocations: order.Allocations,
		CreatedAt:   order.Timestamps.CreatedAt,
		UpdatedAt:   order.Timestamps.UpdatedAt,
	}
}

func toOrderResponses(orders []*domain.Order) []*OrderResponse {
	out := make([]*OrderResponse, 0, len(orders))
	for _, order := range orders {
		out = append(out, toOrderResponse(order))
	}
	return out
}
