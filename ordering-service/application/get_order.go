package application

import (
	"context"

	"github.com/draftea/order-system/ordering-service/domain"
	"github.com/draftea/order-system/shared/models"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

// GetOrderQuery represents the query to get an order
type GetOrderQuery struct {
	OrderID string
}

type GetOrder struct {
	orders domain.OrderRepository
}

func NewGetOrder(orders domain.OrderRepository) *GetOrder {
	return &GetOrder{orders: orders}
}

func (uc *GetOrder) Execute(ctx context.Context, query *GetOrderQuery) (resp *OrderResponse, err error) {
	ctx, finish := startOperation(ctx, "get_order", attribute.String("order_id", query.OrderID))
	defer func() { finish(err) }()

	if query.OrderID == "" {
		return nil, domain.Validation("order id is required")
	}

	order, err := uc.orders.FindByID(ctx, models.ID(query.OrderID))
	if err != nil {
		return nil, errors.Wrap(err, "failed to find order")
	}

	return toOrderResponse(order), nil
}

// ListOrdersQuery filters by user or by status; exactly one must be set.
type ListOrdersQuery struct {
	UserID string
	Status string
}

type ListOrders struct {
	orders domain.OrderRepository
}

func NewListOrders(orders domain.OrderRepository) *ListOrders {
	return &ListOrders{orders: orders}
}

func (uc *ListOrders) Execute(ctx context.Context, query *ListOrdersQuery) (resp []*OrderResponse, err error) {
	ctx, finish := startOperation(ctx, "list_orders",
		attribute.String("user_id", query.UserID),
		attribute.String("status", query.Status),
	)
	defer func() { finish(err) }()

	var orders []*domain.Order
	switch {
	case query.UserID != "" && query.Status != "":
		return nil, domain.Validation("filter by user_id or status, not both")
	case query.UserID != "":
		orders, err = uc.orders.ListByUser(ctx, models.ID(query.UserID))
	case query.Status != "":
		status, parseErr := domain.ParseStatus(query.Status)
		if parseErr != nil {
			return nil, parseErr
		}
		orders, err = uc.orders.ListByStatus(ctx, status)
	default:
		return nil, domain.Validation("user_id or status is required")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return toOrderResponses(orders), nil
}
