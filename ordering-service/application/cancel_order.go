package application

import (
	"context"

	"github.com/draftea/order-system/ordering-service/domain"
	"github.com/draftea/order-system/shared/models"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

// CancelOrderCommand represents a customer cancellation
type CancelOrderCommand struct {
	OrderID string
}

// CancelOrder cancels an order at whatever stage it has reached, as long as
// it has not shipped.
type CancelOrder struct {
	orders      domain.OrderRepository
	compensator *Compensator
}

func NewCancelOrder(orders domain.OrderRepository, compensator *Compensator) *CancelOrder {
	return &CancelOrder{orders: orders, compensator: compensator}
}

func (uc *CancelOrder) Execute(ctx context.Context, cmd *CancelOrderCommand) (resp *OrderResponse, err error) {
	ctx, finish := startOperation(ctx, "cancel_order", attribute.String("order_id", cmd.OrderID))
	defer func() { finish(err) }()

	if cmd.OrderID == "" {
		return nil, domain.Validation("order id is required")
	}
	orderID := models.ID(cmd.OrderID)

	order, err := uc.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find order")
	}

	// Statuses only move forward, so earlier stages are skipped. The status
	// may still move between attempts; each CAS settles it.
	for _, from := range domain.CancellableFrom(order.Status) {
		won, err := uc.compensator.Compensate(ctx, order, from, ReasonCustomerRequest)
		if err != nil {
			return nil, err
		}
		if won {
			return uc.reload(ctx, orderID)
		}
	}

	current, err := uc.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to reload order")
	}
	if current.Status == domain.StatusCancelled || current.Status == domain.StatusRefunded {
		return toOrderResponse(current), nil
	}

	return nil, domain.OrderNotCancellable(orderID, current.Status)
}

func (uc *CancelOrder) reload(ctx context.Context, id models.ID) (*OrderResponse, error) {
	order, err := uc.orders.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to reload order")
	}
	return toOrderResponse(order), nil
}
