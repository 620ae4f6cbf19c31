package application

import (
	"context"

	"github.com/draftea/order-system/ordering-service/domain"
	"github.com/draftea/order-system/shared/events"
	"github.com/draftea/order-system/shared/logger"
	"github.com/draftea/order-system/shared/telemetry"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

// Reason explains why an order is being cancelled.
type Reason string

const (
	ReasonCustomerRequest  Reason = "customer_request"
	ReasonStockUnavailable Reason = "stock_unavailable"
	ReasonLostInTransit    Reason = "lost_in_transit"
)

type compensationPlan struct {
	restock        bool
	refund         bool
	cancelDelivery bool
}

// planFor maps saga progress to the side effects owed. Restock is always
// guarded by the order's deducted marker, so it is a no-op when nothing was
// deducted.
func planFor(from domain.Status, reason Reason) compensationPlan {
	if reason == ReasonLostInTransit {
		return compensationPlan{refund: true}
	}

	switch from {
	case domain.StatusPaymentSuccess:
		return compensationPlan{restock: true, refund: true}
	case domain.StatusAwaitingShipment:
		return compensationPlan{restock: true, refund: true, cancelDelivery: true}
	default:
		return compensationPlan{}
	}
}

// Compensator cancels an order and undoes the saga steps it has completed.
type Compensator struct {
	orders  domain.OrderRepository
	catalog domain.Catalog
	log     *logger.Logger
}

func NewCompensator(orders domain.OrderRepository, catalog domain.Catalog, log *logger.Logger) *Compensator {
	return &Compensator{orders: orders, catalog: catalog, log: log}
}

// Compensate moves the order from `from` to CANCELLED. Only the caller that
// wins that transition issues the compensations, which commit together with
// it; everyone else gets false and does nothing.
func (c *Compensator) Compensate(ctx context.Context, order *domain.Order, from domain.Status, reason Reason) (bool, error) {
	customer, err := c.catalog.FindCustomer(ctx, order.UserID)
	if err != nil {
		return false, errors.Wrap(err, "failed to load customer")
	}

	plan := planFor(from, reason)

	var outbound []*events.Event
	if plan.refund {
		outbound = append(outbound, refundRequested(order, customer))
	}
	if plan.cancelDelivery {
		outbound = append(outbound, deliveryCancellationRequested(order))
	}
	subject, body := compensationEmail(order, from, reason)
	outbound = append(outbound, notifyCustomer(order, customer, subject, body))

	rows, err := c.orders.Transition(ctx, domain.Transition{
		OrderID:       order.ID,
		From:          from,
		To:            domain.StatusCancelled,
		ReleaseStock:  plan.restock,
		RequestRefund: plan.refund,
		Outbound:      outbound,
	})
	if err != nil {
		return false, errors.Wrapf(err, "failed to cancel order from %s", from)
	}
	if rows == 0 {
		return false, nil
	}

	telemetry.RecordCounter(ctx, "saga_compensations_total", "Orders cancelled with compensation", 1,
		attribute.String("reason", string(reason)),
		attribute.String("from", from.String()),
	)
	c.log.Info(c.log.WithFields(ctx, map[string]any{
		"order_id": order.ID.String(),
		"from":     from.String(),
		"reason":   string(reason),
		"refund":   plan.refund,
		"restock":  plan.restock,
	}), "order cancelled")

	return true, nil
}

func compensationEmail(order *domain.Order, from domain.Status, reason Reason) (string, string) {
	switch reason {
	case ReasonLostInTransit:
		return lostEmail(order)
	case ReasonStockUnavailable:
		return processingFailedEmail(order)
	default:
		return cancelledEmail(order, from)
	}
}
