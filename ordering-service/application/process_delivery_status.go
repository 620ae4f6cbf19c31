package application

import (
	"context"

	"github.com/draftea/order-system/ordering-service/domain"
	"github.com/draftea/order-system/shared/events"
	"github.com/draftea/order-system/shared/logger"
	"github.com/draftea/order-system/shared/models"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

// ProcessDeliveryStatusCommand is a carrier update for an order.
type ProcessDeliveryStatusCommand struct {
	OrderID models.ID
	Status  events.DeliveryStatus
}

type deliveryStep struct {
	from domain.Status
	to   domain.Status
}

var deliverySteps = map[events.DeliveryStatus]deliveryStep{
	events.DeliveryPickedUp:  {from: domain.StatusAwaitingShipment, to: domain.StatusShipped},
	events.DeliveryInTransit: {from: domain.StatusShipped, to: domain.StatusInTransit},
	events.DeliveryDelivered: {from: domain.StatusInTransit, to: domain.StatusDelivered},
}

// ProcessDeliveryStatus advances an order along the shipping flow, or
// cancels it when the carrier reports the package lost.
type ProcessDeliveryStatus struct {
	orders      domain.OrderRepository
	catalog     domain.Catalog
	compensator *Compensator
	log         *logger.Logger
}

func NewProcessDeliveryStatus(
	orders domain.OrderRepository,
	catalog domain.Catalog,
	compensator *Compensator,
	log *logger.Logger,
) *ProcessDeliveryStatus {
	return &ProcessDeliveryStatus{
		orders:      orders,
		catalog:     catalog,
		compensator: compensator,
		log:         log,
	}
}

func (uc *ProcessDeliveryStatus) Execute(ctx context.Context, cmd *ProcessDeliveryStatusCommand) (err error) {
	ctx, finish := startOperation(ctx, "process_delivery_status",
		attribute.String("order_id", cmd.OrderID.String()),
		attribute.String("delivery_status", string(cmd.Status)),
	)
	defer func() { finish(err) }()

	if !cmd.Status.Valid() {
		return domain.Validation("unknown delivery status %q", cmd.Status)
	}
	ctx = uc.log.WithFields(ctx, map[string]any{
		"order_id":        cmd.OrderID.String(),
		"delivery_status": string(cmd.Status),
	})

	order, err := uc.orders.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return errors.Wrap(err, "failed to find order")
	}

	if cmd.Status == events.DeliveryLost {
		return uc.lost(ctx, order)
	}
	return uc.advance(ctx, order, cmd.Status, deliverySteps[cmd.Status])
}

func (uc *ProcessDeliveryStatus) advance(ctx context.Context, order *domain.Order, status events.DeliveryStatus, step deliveryStep) error {
	customer, err := uc.catalog.FindCustomer(ctx, order.UserID)
	if err != nil {
		return errors.Wrap(err, "failed to find customer")
	}

	subject, body := deliveryProgressEmail(order, status)
	rows, err := uc.orders.Transition(ctx, domain.Transition{
		OrderID:  order.ID,
		From:     step.from,
		To:       step.to,
		Outbound: []*events.Event{notifyCustomer(order, customer, subject, body)},
	})
	if err != nil {
		return errors.Wrapf(err, "failed to move order to %s", step.to)
	}
	if rows > 0 {
		uc.log.Info(ctx, "order moved to "+step.to.String())
		return nil
	}

	current, err := uc.orders.FindByID(ctx, order.ID)
	if err != nil {
		return errors.Wrap(err, "failed to reload order")
	}
	if current.Status.Precedes(step.from) {
		// An earlier update has not been applied yet; let the bus redeliver this one.
		return domain.ConcurrencyConflict("order %s is %s, waiting for %s", order.ID, current.Status, step.from)
	}

	uc.log.Warn(uc.log.WithField(ctx, "status", current.Status.String()), "delivery update ignored")
	return nil
}

func (uc *ProcessDeliveryStatus) lost(ctx context.Context, order *domain.Order) error {
	for _, from := range domain.ShippingStatuses {
		won, err := uc.compensator.Compensate(ctx, order, from, ReasonLostInTransit)
		if err != nil {
			return err
		}
		if won {
			return nil
		}
	}

	uc.log.Warn(ctx, "lost shipment ignored, order is no longer in shipping")
	return nil
}
