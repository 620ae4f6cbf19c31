package application

import (
	"context"
	"time"

	"github.com/draftea/order-system/delivery-service/domain"
	"github.com/draftea/order-system/shared/logger"
	"github.com/draftea/order-system/shared/models"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

type RequestDeliveryCommand struct {
	OrderID     models.ID
	Address     string
	Allocations map[models.ID]int
}

// RequestDelivery books a shipment for an order. Requests for an order that
// already has one are acknowledged without effect.
type RequestDelivery struct {
	shipments domain.ShipmentRepository
	timings   domain.Timings
	now       func() time.Time
	log       *logger.Logger
}

func NewRequestDelivery(shipments domain.ShipmentRepository, timings domain.Timings, log *logger.Logger) *RequestDelivery {
	return &RequestDelivery{
		shipments: shipments,
		timings:   timings,
		now:       time.Now,
		log:       log,
	}
}

func (uc *RequestDelivery) Execute(ctx context.Context, cmd *RequestDeliveryCommand) (err error) {
	ctx, finish := startOperation(ctx, "request_delivery", attribute.String("order_id", cmd.OrderID.String()))
	defer func() { finish(err) }()

	shipment, err := domain.NewShipment(cmd.OrderID, cmd.Address, cmd.Allocations, uc.now().UTC(), uc.timings)
	if err != nil {
		return err
	}

	created, err := uc.shipments.Create(ctx, shipment)
	if err != nil {
		return errors.Wrap(err, "failed to create shipment")
	}

	ctx = uc.log.WithOrderID(ctx, cmd.OrderID.String())
	if !created {
		uc.log.Info(ctx, "shipment already booked")
		return nil
	}
	uc.log.Info(uc.log.WithField(ctx, "status", shipment.Status.String()), "shipment booked")
	return nil
}
