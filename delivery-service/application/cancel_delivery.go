package application

import (
	"context"

	"github.com/draftea/order-system/delivery-service/domain"
	"github.com/draftea/order-system/shared/logger"
	"github.com/draftea/order-system/shared/models"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

type CancelDeliveryCommand struct {
	OrderID models.ID
}

// CancelDelivery remembers that the store cancelled an order so its parcel
// never moves again, even when the request for it has not arrived yet.
type CancelDelivery struct {
	cancellations domain.Cancellations
	log           *logger.Logger
}

func NewCancelDelivery(cancellations domain.Cancellations, log *logger.Logger) *CancelDelivery {
	return &CancelDelivery{cancellations: cancellations, log: log}
}

func (uc *CancelDelivery) Execute(ctx context.Context, cmd *CancelDeliveryCommand) (err error) {
	ctx, finish := startOperation(ctx, "cancel_delivery", attribute.String("order_id", cmd.OrderID.String()))
	defer func() { finish(err) }()

	if cmd.OrderID.IsZero() {
		return domain.Validation("order id is required")
	}

	stopped, err := uc.cancellations.Cancel(ctx, cmd.OrderID)
	if err != nil {
		return errors.Wrap(err, "failed to cancel delivery")
	}

	ctx = uc.log.WithOrderID(ctx, cmd.OrderID.String())
	if stopped {
		uc.log.Info(ctx, "shipment cancelled")
	} else {
		uc.log.Info(ctx, "cancellation recorded, no shipment on the way")
	}
	return nil
}
