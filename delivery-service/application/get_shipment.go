package application

import (
	"context"

	"github.com/draftea/order-system/delivery-service/domain"
	"github.com/draftea/order-system/shared/models"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

type GetShipmentQuery struct {
	OrderID models.ID
}

type GetShipment struct {
	shipments domain.ShipmentRepository
}

func NewGetShipment(shipments domain.ShipmentRepository) *GetShipment {
	return &GetShipment{shipments: shipments}
}

func (uc *GetShipment) Execute(ctx context.Context, query *GetShipmentQuery) (resp *ShipmentResponse, err error) {
	ctx, finish := startOperation(ctx, "get_shipment", attribute.String("order_id", query.OrderID.String()))
	defer func() { finish(err) }()

	if query.OrderID.IsZero() {
		return nil, domain.Validation("order id is required")
	}

	shipment, err := uc.shipments.FindByOrder(ctx, query.OrderID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find shipment")
	}

	return toShipmentResponse(shipment), nil
}
