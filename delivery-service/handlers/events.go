package handlers

import (
	"context"

	"github.com/draftea/order-system/delivery-service/application"
	"github.com/draftea/order-system/shared/apperrors"
	"github.com/draftea/order-system/shared/events"
	"github.com/draftea/order-system/shared/saga"
)

// DeliveryEventHandlers receives the store's delivery requests and
// cancellations
type DeliveryEventHandlers struct {
	request *application.RequestDelivery
	cancel  *application.CancelDelivery
}

func NewDeliveryEventHandlers(request *application.RequestDelivery, cancel *application.CancelDelivery) *DeliveryEventHandlers {
	return &DeliveryEventHandlers{request: request, cancel: cancel}
}

func (h *DeliveryEventHandlers) Register(router *saga.Router) *saga.Router {
	return router.
		RegisterFunc(events.TopicDeliveryRequested, h.HandleDeliveryRequested).
		RegisterFunc(events.TopicDeliveryCancellationRequested, h.HandleCancellationRequested)
}

func (h *DeliveryEventHandlers) HandleDeliveryRequested(ctx context.Context, event *events.Event) error {
	var payload events.DeliveryRequested
	if err := decode(event, &payload); err != nil {
		return err
	}
	if payload.OrderID.IsZero() {
		return missingOrderID(event)
	}

	return h.request.Execute(ctx, &application.RequestDeliveryCommand{
		OrderID:     payload.OrderID,
		Address:     payload.Address,
		Allocations: payload.WarehouseAllocations,
	})
}

func (h *DeliveryEventHandlers) HandleCancellationRequested(ctx context.Context, event *events.Event) error {
	var payload events.DeliveryCancellationRequested
	if err := decode(event, &payload); err != nil {
		return err
	}
	if payload.OrderID.IsZero() {
		return missingOrderID(event)
	}

	return h.cancel.Execute(ctx, &application.CancelDeliveryCommand{OrderID: payload.OrderID})
}

func decode(event *events.Event, dest any) error {
	if err := event.UnmarshalPayload(dest); err != nil {
		return apperrors.Wrap(apperrors.CodeValidation, err, "malformed "+event.Topic.String()+" payload")
	}
	return nil
}

func missingOrderID(event *events.Event) error {
	return apperrors.Newf(apperrors.CodeValidation, "%s payload without order_id", event.Topic)
}
