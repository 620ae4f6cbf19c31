package handlers

import (
	"context"

	"github.com/draftea/order-system/ordering-service/application"
	"github.com/draftea/order-system/shared/apperrors"
	"github.com/draftea/order-system/shared/events"
	"github.com/draftea/order-system/shared/saga"
)

// OrderEventHandlers turns saga replies into use case commands
type OrderEventHandlers struct {
	paymentResult  *application.ProcessPaymentResult
	refundResult   *application.ProcessRefundResult
	deliveryStatus *application.ProcessDeliveryStatus
}

func NewOrderEventHandlers(
	paymentResult *application.ProcessPaymentResult,
	refundResult *application.ProcessRefundResult,
	deliveryStatus *application.ProcessDeliveryStatus,
) *OrderEventHandlers {
	return &OrderEventHandlers{
		paymentResult:  paymentResult,
		refundResult:   refundResult,
		deliveryStatus: deliveryStatus,
	}
}

// Register wires the handlers into the router by topic.
func (h *OrderEventHandlers) Register(router *saga.Router) *saga.Router {
	return router.
		RegisterFunc(events.TopicPaymentResult, h.HandlePaymentResult).
		RegisterFunc(events.TopicRefundResult, h.HandleRefundResult).
		RegisterFunc(events.TopicDeliveryStatusUpdated, h.HandleDeliveryStatus)
}

func (h *OrderEventHandlers) HandlePaymentResult(ctx context.Context, event *events.Event) error {
	var payload events.PaymentResult
	if err := decode(event, &payload); err != nil {
		return err
	}
	if payload.OrderID.IsZero() {
		return missingOrderID(event)
	}

	return h.paymentResult.Execute(ctx, &application.ProcessPaymentResultCommand{
		OrderID:       payload.OrderID,
		Status:        payload.Status,
		TransactionID: payload.TransactionID,
	})
}

func (h *OrderEventHandlers) HandleRefundResult(ctx context.Context, event *events.Event) error {
	var payload events.RefundResult
	if err := decode(event, &payload); err != nil {
		return err
	}
	if payload.OrderID.IsZero() {
		return missingOrderID(event)
	}

	return h.refundResult.Execute(ctx, &application.ProcessRefundResultCommand{
		OrderID:       payload.OrderID,
		Status:        payload.Status,
		TransactionID: payload.TransactionID,
	})
}

func (h *OrderEventHandlers) HandleDeliveryStatus(ctx context.Context, event *events.Event) error {
	var payload events.DeliveryStatusUpdate
	if err := decode(event, &payload); err != nil {
		return err
	}
	if payload.OrderID.IsZero() {
		return missingOrderID(event)
	}

	return h.deliveryStatus.Execute(ctx, &application.ProcessDeliveryStatusCommand{
		OrderID: payload.OrderID,
		Status:  payload.Status,
	})
}

// decode rejects payloads that can never be processed, so the subscriber
// dead-letters them instead of retrying.
func decode(event *events.Event, dest any) error {
	if err := event.UnmarshalPayload(dest); err != nil {
		return apperrors.Wrap(apperrors.CodeValidation, err, "malformed "+event.Topic.String()+" payload")
	}
	return nil
}

func missingOrderID(event *events.Event) error {
	return apperrors.Newf(apperrors.CodeValidation, "%s payload without order_id", event.Topic)
}
