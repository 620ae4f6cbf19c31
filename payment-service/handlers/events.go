package handlers

import (
	"context"

	"github.com/draftea/order-system/payment-service/application"
	"github.com/draftea/order-system/payment-service/domain"
	"github.com/draftea/order-system/shared/apperrors"
	"github.com/draftea/order-system/shared/events"
	"github.com/draftea/order-system/shared/models"
	"github.com/draftea/order-system/shared/saga"
)

// TransferEventHandlers turns payment and refund requests into transfers
type TransferEventHandlers struct {
	transfer *application.ProcessTransfer
}

func NewTransferEventHandlers(transfer *application.ProcessTransfer) *TransferEventHandlers {
	return &TransferEventHandlers{transfer: transfer}
}

func (h *TransferEventHandlers) Register(router *saga.Router) *saga.Router {
	return router.
		RegisterFunc(events.TopicPaymentRequested, h.HandlePaymentRequested).
		RegisterFunc(events.TopicRefundRequested, h.HandleRefundRequested)
}

func (h *TransferEventHandlers) HandlePaymentRequested(ctx context.Context, event *events.Event) error {
	var payload events.PaymentRequested
	if err := decode(event, &payload); err != nil {
		return err
	}
	if payload.OrderID.IsZero() {
		return missingOrderID(event)
	}

	return h.transfer.Execute(ctx, &application.ProcessTransferCommand{
		OrderID:         payload.OrderID,
		Kind:            domain.KindPayment,
		CustomerAccount: payload.PayerAccount,
		Amount:          payload.Amount,
		CorrelationID:   correlationOf(event),
	})
}

func (h *TransferEventHandlers) HandleRefundRequested(ctx context.Context, event *events.Event) error {
	var payload events.RefundRequested
	if err := decode(event, &payload); err != nil {
		return err
	}
	if payload.OrderID.IsZero() {
		return missingOrderID(event)
	}

	return h.transfer.Execute(ctx, &application.ProcessTransferCommand{
		OrderID:         payload.OrderID,
		Kind:            domain.KindRefund,
		CustomerAccount: payload.PayeeAccount,
		Amount:          payload.Amount,
		CorrelationID:   correlationOf(event),
	})
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

// correlationOf keeps the request's correlation id, falling back to its own id.
func correlationOf(event *events.Event) models.ID {
	if !event.CorrelationID.IsZero() {
		return event.CorrelationID
	}
	return event.ID
}
