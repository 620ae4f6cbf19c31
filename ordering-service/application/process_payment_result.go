package application

import (
	"context"

	"github.com/draftea/order-system/ordering-service/domain"
	"github.com/draftea/order-system/shared/apperrors"
	"github.com/draftea/order-system/shared/events"
	"github.com/draftea/order-system/shared/logger"
	"github.com/draftea/order-system/shared/models"
	"github.com/draftea/order-system/shared/telemetry"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

// ProcessPaymentResultCommand carries the payment service's answer
type ProcessPaymentResultCommand struct {
	OrderID       models.ID
	Status        events.TransferStatus
	TransactionID string
}

// ProcessPaymentResult advances a PENDING order once its payment settles.
type ProcessPaymentResult struct {
	orders      domain.OrderRepository
	stock       domain.StockLedger
	catalog     domain.Catalog
	compensator *Compensator
	log         *logger.Logger
}

func NewProcessPaymentResult(
	orders domain.OrderRepository,
	stock domain.StockLedger,
	catalog domain.Catalog,
	compensator *Compensator,
	log *logger.Logger,
) *ProcessPaymentResult {
	return &ProcessPaymentResult{
		orders:      orders,
		stock:       stock,
		catalog:     catalog,
		compensator: compensator,
		log:         log,
	}
}

func (uc *ProcessPaymentResult) Execute(ctx context.Context, cmd *ProcessPaymentResultCommand) (err error) {
	ctx, finish := startOperation(ctx, "process_payment_result",
		attribute.String("order_id", cmd.OrderID.String()),
		attribute.String("payment_status", string(cmd.Status)),
	)
	defer func() { finish(err) }()

	if !cmd.Status.Valid() {
		return domain.Validation("unknown payment status %q", cmd.Status)
	}
	ctx = uc.log.WithOrderID(ctx, cmd.OrderID.String())

	order, err := uc.orders.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return errors.Wrap(err, "failed to find order")
	}

	if cmd.Status == events.TransferFailed {
		return uc.paymentFailed(ctx, order)
	}
	return uc.paymentSucceeded(ctx, order)
}

func (uc *ProcessPaymentResult) paymentFailed(ctx context.Context, order *domain.Order) error {
	customer, err := uc.catalog.FindCustomer(ctx, order.UserID)
	if err != nil {
		return errors.Wrap(err, "failed to find customer")
	}

	subject, body := paymentFailedEmail(order)
	rows, err := uc.orders.Transition(ctx, domain.Transition{
		OrderID:  order.ID,
		From:     domain.StatusPending,
		To:       domain.StatusPaymentFailed,
		Outbound: []*events.Event{notifyCustomer(order, customer, subject, body)},
	})
	if err != nil {
		return errors.Wrap(err, "failed to mark payment failed")
	}
	if rows == 0 {
		uc.log.Warn(ctx, "payment failure ignored, order is no longer pending")
		return nil
	}

	uc.log.Info(ctx, "payment failed")
	return nil
}

func (uc *ProcessPaymentResult) paymentSucceeded(ctx context.Context, order *domain.Order) error {
	rows, err := uc.orders.CompareAndSwapStatus(ctx, order.ID, domain.StatusPending, domain.StatusPaymentSuccess)
	if err != nil {
		return errors.Wrap(err, "failed to mark payment succeeded")
	}
	if rows == 0 {
		current, err := uc.orders.FindByID(ctx, order.ID)
		if err != nil {
			return errors.Wrap(err, "failed to reload order")
		}
		if current.Status == domain.StatusCancelled && !current.RefundRequested {
			return uc.refundLatePayment(ctx, current)
		}
		if current.Status != domain.StatusPaymentSuccess {
			uc.log.Warn(uc.log.WithField(ctx, "status", current.Status.String()), "payment success ignored, order moved on")
			return nil
		}
		// Redelivery after a partial run: pick up where it stopped.
		order = current
	}

	if _, err := uc.stock.Deduct(ctx, order); err != nil {
		if apperrors.IsCode(err, apperrors.CodeInsufficientStock) || apperrors.IsCode(err, apperrors.CodeConcurrencyConflict) {
			uc.log.Warn(uc.log.WithField(ctx, "error", err.Error()), "stock deduction failed, compensating")
			if _, err := uc.compensator.Compensate(ctx, order, domain.StatusPaymentSuccess, ReasonStockUnavailable); err != nil {
				return errors.Wrap(err, "failed to compensate order")
			}
			return nil
		}
		return errors.Wrap(err, "failed to deduct stock")
	}

	rows, err = uc.orders.Transition(ctx, domain.Transition{
		OrderID:  order.ID,
		From:     domain.StatusPaymentSuccess,
		To:       domain.StatusAwaitingShipment,
		Outbound: []*events.Event{deliveryRequested(order)},
	})
	if err != nil {
		return errors.Wrap(err, "failed to request delivery")
	}
	if rows == 0 {
		// Cancelled in between; the canceller owns the refund.
		released, err := uc.stock.Release(ctx, order)
		if err != nil {
			return errors.Wrap(err, "failed to release stock")
		}
		uc.log.Warn(uc.log.WithField(ctx, "released", released), "order left PAYMENT_SUCCESS before delivery was requested")
		return nil
	}

	uc.log.Info(ctx, "delivery requested")
	return nil
}

// refundLatePayment returns money captured after the order was cancelled
// while still PENDING. The refund marker keeps redeliveries from paying twice.
func (uc *ProcessPaymentResult) refundLatePayment(ctx context.Context, order *domain.Order) error {
	customer, err := uc.catalog.FindCustomer(ctx, order.UserID)
	if err != nil {
		return errors.Wrap(err, "failed to find customer")
	}

	subject, body := latePaymentRefundEmail(order)
	rows, err := uc.orders.Transition(ctx, domain.Transition{
		OrderID:       order.ID,
		From:          domain.StatusCancelled,
		To:            domain.StatusCancelled,
		RequestRefund: true,
		Outbound: []*events.Event{
			refundRequested(order, customer),
			notifyCustomer(order, customer, subject, body),
		},
	})
	if err != nil {
		return errors.Wrap(err, "failed to refund late payment")
	}
	if rows == 0 {
		uc.log.Debug(ctx, "late payment already refunded")
		return nil
	}

	telemetry.RecordCounter(ctx, "saga_late_payment_refunds_total", "Payments refunded because the order was already cancelled", 1)
	uc.log.Info(ctx, "refund requested for payment captured after cancellation")
	return nil
}
