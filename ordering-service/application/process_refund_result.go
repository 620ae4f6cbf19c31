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

// ProcessRefundResultCommand carries the payment service's refund outcome
type ProcessRefundResultCommand struct {
	OrderID       models.ID
	Status        events.TransferStatus
	TransactionID string
}

// ProcessRefundResult closes a cancelled order once its refund settles.
type ProcessRefundResult struct {
	orders    domain.OrderRepository
	catalog   domain.Catalog
	publisher events.Publisher
	log       *logger.Logger
}

func NewProcessRefundResult(
	orders domain.OrderRepository,
	catalog domain.Catalog,
	publisher events.Publisher,
	log *logger.Logger,
) *ProcessRefundResult {
	return &ProcessRefundResult{
		orders:    orders,
		catalog:   catalog,
		publisher: publisher,
		log:       log,
	}
}

func (uc *ProcessRefundResult) Execute(ctx context.Context, cmd *ProcessRefundResultCommand) (err error) {
	ctx, finish := startOperation(ctx, "process_refund_result",
		attribute.String("order_id", cmd.OrderID.String()),
		attribute.String("refund_status", string(cmd.Status)),
	)
	defer func() { finish(err) }()

	if !cmd.Status.Valid() {
		return domain.Validation("unknown refund status %q", cmd.Status)
	}
	ctx = uc.log.WithFields(ctx, map[string]any{
		"order_id":       cmd.OrderID.String(),
		"transaction_id": cmd.TransactionID,
	})

	order, err := uc.orders.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return errors.Wrap(err, "failed to find order")
	}

	customer, err := uc.catalog.FindCustomer(ctx, order.UserID)
	if err != nil {
		return errors.Wrap(err, "failed to find customer")
	}

	if cmd.Status == events.TransferFailed {
		// No automatic retry; support picks it up from here.
		subject, body := refundFailedEmail(order)
		if err := uc.publisher.Publish(ctx, notifyCustomer(order, customer, subject, body)); err != nil {
			return errors.Wrap(err, "failed to notify refund failure")
		}
		uc.log.Warn(ctx, "refund failed")
		return nil
	}

	subject, body := refundCompletedEmail(order, cmd.TransactionID)
	rows, err := uc.orders.Transition(ctx, domain.Transition{
		OrderID:  order.ID,
		From:     domain.StatusCancelled,
		To:       domain.StatusRefunded,
		Outbound: []*events.Event{notifyCustomer(order, customer, subject, body)},
	})
	if err != nil {
		return errors.Wrap(err, "failed to mark order refunded")
	}
	if rows == 0 {
		current, err := uc.orders.FindByID(ctx, order.ID)
		if err != nil {
			return errors.Wrap(err, "failed to reload order")
		}
		if current.Status != domain.StatusRefunded {
			uc.log.Warn(uc.log.WithField(ctx, "status", current.Status.String()), "refund settled for an order that is not cancelled")
		}
		return nil
	}

	uc.log.Info(ctx, "order refunded")
	return nil
}
