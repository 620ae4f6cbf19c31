package application

import (
	"context"

	"github.com/draftea/order-system/payment-service/domain"
	"github.com/draftea/order-system/shared/events"
	"github.com/draftea/order-system/shared/logger"
	"github.com/draftea/order-system/shared/models"
	"github.com/draftea/order-system/shared/telemetry"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

// ProcessTransferCommand is a payment or refund request from the ordering service
type ProcessTransferCommand struct {
	OrderID         models.ID
	Kind            domain.TransactionKind
	CustomerAccount string
	Amount          decimal.Decimal
	CorrelationID   models.ID
}

// ProcessTransfer settles payment and refund requests against the store
// account and replies with the outcome.
type ProcessTransfer struct {
	ledger       domain.Ledger
	publisher    events.Publisher
	storeAccount string
	log          *logger.Logger
}

func NewProcessTransfer(ledger domain.Ledger, publisher events.Publisher, storeAccount string, log *logger.Logger) *ProcessTransfer {
	return &ProcessTransfer{
		ledger:       ledger,
		publisher:    publisher,
		storeAccount: storeAccount,
		log:          log,
	}
}

func (uc *ProcessTransfer) Execute(ctx context.Context, cmd *ProcessTransferCommand) (err error) {
	ctx, finish := startOperation(ctx, "process_"+string(cmd.Kind),
		attribute.String("order_id", cmd.OrderID.String()),
		attribute.String("amount", cmd.Amount.String()),
	)
	defer func() { finish(err) }()

	if cmd.OrderID.IsZero() {
		return domain.Validation("order id is required")
	}

	var transfer domain.Transfer
	switch cmd.Kind {
	case domain.KindPayment:
		transfer = domain.NewPayment(cmd.OrderID, cmd.CustomerAccount, uc.storeAccount, cmd.Amount)
	case domain.KindRefund:
		transfer = domain.NewRefund(cmd.OrderID, cmd.CustomerAccount, uc.storeAccount, cmd.Amount)
	default:
		return domain.Validation("unknown transaction kind %q", cmd.Kind)
	}

	reply := func(tx *domain.Transaction) []*events.Event {
		return []*events.Event{tx.ResultEvent().WithCorrelationID(cmd.CorrelationID)}
	}

	tx, applied, err := uc.ledger.Execute(ctx, transfer, reply)
	if err != nil {
		return errors.Wrapf(err, "failed to execute %s", transfer.Kind)
	}

	ctx = uc.log.WithFields(ctx, map[string]any{
		"order_id":       tx.OrderID.String(),
		"transaction_id": tx.ID.String(),
		"kind":           string(tx.Kind),
		"status":         string(tx.Status),
	})

	if !applied {
		// Redelivered request: answer again with the recorded outcome.
		if err := uc.publisher.Publish(ctx, reply(tx)...); err != nil {
			return errors.Wrap(err, "failed to republish transfer result")
		}
		uc.log.Info(ctx, "transfer already recorded, result republished")
		return nil
	}

	telemetry.RecordCounter(ctx, "payment_transfers_total", "Recorded transfers", 1,
		attribute.String("kind", string(tx.Kind)),
		attribute.String("status", string(tx.Status)),
	)

	if !tx.Succeeded() {
		uc.log.Warn(uc.log.WithField(ctx, "reason", tx.FailureReason), "transfer failed")
		return nil
	}
	uc.log.Info(ctx, "transfer completed")
	return nil
}
