package domain

import (
	"time"

	"github.com/draftea/order-system/shared/apperrors"
	"github.com/draftea/order-system/shared/events"
	"github.com/draftea/order-system/shared/models"
	"github.com/shopspring/decimal"
)

// TransactionKind tells a customer payment from a store refund
type TransactionKind string

const (
	KindPayment TransactionKind = "PAYMENT"
	KindRefund  TransactionKind = "REFUND"
)

// Transaction is the record of one transfer attempt. An order has at most one
// transaction of each kind.
type Transaction struct {
	ID            models.ID             `json:"transaction_id"`
	OrderID       models.ID             `json:"order_id"`
	Kind          TransactionKind       `json:"kind"`
	FromAccount   string                `json:"from_account"`
	ToAccount     string                `json:"to_account"`
	Amount        decimal.Decimal       `json:"amount"`
	Status        events.TransferStatus `json:"status"`
	FailureReason string                `json:"failure_reason,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
}

func (t *Transaction) Succeeded() bool {
	return t.Status == events.TransferSucceeded
}

// Transfer is a request to move Amount between two accounts on behalf of an order.
type Transfer struct {
	OrderID     models.ID
	Kind        TransactionKind
	FromAccount string
	ToAccount   string
	Amount      decimal.Decimal
}

// NewPayment moves amount from the customer to the store.
func NewPayment(orderID models.ID, customer, store string, amount decimal.Decimal) Transfer {
	return Transfer{OrderID: orderID, Kind: KindPayment, FromAccount: customer, ToAccount: store, Amount: amount}
}

// NewRefund moves amount from the store back to the customer.
func NewRefund(orderID models.ID, customer, store string, amount decimal.Decimal) Transfer {
	return Transfer{OrderID: orderID, Kind: KindRefund, FromAccount: store, ToAccount: customer, Amount: amount}
}

// Apply moves the money when both accounts exist and the source can cover the
// amount. from and to are nil for unknown accounts. Either way the outcome is
// returned as a transaction to be recorded; failures never touch balances.
func (t Transfer) Apply(from, to *Account) *Transaction {
	tx := &Transaction{
		ID:          models.GenerateUUID(),
		OrderID:     t.OrderID,
		Kind:        t.Kind,
		FromAccount: t.FromAccount,
		ToAccount:   t.ToAccount,
		Amount:      t.Amount,
		Status:      events.TransferSucceeded,
		CreatedAt:   time.Now().UTC(),
	}

	if err := t.apply(from, to); err != nil {
		tx.Status = events.TransferFailed
		tx.FailureReason = apperrors.As(err).Message()
	}
	return tx
}

func (t Transfer) apply(from, to *Account) error {
	switch {
	case !t.Amount.IsPositive():
		return Validation("invalid amount %s", t.Amount)
	case from == nil:
		return AccountNotFound(t.FromAccount)
	case to == nil:
		return AccountNotFound(t.ToAccount)
	case from.Number == to.Number:
		return Validation("cannot transfer to the same account")
	case !from.CanDebit(t.Amount):
		return InsufficientFunds(from.Number, t.Amount, from.Balance)
	}

	if err := from.Debit(t.Amount); err != nil {
		return err
	}
	return to.Credit(t.Amount)
}

// ResultEvent is the reply the ordering service waits for.
func (t *Transaction) ResultEvent() *events.Event {
	if t.Kind == KindRefund {
		return events.NewEvent(t.OrderID, events.TopicRefundResult, events.RefundResult{
			OrderID:       t.OrderID,
			Status:        t.Status,
			TransactionID: t.ID.String(),
		})
	}
	return events.NewEvent(t.OrderID, events.TopicPaymentResult, events.PaymentResult{
		OrderID:       t.OrderID,
		Status:        t.Status,
		TransactionID: t.ID.String(),
	})
}
