package application

import (
	"time"

	"github.com/draftea/order-system/payment-service/domain"
	"github.com/draftea/order-system/shared/events"
	"github.com/shopspring/decimal"
)

// AccountResponse is the public representation of a bank account
type AccountResponse struct {
	ID            string             `json:"id"`
	AccountNumber string             `json:"account_number"`
	AccountHolder string             `json:"account_holder"`
	AccountType   domain.AccountType `json:"account_type"`
	Balance       decimal.Decimal    `json:"balance"`
	Version       int                `json:"version"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

func toAccountResponse(account *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:            account.ID.String(),
		AccountNumber: account.Number,
		AccountHolder: account.Holder,
		AccountType:   account.Type,
		Balance:       account.Balance,
		Version:       account.Version.Value,
		CreatedAt:     account.Timestamps.CreatedAt,
		UpdatedAt:     account.Timestamps.UpdatedAt,
	}
}

type TransactionResponse struct {
	TransactionID string                 `json:"transaction_id"`
	OrderID       string                 `json:"order_id"`
	Kind          domain.TransactionKind `json:"kind"`
	FromAccount   string                 `json:"from_account"`
	ToAccount     string                 `json:"to_account"`
	Amount        decimal.Decimal        `json:"amount"`
	Status        events.TransferStatus  `json:"status"`
	FailureReason string                 `json:"failure_reason,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

func toTransactionResponse(tx *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		TransactionID: tx.ID.String(),
		OrderID:       tx.OrderID.String(),
		Kind:          tx.Kind,
		FromAccount:   tx.FromAccount,
		ToAccount:     tx.ToAccount,
		Amount:        tx.Amount,
		Status:        tx.Status,
		FailureReason: tx.FailureReason,
		CreatedAt:     tx.CreatedAt,
	}
}
