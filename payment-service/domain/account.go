package domain

import (
	"github.com/draftea/order-system/shared/models"
	"github.com/shopspring/decimal"
)

// AccountType separates the store's account from customer accounts
type AccountType string

const (
	AccountTypeCustomer AccountType = "CUSTOMER"
	AccountTypeStore    AccountType = "STORE"
)

func (t AccountType) Valid() bool {
	return t == AccountTypeCustomer || t == AccountTypeStore
}

// Account aggregate root
type Account struct {
	ID         models.ID       `json:"id"`
	Number     string          `json:"account_number"`
	Holder     string          `json:"account_holder"`
	Type       AccountType     `json:"account_type"`
	Balance    decimal.Decimal `json:"balance"`
	Timestamps models.Timestamps
	Version    models.Version
}

// NewAccount opens an account with an initial balance.
func NewAccount(number, holder string, accountType AccountType, initial decimal.Decimal) (*Account, error) {
	if number == "" {
		return nil, Validation("account number is required")
	}
	if holder == "" {
		return nil, Validation("account holder is required")
	}
	if !accountType.Valid() {
		return nil, Validation("unknown account type %q", accountType)
	}
	if initial.IsNegative() {
		return nil, Validation("initial balance cannot be negative")
	}

	return &Account{
		ID:         models.GenerateUUID(),
		Number:     number,
		Holder:     holder,
		Type:       accountType,
		Balance:    initial,
		Timestamps: models.NewTimestamps(),
		Version:    models.NewVersion(),
	}, nil
}

func (a *Account) CanDebit(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}

// Debit takes amount from the account.
func (a *Account) Debit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return Validation("debit amount must be positive")
	}
	if !a.CanDebit(amount) {
		return InsufficientFunds(a.Number, amount, a.Balance)
	}

	a.Balance = a.Balance.Sub(amount)
	a.touch()
	return nil
}

// Credit adds amount to the account.
func (a *Account) Credit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return Validation("credit amount must be positive")
	}

	a.Balance = a.Balance.Add(amount)
	a.touch()
	return nil
}

func (a *Account) touch() {
	a.Timestamps = a.Timestamps.Touch()
	a.Version = a.Version.Next()
}
