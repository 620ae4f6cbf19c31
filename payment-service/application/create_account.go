package application

import (
	"context"

	"github.com/draftea/order-system/payment-service/domain"
	"github.com/draftea/order-system/shared/logger"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

// CreateAccountCommand opens a bank account
type CreateAccountCommand struct {
	AccountNumber  string          `json:"account_number" validate:"required,max=32"`
	AccountHolder  string          `json:"account_holder" validate:"required"`
	AccountType    string          `json:"account_type" validate:"required,oneof=CUSTOMER STORE"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

type CreateAccount struct {
	accounts domain.AccountRepository
	log      *logger.Logger
}

func NewCreateAccount(accounts domain.AccountRepository, log *logger.Logger) *CreateAccount {
	return &CreateAccount{accounts: accounts, log: log}
}

func (uc *CreateAccount) Execute(ctx context.Context, cmd *CreateAccountCommand) (resp *AccountResponse, err error) {
	ctx, finish := startOperation(ctx, "create_account",
		attribute.String("account_number", cmd.AccountNumber),
		attribute.String("account_type", cmd.AccountType),
	)
	defer func() { finish(err) }()

	account, err := domain.NewAccount(cmd.AccountNumber, cmd.AccountHolder, domain.AccountType(cmd.AccountType), cmd.InitialBalance)
	if err != nil {
		return nil, err
	}

	if err := uc.accounts.Create(ctx, account); err != nil {
		return nil, errors.Wrap(err, "failed to create account")
	}

	uc.log.Info(uc.log.WithFields(ctx, map[string]any{
		"account_number": account.Number,
		"balance":        account.Balance.String(),
	}), "account created")

	return toAccountResponse(account), nil
}
