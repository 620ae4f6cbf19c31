package application

import (
	"context"

	"github.com/draftea/order-system/payment-service/domain"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

type GetAccountQuery struct {
	AccountNumber string
}

type GetAccount struct {
	accounts domain.AccountRepository
}

func NewGetAccount(accounts domain.AccountRepository) *GetAccount {
	return &GetAccount{accounts: accounts}
}

func (uc *GetAccount) Execute(ctx context.Context, query *GetAccountQuery) (resp *AccountResponse, err error) {
	ctx, finish := startOperation(ctx, "get_account", attribute.String("account_number", query.AccountNumber))
	defer func() { finish(err) }()

	if query.AccountNumber == "" {
		return nil, domain.Validation("account number is required")
	}

	account, err := uc.accounts.FindByNumber(ctx, query.AccountNumber)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find account")
	}

	return toAccountResponse(account), nil
}

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// ListTransactionsQuery pages through the transactions touching an account,
// newest first.
type ListTransactionsQuery struct {
	AccountNumber string
	Limit         int
	Offset        int
}

type ListTransactions struct {
	accounts domain.AccountRepository
	ledger   domain.Ledger
}

func NewListTransactions(accounts domain.AccountRepository, ledger domain.Ledger) *ListTransactions {
	return &ListTransactions{accounts: accounts, ledger: ledger}
}

func (uc *ListTransactions) Execute(ctx context.Context, query *ListTransactionsQuery) (resp []*TransactionResponse, err error) {
	ctx, finish := startOperation(ctx, "list_transactions", attribute.String("account_number", query.AccountNumber))
	defer func() { finish(err) }()

	if query.Limit < 0 || query.Offset < 0 {
		return nil, domain.Validation("limit and offset cannot be negative")
	}
	limit := query.Limit
	if limit == 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	if _, err := uc.accounts.FindByNumber(ctx, query.AccountNumber); err != nil {
		return nil, errors.Wrap(err, "failed to find account")
	}

	txs, err := uc.ledger.ListByAccount(ctx, query.AccountNumber, limit, query.Offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list transactions")
	}

	resp = make([]*TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		resp = append(resp, toTransactionResponse(tx))
	}
	return resp, nil
}
