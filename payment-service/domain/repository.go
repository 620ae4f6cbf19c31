package domain

import (
	"context"

	"github.com/draftea/order-system/shared/events"
)

type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	FindByNumber(ctx context.Context, number string) (*Account, error)
}

// Ledger records transfers. Execute locks both accounts, applies the transfer,
// stores the transaction and enqueues outbound in one database transaction.
// When the order already has a transaction of that kind nothing changes and
// the recorded one is returned with applied set to false.
type Ledger interface {
	Execute(ctx context.Context, transfer Transfer, outbound func(*Transaction) []*events.Event) (tx *Transaction, applied bool, err error)
	ListByAccount(ctx context.Context, number string, limit, offset int) ([]*Transaction, error)
}
