package infrastructure

import (
	"context"
	"database/sql"
	"time"

	"github.com/draftea/order-system/payment-service/domain"
	"github.com/draftea/order-system/shared/database"
	"github.com/draftea/order-system/shared/events"
	"github.com/draftea/order-system/shared/models"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Outbox stores outbound events inside the caller's transaction.
type Outbox interface {
	Enqueue(ctx context.Context, tx sqlx.ExtContext, evts ...*events.Event) error
}

// PostgresLedger implements Ledger using PostgreSQL
type PostgresLedger struct {
	db     *sqlx.DB
	outbox Outbox
}

func NewPostgresLedger(db *sqlx.DB, outbox Outbox) *PostgresLedger {
	return &PostgresLedger{db: db, outbox: outbox}
}

type postgresTransaction struct {
	ID            string          `db:"id"`
	OrderID       string          `db:"order_id"`
	Kind          string          `db:"kind"`
	FromAccount   string          `db:"from_account"`
	ToAccount     string          `db:"to_account"`
	Amount        decimal.Decimal `db:"amount"`
	Status        string          `db:"status"`
	FailureReason string          `db:"failure_reason"`
	CreatedAt     time.Time       `db:"created_at"`
}

const transactionColumns = `id, order_id, kind, from_account, to_account, amount, status, failure_reason, created_at`

func (l *PostgresLedger) Execute(
	ctx context.Context,
	transfer domain.Transfer,
	outbound func(*domain.Transaction) []*events.Event,
) (*domain.Transaction, bool, error) {
	var (
		recorded *domain.Transaction
		applied  bool
	)

	err := database.WithTx(ctx, l.db, func(tx *sqlx.Tx) error {
		accounts, err := lockAccounts(ctx, tx, transfer.FromAccount, transfer.ToAccount)
		if err != nil {
			return err
		}

		// Checked under the account locks, so a concurrent duplicate waits
		// for the first and then sees its row.
		existing, err := findByOrder(ctx, tx, transfer.OrderID, transfer.Kind)
		if err == nil {
			recorded = existing
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return errors.Wrap(err, "failed to look up transaction")
		}

		from, to := accounts[transfer.FromAccount], accounts[transfer.ToAccount]
		recorded = transfer.Apply(from, to)
		if recorded.Succeeded() {
			if err := saveBalance(ctx, tx, from); err != nil {
				return err
			}
			if err := saveBalance(ctx, tx, to); err != nil {
				return err
			}
		}

		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO transactions (`+transactionColumns+`)
			VALUES (
				:id, :order_id, :kind, :from_account, :to_account, :amount, :status, :failure_reason, :created_at
			)`, toPostgresTransaction(recorded))
		if err != nil {
			if database.IsUniqueViolation(err) {
				return domain.ConcurrencyConflict("%s for order %s recorded concurrently", transfer.Kind, transfer.OrderID)
			}
			return errors.Wrap(err, "failed to insert transaction")
		}

		applied = true
		if outbound == nil {
			return nil
		}
		return l.outbox.Enqueue(ctx, tx, outbound(recorded)...)
	})
	if err != nil {
		return nil, false, err
	}
	return recorded, applied, nil
}

func findByOrder(ctx context.Context, db sqlx.QueryerContext, orderID models.ID, kind domain.TransactionKind) (*domain.Transaction, error) {
	var row postgresTransaction
	err := sqlx.GetContext(ctx, db, &row, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE order_id = $1 AND kind = $2`, orderID.String(), string(kind))
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (l *PostgresLedger) ListByAccount(ctx context.Context, number string, limit, offset int) ([]*domain.Transaction, error) {
	var rows []postgresTransaction
	err := l.db.SelectContext(ctx, &rows, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE from_account = $1 OR to_account = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`, number, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list transactions")
	}

	txs := make([]*domain.Transaction, len(rows))
	for i := range rows {
		txs[i] = rows[i].toDomain()
	}
	return txs, nil
}

func toPostgresTransaction(tx *domain.Transaction) *postgresTransaction {
	return &postgresTransaction{
		ID:            tx.ID.String(),
		OrderID:       tx.OrderID.String(),
		Kind:          string(tx.Kind),
		FromAccount:   tx.FromAccount,
		ToAccount:     tx.ToAccount,
		Amount:        tx.Amount,
		Status:        string(tx.Status),
		FailureReason: tx.FailureReason,
		CreatedAt:     tx.CreatedAt,
	}
}

func (p *postgresTransaction) toDomain() *domain.Transaction {
	return &domain.Transaction{
		ID:            models.ID(p.ID),
		OrderID:       models.ID(p.OrderID),
		Kind:          domain.TransactionKind(p.Kind),
		FromAccount:   p.FromAccount,
		ToAccount:     p.ToAccount,
		Amount:        p.Amount,
		Status:        events.TransferStatus(p.Status),
		FailureReason: p.FailureReason,
		CreatedAt:     p.CreatedAt,
	}
}
