package infrastructure

import (
	"context"
	"database/sql"
	"time"

	"github.com/draftea/order-system/payment-service/domain"
	"github.com/draftea/order-system/shared/database"
	"github.com/draftea/order-system/shared/models"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// PostgresAccountRepository implements AccountRepository using PostgreSQL
type PostgresAccountRepository struct {
	db *sqlx.DB
}

func NewPostgresAccountRepository(db *sqlx.DB) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

// postgresAccount represents an account row
type postgresAccount struct {
	ID            string          `db:"id"`
	AccountNumber string          `db:"account_number"`
	AccountHolder string          `db:"account_holder"`
	AccountType   string          `db:"account_type"`
	Balance       decimal.Decimal `db:"balance"`
	Version       int             `db:"version"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

const accountColumns = `id, account_number, account_holder, account_type, balance, version, created_at, updated_at`

func (r *PostgresAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES (
			:id, :account_number, :account_holder, :account_type, :balance, :version, :created_at, :updated_at
		)`, toPostgresAccount(account))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return domain.AccountExists(account.Number)
		}
		return errors.Wrap(err, "failed to insert account")
	}
	return nil
}

func (r *PostgresAccountRepository) FindByNumber(ctx context.Context, number string) (*domain.Account, error) {
	var row postgresAccount
	err := r.db.GetContext(ctx, &row, `SELECT `+accountColumns+` FROM accounts WHERE account_number = $1`, number)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.AccountNotFound(number)
		}
		return nil, errors.Wrap(err, "failed to find account")
	}
	return row.toDomain(), nil
}

// lockAccounts loads the named accounts FOR UPDATE, in account number order
// so that opposite transfers cannot deadlock. Unknown numbers are absent
// from the result.
func lockAccounts(ctx context.Context, tx *sqlx.Tx, numbers ...string) (map[string]*domain.Account, error) {
	var rows []postgresAccount
	err := tx.SelectContext(ctx, &rows, `
		SELECT `+accountColumns+` FROM accounts
		WHERE account_number = ANY($1)
		ORDER BY account_number
		FOR UPDATE`, pq.Array(numbers))
	if err != nil {
		return nil, errors.Wrap(err, "failed to lock accounts")
	}

	accounts := make(map[string]*domain.Account, len(rows))
	for i := range rows {
		accounts[rows[i].AccountNumber] = rows[i].toDomain()
	}
	return accounts, nil
}

// saveBalance writes a balance computed under lock. The version check guards
// against writers that bypassed lockAccounts.
func saveBalance(ctx context.Context, tx *sqlx.Tx, account *domain.Account) error {
	rows, err := database.RowsAffected(tx.ExecContext(ctx, `
		UPDATE accounts
		SET balance = $2, version = $3, updated_at = $4
		WHERE id = $1 AND version = $5`,
		account.ID.String(),
		account.Balance,
		account.Version.Value,
		account.Timestamps.UpdatedAt,
		account.Version.Value-1,
	))
	if err != nil {
		return errors.Wrap(err, "failed to update account balance")
	}
	if rows == 0 {
		return domain.ConcurrencyConflict("account %s changed concurrently", account.Number)
	}
	return nil
}

func toPostgresAccount(account *domain.Account) *postgresAccount {
	return &postgresAccount{
		ID:            account.ID.String(),
		AccountNumber: account.Number,
		AccountHolder: account.Holder,
		AccountType:   string(account.Type),
		Balance:       account.Balance,
		Version:       account.Version.Value,
		CreatedAt:     account.Timestamps.CreatedAt,
		UpdatedAt:     account.Timestamps.UpdatedAt,
	}
}

func (p *postgresAccount) toDomain() *domain.Account {
	return &domain.Account{
		ID:      models.ID(p.ID),
		Number:  p.AccountNumber,
		Holder:  p.AccountHolder,
		Type:    domain.AccountType(p.AccountType),
		Balance: p.Balance,
		Timestamps: models.Timestamps{
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		},
		Version: models.Version{Value: p.Version},
	}
}
