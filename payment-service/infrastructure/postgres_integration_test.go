//go:build integration

package infrastructure

import (
	"context"
	"sync"
	"testing"

	"github.com/draftea/order-system/payment-service/domain"
	"github.com/draftea/order-system/payment-service/migrations"
	"github.com/draftea/order-system/shared/apperrors"
	"github.com/draftea/order-system/shared/database/dbtest"
	"github.com/draftea/order-system/shared/events"
	sharedinfra "github.com/draftea/order-system/shared/infrastructure"
	"github.com/draftea/order-system/shared/models"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db       *sqlx.DB
	accounts *PostgresAccountRepository
	ledger   *PostgresLedger
}

func setup(t *testing.T) *fixture {
	db := dbtest.NewPostgres(t, migrations.FS)
	return &fixture{
		db:       db,
		accounts: NewPostgresAccountRepository(db),
		ledger:   NewPostgresLedger(db, sharedinfra.NewPostgresOutbox(db)),
	}
}

func (f *fixture) balance(t *testing.T, number string) string {
	t.Helper()
	account, err := f.accounts.FindByNumber(context.Background(), number)
	require.NoError(t, err)
	return account.Balance.String()
}

func (f *fixture) pendingResults(t *testing.T, topic events.Topic) int {
	t.Helper()
	var n int
	require.NoError(t, f.db.Get(&n, `SELECT COUNT(*) FROM outbox_events WHERE published_at IS NULL AND topic = $1`, topic.String()))
	return n
}

func reply(tx *domain.Transaction) []*events.Event {
	return []*events.Event{tx.ResultEvent()}
}

func TestAccounts_SeededAndCreate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	assert.Equal(t, "100000", f.balance(t, "STORE001"))
	assert.Equal(t, "5000", f.balance(t, "CUST002"))

	account, err := domain.NewAccount("CUST100", "New Customer", domain.AccountTypeCustomer, decimal.RequireFromString("12.34"))
	require.NoError(t, err)
	require.NoError(t, f.accounts.Create(ctx, account))
	assert.Equal(t, "12.34", f.balance(t, "CUST100"))

	err = f.accounts.Create(ctx, account)
	assert.Equal(t, apperrors.CodeConcurrencyConflict, apperrors.CodeOf(err))

	_, err = f.accounts.FindByNumber(ctx, "CUST404")
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestLedger_PaymentAndRefund(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	orderID := models.GenerateUUID()
	amount := decimal.RequireFromString("126.00")

	tx, applied, err := f.ledger.Execute(ctx, domain.NewPayment(orderID, "CUST001", "STORE001", amount), reply)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, events.TransferSucceeded, tx.Status)
	assert.Equal(t, "9874", f.balance(t, "CUST001"))
	assert.Equal(t, "100126", f.balance(t, "STORE001"))
	assert.Equal(t, 1, f.pendingResults(t, events.TopicPaymentResult))

	again, applied, err := f.ledger.Execute(ctx, domain.NewPayment(orderID, "CUST001", "STORE001", amount), reply)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, tx.ID, again.ID)
	assert.Equal(t, "9874", f.balance(t, "CUST001"), "redelivery charges once")
	assert.Equal(t, 1, f.pendingResults(t, events.TopicPaymentResult))

	refund, applied, err := f.ledger.Execute(ctx, domain.NewRefund(orderID, "CUST001", "STORE001", amount), reply)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, events.TransferSucceeded, refund.Status)
	assert.Equal(t, "10000", f.balance(t, "CUST001"))
	assert.Equal(t, "100000", f.balance(t, "STORE001"))
	assert.Equal(t, 1, f.pendingResults(t, events.TopicRefundResult))

	listed, err := f.ledger.ListByAccount(ctx, "CUST001", 10, 0)
	require.NoError(t, err)
	require.Len(t, listed, 2)
}

func TestLedger_FailedTransferIsRecorded(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	tx, applied, err := f.ledger.Execute(ctx,
		domain.NewPayment(models.GenerateUUID(), "CUST002", "STORE001", decimal.RequireFromString("5000.01")), reply)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, events.TransferFailed, tx.Status)
	assert.Contains(t, tx.FailureReason, "insufficient balance")
	assert.Equal(t, "5000", f.balance(t, "CUST002"))
	assert.Equal(t, 1, f.pendingResults(t, events.TopicPaymentResult))

	tx, _, err = f.ledger.Execute(ctx,
		domain.NewPayment(models.GenerateUUID(), "CUST404", "STORE001", decimal.RequireFromString("1")), reply)
	require.NoError(t, err)
	assert.Equal(t, events.TransferFailed, tx.Status)
	assert.Contains(t, tx.FailureReason, "account CUST404 not found")
}

func TestLedger_ConcurrentDuplicatesChargeOnce(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	transfer := domain.NewPayment(models.GenerateUUID(), "CUST003", "STORE001", decimal.RequireFromString("100"))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		applied int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok, err := f.ledger.Execute(ctx, transfer, reply)
			if err != nil {
				assert.Equal(t, apperrors.CodeConcurrencyConflict, apperrors.CodeOf(err))
				return
			}
			if ok {
				mu.Lock()
				applied++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, applied)
	assert.Equal(t, "7900", f.balance(t, "CUST003"))
	assert.Equal(t, 1, f.pendingResults(t, events.TopicPaymentResult))
}
