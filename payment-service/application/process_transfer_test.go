package application

import (
	"context"
	"testing"

	"github.com/draftea/order-system/payment-service/domain"
	"github.com/draftea/order-system/payment-service/mocks"
	"github.com/draftea/order-system/shared/apperrors"
	"github.com/draftea/order-system/shared/events"
	"github.com/draftea/order-system/shared/logger"
	"github.com/draftea/order-system/shared/models"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const storeAccount = "STORE001"

var (
	testOrderID     = models.ID("0c9d2a4e-5f6b-4c7d-8e9f-a0b1c2d3e4f5")
	testCorrelation = models.ID("7d1e8f20-3a4b-4c5d-9e6f-708192a3b4c5")
)

func recorded(kind domain.TransactionKind, status events.TransferStatus) *domain.Transaction {
	return &domain.Transaction{
		ID:          models.ID("f3e2d1c0-b9a8-4776-8554-433221100fed"),
		OrderID:     testOrderID,
		Kind:        kind,
		FromAccount: "CUST001",
		ToAccount:   storeAccount,
		Amount:      decimal.RequireFromString("126.00"),
		Status:      status,
	}
}

// replyWith runs the outbound callback the way the ledger would and checks
// the reply it builds.
func replyWith(t *testing.T, tx *domain.Transaction, topic events.Topic) func(context.Context, domain.Transfer, func(*domain.Transaction) []*events.Event) (*domain.Transaction, bool, error) {
	return func(_ context.Context, _ domain.Transfer, outbound func(*domain.Transaction) []*events.Event) (*domain.Transaction, bool, error) {
		evts := outbound(tx)
		require.Len(t, evts, 1)
		assert.Equal(t, topic, evts[0].Topic)
		assert.Equal(t, testCorrelation, evts[0].CorrelationID)
		return tx, true, nil
	}
}

func TestProcessTransfer_Execute(t *testing.T) {
	tests := []struct {
		name          string
		command       *ProcessTransferCommand
		setupMocks    func(*testing.T, *mocks.MockLedger, *mocks.MockPublisher)
		expectedCode  apperrors.Code
		expectedError string
	}{
		{
			name: "payment is charged to the customer",
			command: &ProcessTransferCommand{
				OrderID: testOrderID, Kind: domain.KindPayment, CustomerAccount: "CUST001",
				Amount: decimal.RequireFromString("126.00"), CorrelationID: testCorrelation,
			},
			setupMocks: func(t *testing.T, ledger *mocks.MockLedger, publisher *mocks.MockPublisher) {
				ledger.EXPECT().Execute(mock.Anything, domain.Transfer{
					OrderID: testOrderID, Kind: domain.KindPayment, FromAccount: "CUST001", ToAccount: storeAccount,
					Amount: decimal.RequireFromString("126.00"),
				}, mock.Anything).RunAndReturn(replyWith(t, recorded(domain.KindPayment, events.TransferSucceeded), events.TopicPaymentResult)).Once()
			},
		},
		{
			name: "refund is paid by the store",
			command: &ProcessTransferCommand{
				OrderID: testOrderID, Kind: domain.KindRefund, CustomerAccount: "CUST001",
				Amount: decimal.RequireFromString("126.00"), CorrelationID: testCorrelation,
			},
			setupMocks: func(t *testing.T, ledger *mocks.MockLedger, publisher *mocks.MockPublisher) {
				ledger.EXPECT().Execute(mock.Anything, mock.MatchedBy(func(tr domain.Transfer) bool {
					return tr.Kind == domain.KindRefund && tr.FromAccount == storeAccount && tr.ToAccount == "CUST001"
				}), mock.Anything).RunAndReturn(replyWith(t, recorded(domain.KindRefund, events.TransferSucceeded), events.TopicRefundResult)).Once()
			},
		},
		{
			name: "declined payment is still a reply",
			command: &ProcessTransferCommand{
				OrderID: testOrderID, Kind: domain.KindPayment, CustomerAccount: "CUST001",
				Amount: decimal.RequireFromString("126.00"), CorrelationID: testCorrelation,
			},
			setupMocks: func(t *testing.T, ledger *mocks.MockLedger, publisher *mocks.MockPublisher) {
				ledger.EXPECT().Execute(mock.Anything, mock.Anything, mock.Anything).
					RunAndReturn(replyWith(t, recorded(domain.KindPayment, events.TransferFailed), events.TopicPaymentResult)).Once()
			},
		},
		{
			name: "redelivered request republishes the recorded result",
			command: &ProcessTransferCommand{
				OrderID: testOrderID, Kind: domain.KindPayment, CustomerAccount: "CUST001",
				Amount: decimal.RequireFromString("126.00"), CorrelationID: testCorrelation,
			},
			setupMocks: func(t *testing.T, ledger *mocks.MockLedger, publisher *mocks.MockPublisher) {
				ledger.EXPECT().Execute(mock.Anything, mock.Anything, mock.Anything).
					Return(recorded(domain.KindPayment, events.TransferSucceeded), false, nil).Once()
				publisher.EXPECT().Publish(mock.Anything, mock.MatchedBy(func(evt *events.Event) bool {
					result, ok := evt.Data.(events.PaymentResult)
					return ok && evt.Topic == events.TopicPaymentResult && result.Status == events.TransferSucceeded &&
						result.OrderID == testOrderID
				})).Return(nil).Once()
			},
		},
		{
			name: "republish failure is retried",
			command: &ProcessTransferCommand{
				OrderID: testOrderID, Kind: domain.KindRefund, CustomerAccount: "CUST001",
				Amount: decimal.RequireFromString("126.00"),
			},
			setupMocks: func(t *testing.T, ledger *mocks.MockLedger, publisher *mocks.MockPublisher) {
				ledger.EXPECT().Execute(mock.Anything, mock.Anything, mock.Anything).
					Return(recorded(domain.KindRefund, events.TransferSucceeded), false, nil).Once()
				publisher.EXPECT().Publish(mock.Anything, mock.Anything).Return(errors.New("db down")).Once()
			},
			expectedCode:  apperrors.CodeInternal,
			expectedError: "failed to republish transfer result",
		},
		{
			name: "ledger failure is retried",
			command: &ProcessTransferCommand{
				OrderID: testOrderID, Kind: domain.KindPayment, CustomerAccount: "CUST001",
				Amount: decimal.RequireFromString("1"),
			},
			setupMocks: func(t *testing.T, ledger *mocks.MockLedger, publisher *mocks.MockPublisher) {
				ledger.EXPECT().Execute(mock.Anything, mock.Anything, mock.Anything).
					Return(nil, false, errors.New("connection reset")).Once()
			},
			expectedCode:  apperrors.CodeInternal,
			expectedError: "failed to execute PAYMENT",
		},
		{
			name: "concurrent duplicate surfaces as a conflict",
			command: &ProcessTransferCommand{
				OrderID: testOrderID, Kind: domain.KindPayment, CustomerAccount: "CUST001",
				Amount: decimal.RequireFromString("1"),
			},
			setupMocks: func(t *testing.T, ledger *mocks.MockLedger, publisher *mocks.MockPublisher) {
				ledger.EXPECT().Execute(mock.Anything, mock.Anything, mock.Anything).
					Return(nil, false, domain.ConcurrencyConflict("recorded concurrently")).Once()
			},
			expectedCode: apperrors.CodeConcurrencyConflict,
		},
		{
			name:         "missing order id",
			command:      &ProcessTransferCommand{Kind: domain.KindPayment, CustomerAccount: "CUST001"},
			setupMocks:   func(*testing.T, *mocks.MockLedger, *mocks.MockPublisher) {},
			expectedCode: apperrors.CodeValidation,
		},
		{
			name:         "unknown kind",
			command:      &ProcessTransferCommand{OrderID: testOrderID, Kind: "CHARGEBACK"},
			setupMocks:   func(*testing.T, *mocks.MockLedger, *mocks.MockPublisher) {},
			expectedCode: apperrors.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := mocks.NewMockLedger(t)
			publisher := mocks.NewMockPublisher(t)
			tt.setupMocks(t, ledger, publisher)

			useCase := NewProcessTransfer(ledger, publisher, storeAccount, logger.Nop())
			err := useCase.Execute(context.Background(), tt.command)

			if tt.expectedCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.expectedCode, apperrors.CodeOf(err))
				if tt.expectedError != "" {
					assert.Contains(t, err.Error(), tt.expectedError)
				}
				return
			}

			require.NoError(t, err)
		})
	}
}
