package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/draftea/order-system/payment-service/application"
	"github.com/draftea/order-system/payment-service/domain"
	"github.com/draftea/order-system/payment-service/mocks"
	"github.com/draftea/order-system/shared/apperrors"
	"github.com/draftea/order-system/shared/events"
	"github.com/draftea/order-system/shared/logger"
	"github.com/draftea/order-system/shared/models"
	"github.com/draftea/order-system/shared/saga"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const orderID = models.ID("2a7c9e1b-4d3f-4b6a-8c5e-9f0a1b2c3d4e")

type testServer struct {
	accounts *mocks.MockAccountRepository
	ledger   *mocks.MockLedger
	router   *chi.Mux
	events   *saga.Router
}

func newTestServer(t *testing.T) *testServer {
	accounts := mocks.NewMockAccountRepository(t)
	ledger := mocks.NewMockLedger(t)
	publisher := mocks.NewMockPublisher(t)
	log := logger.Nop()

	router := chi.NewRouter()
	NewAccountHandlers(
		application.NewCreateAccount(accounts, log),
		application.NewGetAccount(accounts),
		application.NewListTransactions(accounts, ledger),
		log,
	).RegisterRoutes(router)

	eventRouter := NewTransferEventHandlers(
		application.NewProcessTransfer(ledger, publisher, "STORE001", log),
	).Register(saga.NewRouter(log))

	return &testServer{accounts: accounts, ledger: ledger, router: router, events: eventRouter}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

type errorResponse struct {
	Error struct {
		Code    apperrors.Code `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestAccountHandlers_CreateAccount(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		s := newTestServer(t)
		s.accounts.EXPECT().Create(mock.Anything, mock.Anything).Return(nil).Once()

		rec := s.do(http.MethodPost, "/api/accounts",
			`{"account_number":"CUST010","account_holder":"Ann","account_type":"CUSTOMER","initial_balance":"250.00"}`)

		require.Equal(t, http.StatusCreated, rec.Code)
		var body application.AccountResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "CUST010", body.AccountNumber)
		assert.True(t, decimal.RequireFromString("250").Equal(body.Balance))
	})

	t.Run("validation details", func(t *testing.T) {
		s := newTestServer(t)

		rec := s.do(http.MethodPost, "/api/accounts", `{"account_number":"CUST010","account_type":"GOLD"}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, apperrors.CodeValidation, body.Error.Code)
		assert.Equal(t, "is required", body.Error.Details["account_holder"])
		assert.Equal(t, "must be one of CUSTOMER STORE", body.Error.Details["account_type"])
	})

	t.Run("duplicate", func(t *testing.T) {
		s := newTestServer(t)
		s.accounts.EXPECT().Create(mock.Anything, mock.Anything).Return(domain.AccountExists("CUST001")).Once()

		rec := s.do(http.MethodPost, "/api/accounts",
			`{"account_number":"CUST001","account_holder":"Ann","account_type":"CUSTOMER"}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestAccountHandlers_GetAccount(t *testing.T) {
	s := newTestServer(t)
	account, err := domain.NewAccount("CUST001", "customer", domain.AccountTypeCustomer, decimal.RequireFromString("10000"))
	require.NoError(t, err)
	s.accounts.EXPECT().FindByNumber(mock.Anything, "CUST001").Return(account, nil).Once()
	s.accounts.EXPECT().FindByNumber(mock.Anything, "CUST404").Return(nil, domain.AccountNotFound("CUST404")).Once()

	rec := s.do(http.MethodGet, "/api/accounts/CUST001", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body application.AccountResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "customer", body.AccountHolder)

	rec = s.do(http.MethodGet, "/api/accounts/CUST404", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "account CUST404 not found", decodeError(t, rec).Error.Message)
}

func TestAccountHandlers_ListTransactions(t *testing.T) {
	s := newTestServer(t)
	account, err := domain.NewAccount("CUST001", "customer", domain.AccountTypeCustomer, decimal.Zero)
	require.NoError(t, err)
	s.accounts.EXPECT().FindByNumber(mock.Anything, "CUST001").Return(account, nil).Once()
	s.ledger.EXPECT().ListByAccount(mock.Anything, "CUST001", 5, 10).Return([]*domain.Transaction{
		domain.NewPayment(orderID, "CUST001", "STORE001", decimal.RequireFromString("1")).Apply(nil, nil),
	}, nil).Once()

	rec := s.do(http.MethodGet, "/api/accounts/CUST001/transactions?limit=5&offset=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body []application.TransactionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body, 1)
	assert.Equal(t, events.TransferFailed, body[0].Status)
	assert.Equal(t, orderID.String(), body[0].OrderID)

	rec = s.do(http.MethodGet, "/api/accounts/CUST001/transactions?limit=ten", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTransferEventHandlers_Requests(t *testing.T) {
	tests := []struct {
		name  string
		topic events.Topic
		data  json.RawMessage
		want  domain.Transfer
	}{
		{
			name:  "payment requested",
			topic: events.TopicPaymentRequested,
			data:  json.RawMessage(`{"order_id":"` + orderID.String() + `","amount":"126.00","payer_account":"CUST001"}`),
			want:  domain.NewPayment(orderID, "CUST001", "STORE001", decimal.RequireFromString("126.00")),
		},
		{
			name:  "refund requested",
			topic: events.TopicRefundRequested,
			data:  json.RawMessage(`{"order_id":"` + orderID.String() + `","amount":"126.00","payee_account":"CUST001"}`),
			want:  domain.NewRefund(orderID, "CUST001", "STORE001", decimal.RequireFromString("126.00")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			var got domain.Transfer
			s.ledger.EXPECT().Execute(mock.Anything, mock.Anything, mock.Anything).
				RunAndReturn(func(_ context.Context, transfer domain.Transfer, outbound func(*domain.Transaction) []*events.Event) (*domain.Transaction, bool, error) {
					got = transfer
					return transfer.Apply(nil, nil), true, nil
				}).Once()

			event := events.NewEvent(orderID, tt.topic, tt.data)
			require.NoError(t, s.events.Handle(context.Background(), event))

			assert.Equal(t, tt.want.Kind, got.Kind)
			assert.Equal(t, tt.want.FromAccount, got.FromAccount)
			assert.Equal(t, tt.want.ToAccount, got.ToAccount)
			assert.True(t, tt.want.Amount.Equal(got.Amount))
			assert.Equal(t, orderID, got.OrderID)
		})
	}
}

func TestTransferEventHandlers_RejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name  string
		topic events.Topic
		data  json.RawMessage
	}{
		{name: "malformed payment request", topic: events.TopicPaymentRequested, data: json.RawMessage(`{"order_id":`)},
		{name: "payment request without order", topic: events.TopicPaymentRequested, data: json.RawMessage(`{"amount":"1"}`)},
		{name: "refund request without order", topic: events.TopicRefundRequested, data: json.RawMessage(`{"amount":"1"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			err := s.events.Handle(context.Background(), events.NewEvent(models.GenerateUUID(), tt.topic, tt.data))

			require.Error(t, err)
			assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
			assert.False(t, apperrors.IsRetryable(err))
		})
	}
}
