package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/draftea/order-system/shared/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalPayload(t *testing.T) {
	payload := PaymentResult{OrderID: "order-1", Status: TransferSucceeded, TransactionID: "tx-1"}

	tests := []struct {
		name string
		data interface{}
	}{
		{name: "same type", data: payload},
		{name: "pointer to type", data: &payload},
		{name: "raw json", data: json.RawMessage(`{"order_id":"order-1","status":"SUCCESS","transaction_id":"tx-1"}`)},
		{name: "decoded map", data: map[string]interface{}{"order_id": "order-1", "status": "SUCCESS", "transaction_id": "tx-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt := NewEvent("order-1", TopicPaymentResult, tt.data)

			var got PaymentResult
			require.NoError(t, evt.UnmarshalPayload(&got))
			assert.Equal(t, payload, got)
		})
	}
}

func TestUnmarshalPayloadRequiresPointer(t *testing.T) {
	evt := NewEvent("order-1", TopicPaymentResult, PaymentResult{})

	var got PaymentResult
	assert.ErrorIs(t, evt.UnmarshalPayload(got), ErrInvalidReceiver)
}

func TestContractsWireFormat(t *testing.T) {
	req := DeliveryRequested{
		OrderID:              "order-1",
		Address:              "1 Main St",
		WarehouseAllocations: map[models.ID]int{"WH-A": 10, "WH-B": 2},
	}
	raw, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"order_id":"order-1","address":"1 Main St","warehouse_allocations":{"WH-A":10,"WH-B":2}}`, string(raw))

	pay := PaymentRequested{OrderID: "order-1", Amount: decimal.RequireFromString("25.50"), PayerAccount: "ACC-1"}
	raw, err = json.Marshal(pay)
	require.NoError(t, err)
	assert.JSONEq(t, `{"order_id":"order-1","amount":"25.5","payer_account":"ACC-1"}`, string(raw))

	update := DeliveryStatusUpdate{OrderID: "order-1", Status: DeliveryLost, Timestamp: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)}
	raw, err = json.Marshal(update)
	require.NoError(t, err)
	assert.JSONEq(t, `{"order_id":"order-1","status":"LOST","timestamp":"2025-01-02T03:04:05Z"}`, string(raw))
}

func TestStatusValidation(t *testing.T) {
	assert.True(t, DeliveryLost.Valid())
	assert.False(t, DeliveryStatus("RETURNED").Valid())
	assert.True(t, TransferFailed.Valid())
	assert.False(t, TransferStatus("PENDING").Valid())
}
