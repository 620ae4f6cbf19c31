package events

import (
	"time"

	"github.com/draftea/order-system/shared/models"
	"github.com/shopspring/decimal"
)

// Topics exchanged between the ordering, payment, delivery and notification services.
const (
	TopicPaymentRequested              Topic = "payment.requested"
	TopicPaymentResult                 Topic = "payment.result"
	TopicRefundRequested               Topic = "refund.requested"
	TopicRefundResult                  Topic = "refund.result"
	TopicDeliveryRequested             Topic = "delivery.requested"
	TopicDeliveryStatusUpdated         Topic = "delivery.status.updated"
	TopicDeliveryCancellationRequested Topic = "delivery.cancellation.requested"
	TopicNotificationRequested         Topic = "notification.requested"
)

// TransferStatus is the outcome reported by the payment service.
type TransferStatus string

const (
	TransferSucceeded TransferStatus = "SUCCESS"
	TransferFailed    TransferStatus = "FAILED"
)

func (s TransferStatus) Valid() bool {
	return s == TransferSucceeded || s == TransferFailed
}

// DeliveryStatus is a carrier-side shipment status.
type DeliveryStatus string

const (
	DeliveryPickedUp  DeliveryStatus = "PICKED_UP"
	DeliveryInTransit DeliveryStatus = "IN_TRANSIT"
	DeliveryDelivered DeliveryStatus = "DELIVERED"
	DeliveryLost      DeliveryStatus = "LOST"
)

func (s DeliveryStatus) Valid() bool {
	switch s {
	case DeliveryPickedUp, DeliveryInTransit, DeliveryDelivered, DeliveryLost:
		return true
	}
	return false
}

type PaymentRequested struct {
	OrderID      models.ID       `json:"order_id"`
	Amount       decimal.Decimal `json:"amount"`
	PayerAccount string          `json:"payer_account"`
}

type PaymentResult struct {
	OrderID       models.ID      `json:"order_id"`
	Status        TransferStatus `json:"status"`
	TransactionID string         `json:"transaction_id"`
}

type RefundRequested struct {
	OrderID      models.ID       `json:"order_id"`
	Amount       decimal.Decimal `json:"amount"`
	PayeeAccount string          `json:"payee_account"`
}

type RefundResult struct {
	OrderID       models.ID      `json:"order_id"`
	Status        TransferStatus `json:"status"`
	TransactionID string         `json:"transaction_id"`
}

type DeliveryRequested struct {
	OrderID              models.ID         `json:"order_id"`
	Address              string            `json:"address"`
	WarehouseAllocations map[models.ID]int `json:"warehouse_allocations"`
}

type DeliveryStatusUpdate struct {
	OrderID   models.ID      `json:"order_id"`
	Status    DeliveryStatus `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
}

type DeliveryCancellationRequested struct {
	OrderID models.ID `json:"order_id"`
}

type NotifyCustomer struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
