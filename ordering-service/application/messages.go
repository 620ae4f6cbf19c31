package application

import (
	"fmt"

	"github.com/draftea/order-system/ordering-service/domain"
	"github.com/draftea/order-system/shared/events"
)

func paymentRequested(order *domain.Order, customer *domain.Customer) *events.Event {
	return events.NewEvent(order.ID, events.TopicPaymentRequested, events.PaymentRequested{
		OrderID:      order.ID,
		Amount:       order.TotalPrice,
		PayerAccount: customer.BankAccount,
	}).WithCorrelationID(order.ID)
}

func refundRequested(order *domain.Order, customer *domain.Customer) *events.Event {
	return events.NewEvent(order.ID, events.TopicRefundRequested, events.RefundRequested{
		OrderID:      order.ID,
		Amount:       order.TotalPrice,
		PayeeAccount: customer.BankAccount,
	}).WithCorrelationID(order.ID)
}

func deliveryRequested(order *domain.Order) *events.Event {
	return events.NewEvent(order.ID, events.TopicDeliveryRequested, events.DeliveryRequested{
		OrderID:              order.ID,
		Address:              order.Address,
		WarehouseAllocations: order.AllocationsByWarehouse(),
	}).WithCorrelationID(order.ID)
}

func deliveryCancellationRequested(order *domain.Order) *events.Event {
	return events.NewEvent(order.ID, events.TopicDeliveryCancellationRequested, events.DeliveryCancellationRequested{
		OrderID: order.ID,
	}).WithCorrelationID(order.ID)
}

func notifyCustomer(order *domain.Order, customer *domain.Customer, subject, body string) *events.Event {
	return events.NewEvent(order.ID, events.TopicNotificationRequested, events.NotifyCustomer{
		To:      customer.Email,
		Subject: subject,
		Body:    body,
	}).WithCorrelationID(order.ID)
}

// Customer-facing texts.

func paymentFailedEmail(order *domain.Order) (string, string) {
	return fmt.Sprintf("Order Payment Failed: %s", order.ID),
		fmt.Sprintf("Your payment for order ID %s has failed and the order was not placed. Please check your payment details or contact support.", order.ID)
}

func processingFailedEmail(order *domain.Order) (string, string) {
	return fmt.Sprintf("Order Processing Failed: %s", order.ID),
		fmt.Sprintf("We're sorry, but the item for your order ID %s could not be reserved after your payment was processed. The order has been cancelled and a full refund will be processed.", order.ID)
}

func cancelledEmail(order *domain.Order, from domain.Status) (string, string) {
	subject := fmt.Sprintf("Order Cancelled: %s", order.ID)
	switch from {
	case domain.StatusPaymentSuccess:
		return subject, fmt.Sprintf("Your order with ID %s has been cancelled. A refund will be processed shortly.", order.ID)
	case domain.StatusAwaitingShipment:
		return subject, fmt.Sprintf("Your order with ID %s has been cancelled. A refund will be processed, and we will attempt to stop the shipment.", order.ID)
	default:
		return subject, fmt.Sprintf("Your order with ID %s has been successfully cancelled.", order.ID)
	}
}

func latePaymentRefundEmail(order *domain.Order) (string, string) {
	return fmt.Sprintf("Order Cancelled: %s", order.ID),
		fmt.Sprintf("Your payment for order ID %s was received after the order was cancelled. A full refund will be processed shortly.", order.ID)
}

func lostEmail(order *domain.Order) (string, string) {
	return fmt.Sprintf("Problem with Your Order: %s", order.ID),
		fmt.Sprintf("We are sorry, but your package for order %s was lost in transit. The order has been cancelled and a full refund will be processed.", order.ID)
}

func deliveryProgressEmail(order *domain.Order, status events.DeliveryStatus) (string, string) {
	switch status {
	case events.DeliveryPickedUp:
		return "Your order has been picked up!", fmt.Sprintf("Your order (ID %s) has been picked up and is on its way.", order.ID)
	case events.DeliveryInTransit:
		return "Your order is in transit!", fmt.Sprintf("Your order (ID %s) is currently in transit.", order.ID)
	default:
		return "Your order has been delivered!", fmt.Sprintf("Your order (ID %s) has been successfully delivered.", order.ID)
	}
}

func refundCompletedEmail(order *domain.Order, transactionID string) (string, string) {
	return fmt.Sprintf("Your refund is complete for order %s", order.ID),
		fmt.Sprintf("Your refund for order (ID %s) has been processed successfully. Transaction ID: %s", order.ID, transactionID)
}

func refundFailedEmail(order *domain.Order) (string, string) {
	return fmt.Sprintf("Refund Failed for order %s", order.ID),
		fmt.Sprintf("We encountered an issue while processing your refund for order (ID %s). Please contact customer support for assistance.", order.ID)
}
