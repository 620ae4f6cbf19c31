package domain

import (
	"github.com/draftea/order-system/shared/apperrors"
)

// Status is the lifecycle state of an order
type Status string

const (
	StatusPending          Status = "PENDING"
	StatusPaymentSuccess   Status = "PAYMENT_SUCCESS"
	StatusPaymentFailed    Status = "PAYMENT_FAILED"
	StatusAwaitingShipment Status = "AWAITING_SHIPMENT"
	StatusShipped          Status = "SHIPPED"
	StatusInTransit        Status = "IN_TRANSIT"
	StatusDelivered        Status = "DELIVERED"
	StatusCancelled        Status = "CANCELLED"
	StatusRefunded         Status = "REFUNDED"
)

var transitions = map[Status][]Status{
	StatusPending:          {StatusPaymentSuccess, StatusPaymentFailed, StatusCancelled},
	StatusPaymentSuccess:   {StatusAwaitingShipment, StatusCancelled},
	StatusAwaitingShipment: {StatusShipped, StatusCancelled},
	StatusShipped:          {StatusInTransit, StatusCancelled},
	StatusInTransit:        {StatusDelivered, StatusCancelled},
	StatusCancelled:        {StatusRefunded},
}

// CancellableStatuses are tried in order when a customer cancels.
var CancellableStatuses = []Status{StatusPending, StatusPaymentSuccess, StatusAwaitingShipment}

// CancellableFrom returns the cancellable statuses from s onwards.
func CancellableFrom(s Status) []Status {
	for i, status := range CancellableStatuses {
		if status == s {
			return CancellableStatuses[i:]
		}
	}
	return nil
}

// ShippingStatuses are the states from which a lost shipment is cancelled, in order.
var ShippingStatuses = []Status{StatusAwaitingShipment, StatusShipped, StatusInTransit}

func ParseStatus(value string) (Status, error) {
	status := Status(value)
	if _, ok := transitions[status]; ok || status.IsTerminal() {
		return status, nil
	}
	return "", apperrors.Newf(apperrors.CodeValidation, "unknown order status %q", value)
}

// CanTransition reports whether from → to is an edge of the lifecycle.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible. CANCELLED is
// not terminal since a refund confirmation moves it to REFUNDED.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusPaymentFailed, StatusDelivered, StatusRefunded:
		return true
	}
	return false
}

// IsClosed reports whether the order is finished from the customer's point of view.
func (s Status) IsClosed() bool {
	return s.IsTerminal() || s == StatusCancelled
}

func (s Status) String() string {
	return string(s)
}

// shippingRank orders the carrier-driven states; zero for all others.
func (s Status) shippingRank() int {
	switch s {
	case StatusAwaitingShipment:
		return 1
	case StatusShipped:
		return 2
	case StatusInTransit:
		return 3
	case StatusDelivered:
		return 4
	}
	return 0
}

// Precedes reports whether s is an earlier point in the shipping flow than other.
func (s Status) Precedes(other Status) bool {
	rank := s.shippingRank()
	return rank > 0 && rank < other.shippingRank()
}
