package domain

import (
	"time"

	"github.com/draftea/order-system/shared/events"
	"github.com/draftea/order-system/shared/models"
)

// ShipmentStatus extends the carrier statuses reported to the store with the
// states that are never reported.
type ShipmentStatus string

const (
	ShipmentRequested ShipmentStatus = "REQUESTED"
	ShipmentPickedUp  ShipmentStatus = ShipmentStatus(events.DeliveryPickedUp)
	ShipmentInTransit ShipmentStatus = ShipmentStatus(events.DeliveryInTransit)
	ShipmentDelivered ShipmentStatus = ShipmentStatus(events.DeliveryDelivered)
	ShipmentLost      ShipmentStatus = ShipmentStatus(events.DeliveryLost)
	ShipmentCancelled ShipmentStatus = "CANCELLED"
)

func (s ShipmentStatus) String() string {
	return string(s)
}

// Terminal reports whether the shipment has left the route for good.
func (s ShipmentStatus) Terminal() bool {
	switch s {
	case ShipmentDelivered, ShipmentLost, ShipmentCancelled:
		return true
	}
	return false
}

// Timings are the simulated durations of each leg.
type Timings struct {
	Pickup   time.Duration
	Transit  time.Duration
	Delivery time.Duration
}

// Shipment aggregate root
type Shipment struct {
	ID          models.ID         `json:"id"`
	OrderID     models.ID         `json:"order_id"`
	Address     string            `json:"address"`
	Allocations map[models.ID]int `json:"warehouse_allocations"`
	Status      ShipmentStatus    `json:"status"`
	NextStepAt  *time.Time        `json:"next_step_at,omitempty"`
	Timestamps  models.Timestamps
	Version     models.Version
}

// NewShipment schedules the pickup of an order's parcels.
func NewShipment(orderID models.ID, address string, allocations map[models.ID]int, now time.Time, timings Timings) (*Shipment, error) {
	if orderID.IsZero() {
		return nil, Validation("order id is required")
	}
	if address == "" {
		return nil, Validation("delivery address is required")
	}
	if len(allocations) == 0 {
		return nil, Validation("shipment has no warehouse allocations")
	}
	for warehouseID, qty := range allocations {
		if qty <= 0 {
			return nil, Validation("invalid quantity %d for warehouse %s", qty, warehouseID)
		}
	}

	next := now.Add(timings.Pickup)
	return &Shipment{
		ID:          models.GenerateUUID(),
		OrderID:     orderID,
		Address:     address,
		Allocations: allocations,
		Status:      ShipmentRequested,
		NextStepAt:  &next,
		Timestamps:  models.Timestamps{CreatedAt: now, UpdatedAt: now},
		Version:     models.NewVersion(),
	}, nil
}

// Advance moves the shipment one leg along its route and returns the status
// to report. lost is consulted on the pickup and final legs only.
func (s *Shipment) Advance(now time.Time, timings Timings, lost func() bool) (events.DeliveryStatus, error) {
	var next ShipmentStatus
	var wait time.Duration

	switch s.Status {
	case ShipmentRequested:
		next, wait = ShipmentPickedUp, timings.Transit
		if lost() {
			next = ShipmentLost
		}
	case ShipmentPickedUp:
		next, wait = ShipmentInTransit, timings.Delivery
	case ShipmentInTransit:
		next = ShipmentDelivered
		if lost() {
			next = ShipmentLost
		}
	default:
		return "", ShipmentFinished(s.OrderID, s.Status)
	}

	s.Status = next
	s.NextStepAt = nil
	if !next.Terminal() {
		at := now.Add(wait)
		s.NextStepAt = &at
	}
	s.touch(now)
	return events.DeliveryStatus(next), nil
}

// Cancel stops a shipment that is still on its way. It reports false when
// the shipment had already finished.
func (s *Shipment) Cancel(now time.Time) bool {
	if s.Status.Terminal() {
		return false
	}
	s.Status = ShipmentCancelled
	s.NextStepAt = nil
	s.touch(now)
	return true
}

func (s *Shipment) touch(now time.Time) {
	s.Timestamps.UpdatedAt = now
	s.Version = s.Version.Next()
}

// StatusUpdate is the event reporting status to the ordering service.
func (s *Shipment) StatusUpdate(status events.DeliveryStatus, at time.Time) *events.Event {
	return events.NewEvent(s.OrderID, events.TopicDeliveryStatusUpdated, events.DeliveryStatusUpdate{
		OrderID:   s.OrderID,
		Status:    status,
		Timestamp: at,
	})
}
