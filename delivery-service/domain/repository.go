package domain

import (
	"context"
	"time"

	"github.com/draftea/order-system/shared/events"
	"github.com/draftea/order-system/shared/models"
)

type ShipmentRepository interface {
	// Create stores s unless its order already has a shipment, and reports
	// whether it did. An order cancelled before its request arrived is
	// stored as CANCELLED.
	Create(ctx context.Context, s *Shipment) (bool, error)
	FindByOrder(ctx context.Context, orderID models.ID) (*Shipment, error)
	// ListDue returns active shipments whose next step is due at now, oldest first.
	ListDue(ctx context.Context, now time.Time, limit int) ([]*Shipment, error)
	// Save writes s if the stored version is still the one s was loaded at,
	// enqueuing outbound with it. It reports false when another writer won.
	Save(ctx context.Context, s *Shipment, outbound ...*events.Event) (bool, error)
}

// Cancellations is the persisted set of orders the store has cancelled.
type Cancellations interface {
	// Cancel records orderID and stops its shipment if one is on the way.
	// It reports whether a shipment was stopped.
	Cancel(ctx context.Context, orderID models.ID) (bool, error)
	IsCancelled(ctx context.Context, orderID models.ID) (bool, error)
}
