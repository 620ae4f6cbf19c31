package application

import (
	"context"
	"math/rand"
	"time"

	"github.com/draftea/order-system/delivery-service/domain"
	"github.com/draftea/order-system/shared/logger"
	"github.com/draftea/order-system/shared/telemetry"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

// Dice decides whether a parcel goes missing on a leg.
type Dice interface {
	Float64() float64
}

type CarrierSettings struct {
	Timings         domain.Timings
	LossProbability float64
	BatchSize       int
}

// AdvanceShipments moves every due shipment one leg and reports the new
// status to the store. Orders found in the cancellation set are stopped
// instead.
type AdvanceShipments struct {
	shipments     domain.ShipmentRepository
	cancellations domain.Cancellations
	settings      CarrierSettings
	dice          Dice
	now           func() time.Time
	log           *logger.Logger
}

func NewAdvanceShipments(
	shipments domain.ShipmentRepository,
	cancellations domain.Cancellations,
	settings CarrierSettings,
	log *logger.Logger,
) *AdvanceShipments {
	return &AdvanceShipments{
		shipments:     shipments,
		cancellations: cancellations,
		settings:      settings,
		dice:          rand.New(rand.NewSource(time.Now().UnixNano())),
		now:           time.Now,
		log:           log,
	}
}

// WithDice replaces the random source, for deterministic runs.
func (uc *AdvanceShipments) WithDice(dice Dice) *AdvanceShipments {
	uc.dice = dice
	return uc
}

// Execute runs one pass and returns how many shipments moved. A failing
// shipment does not stop the others; their errors are combined.
func (uc *AdvanceShipments) Execute(ctx context.Context) (moved int, err error) {
	ctx, finish := startOperation(ctx, "advance_shipments")
	defer func() { finish(err) }()

	now := uc.now().UTC()
	due, err := uc.shipments.ListDue(ctx, now, uc.settings.BatchSize)
	if err != nil {
		return 0, errors.Wrap(err, "failed to list due shipments")
	}

	for _, shipment := range due {
		ok, stepErr := uc.advance(ctx, shipment, now)
		if stepErr != nil {
			err = multierr.Append(err, errors.Wrapf(stepErr, "order %s", shipment.OrderID))
			continue
		}
		if ok {
			moved++
		}
	}
	return moved, err
}

func (uc *AdvanceShipments) advance(ctx context.Context, shipment *domain.Shipment, now time.Time) (bool, error) {
	ctx = uc.log.WithOrderID(ctx, shipment.OrderID.String())

	cancelled, err := uc.cancellations.IsCancelled(ctx, shipment.OrderID)
	if err != nil {
		return false, errors.Wrap(err, "failed to check cancellation")
	}
	if cancelled {
		if !shipment.Cancel(now) {
			return false, nil
		}
		saved, err := uc.shipments.Save(ctx, shipment)
		if err != nil {
			return false, errors.Wrap(err, "failed to stop shipment")
		}
		if saved {
			uc.log.Info(ctx, "shipment stopped, order was cancelled")
		}
		return saved, nil
	}

	status, err := shipment.Advance(now, uc.settings.Timings, uc.lost)
	if err != nil {
		return false, err
	}

	saved, err := uc.shipments.Save(ctx, shipment, shipment.StatusUpdate(status, now))
	if err != nil {
		return false, errors.Wrap(err, "failed to save shipment")
	}
	if !saved {
		uc.log.Debug(ctx, "shipment moved by another worker")
		return false, nil
	}

	telemetry.RecordCounter(ctx, "delivery_status_updates_total", "Carrier status updates", 1,
		attribute.String("status", string(status)),
	)
	if shipment.Status == domain.ShipmentLost {
		uc.log.Warn(ctx, "parcel lost")
	} else {
		uc.log.Info(uc.log.WithField(ctx, "status", string(status)), "shipment advanced")
	}
	return true, nil
}

func (uc *AdvanceShipments) lost() bool {
	return uc.dice.Float64() < uc.settings.LossProbability
}
