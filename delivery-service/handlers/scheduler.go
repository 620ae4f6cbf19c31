package handlers

import (
	"context"
	"time"

	"github.com/draftea/order-system/shared/logger"
)

const defaultTickInterval = time.Second

// ShipmentAdvancer is implemented by application.AdvanceShipments.
type ShipmentAdvancer interface {
	Execute(ctx context.Context) (int, error)
}

// ShipmentScheduler drives the carrier simulation: on every tick the due
// shipments move one leg.
type ShipmentScheduler struct {
	advancer ShipmentAdvancer
	interval time.Duration
	log      *logger.Logger
}

func NewShipmentScheduler(advancer ShipmentAdvancer, interval time.Duration, log *logger.Logger) *ShipmentScheduler {
	if interval <= 0 {
		interval = defaultTickInterval
	}
	return &ShipmentScheduler{advancer: advancer, interval: interval, log: log}
}

// Run ticks until ctx is cancelled. A failed pass is logged and retried on
// the next tick.
func (s *ShipmentScheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info(ctx, "shipment scheduler stopped")
			return nil
		case <-ticker.C:
			moved, err := s.advancer.Execute(ctx)
			if err != nil && ctx.Err() == nil {
				s.log.Error(ctx, "shipment scheduler pass failed", err)
			}
			if moved > 0 {
				s.log.Debug(s.log.WithField(ctx, "count", moved), "shipments advanced")
			}
		}
	}
}
