package infrastructure

import (
	"context"
	"math/rand"
	"time"

	"github.com/draftea/order-system/shared/events"
	"github.com/draftea/order-system/shared/logger"
	"github.com/draftea/order-system/shared/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultRelayBatchSize = 50
	defaultRelayPoll      = 500 * time.Millisecond
	maxRelayBackoff       = 10 * time.Second
	relayJitterWindow     = 250 * time.Millisecond
	purgeInterval         = time.Hour
)

// OutboxDispatcher is implemented by PostgresOutbox.
type OutboxDispatcher interface {
	Dispatch(ctx context.Context, limit int, publish func(context.Context, ...*events.Event) error) (int, error)
}

// OutboxPurger is implemented by PostgresOutbox.
type OutboxPurger interface {
	PurgePublished(ctx context.Context, before time.Time) (int64, error)
}

// OutboxRelay moves committed outbox events to the bus.
type OutboxRelay struct {
	outbox       OutboxDispatcher
	publisher    events.Publisher
	log          *logger.Logger
	batchSize    int
	pollInterval time.Duration
	jitter       *rand.Rand

	purger    OutboxPurger
	retention time.Duration
	lastPurge time.Time
	now       func() time.Time
}

func NewOutboxRelay(outbox OutboxDispatcher, publisher events.Publisher, log *logger.Logger, batchSize int, pollInterval time.Duration) *OutboxRelay {
	if batchSize <= 0 {
		batchSize = defaultRelayBatchSize
	}
	if pollInterval <= 0 {
		pollInterval = defaultRelayPoll
	}
	if log == nil {
		log = logger.Nop()
	}
	return &OutboxRelay{
		outbox:       outbox,
		publisher:    publisher,
		log:          log,
		batchSize:    batchSize,
		pollInterval: pollInterval,
		jitter:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:          time.Now,
	}
}

// WithRetention makes Run delete events published more than retention ago.
// A zero retention keeps everything.
func (r *OutboxRelay) WithRetention(purger OutboxPurger, retention time.Duration) *OutboxRelay {
	r.purger = purger
	r.retention = retention
	return r
}

// Run polls until ctx is cancelled. A full batch is followed immediately by
// another poll; failures back off exponentially.
func (r *OutboxRelay) Run(ctx context.Context) error {
	backoff := r.pollInterval

	for {
		if err := ctx.Err(); err != nil {
			r.log.Info(ctx, "outbox relay stopped")
			return nil
		}

		dispatched, err := r.RunOnce(ctx)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			r.log.Error(ctx, "outbox relay batch error", err)
			backoff = nextBackoff(backoff, r.pollInterval, maxRelayBackoff)
			sleep(ctx, r.withJitter(backoff))
			continue
		}

		backoff = r.pollInterval
		r.purgeIfDue(ctx)
		if dispatched == r.batchSize {
			continue
		}

		sleep(ctx, r.withJitter(r.pollInterval))
	}
}

// RunOnce dispatches a single batch.
func (r *OutboxRelay) RunOnce(ctx context.Context) (int, error) {
	dispatched, err := r.outbox.Dispatch(ctx, r.batchSize, r.publisher.Publish)
	if dispatched > 0 {
		telemetry.RecordCounter(ctx, "outbox_events_dispatched_total", "Outbox events handed to the bus", int64(dispatched))
		r.log.Debug(r.log.WithField(ctx, "count", dispatched), "outbox events published")
	}
	if err != nil {
		telemetry.RecordCounter(ctx, "outbox_dispatch_failures_total", "Failed outbox dispatch batches", 1,
			attribute.Int("batch_size", r.batchSize))
	}
	return dispatched, err
}

// purgeIfDue sweeps published events at most once per purgeInterval.
func (r *OutboxRelay) purgeIfDue(ctx context.Context) {
	if r.purger == nil || r.retention <= 0 {
		return
	}
	now := r.now()
	if !r.lastPurge.IsZero() && now.Sub(r.lastPurge) < purgeInterval {
		return
	}
	r.lastPurge = now

	purged, err := r.purger.PurgePublished(ctx, now.Add(-r.retention))
	if err != nil {
		r.log.Error(ctx, "outbox purge failed", err)
		return
	}
	if purged > 0 {
		r.log.Info(r.log.WithField(ctx, "count", purged), "published outbox events purged")
	}
}

func nextBackoff(current, base, max time.Duration) time.Duration {
	if current <= 0 {
		current = base
	}
	next := current * 2
	if next > max {
		return max
	}
	return next
}

func (r *OutboxRelay) withJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return d + time.Duration(r.jitter.Int63n(int64(relayJitterWindow)))
}
