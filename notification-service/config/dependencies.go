package config

import (
	"context"

	"github.com/draftea/order-system/notification-service/application"
	"github.com/draftea/order-system/notification-service/handlers"
	"github.com/draftea/order-system/notification-service/infrastructure"
	"github.com/draftea/order-system/shared/events"
	sharedinfra "github.com/draftea/order-system/shared/infrastructure"
	"github.com/draftea/order-system/shared/logger"
	"github.com/draftea/order-system/shared/saga"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/multierr"
)

type Dependencies struct {
	Redis *redis.Client

	// Use Cases
	NotifyCustomer *application.NotifyCustomer

	EventHandler events.EventHandler

	// Infrastructure
	EventSubscriber *sharedinfra.SQSEventSubscriber
}

func BuildDependencies(ctx context.Context, cfg *Config, log *logger.Logger) (_ *Dependencies, err error) {
	deps := &Dependencies{}
	defer func() {
		if err != nil {
			err = multierr.Append(err, deps.Close())
		}
	}()

	if cfg.Redis.Enabled() {
		client, err := sharedinfra.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		deps.Redis = client
	}

	subscriber, err := sharedinfra.NewSQSSubscriberFromConfig(ctx, cfg.AWS, log)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create SQS subscriber")
	}
	deps.EventSubscriber = subscriber

	deps.NotifyCustomer = application.NewNotifyCustomer(infrastructure.NewLogSender(log))

	router := handlers.NewNotificationEventHandlers(deps.NotifyCustomer).Register(saga.NewRouter(log))

	// Without Redis a redelivered request notifies twice.
	deps.EventHandler = router
	if deps.Redis != nil {
		deps.EventHandler = sharedinfra.NewRedisInbox(deps.Redis, cfg.ServiceName, cfg.Redis.IdempotencyTTL, log).
			WithClaimTTL(cfg.Redis.ClaimTTL).
			Wrap(router)
	}

	return deps, nil
}

// Close closes all dependencies
func (d *Dependencies) Close() error {
	if d.Redis != nil {
		return errors.Wrap(d.Redis.Close(), "failed to close redis")
	}
	return nil
}
