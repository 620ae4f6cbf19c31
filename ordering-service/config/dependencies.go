package config

import (
	"context"

	"github.com/draftea/order-system/ordering-service/application"
	"github.com/draftea/order-system/ordering-service/handlers"
	"github.com/draftea/order-system/ordering-service/infrastructure"
	"github.com/draftea/order-system/ordering-service/migrations"
	"github.com/draftea/order-system/shared/database"
	"github.com/draftea/order-system/shared/events"
	sharedinfra "github.com/draftea/order-system/shared/infrastructure"
	"github.com/draftea/order-system/shared/logger"
	"github.com/draftea/order-system/shared/saga"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/multierr"
)

type Dependencies struct {
	// Database
	DB    *sqlx.DB
	Redis *redis.Client

	// Repositories
	Orders  *infrastructure.PostgresOrderRepository
	Stock   *infrastructure.PostgresStockLedger
	Catalog *infrastructure.PostgresCatalog
	Outbox  *sharedinfra.PostgresOutbox

	// Use Cases
	CreateOrder           *application.CreateOrder
	GetOrder              *application.GetOrder
	ListOrders            *application.ListOrders
	CancelOrder           *application.CancelOrder
	AdjustStock           *application.AdjustStock
	ListStock             *application.ListStock
	ProcessPaymentResult  *application.ProcessPaymentResult
	ProcessRefundResult   *application.ProcessRefundResult
	ProcessDeliveryStatus *application.ProcessDeliveryStatus

	// HTTP Handlers
	OrderHandlers *handlers.OrderHandlers

	// EventHandler is the router, behind the Redis inbox when one is configured.
	EventHandler events.EventHandler

	// Infrastructure
	EventPublisher  *sharedinfra.SNSEventPublisher
	EventSubscriber *sharedinfra.SQSEventSubscriber
	OutboxRelay     *sharedinfra.OutboxRelay
}

func BuildDependencies(ctx context.Context, cfg *Config, log *logger.Logger) (_ *Dependencies, err error) {
	deps := &Dependencies{}
	defer func() {
		if err != nil {
			err = multierr.Append(err, deps.Close())
		}
	}()

	db, err := database.Connect(ctx, cfg.Database.DatabaseURL(), database.Options{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}
	deps.DB = db

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db.DB, migrations.FS, ".", "up"); err != nil {
			return nil, err
		}
	}

	if cfg.Redis.Enabled() {
		client, err := sharedinfra.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		deps.Redis = client
	}

	publisher, err := sharedinfra.NewSNSPublisherFromConfig(ctx, cfg.AWS)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create SNS publisher")
	}
	deps.EventPublisher = publisher

	subscriber, err := sharedinfra.NewSQSSubscriberFromConfig(ctx, cfg.AWS, log)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create SQS subscriber")
	}
	deps.EventSubscriber = subscriber

	// Repositories
	deps.Outbox = sharedinfra.NewPostgresOutbox(db)
	deps.Orders = infrastructure.NewPostgresOrderRepository(db, deps.Outbox)
	deps.Stock = infrastructure.NewPostgresStockLedger(db)
	deps.Catalog = infrastructure.NewPostgresCatalog(db)
	deps.OutboxRelay = sharedinfra.NewOutboxRelay(deps.Outbox, publisher, log, cfg.Outbox.BatchSize, cfg.Outbox.PollInterval).
		WithRetention(deps.Outbox, cfg.Outbox.Retention)

	// Use cases
	compensator := application.NewCompensator(deps.Orders, deps.Catalog, log)
	deps.CreateOrder = application.NewCreateOrder(deps.Orders, deps.Stock, deps.Catalog, log)
	deps.GetOrder = application.NewGetOrder(deps.Orders)
	deps.ListOrders = application.NewListOrders(deps.Orders)
	deps.CancelOrder = application.NewCancelOrder(deps.Orders, compensator)
	deps.AdjustStock = application.NewAdjustStock(deps.Stock, deps.Catalog, log)
	deps.ListStock = application.NewListStock(deps.Stock, deps.Catalog)
	deps.ProcessPaymentResult = application.NewProcessPaymentResult(deps.Orders, deps.Stock, deps.Catalog, compensator, log)
	deps.ProcessRefundResult = application.NewProcessRefundResult(deps.Orders, deps.Catalog, sharedinfra.NewOutboxPublisher(db, deps.Outbox), log)
	deps.ProcessDeliveryStatus = application.NewProcessDeliveryStatus(deps.Orders, deps.Catalog, compensator, log)

	// Handlers
	deps.OrderHandlers = handlers.NewOrderHandlers(
		deps.CreateOrder,
		deps.GetOrder,
		deps.ListOrders,
		deps.CancelOrder,
		deps.AdjustStock,
		deps.ListStock,
		log,
	)

	router := handlers.NewOrderEventHandlers(
		deps.ProcessPaymentResult,
		deps.ProcessRefundResult,
		deps.ProcessDeliveryStatus,
	).Register(saga.NewRouter(log))

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
	var err error

	if d.Redis != nil {
		err = multierr.Append(err, errors.Wrap(d.Redis.Close(), "failed to close redis"))
	}
	if d.DB != nil {
		err = multierr.Append(err, errors.Wrap(d.DB.Close(), "failed to close database"))
	}

	return err
}
