package config

import (
	"context"

	"github.com/draftea/order-system/payment-service/application"
	"github.com/draftea/order-system/payment-service/handlers"
	"github.com/draftea/order-system/payment-service/infrastructure"
	"github.com/draftea/order-system/payment-service/migrations"
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
	Accounts *infrastructure.PostgresAccountRepository
	Ledger   *infrastructure.PostgresLedger
	Outbox   *sharedinfra.PostgresOutbox

	// Use Cases
	CreateAccount    *application.CreateAccount
	GetAccount       *application.GetAccount
	ListTransactions *application.ListTransactions
	ProcessTransfer  *application.ProcessTransfer

	// HTTP Handlers
	AccountHandlers *handlers.AccountHandlers

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
	deps.Accounts = infrastructure.NewPostgresAccountRepository(db)
	deps.Ledger = infrastructure.NewPostgresLedger(db, deps.Outbox)
	deps.OutboxRelay = sharedinfra.NewOutboxRelay(deps.Outbox, publisher, log, cfg.Outbox.BatchSize, cfg.Outbox.PollInterval).
		WithRetention(deps.Outbox, cfg.Outbox.Retention)

	// Use cases
	deps.CreateAccount = application.NewCreateAccount(deps.Accounts, log)
	deps.GetAccount = application.NewGetAccount(deps.Accounts)
	deps.ListTransactions = application.NewListTransactions(deps.Accounts, deps.Ledger)
	deps.ProcessTransfer = application.NewProcessTransfer(
		deps.Ledger,
		sharedinfra.NewOutboxPublisher(db, deps.Outbox),
		cfg.StoreAccount,
		log,
	)

	// Handlers
	deps.AccountHandlers = handlers.NewAccountHandlers(
		deps.CreateAccount,
		deps.GetAccount,
		deps.ListTransactions,
		log,
	)

	router := handlers.NewTransferEventHandlers(deps.ProcessTransfer).Register(saga.NewRouter(log))

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
