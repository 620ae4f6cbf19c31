package infrastructure

import (
	"context"

	"github.com/draftea/order-system/shared/database"
	"github.com/draftea/order-system/shared/events"
	"github.com/jmoiron/sqlx"
)

// OutboxPublisher is an events.Publisher for messages that do not ride on a
// state change. They are committed to the outbox on their own and relayed
// like any other.
type OutboxPublisher struct {
	db     *sqlx.DB
	outbox *PostgresOutbox
}

func NewOutboxPublisher(db *sqlx.DB, outbox *PostgresOutbox) *OutboxPublisher {
	return &OutboxPublisher{db: db, outbox: outbox}
}

func (p *OutboxPublisher) Publish(ctx context.Context, evts ...*events.Event) error {
	if len(evts) == 0 {
		return nil
	}
	return database.WithTx(ctx, p.db, func(tx *sqlx.Tx) error {
		return p.outbox.Enqueue(ctx, tx, evts...)
	})
}
