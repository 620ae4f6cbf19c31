package infrastructure

import (
	"context"
	"encoding/json"
	"time"

	"github.com/draftea/order-system/shared/database"
	"github.com/draftea/order-system/shared/events"
	"github.com/draftea/order-system/shared/models"
	"github.com/draftea/order-system/shared/telemetry"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

// PostgresOutbox stores outbound events in the same transaction as the state
// change that produced them; Dispatch hands them to the bus afterwards.
type PostgresOutbox struct {
	db *sqlx.DB
}

func NewPostgresOutbox(db *sqlx.DB) *PostgresOutbox {
	return &PostgresOutbox{db: db}
}

type outboxRow struct {
	ID            string     `db:"id"`
	AggregateID   string     `db:"aggregate_id"`
	Topic         string     `db:"topic"`
	Version       string     `db:"version"`
	Payload       []byte     `db:"payload"`
	Metadata      []byte     `db:"metadata"`
	OccurredAt    time.Time  `db:"occurred_at"`
	CorrelationID string     `db:"correlation_id"`
	AttemptCount  int        `db:"attempt_count"`
	PublishedAt   *time.Time `db:"published_at"`
}

const insertOutboxQuery = `
	INSERT INTO outbox_events (
		id, aggregate_id, topic, version, payload, metadata, occurred_at, correlation_id
	) VALUES (
		:id, :aggregate_id, :topic, :version, :payload, :metadata, :occurred_at, :correlation_id
	)`

// Enqueue inserts evts using tx. The trace context of ctx travels with them.
func (o *PostgresOutbox) Enqueue(ctx context.Context, tx sqlx.ExtContext, evts ...*events.Event) error {
	for _, event := range evts {
		telemetry.InjectEvent(ctx, event)

		row, err := toOutboxRow(event)
		if err != nil {
			return err
		}

		if _, err := sqlx.NamedExecContext(ctx, tx, insertOutboxQuery, row); err != nil {
			return errors.Wrapf(err, "failed to enqueue %s event", event.Topic)
		}
	}
	return nil
}

// Dispatch locks up to limit pending events, publishes them and marks them
// published. Concurrent relays skip each other's rows.
func (o *PostgresOutbox) Dispatch(ctx context.Context, limit int, publish func(context.Context, ...*events.Event) error) (int, error) {
	var dispatched int

	err := database.WithTx(ctx, o.db, func(tx *sqlx.Tx) error {
		var rows []outboxRow
		err := tx.SelectContext(ctx, &rows, `
			SELECT id, aggregate_id, topic, version, payload, metadata,
				   occurred_at, correlation_id, attempt_count, published_at
			FROM outbox_events
			WHERE published_at IS NULL
			ORDER BY occurred_at ASC, id ASC
			LIMIT $1
			FOR UPDATE SKIP LOCKED`, limit)
		if err != nil {
			return errors.Wrap(err, "failed to fetch pending outbox events")
		}
		if len(rows) == 0 {
			return nil
		}

		evts := make([]*events.Event, 0, len(rows))
		ids := make([]string, 0, len(rows))
		for i := range rows {
			event, err := rows[i].toEvent()
			if err != nil {
				return err
			}
			evts = append(evts, event)
			ids = append(ids, rows[i].ID)
		}

		if publishErr := publish(ctx, evts...); publishErr != nil {
			_, err := tx.ExecContext(ctx, `
				UPDATE outbox_events
				SET attempt_count = attempt_count + 1, last_error = $2
				WHERE id = ANY($1)`, pq.Array(ids), publishErr.Error())
			if err != nil {
				return errors.Wrap(err, "failed to record outbox failure")
			}
			if err := tx.Commit(); err != nil {
				return errors.Wrap(err, "failed to commit outbox failure")
			}
			return errors.Wrap(publishErr, "failed to publish outbox events")
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE outbox_events
			SET published_at = NOW(), attempt_count = attempt_count + 1, last_error = NULL
			WHERE id = ANY($1)`, pq.Array(ids))
		if err != nil {
			return errors.Wrap(err, "failed to mark outbox events published")
		}

		dispatched = len(rows)
		return nil
	})

	return dispatched, err
}

// PurgePublished deletes events published before the cutoff.
func (o *PostgresOutbox) PurgePublished(ctx context.Context, before time.Time) (int64, error) {
	return database.RowsAffected(o.db.ExecContext(ctx,
		`DELETE FROM outbox_events WHERE published_at IS NOT NULL AND published_at < $1`, before))
}

func toOutboxRow(event *events.Event) (*outboxRow, error) {
	payload, err := event.MarshalPayload()
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal event payload")
	}

	metadata, err := json.Marshal(event.Metadata)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal event metadata")
	}

	return &outboxRow{
		ID:            event.ID.String(),
		AggregateID:   event.AggregateID.String(),
		Topic:         event.Topic.String(),
		Version:       event.Version,
		Payload:       payload,
		Metadata:      metadata,
		OccurredAt:    event.Timestamp,
		CorrelationID: event.CorrelationID.String(),
	}, nil
}

func (r *outboxRow) toEvent() (*events.Event, error) {
	topic, err := events.NewTopic(r.Topic)
	if err != nil {
		return nil, errors.Wrapf(err, "outbox event %s", r.ID)
	}

	metadata := events.Metadata{}
	if len(r.Metadata) > 0 {
		if err := json.Unmarshal(r.Metadata, &metadata); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal event metadata")
		}
	}
	if metadata == nil {
		metadata = events.Metadata{}
	}

	return &events.Event{
		ID:            models.ID(r.ID),
		AggregateID:   models.ID(r.AggregateID),
		Topic:         topic,
		Version:       r.Version,
		Data:          json.RawMessage(r.Payload),
		Metadata:      metadata,
		Timestamp:     r.OccurredAt,
		CorrelationID: models.ID(r.CorrelationID),
	}, nil
}
