package infrastructure

import (
	"context"
	"database/sql"
	"time"

	"github.com/draftea/order-system/delivery-service/domain"
	"github.com/draftea/order-system/shared/database"
	"github.com/draftea/order-system/shared/events"
	"github.com/draftea/order-system/shared/models"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

// Outbox stores outbound events inside the caller's transaction.
type Outbox interface {
	Enqueue(ctx context.Context, tx sqlx.ExtContext, evts ...*events.Event) error
}

// PostgresShipmentRepository implements ShipmentRepository and
// Cancellations using PostgreSQL
type PostgresShipmentRepository struct {
	db     *sqlx.DB
	outbox Outbox
}

func NewPostgresShipmentRepository(db *sqlx.DB, outbox Outbox) *PostgresShipmentRepository {
	return &PostgresShipmentRepository{db: db, outbox: outbox}
}

type postgresShipment struct {
	ID         string     `db:"id"`
	OrderID    string     `db:"order_id"`
	Address    string     `db:"address"`
	Status     string     `db:"status"`
	NextStepAt *time.Time `db:"next_step_at"`
	Version    int        `db:"version"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}

type postgresParcel struct {
	ShipmentID  string `db:"shipment_id"`
	WarehouseID string `db:"warehouse_id"`
	Quantity    int    `db:"quantity"`
}

const shipmentColumns = `id, order_id, address, status, next_step_at, version, created_at, updated_at`

var activeStatuses = pq.Array([]string{
	domain.ShipmentRequested.String(),
	domain.ShipmentPickedUp.String(),
	domain.ShipmentInTransit.String(),
})

func (r *PostgresShipmentRepository) Create(ctx context.Context, s *domain.Shipment) (bool, error) {
	var created bool

	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		cancelled, err := isCancelled(ctx, tx, s.OrderID)
		if err != nil {
			return err
		}
		if cancelled {
			s.Cancel(s.Timestamps.CreatedAt)
		}

		rows, err := database.RowsAffected(tx.NamedExecContext(ctx, `
			INSERT INTO shipments (`+shipmentColumns+`)
			VALUES (:id, :order_id, :address, :status, :next_step_at, :version, :created_at, :updated_at)
			ON CONFLICT (order_id) DO NOTHING`, toPostgresShipment(s)))
		if err != nil {
			return errors.Wrap(err, "failed to insert shipment")
		}
		if rows == 0 {
			return nil
		}

		for warehouseID, qty := range s.Allocations {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO shipment_parcels (shipment_id, warehouse_id, quantity)
				VALUES ($1, $2, $3)`, s.ID.String(), warehouseID.String(), qty)
			if err != nil {
				return errors.Wrap(err, "failed to insert shipment parcel")
			}
		}
		created = true
		return nil
	})
	return created, err
}

func (r *PostgresShipmentRepository) FindByOrder(ctx context.Context, orderID models.ID) (*domain.Shipment, error) {
	var row postgresShipment
	err := r.db.GetContext(ctx, &row, `SELECT `+shipmentColumns+` FROM shipments WHERE order_id = $1`, orderID.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ShipmentNotFound(orderID)
		}
		return nil, errors.Wrap(err, "failed to find shipment")
	}

	shipments, err := r.withParcels(ctx, []postgresShipment{row})
	if err != nil {
		return nil, err
	}
	return shipments[0], nil
}

func (r *PostgresShipmentRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]*domain.Shipment, error) {
	var rows []postgresShipment
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+shipmentColumns+` FROM shipments
		WHERE status = ANY($1) AND next_step_at <= $2
		ORDER BY next_step_at, id
		LIMIT $3`, activeStatuses, now, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list due shipments")
	}
	return r.withParcels(ctx, rows)
}

// Save expects s to have been advanced exactly once since it was loaded.
func (r *PostgresShipmentRepository) Save(ctx context.Context, s *domain.Shipment, outbound ...*events.Event) (bool, error) {
	var saved bool

	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		rows, err := database.RowsAffected(tx.ExecContext(ctx, `
			UPDATE shipments
			SET status = $3, next_step_at = $4, version = $5, updated_at = $6
			WHERE id = $1 AND version = $2`,
			s.ID.String(), s.Version.Value-1, s.Status.String(), s.NextStepAt, s.Version.Value, s.Timestamps.UpdatedAt))
		if err != nil {
			return errors.Wrap(err, "failed to update shipment")
		}
		if rows == 0 {
			return nil
		}

		saved = true
		return r.outbox.Enqueue(ctx, tx, outbound...)
	})
	return saved, err
}

func (r *PostgresShipmentRepository) Cancel(ctx context.Context, orderID models.ID) (bool, error) {
	var stopped bool

	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO delivery_cancellations (order_id) VALUES ($1)
			ON CONFLICT (order_id) DO NOTHING`, orderID.String())
		if err != nil {
			return errors.Wrap(err, "failed to record cancellation")
		}

		rows, err := database.RowsAffected(tx.ExecContext(ctx, `
			UPDATE shipments
			SET status = $2, next_step_at = NULL, version = version + 1, updated_at = NOW()
			WHERE order_id = $1 AND status = ANY($3)`,
			orderID.String(), domain.ShipmentCancelled.String(), activeStatuses))
		if err != nil {
			return errors.Wrap(err, "failed to stop shipment")
		}
		stopped = rows > 0
		return nil
	})
	return stopped, err
}

func (r *PostgresShipmentRepository) IsCancelled(ctx context.Context, orderID models.ID) (bool, error) {
	return isCancelled(ctx, r.db, orderID)
}

func isCancelled(ctx context.Context, db sqlx.QueryerContext, orderID models.ID) (bool, error) {
	var cancelled bool
	err := sqlx.GetContext(ctx, db, &cancelled,
		`SELECT EXISTS (SELECT 1 FROM delivery_cancellations WHERE order_id = $1)`, orderID.String())
	if err != nil {
		return false, errors.Wrap(err, "failed to check cancellation")
	}
	return cancelled, nil
}

// withParcels loads the parcels of every row in one query.
func (r *PostgresShipmentRepository) withParcels(ctx context.Context, rows []postgresShipment) ([]*domain.Shipment, error) {
	if len(rows) == 0 {
		return []*domain.Shipment{}, nil
	}

	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	var parcels []postgresParcel
	err := r.db.SelectContext(ctx, &parcels, `
		SELECT shipment_id, warehouse_id, quantity
		FROM shipment_parcels
		WHERE shipment_id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, errors.Wrap(err, "failed to load shipment parcels")
	}

	byShipment := make(map[string]map[models.ID]int, len(rows))
	for _, p := range parcels {
		if byShipment[p.ShipmentID] == nil {
			byShipment[p.ShipmentID] = make(map[models.ID]int)
		}
		byShipment[p.ShipmentID][models.ID(p.WarehouseID)] = p.Quantity
	}

	shipments := make([]*domain.Shipment, len(rows))
	for i := range rows {
		shipments[i] = rows[i].toDomain(byShipment[rows[i].ID])
	}
	return shipments, nil
}

func toPostgresShipment(s *domain.Shipment) *postgresShipment {
	return &postgresShipment{
		ID:         s.ID.String(),
		OrderID:    s.OrderID.String(),
		Address:    s.Address,
		Status:     s.Status.String(),
		NextStepAt: s.NextStepAt,
		Version:    s.Version.Value,
		CreatedAt:  s.Timestamps.CreatedAt,
		UpdatedAt:  s.Timestamps.UpdatedAt,
	}
}

func (p *postgresShipment) toDomain(parcels map[models.ID]int) *domain.Shipment {
	if parcels == nil {
		parcels = map[models.ID]int{}
	}
	return &domain.Shipment{
		ID:          models.ID(p.ID),
		OrderID:     models.ID(p.OrderID),
		Address:     p.Address,
		Allocations: parcels,
		Status:      domain.ShipmentStatus(p.Status),
		NextStepAt:  p.NextStepAt,
		Timestamps: models.Timestamps{
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		},
		Version: models.Version{Value: p.Version},
	}
}
