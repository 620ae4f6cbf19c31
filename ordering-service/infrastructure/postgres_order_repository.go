package infrastructure

import (
	"context"
	"database/sql"
	"time"

	"github.com/draftea/order-system/ordering-service/domain"
	"github.com/draftea/order-system/shared/database"
	"github.com/draftea/order-system/shared/events"
	"github.com/draftea/order-system/shared/models"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Outbox stores outbound events inside the caller's transaction.
type Outbox interface {
	Enqueue(ctx context.Context, tx sqlx.ExtContext, evts ...*events.Event) error
}

// PostgresOrderRepository implements OrderRepository using PostgreSQL
type PostgresOrderRepository struct {
	db     *sqlx.DB
	outbox Outbox
}

func NewPostgresOrderRepository(db *sqlx.DB, outbox Outbox) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db, outbox: outbox}
}

// postgresOrder represents an order row
type postgresOrder struct {
	ID            string          `db:"id"`
	UserID        string          `db:"user_id"`
	ProductID     string          `db:"product_id"`
	Quantity      int             `db:"quantity"`
	Address       string          `db:"address"`
	TotalPrice    decimal.Decimal `db:"total_price"`
	Status        string          `db:"status"`
	Version       int             `db:"version"`
	StockDeducted bool            `db:"stock_deducted"`
	Refund        bool            `db:"refund_requested"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

type postgresAllocation struct {
	OrderID     string `db:"order_id"`
	WarehouseID string `db:"warehouse_id"`
	ProductID   string `db:"product_id"`
	Quantity    int    `db:"quantity"`
}

const orderColumns = `id, user_id, product_id, quantity, address, total_price, status,
	version, stock_deducted, refund_requested, created_at, updated_at`

func (r *PostgresOrderRepository) Create(ctx context.Context, order *domain.Order, outbound ...*events.Event) error {
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO orders (`+orderColumns+`)
			VALUES (
				:id, :user_id, :product_id, :quantity, :address, :total_price, :status,
				:version, :stock_deducted, :refund_requested, :created_at, :updated_at
			)`, toPostgresOrder(order))
		if err != nil {
			if database.IsUniqueViolation(err) {
				return domain.ConcurrencyConflict("order %s already exists", order.ID)
			}
			return errors.Wrap(err, "failed to insert order")
		}

		for _, a := range order.Allocations {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO order_allocations (order_id, warehouse_id, product_id, quantity)
				VALUES ($1, $2, $3, $4)`,
				order.ID.String(), a.WarehouseID.String(), a.ProductID.String(), a.Quantity)
			if err != nil {
				return errors.Wrap(err, "failed to insert order allocation")
			}
		}

		return r.outbox.Enqueue(ctx, tx, outbound...)
	})
}

func (r *PostgresOrderRepository) FindByID(ctx context.Context, id models.ID) (*domain.Order, error) {
	var row postgresOrder
	err := r.db.GetContext(ctx, &row, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.OrderNotFound(id)
		}
		return nil, errors.Wrap(err, "failed to find order")
	}

	orders, err := r.withAllocations(ctx, []postgresOrder{row})
	if err != nil {
		return nil, err
	}
	return orders[0], nil
}

func (r *PostgresOrderRepository) ListByUser(ctx context.Context, userID models.ID) ([]*domain.Order, error) {
	var rows []postgresOrder
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+orderColumns+` FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders by user")
	}
	return r.withAllocations(ctx, rows)
}

func (r *PostgresOrderRepository) ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Order, error) {
	var rows []postgresOrder
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+orderColumns+` FROM orders
		WHERE status = $1
		ORDER BY created_at DESC`, status.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders by status")
	}
	return r.withAllocations(ctx, rows)
}

// CompareAndSwapStatus moves the order to next only while it is in expected.
func (r *PostgresOrderRepository) CompareAndSwapStatus(ctx context.Context, id models.ID, expected, next domain.Status) (int64, error) {
	rows, err := compareAndSwapStatus(ctx, r.db, id, expected, next)
	if err != nil {
		return 0, errors.Wrap(err, "failed to update order status")
	}
	return rows, nil
}

func (r *PostgresOrderRepository) Transition(ctx context.Context, t domain.Transition) (int64, error) {
	var rows int64
	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var err error
		rows, err = database.RowsAffected(tx.ExecContext(ctx, `
			UPDATE orders
			SET status = $3, version = version + 1, updated_at = NOW(),
				refund_requested = refund_requested OR $4
			WHERE id = $1 AND status = $2 AND NOT (refund_requested AND $4)`,
			t.OrderID.String(), t.From.String(), t.To.String(), t.RequestRefund))
		if err != nil {
			return errors.Wrap(err, "failed to update order status")
		}
		if rows == 0 {
			return nil
		}

		if t.ReleaseStock {
			if _, err := releaseStock(ctx, tx, t.OrderID); err != nil {
				return err
			}
		}

		return r.outbox.Enqueue(ctx, tx, t.Outbound...)
	})
	if err != nil {
		return 0, err
	}
	return rows, nil
}

func compareAndSwapStatus(ctx context.Context, db sqlx.ExecerContext, id models.ID, expected, next domain.Status) (int64, error) {
	return database.RowsAffected(db.ExecContext(ctx, `
		UPDATE orders
		SET status = $3, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND status = $2`,
		id.String(), expected.String(), next.String()))
}

// withAllocations loads the allocations of every row in one query.
func (r *PostgresOrderRepository) withAllocations(ctx context.Context, rows []postgresOrder) ([]*domain.Order, error) {
	if len(rows) == 0 {
		return []*domain.Order{}, nil
	}

	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	var allocations []postgresAllocation
	err := r.db.SelectContext(ctx, &allocations, `
		SELECT order_id, warehouse_id, product_id, quantity
		FROM order_allocations
		WHERE order_id = ANY($1)
		ORDER BY order_id, quantity DESC, warehouse_id`, pq.Array(ids))
	if err != nil {
		return nil, errors.Wrap(err, "failed to load order allocations")
	}

	byOrder := make(map[string][]domain.WarehouseAllocation, len(rows))
	for _, a := range allocations {
		byOrder[a.OrderID] = append(byOrder[a.OrderID], domain.WarehouseAllocation{
			WarehouseID: models.ID(a.WarehouseID),
			ProductID:   models.ID(a.ProductID),
			Quantity:    a.Quantity,
		})
	}

	orders := make([]*domain.Order, len(rows))
	for i := range rows {
		orders[i] = rows[i].toDomain(byOrder[rows[i].ID])
	}
	return orders, nil
}

func toPostgresOrder(order *domain.Order) *postgresOrder {
	return &postgresOrder{
		ID:            order.ID.String(),
		UserID:        order.UserID.String(),
		ProductID:     order.ProductID.String(),
		Quantity:      order.Quantity,
		Address:       order.Address,
		TotalPrice:    order.TotalPrice,
		Status:        order.Status.String(),
		Version:       order.Version.Value,
		StockDeducted: order.StockDeducted,
		Refund:        order.RefundRequested,
		CreatedAt:     order.Timestamps.CreatedAt,
		UpdatedAt:     order.Timestamps.UpdatedAt,
	}
}

func (p *postgresOrder) toDomain(allocations []domain.WarehouseAllocation) *domain.Order {
	if allocations == nil {
		allocations = []domain.WarehouseAllocation{}
	}
	return &domain.Order{
		ID:              models.ID(p.ID),
		UserID:          models.ID(p.UserID),
		ProductID:       models.ID(p.ProductID),
		Quantity:        p.Quantity,
		Address:         p.Address,
		TotalPrice:      p.TotalPrice,
		Status:          domain.Status(p.Status),
		Version:         models.Version{Value: p.Version},
		StockDeducted:   p.StockDeducted,
		RefundRequested: p.Refund,
		Allocations:     allocations,
		Timestamps: models.Timestamps{
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		},
	}
}
