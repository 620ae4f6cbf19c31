package infrastructure

import (
	"context"
	"database/sql"

	"github.com/draftea/order-system/ordering-service/domain"
	"github.com/draftea/order-system/shared/apperrors"
	"github.com/draftea/order-system/shared/database"
	"github.com/draftea/order-system/shared/models"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

const maxRestockAttempts = 3

// PostgresStockLedger implements StockLedger. Stock rows are only written
// with a compare-and-swap on version; the order's stock_deducted flag makes
// deduct and release happen at most once per order.
type PostgresStockLedger struct {
	db *sqlx.DB
}

func NewPostgresStockLedger(db *sqlx.DB) *PostgresStockLedger {
	return &PostgresStockLedger{db: db}
}

type postgresStock struct {
	WarehouseID string `db:"warehouse_id"`
	ProductID   string `db:"product_id"`
	Quantity    int    `db:"quantity"`
	Version     int    `db:"version"`
}

func (p postgresStock) toDomain() domain.Stock {
	return domain.Stock{
		WarehouseID: models.ID(p.WarehouseID),
		ProductID:   models.ID(p.ProductID),
		Quantity:    p.Quantity,
		Version:     p.Version,
	}
}

func (l *PostgresStockLedger) ListByProduct(ctx context.Context, productID models.ID) ([]domain.Stock, error) {
	var rows []postgresStock
	err := l.db.SelectContext(ctx, &rows, `
		SELECT warehouse_id, product_id, quantity, version
		FROM stocks
		WHERE product_id = $1
		ORDER BY warehouse_id`, productID.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to list stock")
	}

	stock := make([]domain.Stock, len(rows))
	for i, row := range rows {
		stock[i] = row.toDomain()
	}
	return stock, nil
}

// Deduct applies the order's allocations against the live ledger. The flag
// flip locks the order row, so a concurrent cancellation waits for this
// transaction and then sees the deduction it has to undo.
func (l *PostgresStockLedger) Deduct(ctx context.Context, order *domain.Order) (bool, error) {
	var deducted bool
	err := database.WithTx(ctx, l.db, func(tx *sqlx.Tx) error {
		rows, err := database.RowsAffected(tx.ExecContext(ctx, `
			UPDATE orders
			SET stock_deducted = TRUE, updated_at = NOW()
			WHERE id = $1 AND status = $2 AND stock_deducted = FALSE`,
			order.ID.String(), domain.StatusPaymentSuccess.String()))
		if err != nil {
			return errors.Wrap(err, "failed to mark stock deducted")
		}
		if rows == 0 {
			return l.explainSkippedDeduct(ctx, tx, order.ID)
		}

		for _, a := range order.Allocations {
			if err := deductAllocation(ctx, tx, a); err != nil {
				return err
			}
		}
		deducted = true
		return nil
	})
	if err != nil {
		if errors.Is(err, errAlreadyDeducted) {
			return false, nil
		}
		return false, err
	}
	return deducted, nil
}

var errAlreadyDeducted = errors.New("stock already deducted")

func (l *PostgresStockLedger) explainSkippedDeduct(ctx context.Context, tx *sqlx.Tx, id models.ID) error {
	var current struct {
		Status        string `db:"status"`
		StockDeducted bool   `db:"stock_deducted"`
	}
	err := tx.GetContext(ctx, &current, `SELECT status, stock_deducted FROM orders WHERE id = $1`, id.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.OrderNotFound(id)
		}
		return errors.Wrap(err, "failed to read order")
	}
	if current.StockDeducted {
		return errAlreadyDeducted
	}
	return domain.ConcurrencyConflict("order %s is %s, stock can only be deducted in %s",
		id, current.Status, domain.StatusPaymentSuccess)
}

func deductAllocation(ctx context.Context, tx *sqlx.Tx, a domain.WarehouseAllocation) error {
	var row postgresStock
	err := tx.GetContext(ctx, &row, `
		SELECT warehouse_id, product_id, quantity, version
		FROM stocks
		WHERE warehouse_id = $1 AND product_id = $2`,
		a.WarehouseID.String(), a.ProductID.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.InsufficientStock(a.ProductID, a.Quantity, 0)
		}
		return errors.Wrap(err, "failed to read stock")
	}
	if row.Quantity < a.Quantity {
		return domain.InsufficientStock(a.ProductID, a.Quantity, row.Quantity)
	}

	rows, err := database.RowsAffected(tx.ExecContext(ctx, `
		UPDATE stocks
		SET quantity = quantity - $3, version = version + 1, updated_at = NOW()
		WHERE warehouse_id = $1 AND product_id = $2 AND version = $4`,
		a.WarehouseID.String(), a.ProductID.String(), a.Quantity, row.Version))
	if err != nil {
		return errors.Wrap(err, "failed to deduct stock")
	}
	if rows == 0 {
		return domain.ConcurrencyConflict("stock of product %s in warehouse %s changed concurrently", a.ProductID, a.WarehouseID)
	}
	return nil
}

func (l *PostgresStockLedger) Release(ctx context.Context, order *domain.Order) (bool, error) {
	var released bool
	err := database.WithTx(ctx, l.db, func(tx *sqlx.Tx) error {
		var err error
		released, err = releaseStock(ctx, tx, order.ID)
		return err
	})
	return released, err
}

// releaseStock restores the order's allocations if they are currently
// deducted. It is shared with the cancelling transition so both run in the
// caller's transaction.
func releaseStock(ctx context.Context, tx *sqlx.Tx, orderID models.ID) (bool, error) {
	rows, err := database.RowsAffected(tx.ExecContext(ctx, `
		UPDATE orders
		SET stock_deducted = FALSE, updated_at = NOW()
		WHERE id = $1 AND stock_deducted = TRUE`, orderID.String()))
	if err != nil {
		return false, errors.Wrap(err, "failed to clear stock deducted flag")
	}
	if rows == 0 {
		return false, nil
	}

	var allocations []postgresAllocation
	err = tx.SelectContext(ctx, &allocations, `
		SELECT order_id, warehouse_id, product_id, quantity
		FROM order_allocations
		WHERE order_id = $1`, orderID.String())
	if err != nil {
		return false, errors.Wrap(err, "failed to load order allocations")
	}

	for _, a := range allocations {
		if _, err := incrementStock(ctx, tx, models.ID(a.WarehouseID), models.ID(a.ProductID), a.Quantity); err != nil {
			return false, err
		}
	}
	return true, nil
}

// incrementStock adds quantity under a row lock, creating the row when it
// does not exist yet.
func incrementStock(ctx context.Context, tx *sqlx.Tx, warehouseID, productID models.ID, quantity int) (*postgresStock, error) {
	var row postgresStock
	err := tx.GetContext(ctx, &row, `
		SELECT warehouse_id, product_id, quantity, version
		FROM stocks
		WHERE warehouse_id = $1 AND product_id = $2
		FOR UPDATE`, warehouseID.String(), productID.String())
	if errors.Is(err, sql.ErrNoRows) {
		row = postgresStock{WarehouseID: warehouseID.String(), ProductID: productID.String(), Quantity: quantity, Version: 1}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO stocks (warehouse_id, product_id, quantity, version)
			VALUES ($1, $2, $3, 1)`, row.WarehouseID, row.ProductID, quantity)
		if err != nil {
			if database.IsUniqueViolation(err) {
				return nil, domain.ConcurrencyConflict("stock of product %s in warehouse %s was created concurrently", productID, warehouseID)
			}
			return nil, errors.Wrap(err, "failed to create stock")
		}
		return &row, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read stock")
	}

	rows, err := database.RowsAffected(tx.ExecContext(ctx, `
		UPDATE stocks
		SET quantity = quantity + $3, version = version + 1, updated_at = NOW()
		WHERE warehouse_id = $1 AND product_id = $2 AND version = $4`,
		warehouseID.String(), productID.String(), quantity, row.Version))
	if err != nil {
		return nil, errors.Wrap(err, "failed to restock")
	}
	if rows == 0 {
		return nil, domain.ConcurrencyConflict("stock of product %s in warehouse %s changed concurrently", productID, warehouseID)
	}

	row.Quantity += quantity
	row.Version++
	return &row, nil
}

// Restock adds quantity for an admin adjustment, retrying lost races a few
// times before giving up.
func (l *PostgresStockLedger) Restock(ctx context.Context, warehouseID, productID models.ID, quantity int) (*domain.Stock, error) {
	if quantity <= 0 {
		return nil, domain.Validation("quantity must be greater than zero")
	}

	var lastErr error
	for attempt := 0; attempt < maxRestockAttempts; attempt++ {
		var row *postgresStock
		lastErr = database.WithTx(ctx, l.db, func(tx *sqlx.Tx) error {
			if err := ensureCatalogEntries(ctx, tx, warehouseID, productID); err != nil {
				return err
			}
			var err error
			row, err = incrementStock(ctx, tx, warehouseID, productID, quantity)
			return err
		})
		if lastErr == nil {
			stock := row.toDomain()
			return &stock, nil
		}
		if !apperrors.IsCode(lastErr, apperrors.CodeConcurrencyConflict) {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

func ensureCatalogEntries(ctx context.Context, tx *sqlx.Tx, warehouseID, productID models.ID) error {
	var exists bool
	if err := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM warehouses WHERE id = $1)`, warehouseID.String()); err != nil {
		return errors.Wrap(err, "failed to look up warehouse")
	}
	if !exists {
		return domain.WarehouseNotFound(warehouseID)
	}
	if err := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID.String()); err != nil {
		return errors.Wrap(err, "failed to look up product")
	}
	if !exists {
		return domain.ProductNotFound(productID)
	}
	return nil
}
