package infrastructure

import (
	"context"
	"database/sql"

	"github.com/draftea/order-system/ordering-service/domain"
	"github.com/draftea/order-system/shared/models"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// PostgresCatalog reads the reference data seeded by migrations
type PostgresCatalog struct {
	db *sqlx.DB
}

func NewPostgresCatalog(db *sqlx.DB) *PostgresCatalog {
	return &PostgresCatalog{db: db}
}

type postgresProduct struct {
	ID     string          `db:"id"`
	Name   string          `db:"name"`
	Price  decimal.Decimal `db:"price"`
	Active bool            `db:"active"`
}

type postgresCustomer struct {
	ID             string `db:"id"`
	Name           string `db:"name"`
	Email          string `db:"email"`
	BankAccount    string `db:"bank_account"`
	DefaultAddress string `db:"default_address"`
}

type postgresWarehouse struct {
	ID      string `db:"id"`
	Name    string `db:"name"`
	Address string `db:"address"`
}

func (c *PostgresCatalog) FindProduct(ctx context.Context, id models.ID) (*domain.Product, error) {
	var row postgresProduct
	err := c.db.GetContext(ctx, &row, `SELECT id, name, price, active FROM products WHERE id = $1`, id.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ProductNotFound(id)
		}
		return nil, errors.Wrap(err, "failed to find product")
	}

	return &domain.Product{
		ID:     models.ID(row.ID),
		Name:   row.Name,
		Price:  row.Price,
		Active: row.Active,
	}, nil
}

func (c *PostgresCatalog) FindCustomer(ctx context.Context, id models.ID) (*domain.Customer, error) {
	var row postgresCustomer
	err := c.db.GetContext(ctx, &row, `
		SELECT id, name, email, bank_account, default_address
		FROM customers WHERE id = $1`, id.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.CustomerNotFound(id)
		}
		return nil, errors.Wrap(err, "failed to find customer")
	}

	return &domain.Customer{
		ID:             models.ID(row.ID),
		Name:           row.Name,
		Email:          row.Email,
		BankAccount:    row.BankAccount,
		DefaultAddress: row.DefaultAddress,
	}, nil
}

func (c *PostgresCatalog) FindWarehouse(ctx context.Context, id models.ID) (*domain.Warehouse, error) {
	var row postgresWarehouse
	err := c.db.GetContext(ctx, &row, `SELECT id, name, address FROM warehouses WHERE id = $1`, id.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WarehouseNotFound(id)
		}
		return nil, errors.Wrap(err, "failed to find warehouse")
	}

	return &domain.Warehouse{ID: models.ID(row.ID), Name: row.Name, Address: row.Address}, nil
}
