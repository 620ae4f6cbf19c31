package domain

import (
	"github.com/draftea/order-system/shared/models"
	"github.com/shopspring/decimal"
)

// Product is read-only reference data for the ordering flow.
type Product struct {
	ID     models.ID       `json:"id"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Active bool            `json:"active"`
}

type Customer struct {
	ID             models.ID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	BankAccount    string    `json:"bank_account"`
	DefaultAddress string    `json:"default_address"`
}

type Warehouse struct {
	ID      models.ID `json:"id"`
	Name    string    `json:"name"`
	Address string    `json:"address"`
}
