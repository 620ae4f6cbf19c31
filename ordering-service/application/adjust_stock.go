package application

import (
	"context"

	"github.com/draftea/order-system/ordering-service/domain"
	"github.com/draftea/order-system/shared/logger"
	"github.com/draftea/order-system/shared/models"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

// AdjustStockCommand adds units of a product to a warehouse
type AdjustStockCommand struct {
	WarehouseID string `json:"warehouse_id" validate:"required"`
	ProductID   string `json:"product_id" validate:"required"`
	Quantity    int    `json:"quantity" validate:"gt=0"`
}

// StockResponse is the public representation of a stock row
type StockResponse struct {
	WarehouseID string `json:"warehouse_id"`
	ProductID   string `json:"product_id"`
	Quantity    int    `json:"quantity"`
	Version     int    `json:"version"`
}

func toStockResponse(s domain.Stock) *StockResponse {
	return &StockResponse{
		WarehouseID: s.WarehouseID.String(),
		ProductID:   s.ProductID.String(),
		Quantity:    s.Quantity,
		Version:     s.Version,
	}
}

type AdjustStock struct {
	stock   domain.StockLedger
	catalog domain.Catalog
	log     *logger.Logger
}

func NewAdjustStock(stock domain.StockLedger, catalog domain.Catalog, log *logger.Logger) *AdjustStock {
	return &AdjustStock{stock: stock, catalog: catalog, log: log}
}

func (uc *AdjustStock) Execute(ctx context.Context, cmd *AdjustStockCommand) (resp *StockResponse, err error) {
	ctx, finish := startOperation(ctx, "adjust_stock",
		attribute.String("warehouse_id", cmd.WarehouseID),
		attribute.String("product_id", cmd.ProductID),
		attribute.Int("quantity", cmd.Quantity),
	)
	defer func() { finish(err) }()

	if cmd.Quantity <= 0 {
		return nil, domain.Validation("quantity must be greater than zero")
	}

	warehouse, err := uc.catalog.FindWarehouse(ctx, models.ID(cmd.WarehouseID))
	if err != nil {
		return nil, errors.Wrap(err, "failed to find warehouse")
	}
	product, err := uc.catalog.FindProduct(ctx, models.ID(cmd.ProductID))
	if err != nil {
		return nil, errors.Wrap(err, "failed to find product")
	}

	stock, err := uc.stock.Restock(ctx, warehouse.ID, product.ID, cmd.Quantity)
	if err != nil {
		return nil, errors.Wrap(err, "failed to restock")
	}

	uc.log.Info(uc.log.WithFields(ctx, map[string]any{
		"warehouse_id": warehouse.ID.String(),
		"product_id":   product.ID.String(),
		"quantity":     stock.Quantity,
	}), "stock adjusted")

	return toStockResponse(*stock), nil
}

// ListStockQuery lists the stock rows of a product
type ListStockQuery struct {
	ProductID string
}

type ListStock struct {
	stock   domain.StockLedger
	catalog domain.Catalog
}

func NewListStock(stock domain.StockLedger, catalog domain.Catalog) *ListStock {
	return &ListStock{stock: stock, catalog: catalog}
}

func (uc *ListStock) Execute(ctx context.Context, query *ListStockQuery) (resp []*StockResponse, err error) {
	ctx, finish := startOperation(ctx, "list_stock", attribute.String("product_id", query.ProductID))
	defer func() { finish(err) }()

	product, err := uc.catalog.FindProduct(ctx, models.ID(query.ProductID))
	if err != nil {
		return nil, errors.Wrap(err, "failed to find product")
	}

	rows, err := uc.stock.ListByProduct(ctx, product.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list stock")
	}

	resp = make([]*StockResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, toStockResponse(row))
	}
	return resp, nil
}
