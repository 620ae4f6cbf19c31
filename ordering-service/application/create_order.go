package application

import (
	"context"

	"github.com/draftea/order-system/ordering-service/domain"
	"github.com/draftea/order-system/shared/logger"
	"github.com/draftea/order-system/shared/models"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

// CreateOrderCommand represents the command to place an order
type CreateOrderCommand struct {
	UserID    string `json:"user_id" validate:"required"`
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
	Address   string `json:"address" validate:"required"`
}

// CreateOrder allocates stock, stores a PENDING order and requests payment.
type CreateOrder struct {
	orders  domain.OrderRepository
	stock   domain.StockLedger
	catalog domain.Catalog
	log     *logger.Logger
}

func NewCreateOrder(orders domain.OrderRepository, stock domain.StockLedger, catalog domain.Catalog, log *logger.Logger) *CreateOrder {
	return &CreateOrder{orders: orders, stock: stock, catalog: catalog, log: log}
}

func (uc *CreateOrder) Execute(ctx context.Context, cmd *CreateOrderCommand) (resp *OrderResponse, err error) {
	ctx, finish := startOperation(ctx, "create_order",
		attribute.String("user_id", cmd.UserID),
		attribute.String("product_id", cmd.ProductID),
		attribute.Int("quantity", cmd.Quantity),
	)
	defer func() { finish(err) }()

	if cmd.Quantity <= 0 {
		return nil, domain.Validation("quantity must be greater than zero")
	}
	if cmd.Address == "" {
		return nil, domain.Validation("address is required")
	}

	customer, err := uc.catalog.FindCustomer(ctx, models.ID(cmd.UserID))
	if err != nil {
		return nil, errors.Wrap(err, "failed to find customer")
	}

	product, err := uc.catalog.FindProduct(ctx, models.ID(cmd.ProductID))
	if err != nil {
		return nil, errors.Wrap(err, "failed to find product")
	}
	if !product.Active {
		return nil, domain.Validation("product is inactive")
	}

	stock, err := uc.stock.ListByProduct(ctx, product.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read stock")
	}

	plan, err := domain.Allocate(product.ID, cmd.Quantity, stock)
	if err != nil {
		return nil, err
	}

	order, err := domain.NewOrder(customer, product, cmd.Quantity, cmd.Address, plan)
	if err != nil {
		return nil, err
	}

	if err := uc.orders.Create(ctx, order, paymentRequested(order, customer)); err != nil {
		return nil, errors.Wrap(err, "failed to save order")
	}

	uc.log.Info(uc.log.WithFields(ctx, map[string]any{
		"order_id":    order.ID.String(),
		"total_price": order.TotalPrice.String(),
		"warehouses":  len(order.Allocations),
	}), "order created")

	return toOrderResponse(order), nil
}
