package handlers

import (
	"net/http"

	"github.com/draftea/order-system/ordering-service/application"
	"github.com/draftea/order-system/shared/httpapi"
	"github.com/draftea/order-system/shared/logger"
	"github.com/go-chi/chi/v5"
)

// OrderHandlers contains the ordering HTTP handlers
type OrderHandlers struct {
	createOrder *application.CreateOrder
	getOrder    *application.GetOrder
	listOrders  *application.ListOrders
	cancelOrder *application.CancelOrder
	adjustStock *application.AdjustStock
	listStock   *application.ListStock
	log         *logger.Logger
}

func NewOrderHandlers(
	createOrder *application.CreateOrder,
	getOrder *application.GetOrder,
	listOrders *application.ListOrders,
	cancelOrder *application.CancelOrder,
	adjustStock *application.AdjustStock,
	listStock *application.ListStock,
	log *logger.Logger,
) *OrderHandlers {
	return &OrderHandlers{
		createOrder: createOrder,
		getOrder:    getOrder,
		listOrders:  listOrders,
		cancelOrder: cancelOrder,
		adjustStock: adjustStock,
		listStock:   listStock,
		log:         log,
	}
}

func (h *OrderHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/orders", h.CreateOrder)
		r.Get("/orders", h.ListOrders)
		r.Get("/orders/{id}", h.GetOrder)
		r.Put("/orders/{id}/cancel", h.CancelOrder)
		r.Get("/users/{userID}/orders", h.ListUserOrders)

		r.Post("/admin/stocks", h.AdjustStock)
		r.Get("/products/{id}/stocks", h.ListStock)
	})
}

func (h *OrderHandlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var cmd application.CreateOrderCommand
	if err := httpapi.DecodeJSONBody(r, &cmd); err != nil {
		httpapi.WriteError(w, r, h.log, err)
		return
	}
	if err := httpapi.Validate(&cmd); err != nil {
		httpapi.WriteError(w, r, h.log, err)
		return
	}

	response, err := h.createOrder.Execute(r.Context(), &cmd)
	if err != nil {
		httpapi.WriteError(w, r, h.log, err)
		return
	}

	httpapi.WriteJSON(w, http.StatusCreated, response)
}

func (h *OrderHandlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	response, err := h.getOrder.Execute(r.Context(), &application.GetOrderQuery{
		OrderID: chi.URLParam(r, "id"),
	})
	if err != nil {
		httpapi.WriteError(w, r, h.log, err)
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, response)
}

// ListOrders serves ?user_id= and ?status= filters.
func (h *OrderHandlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	h.list(w, r, &application.ListOrdersQuery{
		UserID: query.Get("user_id"),
		Status: query.Get("status"),
	})
}

func (h *OrderHandlers) ListUserOrders(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, &application.ListOrdersQuery{UserID: chi.URLParam(r, "userID")})
}

func (h *OrderHandlers) list(w http.ResponseWriter, r *http.Request, query *application.ListOrdersQuery) {
	response, err := h.listOrders.Execute(r.Context(), query)
	if err != nil {
		httpapi.WriteError(w, r, h.log, err)
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, response)
}

func (h *OrderHandlers) CancelOrder(w http.ResponseWriter, r *http.Request) {
	response, err := h.cancelOrder.Execute(r.Context(), &application.CancelOrderCommand{
		OrderID: chi.URLParam(r, "id"),
	})
	if err != nil {
		httpapi.WriteError(w, r, h.log, err)
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, response)
}

func (h *OrderHandlers) AdjustStock(w http.ResponseWriter, r *http.Request) {
	var cmd application.AdjustStockCommand
	if err := httpapi.DecodeJSONBody(r, &cmd); err != nil {
		httpapi.WriteError(w, r, h.log, err)
		return
	}
	if err := httpapi.Validate(&cmd); err != nil {
		httpapi.WriteError(w, r, h.log, err)
		return
	}

	response, err := h.adjustStock.Execute(r.Context(), &cmd)
	if err != nil {
		httpapi.WriteError(w, r, h.log, err)
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, response)
}

func (h *OrderHandlers) ListStock(w http.ResponseWriter, r *http.Request) {
	response, err := h.listStock.Execute(r.Context(), &application.ListStockQuery{
		ProductID: chi.URLParam(r, "id"),
	})
	if err != nil {
		httpapi.WriteError(w, r, h.log, err)
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, response)
}
