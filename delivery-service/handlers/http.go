package handlers

import (
	"net/http"

	"github.com/draftea/order-system/delivery-service/application"
	"github.com/draftea/order-system/delivery-service/domain"
	"github.com/draftea/order-system/shared/httpapi"
	"github.com/draftea/order-system/shared/logger"
	"github.com/draftea/order-system/shared/models"
	"github.com/go-chi/chi/v5"
)

type ShipmentHandlers struct {
	getShipment *application.GetShipment
	log         *logger.Logger
}

func NewShipmentHandlers(getShipment *application.GetShipment, log *logger.Logger) *ShipmentHandlers {
	return &ShipmentHandlers{getShipment: getShipment, log: log}
}

func (h *ShipmentHandlers) RegisterRoutes(r chi.Router) {
	r.Get("/api/shipments/{orderID}", h.GetShipment)
}

func (h *ShipmentHandlers) GetShipment(w http.ResponseWriter, r *http.Request) {
	orderID, err := models.NewID(chi.URLParam(r, "orderID"))
	if err != nil {
		httpapi.WriteError(w, r, h.log, domain.Validation("invalid order id"))
		return
	}

	response, err := h.getShipment.Execute(r.Context(), &application.GetShipmentQuery{OrderID: orderID})
	if err != nil {
		httpapi.WriteError(w, r, h.log, err)
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, response)
}
