package handlers

import (
	"net/http"
	"strconv"

	"github.com/draftea/order-system/payment-service/application"
	"github.com/draftea/order-system/payment-service/domain"
	"github.com/draftea/order-system/shared/httpapi"
	"github.com/draftea/order-system/shared/logger"
	"github.com/go-chi/chi/v5"
)

// AccountHandlers contains the bank HTTP handlers
type AccountHandlers struct {
	createAccount    *application.CreateAccount
	getAccount       *application.GetAccount
	listTransactions *application.ListTransactions
	log              *logger.Logger
}

func NewAccountHandlers(
	createAccount *application.CreateAccount,
	getAccount *application.GetAccount,
	listTransactions *application.ListTransactions,
	log *logger.Logger,
) *AccountHandlers {
	return &AccountHandlers{
		createAccount:    createAccount,
		getAccount:       getAccount,
		listTransactions: listTransactions,
		log:              log,
	}
}

func (h *AccountHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/api/accounts", func(r chi.Router) {
		r.Post("/", h.CreateAccount)
		r.Get("/{number}", h.GetAccount)
		r.Get("/{number}/transactions", h.ListTransactions)
	})
}

func (h *AccountHandlers) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var cmd application.CreateAccountCommand
	if err := httpapi.DecodeJSONBody(r, &cmd); err != nil {
		httpapi.WriteError(w, r, h.log, err)
		return
	}

	response, err := h.createAccount.Execute(r.Context(), &cmd)
	if err != nil {
		httpapi.WriteError(w, r, h.log, err)
		return
	}

	httpapi.WriteJSON(w, http.StatusCreated, response)
}

func (h *AccountHandlers) GetAccount(w http.ResponseWriter, r *http.Request) {
	response, err := h.getAccount.Execute(r.Context(), &application.GetAccountQuery{
		AccountNumber: chi.URLParam(r, "number"),
	})
	if err != nil {
		httpapi.WriteError(w, r, h.log, err)
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, response)
}

// ListTransactions serves ?limit= and ?offset= paging.
func (h *AccountHandlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		httpapi.WriteError(w, r, h.log, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		httpapi.WriteError(w, r, h.log, err)
		return
	}

	response, err := h.listTransactions.Execute(r.Context(), &application.ListTransactionsQuery{
		AccountNumber: chi.URLParam(r, "number"),
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		httpapi.WriteError(w, r, h.log, err)
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, response)
}

func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.Validation("%s must be an integer", key)
	}
	return value, nil
}
