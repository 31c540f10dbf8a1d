package handler

import (
	"net/http"
	"strconv"

	"github.com/mcoot/banker/internal/api/response"
	"github.com/mcoot/banker/internal/services/recorder"
)

// TransactionHandler serves the transaction log
type TransactionHandler struct {
	recorder *recorder.Service
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(recorder *recorder.Service) *TransactionHandler {
	return &TransactionHandler{recorder: recorder}
}

// List handles GET /api/v1/transactions?limit=N
// Without a limit every transaction is returned.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			WriteError(w, NewInvalidRequestError("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	txs, err := h.recorder.List(r.Context(), limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.TransactionsResponse{Transactions: txs})
}
