package handler

import (
	"net/http"

	"github.com/mcoot/banker/internal/api/request"
	"github.com/mcoot/banker/internal/api/response"
	"github.com/mcoot/banker/internal/services/rules"
)

// OperationHandler applies game rules
type OperationHandler struct {
	engine *rules.Engine
}

// NewOperationHandler creates a new operation handler
func NewOperationHandler(engine *rules.Engine) *OperationHandler {
	return &OperationHandler{
		engine: engine,
	}
}

// Apply handles POST /api/v1/players/{id}/operations
func (h *OperationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req request.OperationRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	op, err := req.ToOperation()
	if err != nil {
		WriteError(w, err)
		return
	}

	result, err := h.engine.Apply(r.Context(), playerID(r), op)
	if err != nil {
		WriteError(w, err)
		return
	}

	// the view is measured against the profile the operation was priced in
	response.JSON(w, http.StatusOK, response.OperationResponse{
		Player:      response.PlayerViewFromModel(result.Player, result.Profile),
		Transaction: result.Transaction,
	})
}
