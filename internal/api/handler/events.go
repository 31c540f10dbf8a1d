package handler

import (
	"net/http"

	"github.com/mcoot/banker/internal/events"
	"github.com/mcoot/banker/internal/model"
)

// EventsHandler streams ledger events over SSE
type EventsHandler struct {
	hub *events.Hub
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(hub *events.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

// Stream handles GET /api/v1/events?player=ID
// With a player filter only that player's events and session-wide events are sent.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	events.ServeSSE(w, r, h.hub, model.PlayerID(r.URL.Query().Get("player")))
}
