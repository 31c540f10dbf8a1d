package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/banker/internal/api/request"
	"github.com/mcoot/banker/internal/api/response"
	"github.com/mcoot/banker/internal/model"
	"github.com/mcoot/banker/internal/services/players"
	"github.com/mcoot/banker/internal/services/session"
)

// PlayerHandler handles player-related endpoints
type PlayerHandler struct {
	players *players.Service
	session *session.Service
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(players *players.Service, session *session.Service) *PlayerHandler {
	return &PlayerHandler{
		players: players,
		session: session,
	}
}

// List handles GET /api/v1/players
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	snap, err := h.session.Snapshot(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.NewPlayersResponse(snap.Players, snap.Currency, snap.Profile))
}

// Create handles POST /api/v1/players
func (h *PlayerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreatePlayerRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	player, err := h.players.Create(r.Context(), req.Name, req.Avatar)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.writeView(w, r, http.StatusCreated, player)
}

// Get handles GET /api/v1/players/{id}
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	player, ok, err := h.players.Lookup(r.Context(), playerID(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	if !ok {
		WriteError(w, model.ErrPlayerNotFound)
		return
	}

	h.writeView(w, r, http.StatusOK, player)
}

// Delete handles DELETE /api/v1/players/{id}
func (h *PlayerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.players.Delete(r.Context(), playerID(r)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

func (h *PlayerHandler) writeView(w http.ResponseWriter, r *http.Request, status int, player *model.Player) {
	profile, err := h.session.ActiveProfile(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, status, response.PlayerViewFromModel(player, profile))
}

// playerID extracts the {id} path variable
func playerID(r *http.Request) model.PlayerID {
	return model.PlayerID(mux.Vars(r)["id"])
}
