package handler

import (
	"net/http"

	"github.com/mcoot/banker/internal/api/apierr"
	"github.com/mcoot/banker/internal/api/request"
	"github.com/mcoot/banker/internal/api/response"
	"github.com/mcoot/banker/internal/model"
	"github.com/mcoot/banker/internal/services/session"
)

// SessionHandler handles the session-wide currency and reset endpoints
type SessionHandler struct {
	session *session.Service
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(session *session.Service) *SessionHandler {
	return &SessionHandler{session: session}
}

// GetCurrency handles GET /api/v1/currency
func (h *SessionHandler) GetCurrency(w http.ResponseWriter, r *http.Request) {
	h.writeCurrency(w, r)
}

// SetCurrency handles PUT /api/v1/currency
func (h *SessionHandler) SetCurrency(w http.ResponseWriter, r *http.Request) {
	var req request.SetCurrencyRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	if err := h.session.SetActiveCurrency(r.Context(), model.CurrencyCode(req.Currency)); err != nil {
		WriteError(w, err)
		return
	}

	h.writeCurrency(w, r)
}

func (h *SessionHandler) writeCurrency(w http.ResponseWriter, r *http.Request) {
	code, err := h.session.ActiveCurrency(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	profile, err := model.GetProfile(code)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.CurrencyResponse{Currency: code, Profile: profile})
}

// ListCurrencies handles GET /api/v1/currencies
func (h *SessionHandler) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	active, err := h.session.ActiveCurrency(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	codes := model.ValidCurrencies()
	profiles := make([]model.CurrencyProfile, 0, len(codes))
	for _, code := range codes {
		profile, err := model.GetProfile(code)
		if err != nil {
			WriteError(w, err)
			return
		}
		profiles = append(profiles, profile)
	}

	response.JSON(w, http.StatusOK, response.CurrenciesResponse{Active: active, Currencies: profiles})
}

// Reset handles POST /api/v1/reset
// The body must carry {"confirm": true}.
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req request.ResetRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if !req.Confirm {
		WriteError(w, apierr.NewConfirmationRequiredError())
		return
	}

	if err := h.session.Reset(r.Context()); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
