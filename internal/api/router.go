package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/banker/internal/api/handler"
	"github.com/mcoot/banker/internal/api/middleware"
	"github.com/mcoot/banker/internal/api/response"
	"github.com/mcoot/banker/internal/events"
	sharedmw "github.com/mcoot/banker/internal/middleware"
	"github.com/mcoot/banker/internal/obs"
	"github.com/mcoot/banker/internal/services/players"
	"github.com/mcoot/banker/internal/services/recorder"
	"github.com/mcoot/banker/internal/services/rules"
	"github.com/mcoot/banker/internal/services/session"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger   *slog.Logger
	Session  *session.Service
	Players  *players.Service
	Recorder *recorder.Service
	Rules    *rules.Engine
	Hub      *events.Hub
	Metrics  *obs.Metrics
	// RateLimit applies to mutating routes; nil disables limiting
	RateLimit *middleware.RateLimitConfig
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.Use(sharedmw.RequestID)
	r.Use(cfg.Metrics.Instrument)

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.Players, cfg.Session)
	operationHandler := handler.NewOperationHandler(cfg.Rules)
	transactionHandler := handler.NewTransactionHandler(cfg.Recorder)
	sessionHandler := handler.NewSessionHandler(cfg.Session)
	eventsHandler := handler.NewEventsHandler(cfg.Hub)

	// Writes are rate limited per client; reads carry an ETag for pollers
	limited := func(h http.HandlerFunc) http.Handler { return h }
	if cfg.RateLimit != nil {
		limiter := middleware.NewRateLimiter(*cfg.RateLimit)
		limited = func(h http.HandlerFunc) http.Handler { return limiter.Middleware(h) }
	}
	tagged := func(h http.HandlerFunc) http.Handler { return middleware.ETag(h) }

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(sharedmw.Logging(cfg.Logger))

	// Players
	api.Handle("/players", tagged(playerHandler.List)).Methods(http.MethodGet)
	api.Handle("/players", limited(playerHandler.Create)).Methods(http.MethodPost)
	api.Handle("/players/{id}", tagged(playerHandler.Get)).Methods(http.MethodGet)
	api.Handle("/players/{id}", limited(playerHandler.Delete)).Methods(http.MethodDelete)
	api.Handle("/players/{id}/operations", limited(operationHandler.Apply)).Methods(http.MethodPost)

	// Transactions
	api.Handle("/transactions", tagged(transactionHandler.List)).Methods(http.MethodGet)

	// Session
	api.Handle("/currency", tagged(sessionHandler.GetCurrency)).Methods(http.MethodGet)
	api.Handle("/currency", limited(sessionHandler.SetCurrency)).Methods(http.MethodPut)
	api.Handle("/currencies", tagged(sessionHandler.ListCurrencies)).Methods(http.MethodGet)
	api.Handle("/reset", limited(sessionHandler.Reset)).Methods(http.MethodPost)

	// Live updates
	api.HandleFunc("/events", eventsHandler.Stream).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	r.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.HealthResponse{Status: "ok"})
}
