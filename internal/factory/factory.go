package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/banker/internal/dependencies/clock"
	"github.com/mcoot/banker/internal/dependencies/ids"
	"github.com/mcoot/banker/internal/events"
	"github.com/mcoot/banker/internal/model"
	"github.com/mcoot/banker/internal/obs"
	"github.com/mcoot/banker/internal/services/players"
	"github.com/mcoot/banker/internal/services/recorder"
	"github.com/mcoot/banker/internal/services/rules"
	"github.com/mcoot/banker/internal/services/session"
	"github.com/mcoot/banker/internal/storage"
	"github.com/mcoot/banker/internal/storage/memory"
	pgstorage "github.com/mcoot/banker/internal/storage/postgres"
	redisstorage "github.com/mcoot/banker/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypePostgres = "postgres"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock
	IDs   ids.Generator

	// Event delivery and metrics
	Hub     *events.Hub
	Metrics *obs.Metrics

	// Services
	Session  *session.Service
	Players  *players.Service
	Recorder *recorder.Service
	Rules    *rules.Engine

	Logger *slog.Logger
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "postgres")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// PostgresConfig holds database settings (required if StorageType is "postgres")
	PostgresConfig *pgstorage.Config
	// Currency is the profile active in a fresh session
	// If empty, defaults to model.DefaultCurrency
	Currency model.CurrencyCode
}

// New creates a new application with all dependencies wired.
// The caller starts the hub with go app.Hub.Run() and releases resources with Close.
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := newStorage(cfg)
	if err != nil {
		return nil, err
	}

	currency := cfg.Currency
	if currency == "" {
		currency = model.DefaultCurrency
	}

	clk := clock.New()
	hub := events.NewHub(logger)

	app, err := newWithDependencies(store, clk, ids.New(clk), hub, hub, currency, logger)
	if err != nil {
		_ = closeStorage(store)
		return nil, err
	}
	return app, nil
}

func newStorage(cfg Config) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	case StorageTypePostgres:
		if cfg.PostgresConfig == nil {
			return nil, errors.New("PostgresConfig required when StorageType is postgres")
		}
		return pgstorage.New(*cfg.PostgresConfig)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory', 'redis' or 'postgres'", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	idGen ids.Generator,
	hub *events.Hub,
	publisher events.Publisher,
	currency model.CurrencyCode,
	logger *slog.Logger,
) (*App, error) {
	metrics := obs.NewMetrics()

	sessionService, err := session.New(store, currency, publisher, clk, logger)
	if err != nil {
		return nil, err
	}
	playerService := players.New(store, sessionService, publisher, clk, idGen, logger)
	recorderService := recorder.New(store, publisher, clk, idGen, logger)
	engine := rules.New(store, sessionService, recorderService, metrics, logger)

	return &App{
		Storage:  store,
		Clock:    clk,
		IDs:      idGen,
		Hub:      hub,
		Metrics:  metrics,
		Session:  sessionService,
		Players:  playerService,
		Recorder: recorderService,
		Rules:    engine,
		Logger:   logger,
	}, nil
}

// Close stops the event hub and releases the storage backend
func (a *App) Close() error {
	a.Hub.Close()
	return closeStorage(a.Storage)
}

func closeStorage(store storage.Storage) error {
	if c, ok := store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
