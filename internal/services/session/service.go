package session

import (
	"context"
	"log/slog"

	"github.com/mcoot/banker/internal/dependencies/clock"
	"github.com/mcoot/banker/internal/events"
	"github.com/mcoot/banker/internal/model"
	"github.com/mcoot/banker/internal/storage"
)

// Snapshot is the state a dashboard renders: every player plus the active currency
type Snapshot struct {
	Players  []*model.Player
	Currency model.CurrencyCode
	Profile  model.CurrencyProfile
}

// Service owns the session-wide settings and the reset operation
type Service struct {
	storage         storage.Storage
	defaultCurrency model.CurrencyCode
	publisher       events.Publisher
	clock           clock.Clock
	logger          *slog.Logger
}

// New creates a new session service.
// defaultCurrency is active until SetActiveCurrency is called and again after Reset.
func New(
	storage storage.Storage,
	defaultCurrency model.CurrencyCode,
	publisher events.Publisher,
	clock clock.Clock,
	logger *slog.Logger,
) (*Service, error) {
	if !model.IsValidCurrency(defaultCurrency) {
		return nil, model.ErrUnknownCurrency
	}
	return &Service{
		storage:         storage,
		defaultCurrency: defaultCurrency,
		publisher:       publisher,
		clock:           clock,
		logger:          logger,
	}, nil
}

// ActiveCurrency returns the currency code new players and operations use
func (s *Service) ActiveCurrency(ctx context.Context) (model.CurrencyCode, error) {
	code, err := s.storage.GetActiveCurrency(ctx)
	if err != nil {
		return "", err
	}
	if code == "" {
		return s.defaultCurrency, nil
	}
	return code, nil
}

// ActiveProfile returns the profile of the active currency
func (s *Service) ActiveProfile(ctx context.Context) (model.CurrencyProfile, error) {
	code, err := s.ActiveCurrency(ctx)
	if err != nil {
		return model.CurrencyProfile{}, err
	}
	return model.GetProfile(code)
}

// SetActiveCurrency switches the active profile.
// Existing balances are left untouched.
func (s *Service) SetActiveCurrency(ctx context.Context, code model.CurrencyCode) error {
	if !model.IsValidCurrency(code) {
		return model.ErrUnknownCurrency
	}

	old, err := s.ActiveCurrency(ctx)
	if err != nil {
		return err
	}

	if err := s.storage.SetActiveCurrency(ctx, code); err != nil {
		s.logger.Error("failed to save active currency",
			slog.String("currency", string(code)),
			slog.String("error", err.Error()),
		)
		return err
	}

	s.logger.Info("active currency changed",
		slog.String("old", string(old)),
		slog.String("new", string(code)),
	)
	s.publisher.Publish(model.Event{
		Type:      model.EventCurrencyChanged,
		Timestamp: s.clock.Now(),
		Payload:   model.CurrencyChangedPayload{Old: old, New: code},
	})
	return nil
}

// Snapshot lists all players in creation order together with the active currency
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	code, err := s.ActiveCurrency(ctx)
	if err != nil {
		return nil, err
	}
	profile, err := model.GetProfile(code)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Players: players, Currency: code, Profile: profile}, nil
}

// Reset clears every player and transaction and restores the default currency.
// This cannot be undone.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.storage.Reset(ctx); err != nil {
		s.logger.Error("failed to reset session", slog.String("error", err.Error()))
		return err
	}

	s.logger.Warn("session reset", slog.String("currency", string(s.defaultCurrency)))
	s.publisher.Publish(model.Event{
		Type:      model.EventSessionReset,
		Timestamp: s.clock.Now(),
	})
	return nil
}
