package players

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/mcoot/banker/internal/dependencies/clock"
	"github.com/mcoot/banker/internal/dependencies/ids"
	"github.com/mcoot/banker/internal/events"
	"github.com/mcoot/banker/internal/model"
	"github.com/mcoot/banker/internal/storage"
)

// ProfileSource resolves the currency profile new players start from
type ProfileSource interface {
	ActiveProfile(ctx context.Context) (model.CurrencyProfile, error)
}

// Service manages the player ledger: creating, looking up and removing players
type Service struct {
	storage   storage.Storage
	profiles  ProfileSource
	publisher events.Publisher
	clock     clock.Clock
	ids       ids.Generator
	logger    *slog.Logger

	// createMu serializes the duplicate-name check with the insert
	createMu sync.Mutex
}

// New creates a new player service
func New(
	storage storage.Storage,
	profiles ProfileSource,
	publisher events.Publisher,
	clock clock.Clock,
	ids ids.Generator,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:   storage,
		profiles:  profiles,
		publisher: publisher,
		clock:     clock,
		ids:       ids,
		logger:    logger,
	}
}

// Create adds a player seeded from the active currency profile.
// An empty avatar falls back to the default colour.
func (s *Service) Create(ctx context.Context, name string, avatar string) (*model.Player, error) {
	name = model.NormalizeName(name)
	if name == "" {
		return nil, model.ErrInvalidName
	}
	av, err := model.ParseAvatar(avatar)
	if err != nil {
		return nil, err
	}

	s.createMu.Lock()
	defer s.createMu.Unlock()

	existing, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range existing {
		if p.Name == name {
			return nil, model.ErrDuplicateName
		}
	}

	profile, err := s.profiles.ActiveProfile(ctx)
	if err != nil {
		return nil, err
	}

	player, err := model.NewPlayer(model.PlayerID(s.ids.NewID()), name, av, profile, s.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := s.storage.SavePlayer(ctx, player); err != nil {
		s.logger.Error("failed to save player",
			slog.String("player_id", string(player.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("player created",
		slog.String("player_id", string(player.ID)),
		slog.String("name", player.Name),
		slog.String("avatar", string(player.Avatar)),
		slog.String("currency", string(player.Currency)),
	)
	s.publisher.Publish(model.Event{
		Type:      model.EventPlayerCreated,
		Timestamp: player.CreatedAt,
		PlayerID:  player.ID,
		Payload:   player,
	})
	return player, nil
}

// Delete removes a player. Their transactions stay in the history.
func (s *Service) Delete(ctx context.Context, id model.PlayerID) error {
	player, err := s.storage.GetPlayer(ctx, id)
	if err != nil {
		return err
	}

	if err := s.storage.DeletePlayer(ctx, id); err != nil {
		return err
	}

	s.logger.Info("player deleted",
		slog.String("player_id", string(id)),
		slog.String("name", player.Name),
	)
	s.publisher.Publish(model.Event{
		Type:      model.EventPlayerDeleted,
		Timestamp: s.clock.Now(),
		PlayerID:  id,
		Payload:   model.PlayerDeletedPayload{PlayerID: id, Name: player.Name},
	})
	return nil
}

// Get returns a player or ErrPlayerNotFound
func (s *Service) Get(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return s.storage.GetPlayer(ctx, id)
}

// Lookup returns a player and whether it exists; absence is not an error
func (s *Service) Lookup(ctx context.Context, id model.PlayerID) (*model.Player, bool, error) {
	player, err := s.storage.GetPlayer(ctx, id)
	if errors.Is(err, model.ErrPlayerNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return player, true, nil
}

// List returns all players in creation order
func (s *Service) List(ctx context.Context) ([]*model.Player, error) {
	return s.storage.ListPlayers(ctx)
}
