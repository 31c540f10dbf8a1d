package recorder

import (
	"context"
	"log/slog"

	"github.com/mcoot/banker/internal/dependencies/clock"
	"github.com/mcoot/banker/internal/dependencies/ids"
	"github.com/mcoot/banker/internal/events"
	"github.com/mcoot/banker/internal/model"
	"github.com/mcoot/banker/internal/storage"
)

// Entry describes a balance change to be recorded
type Entry struct {
	PlayerID    model.PlayerID
	PlayerName  string
	Kind        model.OperationKind
	Delta       model.Delta
	Description string
}

// Service is the append-only transaction log
type Service struct {
	storage   storage.Storage
	publisher events.Publisher
	clock     clock.Clock
	ids       ids.Generator
	logger    *slog.Logger
}

// New creates a new recorder
func New(
	storage storage.Storage,
	publisher events.Publisher,
	clock clock.Clock,
	ids ids.Generator,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:   storage,
		publisher: publisher,
		clock:     clock,
		ids:       ids,
		logger:    logger,
	}
}

func (s *Service) newTransaction(e Entry) *model.Transaction {
	return &model.Transaction{
		ID:            model.TransactionID(s.ids.NewID()),
		PlayerID:      e.PlayerID,
		PlayerName:    e.PlayerName,
		Kind:          e.Kind,
		CashAmount:    e.Delta.Cash,
		AccountAmount: e.Delta.Account,
		Description:   e.Description,
		Timestamp:     s.clock.Now(),
	}
}

// Record appends a transaction on its own, timestamped now
func (s *Service) Record(ctx context.Context, e Entry) (*model.Transaction, error) {
	tx := s.newTransaction(e)
	if err := s.storage.AppendTransaction(ctx, tx); err != nil {
		s.logger.Error("failed to record transaction",
			slog.String("player_id", string(e.PlayerID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	s.published(tx)
	return tx, nil
}

// Commit saves the mutated player and appends its transaction in one storage write.
// The entry's player name is taken from the player.
func (s *Service) Commit(ctx context.Context, player *model.Player, e Entry) (*model.Transaction, error) {
	e.PlayerID = player.ID
	e.PlayerName = player.Name
	tx := s.newTransaction(e)
	player.UpdatedAt = tx.Timestamp

	if err := s.storage.CommitTransaction(ctx, player, tx); err != nil {
		s.logger.Error("failed to commit transaction",
			slog.String("player_id", string(player.ID)),
			slog.String("kind", string(e.Kind)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.publisher.Publish(model.Event{
		Type:      model.EventPlayerUpdated,
		Timestamp: tx.Timestamp,
		PlayerID:  player.ID,
		Payload:   player,
	})
	s.published(tx)
	return tx, nil
}

func (s *Service) published(tx *model.Transaction) {
	s.publisher.Publish(model.Event{
		Type:      model.EventTransactionRecorded,
		Timestamp: tx.Timestamp,
		PlayerID:  tx.PlayerID,
		Payload:   tx,
	})
}

// ListAll returns every transaction, newest first
func (s *Service) ListAll(ctx context.Context) ([]*model.Transaction, error) {
	return s.storage.ListTransactions(ctx, 0)
}

// List returns up to limit transactions, newest first; limit <= 0 means all
func (s *Service) List(ctx context.Context, limit int) ([]*model.Transaction, error) {
	return s.storage.ListTransactions(ctx, limit)
}
