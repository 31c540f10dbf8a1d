package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/mcoot/banker/internal/model"
	"github.com/mcoot/banker/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players      map[model.PlayerID]*model.Player
	playerOrder  []model.PlayerID
	transactions []*model.Transaction // oldest first
	currency     model.CurrencyCode
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players: make(map[model.PlayerID]*model.Player),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.savePlayerLocked(player)
	return nil
}

func (s *Storage) savePlayerLocked(player *model.Player) {
	if _, ok := s.players[player.ID]; !ok {
		s.playerOrder = append(s.playerOrder, player.ID)
	}
	s.players[player.ID] = player.Clone()
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player.Clone(), nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	players := make([]*model.Player, 0, len(s.playerOrder))
	for _, id := range s.playerOrder {
		players = append(players, s.players[id].Clone())
	}
	return players, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[id]; !ok {
		return model.ErrPlayerNotFound
	}
	delete(s.players, id)
	s.playerOrder = slices.DeleteFunc(s.playerOrder, func(pid model.PlayerID) bool {
		return pid == id
	})
	return nil
}

// Transaction operations

func (s *Storage) AppendTransaction(ctx context.Context, tx *model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendTransactionLocked(tx)
	return nil
}

func (s *Storage) appendTransactionLocked(tx *model.Transaction) {
	c := *tx
	s.transactions = append(s.transactions, &c)
}

func (s *Storage) ListTransactions(ctx context.Context, limit int) ([]*model.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.transactions)
	if limit > 0 && limit < n {
		n = limit
	}
	result := make([]*model.Transaction, 0, n)
	for i := len(s.transactions) - 1; i >= 0 && len(result) < n; i-- {
		c := *s.transactions[i]
		result = append(result, &c)
	}
	return result, nil
}

// CommitTransaction only writes back a player that is still stored
func (s *Storage) CommitTransaction(ctx context.Context, player *model.Player, tx *model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[player.ID]; !ok {
		return model.ErrPlayerNotFound
	}
	s.savePlayerLocked(player)
	s.appendTransactionLocked(tx)
	return nil
}

// Session settings

func (s *Storage) GetActiveCurrency(ctx context.Context) (model.CurrencyCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currency, nil
}

func (s *Storage) SetActiveCurrency(ctx context.Context, code model.CurrencyCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currency = code
	return nil
}

func (s *Storage) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players = make(map[model.PlayerID]*model.Player)
	s.playerOrder = nil
	s.transactions = nil
	s.currency = ""
	return nil
}
