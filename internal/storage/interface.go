package storage

import (
	"context"

	"github.com/mcoot/banker/internal/model"
)

// Storage defines the interface for data persistence.
// Implementations must return copies: mutating a returned value never
// changes stored state until it is saved again.
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	// ListPlayers returns players in creation order
	ListPlayers(ctx context.Context) ([]*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// Transaction operations
	AppendTransaction(ctx context.Context, tx *model.Transaction) error
	// ListTransactions returns up to limit transactions, newest first; limit <= 0 means all
	ListTransactions(ctx context.Context, limit int) ([]*model.Transaction, error)

	// CommitTransaction saves the player and appends the transaction as one atomic write.
	// It returns model.ErrPlayerNotFound when the player is no longer stored.
	CommitTransaction(ctx context.Context, player *model.Player, tx *model.Transaction) error

	// Session settings. GetActiveCurrency returns "" when none has been set.
	GetActiveCurrency(ctx context.Context) (model.CurrencyCode, error)
	SetActiveCurrency(ctx context.Context, code model.CurrencyCode) error

	// Reset removes all players, transactions and session settings
	Reset(ctx context.Context) error
}
