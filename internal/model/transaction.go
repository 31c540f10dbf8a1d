package model

import "time"

// TransactionID uniquely identifies a transaction
type TransactionID string

// DefaultTransactionLimit is how many transactions a dashboard shows
const DefaultTransactionLimit = 30

// Transaction is an immutable record of a balance change.
// Amounts are signed deltas; one of them may be zero.
type Transaction struct {
	ID            TransactionID `json:"id"`
	PlayerID      PlayerID      `json:"playerId"`
	PlayerName    string        `json:"playerName"`
	Kind          OperationKind `json:"kind,omitempty"`
	CashAmount    int64         `json:"cashAmount"`
	AccountAmount int64         `json:"accountAmount"`
	Description   string        `json:"description"`
	Timestamp     time.Time     `json:"timestamp"`
}

// Delta is the pair of signed changes a transaction records
type Delta struct {
	Cash    int64
	Account int64
}

// Between returns the delta that turns before into after
func Between(before, after *Player) Delta {
	return Delta{Cash: after.Cash - before.Cash, Account: after.Account - before.Account}
}
