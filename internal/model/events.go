package model

import "time"

// EventType identifies the type of ledger event
type EventType string

const (
	EventPlayerCreated       EventType = "player-created"
	EventPlayerUpdated       EventType = "player-updated"
	EventPlayerDeleted       EventType = "player-deleted"
	EventTransactionRecorded EventType = "transaction-recorded"
	EventCurrencyChanged     EventType = "currency-changed"
	EventSessionReset        EventType = "session-reset"
)

// Event is the envelope pushed to subscribers whenever the ledger changes
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	PlayerID  PlayerID  `json:"playerId,omitempty"`
	Payload   any       `json:"payload,omitempty"`
}

// PlayerDeletedPayload contains data for player deleted events
type PlayerDeletedPayload struct {
	PlayerID PlayerID `json:"playerId"`
	Name     string   `json:"name"`
}

// CurrencyChangedPayload contains data for currency changed events
type CurrencyChangedPayload struct {
	Old CurrencyCode `json:"old"`
	New CurrencyCode `json:"new"`
}
