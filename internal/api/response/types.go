package response

import (
	"github.com/mcoot/banker/internal/model"
	"github.com/mcoot/banker/internal/services/derived"
)

// PlayerView is a player with its derived state attached
type PlayerView struct {
	*model.Player
	Derived derived.Summary `json:"derived"`
}

// PlayerViewFromModel builds a view measured against the active profile
func PlayerViewFromModel(p *model.Player, profile model.CurrencyProfile) PlayerView {
	return PlayerView{
		Player:  p,
		Derived: derived.Summarize(p, profile),
	}
}

// PlayersResponse is the dashboard snapshot
type PlayersResponse struct {
	Players  []PlayerView          `json:"players"`
	Currency model.CurrencyCode    `json:"currency"`
	Profile  model.CurrencyProfile `json:"profile"`
}

// NewPlayersResponse builds views for every player
func NewPlayersResponse(players []*model.Player, currency model.CurrencyCode, profile model.CurrencyProfile) PlayersResponse {
	views := make([]PlayerView, 0, len(players))
	for _, p := range players {
		views = append(views, PlayerViewFromModel(p, profile))
	}
	return PlayersResponse{Players: views, Currency: currency, Profile: profile}
}

// OperationResponse is returned after a rule has been applied
type OperationResponse struct {
	Player      PlayerView         `json:"player"`
	Transaction *model.Transaction `json:"transaction"`
}

// TransactionsResponse lists transactions newest first
type TransactionsResponse struct {
	Transactions []*model.Transaction `json:"transactions"`
}

// CurrencyResponse describes the active currency
type CurrencyResponse struct {
	Currency model.CurrencyCode    `json:"currency"`
	Profile  model.CurrencyProfile `json:"profile"`
}

// CurrenciesResponse lists the catalogue
type CurrenciesResponse struct {
	Active     model.CurrencyCode      `json:"active"`
	Currencies []model.CurrencyProfile `json:"currencies"`
}

// HealthResponse reports liveness
type HealthResponse struct {
	Status string `json:"status"`
}
