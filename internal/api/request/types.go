package request

import "github.com/mcoot/banker/internal/model"

// CreatePlayerRequest is the request body for creating a player
type CreatePlayerRequest struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// OperationRequest is the request body for applying a rule to a player
type OperationRequest struct {
	Kind        string `json:"kind"`
	Amount      int64  `json:"amount,omitempty"`
	Insurance   string `json:"insurance,omitempty"`
	Description string `json:"description,omitempty"`
	Target      string `json:"target,omitempty"`
}

// ToOperation validates the kind and converts the request
func (r OperationRequest) ToOperation() (model.Operation, error) {
	kind, err := model.ParseOperationKind(r.Kind)
	if err != nil {
		return model.Operation{}, err
	}
	return model.Operation{
		Kind:        kind,
		Amount:      r.Amount,
		Insurance:   model.InsuranceType(r.Insurance),
		Description: r.Description,
		Target:      model.BalanceTarget(r.Target),
	}, nil
}

// SetCurrencyRequest is the request body for switching the active currency
type SetCurrencyRequest struct {
	Currency string `json:"currency"`
}

// ResetRequest is the request body for clearing the session
type ResetRequest struct {
	Confirm bool `json:"confirm"`
}
