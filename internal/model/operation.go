package model

import "slices"

// OperationKind names a game rule that can be applied to a player
type OperationKind string

const (
	OpPassThroughStart        OperationKind = "pass_through_start"
	OpLandingStart            OperationKind = "landing_start"
	OpAccrueInterest          OperationKind = "accrue_interest"
	OpBuyApartmentCash        OperationKind = "buy_apartment_cash"
	OpBuyApartmentInstallment OperationKind = "buy_apartment_installment"
	OpPayApartmentLoan        OperationKind = "pay_apartment_loan"
	OpBuyCarCash              OperationKind = "buy_car_cash"
	OpBuyCarInstallment       OperationKind = "buy_car_installment"
	OpPayCarLoan              OperationKind = "pay_car_loan"
	OpBuyInsurance            OperationKind = "buy_insurance"
	OpClaimChildFuture        OperationKind = "claim_child_future"
	OpToggleFurniture         OperationKind = "toggle_furniture"
	OpWithdraw                OperationKind = "withdraw"
	OpDeposit                 OperationKind = "deposit"
	OpCustom                  OperationKind = "custom"
)

// ValidOperationKinds returns every operation kind
func ValidOperationKinds() []OperationKind {
	return []OperationKind{
		OpPassThroughStart, OpLandingStart, OpAccrueInterest,
		OpBuyApartmentCash, OpBuyApartmentInstallment, OpPayApartmentLoan,
		OpBuyCarCash, OpBuyCarInstallment, OpPayCarLoan,
		OpBuyInsurance, OpClaimChildFuture, OpToggleFurniture,
		OpWithdraw, OpDeposit, OpCustom,
	}
}

// ParseOperationKind validates an operation kind name
func ParseOperationKind(s string) (OperationKind, error) {
	k := OperationKind(s)
	if !slices.Contains(ValidOperationKinds(), k) {
		return "", ErrUnknownOperation
	}
	return k, nil
}

// Operation is a request to apply one rule to a player.
// Only the fields relevant to Kind are read.
type Operation struct {
	Kind        OperationKind `json:"kind"`
	Amount      int64         `json:"amount,omitempty"`      // withdraw, deposit, custom
	Insurance   InsuranceType `json:"insurance,omitempty"`   // buy_insurance
	Description string        `json:"description,omitempty"` // custom
	Target      BalanceTarget `json:"target,omitempty"`      // custom
}
