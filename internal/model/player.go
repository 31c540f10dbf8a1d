package model

import (
	"math"
	"strings"
	"time"
)

// PlayerID uniquely identifies a player across the system
type PlayerID string

// BalanceTarget selects which of a player's balances an operation touches
type BalanceTarget string

const (
	TargetCash    BalanceTarget = "cash"
	TargetAccount BalanceTarget = "account"
)

// ParseTarget validates a balance target name
func ParseTarget(s string) (BalanceTarget, error) {
	switch t := BalanceTarget(s); t {
	case TargetCash, TargetAccount:
		return t, nil
	default:
		return "", ErrInvalidTarget
	}
}

// Player is a participant's financial record.
// Fields are exported for serialization; mutation goes through the methods
// below so that balances never go negative and loan flags stay consistent.
type Player struct {
	ID           PlayerID     `json:"id"`
	Name         string       `json:"name"`
	Avatar       Avatar       `json:"avatar"`
	Currency     CurrencyCode `json:"currency"`
	Cash         int64        `json:"cash"`
	Account      int64        `json:"account"`
	HasApartment bool         `json:"hasApartment"`
	HasCar       bool         `json:"hasCar"`
	HasFurniture bool         `json:"hasFurniture"`
	Loans        Loans        `json:"loans"`
	Insurances   Insurances   `json:"insurances"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// NewPlayer creates a player seeded with the starting balances of a profile
func NewPlayer(id PlayerID, name string, avatar Avatar, profile CurrencyProfile, now time.Time) (*Player, error) {
	name = NormalizeName(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if avatar == "" {
		avatar = DefaultAvatar
	}
	return &Player{
		ID:        id,
		Name:      name,
		Avatar:    avatar,
		Currency:  profile.Code,
		Cash:      profile.StartCash,
		Account:   profile.StartAccount,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NormalizeName trims surrounding whitespace from a display name
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// Clone returns an independent copy of the player
func (p *Player) Clone() *Player {
	c := *p
	return &c
}

// Balance returns the balance held in the given target
func (p *Player) Balance(target BalanceTarget) int64 {
	if target == TargetCash {
		return p.Cash
	}
	return p.Account
}

// CanAfford reports whether the target balance covers the amount
func (p *Player) CanAfford(target BalanceTarget, amount int64) bool {
	return p.Balance(target) >= amount
}

// TotalMoney returns cash plus account, saturating at math.MaxInt64
func (p *Player) TotalMoney() int64 {
	if p.Cash > math.MaxInt64-p.Account {
		return math.MaxInt64
	}
	return p.Cash + p.Account
}

// Credit adds a non-negative amount to a balance.
// An amount that would overflow the balance is rejected.
func (p *Player) Credit(target BalanceTarget, amount int64) error {
	if amount < 0 || amount > math.MaxInt64-p.Balance(target) {
		return ErrInvalidAmount
	}
	p.setBalance(target, p.Balance(target)+amount)
	return nil
}

// Debit removes a non-negative amount from a balance, refusing to overdraw
func (p *Player) Debit(target BalanceTarget, amount int64) error {
	if amount < 0 {
		return ErrInvalidAmount
	}
	if !p.CanAfford(target, amount) {
		return ErrInsufficientFunds
	}
	p.setBalance(target, p.Balance(target)-amount)
	return nil
}

func (p *Player) setBalance(target BalanceTarget, v int64) {
	if target == TargetCash {
		p.Cash = v
	} else {
		p.Account = v
	}
}

// Owns reports whether the player holds an asset, paid off or not
func (p *Player) Owns(asset AssetKind) bool {
	if asset == AssetCar {
		return p.HasCar
	}
	return p.HasApartment
}

// Acquire marks an asset as owned
func (p *Player) Acquire(asset AssetKind) error {
	if p.Owns(asset) {
		return ErrAlreadyOwned
	}
	if asset == AssetCar {
		p.HasCar = true
	} else {
		p.HasApartment = true
	}
	return nil
}

// Loan returns the loan record for an asset
func (p *Player) Loan(asset AssetKind) Loan {
	return p.Loans.Get(asset)
}

// OpenLoan starts financing an asset over the given amount
func (p *Player) OpenLoan(asset AssetKind, amount int64) error {
	if p.Loan(asset).Active {
		return ErrAlreadyOwned
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	p.Loans = p.Loans.With(asset, NewLoan(amount))
	return nil
}

// ReduceLoan applies a payment to an active loan and returns the new state.
// Moving the money is the caller's job.
func (p *Player) ReduceLoan(asset AssetKind, payment int64) (Loan, error) {
	l, err := p.Loan(asset).Repay(payment)
	if err != nil {
		return l, err
	}
	p.Loans = p.Loans.With(asset, l)
	return l, nil
}

// AddInsurance records a newly taken policy
func (p *Player) AddInsurance(t InsuranceType) error {
	if p.Insurances.Has(t) {
		return ErrInsuranceAlreadyHeld
	}
	p.Insurances = p.Insurances.with(t)
	return nil
}

// MarkChildFuturePaid records that the child future payout was collected
func (p *Player) MarkChildFuturePaid() error {
	if !p.Insurances.ChildFuture {
		return ErrInsuranceNotHeld
	}
	if p.Insurances.ChildFuturePaid {
		return ErrAlreadyClaimed
	}
	p.Insurances.ChildFuturePaid = true
	return nil
}

// SetFurniture sets furniture ownership; furniture needs an apartment
func (p *Player) SetFurniture(has bool) error {
	if has && !p.HasApartment {
		return ErrFurnitureWithoutApartment
	}
	p.HasFurniture = has
	return nil
}
