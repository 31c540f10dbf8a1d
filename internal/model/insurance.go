package model

import "slices"

// InsuranceType identifies an insurance policy
type InsuranceType string

const (
	InsuranceChildFuture InsuranceType = "childFuture"
	InsurancePension     InsuranceType = "pension"
	InsuranceHomeGuard   InsuranceType = "homeGuard"
	InsuranceCasco       InsuranceType = "casco"
)

// ValidInsuranceTypes returns all insurance types in display order
func ValidInsuranceTypes() []InsuranceType {
	return []InsuranceType{InsuranceChildFuture, InsurancePension, InsuranceHomeGuard, InsuranceCasco}
}

// ParseInsuranceType validates an insurance type name
func ParseInsuranceType(s string) (InsuranceType, error) {
	t := InsuranceType(s)
	if !slices.Contains(ValidInsuranceTypes(), t) {
		return "", ErrUnknownInsurance
	}
	return t, nil
}

// InsuranceDisplayName returns a human-readable label for an insurance type
func InsuranceDisplayName(t InsuranceType) string {
	switch t {
	case InsuranceChildFuture:
		return "Child future"
	case InsurancePension:
		return "Pension"
	case InsuranceHomeGuard:
		return "Home guard"
	case InsuranceCasco:
		return "Casco"
	default:
		return string(t)
	}
}

// Insurances holds the policies of a player.
// ChildFuturePaid can only be true while ChildFuture is held.
type Insurances struct {
	ChildFuture     bool `json:"childFuture"`
	Pension         bool `json:"pension"`
	HomeGuard       bool `json:"homeGuard"`
	Casco           bool `json:"casco"`
	ChildFuturePaid bool `json:"childFuturePaid"`
}

// Has reports whether a policy is held
func (i Insurances) Has(t InsuranceType) bool {
	switch t {
	case InsuranceChildFuture:
		return i.ChildFuture
	case InsurancePension:
		return i.Pension
	case InsuranceHomeGuard:
		return i.HomeGuard
	case InsuranceCasco:
		return i.Casco
	default:
		return false
	}
}

// Count returns the number of policies held
func (i Insurances) Count() int {
	n := 0
	for _, t := range ValidInsuranceTypes() {
		if i.Has(t) {
			n++
		}
	}
	return n
}

// ChildFutureClaimable reports whether the child future payout is available
func (i Insurances) ChildFutureClaimable() bool {
	return i.ChildFuture && !i.ChildFuturePaid
}

func (i Insurances) with(t InsuranceType) Insurances {
	switch t {
	case InsuranceChildFuture:
		i.ChildFuture = true
	case InsurancePension:
		i.Pension = true
	case InsuranceHomeGuard:
		i.HomeGuard = true
	case InsuranceCasco:
		i.Casco = true
	}
	return i
}
