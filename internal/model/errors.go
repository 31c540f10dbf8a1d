package model

import (
	"errors"
	"fmt"
)

// Error categories. Every specific error below wraps exactly one of these,
// so callers can branch with errors.Is on the category alone.
var (
	ErrValidation         = errors.New("validation error")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrNotFound           = errors.New("not found")
)

// Validation errors
var (
	ErrInvalidName      = fmt.Errorf("%w: name must not be empty", ErrValidation)
	ErrDuplicateName    = fmt.Errorf("%w: a player with this name already exists", ErrValidation)
	ErrInvalidAvatar    = fmt.Errorf("%w: unknown avatar", ErrValidation)
	ErrUnknownCurrency  = fmt.Errorf("%w: unknown currency", ErrValidation)
	ErrInvalidAmount    = fmt.Errorf("%w: invalid amount", ErrValidation)
	ErrInvalidTarget    = fmt.Errorf("%w: target must be cash or account", ErrValidation)
	ErrUnknownOperation = fmt.Errorf("%w: unknown operation", ErrValidation)
	ErrUnknownInsurance = fmt.Errorf("%w: unknown insurance type", ErrValidation)
)

// Precondition errors
var (
	ErrInsufficientFunds         = fmt.Errorf("%w: insufficient funds", ErrPreconditionFailed)
	ErrLoanNotActive             = fmt.Errorf("%w: no active loan", ErrPreconditionFailed)
	ErrInsuranceAlreadyHeld      = fmt.Errorf("%w: insurance already held", ErrPreconditionFailed)
	ErrInsuranceNotHeld          = fmt.Errorf("%w: insurance not held", ErrPreconditionFailed)
	ErrAlreadyClaimed            = fmt.Errorf("%w: payout already claimed", ErrPreconditionFailed)
	ErrAlreadyOwned              = fmt.Errorf("%w: asset already owned", ErrPreconditionFailed)
	ErrFurnitureWithoutApartment = fmt.Errorf("%w: furniture requires an apartment", ErrPreconditionFailed)
)

// Not found errors
var (
	ErrPlayerNotFound = fmt.Errorf("%w: player", ErrNotFound)
)
