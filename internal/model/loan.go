package model

// AssetKind identifies a purchasable asset that can be financed
type AssetKind string

const (
	AssetApartment AssetKind = "apartment"
	AssetCar       AssetKind = "car"
)

// Loan tracks an in-progress installment purchase.
// Active is true exactly when Remaining is positive. Financed is the amount
// the loan was opened over and is cleared once it is paid off.
type Loan struct {
	Active    bool  `json:"active"`
	Remaining int64 `json:"remaining"`
	Financed  int64 `json:"financed,omitempty"`
}

// NewLoan opens a loan over the given financed amount
func NewLoan(amount int64) Loan {
	return Loan{Financed: amount}.withRemaining(amount)
}

// NextPayment returns the installment due, never more than what is owed
func (l Loan) NextPayment(monthly int64) int64 {
	return min(monthly, l.Remaining)
}

// Repay returns the loan after a payment has been applied
func (l Loan) Repay(payment int64) (Loan, error) {
	if !l.Active {
		return l, ErrLoanNotActive
	}
	if payment <= 0 || payment > l.Remaining {
		return l, ErrInvalidAmount
	}
	return l.withRemaining(l.Remaining - payment), nil
}

// PaidOff reports whether nothing is owed
func (l Loan) PaidOff() bool {
	return !l.Active
}

func (l Loan) withRemaining(remaining int64) Loan {
	if remaining <= 0 {
		return Loan{}
	}
	return Loan{Active: true, Remaining: remaining, Financed: l.Financed}
}

// Loans holds the two independent loan records of a player
type Loans struct {
	Apartment Loan `json:"apartment"`
	Car       Loan `json:"car"`
}

// Get returns the loan for an asset
func (l Loans) Get(asset AssetKind) Loan {
	if asset == AssetCar {
		return l.Car
	}
	return l.Apartment
}

// With returns a copy with the loan for an asset replaced
func (l Loans) With(asset AssetKind, loan Loan) Loans {
	if asset == AssetCar {
		l.Car = loan
	} else {
		l.Apartment = loan
	}
	return l
}

// ActiveCount returns the number of loans still being repaid
func (l Loans) ActiveCount() int {
	n := 0
	if l.Apartment.Active {
		n++
	}
	if l.Car.Active {
		n++
	}
	return n
}
