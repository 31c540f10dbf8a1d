// Package derived computes read-only views of a player's progress.
// Nothing here mutates a player; every function is safe to call on any snapshot.
package derived

import (
	"github.com/shopspring/decimal"

	"github.com/mcoot/banker/internal/model"
)

// NotificationLevel is the severity of a notification
type NotificationLevel string

const (
	LevelWarning NotificationLevel = "warning"
	LevelSuccess NotificationLevel = "success"
)

// NotificationCode identifies what a notification is about
type NotificationCode string

const (
	CodeApartmentLoanEnding NotificationCode = "apartment_loan_ending"
	CodeCarLoanEnding       NotificationCode = "car_loan_ending"
	CodeChildFutureReady    NotificationCode = "child_future_ready"
	CodeWon                 NotificationCode = "won"
)

// Notification is a message a dashboard shows next to a player
type Notification struct {
	Level   NotificationLevel `json:"level"`
	Code    NotificationCode  `json:"code"`
	Message string            `json:"message"`
}

// loanEndingInstallments is how many installments before payoff the warning appears
const loanEndingInstallments = 3

// goalMilestones is the number of milestones WealthGoalPercent counts
const goalMilestones = 5

// Notifications lists the alerts for a player, warnings first
func Notifications(p *model.Player, profile model.CurrencyProfile) []Notification {
	notes := []Notification{}

	if loanEnding(p.Loans.Apartment, profile.Apartment.Monthly) {
		notes = append(notes, Notification{
			Level:   LevelWarning,
			Code:    CodeApartmentLoanEnding,
			Message: "Apartment loan is nearly paid off",
		})
	}
	if loanEnding(p.Loans.Car, profile.Car.Monthly) {
		notes = append(notes, Notification{
			Level:   LevelWarning,
			Code:    CodeCarLoanEnding,
			Message: "Car loan is nearly paid off",
		})
	}
	if p.Insurances.ChildFutureClaimable() {
		notes = append(notes, Notification{
			Level:   LevelSuccess,
			Code:    CodeChildFutureReady,
			Message: "Child future payout is available",
		})
	}
	if WinCondition(p, profile) {
		notes = append(notes, Notification{
			Level:   LevelSuccess,
			Code:    CodeWon,
			Message: "Congratulations, you have won the game!",
		})
	}
	return notes
}

func loanEnding(l model.Loan, monthly int64) bool {
	return l.Active && l.Remaining <= loanEndingInstallments*monthly
}

// WinCondition reports whether the player owns everything debt-free and
// holds at least the profile's extra sum
func WinCondition(p *model.Player, profile model.CurrencyProfile) bool {
	return p.HasApartment &&
		p.HasCar &&
		p.HasFurniture &&
		!p.Loans.Apartment.Active &&
		!p.Loans.Car.Active &&
		p.TotalMoney() >= profile.WinConditionExtra
}

// WealthGoalPercent is the share of the five ownership milestones reached.
// A loan only counts as paid off when its asset is owned.
func WealthGoalPercent(p *model.Player) int {
	completed := 0
	for _, done := range []bool{
		p.HasApartment,
		p.HasCar,
		p.HasFurniture,
		p.HasApartment && !p.Loans.Apartment.Active,
		p.HasCar && !p.Loans.Car.Active,
	} {
		if done {
			completed++
		}
	}
	return percent(int64(completed), goalMilestones)
}

// LoanProgressPercent is how much of a financed amount has been repaid.
// The result is clamped to 0..100.
func LoanProgressPercent(remaining, financed int64) int {
	if remaining <= 0 {
		return 100
	}
	if financed <= 0 || remaining >= financed {
		return 0
	}
	return percent(financed-remaining, financed)
}

// percent returns round(100*part/whole), halves rounding up
func percent(part, whole int64) int {
	return int(decimal.NewFromInt(part).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(whole), 0).
		IntPart())
}

// AssetsCount tallies owned assets and held insurances
func AssetsCount(p *model.Player) int {
	count := p.Insurances.Count()
	for _, owned := range []bool{p.HasApartment, p.HasCar, p.HasFurniture} {
		if owned {
			count++
		}
	}
	return count
}

// ActiveLoansCount returns the number of loans still being repaid
func ActiveLoansCount(p *model.Player) int {
	return p.Loans.ActiveCount()
}

// MonthlyLoanTotal is the sum of regular installments on active loans
func MonthlyLoanTotal(p *model.Player, profile model.CurrencyProfile) int64 {
	var total int64
	if p.Loans.Apartment.Active {
		total += profile.Apartment.Monthly
	}
	if p.Loans.Car.Active {
		total += profile.Car.Monthly
	}
	return total
}

// Summary bundles every derived value for one player
type Summary struct {
	Notifications         []Notification `json:"notifications"`
	Won                   bool           `json:"won"`
	NetWorth              int64          `json:"netWorth"`
	WealthGoalPercent     int            `json:"wealthGoalPercent"`
	ApartmentLoanProgress int            `json:"apartmentLoanProgress"`
	CarLoanProgress       int            `json:"carLoanProgress"`
	MonthlyLoanTotal      int64          `json:"monthlyLoanTotal"`
	AssetsCount           int            `json:"assetsCount"`
	ActiveLoansCount      int            `json:"activeLoansCount"`
}

// Summarize computes the full derived state of a player against the profile
// operations are currently priced in
func Summarize(p *model.Player, profile model.CurrencyProfile) Summary {
	return Summary{
		Notifications:         Notifications(p, profile),
		Won:                   WinCondition(p, profile),
		NetWorth:              p.TotalMoney(),
		WealthGoalPercent:     WealthGoalPercent(p),
		ApartmentLoanProgress: loanProgress(p.Loans.Apartment, profile.Apartment.Financed()),
		CarLoanProgress:       loanProgress(p.Loans.Car, profile.Car.Financed()),
		MonthlyLoanTotal:      MonthlyLoanTotal(p, profile),
		AssetsCount:           AssetsCount(p),
		ActiveLoansCount:      ActiveLoansCount(p),
	}
}

// loanProgress measures a loan against the amount it was opened over.
// Loans stored without that amount fall back to the profile's figure.
func loanProgress(l model.Loan, fallback int64) int {
	financed := l.Financed
	if financed <= 0 {
		financed = fallback
	}
	return LoanProgressPercent(l.Remaining, financed)
}
