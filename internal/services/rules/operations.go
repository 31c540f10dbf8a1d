package rules

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mcoot/banker/internal/model"
)

const defaultCustomDescription = "Custom transaction"

// PassThroughStart credits the pass-through bonus to the account
func (e *Engine) PassThroughStart(ctx context.Context, id model.PlayerID) (*Result, error) {
	return e.run(ctx, id, model.OpPassThroughStart, func(p *model.Player, profile model.CurrencyProfile) (string, error) {
		return "Start pass-through", p.Credit(model.TargetAccount, profile.StartPassThrough)
	})
}

// LandingStart credits the landing bonus to the account
func (e *Engine) LandingStart(ctx context.Context, id model.PlayerID) (*Result, error) {
	return e.run(ctx, id, model.OpLandingStart, func(p *model.Player, profile model.CurrencyProfile) (string, error) {
		return "Start landing", p.Credit(model.TargetAccount, profile.StartLanding)
	})
}

// Interest returns the interest earned on an account balance, rounded down
func Interest(account int64) int64 {
	return decimal.NewFromInt(account).Mul(InterestRate).Floor().IntPart()
}

// AccrueInterest credits interest on the current account balance
func (e *Engine) AccrueInterest(ctx context.Context, id model.PlayerID) (*Result, error) {
	return e.run(ctx, id, model.OpAccrueInterest, func(p *model.Player, _ model.CurrencyProfile) (string, error) {
		return "7% interest", p.Credit(model.TargetAccount, Interest(p.Account))
	})
}

// BuyApartmentCash buys the apartment outright from the account
func (e *Engine) BuyApartmentCash(ctx context.Context, id model.PlayerID) (*Result, error) {
	return e.buyOutright(ctx, id, model.OpBuyApartmentCash, model.AssetApartment)
}

// BuyApartmentInstallment pays the apartment down payment and opens its loan
func (e *Engine) BuyApartmentInstallment(ctx context.Context, id model.PlayerID) (*Result, error) {
	return e.buyOnInstallment(ctx, id, model.OpBuyApartmentInstallment, model.AssetApartment)
}

// PayApartmentLoan pays one apartment installment
func (e *Engine) PayApartmentLoan(ctx context.Context, id model.PlayerID) (*Result, error) {
	return e.payLoan(ctx, id, model.OpPayApartmentLoan, model.AssetApartment)
}

// BuyCarCash buys the car outright from the account
func (e *Engine) BuyCarCash(ctx context.Context, id model.PlayerID) (*Result, error) {
	return e.buyOutright(ctx, id, model.OpBuyCarCash, model.AssetCar)
}

// BuyCarInstallment pays the car down payment and opens its loan
func (e *Engine) BuyCarInstallment(ctx context.Context, id model.PlayerID) (*Result, error) {
	return e.buyOnInstallment(ctx, id, model.OpBuyCarInstallment, model.AssetCar)
}

// PayCarLoan pays one car installment
func (e *Engine) PayCarLoan(ctx context.Context, id model.PlayerID) (*Result, error) {
	return e.payLoan(ctx, id, model.OpPayCarLoan, model.AssetCar)
}

func (e *Engine) buyOutright(ctx context.Context, id model.PlayerID, kind model.OperationKind, asset model.AssetKind) (*Result, error) {
	return e.run(ctx, id, kind, func(p *model.Player, profile model.CurrencyProfile) (string, error) {
		if p.Owns(asset) {
			return "", model.ErrAlreadyOwned
		}
		if err := p.Debit(model.TargetAccount, profile.Terms(asset).Cash); err != nil {
			return "", err
		}
		return assetLabel(asset) + " purchase (cash)", p.Acquire(asset)
	})
}

func (e *Engine) buyOnInstallment(ctx context.Context, id model.PlayerID, kind model.OperationKind, asset model.AssetKind) (*Result, error) {
	return e.run(ctx, id, kind, func(p *model.Player, profile model.CurrencyProfile) (string, error) {
		terms := profile.Terms(asset)
		if p.Owns(asset) {
			return "", model.ErrAlreadyOwned
		}
		if err := p.Debit(model.TargetAccount, terms.Down); err != nil {
			return "", err
		}
		if err := p.OpenLoan(asset, terms.Financed()); err != nil {
			return "", err
		}
		return assetLabel(asset) + " down payment (installment)", p.Acquire(asset)
	})
}

func (e *Engine) payLoan(ctx context.Context, id model.PlayerID, kind model.OperationKind, asset model.AssetKind) (*Result, error) {
	return e.run(ctx, id, kind, func(p *model.Player, profile model.CurrencyProfile) (string, error) {
		loan := p.Loan(asset)
		if !loan.Active {
			return "", model.ErrLoanNotActive
		}
		payment := loan.NextPayment(profile.Terms(asset).Monthly)
		if err := p.Debit(model.TargetAccount, payment); err != nil {
			return "", err
		}
		updated, err := p.ReduceLoan(asset, payment)
		if err != nil {
			return "", err
		}
		desc := assetLabel(asset) + " loan repayment"
		if updated.PaidOff() {
			desc += " (PAID OFF)"
		}
		return desc, nil
	})
}

// BuyInsurance takes out a policy, paying its cost from the account
func (e *Engine) BuyInsurance(ctx context.Context, id model.PlayerID, insurance model.InsuranceType) (*Result, error) {
	return e.run(ctx, id, model.OpBuyInsurance, func(p *model.Player, profile model.CurrencyProfile) (string, error) {
		t, err := model.ParseInsuranceType(string(insurance))
		if err != nil {
			return "", err
		}
		if p.Insurances.Has(t) {
			return "", model.ErrInsuranceAlreadyHeld
		}
		if err := p.Debit(model.TargetAccount, profile.Insurance[t].Cost); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s insurance taken", model.InsuranceDisplayName(t)), p.AddInsurance(t)
	})
}

// ClaimChildFuture pays out the child future policy once
func (e *Engine) ClaimChildFuture(ctx context.Context, id model.PlayerID) (*Result, error) {
	return e.run(ctx, id, model.OpClaimChildFuture, func(p *model.Player, profile model.CurrencyProfile) (string, error) {
		if err := p.MarkChildFuturePaid(); err != nil {
			return "", err
		}
		return "Child future payout", p.Credit(model.TargetAccount, profile.Insurance[model.InsuranceChildFuture].Payout)
	})
}

// ToggleFurniture buys or sells furniture; buying needs the apartment
func (e *Engine) ToggleFurniture(ctx context.Context, id model.PlayerID) (*Result, error) {
	return e.run(ctx, id, model.OpToggleFurniture, func(p *model.Player, _ model.CurrencyProfile) (string, error) {
		buying := !p.HasFurniture
		if err := p.SetFurniture(buying); err != nil {
			return "", err
		}
		if buying {
			return "Furniture bought", nil
		}
		return "Furniture sold", nil
	})
}

// Withdraw moves money from the account to cash
func (e *Engine) Withdraw(ctx context.Context, id model.PlayerID, amount int64) (*Result, error) {
	return e.run(ctx, id, model.OpWithdraw, func(p *model.Player, _ model.CurrencyProfile) (string, error) {
		return "Withdrawal", transfer(p, model.TargetAccount, model.TargetCash, amount)
	})
}

// Deposit moves money from cash to the account
func (e *Engine) Deposit(ctx context.Context, id model.PlayerID, amount int64) (*Result, error) {
	return e.run(ctx, id, model.OpDeposit, func(p *model.Player, _ model.CurrencyProfile) (string, error) {
		return "Deposit", transfer(p, model.TargetCash, model.TargetAccount, amount)
	})
}

func transfer(p *model.Player, from, to model.BalanceTarget, amount int64) error {
	if amount <= 0 {
		return model.ErrInvalidAmount
	}
	if err := p.Debit(from, amount); err != nil {
		return err
	}
	return p.Credit(to, amount)
}

// Custom adds a signed amount to one balance.
// A negative amount that would overdraw the balance is rejected.
func (e *Engine) Custom(ctx context.Context, id model.PlayerID, amount int64, description string, target model.BalanceTarget) (*Result, error) {
	return e.run(ctx, id, model.OpCustom, func(p *model.Player, _ model.CurrencyProfile) (string, error) {
		if amount == 0 {
			return "", model.ErrInvalidAmount
		}
		t, err := model.ParseTarget(string(target))
		if err != nil {
			return "", err
		}
		if amount > 0 {
			err = p.Credit(t, amount)
		} else {
			err = p.Debit(t, -amount)
		}
		if err != nil {
			return "", err
		}
		return customDescription(description, t), nil
	})
}

func customDescription(description string, target model.BalanceTarget) string {
	description = strings.TrimSpace(description)
	if description == "" {
		description = defaultCustomDescription
	}
	return fmt.Sprintf("%s (%s)", description, target)
}

func assetLabel(asset model.AssetKind) string {
	if asset == model.AssetCar {
		return "Car"
	}
	return "Apartment"
}
