package rules

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/mcoot/banker/internal/model"
	"github.com/mcoot/banker/internal/obs"
	"github.com/mcoot/banker/internal/services/recorder"
	"github.com/mcoot/banker/internal/storage"
)

// InterestRate is applied to the account balance by accrue_interest
var InterestRate = decimal.New(7, -2)

// ProfileSource resolves the currency profile operations are priced in
type ProfileSource interface {
	ActiveProfile(ctx context.Context) (model.CurrencyProfile, error)
}

// Observer is notified of every operation outcome
type Observer interface {
	ObserveOperation(kind model.OperationKind, outcome string)
}

// Result is the outcome of an applied operation
type Result struct {
	Player      *model.Player
	Transaction *model.Transaction
	Profile     model.CurrencyProfile // profile the operation was priced in
}

// Engine applies game rules to players.
// Operations on one player are serialized; different players proceed in parallel.
type Engine struct {
	storage  storage.Storage
	profiles ProfileSource
	recorder *recorder.Service
	observer Observer
	logger   *slog.Logger
	locks    *keyedMutex
}

// New creates a new rule engine
func New(
	storage storage.Storage,
	profiles ProfileSource,
	recorder *recorder.Service,
	observer Observer,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		storage:  storage,
		profiles: profiles,
		recorder: recorder,
		observer: observer,
		logger:   logger,
		locks:    newKeyedMutex(),
	}
}

// rule validates and mutates a working copy of the player, returning the
// transaction description. A returned error discards the copy.
type rule func(p *model.Player, profile model.CurrencyProfile) (string, error)

// run loads the player, applies fn to a copy and commits the copy together
// with exactly one transaction carrying the balance delta
func (e *Engine) run(ctx context.Context, id model.PlayerID, kind model.OperationKind, fn rule) (*Result, error) {
	unlock := e.locks.Lock(id)
	defer unlock()

	before, err := e.storage.GetPlayer(ctx, id)
	if err != nil {
		return nil, e.fail(kind, id, err)
	}
	profile, err := e.profiles.ActiveProfile(ctx)
	if err != nil {
		return nil, e.fail(kind, id, err)
	}

	after := before.Clone()
	description, err := fn(after, profile)
	if err != nil {
		return nil, e.fail(kind, id, err)
	}

	delta := model.Between(before, after)
	tx, err := e.recorder.Commit(ctx, after, recorder.Entry{
		Kind:        kind,
		Delta:       delta,
		Description: description,
	})
	if err != nil {
		return nil, e.fail(kind, id, err)
	}

	e.observer.ObserveOperation(kind, obs.OutcomeApplied)
	e.logger.Info("operation applied",
		slog.String("player_id", string(id)),
		slog.String("kind", string(kind)),
		slog.Int64("cash_delta", delta.Cash),
		slog.Int64("account_delta", delta.Account),
		slog.String("description", description),
	)
	return &Result{Player: after, Transaction: tx, Profile: profile}, nil
}

// fail records a failed operation and passes the error through
func (e *Engine) fail(kind model.OperationKind, id model.PlayerID, err error) error {
	if isRejection(err) {
		e.observer.ObserveOperation(kind, obs.OutcomeRejected)
		e.logger.Warn("operation rejected",
			slog.String("player_id", string(id)),
			slog.String("kind", string(kind)),
			slog.String("reason", err.Error()),
		)
		return err
	}
	e.observer.ObserveOperation(kind, obs.OutcomeError)
	e.logger.Error("operation failed",
		slog.String("player_id", string(id)),
		slog.String("kind", string(kind)),
		slog.String("error", err.Error()),
	)
	return err
}

// isRejection reports whether err is an expected business outcome
func isRejection(err error) bool {
	return errors.Is(err, model.ErrValidation) ||
		errors.Is(err, model.ErrPreconditionFailed) ||
		errors.Is(err, model.ErrNotFound)
}

// Apply dispatches an operation by kind
func (e *Engine) Apply(ctx context.Context, id model.PlayerID, op model.Operation) (*Result, error) {
	switch op.Kind {
	case model.OpPassThroughStart:
		return e.PassThroughStart(ctx, id)
	case model.OpLandingStart:
		return e.LandingStart(ctx, id)
	case model.OpAccrueInterest:
		return e.AccrueInterest(ctx, id)
	case model.OpBuyApartmentCash:
		return e.BuyApartmentCash(ctx, id)
	case model.OpBuyApartmentInstallment:
		return e.BuyApartmentInstallment(ctx, id)
	case model.OpPayApartmentLoan:
		return e.PayApartmentLoan(ctx, id)
	case model.OpBuyCarCash:
		return e.BuyCarCash(ctx, id)
	case model.OpBuyCarInstallment:
		return e.BuyCarInstallment(ctx, id)
	case model.OpPayCarLoan:
		return e.PayCarLoan(ctx, id)
	case model.OpBuyInsurance:
		return e.BuyInsurance(ctx, id, op.Insurance)
	case model.OpClaimChildFuture:
		return e.ClaimChildFuture(ctx, id)
	case model.OpToggleFurniture:
		return e.ToggleFurniture(ctx, id)
	case model.OpWithdraw:
		return e.Withdraw(ctx, id, op.Amount)
	case model.OpDeposit:
		return e.Deposit(ctx, id, op.Amount)
	case model.OpCustom:
		return e.Custom(ctx, id, op.Amount, op.Description, op.Target)
	default:
		e.logger.Warn("unknown operation",
			slog.String("player_id", string(id)),
			slog.String("kind", string(op.Kind)),
		)
		return nil, model.ErrUnknownOperation
	}
}
