package ledger

import (
	"context"
	"errors"

	domain "impact-lending/internal/domain/ledger"
	"impact-lending/internal/domain/uow"

	log "github.com/sirupsen/logrus"
)

var errNoUnitOfWork = errors.New("ledger usecase: unit of work not configured")

type BalanceDTO struct {
	Identity  string            `json:"identity"`
	Balance   int64             `json:"balance"`
	Movements []domain.Movement `json:"movements"`
}

type Usecase struct {
	ledger domain.Ledger
	uow    uow.UnitOfWork
}

func NewUsecase(l domain.Ledger, tx uow.UnitOfWork) *Usecase {
	return &Usecase{ledger: l, uow: tx}
}

// Mint credits amount to identity. Only the configured authority may mint.
func (u *Usecase) Mint(ctx context.Context, caller, to string, amount int64) (*BalanceDTO, error) {
	if u.uow == nil {
		return nil, errNoUnitOfWork
	}
	var balance int64
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		cfg, err := r.Engine.GetConfig(ctx)
		if err != nil {
			return err
		}
		if err := cfg.RequireAuthority(caller); err != nil {
			return err
		}
		if err := r.Ledger.Mint(ctx, to, amount); err != nil {
			return err
		}
		balance, err = r.Ledger.GetBalance(ctx, to)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"identity": to, "amount": amount}).Info("Tokens minted")
	return &BalanceDTO{Identity: to, Balance: balance}, nil
}

// Balance returns the identity's balance and its movement history, oldest first.
func (u *Usecase) Balance(ctx context.Context, identity string) (*BalanceDTO, error) {
	balance, err := u.ledger.GetBalance(ctx, identity)
	if err != nil {
		return nil, err
	}
	moves, err := u.ledger.Movements(ctx, identity)
	if err != nil {
		return nil, err
	}
	if moves == nil {
		moves = []domain.Movement{}
	}
	return &BalanceDTO{Identity: identity, Balance: balance, Movements: moves}, nil
}
