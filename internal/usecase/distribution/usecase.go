package distribution

import (
	"context"
	"errors"
	"fmt"

	"impact-lending/internal/domain/loan"
	"impact-lending/internal/domain/uow"
	"impact-lending/internal/events"
	"impact-lending/internal/usecase/impact"

	log "github.com/sirupsen/logrus"
)

var errNoUnitOfWork = errors.New("distribution usecase: unit of work not configured")

type MultiplierSource interface {
	ComputeMultiplier(ctx context.Context, business string) (*impact.MultiplierDTO, error)
}

type ResultDTO struct {
	LoanID       uint64 `json:"loan_id"`
	Business     string `json:"business"`
	RepaidAmount int64  `json:"repaid_amount"`
	Multiplier   int64  `json:"multiplier"`
	TotalReturn  int64  `json:"total_return"`
	Burned       int64  `json:"burned"`
}

type Usecase struct {
	loans    loan.Repository
	uow      uow.UnitOfWork
	verifier MultiplierSource
	bus      *events.Bus
}

func NewUsecase(loans loan.Repository, tx uow.UnitOfWork, v MultiplierSource, bus *events.Bus) *Usecase {
	return &Usecase{loans: loans, uow: tx, verifier: v, bus: bus}
}

// Distribute scales the business's repaid amount by its impact multiplier and burns
// the loan's claim tokens from the business. The loan record itself is not changed,
// so it and the multiplier are read before the transaction; only the burn runs inside it.
func (u *Usecase) Distribute(ctx context.Context, caller, business string) (*ResultDTO, error) {
	if u.uow == nil {
		return nil, errNoUnitOfWork
	}

	l, err := u.loans.GetByBusiness(ctx, business)
	if err != nil {
		return nil, err
	}
	m, err := u.verifier.ComputeMultiplier(ctx, business)
	if err != nil {
		return nil, err
	}
	total, err := TotalReturn(l.RepaidAmount, m.Multiplier)
	if err != nil {
		return nil, err
	}
	if caller != business {
		return nil, ErrNotBusiness
	}

	out := &ResultDTO{
		LoanID:       l.LoanID,
		Business:     business,
		RepaidAmount: l.RepaidAmount,
		Multiplier:   m.Multiplier,
		TotalReturn:  total,
		Burned:       l.Amount,
	}
	tb := events.NewTransactionalBus(u.bus)
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Ledger.Burn(ctx, business, l.Amount); err != nil {
			return fmt.Errorf("%w: %w", ErrDistributionFailed, err)
		}
		tb.Publish(events.ReturnsDistributedEvent{
			LoanID:      l.LoanID,
			Business:    business,
			Multiplier:  m.Multiplier,
			TotalReturn: total,
			Burned:      l.Amount,
		})
		r.AfterCommit(tb.Flush)
		return nil
	})
	if err != nil {
		tb.Discard()
		return nil, err
	}
	tb.Flush()

	log.WithFields(log.Fields{
		"loanId":      out.LoanID,
		"business":    business,
		"multiplier":  out.Multiplier,
		"totalReturn": out.TotalReturn,
	}).Info("Returns distributed")
	return out, nil
}
