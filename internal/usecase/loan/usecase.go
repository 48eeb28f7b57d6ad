package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"impact-lending/internal/domain/engine"
	domain "impact-lending/internal/domain/loan"
	"impact-lending/internal/domain/uow"
	"impact-lending/internal/events"

	log "github.com/sirupsen/logrus"
)

var errNoUnitOfWork = errors.New("loan usecase: unit of work not configured")

type Usecase struct {
	repo   domain.Repository
	engine engine.Repository
	uow    uow.UnitOfWork
	bus    *events.Bus
	now    func() time.Time
}

func NewUsecase(r domain.Repository, e engine.Repository, tx uow.UnitOfWork, bus *events.Bus) *Usecase {
	return &Usecase{repo: r, engine: e, uow: tx, bus: bus, now: time.Now}
}

// WithClock overrides the logical clock used for loan timestamps.
func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

// Issue registers a new loan for in.Business on behalf of a verified authority and
// collects the creation fee. The returned id is the loan's sequential public id.
func (u *Usecase) Issue(ctx context.Context, caller string, in IssueLoanInput) (uint64, error) {
	if u.uow == nil {
		return 0, errNoUnitOfWork
	}
	now := u.now().Unix()
	params := in.params()
	tb := events.NewTransactionalBus(u.bus)

	var issued *domain.Loan
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		cfg, err := r.Engine.GetConfigForUpdate(ctx)
		if err != nil {
			return err
		}
		if cfg.AtCapacity() {
			return domain.ErrCapacityExceeded
		}
		if err := params.Validate(); err != nil {
			return err
		}

		verified, err := r.Engine.IsVerifiedAuthority(ctx, caller)
		if err != nil {
			return err
		}
		if !verified {
			return domain.ErrNotIssuer
		}

		switch _, err := r.Loans.GetByBusiness(ctx, params.Business); {
		case err == nil:
			return domain.ErrDuplicateLoan
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}

		if !cfg.HasAuthority() {
			return engine.ErrAuthorityNotConfigured
		}
		if cfg.CreationFee > 0 {
			if err := r.Ledger.Transfer(ctx, caller, cfg.AuthorityIdentity, cfg.CreationFee); err != nil {
				return fmt.Errorf("collect creation fee: %w", err)
			}
		}

		l := domain.NewLoan(cfg.NextLoanID, caller, params, now)
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		cfg.NextLoanID++
		if err := r.Engine.SaveConfig(ctx, cfg); err != nil {
			return err
		}

		issued = l
		tb.Publish(events.LoanIssuedEvent{
			LoanID:   l.LoanID,
			Business: l.Business,
			Creator:  caller,
			Amount:   l.Amount,
			Fee:      cfg.CreationFee,
		})
		r.AfterCommit(tb.Flush)
		return nil
	})
	if err != nil {
		tb.Discard()
		return 0, err
	}
	tb.Flush()

	log.WithFields(log.Fields{
		"loanId":   issued.LoanID,
		"business": issued.Business,
		"amount":   issued.Amount,
	}).Info("Loan issued")
	return issued.LoanID, nil
}

// Repay adds amount to the loan's repaid total. The repayment that covers the
// principal closes the loan.
func (u *Usecase) Repay(ctx context.Context, caller string, loanID uint64, amount int64) (*LoanDTO, error) {
	if u.uow == nil {
		return nil, errNoUnitOfWork
	}
	tb := events.NewTransactionalBus(u.bus)

	var out *domain.Loan
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		next, err := l.ApplyRepayment(caller, amount)
		if err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, next); err != nil {
			return err
		}
		out = next
		tb.Publish(events.LoanRepaidEvent{
			LoanID:       next.LoanID,
			Amount:       amount,
			RepaidAmount: next.RepaidAmount,
			Closed:       !next.Active,
		})
		r.AfterCommit(tb.Flush)
		return nil
	})
	if err != nil {
		tb.Discard()
		return nil, err
	}
	tb.Flush()

	entry := log.WithFields(log.Fields{
		"loanId":       out.LoanID,
		"amount":       amount,
		"repaidAmount": out.RepaidAmount,
	})
	if !out.Active {
		entry.Info("Loan fully repaid")
	} else {
		entry.Debug("Loan repayment recorded")
	}
	return toDTO(out), nil
}

// Update amends amount and interest rate. Only the loan's creator may do this, and
// the amendment replaces the loan's single update slot.
func (u *Usecase) Update(ctx context.Context, caller string, loanID uint64, amount, interestRate int64) (*LoanDTO, error) {
	if u.uow == nil {
		return nil, errNoUnitOfWork
	}
	now := u.now().Unix()
	tb := events.NewTransactionalBus(u.bus)

	var out *domain.Loan
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		next, upd, err := l.ApplyUpdate(caller, amount, interestRate, now)
		if err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, next); err != nil {
			return err
		}
		if err := r.Loans.SaveUpdate(ctx, upd); err != nil {
			return err
		}
		out = next
		tb.Publish(events.LoanUpdatedEvent{
			LoanID:       next.LoanID,
			Amount:       amount,
			InterestRate: interestRate,
			Updater:      caller,
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
		"loanId":       out.LoanID,
		"amount":       amount,
		"interestRate": interestRate,
	}).Info("Loan updated")
	return toDTO(out), nil
}

// Get returns found=false for an unknown id; err is reserved for storage failures.
func (u *Usecase) Get(ctx context.Context, loanID uint64) (*LoanDTO, bool, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return toDTO(l), true, nil
}

func (u *Usecase) GetUpdate(ctx context.Context, loanID uint64) (*UpdateDTO, bool, error) {
	upd, err := u.repo.GetUpdate(ctx, loanID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return toUpdateDTO(upd), true, nil
}

func (u *Usecase) GetByBusiness(ctx context.Context, business string) (*LoanDTO, bool, error) {
	l, err := u.repo.GetByBusiness(ctx, business)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return toDTO(l), true, nil
}

// IsRegistered reports whether business has ever been issued a loan.
func (u *Usecase) IsRegistered(ctx context.Context, business string) (bool, error) {
	_, found, err := u.GetByBusiness(ctx, business)
	return found, err
}

func (u *Usecase) CheckExistence(ctx context.Context, business string) (*ExistenceDTO, error) {
	l, found, err := u.GetByBusiness(ctx, business)
	if err != nil {
		return nil, err
	}
	out := &ExistenceDTO{Business: business, Registered: found}
	if found {
		id := l.LoanID
		out.LoanID = &id
	}
	return out, nil
}

// Count returns the number of loans ever issued. An unseeded engine has issued none.
func (u *Usecase) Count(ctx context.Context) (uint64, error) {
	cfg, err := u.engine.GetConfig(ctx)
	if errors.Is(err, engine.ErrConfigNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return cfg.NextLoanID, nil
}
