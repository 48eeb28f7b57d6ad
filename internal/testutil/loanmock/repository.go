package loanmock

import (
	"context"

	domain "impact-lending/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset lookups return domain.ErrNotFound; unset writes are no-ops.
type Repo struct {
	CreateFn               func(ctx context.Context, l *domain.Loan) error
	SaveFn                 func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn          func(ctx context.Context, loanID uint64) (*domain.Loan, error)
	GetByLoanIDForUpdateFn func(ctx context.Context, loanID uint64) (*domain.Loan, error)
	GetByBusinessFn        func(ctx context.Context, business string) (*domain.Loan, error)
	SaveUpdateFn           func(ctx context.Context, u *domain.Update) error
	GetUpdateFn            func(ctx context.Context, loanID uint64) (*domain.Update, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID uint64) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID uint64) (*domain.Loan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByBusiness(ctx context.Context, business string) (*domain.Loan, error) {
	if m.GetByBusinessFn != nil {
		return m.GetByBusinessFn(ctx, business)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) SaveUpdate(ctx context.Context, u *domain.Update) error {
	if m.SaveUpdateFn != nil {
		return m.SaveUpdateFn(ctx, u)
	}
	return nil
}

func (m *Repo) GetUpdate(ctx context.Context, loanID uint64) (*domain.Update, error) {
	if m.GetUpdateFn != nil {
		return m.GetUpdateFn(ctx, loanID)
	}
	return nil, domain.ErrNotFound
}
