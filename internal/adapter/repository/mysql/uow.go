package mysql

import (
	"context"
	"sync"

	"impact-lending/internal/domain/loan"
	"impact-lending/internal/domain/uow"

	"gorm.io/gorm"
)

// GormUoW is the engine's single writer: transactions from one process never overlap,
// and row locks keep other processes in line on MySQL.
type GormUoW struct {
	db *gorm.DB
	mu sync.Mutex
}

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func repos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Loans:  &LoanRepository{db: tx},
		Engine: &EngineRepository{db: tx},
		Ledger: &LedgerRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.run(ctx, fn)
}

func (u *GormUoW) WithinLoanTx(ctx context.Context, loanID uint64, fn func(r uow.Repos, l *loan.Loan) error) error {
	return u.run(ctx, func(r uow.Repos) error {
		// lock the loan row up-front to prevent races
		l, err := r.Loans.GetByLoanIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		return fn(r, l)
	})
}

// run commits fn and then its after-commit hooks, all under the writer lock, so
// hooks observe commits in the order they happened.
func (u *GormUoW) run(ctx context.Context, fn func(r uow.Repos) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	var hooks []func()
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := repos(tx)
		r.OnCommit = func(h func()) { hooks = append(hooks, h) }
		return fn(r)
	})
	if err != nil {
		return err
	}
	for _, h := range hooks {
		h()
	}
	return nil
}
