package uow

import (
	"context"

	"impact-lending/internal/domain/engine"
	"impact-lending/internal/domain/ledger"
	"impact-lending/internal/domain/loan"
)

// Repos are bound to one transaction.
type Repos struct {
	Loans  loan.Repository
	Engine engine.Repository
	Ledger ledger.Ledger

	// OnCommit is set by units of work that can run code after the commit and
	// before the next transaction starts.
	OnCommit func(fn func())
}

// AfterCommit queues fn to run once the transaction has committed, while the unit
// of work still excludes other writers. Without OnCommit it does nothing; callers
// flush again after WithinTx returns.
func (r Repos) AfterCommit(fn func()) {
	if r.OnCommit != nil {
		r.OnCommit(fn)
	}
}

// UnitOfWork runs each fn as one serialized transaction. A non-nil error from fn
// rolls back every write made through r.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinLoanTx locks the loan row first, then passes it in.
	WithinLoanTx(ctx context.Context, loanID uint64, fn func(r Repos, l *loan.Loan) error) error
}
