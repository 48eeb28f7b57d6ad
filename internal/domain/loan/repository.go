package loan

import "context"

// Repository returns ErrNotFound when a lookup matches nothing.
type Repository interface {
	Create(ctx context.Context, l *Loan) error
	Save(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID uint64) (*Loan, error)
	GetByLoanIDForUpdate(ctx context.Context, loanID uint64) (*Loan, error)
	GetByBusiness(ctx context.Context, business string) (*Loan, error)

	// Update slot, one per loan, overwritten on every amendment
	SaveUpdate(ctx context.Context, u *Update) error
	GetUpdate(ctx context.Context, loanID uint64) (*Update, error)
}
