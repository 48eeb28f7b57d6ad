package mysql

import (
	"context"

	loanDomain "impact-lending/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

// Save writes every column of l; callers always pass a complete record.
func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID uint64) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out)
	if res.Error != nil {
		return nil, notFoundAs(res.Error, loanDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID uint64) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := forUpdate(r.db.WithContext(ctx)).Where("loan_id = ?", loanID).First(&out)
	if res.Error != nil {
		return nil, notFoundAs(res.Error, loanDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *LoanRepository) GetByBusiness(ctx context.Context, business string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("business = ?", business).First(&out)
	if res.Error != nil {
		return nil, notFoundAs(res.Error, loanDomain.ErrNotFound)
	}
	return &out, nil
}

// SaveUpdate overwrites the single update slot of u.LoanID.
func (r *LoanRepository) SaveUpdate(ctx context.Context, u *loanDomain.Update) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "loan_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"update_amount", "update_interest_rate", "update_timestamp", "updater", "updated_at"}),
	}).Create(u).Error
}

func (r *LoanRepository) GetUpdate(ctx context.Context, loanID uint64) (*loanDomain.Update, error) {
	var out loanDomain.Update
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out)
	if res.Error != nil {
		return nil, notFoundAs(res.Error, loanDomain.ErrNotFound)
	}
	return &out, nil
}
