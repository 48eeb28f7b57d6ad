package mysql

import (
	"context"
	"errors"

	ledgerDomain "impact-lending/internal/domain/ledger"
	"impact-lending/pkg/id"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerRepository keeps claim-token balances in the same database as the loans, so a
// fee transfer or burn commits or rolls back together with the engine's own writes.
type LedgerRepository struct{ db *gorm.DB }

func NewLedgerRepository(db *gorm.DB) *LedgerRepository { return &LedgerRepository{db: db} }

func (r *LedgerRepository) Mint(ctx context.Context, to string, amount int64) error {
	if amount <= 0 {
		return ledgerDomain.ErrInvalidAmount
	}
	if err := r.credit(ctx, to, amount); err != nil {
		return err
	}
	return r.record(ctx, ledgerDomain.MovementMint, "", to, amount)
}

func (r *LedgerRepository) Burn(ctx context.Context, from string, amount int64) error {
	if amount <= 0 {
		return ledgerDomain.ErrInvalidAmount
	}
	if err := r.debit(ctx, from, amount); err != nil {
		return err
	}
	return r.record(ctx, ledgerDomain.MovementBurn, from, "", amount)
}

func (r *LedgerRepository) Transfer(ctx context.Context, from, to string, amount int64) error {
	if amount <= 0 {
		return ledgerDomain.ErrInvalidAmount
	}
	if from == to {
		return ledgerDomain.ErrSelfTransfer
	}
	if err := r.debit(ctx, from, amount); err != nil {
		return err
	}
	if err := r.credit(ctx, to, amount); err != nil {
		return err
	}
	return r.record(ctx, ledgerDomain.MovementTransfer, from, to, amount)
}

func (r *LedgerRepository) GetBalance(ctx context.Context, identity string) (int64, error) {
	var acc ledgerDomain.Account
	res := r.db.WithContext(ctx).Where("identity = ?", identity).First(&acc)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if res.Error != nil {
		return 0, res.Error
	}
	return acc.Balance, nil
}

// Movements lists every movement touching identity, oldest first.
func (r *LedgerRepository) Movements(ctx context.Context, identity string) ([]ledgerDomain.Movement, error) {
	var out []ledgerDomain.Movement
	res := r.db.WithContext(ctx).
		Where("from_identity = ? OR to_identity = ?", identity, identity).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}

func (r *LedgerRepository) debit(ctx context.Context, identity string, amount int64) error {
	var acc ledgerDomain.Account
	res := forUpdate(r.db.WithContext(ctx)).Where("identity = ?", identity).First(&acc)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return ledgerDomain.ErrInsufficientBalance
	}
	if res.Error != nil {
		return res.Error
	}
	if acc.Balance < amount {
		return ledgerDomain.ErrInsufficientBalance
	}
	return r.db.WithContext(ctx).Model(&acc).
		UpdateColumn("balance", gorm.Expr("balance - ?", amount)).Error
}

func (r *LedgerRepository) credit(ctx context.Context, identity string, amount int64) error {
	acc := &ledgerDomain.Account{Identity: identity}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(acc).Error
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&ledgerDomain.Account{}).
		Where("identity = ?", identity).
		UpdateColumn("balance", gorm.Expr("balance + ?", amount)).Error
}

func (r *LedgerRepository) record(ctx context.Context, kind ledgerDomain.MovementKind, from, to string, amount int64) error {
	return r.db.WithContext(ctx).Create(&ledgerDomain.Movement{
		MovementID: id.NewID32(),
		Kind:       kind,
		From:       from,
		To:         to,
		Amount:     amount,
	}).Error
}
