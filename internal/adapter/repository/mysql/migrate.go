package mysql

import (
	"impact-lending/internal/domain/engine"
	"impact-lending/internal/domain/impact"
	"impact-lending/internal/domain/ledger"
	"impact-lending/internal/domain/loan"

	"gorm.io/gorm"
)

// Models lists every table the service owns or reads.
func Models() []any {
	return []any{
		&loan.Loan{},
		&loan.Update{},
		&engine.Config{},
		&engine.VerifiedAuthority{},
		&ledger.Account{},
		&ledger.Movement{},
		&impact.BusinessInfo{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
