package ledger

import (
	"time"

	"impact-lending/internal/domain/failure"
)

var (
	ErrInvalidAmount       = failure.New(failure.TransferFailed, "transfer amount must be positive")
	ErrInsufficientBalance = failure.New(failure.TransferFailed, "insufficient balance")
	ErrSelfTransfer        = failure.New(failure.TransferFailed, "sender and recipient are the same")
)

type MovementKind string

const (
	MovementMint     MovementKind = "mint"
	MovementBurn     MovementKind = "burn"
	MovementTransfer MovementKind = "transfer"
)

// Account holds the fungible balance of one identity.
type Account struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement;column:id" json:"-"`
	Identity  string    `gorm:"column:identity;size:32;not null;uniqueIndex:ux_ledger_accounts_identity" json:"identity"`
	Balance   int64     `gorm:"column:balance;not null" json:"balance"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Account) TableName() string { return "ledger_accounts" }

// Movement is an append-only record of one balance change. From is empty for a mint,
// To is empty for a burn.
type Movement struct {
	ID         uint64       `gorm:"primaryKey;autoIncrement;column:id" json:"-"`
	MovementID string       `gorm:"column:movement_id;size:32;not null;uniqueIndex:ux_ledger_movements_movement_id" json:"movement_id"`
	Kind       MovementKind `gorm:"column:kind;size:16;not null" json:"kind"`
	From       string       `gorm:"column:from_identity;size:32;index" json:"from,omitempty"`
	To         string       `gorm:"column:to_identity;size:32;index" json:"to,omitempty"`
	Amount     int64        `gorm:"column:amount;not null" json:"amount"`
	CreatedAt  time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

func (Movement) TableName() string { return "ledger_movements" }
