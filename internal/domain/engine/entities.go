package engine

import (
	"time"

	"impact-lending/internal/domain/failure"
)

// BurnIdentity is the reserved null identity; value sent there is destroyed.
const BurnIdentity = "00000000000000000000000000000000"

// ConfigRowID is the primary key of the singleton config row.
const ConfigRowID = 1

var (
	ErrConfigNotFound          = failure.New(failure.NotFound, "engine config not initialised")
	ErrAuthorityNotConfigured  = failure.New(failure.AuthorityNotConfigured, "authority not configured")
	ErrAuthorityAlreadySet     = failure.New(failure.AlreadyExists, "authority already configured")
	ErrInvalidAuthority        = failure.Invalid("authority", "authority identity is reserved")
	ErrNotAuthority            = failure.New(failure.NotAuthorized, "caller is not the configured authority")
	ErrInvalidMaxLoans         = failure.Invalid("max_loans", "max loans must be positive")
	ErrInvalidCreationFee      = failure.Invalid("creation_fee", "creation fee must not be negative")
	ErrInvalidVerifiedIdentity = failure.Invalid("identity", "identity is reserved")
)

// Config is the engine's singleton state. AuthorityIdentity is empty until set.
type Config struct {
	ID                uint8     `gorm:"primaryKey;column:id" json:"-"`
	NextLoanID        uint64    `gorm:"column:next_loan_id;not null" json:"next_loan_id"`
	MaxLoans          uint64    `gorm:"column:max_loans;not null" json:"max_loans"`
	CreationFee       int64     `gorm:"column:creation_fee;not null" json:"creation_fee"`
	AuthorityIdentity string    `gorm:"column:authority_identity;size:32" json:"authority_identity"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Config) TableName() string { return "engine_configs" }

// NewConfig is the initial config row.
func NewConfig(maxLoans uint64, creationFee int64) *Config {
	return &Config{ID: ConfigRowID, MaxLoans: maxLoans, CreationFee: creationFee}
}

// VerifiedAuthority is a member of the advisory allow-list consulted on issuance.
// It is distinct from Config.AuthorityIdentity.
type VerifiedAuthority struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement;column:id" json:"-"`
	Identity  string    `gorm:"column:identity;size:32;not null;uniqueIndex:ux_verified_authorities_identity" json:"identity"`
	Verified  bool      `gorm:"column:verified;not null" json:"verified"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (VerifiedAuthority) TableName() string { return "verified_authorities" }
