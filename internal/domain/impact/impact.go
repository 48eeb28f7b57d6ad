package impact

import (
	"context"
	"time"

	"impact-lending/internal/domain/failure"
)

const (
	// Multipliers are in hundredths: 150 is 1.5x.
	MultiplierBase     int64 = 100
	MultiplierAchieved int64 = 150
)

var (
	ErrBusinessNotFound        = failure.New(failure.VerificationUnavailable, "business not registered")
	ErrImpactNotFound          = failure.New(failure.VerificationUnavailable, "no impact data for business")
	ErrVerificationUnavailable = failure.New(failure.VerificationUnavailable, "impact verification unavailable")
)

// BusinessInfo is what the external business registry knows about a borrower.
type BusinessInfo struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement;column:id" json:"-"`
	Business   string    `gorm:"column:business;size:32;not null;uniqueIndex:ux_businesses_business" json:"business"`
	ImpactGoal int64     `gorm:"column:impact_goal;not null" json:"impact_goal"`
	Verified   bool      `gorm:"column:verified;not null" json:"verified"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (BusinessInfo) TableName() string { return "businesses" }

// Reading is one verified metric published by the impact oracle.
type Reading struct {
	Metric    int64 `json:"metric"`
	Timestamp int64 `json:"timestamp"`
}

// Registry returns ErrBusinessNotFound for unknown businesses.
type Registry interface {
	GetBusinessInfo(ctx context.Context, business string) (*BusinessInfo, error)
}

// Oracle returns ErrImpactNotFound when no reading exists.
type Oracle interface {
	GetImpact(ctx context.Context, business string) (*Reading, error)
}

// Multiplier compares a reading against the declared goal.
func Multiplier(info *BusinessInfo, reading *Reading) int64 {
	if reading.Metric >= info.ImpactGoal {
		return MultiplierAchieved
	}
	return MultiplierBase
}
