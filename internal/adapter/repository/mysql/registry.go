package mysql

import (
	"context"

	"impact-lending/internal/domain/impact"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RegistryRepository backs the business registry. Writes come from the operator CLI.
type RegistryRepository struct{ db *gorm.DB }

func NewRegistryRepository(db *gorm.DB) *RegistryRepository { return &RegistryRepository{db: db} }

func (r *RegistryRepository) GetBusinessInfo(ctx context.Context, business string) (*impact.BusinessInfo, error) {
	var out impact.BusinessInfo
	res := r.db.WithContext(ctx).Where("business = ?", business).First(&out)
	if res.Error != nil {
		return nil, notFoundAs(res.Error, impact.ErrBusinessNotFound)
	}
	return &out, nil
}

// RegisterBusiness inserts info or replaces the goal and verified flag of an existing entry.
func (r *RegistryRepository) RegisterBusiness(ctx context.Context, info *impact.BusinessInfo) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "business"}},
		DoUpdates: clause.AssignmentColumns([]string{"impact_goal", "verified", "updated_at"}),
	}).Create(info).Error
}
