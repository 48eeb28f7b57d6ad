package mysql

import (
	"context"
	"errors"

	engineDomain "impact-lending/internal/domain/engine"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EngineRepository struct{ db *gorm.DB }

func NewEngineRepository(db *gorm.DB) *EngineRepository { return &EngineRepository{db: db} }

func (r *EngineRepository) GetConfig(ctx context.Context) (*engineDomain.Config, error) {
	var out engineDomain.Config
	res := r.db.WithContext(ctx).Where("id = ?", engineDomain.ConfigRowID).First(&out)
	if res.Error != nil {
		return nil, notFoundAs(res.Error, engineDomain.ErrConfigNotFound)
	}
	return &out, nil
}

// GetConfigForUpdate locks the config row; every issuance and config change takes
// this lock first, which serializes them across processes.
func (r *EngineRepository) GetConfigForUpdate(ctx context.Context) (*engineDomain.Config, error) {
	var out engineDomain.Config
	res := forUpdate(r.db.WithContext(ctx)).Where("id = ?", engineDomain.ConfigRowID).First(&out)
	if res.Error != nil {
		return nil, notFoundAs(res.Error, engineDomain.ErrConfigNotFound)
	}
	return &out, nil
}

func (r *EngineRepository) SaveConfig(ctx context.Context, c *engineDomain.Config) error {
	c.ID = engineDomain.ConfigRowID
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *EngineRepository) EnsureConfig(ctx context.Context, c *engineDomain.Config) (*engineDomain.Config, error) {
	c.ID = engineDomain.ConfigRowID
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(c).Error
	if err != nil {
		return nil, err
	}
	return r.GetConfig(ctx)
}

func (r *EngineRepository) IsVerifiedAuthority(ctx context.Context, identity string) (bool, error) {
	var out engineDomain.VerifiedAuthority
	res := r.db.WithContext(ctx).Where("identity = ?", identity).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if res.Error != nil {
		return false, res.Error
	}
	return out.Verified, nil
}

func (r *EngineRepository) SetVerifiedAuthority(ctx context.Context, identity string, verified bool) error {
	row := &engineDomain.VerifiedAuthority{Identity: identity, Verified: verified}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "identity"}},
		DoUpdates: clause.AssignmentColumns([]string{"verified", "updated_at"}),
	}).Create(row).Error
}
