package enginemock

import (
	"context"

	domain "impact-lending/internal/domain/engine"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// With no funcs set it behaves like an unseeded engine with an empty allow-list.
type Repo struct {
	GetConfigFn            func(ctx context.Context) (*domain.Config, error)
	GetConfigForUpdateFn   func(ctx context.Context) (*domain.Config, error)
	SaveConfigFn           func(ctx context.Context, c *domain.Config) error
	EnsureConfigFn         func(ctx context.Context, c *domain.Config) (*domain.Config, error)
	IsVerifiedAuthorityFn  func(ctx context.Context, identity string) (bool, error)
	SetVerifiedAuthorityFn func(ctx context.Context, identity string, verified bool) error
}

func (m *Repo) GetConfig(ctx context.Context) (*domain.Config, error) {
	if m.GetConfigFn != nil {
		return m.GetConfigFn(ctx)
	}
	return nil, domain.ErrConfigNotFound
}

func (m *Repo) GetConfigForUpdate(ctx context.Context) (*domain.Config, error) {
	if m.GetConfigForUpdateFn != nil {
		return m.GetConfigForUpdateFn(ctx)
	}
	return m.GetConfig(ctx)
}

func (m *Repo) SaveConfig(ctx context.Context, c *domain.Config) error {
	if m.SaveConfigFn != nil {
		return m.SaveConfigFn(ctx, c)
	}
	return nil
}

func (m *Repo) EnsureConfig(ctx context.Context, c *domain.Config) (*domain.Config, error) {
	if m.EnsureConfigFn != nil {
		return m.EnsureConfigFn(ctx, c)
	}
	return c, nil
}

func (m *Repo) IsVerifiedAuthority(ctx context.Context, identity string) (bool, error) {
	if m.IsVerifiedAuthorityFn != nil {
		return m.IsVerifiedAuthorityFn(ctx, identity)
	}
	return false, nil
}

func (m *Repo) SetVerifiedAuthority(ctx context.Context, identity string, verified bool) error {
	if m.SetVerifiedAuthorityFn != nil {
		return m.SetVerifiedAuthorityFn(ctx, identity, verified)
	}
	return nil
}

// Static returns a Repo whose config reads always hand out c itself, so writes made
// by the code under test are visible on c afterwards.
func Static(c *domain.Config) *Repo {
	return &Repo{
		GetConfigFn: func(context.Context) (*domain.Config, error) { return c, nil },
	}
}
