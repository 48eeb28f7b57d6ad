package engine

import "context"

type Repository interface {
	// GetConfig returns ErrConfigNotFound before the row is seeded.
	GetConfig(ctx context.Context) (*Config, error)
	GetConfigForUpdate(ctx context.Context) (*Config, error)
	SaveConfig(ctx context.Context, c *Config) error
	// EnsureConfig inserts c unless a config row already exists, and returns the stored row.
	EnsureConfig(ctx context.Context, c *Config) (*Config, error)

	IsVerifiedAuthority(ctx context.Context, identity string) (bool, error)
	SetVerifiedAuthority(ctx context.Context, identity string, verified bool) error
}
