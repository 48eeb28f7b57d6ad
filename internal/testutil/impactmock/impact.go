package impactmock

import (
	"context"

	domain "impact-lending/internal/domain/impact"
)

var (
	_ domain.Registry = (*Registry)(nil)
	_ domain.Oracle   = (*Oracle)(nil)
)

// Registry is a function-backed domain.Registry; unset, every business is unknown.
type Registry struct {
	GetBusinessInfoFn func(ctx context.Context, business string) (*domain.BusinessInfo, error)
}

func (m *Registry) GetBusinessInfo(ctx context.Context, business string) (*domain.BusinessInfo, error) {
	if m.GetBusinessInfoFn != nil {
		return m.GetBusinessInfoFn(ctx, business)
	}
	return nil, domain.ErrBusinessNotFound
}

// Oracle is a function-backed domain.Oracle; unset, there is no reading.
type Oracle struct {
	GetImpactFn func(ctx context.Context, business string) (*domain.Reading, error)
}

func (m *Oracle) GetImpact(ctx context.Context, business string) (*domain.Reading, error) {
	if m.GetImpactFn != nil {
		return m.GetImpactFn(ctx, business)
	}
	return nil, domain.ErrImpactNotFound
}

// Fixed returns a registry and oracle that answer with goal and metric for any business.
func Fixed(goal, metric int64) (*Registry, *Oracle) {
	r := &Registry{GetBusinessInfoFn: func(_ context.Context, b string) (*domain.BusinessInfo, error) {
		return &domain.BusinessInfo{Business: b, ImpactGoal: goal, Verified: true}, nil
	}}
	o := &Oracle{GetImpactFn: func(context.Context, string) (*domain.Reading, error) {
		return &domain.Reading{Metric: metric}, nil
	}}
	return r, o
}
