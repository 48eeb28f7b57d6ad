package impact

import (
	"context"
	"fmt"

	domain "impact-lending/internal/domain/impact"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type MultiplierDTO struct {
	Business   string `json:"business"`
	Multiplier int64  `json:"multiplier"`
	Metric     int64  `json:"metric"`
	ImpactGoal int64  `json:"impact_goal"`
}

// Verifier turns the business registry's declared goal and the oracle's latest
// reading into a return multiplier.
type Verifier struct {
	registry domain.Registry
	oracle   domain.Oracle
}

func NewVerifier(r domain.Registry, o domain.Oracle) *Verifier {
	return &Verifier{registry: r, oracle: o}
}

// ComputeMultiplier reads the registry and the oracle concurrently. Any failure on
// either side is reported as VerificationUnavailable with the cause attached.
func (v *Verifier) ComputeMultiplier(ctx context.Context, business string) (*MultiplierDTO, error) {
	var (
		info    *domain.BusinessInfo
		reading *domain.Reading
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		info, err = v.registry.GetBusinessInfo(gctx, business)
		if err != nil {
			return fmt.Errorf("business registry: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		reading, err = v.oracle.GetImpact(gctx, business)
		if err != nil {
			return fmt.Errorf("impact oracle: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		log.WithFields(log.Fields{"business": business, "error": err}).Warn("Impact verification failed")
		return nil, fmt.Errorf("%w: %w", domain.ErrVerificationUnavailable, err)
	}

	return &MultiplierDTO{
		Business:   business,
		Multiplier: domain.Multiplier(info, reading),
		Metric:     reading.Metric,
		ImpactGoal: info.ImpactGoal,
	}, nil
}
