package authority

import (
	"context"
	"errors"

	"impact-lending/internal/domain/engine"
	"impact-lending/internal/domain/uow"
	"impact-lending/internal/events"

	log "github.com/sirupsen/logrus"
)

var errNoUnitOfWork = errors.New("authority usecase: unit of work not configured")

type ConfigDTO struct {
	NextLoanID        uint64 `json:"next_loan_id"`
	MaxLoans          uint64 `json:"max_loans"`
	CreationFee       int64  `json:"creation_fee"`
	AuthorityIdentity string `json:"authority_identity,omitempty"`
}

func toDTO(c *engine.Config) *ConfigDTO {
	return &ConfigDTO{
		NextLoanID:        c.NextLoanID,
		MaxLoans:          c.MaxLoans,
		CreationFee:       c.CreationFee,
		AuthorityIdentity: c.AuthorityIdentity,
	}
}

type VerifiedDTO struct {
	Identity string `json:"identity"`
	Verified bool   `json:"verified"`
}

// Usecase owns the engine's configuration: the authority identity, the limits and
// the verified-authority allow-list.
type Usecase struct {
	repo engine.Repository
	uow  uow.UnitOfWork
	bus  *events.Bus
}

func NewUsecase(r engine.Repository, tx uow.UnitOfWork, bus *events.Bus) *Usecase {
	return &Usecase{repo: r, uow: tx, bus: bus}
}

// SetAuthority configures the authority identity once. Any caller may make the first
// call; every later call fails.
func (u *Usecase) SetAuthority(ctx context.Context, caller, identity string) (*ConfigDTO, error) {
	tb := events.NewTransactionalBus(u.bus)
	cfg, err := u.mutate(ctx, func(c *engine.Config) error {
		if err := c.SetAuthority(identity); err != nil {
			return err
		}
		tb.Publish(events.AuthorityConfiguredEvent{Identity: identity})
		return nil
	})
	if err != nil {
		tb.Discard()
		return nil, err
	}
	tb.Flush()

	log.WithFields(log.Fields{"authority": identity, "caller": caller}).Info("Authority configured")
	return cfg, nil
}

func (u *Usecase) SetMaxLoans(ctx context.Context, caller string, n uint64) (*ConfigDTO, error) {
	cfg, err := u.mutate(ctx, func(c *engine.Config) error {
		if err := c.RequireAuthority(caller); err != nil {
			return err
		}
		return c.SetMaxLoans(n)
	})
	if err != nil {
		return nil, err
	}
	log.WithField("maxLoans", n).Info("Loan capacity changed")
	return cfg, nil
}

func (u *Usecase) SetCreationFee(ctx context.Context, caller string, fee int64) (*ConfigDTO, error) {
	cfg, err := u.mutate(ctx, func(c *engine.Config) error {
		if err := c.RequireAuthority(caller); err != nil {
			return err
		}
		return c.SetCreationFee(fee)
	})
	if err != nil {
		return nil, err
	}
	log.WithField("creationFee", fee).Info("Creation fee changed")
	return cfg, nil
}

// SetVerifiedAuthority adds identity to, or removes it from, the issuer allow-list.
func (u *Usecase) SetVerifiedAuthority(ctx context.Context, caller, identity string, verified bool) (*VerifiedDTO, error) {
	if u.uow == nil {
		return nil, errNoUnitOfWork
	}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		cfg, err := r.Engine.GetConfig(ctx)
		if err != nil {
			return err
		}
		if err := cfg.RequireAuthority(caller); err != nil {
			return err
		}
		if identity == "" || identity == engine.BurnIdentity {
			return engine.ErrInvalidVerifiedIdentity
		}
		return r.Engine.SetVerifiedAuthority(ctx, identity, verified)
	})
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"identity": identity, "verified": verified}).Info("Verified authority changed")
	return &VerifiedDTO{Identity: identity, Verified: verified}, nil
}

func (u *Usecase) IsVerifiedAuthority(ctx context.Context, identity string) (bool, error) {
	return u.repo.IsVerifiedAuthority(ctx, identity)
}

func (u *Usecase) Config(ctx context.Context) (*ConfigDTO, error) {
	cfg, err := u.repo.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	return toDTO(cfg), nil
}

// mutate applies fn to the locked config row and saves it when fn succeeds.
func (u *Usecase) mutate(ctx context.Context, fn func(c *engine.Config) error) (*ConfigDTO, error) {
	if u.uow == nil {
		return nil, errNoUnitOfWork
	}
	var out *ConfigDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		cfg, err := r.Engine.GetConfigForUpdate(ctx)
		if err != nil {
			return err
		}
		if err := fn(cfg); err != nil {
			return err
		}
		if err := r.Engine.SaveConfig(ctx, cfg); err != nil {
			return err
		}
		out = toDTO(cfg)
		return nil
	})
	return out, err
}
