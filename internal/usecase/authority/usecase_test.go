package authority

import (
	"context"
	"errors"
	"strings"
	"testing"

	"impact-lending/internal/domain/engine"
	"impact-lending/internal/domain/uow"
	"impact-lending/internal/testutil/enginemock"
	"impact-lending/internal/testutil/uowmock"
)

var (
	authority = strings.Repeat("a", 32)
	issuer    = strings.Repeat("c", 32)
	stranger  = strings.Repeat("f", 32)
)

func newUsecase(cfg *engine.Config) (*Usecase, *enginemock.Repo, map[string]bool) {
	verified := map[string]bool{}
	repo := enginemock.Static(cfg)
	repo.SetVerifiedAuthorityFn = func(_ context.Context, id string, v bool) error {
		verified[id] = v
		return nil
	}
	repo.IsVerifiedAuthorityFn = func(_ context.Context, id string) (bool, error) {
		return verified[id], nil
	}
	tx := uowmock.Passthrough(uow.Repos{Engine: repo})
	return NewUsecase(repo, tx, nil), repo, verified
}

func TestSetAuthority(t *testing.T) {
	cfg := engine.NewConfig(10, 1000)
	uc, _, _ := newUsecase(cfg)
	ctx := context.Background()

	if _, err := uc.SetAuthority(ctx, stranger, engine.BurnIdentity); !errors.Is(err, engine.ErrInvalidAuthority) {
		t.Fatalf("burn identity: %v", err)
	}
	dto, err := uc.SetAuthority(ctx, stranger, authority)
	if err != nil {
		t.Fatalf("SetAuthority: %v", err)
	}
	if dto.AuthorityIdentity != authority {
		t.Fatalf("dto: %+v", dto)
	}
	if _, err := uc.SetAuthority(ctx, authority, issuer); !errors.Is(err, engine.ErrAuthorityAlreadySet) {
		t.Fatalf("second SetAuthority: %v", err)
	}
	if cfg.AuthorityIdentity != authority {
		t.Fatalf("authority overwritten: %s", cfg.AuthorityIdentity)
	}
}

func TestPrivilegedSetters(t *testing.T) {
	tests := []struct {
		name      string
		authority string
		caller    string
		call      func(uc *Usecase, caller string) error
		want      error
	}{
		{
			name:   "max loans without authority",
			caller: authority,
			call: func(uc *Usecase, c string) error {
				_, err := uc.SetMaxLoans(context.Background(), c, 5)
				return err
			},
			want: engine.ErrAuthorityNotConfigured,
		},
		{
			name:      "max loans by stranger",
			authority: authority,
			caller:    stranger,
			call: func(uc *Usecase, c string) error {
				_, err := uc.SetMaxLoans(context.Background(), c, 5)
				return err
			},
			want: engine.ErrNotAuthority,
		},
		{
			name:      "zero max loans",
			authority: authority,
			caller:    authority,
			call: func(uc *Usecase, c string) error {
				_, err := uc.SetMaxLoans(context.Background(), c, 0)
				return err
			},
			want: engine.ErrInvalidMaxLoans,
		},
		{
			name:      "negative fee",
			authority: authority,
			caller:    authority,
			call: func(uc *Usecase, c string) error {
				_, err := uc.SetCreationFee(context.Background(), c, -1)
				return err
			},
			want: engine.ErrInvalidCreationFee,
		},
		{
			name:      "verify burn identity",
			authority: authority,
			caller:    authority,
			call: func(uc *Usecase, c string) error {
				_, err := uc.SetVerifiedAuthority(context.Background(), c, engine.BurnIdentity, true)
				return err
			},
			want: engine.ErrInvalidVerifiedIdentity,
		},
		{
			name:      "verify by stranger",
			authority: authority,
			caller:    stranger,
			call: func(uc *Usecase, c string) error {
				_, err := uc.SetVerifiedAuthority(context.Background(), c, issuer, true)
				return err
			},
			want: engine.ErrNotAuthority,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := engine.NewConfig(10, 1000)
			cfg.AuthorityIdentity = tt.authority
			uc, _, verified := newUsecase(cfg)

			if err := tt.call(uc, tt.caller); !errors.Is(err, tt.want) {
				t.Fatalf("want %v, got %v", tt.want, err)
			}
			if cfg.MaxLoans != 10 || cfg.CreationFee != 1000 || len(verified) != 0 {
				t.Fatalf("rejected call changed state: %+v %v", cfg, verified)
			}
		})
	}
}

func TestPrivilegedSetters_Success(t *testing.T) {
	cfg := engine.NewConfig(10, 1000)
	cfg.AuthorityIdentity = authority
	uc, _, _ := newUsecase(cfg)
	ctx := context.Background()

	if dto, err := uc.SetMaxLoans(ctx, authority, 3); err != nil || dto.MaxLoans != 3 {
		t.Fatalf("SetMaxLoans: %+v %v", dto, err)
	}
	if dto, err := uc.SetCreationFee(ctx, authority, 0); err != nil || dto.CreationFee != 0 {
		t.Fatalf("SetCreationFee: %+v %v", dto, err)
	}
	if _, err := uc.SetVerifiedAuthority(ctx, authority, issuer, true); err != nil {
		t.Fatalf("SetVerifiedAuthority: %v", err)
	}
	ok, err := uc.IsVerifiedAuthority(ctx, issuer)
	if err != nil || !ok {
		t.Fatalf("IsVerifiedAuthority: %v %v", ok, err)
	}
	if _, err := uc.SetVerifiedAuthority(ctx, authority, issuer, false); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if ok, _ := uc.IsVerifiedAuthority(ctx, issuer); ok {
		t.Fatalf("revoked identity still verified")
	}

	dto, err := uc.Config(ctx)
	if err != nil || dto.MaxLoans != 3 || dto.AuthorityIdentity != authority {
		t.Fatalf("Config: %+v %v", dto, err)
	}
}

func TestConfig_Unseeded(t *testing.T) {
	uc := NewUsecase(&enginemock.Repo{}, nil, nil)
	if _, err := uc.Config(context.Background()); !errors.Is(err, engine.ErrConfigNotFound) {
		t.Fatalf("want ErrConfigNotFound, got %v", err)
	}
	if _, err := uc.SetMaxLoans(context.Background(), authority, 1); !errors.Is(err, errNoUnitOfWork) {
		t.Fatalf("want errNoUnitOfWork, got %v", err)
	}
}
