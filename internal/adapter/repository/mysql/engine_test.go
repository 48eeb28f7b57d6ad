package mysql

import (
	"context"
	"errors"
	"strings"
	"testing"

	engineDomain "impact-lending/internal/domain/engine"
)

func TestEngine_EnsureConfig_SeedsOnce(t *testing.T) {
	db := openTestDB(t)
	repo := NewEngineRepository(db)
	ctx := context.Background()

	if _, err := repo.GetConfig(ctx); !errors.Is(err, engineDomain.ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound before seeding, got %v", err)
	}

	got, err := repo.EnsureConfig(ctx, engineDomain.NewConfig(10, 1000))
	if err != nil {
		t.Fatalf("EnsureConfig: %v", err)
	}
	if got.MaxLoans != 10 || got.CreationFee != 1000 || got.NextLoanID != 0 {
		t.Fatalf("unexpected seeded config: %+v", got)
	}

	got.NextLoanID = 4
	if err := repo.SaveConfig(ctx, got); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	// a second seed must not clobber live state
	again, err := repo.EnsureConfig(ctx, engineDomain.NewConfig(99, 1))
	if err != nil {
		t.Fatalf("EnsureConfig again: %v", err)
	}
	if again.MaxLoans != 10 || again.NextLoanID != 4 {
		t.Fatalf("config overwritten by reseed: %+v", again)
	}
}

func TestEngine_SaveConfig_Authority(t *testing.T) {
	db := openTestDB(t)
	repo := NewEngineRepository(db)
	ctx := context.Background()

	cfg, err := repo.EnsureConfig(ctx, engineDomain.NewConfig(10, 1000))
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.SetAuthority(strings.Repeat("a", 32)); err != nil {
		t.Fatal(err)
	}
	if err := repo.SaveConfig(ctx, cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	locked, err := repo.GetConfigForUpdate(ctx)
	if err != nil {
		t.Fatalf("GetConfigForUpdate: %v", err)
	}
	if locked.AuthorityIdentity != strings.Repeat("a", 32) {
		t.Fatalf("authority not persisted: %+v", locked)
	}
}

func TestEngine_VerifiedAuthorities(t *testing.T) {
	db := openTestDB(t)
	repo := NewEngineRepository(db)
	ctx := context.Background()
	ident := strings.Repeat("9", 32)

	ok, err := repo.IsVerifiedAuthority(ctx, ident)
	if err != nil || ok {
		t.Fatalf("unknown identity: ok=%v err=%v", ok, err)
	}

	if err := repo.SetVerifiedAuthority(ctx, ident, true); err != nil {
		t.Fatalf("SetVerifiedAuthority: %v", err)
	}
	if ok, _ := repo.IsVerifiedAuthority(ctx, ident); !ok {
		t.Fatalf("expected verified")
	}

	// revoking flips the same row
	if err := repo.SetVerifiedAuthority(ctx, ident, false); err != nil {
		t.Fatalf("SetVerifiedAuthority revoke: %v", err)
	}
	if ok, _ := repo.IsVerifiedAuthority(ctx, ident); ok {
		t.Fatalf("expected revoked")
	}
	var n int64
	db.Model(&engineDomain.VerifiedAuthority{}).Count(&n)
	if n != 1 {
		t.Fatalf("verified rows = %d, want 1", n)
	}
}
