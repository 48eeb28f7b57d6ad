package mysql

import (
	"context"
	"errors"
	"testing"

	"impact-lending/internal/domain/impact"
)

func TestRegistry_GetBusinessInfo(t *testing.T) {
	db := openTestDB(t)
	repo := NewRegistryRepository(db)
	ctx := context.Background()

	seed := &impact.BusinessInfo{Business: "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", ImpactGoal: 500, Verified: true}
	if err := db.Create(seed).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := repo.GetBusinessInfo(ctx, seed.Business)
	if err != nil {
		t.Fatalf("GetBusinessInfo: %v", err)
	}
	if got.ImpactGoal != 500 || !got.Verified {
		t.Fatalf("unexpected info: %+v", got)
	}

	if _, err := repo.GetBusinessInfo(ctx, "ffffffffffffffffffffffffffffffff"); !errors.Is(err, impact.ErrBusinessNotFound) {
		t.Fatalf("expected ErrBusinessNotFound, got %v", err)
	}
}

func TestRegistry_RegisterBusiness_Upserts(t *testing.T) {
	db := openTestDB(t)
	repo := NewRegistryRepository(db)
	ctx := context.Background()
	const b = "cccccccccccccccccccccccccccccccc"

	if err := repo.RegisterBusiness(ctx, &impact.BusinessInfo{Business: b, ImpactGoal: 10}); err != nil {
		t.Fatalf("first RegisterBusiness: %v", err)
	}
	if err := repo.RegisterBusiness(ctx, &impact.BusinessInfo{Business: b, ImpactGoal: 20, Verified: true}); err != nil {
		t.Fatalf("second RegisterBusiness: %v", err)
	}

	got, err := repo.GetBusinessInfo(ctx, b)
	if err != nil {
		t.Fatalf("GetBusinessInfo: %v", err)
	}
	if got.ImpactGoal != 20 || !got.Verified {
		t.Fatalf("entry not replaced: %+v", got)
	}
	var n int64
	db.Model(&impact.BusinessInfo{}).Where("business = ?", b).Count(&n)
	if n != 1 {
		t.Fatalf("rows = %d, want 1", n)
	}
}
