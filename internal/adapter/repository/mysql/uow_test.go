package mysql

import (
	"context"
	"errors"
	"sync"
	"testing"

	engineDomain "impact-lending/internal/domain/engine"
	loanDomain "impact-lending/internal/domain/loan"
	"impact-lending/internal/domain/uow"
)

func TestGormUoW_WithinTx_Commit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	guow := NewGormUoW(db)

	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.Create(ctx, makeLoan(0, "b1b1b1b1b1b1b1b1b1b1b1b1b1b1b1b1")); err != nil {
			return err
		}
		return r.Ledger.Mint(ctx, alice, 10)
	})
	if err != nil {
		t.Fatalf("WithinTx commit err: %v", err)
	}

	if _, err := NewLoanRepository(db).GetByLoanID(ctx, 0); err != nil {
		t.Fatalf("loan not visible after commit: %v", err)
	}
	if bal, _ := NewLedgerRepository(db).GetBalance(ctx, alice); bal != 10 {
		t.Fatalf("mint not visible after commit: %d", bal)
	}
}

func TestGormUoW_WithinTx_Rollback(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	guow := NewGormUoW(db)
	if _, err := NewEngineRepository(db).EnsureConfig(ctx, engineDomain.NewConfig(10, 1000)); err != nil {
		t.Fatal(err)
	}

	sentinel := errors.New("boom")
	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		cfg, err := r.Engine.GetConfigForUpdate(ctx)
		if err != nil {
			return err
		}
		cfg.NextLoanID++
		if err := r.Engine.SaveConfig(ctx, cfg); err != nil {
			return err
		}
		if err := r.Ledger.Mint(ctx, alice, 10); err != nil {
			return err
		}
		if err := r.Loans.Create(ctx, makeLoan(0, "b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2")); err != nil {
			return err
		}
		return sentinel // force rollback
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel, got %v", err)
	}

	// None should exist after rollback
	if _, err := NewLoanRepository(db).GetByLoanID(ctx, 0); !errors.Is(err, loanDomain.ErrNotFound) {
		t.Fatalf("expected loan not found after rollback, got %v", err)
	}
	if bal, _ := NewLedgerRepository(db).GetBalance(ctx, alice); bal != 0 {
		t.Fatalf("mint survived rollback: %d", bal)
	}
	cfg, _ := NewEngineRepository(db).GetConfig(ctx)
	if cfg.NextLoanID != 0 {
		t.Fatalf("counter survived rollback: %d", cfg.NextLoanID)
	}
}

func TestGormUoW_WithinLoanTx_Commit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	guow := NewGormUoW(db)

	seed := makeLoan(5, "b3b3b3b3b3b3b3b3b3b3b3b3b3b3b3b3")
	if err := db.Create(seed).Error; err != nil {
		t.Fatalf("seed loan: %v", err)
	}

	err := guow.WithinLoanTx(ctx, 5, func(r uow.Repos, l *loanDomain.Loan) error {
		if l == nil || l.LoanID != 5 || !l.Active {
			t.Fatalf("unexpected loan passed to fn: %+v", l)
		}
		next, err := l.ApplyRepayment(l.Business, 250)
		if err != nil {
			return err
		}
		return r.Loans.Save(ctx, next)
	})
	if err != nil {
		t.Fatalf("WithinLoanTx commit err: %v", err)
	}

	got, err := NewLoanRepository(db).GetByLoanID(ctx, 5)
	if err != nil {
		t.Fatalf("GetByLoanID post-commit: %v", err)
	}
	if got.RepaidAmount != 250 {
		t.Fatalf("repayment not persisted, got=%d", got.RepaidAmount)
	}
}

func TestGormUoW_WithinLoanTx_LoanNotFound(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	guow := NewGormUoW(db)

	err := guow.WithinLoanTx(ctx, 404, func(r uow.Repos, l *loanDomain.Loan) error {
		t.Fatalf("callback should not be called when loan missing")
		return nil
	})
	if !errors.Is(err, loanDomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGormUoW_SerializesWriters(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	guow := NewGormUoW(db)
	if _, err := NewEngineRepository(db).EnsureConfig(ctx, engineDomain.NewConfig(1000, 0)); err != nil {
		t.Fatal(err)
	}

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = guow.WithinTx(ctx, func(r uow.Repos) error {
				cfg, err := r.Engine.GetConfigForUpdate(ctx)
				if err != nil {
					return err
				}
				cfg.NextLoanID++
				return r.Engine.SaveConfig(ctx, cfg)
			})
		}()
	}
	wg.Wait()

	cfg, err := NewEngineRepository(db).GetConfig(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.NextLoanID != writers {
		t.Fatalf("lost updates: next_loan_id = %d, want %d", cfg.NextLoanID, writers)
	}
}

func TestGormUoW_AfterCommitHooks(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	guow := NewGormUoW(db)

	var ran []string
	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Ledger.Mint(ctx, alice, 10); err != nil {
			return err
		}
		r.AfterCommit(func() {
			// the write is visible once the hook runs
			bal, _ := NewLedgerRepository(db).GetBalance(ctx, alice)
			ran = append(ran, "commit")
			if bal != 10 {
				t.Errorf("balance inside hook = %d, want 10", bal)
			}
		})
		return nil
	})
	if err != nil {
		t.Fatalf("WithinTx: %v", err)
	}

	sentinel := errors.New("boom")
	err = guow.WithinTx(ctx, func(r uow.Repos) error {
		r.AfterCommit(func() { ran = append(ran, "rollback") })
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel, got %v", err)
	}

	if len(ran) != 1 || ran[0] != "commit" {
		t.Fatalf("hooks run = %v, want only the committed one", ran)
	}
}

func TestGormUoW_AfterCommitFollowsCommitOrder(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	guow := NewGormUoW(db)
	if err := NewLoanRepository(db).Create(ctx, makeLoan(0, "b3b3b3b3b3b3b3b3b3b3b3b3b3b3b3b3")); err != nil {
		t.Fatal(err)
	}

	var (
		mu        sync.Mutex
		committed []int64
		hooked    []int64
		wg        sync.WaitGroup
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = guow.WithinLoanTx(ctx, 0, func(r uow.Repos, l *loanDomain.Loan) error {
				l.RepaidAmount++
				if err := r.Loans.Save(ctx, l); err != nil {
					return err
				}
				n := l.RepaidAmount
				mu.Lock()
				committed = append(committed, n)
				mu.Unlock()
				r.AfterCommit(func() {
					mu.Lock()
					hooked = append(hooked, n)
					mu.Unlock()
				})
				return nil
			})
		}()
	}
	wg.Wait()

	if len(hooked) != 8 {
		t.Fatalf("hooks run = %d, want 8", len(hooked))
	}
	for i := range hooked {
		if hooked[i] != committed[i] || hooked[i] != int64(i+1) {
			t.Fatalf("hook order %v, commit order %v", hooked, committed)
		}
	}
}
