package distribution

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"impact-lending/internal/domain/failure"
	impactDomain "impact-lending/internal/domain/impact"
	"impact-lending/internal/domain/ledger"
	"impact-lending/internal/domain/loan"
	"impact-lending/internal/domain/uow"
	"impact-lending/internal/events"
	"impact-lending/internal/testutil/impactmock"
	"impact-lending/internal/testutil/ledgermock"
	"impact-lending/internal/testutil/loanmock"
	"impact-lending/internal/testutil/uowmock"
	"impact-lending/internal/usecase/impact"
)

var (
	business = strings.Repeat("b", 32)
	stranger = strings.Repeat("f", 32)
)

func setup(repaid int64, goal, metric int64) (*Usecase, *ledgermock.Ledger, *events.Bus) {
	l := &loan.Loan{LoanID: 4, Business: business, Amount: 5000, RepaidAmount: repaid, Active: repaid < 5000}
	loans := &loanmock.Repo{
		GetByBusinessFn: func(_ context.Context, b string) (*loan.Loan, error) {
			if b != business {
				return nil, loan.ErrNotFound
			}
			return l, nil
		},
	}
	led := ledgermock.New().Fund(business, 5000)
	bus := events.NewBus()
	tx := uowmock.Passthrough(uow.Repos{Loans: loans, Ledger: led})
	return NewUsecase(loans, tx, impact.NewVerifier(impactmock.Fixed(goal, metric)), bus), led, bus
}

func TestDistribute_Success(t *testing.T) {
	uc, led, bus := setup(5000, 100, 120)
	got := make(chan events.Event, 1)
	bus.Subscribe(events.EventTypeReturnsDistributed, func(_ context.Context, e events.Event) { got <- e })

	res, err := uc.Distribute(context.Background(), business, business)
	if err != nil {
		t.Fatalf("Distribute: %v", err)
	}
	if res.Multiplier != 150 || res.TotalReturn != 7500 || res.Burned != 5000 || res.LoanID != 4 {
		t.Fatalf("result: %+v", res)
	}
	if led.Balance(business) != 0 {
		t.Fatalf("claim tokens not burned: %d", led.Balance(business))
	}

	select {
	case e := <-got:
		if ev := e.(events.ReturnsDistributedEvent); ev.TotalReturn != 7500 {
			t.Fatalf("event: %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatalf("ReturnsDistributedEvent not emitted")
	}
}

func TestDistribute_PartialRepaymentBaseMultiplier(t *testing.T) {
	uc, _, _ := setup(2001, 100, 50)
	res, err := uc.Distribute(context.Background(), business, business)
	if err != nil {
		t.Fatalf("Distribute: %v", err)
	}
	if res.Multiplier != 100 || res.TotalReturn != 2001 {
		t.Fatalf("result: %+v", res)
	}
}

func TestDistribute_Rejections(t *testing.T) {
	t.Run("unknown business", func(t *testing.T) {
		uc, _, _ := setup(5000, 100, 120)
		_, err := uc.Distribute(context.Background(), stranger, stranger)
		if !errors.Is(err, loan.ErrNotFound) {
			t.Fatalf("want ErrNotFound, got %v", err)
		}
	})

	t.Run("verification before caller check", func(t *testing.T) {
		uc, led, _ := setup(5000, 100, 120)
		uc.verifier = impact.NewVerifier(&impactmock.Registry{}, &impactmock.Oracle{})
		_, err := uc.Distribute(context.Background(), stranger, business)
		if !errors.Is(err, impactDomain.ErrVerificationUnavailable) {
			t.Fatalf("want ErrVerificationUnavailable, got %v", err)
		}
		if led.Balance(business) != 5000 {
			t.Fatalf("ledger touched")
		}
	})

	t.Run("caller is not the business", func(t *testing.T) {
		uc, led, _ := setup(5000, 100, 120)
		_, err := uc.Distribute(context.Background(), stranger, business)
		if !errors.Is(err, ErrNotBusiness) {
			t.Fatalf("want ErrNotBusiness, got %v", err)
		}
		if led.Balance(business) != 5000 {
			t.Fatalf("ledger touched")
		}
	})

	t.Run("burn fails", func(t *testing.T) {
		uc, led, _ := setup(5000, 100, 120)
		_ = led.Burn(context.Background(), business, 4000)
		_, err := uc.Distribute(context.Background(), business, business)
		if !errors.Is(err, ErrDistributionFailed) {
			t.Fatalf("want ErrDistributionFailed, got %v", err)
		}
		if failure.KindOf(err) != failure.DistributionFailed {
			t.Fatalf("kind = %q", failure.KindOf(err))
		}
		if !errors.Is(err, ledger.ErrInsufficientBalance) {
			t.Fatalf("cause not wrapped: %v", err)
		}
	})
}
