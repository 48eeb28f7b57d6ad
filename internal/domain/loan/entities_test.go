package loan

import (
	"errors"
	"math"
	"testing"
)

const (
	business = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	creator  = "cccccccccccccccccccccccccccccccc"
)

func activeLoan(amount int64) *Loan {
	p := validParams()
	p.Business = business
	p.Amount = amount
	return NewLoan(0, creator, p, 1_700_000_000)
}

func TestNewLoan_InitialState(t *testing.T) {
	l := activeLoan(1000)
	if !l.Active || l.RepaidAmount != 0 {
		t.Fatalf("new loan must be active with nothing repaid: %+v", l)
	}
	if l.Creator != creator || l.Business != business {
		t.Fatalf("creator/business mismatch: %+v", l)
	}
	if l.Timestamp != 1_700_000_000 {
		t.Fatalf("timestamp = %d", l.Timestamp)
	}
}

func TestApplyRepayment(t *testing.T) {
	tests := []struct {
		name       string
		loan       func() *Loan
		caller     string
		amount     int64
		wantErr    error
		wantRepaid int64
		wantActive bool
	}{
		{name: "partial", loan: func() *Loan { return activeLoan(1000) }, caller: business, amount: 400, wantRepaid: 400, wantActive: true},
		{name: "exact closes", loan: func() *Loan { return activeLoan(1000) }, caller: business, amount: 1000, wantRepaid: 1000},
		{name: "overshoot closes and keeps literal sum", loan: func() *Loan { return activeLoan(1000) }, caller: business, amount: 1500, wantRepaid: 1500},
		{name: "not the business", loan: func() *Loan { return activeLoan(1000) }, caller: creator, amount: 10, wantErr: ErrNotBorrower},
		{name: "zero amount", loan: func() *Loan { return activeLoan(1000) }, caller: business, amount: 0, wantErr: ErrInvalidAmount},
		{name: "negative amount", loan: func() *Loan { return activeLoan(1000) }, caller: business, amount: -5, wantErr: ErrInvalidAmount},
		{
			name: "closed by repayment",
			loan: func() *Loan {
				l := activeLoan(1000)
				l.RepaidAmount, l.Active = 1000, false
				return l
			},
			caller: business, amount: 1, wantErr: ErrAlreadyRepaid,
		},
		{
			name: "closed loan checked before amount",
			loan: func() *Loan {
				l := activeLoan(1000)
				l.RepaidAmount, l.Active = 1000, false
				return l
			},
			caller: business, amount: 0, wantErr: ErrAlreadyRepaid,
		},
		{
			name: "inactive without repayment",
			loan: func() *Loan {
				l := activeLoan(1000)
				l.Active = false
				return l
			},
			caller: business, amount: 1, wantErr: ErrNotActive,
		},
		{
			// active but already covered, e.g. after an amendment lowered the amount
			name: "already repaid",
			loan: func() *Loan {
				l := activeLoan(1000)
				l.RepaidAmount = 1000
				return l
			},
			caller: business, amount: 1, wantErr: ErrAlreadyRepaid,
		},
		{
			name: "overflow",
			loan: func() *Loan {
				l := activeLoan(math.MaxInt64)
				l.RepaidAmount = math.MaxInt64 - 1
				return l
			},
			caller: business, amount: 2, wantErr: ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			l := tt.loan()
			before := *l
			next, err := l.ApplyRepayment(tt.caller, tt.amount)
			if *l != before {
				t.Fatalf("receiver mutated: %+v", l)
			}
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want err=%v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if next.RepaidAmount != tt.wantRepaid || next.Active != tt.wantActive {
				t.Fatalf("got repaid=%d active=%v, want %d/%v", next.RepaidAmount, next.Active, tt.wantRepaid, tt.wantActive)
			}
		})
	}
}

func TestApplyUpdate(t *testing.T) {
	l := activeLoan(1000)

	if _, _, err := l.ApplyUpdate(business, 2000, 5, 10); !errors.Is(err, ErrNotCreator) {
		t.Fatalf("business must not amend: %v", err)
	}
	if _, _, err := l.ApplyUpdate(creator, 0, 5, 10); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("want ErrInvalidAmount, got %v", err)
	}
	if _, _, err := l.ApplyUpdate(creator, 2000, 21, 10); !errors.Is(err, ErrInvalidInterestRate) {
		t.Fatalf("want ErrInvalidInterestRate, got %v", err)
	}

	next, u, err := l.ApplyUpdate(creator, 2000, 5, 1_700_000_500)
	if err != nil {
		t.Fatalf("ApplyUpdate: %v", err)
	}
	if next.Amount != 2000 || next.InterestRate != 5 || next.Timestamp != 1_700_000_500 {
		t.Fatalf("unexpected next: %+v", next)
	}
	// untouched fields carry over
	if next.Location != l.Location || next.Business != l.Business || next.RepaidAmount != l.RepaidAmount {
		t.Fatalf("fields dropped: %+v", next)
	}
	if u.LoanID != l.LoanID || u.Updater != creator || u.UpdateAmount != 2000 || u.UpdateInterestRate != 5 {
		t.Fatalf("unexpected update: %+v", u)
	}
}

func TestApplyUpdate_RepaidLoan(t *testing.T) {
	l := activeLoan(1000)
	l.RepaidAmount, l.Active = 1000, false

	next, _, err := l.ApplyUpdate(creator, 3000, 2, 10)
	if err != nil {
		t.Fatalf("repaid loans can still be amended: %v", err)
	}
	if next.Active {
		t.Fatalf("amendment must not reopen the loan")
	}
}
