package ledgermock

import (
	"context"
	"sync"

	domain "impact-lending/internal/domain/ledger"
)

var _ domain.Ledger = (*Ledger)(nil)

// Ledger is an in-memory domain.Ledger. Set the *Err fields to force a failure
// on the matching operation.
type Ledger struct {
	mu        sync.Mutex
	balances  map[string]int64
	movements []domain.Movement

	MintErr     error
	BurnErr     error
	TransferErr error
}

func New() *Ledger { return &Ledger{balances: map[string]int64{}} }

// Fund mints without recording a movement.
func (l *Ledger) Fund(identity string, amount int64) *Ledger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[identity] += amount
	return l
}

func (l *Ledger) Balance(identity string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[identity]
}

func (l *Ledger) Mint(_ context.Context, to string, amount int64) error {
	if l.MintErr != nil {
		return l.MintErr
	}
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[to] += amount
	l.movements = append(l.movements, domain.Movement{Kind: domain.MovementMint, To: to, Amount: amount})
	return nil
}

func (l *Ledger) Burn(_ context.Context, from string, amount int64) error {
	if l.BurnErr != nil {
		return l.BurnErr
	}
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balances[from] < amount {
		return domain.ErrInsufficientBalance
	}
	l.balances[from] -= amount
	l.movements = append(l.movements, domain.Movement{Kind: domain.MovementBurn, From: from, Amount: amount})
	return nil
}

func (l *Ledger) Transfer(_ context.Context, from, to string, amount int64) error {
	if l.TransferErr != nil {
		return l.TransferErr
	}
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}
	if from == to {
		return domain.ErrSelfTransfer
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balances[from] < amount {
		return domain.ErrInsufficientBalance
	}
	l.balances[from] -= amount
	l.balances[to] += amount
	l.movements = append(l.movements, domain.Movement{Kind: domain.MovementTransfer, From: from, To: to, Amount: amount})
	return nil
}

func (l *Ledger) GetBalance(_ context.Context, identity string) (int64, error) {
	return l.Balance(identity), nil
}

func (l *Ledger) Movements(_ context.Context, identity string) ([]domain.Movement, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []domain.Movement
	for _, m := range l.movements {
		if m.From == identity || m.To == identity {
			out = append(out, m)
		}
	}
	return out, nil
}
