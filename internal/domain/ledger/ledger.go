package ledger

import "context"

// Ledger is the external fungible-value ledger the engine pays fees into and burns
// claim tokens from. Every rejection carries the TransferFailed kind.
type Ledger interface {
	Mint(ctx context.Context, to string, amount int64) error
	Burn(ctx context.Context, from string, amount int64) error
	Transfer(ctx context.Context, from, to string, amount int64) error
	GetBalance(ctx context.Context, identity string) (int64, error)
	Movements(ctx context.Context, identity string) ([]Movement, error)
}
