package distribution

import (
	"math"
	"math/bits"

	"impact-lending/internal/domain/failure"
	"impact-lending/internal/domain/impact"
)

var (
	ErrDistributionFailed = failure.New(failure.DistributionFailed, "returns distribution failed")
	ErrNotBusiness        = failure.New(failure.NotAuthorized, "caller is not the borrowing business")
	ErrReturnOverflow     = failure.New(failure.DistributionFailed, "total return exceeds the representable range")
	errNegativeOperand    = failure.Invalid("repaid_amount", "repaid amount and multiplier must not be negative")
)

// TotalReturn is floor(repaid * multiplier / 100). The product is kept in 128 bits,
// so only a quotient that does not fit int64 is rejected.
func TotalReturn(repaid, multiplier int64) (int64, error) {
	if repaid < 0 || multiplier < 0 {
		return 0, errNegativeOperand
	}
	hi, lo := bits.Mul64(uint64(repaid), uint64(multiplier))
	base := uint64(impact.MultiplierBase)
	if hi >= base {
		return 0, ErrReturnOverflow
	}
	quo, _ := bits.Div64(hi, lo, base)
	if quo > math.MaxInt64 {
		return 0, ErrReturnOverflow
	}
	return int64(quo), nil
}
