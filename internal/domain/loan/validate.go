package loan

import "unicode/utf8"

const (
	MaxInterestRate    = 20
	MaxGracePeriod     = 30
	MaxCollateralRate  = 100
	MaxPenaltyRate     = 100
	MaxVotingThreshold = 100
	MaxLocationLength  = 100
)

func ValidateAmount(v int64) error {
	if v <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func ValidateInterestRate(v int64) error {
	if v < 0 || v > MaxInterestRate {
		return ErrInvalidInterestRate
	}
	return nil
}

func ValidateRepaymentPeriod(v int64) error {
	if v <= 0 {
		return ErrInvalidRepaymentPeriod
	}
	return nil
}

func ValidateGracePeriod(v int64) error {
	if v < 0 || v > MaxGracePeriod {
		return ErrInvalidGracePeriod
	}
	return nil
}

func ValidateLoanType(t Type) error {
	switch t {
	case TypeMicro, TypeSmall, TypeImpact:
		return nil
	}
	return ErrInvalidLoanType
}

func ValidateCollateralRate(v int64) error {
	if v < 0 || v > MaxCollateralRate {
		return ErrInvalidCollateralRate
	}
	return nil
}

// ValidateLocation counts characters, not bytes.
func ValidateLocation(s string) error {
	n := utf8.RuneCountInString(s)
	if n < 1 || n > MaxLocationLength {
		return ErrInvalidLocation
	}
	return nil
}

func ValidateCurrency(c Currency) error {
	switch c {
	case CurrencySTX, CurrencyUSD, CurrencyBTC:
		return nil
	}
	return ErrInvalidCurrency
}

func ValidateMinLoan(v int64) error {
	if v <= 0 {
		return ErrInvalidMinLoan
	}
	return nil
}

func ValidateMaxLoan(v int64) error {
	if v <= 0 {
		return ErrInvalidMaxLoan
	}
	return nil
}

func ValidatePenaltyRate(v int64) error {
	if v < 0 || v > MaxPenaltyRate {
		return ErrInvalidPenaltyRate
	}
	return nil
}

func ValidateVotingThreshold(v int64) error {
	if v <= 0 || v > MaxVotingThreshold {
		return ErrInvalidVotingThreshold
	}
	return nil
}

// Validate runs every field check in order and returns the first failure.
// MinLoan and MaxLoan are checked for well-formedness only, not against Amount.
// There is no timestamp to check: NewLoan stamps the record with the engine clock.
func (p IssueParams) Validate() error {
	checks := []func() error{
		func() error { return ValidateAmount(p.Amount) },
		func() error { return ValidateInterestRate(p.InterestRate) },
		func() error { return ValidateRepaymentPeriod(p.RepaymentPeriod) },
		func() error { return ValidateGracePeriod(p.GracePeriod) },
		func() error { return ValidateLoanType(p.LoanType) },
		func() error { return ValidateCollateralRate(p.CollateralRate) },
		func() error { return ValidateLocation(p.Location) },
		func() error { return ValidateCurrency(p.Currency) },
		func() error { return ValidateMinLoan(p.MinLoan) },
		func() error { return ValidateMaxLoan(p.MaxLoan) },
		func() error { return ValidatePenaltyRate(p.PenaltyRate) },
		func() error { return ValidateVotingThreshold(p.VotingThreshold) },
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}
