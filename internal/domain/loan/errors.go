package loan

import "impact-lending/internal/domain/failure"

var (
	ErrNotFound         = failure.New(failure.NotFound, "loan not found")
	ErrDuplicateLoan    = failure.New(failure.AlreadyExists, "business already has a loan")
	ErrNotActive        = failure.New(failure.NotActive, "loan is not active")
	ErrAlreadyRepaid    = failure.New(failure.AlreadyRepaid, "loan already repaid")
	ErrCapacityExceeded = failure.New(failure.CapacityExceeded, "loan capacity exceeded")
	ErrNotIssuer        = failure.New(failure.NotAuthorized, "caller is not a verified authority")
	ErrNotBorrower      = failure.New(failure.NotAuthorized, "caller is not the borrowing business")
	ErrNotCreator       = failure.New(failure.NotAuthorized, "caller is not the loan creator")

	ErrInvalidAmount          = failure.Invalid("amount", "invalid amount")
	ErrInvalidInterestRate    = failure.Invalid("interest_rate", "interest rate must be between 0 and 20")
	ErrInvalidRepaymentPeriod = failure.Invalid("repayment_period", "repayment period must be positive")
	ErrInvalidGracePeriod     = failure.Invalid("grace_period", "grace period must be between 0 and 30")
	ErrInvalidLoanType        = failure.Invalid("loan_type", "loan type must be micro, small or impact")
	ErrInvalidCollateralRate  = failure.Invalid("collateral_rate", "collateral rate must be between 0 and 100")
	ErrInvalidLocation        = failure.Invalid("location", "location must be 1 to 100 characters")
	ErrInvalidCurrency        = failure.Invalid("currency", "currency must be STX, USD or BTC")
	ErrInvalidMinLoan         = failure.Invalid("min_loan", "min loan must be positive")
	ErrInvalidMaxLoan         = failure.Invalid("max_loan", "max loan must be positive")
	ErrInvalidPenaltyRate     = failure.Invalid("penalty_rate", "penalty rate must be between 0 and 100")
	ErrInvalidVotingThreshold = failure.Invalid("voting_threshold", "voting threshold must be between 1 and 100")
)
