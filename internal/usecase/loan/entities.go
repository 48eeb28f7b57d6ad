package loan

import (
	domain "impact-lending/internal/domain/loan"
)

type IssueLoanInput struct {
	Business        string `json:"business"`
	Amount          int64  `json:"amount"`
	InterestRate    int64  `json:"interest_rate"`
	RepaymentPeriod int64  `json:"repayment_period"`
	GracePeriod     int64  `json:"grace_period"`
	LoanType        string `json:"loan_type"`
	CollateralRate  int64  `json:"collateral_rate"`
	Location        string `json:"location"`
	Currency        string `json:"currency"`
	MinLoan         int64  `json:"min_loan"`
	MaxLoan         int64  `json:"max_loan"`
	PenaltyRate     int64  `json:"penalty_rate"`
	VotingThreshold int64  `json:"voting_threshold"`
}

func (in IssueLoanInput) params() domain.IssueParams {
	return domain.IssueParams{
		Business:        in.Business,
		Amount:          in.Amount,
		InterestRate:    in.InterestRate,
		RepaymentPeriod: in.RepaymentPeriod,
		GracePeriod:     in.GracePeriod,
		LoanType:        domain.Type(in.LoanType),
		CollateralRate:  in.CollateralRate,
		Location:        in.Location,
		Currency:        domain.Currency(in.Currency),
		MinLoan:         in.MinLoan,
		MaxLoan:         in.MaxLoan,
		PenaltyRate:     in.PenaltyRate,
		VotingThreshold: in.VotingThreshold,
	}
}

type LoanDTO struct {
	LoanID          uint64 `json:"loan_id"`
	Business        string `json:"business"`
	Amount          int64  `json:"amount"`
	InterestRate    int64  `json:"interest_rate"`
	RepaymentPeriod int64  `json:"repayment_period"`
	GracePeriod     int64  `json:"grace_period"`
	Timestamp       int64  `json:"timestamp"`
	Creator         string `json:"creator"`
	LoanType        string `json:"loan_type"`
	CollateralRate  int64  `json:"collateral_rate"`
	Location        string `json:"location"`
	Currency        string `json:"currency"`
	Status          bool   `json:"status"`
	MinLoan         int64  `json:"min_loan"`
	MaxLoan         int64  `json:"max_loan"`
	RepaidAmount    int64  `json:"repaid_amount"`
	PenaltyRate     int64  `json:"penalty_rate"`
	VotingThreshold int64  `json:"voting_threshold"`
}

func toDTO(l *domain.Loan) *LoanDTO {
	return &LoanDTO{
		LoanID:          l.LoanID,
		Business:        l.Business,
		Amount:          l.Amount,
		InterestRate:    l.InterestRate,
		RepaymentPeriod: l.RepaymentPeriod,
		GracePeriod:     l.GracePeriod,
		Timestamp:       l.Timestamp,
		Creator:         l.Creator,
		LoanType:        string(l.LoanType),
		CollateralRate:  l.CollateralRate,
		Location:        l.Location,
		Currency:        string(l.Currency),
		Status:          l.Active,
		MinLoan:         l.MinLoan,
		MaxLoan:         l.MaxLoan,
		RepaidAmount:    l.RepaidAmount,
		PenaltyRate:     l.PenaltyRate,
		VotingThreshold: l.VotingThreshold,
	}
}

type UpdateDTO struct {
	LoanID             uint64 `json:"loan_id"`
	UpdateAmount       int64  `json:"update_amount"`
	UpdateInterestRate int64  `json:"update_interest_rate"`
	UpdateTimestamp    int64  `json:"update_timestamp"`
	Updater            string `json:"updater"`
}

func toUpdateDTO(u *domain.Update) *UpdateDTO {
	return &UpdateDTO{
		LoanID:             u.LoanID,
		UpdateAmount:       u.UpdateAmount,
		UpdateInterestRate: u.UpdateInterestRate,
		UpdateTimestamp:    u.UpdateTimestamp,
		Updater:            u.Updater,
	}
}

// ExistenceDTO answers "does this business have a registry entry".
// LoanID is nil when Registered is false.
type ExistenceDTO struct {
	Business   string  `json:"business"`
	Registered bool    `json:"registered"`
	LoanID     *uint64 `json:"loan_id,omitempty"`
}
