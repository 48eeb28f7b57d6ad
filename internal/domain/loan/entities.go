package loan

import (
	"math"
	"time"
)

type Type string

const (
	TypeMicro  Type = "micro"
	TypeSmall  Type = "small"
	TypeImpact Type = "impact"
)

type Currency string

const (
	CurrencySTX Currency = "STX"
	CurrencyUSD Currency = "USD"
	CurrencyBTC Currency = "BTC"
)

// Loan is one registry entry. LoanID is the public sequential id; ID is the row key.
// Loans are never deleted: repaid loans stay queryable as history.
type Loan struct {
	ID              uint64    `gorm:"primaryKey;autoIncrement;column:id" json:"-"`
	LoanID          uint64    `gorm:"column:loan_id;not null;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	Business        string    `gorm:"column:business;size:32;not null;uniqueIndex:ux_loans_business" json:"business"`
	Amount          int64     `gorm:"column:amount;not null" json:"amount"`
	InterestRate    int64     `gorm:"column:interest_rate;not null" json:"interest_rate"`
	RepaymentPeriod int64     `gorm:"column:repayment_period;not null" json:"repayment_period"`
	GracePeriod     int64     `gorm:"column:grace_period;not null" json:"grace_period"`
	Timestamp       int64     `gorm:"column:timestamp;not null" json:"timestamp"`
	Creator         string    `gorm:"column:creator;size:32;not null" json:"creator"`
	LoanType        Type      `gorm:"column:loan_type;size:16;not null" json:"loan_type"`
	CollateralRate  int64     `gorm:"column:collateral_rate;not null" json:"collateral_rate"`
	Location        string    `gorm:"column:location;size:400;not null" json:"location"`
	Currency        Currency  `gorm:"column:currency;size:8;not null" json:"currency"`
	Active          bool      `gorm:"column:active;not null" json:"status"`
	MinLoan         int64     `gorm:"column:min_loan;not null" json:"min_loan"`
	MaxLoan         int64     `gorm:"column:max_loan;not null" json:"max_loan"`
	RepaidAmount    int64     `gorm:"column:repaid_amount;not null" json:"repaid_amount"`
	PenaltyRate     int64     `gorm:"column:penalty_rate;not null" json:"penalty_rate"`
	VotingThreshold int64     `gorm:"column:voting_threshold;not null" json:"voting_threshold"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// Update is the single-slot snapshot of the latest amendment to a loan.
type Update struct {
	ID                 uint64    `gorm:"primaryKey;autoIncrement;column:id" json:"-"`
	LoanID             uint64    `gorm:"column:loan_id;not null;uniqueIndex:ux_loan_updates_loan_id" json:"loan_id"`
	UpdateAmount       int64     `gorm:"column:update_amount;not null" json:"update_amount"`
	UpdateInterestRate int64     `gorm:"column:update_interest_rate;not null" json:"update_interest_rate"`
	UpdateTimestamp    int64     `gorm:"column:update_timestamp;not null" json:"update_timestamp"`
	Updater            string    `gorm:"column:updater;size:32;not null" json:"updater"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Update) TableName() string { return "loan_updates" }

// IssueParams are the caller-supplied terms of a new loan.
type IssueParams struct {
	Business        string
	Amount          int64
	InterestRate    int64
	RepaymentPeriod int64
	GracePeriod     int64
	LoanType        Type
	CollateralRate  int64
	Location        string
	Currency        Currency
	MinLoan         int64
	MaxLoan         int64
	PenaltyRate     int64
	VotingThreshold int64
}

// NewLoan builds the initial record for validated params.
func NewLoan(loanID uint64, creator string, p IssueParams, now int64) *Loan {
	return &Loan{
		LoanID:          loanID,
		Business:        p.Business,
		Amount:          p.Amount,
		InterestRate:    p.InterestRate,
		RepaymentPeriod: p.RepaymentPeriod,
		GracePeriod:     p.GracePeriod,
		Timestamp:       now,
		Creator:         creator,
		LoanType:        p.LoanType,
		CollateralRate:  p.CollateralRate,
		Location:        p.Location,
		Currency:        p.Currency,
		Active:          true,
		MinLoan:         p.MinLoan,
		MaxLoan:         p.MaxLoan,
		RepaidAmount:    0,
		PenaltyRate:     p.PenaltyRate,
		VotingThreshold: p.VotingThreshold,
	}
}

// Repaid reports whether the principal has been fully covered.
func (l *Loan) Repaid() bool { return l.RepaidAmount >= l.Amount }

// ApplyRepayment returns the full next record after a repayment by caller.
// The receiver is not modified, so a rejected repayment leaves no trace.
// A loan closed by repayment reports ErrAlreadyRepaid; ErrNotActive is kept for
// inactive loans whose principal is not covered.
func (l *Loan) ApplyRepayment(caller string, amount int64) (*Loan, error) {
	if caller != l.Business {
		return nil, ErrNotBorrower
	}
	if !l.Active {
		if l.Repaid() {
			return nil, ErrAlreadyRepaid
		}
		return nil, ErrNotActive
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if l.Repaid() {
		return nil, ErrAlreadyRepaid
	}
	if amount > math.MaxInt64-l.RepaidAmount {
		return nil, ErrInvalidAmount
	}
	next := *l
	next.RepaidAmount = l.RepaidAmount + amount
	next.Active = next.RepaidAmount < next.Amount
	return &next, nil
}

// ApplyUpdate returns the full next record and update slot for an amendment by caller.
// Status is not checked: repaid loans can still be amended.
func (l *Loan) ApplyUpdate(caller string, amount, interestRate, now int64) (*Loan, *Update, error) {
	if caller != l.Creator {
		return nil, nil, ErrNotCreator
	}
	if err := ValidateAmount(amount); err != nil {
		return nil, nil, err
	}
	if err := ValidateInterestRate(interestRate); err != nil {
		return nil, nil, err
	}
	next := *l
	next.Amount = amount
	next.InterestRate = interestRate
	next.Timestamp = now
	u := &Update{
		LoanID:             l.LoanID,
		UpdateAmount:       amount,
		UpdateInterestRate: interestRate,
		UpdateTimestamp:    now,
		Updater:            caller,
	}
	return &next, u, nil
}
