package http

import (
	"net/http"
	"strconv"

	mw "impact-lending/internal/adapter/middleware"
	"impact-lending/internal/usecase/loan"
	"impact-lending/pkg/id"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

// Only identity shape is validated here. Field values go to the engine, whose
// capacity check comes before its field validators.
type issueLoanReq struct {
	Business        string `json:"business"         validate:"hex32"`
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

type updateLoanReq struct {
	Amount       int64 `json:"amount"`
	InterestRate int64 `json:"interest_rate"`
}

type repayLoanReq struct {
	Amount int64 `json:"amount"`
}

func loanIDParam(c echo.Context) (uint64, bool) {
	loanID, err := strconv.ParseUint(c.Param("loan_id"), 10, 64)
	return loanID, err == nil
}

func (h *LoanHandler) IssueLoan(c echo.Context) error {
	caller := mw.CallerFrom(c)
	if caller == "" {
		return badRequest(c, errMissingCaller.Error())
	}
	var req issueLoanReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	loanID, err := h.uc.Issue(c.Request().Context(), caller, loan.IssueLoanInput(req))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]uint64{"loan_id": loanID})
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	loanID, ok := loanIDParam(c)
	if !ok {
		return badRequest(c, "invalid loan_id")
	}
	dto, found, err := h.uc.Get(c.Request().Context(), loanID)
	if err != nil {
		return respondError(c, err)
	}
	if !found {
		return notFound(c, "loan not found")
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) GetLoanUpdates(c echo.Context) error {
	loanID, ok := loanIDParam(c)
	if !ok {
		return badRequest(c, "invalid loan_id")
	}
	dto, found, err := h.uc.GetUpdate(c.Request().Context(), loanID)
	if err != nil {
		return respondError(c, err)
	}
	if !found {
		return notFound(c, "no update recorded for loan")
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) UpdateLoan(c echo.Context) error {
	caller := mw.CallerFrom(c)
	if caller == "" {
		return badRequest(c, errMissingCaller.Error())
	}
	loanID, ok := loanIDParam(c)
	if !ok {
		return badRequest(c, "invalid loan_id")
	}
	var req updateLoanReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Update(c.Request().Context(), caller, loanID, req.Amount, req.InterestRate)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) RepayLoan(c echo.Context) error {
	caller := mw.CallerFrom(c)
	if caller == "" {
		return badRequest(c, errMissingCaller.Error())
	}
	loanID, ok := loanIDParam(c)
	if !ok {
		return badRequest(c, "invalid loan_id")
	}
	var req repayLoanReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Repay(c.Request().Context(), caller, loanID, req.Amount)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) LoanCount(c echo.Context) error {
	n, err := h.uc.Count(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]uint64{"count": n})
}

// BusinessLoan answers both "is this business registered" and "which loan is it".
func (h *LoanHandler) BusinessLoan(c echo.Context) error {
	business := c.Param("business")
	if !id.IsHex32(business) {
		return badRequest(c, "invalid business identity")
	}
	dto, err := h.uc.CheckExistence(c.Request().Context(), business)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
