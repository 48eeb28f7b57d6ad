package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Routes groups the handlers served by the API. Metrics may be nil.
type Routes struct {
	Health    *Handler
	Loans     *LoanHandler
	Authority *AuthorityHandler
	Returns   *ReturnsHandler
	Ledger    *LedgerHandler
	Metrics   http.Handler
}

// Register mounts every route on e. The mutating middlewares (caller identity,
// idempotency) wrap only routes that change state.
func (r Routes) Register(e *echo.Echo, mutating ...echo.MiddlewareFunc) {
	e.GET("/health", r.Health.Health)
	if r.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(r.Metrics))
	}

	admin := e.Group("/admin")
	admin.GET("/config", r.Authority.GetConfig)
	admin.GET("/verified-authorities/:identity", r.Authority.IsVerifiedAuthority)
	admin.PUT("/authority", r.Authority.SetAuthority, mutating...)
	admin.PUT("/max-loans", r.Authority.SetMaxLoans, mutating...)
	admin.PUT("/creation-fee", r.Authority.SetCreationFee, mutating...)
	admin.PUT("/verified-authorities/:identity", r.Authority.SetVerifiedAuthority, mutating...)

	loans := e.Group("/loans")
	loans.GET("/count", r.Loans.LoanCount)
	loans.GET("/:loan_id", r.Loans.GetLoan)
	loans.GET("/:loan_id/updates", r.Loans.GetLoanUpdates)
	loans.POST("", r.Loans.IssueLoan, mutating...)
	loans.PATCH("/:loan_id", r.Loans.UpdateLoan, mutating...)
	loans.POST("/:loan_id/repayments", r.Loans.RepayLoan, mutating...)

	businesses := e.Group("/businesses")
	businesses.GET("/:business/loan", r.Loans.BusinessLoan)
	businesses.GET("/:business/multiplier", r.Returns.Multiplier)
	businesses.POST("/:business/distributions", r.Returns.Distribute, mutating...)

	ledger := e.Group("/ledger")
	ledger.GET("/balances/:identity", r.Ledger.Balance)
	ledger.POST("/mint", r.Ledger.Mint, mutating...)
}
