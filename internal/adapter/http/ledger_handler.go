package http

import (
	"net/http"

	mw "impact-lending/internal/adapter/middleware"
	"impact-lending/internal/usecase/ledger"
	"impact-lending/pkg/id"

	"github.com/labstack/echo/v4"
)

type LedgerHandler struct{ uc *ledger.Usecase }

func NewLedgerHandler(uc *ledger.Usecase) *LedgerHandler { return &LedgerHandler{uc: uc} }

type mintReq struct {
	To     string `json:"to"     validate:"required,hex32"`
	Amount int64  `json:"amount"`
}

func (h *LedgerHandler) Mint(c echo.Context) error {
	var req mintReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Mint(c.Request().Context(), mw.CallerFrom(c), req.To, req.Amount)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LedgerHandler) Balance(c echo.Context) error {
	identity := c.Param("identity")
	if !id.IsHex32(identity) {
		return badRequest(c, "invalid identity")
	}
	dto, err := h.uc.Balance(c.Request().Context(), identity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
