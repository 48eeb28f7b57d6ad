package http

import (
	"net/http"

	mw "impact-lending/internal/adapter/middleware"
	"impact-lending/internal/usecase/authority"
	"impact-lending/pkg/id"

	"github.com/labstack/echo/v4"
)

type AuthorityHandler struct{ uc *authority.Usecase }

func NewAuthorityHandler(uc *authority.Usecase) *AuthorityHandler {
	return &AuthorityHandler{uc: uc}
}

type setAuthorityReq struct {
	Identity string `json:"identity" validate:"required,hex32"`
}

type setMaxLoansReq struct {
	MaxLoans uint64 `json:"max_loans"`
}

type setCreationFeeReq struct {
	CreationFee int64 `json:"creation_fee"`
}

type setVerifiedReq struct {
	Verified *bool `json:"verified" validate:"required"`
}

func (h *AuthorityHandler) SetAuthority(c echo.Context) error {
	var req setAuthorityReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, err := h.uc.SetAuthority(c.Request().Context(), mw.CallerFrom(c), req.Identity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AuthorityHandler) SetMaxLoans(c echo.Context) error {
	var req setMaxLoansReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, err := h.uc.SetMaxLoans(c.Request().Context(), mw.CallerFrom(c), req.MaxLoans)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AuthorityHandler) SetCreationFee(c echo.Context) error {
	var req setCreationFeeReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, err := h.uc.SetCreationFee(c.Request().Context(), mw.CallerFrom(c), req.CreationFee)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AuthorityHandler) SetVerifiedAuthority(c echo.Context) error {
	identity := c.Param("identity")
	if !id.IsHex32(identity) {
		return badRequest(c, "invalid identity")
	}
	var req setVerifiedReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, err := h.uc.SetVerifiedAuthority(c.Request().Context(), mw.CallerFrom(c), identity, *req.Verified)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AuthorityHandler) IsVerifiedAuthority(c echo.Context) error {
	identity := c.Param("identity")
	if !id.IsHex32(identity) {
		return badRequest(c, "invalid identity")
	}
	ok, err := h.uc.IsVerifiedAuthority(c.Request().Context(), identity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, authority.VerifiedDTO{Identity: identity, Verified: ok})
}

func (h *AuthorityHandler) GetConfig(c echo.Context) error {
	dto, err := h.uc.Config(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
