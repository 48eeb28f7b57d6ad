package http

import (
	"net/http"

	mw "impact-lending/internal/adapter/middleware"
	"impact-lending/internal/usecase/distribution"
	"impact-lending/internal/usecase/impact"
	"impact-lending/pkg/id"

	"github.com/labstack/echo/v4"
)

type ReturnsHandler struct {
	verifier *impact.Verifier
	uc       *distribution.Usecase
}

func NewReturnsHandler(v *impact.Verifier, uc *distribution.Usecase) *ReturnsHandler {
	return &ReturnsHandler{verifier: v, uc: uc}
}

func (h *ReturnsHandler) Multiplier(c echo.Context) error {
	business := c.Param("business")
	if !id.IsHex32(business) {
		return badRequest(c, "invalid business identity")
	}
	dto, err := h.verifier.ComputeMultiplier(c.Request().Context(), business)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ReturnsHandler) Distribute(c echo.Context) error {
	caller := mw.CallerFrom(c)
	if caller == "" {
		return badRequest(c, errMissingCaller.Error())
	}
	business := c.Param("business")
	if !id.IsHex32(business) {
		return badRequest(c, "invalid business identity")
	}
	dto, err := h.uc.Distribute(c.Request().Context(), caller, business)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
