package http

import (
	"errors"
	"net/http"

	"impact-lending/internal/domain/failure"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

var errMissingCaller = errors.New("missing caller identity")

var kindStatus = map[failure.Kind]int{
	failure.NotAuthorized:           http.StatusForbidden,
	failure.AlreadyExists:           http.StatusConflict,
	failure.InvalidParameter:        http.StatusUnprocessableEntity,
	failure.NotFound:                http.StatusNotFound,
	failure.NotActive:               http.StatusConflict,
	failure.AlreadyRepaid:           http.StatusConflict,
	failure.CapacityExceeded:        http.StatusConflict,
	failure.AuthorityNotConfigured:  http.StatusPreconditionFailed,
	failure.VerificationUnavailable: http.StatusFailedDependency,
	failure.DistributionFailed:      http.StatusBadGateway,
	failure.TransferFailed:          http.StatusPaymentRequired,
}

// StatusFor maps an error kind to its HTTP status; errors without a kind are 500.
func StatusFor(err error) int {
	if code, ok := kindStatus[failure.KindOf(err)]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// respondError writes the error body. Infrastructure errors are logged and their
// message is not exposed.
func respondError(c echo.Context, err error) error {
	kind := failure.KindOf(err)
	if kind == "" {
		log.WithFields(log.Fields{
			"method": c.Request().Method,
			"path":   c.Path(),
			"error":  err,
		}).Error("Request failed")
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(StatusFor(err), ErrorResponse{
		Error: err.Error(),
		Kind:  string(kind),
		Field: failure.FieldOf(err),
	})
}

func notFound(c echo.Context, msg string) error {
	return c.JSON(http.StatusNotFound, ErrorResponse{Error: msg, Kind: string(failure.NotFound)})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

// bindValid binds the body into req and runs struct validation. It writes the error
// response itself and reports whether the handler should go on.
func bindValid(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, badRequest(c, "invalid body")
	}
	if err := c.Validate(req); err != nil {
		details := ToFieldErrors(err)
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Kind:    string(failure.InvalidParameter),
			Field:   details[0].Field,
			Details: details,
		})
	}
	return true, nil
}
