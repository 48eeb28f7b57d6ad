package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"impact-lending/pkg/id"
)

const (
	HeaderCallerID = "Ax-Caller-Id"
	callerKey      = "caller_identity"
)

// CallerIdentity requires an Ax-Caller-Id header holding a 32-char lowercase hex
// identity and stores it on the context for CallerFrom.
func CallerIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller := strings.TrimSpace(c.Request().Header.Get(HeaderCallerID))
			if caller == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing " + HeaderCallerID})
			}
			if !id.IsHex32(caller) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid " + HeaderCallerID})
			}
			c.Set(callerKey, caller)
			return next(c)
		}
	}
}

// CallerFrom returns the identity stored by CallerIdentity, or "".
func CallerFrom(c echo.Context) string {
	caller, _ := c.Get(callerKey).(string)
	return caller
}
