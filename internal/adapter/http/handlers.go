package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Check pings one dependency (database, redis) for the health endpoint.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

type Handler struct{ checks []Check }

func NewHandler(checks ...Check) *Handler { return &Handler{checks: checks} }

// Health reports "ok" when every dependency answers, otherwise 503 with the
// failing dependency names.
func (h *Handler) Health(c echo.Context) error {
	failing := map[string]string{}
	for _, chk := range h.checks {
		if err := chk.Ping(c.Request().Context()); err != nil {
			failing[chk.Name] = err.Error()
		}
	}
	body := map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	}
	if len(failing) > 0 {
		body["status"] = "degraded"
		body["failing"] = failing
		return c.JSON(http.StatusServiceUnavailable, body)
	}
	return c.JSON(http.StatusOK, body)
}
