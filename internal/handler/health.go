package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health responds with a plain "ok" so load balancers can probe the
// service without touching the database.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
