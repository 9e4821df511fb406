package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/compliancehub/identity-service/internal/api/middleware"
)

// ctxCallerID extracts the caller identity injected by the Auth middleware
// and fast-fails before any service call: a non-empty user id proves the
// middleware ran and the token verified.
func ctxCallerID(c echo.Context) (string, error) {
	id, _ := c.Get(middleware.CtxUserID).(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}
