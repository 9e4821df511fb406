package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireStaff fast-fails requests whose token does not carry the staff
// claim. The claim is a cache hint: the service layer re-checks the stored
// record, so a stale claim can short-circuit to 403 here but can never grant
// access the store would deny.
func RequireStaff() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			staff, _ := c.Get(CtxIsStaff).(bool)
			if !staff {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "staff privilege required"})
			}
			return next(c)
		}
	}
}
