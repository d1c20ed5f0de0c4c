package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/studentsdesk/studentsdesk-api/internal/core/domain"
)

// RequireIdentity rejects anonymous requests. It is stacked after
// OptionalAuth on routes that need an authenticated caller.
func RequireIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if IdentityFrom(c) == nil {
				return domain.ErrUnauthenticated
			}
			return next(c)
		}
	}
}
