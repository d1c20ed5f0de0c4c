package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/studentsdesk/studentsdesk-api/internal/core/domain"
	"github.com/studentsdesk/studentsdesk-api/internal/core/ports"
)

const identityKey = "identity"

// Auth requires a valid bearer token and attaches the caller's identity.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return authenticate(verifier, true)
}

// OptionalAuth attaches the caller's identity when a bearer token is sent.
// A request without a token passes through anonymously; a token that is
// present but invalid is rejected.
func OptionalAuth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return authenticate(verifier, false)
}

func authenticate(verifier ports.TokenVerifier, required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				if required {
					return domain.ErrUnauthenticated
				}
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return domain.ErrInvalidToken
			}

			userID, err := verifier.VerifyToken(strings.TrimSpace(parts[1]))
			if err != nil {
				return domain.ErrInvalidToken
			}

			c.Set(identityKey, &domain.Identity{UserID: userID})
			return next(c)
		}
	}
}

// IdentityFrom returns the identity attached by Auth or OptionalAuth, or nil
// for an anonymous request.
func IdentityFrom(c echo.Context) *domain.Identity {
	id, _ := c.Get(identityKey).(*domain.Identity)
	return id
}
