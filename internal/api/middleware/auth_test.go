package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/studentsdesk/studentsdesk-api/internal/core/domain"
)

type stubVerifier map[string]string // token -> user id

func (s stubVerifier) VerifyToken(token string) (string, error) {
	id, ok := s[token]
	if !ok {
		return "", domain.ErrInvalidToken
	}
	return id, nil
}

var verifier = stubVerifier{"good-token": "user_1"}

func newContext(authHeader string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	c, rec := newContext("Bearer good-token")

	called := false
	handler := Auth(verifier)(func(c echo.Context) error {
		called = true
		id := IdentityFrom(c)
		if id == nil || id.UserID != "user_1" {
			t.Fatalf("identity not set: %+v", id)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	c, _ := newContext("")

	handler := Auth(verifier)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthMiddleware_InvalidHeaderFormat(t *testing.T) {
	for _, header := range []string{"Token abc", "Bearer", "Bearer   ", "Bearer bad-token"} {
		c, _ := newContext(header)

		handler := Auth(verifier)(func(c echo.Context) error {
			t.Fatalf("should not reach next for %q", header)
			return nil
		})

		if err := handler(c); !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("header %q: expected ErrInvalidToken, got %v", header, err)
		}
	}
}

func TestOptionalAuth_AnonymousPassesThrough(t *testing.T) {
	c, _ := newContext("")

	called := false
	handler := OptionalAuth(verifier)(func(c echo.Context) error {
		called = true
		if IdentityFrom(c) != nil {
			t.Fatalf("expected no identity")
		}
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestOptionalAuth_InvalidTokenRejected(t *testing.T) {
	c, _ := newContext("Bearer forged")

	handler := OptionalAuth(verifier)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestOptionalAuth_ValidTokenAttachesIdentity(t *testing.T) {
	c, _ := newContext("bearer good-token")

	handler := OptionalAuth(verifier)(func(c echo.Context) error {
		if id := IdentityFrom(c); id == nil || id.UserID != "user_1" {
			t.Fatalf("identity not set: %+v", id)
		}
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}
