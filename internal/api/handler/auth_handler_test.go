package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/studentsdesk/studentsdesk-api/internal/api/middleware"
	"github.com/studentsdesk/studentsdesk-api/internal/core/domain"
	"github.com/studentsdesk/studentsdesk-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, data map[string]any) (*ports.AuthResult, error)
	loginFn    func(ctx context.Context, data map[string]any) (*ports.AuthResult, error)
	demoFn     func(ctx context.Context) (*ports.AuthResult, error)
	meFn       func(ctx context.Context, identity *domain.Identity) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, data map[string]any) (*ports.AuthResult, error) {
	return s.registerFn(ctx, data)
}

func (s *stubAuthService) Login(ctx context.Context, data map[string]any) (*ports.AuthResult, error) {
	return s.loginFn(ctx, data)
}

func (s *stubAuthService) DemoLogin(ctx context.Context) (*ports.AuthResult, error) {
	return s.demoFn(ctx)
}

func (s *stubAuthService) EnsureUser(context.Context, string, string, string, string) (bool, error) {
	return false, nil
}

func (s *stubAuthService) Me(ctx context.Context, identity *domain.Identity) (*domain.User, error) {
	return s.meFn(ctx, identity)
}

// stubVerifier accepts "Bearer token-<id>" for any id.
type stubVerifier struct{}

func (stubVerifier) VerifyToken(token string) (string, error) {
	id, ok := strings.CutPrefix(token, "token-")
	if !ok {
		return "", domain.ErrInvalidToken
	}
	return id, nil
}

func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// asUser runs h behind OptionalAuth with a token for userID.
func asUser(c echo.Context, userID string, h echo.HandlerFunc) error {
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer token-"+userID)
	return middleware.OptionalAuth(stubVerifier{})(h)(c)
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, data map[string]any) (*ports.AuthResult, error) {
			if data["email"] != "alice@example.com" || data["firstName"] != "Alice" {
				t.Fatalf("unexpected body: %+v", data)
			}
			return &ports.AuthResult{
				Token: "jwt",
				User:  &domain.User{ID: "user_1", Email: "alice@example.com", FirstName: "Alice", LastName: "Liddell"},
			}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/api/auth/register",
		`{"email":"alice@example.com","password":"secret","firstName":"Alice","lastName":"Liddell"}`)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	resp := decodeMap(t, rec)
	if resp["success"] != true || resp["message"] != "Account created successfully" || resp["token"] != "jwt" {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if user["id"] != "user_1" || user["email"] != "alice@example.com" || user["lastName"] != "Liddell" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if _, leaked := user["password"]; leaked {
		t.Fatalf("password leaked: %+v", user)
	}
}

func TestAuthHandler_Register_UserExists(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, data map[string]any) (*ports.AuthResult, error) {
			return nil, domain.ErrUserExists
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newJSONContext(http.MethodPost, "/api/auth/register", `{"email":"bob@example.com","password":"secret"}`)

	if err := handler.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Register_EmptyBodyReachesService(t *testing.T) {
	called := false
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, data map[string]any) (*ports.AuthResult, error) {
			called = true
			if len(data) != 0 {
				t.Fatalf("expected empty map, got %+v", data)
			}
			return nil, domain.NewValidationError(map[string]string{"email": "Email is required"})
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newJSONContext(http.MethodPost, "/api/auth/register", "")

	if err := handler.Register(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !called {
		t.Fatalf("service not called")
	}
}

func TestAuthHandler_Login_MalformedJSON(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, data map[string]any) (*ports.AuthResult, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newJSONContext(http.MethodPost, "/api/auth/login", `{"email":`)

	err := handler.Login(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, data map[string]any) (*ports.AuthResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newJSONContext(http.MethodPost, "/api/auth/login", `{"email":"a@example.com","password":"wrong"}`)

	if err := handler.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Demo(t *testing.T) {
	stub := &stubAuthService{
		demoFn: func(ctx context.Context) (*ports.AuthResult, error) {
			return &ports.AuthResult{Token: "demo-jwt", User: &domain.User{ID: "user_9", Email: "demo@studentsdesk.com"}}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/api/auth/demo", "")

	if err := handler.Demo(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	resp := decodeMap(t, rec)
	if resp["message"] != "Demo login successful" || resp["token"] != "demo-jwt" {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
	user := resp["user"].(map[string]any)
	if len(user) != 2 || user["id"] != "user_9" {
		t.Fatalf("expected only id and email, got %+v", user)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	stub := &stubAuthService{
		meFn: func(ctx context.Context, identity *domain.Identity) (*domain.User, error) {
			if identity == nil || identity.UserID != "user_1" {
				t.Fatalf("unexpected identity: %+v", identity)
			}
			return &domain.User{ID: "user_1", Email: "alice@example.com", PasswordHash: "hash"}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newJSONContext(http.MethodGet, "/api/auth/me", "")

	if err := asUser(c, "user_1", handler.Me); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	resp := decodeMap(t, rec)
	user := resp["user"].(map[string]any)
	if resp["success"] != true || user["email"] != "alice@example.com" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if strings.Contains(rec.Body.String(), "hash") {
		t.Fatalf("password hash leaked: %s", rec.Body.String())
	}
}
