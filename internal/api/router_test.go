package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studentsdesk/studentsdesk-api/internal/core/domain"
	"github.com/studentsdesk/studentsdesk-api/internal/core/ports"
)

type fakeStudents struct {
	mu       sync.Mutex
	lastCall string
	lastID   *domain.Identity
}

func (f *fakeStudents) note(call string, id *domain.Identity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastCall, f.lastID = call, id
}

func (f *fakeStudents) ListStudents(_ context.Context, id *domain.Identity, _ ports.ListStudentsInput) (*ports.ListStudentsResult, error) {
	f.note("list", id)
	return &ports.ListStudentsResult{CurrentPage: 1}, nil
}

func (f *fakeStudents) GetStudent(_ context.Context, _ string, id *domain.Identity) (*domain.Student, error) {
	f.note("get", id)
	return nil, domain.ErrStudentNotFound
}

func (f *fakeStudents) CreateStudent(_ context.Context, _ map[string]any, id *domain.Identity) (*domain.Student, error) {
	f.note("create", id)
	return nil, domain.NewValidationError(map[string]string{"name": "Student name is required"})
}

func (f *fakeStudents) UpdateStudent(_ context.Context, _ string, _ map[string]any, id *domain.Identity) (*domain.Student, error) {
	f.note("update", id)
	return nil, domain.ErrForbidden
}

func (f *fakeStudents) DeleteStudent(_ context.Context, _ string, id *domain.Identity) error {
	f.note("delete", id)
	return nil
}

func (f *fakeStudents) StudentStats(_ context.Context, id *domain.Identity) (*domain.StudentStats, error) {
	f.note("stats", id)
	return &domain.StudentStats{ByCourse: []domain.CountByKey{}, ByStatus: []domain.CountByKey{}}, nil
}

type fakeAuth struct{}

func (fakeAuth) Register(context.Context, map[string]any) (*ports.AuthResult, error) {
	return nil, domain.ErrUserExists
}

func (fakeAuth) Login(context.Context, map[string]any) (*ports.AuthResult, error) {
	return nil, domain.ErrInvalidCredentials
}

func (fakeAuth) DemoLogin(context.Context) (*ports.AuthResult, error) {
	return &ports.AuthResult{Token: "t", User: &domain.User{ID: "demo", Email: "demo@studentsdesk.com"}}, nil
}

func (fakeAuth) EnsureUser(context.Context, string, string, string, string) (bool, error) {
	return false, nil
}

func (fakeAuth) Me(_ context.Context, id *domain.Identity) (*domain.User, error) {
	return &domain.User{ID: id.UserID, Email: "me@example.com"}, nil
}

func (fakeAuth) VerifyToken(token string) (string, error) {
	if token != "valid" {
		return "", domain.ErrInvalidToken
	}
	return "user_1", nil
}

var (
	routerOnce sync.Once
	testRouter *echo.Echo
	students   = &fakeStudents{}
)

// router builds the Echo instance once; the HTTP metrics middleware
// registers its collectors globally.
func router() *echo.Echo {
	routerOnce.Do(func() {
		testRouter = NewRouter(Dependencies{
			Students:    students,
			Auth:        fakeAuth{},
			Verifier:    fakeAuth{},
			CORSOrigins: []string{"http://localhost:5173"},
			Log:         zerolog.Nop(),
		})
	})
	return testRouter
}

func serve(method, target, token, body string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router().ServeHTTP(rec, req)

	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec, resp
}

func TestRouter_UnknownRoute(t *testing.T) {
	rec, resp := serve(http.MethodGet, "/api/nothing-here", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, map[string]any{"success": false, "message": "Route not found"}, resp)
}

func TestRouter_Health(t *testing.T) {
	rec, resp := serve(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", resp["status"])
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestRouter_ReadinessWithoutDatabase(t *testing.T) {
	rec, resp := serve(http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "degraded", resp["status"])
}

func TestRouter_AnonymousList(t *testing.T) {
	rec, resp := serve(http.MethodGet, "/api/students", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "list", students.lastCall)
	assert.Nil(t, students.lastID)
}

func TestRouter_InvalidTokenOnOptionalRoute(t *testing.T) {
	rec, resp := serve(http.MethodGet, "/api/students", "forged", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, false, resp["success"])
}

func TestRouter_StatsRouteIsNotAnID(t *testing.T) {
	rec, _ := serve(http.MethodGet, "/api/students/stats/overview", "valid", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "stats", students.lastCall)
	require.NotNil(t, students.lastID)
	assert.Equal(t, "user_1", students.lastID.UserID)
}

func TestRouter_MutationsRequireIdentity(t *testing.T) {
	for _, method := range []string{http.MethodPut, http.MethodDelete} {
		rec, resp := serve(method, "/api/students/65f1c0de000000000000abcd", "", `{}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, method)
		assert.Equal(t, "Not authorized", resp["message"], method)
	}

	rec, resp := serve(http.MethodPut, "/api/students/65f1c0de000000000000abcd", "valid", `{}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Forbidden: you do not own this student", resp["message"])
}

func TestRouter_CreateValidationEnvelope(t *testing.T) {
	rec, resp := serve(http.MethodPost, "/api/students", "", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, map[string]any{"name": "Student name is required"}, resp["errors"])
}

func TestRouter_MeRequiresToken(t *testing.T) {
	rec, _ := serve(http.MethodGet, "/api/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, resp := serve(http.MethodGet, "/api/auth/me", "valid", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user_1", resp["user"].(map[string]any)["id"])
}

func TestRouter_Metrics(t *testing.T) {
	serve(http.MethodPost, "/api/auth/demo", "", "")
	rec, _ := serve(http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "studentsdesk_auth_attempts_total")
}
