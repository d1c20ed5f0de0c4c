package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestLiveness(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	h := &HealthHandler{now: func() time.Time { return fixed }}

	if err := h.Liveness(c); err != nil {
		t.Fatalf("Liveness returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body livenessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Status != "ok" || body.Message != "StudentsDesk API is running" || !body.Timestamp.Equal(fixed) {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestReadiness_NoDependencies(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewHealthDependenciesHandler(nil, nil)
	if err := h.Readiness(c); err != nil {
		t.Fatalf("Readiness returned error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	var body readinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Status != "degraded" {
		t.Errorf("expected degraded, got %q", body.Status)
	}
	if body.Dependencies["redis"].Status != "disabled" {
		t.Errorf("expected redis disabled, got %+v", body.Dependencies["redis"])
	}
	if body.Dependencies["mongodb"].Status != "unhealthy" {
		t.Errorf("expected mongodb unhealthy, got %+v", body.Dependencies["mongodb"])
	}
}
