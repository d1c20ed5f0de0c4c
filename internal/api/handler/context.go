package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/studentsdesk/studentsdesk-api/internal/api/middleware"
	"github.com/studentsdesk/studentsdesk-api/internal/core/domain"
)

// decodeBody reads the JSON request body as a loose field map. The services
// validate the map themselves, so an empty body decodes to an empty map and
// surfaces as field errors instead of a bind failure.
func decodeBody(c echo.Context) (map[string]any, error) {
	var data map[string]any
	if err := c.Echo().JSONSerializer.Deserialize(c, &data); err != nil && !errors.Is(err, io.EOF) {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload").SetInternal(err)
	}
	if data == nil {
		data = map[string]any{}
	}
	return data, nil
}

// ctxIdentity returns the caller attached by the auth middleware, or nil for
// an anonymous request.
func ctxIdentity(c echo.Context) *domain.Identity {
	return middleware.IdentityFrom(c)
}

// outcome labels an operation result for the metrics counters.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrDuplicateStudent):
		return "duplicate"
	case errors.Is(err, domain.ErrStudentNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrInvalidToken):
		return "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	default:
		return "error"
	}
}
