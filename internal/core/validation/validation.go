// Package validation checks raw request payloads before they reach the
// service layer. Every function is pure: it never panics and always returns
// a Result, where a field missing from Errors has passed.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/studentsdesk/studentsdesk-api/internal/core/domain"
)

const (
	minAge            = 16
	maxAge            = 60
	minPasswordLength = 6
	maxPasswordBytes  = 72 // bcrypt input limit
)

// Result is the outcome of validating one payload.
type Result struct {
	Errors  map[string]string `json:"errors"`
	IsValid bool              `json:"isValid"`
}

func newResult(errs map[string]string) Result {
	return Result{Errors: errs, IsValid: len(errs) == 0}
}

// Err returns the result as a *domain.ValidationError, or nil when valid.
func (r Result) Err() error {
	if r.IsValid {
		return nil
	}
	return domain.NewValidationError(r.Errors)
}

var (
	validate  = newValidator()
	intFormat = regexp.MustCompile(`^[-+]?[0-9]+$`)
)

// ValidateStudentInput checks name, email, course and age. Phone, address,
// status and gpa are left to the store schema.
func ValidateStudentInput(data map[string]any) Result {
	errs := make(map[string]string)

	name := trimmed(data, "name")
	email := trimmed(data, "email")
	course := trimmed(data, "course")

	if name == "" {
		errs["name"] = "Student name is required"
	}

	if email == "" {
		errs["email"] = "Email is required"
	} else if !isEmail(email) {
		errs["email"] = "Please provide a valid email"
	}

	if course == "" {
		errs["course"] = "Course is required"
	} else if !domain.IsValidCourse(course) {
		errs["course"] = "Invalid course selected"
	}

	age, present := data["age"]
	if !present || age == nil || age == "" {
		errs["age"] = "Age is required"
	} else if _, ok := parseAge(age); !ok {
		errs["age"] = "Age must be between 16 and 60"
	}

	return newResult(errs)
}

// ValidateRegisterInput checks the sign-up payload.
func ValidateRegisterInput(data map[string]any) Result {
	errs := make(map[string]string)

	email := trimmed(data, "email")
	password := str(data, "password")

	if email == "" {
		errs["email"] = "Email is required"
	} else if !isEmail(email) {
		errs["email"] = "Please provide a valid email"
	}

	if password == "" {
		errs["password"] = "Password is required"
	} else if len(password) < minPasswordLength {
		errs["password"] = "Password must be at least 6 characters"
	} else if len(password) > maxPasswordBytes {
		errs["password"] = "Password cannot exceed 72 characters"
	}

	return newResult(errs)
}

// ValidateLoginInput checks the login payload for presence only.
func ValidateLoginInput(data map[string]any) Result {
	errs := make(map[string]string)

	if trimmed(data, "email") == "" {
		errs["email"] = "Email is required"
	}
	if str(data, "password") == "" {
		errs["password"] = "Password is required"
	}

	return newResult(errs)
}

func isEmail(s string) bool {
	return validate.Var(s, "email") == nil
}

// parseAge accepts JSON numbers and numeric strings holding an integer in
// [minAge, maxAge].
func parseAge(v any) (int, bool) {
	var s string
	switch t := v.(type) {
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		s = strconv.Itoa(t)
	case string:
		s = t
	default:
		s = fmt.Sprint(t)
	}

	if !intFormat.MatchString(s) {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < minAge || n > maxAge {
		return 0, false
	}
	return n, true
}

// str returns data[key] when it is a string. Non-string values are
// formatted so that a numeric name or password is not treated as missing.
func str(data map[string]any, key string) string {
	v, ok := data[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func trimmed(data map[string]any, key string) string {
	return strings.TrimSpace(str(data, key))
}
