package validation

import (
	"strconv"
	"strings"
	"time"

	"github.com/studentsdesk/studentsdesk-api/internal/core/domain"
)

// ParseStudentInput validates data and converts it into a typed input.
// The typed value is only returned when the Result is valid.
func ParseStudentInput(data map[string]any) (domain.StudentInput, Result) {
	res := ValidateStudentInput(data)
	if !res.IsValid {
		return domain.StudentInput{}, res
	}

	age, _ := parseAge(data["age"])
	in := domain.StudentInput{
		Name:   trimmed(data, "name"),
		Email:  domain.NormalizeEmail(str(data, "email")),
		Course: domain.Course(trimmed(data, "course")),
		Age:    age,
	}

	errs := make(map[string]string)

	if v, ok := optional(data, "phone"); ok {
		s := strings.TrimSpace(toString(v))
		in.Phone = &s
	}
	if v, ok := optional(data, "address"); ok {
		s := toString(v)
		in.Address = &s
	}
	if v, ok := optional(data, "status"); ok {
		st := domain.StudentStatus(strings.TrimSpace(toString(v)))
		in.Status = &st
	}
	if v, ok := optional(data, "gpa"); ok {
		gpa, err := toFloat(v)
		if err != nil {
			errs["gpa"] = "GPA must be a number"
		} else {
			in.GPA = &gpa
		}
	}
	if v, ok := optional(data, "enrollmentDate"); ok {
		t, err := toTime(v)
		if err != nil {
			errs["enrollmentDate"] = "Enrollment date must be a valid date"
		} else {
			in.EnrollmentDate = &t
		}
	}

	if len(errs) > 0 {
		return domain.StudentInput{}, newResult(errs)
	}
	return in, res
}

// optional reports the value of an optional field; null and empty string
// count as absent so the store default (or stored value) is kept.
func optional(data map[string]any, key string) (any, bool) {
	v, ok := data[key]
	if !ok || v == nil {
		return nil, false
	}
	if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" && key != "phone" && key != "address" {
		return nil, false
	}
	return v, true
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func toFloat(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(t), 64)
	default:
		return 0, strconv.ErrSyntax
	}
}

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"}

func toTime(v any) (time.Time, error) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, strconv.ErrSyntax
	}
	s = strings.TrimSpace(s)
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t.UTC().Truncate(time.Millisecond), nil
		}
	}
	return time.Time{}, err
}
