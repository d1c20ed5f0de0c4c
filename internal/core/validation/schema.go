package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/studentsdesk/studentsdesk-api/internal/core/domain"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("course", func(fl validator.FieldLevel) bool {
		return domain.IsValidCourse(fl.Field().String())
	})
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// CheckStudentSchema enforces the document constraints on a record about to
// be written, the same way for create and update.
func CheckStudentSchema(s *domain.Student) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		if _, seen := fields[fe.Field()]; !seen {
			fields[fe.Field()] = schemaMessage(fe)
		}
	}
	return domain.NewValidationError(fields)
}

// schemaMessage converts a single FieldError into the message shown to
// API clients.
func schemaMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "name":
		if fe.Tag() == "max" {
			return "Name cannot exceed 100 characters"
		}
		return "Student name is required"
	case "email":
		return "Please provide a valid email"
	case "course":
		return "Invalid course selected"
	case "age":
		if fe.Tag() == "min" {
			return "Age must be at least 16"
		}
		return "Age cannot exceed 60"
	case "phone":
		return "Please provide a valid 10-digit phone number"
	case "address":
		return "Address cannot exceed 200 characters"
	case "status":
		return "Status must be one of: active, inactive, graduated"
	case "gpa":
		if fe.Tag() == "min" {
			return "GPA cannot be less than 0"
		}
		return "GPA cannot exceed 4.0"
	default:
		return fmt.Sprintf("%s failed validation (%s)", fe.Field(), fe.Tag())
	}
}
