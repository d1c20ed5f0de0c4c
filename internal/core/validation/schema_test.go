package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studentsdesk/studentsdesk-api/internal/core/domain"
)

func validStudent() *domain.Student {
	now := time.Now().UTC()
	return &domain.Student{
		Name:           "Ada Lovelace",
		Email:          "ada@example.com",
		Course:         domain.CourseMathematics,
		Age:            21,
		EnrollmentDate: now,
		Status:         domain.StatusActive,
		GPA:            3.2,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestCheckStudentSchema_Valid(t *testing.T) {
	require.NoError(t, CheckStudentSchema(validStudent()))

	s := validStudent()
	s.Phone = "0123456789"
	s.Address = "Marylebone, London"
	s.GPA = 4
	assert.NoError(t, CheckStudentSchema(s))
}

func TestCheckStudentSchema_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *domain.Student)
		field  string
		msg    string
	}{
		{"long name", func(s *domain.Student) { s.Name = strings.Repeat("a", 101) }, "name", "Name cannot exceed 100 characters"},
		{"short phone", func(s *domain.Student) { s.Phone = "12345" }, "phone", "Please provide a valid 10-digit phone number"},
		{"signed phone", func(s *domain.Student) { s.Phone = "+123456789" }, "phone", "Please provide a valid 10-digit phone number"},
		{"long address", func(s *domain.Student) { s.Address = strings.Repeat("b", 201) }, "address", "Address cannot exceed 200 characters"},
		{"unknown status", func(s *domain.Student) { s.Status = "expelled" }, "status", "Status must be one of: active, inactive, graduated"},
		{"negative gpa", func(s *domain.Student) { s.GPA = -0.1 }, "gpa", "GPA cannot be less than 0"},
		{"gpa above four", func(s *domain.Student) { s.GPA = 4.01 }, "gpa", "GPA cannot exceed 4.0"},
		{"too young", func(s *domain.Student) { s.Age = 15 }, "age", "Age must be at least 16"},
		{"too old", func(s *domain.Student) { s.Age = 61 }, "age", "Age cannot exceed 60"},
		{"unknown course", func(s *domain.Student) { s.Course = "Alchemy" }, "course", "Invalid course selected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validStudent()
			tt.mutate(s)

			err := CheckStudentSchema(s)
			require.ErrorIs(t, err, domain.ErrValidation)

			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.msg, ve.Fields[tt.field])
			assert.Len(t, ve.Fields, 1)
		})
	}
}
