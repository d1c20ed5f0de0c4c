package ports

import (
	"context"

	"github.com/studentsdesk/studentsdesk-api/internal/core/domain"
)

// ListStudentsInput carries the raw query parameters of the list endpoint.
type ListStudentsInput struct {
	Search string
	Course string
	Status string
	SortBy string // "field:dir"
	Page   int
	Limit  int
}

// ListStudentsResult is returned by ListStudents.
type ListStudentsResult struct {
	Items       []*domain.Student
	Total       int64
	TotalPages  int
	CurrentPage int
}

// StudentService defines the use cases over the Student resource. A nil
// identity means the caller is anonymous.
type StudentService interface {
	ListStudents(ctx context.Context, identity *domain.Identity, in ListStudentsInput) (*ListStudentsResult, error)
	GetStudent(ctx context.Context, id string, identity *domain.Identity) (*domain.Student, error)
	CreateStudent(ctx context.Context, data map[string]any, identity *domain.Identity) (*domain.Student, error)
	UpdateStudent(ctx context.Context, id string, data map[string]any, identity *domain.Identity) (*domain.Student, error)
	DeleteStudent(ctx context.Context, id string, identity *domain.Identity) error
	StudentStats(ctx context.Context, identity *domain.Identity) (*domain.StudentStats, error)
}
