package ports

import (
	"context"
	"time"

	"github.com/studentsdesk/studentsdesk-api/internal/core/domain"
)

// ListStudentsFilter carries the normalised query for a student listing.
type ListStudentsFilter struct {
	Scope  domain.Scope
	Search string // case-insensitive substring of name or email
	Course string // exact
	Status string // exact
	Sort   domain.Sort
	Page   int // 1-based
	Limit  int
}

// StudentRepository defines persistence operations for students. Lookups
// that miss, including malformed ids, return domain.ErrStudentNotFound.
// Writes that violate the unique (createdBy, email) index return
// domain.ErrDuplicateStudent.
type StudentRepository interface {
	Create(ctx context.Context, s *domain.Student) error
	FindByID(ctx context.Context, id string, scope domain.Scope) (*domain.Student, error)
	FindByEmail(ctx context.Context, email string, scope domain.Scope) (*domain.Student, error)
	// List returns one page of matches and the total number of matches.
	List(ctx context.Context, filter ListStudentsFilter) ([]*domain.Student, int64, error)
	// Update replaces the stored fields of s and returns the stored record.
	Update(ctx context.Context, s *domain.Student) (*domain.Student, error)
	Delete(ctx context.Context, id string) error
	// Stats aggregates the records owned by ownerID; recentAdditions counts
	// those created at or after since.
	Stats(ctx context.Context, ownerID string, since time.Time) (*domain.StudentStats, error)
}

// StatsCache stores computed statistics per owner.
type StatsCache interface {
	// Get reports ok=false on a miss.
	Get(ctx context.Context, ownerID string) (stats *domain.StudentStats, ok bool, err error)
	Set(ctx context.Context, ownerID string, stats *domain.StudentStats) error
	Invalidate(ctx context.Context, ownerID string) error
}
