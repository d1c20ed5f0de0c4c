package ports

import (
	"context"

	"github.com/studentsdesk/studentsdesk-api/internal/core/domain"
)

// ActivityRepository persists the student activity trail.
type ActivityRepository interface {
	Insert(ctx context.Context, a *domain.StudentActivity) error
}
