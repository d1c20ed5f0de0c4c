package ports

import (
	"context"

	"github.com/studentsdesk/studentsdesk-api/internal/core/domain"
)

// UserRepository defines the interface for user account persistence.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Create stores user and fills its ID. A taken e-mail yields ErrUserExists.
	Create(ctx context.Context, user *domain.User) error
}
