package ports

import (
	"context"

	"github.com/studentsdesk/studentsdesk-api/internal/core/domain"
)

// AuthResult is returned by every operation that signs the caller in.
type AuthResult struct {
	Token string
	User  *domain.User
}

type AuthService interface {
	Register(ctx context.Context, data map[string]any) (*AuthResult, error)
	Login(ctx context.Context, data map[string]any) (*AuthResult, error)
	// DemoLogin signs in as the demo account, creating it on first use.
	DemoLogin(ctx context.Context) (*AuthResult, error)
	// EnsureUser creates the account when no user holds email yet.
	EnsureUser(ctx context.Context, email, password, firstName, lastName string) (created bool, err error)
	Me(ctx context.Context, identity *domain.Identity) (*domain.User, error)
}

// TokenVerifier resolves a bearer token to the user id it was issued for.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}
