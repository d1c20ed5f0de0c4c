package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/studentsdesk/studentsdesk-api/internal/core/domain"
	"github.com/studentsdesk/studentsdesk-api/internal/core/ports"
	"github.com/studentsdesk/studentsdesk-api/internal/core/validation"
)

const defaultTokenTTL = 30 * 24 * time.Hour

// DemoAccount holds the credentials used by DemoLogin.
type DemoAccount struct {
	Email    string
	Password string
}

// AuthService implements registration, login and token verification.
type AuthService struct {
	repo      ports.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	demo      DemoAccount
	logger    zerolog.Logger
	now       func() time.Time
}

func NewAuthService(repo ports.UserRepository, jwtSecret string, tokenTTL time.Duration, demo DemoAccount, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	demo.Email = domain.NormalizeEmail(demo.Email)
	return &AuthService{
		repo:      repo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		demo:      demo,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, data map[string]any) (*ports.AuthResult, error) {
	if res := validation.ValidateRegisterInput(data); !res.IsValid {
		return nil, res.Err()
	}

	email := domain.NormalizeEmail(stringField(data, "email"))
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	user, err := s.newUser(email, stringField(data, "password"),
		strings.TrimSpace(stringField(data, "firstName")),
		strings.TrimSpace(stringField(data, "lastName")))
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user registered")
	return s.signIn(user)
}

func (s *AuthService) Login(ctx context.Context, data map[string]any) (*ports.AuthResult, error) {
	if res := validation.ValidateLoginInput(data); !res.IsValid {
		return nil, res.Err()
	}

	user, err := s.repo.FindByEmail(ctx, domain.NormalizeEmail(stringField(data, "email")))
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if !user.CheckPassword(stringField(data, "password")) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.signIn(user)
}

// DemoLogin signs in as the demo account, creating it on first use.
func (s *AuthService) DemoLogin(ctx context.Context) (*ports.AuthResult, error) {
	if _, err := s.EnsureUser(ctx, s.demo.Email, s.demo.Password, "", ""); err != nil {
		return nil, fmt.Errorf("demo login: %w", err)
	}
	user, err := s.repo.FindByEmail(ctx, s.demo.Email)
	if err != nil {
		return nil, fmt.Errorf("demo login: %w", err)
	}
	return s.signIn(user)
}

// EnsureUser creates the account unless a user already holds email.
// A concurrent creation of the same account counts as already present.
func (s *AuthService) EnsureUser(ctx context.Context, email, password, firstName, lastName string) (bool, error) {
	email = domain.NormalizeEmail(email)
	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return false, err
	}

	user, err := s.newUser(email, password, firstName, lastName)
	if err != nil {
		return false, err
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return false, nil
		}
		return false, err
	}

	s.logger.Info().Str("email", email).Msg("account created")
	return true, nil
}

func (s *AuthService) Me(ctx context.Context, identity *domain.Identity) (*domain.User, error) {
	if identity == nil {
		return nil, domain.ErrUnauthenticated
	}
	user, err := s.repo.FindByID(ctx, identity.UserID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrUnauthenticated
	}
	return user, err
}

// VerifyToken validates an HS256 token issued by this service and returns
// the user id held in its "id" claim.
func (s *AuthService) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.jwtSecret, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return "", domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", domain.ErrInvalidToken
	}
	id, _ := claims["id"].(string)
	if id == "" {
		return "", domain.ErrInvalidToken
	}
	return id, nil
}

func (s *AuthService) newUser(email, password, firstName, lastName string) (*domain.User, error) {
	now := s.now().UTC()
	user := &domain.User{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) signIn(user *domain.User) (*ports.AuthResult, error) {
	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"id":  user.ID,
		"iat": s.now().Unix(),
		"exp": s.now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.jwtSecret)
}

// stringField reads data[key] the way the validators do, so a value that
// passed validation is never read back as empty.
func stringField(data map[string]any, key string) string {
	switch v := data[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
