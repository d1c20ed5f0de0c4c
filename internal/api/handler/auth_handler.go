package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/studentsdesk/studentsdesk-api/internal/api/metrics"
	"github.com/studentsdesk/studentsdesk-api/internal/core/domain"
	"github.com/studentsdesk/studentsdesk-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Email     string `json:"email" example:"admin@example.com"`
	Password  string `json:"password" example:"secret123"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

type authResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    userResponse `json:"user"`
}

type meResponse struct {
	Success bool         `json:"success"`
	User    *domain.User `json:"user"`
}

// Register creates a new user account and signs it in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorEnvelope
// @Failure      500   {object}  errorEnvelope
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	data, err := decodeBody(c)
	if err != nil {
		return err
	}

	result, err := h.authService.Register(c.Request().Context(), data)
	recordAttempt("register", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toAuthResponse("Account created successfully", result))
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorEnvelope
// @Failure      401   {object}  errorEnvelope
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	data, err := decodeBody(c)
	if err != nil {
		return err
	}

	result, err := h.authService.Login(c.Request().Context(), data)
	recordAttempt("login", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toAuthResponse("Login successful", result))
}

// Demo signs in as the shared demo account.
//
// @Summary      Demo login
// @Tags         auth
// @Produce      json
// @Success      200  {object}  authResponse
// @Failure      500  {object}  errorEnvelope
// @Router       /auth/demo [post]
func (h *AuthHandler) Demo(c echo.Context) error {
	result, err := h.authService.DemoLogin(c.Request().Context())
	recordAttempt("demo", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toAuthResponse("Demo login successful", result))
}

// Me returns the authenticated user.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  meResponse
// @Failure      401  {object}  errorEnvelope
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := h.authService.Me(c.Request().Context(), ctxIdentity(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, meResponse{Success: true, User: user})
}

func toAuthResponse(message string, r *ports.AuthResult) authResponse {
	return authResponse{
		Success: true,
		Message: message,
		Token:   r.Token,
		User:    toUserResponse(r.User),
	}
}

func recordAttempt(method string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	metrics.AuthAttemptsTotal.WithLabelValues(method, result).Inc()
}
