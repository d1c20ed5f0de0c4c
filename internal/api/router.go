package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/studentsdesk/studentsdesk-api/docs"
	"github.com/studentsdesk/studentsdesk-api/internal/api/handler"
	"github.com/studentsdesk/studentsdesk-api/internal/api/middleware"
	"github.com/studentsdesk/studentsdesk-api/internal/core/ports"
	"github.com/studentsdesk/studentsdesk-api/internal/infrastructure/http/handlers"
)

// Dependencies groups everything the router wires into handlers.
type Dependencies struct {
	DB    *mongo.Database
	Redis *redis.Client // nil when the stats cache is disabled

	Students ports.StudentService
	Auth     ports.AuthService
	Verifier ports.TokenVerifier

	CORSOrigins []string
	Log         zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(deps.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddleware("studentsdesk"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	studentHandler := handler.NewStudentHandler(deps.Students)
	requireAuth := middleware.Auth(deps.Verifier)
	optionalAuth := middleware.OptionalAuth(deps.Verifier)
	requireIdentity := middleware.RequireIdentity()

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/demo", authHandler.Demo)
	auth.GET("/me", authHandler.Me, requireAuth)

	// --- Student routes (a token is optional; when present it scopes the request) ---
	students := e.Group("/api/students", optionalAuth)
	students.GET("", studentHandler.List)
	students.POST("", studentHandler.Create)
	students.GET("/stats/overview", studentHandler.Stats, requireIdentity)
	students.GET("/:id", studentHandler.Get)
	students.PUT("/:id", studentHandler.Update, requireIdentity)
	students.DELETE("/:id", studentHandler.Delete, requireIdentity)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.DB, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness: is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness: are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog event per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Status >= http.StatusInternalServerError {
				event = log.Error()
			}
			if v.Error != nil {
				event = event.Err(v.Error)
			}
			event.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
