package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"github.com/studentsdesk/studentsdesk-api/internal/api"
	"github.com/studentsdesk/studentsdesk-api/internal/core/ports"
	"github.com/studentsdesk/studentsdesk-api/internal/core/service"
	mongodb "github.com/studentsdesk/studentsdesk-api/internal/infrastructure/db/mongo"
	redisdb "github.com/studentsdesk/studentsdesk-api/internal/infrastructure/db/redis"
	"github.com/studentsdesk/studentsdesk-api/internal/infrastructure/queue"
	"github.com/studentsdesk/studentsdesk-api/internal/pkg/config"
	"github.com/studentsdesk/studentsdesk-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// @title                       StudentsDesk API
// @version                     1.0
// @description                 Student records management API.
// @BasePath                    /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "studentsdesk-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb unavailable")
	}

	studentRepo := mongodb.NewStudentRepository(db)
	userRepo := mongodb.NewUserRepository(db)
	activityRepo := mongodb.NewActivityRepository(db)
	if err := mongodb.EnsureIndexes(ctx, studentRepo, userRepo, activityRepo); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	var (
		rdb        *goredis.Client
		statsCache ports.StatsCache
	)
	if cfg.Redis.Addr != "" {
		rdb, err = redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, stats cache disabled")
			rdb = nil
		} else {
			statsCache = redisdb.NewStatsCache(rdb, cfg.Redis.StatsTTL)
		}
	}

	// --- Services ---
	activityLog := logger.Component(log, "activity")
	dispatcher := queue.NewDispatcher(cfg.Activity.Workers, service.NewActivityService(activityRepo, activityLog), activityLog)
	dispatcher.Start(context.Background())

	students := service.NewStudentService(studentRepo, statsCache, dispatcher, logger.Component(log, "students"))
	auth := service.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, service.DemoAccount{
		Email:    cfg.Auth.DemoEmail,
		Password: cfg.Auth.DemoPassword,
	}, logger.Component(log, "auth"))

	if created, err := auth.EnsureUser(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword, "", ""); err != nil {
		log.Error().Err(err).Msg("seeding default admin failed")
	} else if !created {
		log.Info().Str("email", cfg.Auth.AdminEmail).Msg("default admin exists")
	}

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		DB:          db,
		Redis:       rdb,
		Students:    students,
		Auth:        auth,
		Verifier:    auth,
		CORSOrigins: cfg.CORSOrigins,
		Log:         logger.Component(log, "http"),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("activity queue did not drain")
	}
	if err := client.Disconnect(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mongodb disconnect")
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close")
		}
	}
}
