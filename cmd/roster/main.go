package main // Entry point for the roster service

import (
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/rosterd/rosterd/internal/config"
	"github.com/rosterd/rosterd/internal/database"
	"github.com/rosterd/rosterd/internal/handler"
	"github.com/rosterd/rosterd/internal/logging"
	"github.com/rosterd/rosterd/internal/queue"
	"github.com/rosterd/rosterd/internal/repository"
	"github.com/rosterd/rosterd/internal/router"
	queue_publisher "github.com/rosterd/rosterd/internal/service"
	"github.com/rosterd/rosterd/internal/token"
	"github.com/rosterd/rosterd/internal/validation"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.Env, "roster")
	defer func() { _ = logger.Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Fatal("database open failed", zap.Error(err))
	}
	defer db.Close()

	tokens := token.NewService(cfg.JWTSecret, cfg.AccessTTLMin)

	workers := handler.NewWorkerHandler(repository.NewWorkerRepo(db))
	shifts := handler.NewShiftHandler(repository.NewShiftRepo(db))
	assignments := handler.NewAssignmentHandler(repository.NewAssignmentRepo(db))

	// Event publishing and the log-writing consumer are enabled only when a
	// broker URL is configured.
	if cfg.AMQPURL != "" {
		assignments.Publish = queue_publisher.PublishShiftAssigned
		go func() {
			if err := queue.StartShiftConsumer(logger.Named("consumer")); err != nil {
				logger.Error("shift consumer exited", zap.Error(err))
			}
		}()
	}

	rdb := config.NewRedisClient() // nil when Redis is absent; caching is skipped

	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()
	router.RegisterRoutes(e)
	router.RegisterRoster(e, workers, shifts, assignments, tokens, rdb)

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
