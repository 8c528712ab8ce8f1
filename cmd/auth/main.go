package main // Entry point for the auth service

import (
	"github.com/joho/godotenv" // Optional .env loading for local development
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/rosterd/rosterd/internal/config"
	"github.com/rosterd/rosterd/internal/database"
	"github.com/rosterd/rosterd/internal/handler"
	"github.com/rosterd/rosterd/internal/logging"
	"github.com/rosterd/rosterd/internal/repository"
	"github.com/rosterd/rosterd/internal/router"
	"github.com/rosterd/rosterd/internal/token"
	"github.com/rosterd/rosterd/internal/validation"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly

	cfg := config.Load()
	logger := logging.New(cfg.Env, "auth")
	defer func() { _ = logger.Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Fatal("database open failed", zap.Error(err))
	}
	defer db.Close()

	tokens := token.NewService(cfg.JWTSecret, cfg.AccessTTLMin)
	auth := handler.NewAuthHandler(cfg, tokens, repository.NewUserRepo(db), repository.NewTokenRepo(db))

	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, auth, tokens)

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
