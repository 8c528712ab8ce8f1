package main // Entry point for the edge gateway

import (
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/rosterd/rosterd/internal/config"
	"github.com/rosterd/rosterd/internal/gateway"
	"github.com/rosterd/rosterd/internal/logging"
	"github.com/rosterd/rosterd/internal/token"
)

func main() {
	_ = godotenv.Load()

	cfg := config.LoadGateway()
	logger := logging.New(cfg.Env, "gateway")
	defer func() { _ = logger.Sync() }()

	tokens := token.NewService(cfg.JWTSecret, 0) // the gateway only verifies, TTL is unused

	rdb := config.NewRedisClient() // nil when Redis is absent; rate limiting fails open

	e, err := gateway.New(cfg, tokens, rdb)
	if err != nil {
		logger.Fatal("gateway setup failed", zap.Error(err))
	}

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
