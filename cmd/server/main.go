package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"storepilot/config"
	"storepilot/internal/adapter/rest"
	"storepilot/internal/agent"
	"storepilot/internal/core"
	"storepilot/internal/llm"
	"storepilot/internal/shopify"
	"storepilot/internal/tools"
)

func main() {
	envFile := flag.String("env", ".env", "optional env file")
	flag.Parse()

	// 1. Init Config
	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// 2. Init Logger
	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	// 3. Init LLM
	provider, err := llm.New(cfg.LLM)
	if err != nil {
		logger.Fatal("Failed to init LLM provider", zap.Error(err))
	}

	// 4. Init Store Backend
	store := shopify.NewService(shopify.NewClient(cfg.Shopify))

	// 5. Init Tools and Agent
	registry := tools.Store()
	dispatcher, err := core.NewDispatcher(registry, store, logger.Named("tools"))
	if err != nil {
		logger.Fatal("Failed to init tool dispatcher", zap.Error(err))
	}
	chatAgent := agent.NewChatAgent(provider, registry, dispatcher, logger.Named("agent"))

	// 6. Serve until SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	restAdapter := rest.NewAdapter(cfg.Server.Port, chatAgent, store, logger.Named("rest"))
	logger.Info("Store assistant ready",
		zap.String("provider", provider.Name()),
		zap.String("model", cfg.LLM.ModelName),
		zap.String("shopify", cfg.Shopify.GraphQLURL()),
	)
	if err := restAdapter.Start(ctx); err != nil {
		logger.Fatal("REST server failed", zap.Error(err))
	}
	logger.Info("Server stopped")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.IsDevelopment() {
		zcfg = zap.NewDevelopmentConfig()
	}
	if cfg.Server.LogLevel != "" {
		level, err := zapcore.ParseLevel(cfg.Server.LogLevel)
		if err != nil {
			return nil, err
		}
		zcfg.Level = zap.NewAtomicLevelAt(level)
	}
	return zcfg.Build()
}
