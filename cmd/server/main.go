package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/weval-org/model-identity-api/cmd"
	"github.com/weval-org/model-identity-api/internal/catalog"
	"github.com/weval-org/model-identity-api/internal/config"
	"github.com/weval-org/model-identity-api/internal/ingest"
	"github.com/weval-org/model-identity-api/internal/platform/logger"
	"github.com/weval-org/model-identity-api/internal/platform/otel"
	"github.com/weval-org/model-identity-api/internal/server"
	"github.com/weval-org/model-identity-api/internal/store/cache"
	"github.com/weval-org/model-identity-api/internal/store/sqlite"
)

func main() {
	logger.Initialize(logger.DefaultConfig())
	log := logger.Get()
	defer func() {
		_ = log.Sync()
	}()

	go cmd.CheckForUpdates()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Tracing.Enabled {
		shutdown, err := otel.InitTracer("model-identity-api", log, os.Stdout)
		if err != nil {
			log.Fatal("failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Error("tracer shutdown failed", zap.Error(err))
			}
		}()
	}

	repo, err := sqlite.NewSQLiteStorage(cfg.Database.DSN, log)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.Error("database close failed", zap.Error(err))
		}
	}()

	var cacheSvc cache.CacheService
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn("redis unavailable, falling back to in-memory cache", zap.Error(err))
			cacheSvc = cache.NewMemoryCache()
		} else {
			log.Info("connected to redis", zap.String("addr", cfg.Redis.Addr))
			cacheSvc = redisCache
		}
	} else {
		cacheSvc = cache.NewMemoryCache()
	}

	ingestor := ingest.NewIngestor(log, repo)
	ingestor.Start(ctx)
	defer ingestor.Stop()

	parser := catalog.LoadParser(cfg.Rules, log)
	service := catalog.NewService(log, repo, cacheSvc, ingestor, parser)

	srv := server.New(cfg, log, service, repo)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server listening",
			zap.String("port", cfg.Server.Port),
			zap.String("env", cfg.Server.Env),
			zap.String("rules_version", service.RulesVersion()),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
