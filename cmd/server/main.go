package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lowcard/lowcard-backend/internal/config"
	"github.com/lowcard/lowcard-backend/internal/engine"
	"github.com/lowcard/lowcard-backend/internal/httpapi"
	"github.com/lowcard/lowcard-backend/internal/registry"
	"github.com/lowcard/lowcard-backend/internal/room"
	"github.com/lowcard/lowcard-backend/internal/stats"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("config load failed, using defaults: %v", err)
		cfg = config.Default()
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var recorder room.GameRecorder = stats.Noop{}
	var board httpapi.LeaderboardReader = stats.Noop{}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		pingCancel()
		if err != nil {
			logger.Warn("redis unreachable, leaderboard disabled", zap.Error(err))
		} else {
			lb := stats.NewLeaderboard(rdb)
			recorder, board = lb, lb
		}
	}

	rules := engine.Rules{
		SelectSec:       cfg.Game.SelectTimeout,
		RevealSec:       cfg.Game.RevealTimeout,
		IntermissionSec: cfg.Game.IntermissionTimeout,
		WinPoints:       cfg.Game.WinPoints,
	}
	reg := registry.New(ctx, rules, time.Second, logger, recorder)

	// Build the router *with* the registry injected
	handler := httpapi.SetupRoutes(reg, board, logger)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		logger.Info("shutting down")
		cancel()
		shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutCancel()
		_ = srv.Shutdown(shutCtx)
	}()

	logger.Info("listening", zap.String("addr", cfg.Addr()))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server failed", zap.Error(err))
	}
}
