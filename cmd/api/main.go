package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/logesh2496/imayavarman-silambam/internal/achievement"
	"github.com/logesh2496/imayavarman-silambam/internal/api"
	"github.com/logesh2496/imayavarman-silambam/internal/cache"
	"github.com/logesh2496/imayavarman-silambam/internal/config"
	"github.com/logesh2496/imayavarman-silambam/internal/events"
	"github.com/logesh2496/imayavarman-silambam/internal/logbook"
	"github.com/logesh2496/imayavarman-silambam/internal/logger"
	"github.com/logesh2496/imayavarman-silambam/internal/report"
	"github.com/logesh2496/imayavarman-silambam/internal/store"
	"github.com/logesh2496/imayavarman-silambam/internal/student"
)

func main() {
	cfg, err := config.Load(os.Getenv("SILAMBAM_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg, log); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg config.App, log *zap.Logger) error {
	db, err := store.NewDB(cfg)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer db.Close()

	if err := store.Migrate(db.Client, log); err != nil {
		return err
	}

	redisClient := store.NewRedis(cfg.RedisAddr, "silambam-api")

	var c cache.Cache
	if cfg.CacheBackend == "redis" {
		c = cache.NewRedis(redisClient.Client, "")
	} else {
		c = cache.NewMemory()
	}

	var q events.Queue
	if cfg.QueueBackend == "redis" {
		q = events.NewRedisQueue(redisClient.Client, "")
	} else {
		q = events.NewInMemory(64)
	}

	studentRepo := student.NewPGRepository(db.Client)
	logRepo := logbook.NewPGRepository(db.Client)
	achievementRepo := achievement.NewPGRepository(db.Client)

	students := student.NewService(studentRepo, c, q, log, cfg.CacheTTL)
	logs := logbook.NewService(logRepo, studentRepo, c, q, log, cfg.CacheTTL)
	achievements := achievement.NewService(achievementRepo, c, q, log, cfg.CacheTTL)
	reports := report.NewService(studentRepo, logRepo, c, log, cfg.CacheTTL)

	ctx := context.Background()
	if cfg.SeedDemoData {
		if err := api.SeedDemoData(ctx, students, log); err != nil {
			log.Warn("seeding failed", zap.Error(err))
		}
	}

	h := api.NewHandlers(students, logs, achievements, reports, log)
	r := api.NewRouter(cfg, h, db, redisClient)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	// Give outstanding requests 10 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("forced shutdown", zap.Error(err))
	}

	log.Info("server exited")
	return nil
}
