package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/logesh2496/imayavarman-silambam/internal/cache"
	"github.com/logesh2496/imayavarman-silambam/internal/config"
	"github.com/logesh2496/imayavarman-silambam/internal/events"
	"github.com/logesh2496/imayavarman-silambam/internal/logbook"
	"github.com/logesh2496/imayavarman-silambam/internal/logger"
	"github.com/logesh2496/imayavarman-silambam/internal/report"
	"github.com/logesh2496/imayavarman-silambam/internal/store"
	"github.com/logesh2496/imayavarman-silambam/internal/student"
)

var changesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "silambam_worker_changes_total",
	Help: "Change events consumed by the cache warmer, by type.",
}, []string{"type"})

// Worker consumes change events and re-warms the attendance matrix cache for
// the month each mutation touched, so matrix reads stay hot between
// mutations. Only useful with the redis cache backend, where cache entries
// are shared with the API.
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutdown signal received")
		cancel()
	}()

	db, err := store.NewDB(cfg)
	if err != nil {
		log.Fatal("db connect failed", zap.Error(err))
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr, "silambam-worker")

	if cfg.CacheBackend != "redis" {
		log.Warn("cache backend is not redis; warmed entries are invisible to the API")
	}
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
	reports := report.NewService(studentRepo, logRepo, c, log, cfg.CacheTTL)

	changes, err := q.Consume(ctx)
	if err != nil {
		log.Fatal("queue consume init failed", zap.Error(err))
	}

	log.Info("worker started, waiting for change events")
	for ch := range changes {
		changesProcessed.WithLabelValues(ch.Type).Inc()

		// Only log mutations move the matrix; student renames and deletes
		// change row labels, so rebuild for those too.
		if !strings.HasPrefix(ch.Type, "daily_log.") && !strings.HasPrefix(ch.Type, "student.") {
			continue
		}

		month := ch.Date
		if month.IsZero() {
			// student events carry no date; rebuild the current month
			month = time.Now()
		}
		if _, err := reports.Rebuild(ctx, month); err != nil {
			log.Warn("matrix rebuild failed",
				zap.String("type", ch.Type),
				zap.String("month", month.Format("2006-01")),
				zap.Error(err))
			continue
		}
		log.Debug("matrix rewarmed",
			zap.String("type", ch.Type),
			zap.String("month", month.Format("2006-01")))
	}

	log.Info("worker stopped")
}
