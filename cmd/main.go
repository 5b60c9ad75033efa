package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/arthouse/internal/adapters/http/api"
	"github.com/okian/arthouse/internal/adapters/http/swagger"
	service "github.com/okian/arthouse/internal/app"
	"github.com/okian/arthouse/internal/config"
	"github.com/okian/arthouse/internal/domain/ranking"
	"github.com/okian/arthouse/pkg/logger"
	"github.com/okian/arthouse/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.InitWith(os.Stdout, cfg.LogFormat); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := service.New(serviceOptions(cfg, loggerInstance.Named("catalog"))...)
	handler, err := newHandler(ctx, cfg, svc)
	if err != nil {
		loggerInstance.Error(ctx, "failed to build handler", logger.Error(err))
		os.Exit(1)
	}
	if err := svc.Start(ctx); err != nil {
		loggerInstance.Error(ctx, "failed to start service", logger.Error(err))
		os.Exit(1)
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// serviceOptions maps configuration onto the catalog service.
func serviceOptions(cfg *config.Config, l logger.Logger) []service.Option {
	return []service.Option{
		service.WithLogger(l),
		service.WithDataDir(cfg.DataDir),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithQueueSize(cfg.QueueSize),
		service.WithSignificantDelta(cfg.SignificantDelta),
		service.WithPageLimits(cfg.DefaultPageLimit, cfg.MaxPageLimit),
		service.WithRanking(
			ranking.WithHighTierThreshold(cfg.HighTierThreshold),
			ranking.WithReservedHead(cfg.ReservedHead),
			ranking.WithCuratedTitles(cfg.CuratedTitles),
			ranking.WithPriorityDirectors(cfg.PriorityDirectors),
		),
	}
}

// newHandler registers the API and docs routes behind CORS and rate limiting.
func newHandler(ctx context.Context, cfg *config.Config, svc *service.Service) (http.Handler, error) {
	var redoc []byte
	if cfg.RedocBundlePath != "" {
		js, err := os.ReadFile(cfg.RedocBundlePath)
		if err != nil {
			return nil, fmt.Errorf("read redoc bundle: %w", err)
		}
		redoc = js
	}

	mux := http.NewServeMux()
	swagger.Register(ctx, mux, swagger.WithRedocBundle(redoc))

	apiServer := api.NewServer(svc, svc,
		api.WithCORSOrigins(cfg.CORSAllowedOrigins),
		api.WithRateLimit(cfg.RateLimitRequests, time.Duration(cfg.RateLimitWindowSec)*time.Second),
	)
	apiServer.Register(ctx, mux)
	return apiServer.Handler(mux), nil
}

// startSystemMetricsUpdater periodically refreshes runtime gauges.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
