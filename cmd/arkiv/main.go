package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/arkiv-cloud/arkiv/internal/config"
	"github.com/arkiv-cloud/arkiv/internal/db"
	logpkg "github.com/arkiv-cloud/arkiv/internal/logger"
	"github.com/arkiv-cloud/arkiv/internal/metrics"
	archiverepo "github.com/arkiv-cloud/arkiv/internal/repository/archivedoc"
	componentrepo "github.com/arkiv-cloud/arkiv/internal/repository/component"
	elementrepo "github.com/arkiv-cloud/arkiv/internal/repository/element"
	logrepo "github.com/arkiv-cloud/arkiv/internal/repository/logentry"
	noterepo "github.com/arkiv-cloud/arkiv/internal/repository/note"
	tagrepo "github.com/arkiv-cloud/arkiv/internal/repository/tag"
	chiTransport "github.com/arkiv-cloud/arkiv/internal/transport/chi"
	archiveuc "github.com/arkiv-cloud/arkiv/internal/usecase/archivedoc"
	componentuc "github.com/arkiv-cloud/arkiv/internal/usecase/component"
	elementuc "github.com/arkiv-cloud/arkiv/internal/usecase/element"
	healthuc "github.com/arkiv-cloud/arkiv/internal/usecase/health"
	loguc "github.com/arkiv-cloud/arkiv/internal/usecase/logentry"
	noteuc "github.com/arkiv-cloud/arkiv/internal/usecase/note"
	taguc "github.com/arkiv-cloud/arkiv/internal/usecase/tag"
	"github.com/arkiv-cloud/arkiv/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting arkiv API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_path", cfg.Database.Path),
	)

	store, err := db.Open(db.Config{
		Path:        cfg.Database.Path,
		BusyTimeout: time.Duration(cfg.Database.BusyTimeoutSec) * time.Second,
	})
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	if err := store.Bootstrap(ctx); err != nil {
		logger.Fatal("Failed to bootstrap schema", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	// Create repositories
	notes := noterepo.New(store, logger)
	archive := archiverepo.New(store, logger)
	elements := elementrepo.New(store, logger)
	logs := logrepo.New(store, logger)
	tags := tagrepo.New(store)
	components := componentrepo.New(store)

	// Create use case services
	logSvc := loguc.New(logs)
	noteSvc := noteuc.New(notes, logs, logger)
	archiveSvc := archiveuc.New(archive, logs, logger)
	elementSvc := elementuc.New(elements, components)
	tagSvc := taguc.New(tags)
	componentSvc := componentuc.New(components)
	healthSvc := healthuc.New(store)

	// Periodic audit log pruning
	pruneCtx, stopPrune := context.WithCancel(ctx)
	defer stopPrune()
	if cfg.Logs.RetentionDays > 0 {
		retention := time.Duration(cfg.Logs.RetentionDays) * 24 * time.Hour
		go pruneLoop(pruneCtx, logSvc, retention, logger)
	}

	// Create chi server
	server := chiTransport.NewServer(
		noteSvc, archiveSvc, elementSvc, componentSvc, tagSvc, logSvc, healthSvc, logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	r.Handle("/metrics", promhttp.Handler())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// pruneLoop deletes audit entries older than the retention window once a day.
func pruneLoop(ctx context.Context, logs *loguc.Service, retention time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		pruned, err := logs.Prune(ctx, retention)
		if err != nil {
			logger.Warn("Audit log pruning failed", zap.Error(err))
		} else if pruned > 0 {
			logger.Info("Pruned audit log entries", zap.Int64("count", pruned))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
