package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yourorg/homerental/internal/events"
	"github.com/yourorg/homerental/internal/featureflags"
	"github.com/yourorg/homerental/internal/handler"
	"github.com/yourorg/homerental/internal/infrastructure/logger"
	"github.com/yourorg/homerental/internal/infrastructure/redis"
	"github.com/yourorg/homerental/internal/observability/metrics"
	"github.com/yourorg/homerental/internal/observability/tracing"
	"github.com/yourorg/homerental/internal/reliability/retry"
	"github.com/yourorg/homerental/internal/repository"
	"github.com/yourorg/homerental/internal/security/audit"
	"github.com/yourorg/homerental/internal/security/auth"
	"github.com/yourorg/homerental/internal/security/middleware"
	"github.com/yourorg/homerental/internal/security/ratelimit"
	"github.com/yourorg/homerental/internal/service"
	"github.com/yourorg/homerental/internal/worker"
	"github.com/yourorg/homerental/pkg/config"
	"github.com/yourorg/homerental/pkg/database"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize structured logger
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("starting HomeRental server", slog.String("environment", cfg.Environment))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Initialize tracing
	shutdownTracing, err := tracing.Init(ctx, log, "homerental", cfg.Environment)
	if err != nil {
		log.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer shutdownTracing(context.Background())

	// 4. Connect to Postgres, retrying while the database comes up
	dbCfg := &database.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Database: cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	}
	pool, err := retry.Do(ctx, retry.DefaultConfig(), log, "connect database",
		func(ctx context.Context) (*database.ConnectionPool, error) {
			return database.NewConnectionPool(ctx, dbCfg, log)
		})
	if err != nil {
		log.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool.GetDB(), log); err != nil {
		log.Error("failed to ensure schema", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := database.SeedRoles(ctx, pool.GetDB(), middleware.RoleUser, middleware.RoleAdmin); err != nil {
		log.Error("failed to seed roles", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 5. Initialize Redis (optional; used for distributed rate limiting)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(cfg.RedisURL)
		if err != nil {
			log.Warn("redis unavailable, falling back to in-memory rate limiter",
				slog.String("error", err.Error()))
		} else {
			defer redisClient.Close()
		}
	}

	// 6. Store and services
	store := repository.NewStore(pool.GetDB(), log)
	hub := events.NewHub()

	userService := service.NewUserService(store, hub, log)
	houseService := service.NewHouseService(store, hub, log)
	tenantService := service.NewTenantService(store, hub, log)
	rentalService := service.NewRentalService(store, hub, log)

	// 7. Security components
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, "homerental")
	auditLogger := audit.NewLogger(log)

	var rateLimiter ratelimit.Limiter
	if redisClient != nil && featureflags.Enabled("redis_ratelimit") {
		rateLimiter = ratelimit.NewRedisLimiter(redisClient, cfg.RateLimitPerMinute, time.Minute, log)
		log.Info("using redis rate limiter", slog.Int("limit_per_minute", cfg.RateLimitPerMinute))
	} else {
		rateLimiter = ratelimit.NewMemoryLimiter(cfg.RateLimitPerMinute, time.Minute)
	}
	defer rateLimiter.Stop()

	// 8. Handlers and routes
	api := &handler.API{
		Users:   handler.NewUserHandler(userService, log),
		Houses:  handler.NewHouseHandler(houseService, log),
		Tenants: handler.NewTenantHandler(tenantService, log),
		Rentals: handler.NewRentalHandler(rentalService, log),
		Login:   handler.NewLoginHandler(tokenManager, userService, log),
	}
	healthHandler := handler.NewHealthHandler(pool, redisClient, log)
	eventsHandler := handler.NewEventsHandler(hub, log, cfg.CORSAllowedOrigins)

	mux := http.NewServeMux()
	api.Register(mux)
	if featureflags.Enabled("disable_events_stream") {
		log.Info("event stream disabled by flag")
	} else {
		mux.Handle("GET /ws/events", eventsHandler)
	}
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", healthHandler.Health)
	mux.HandleFunc("GET /readyz", healthHandler.Ready)

	// CORS middleware honoring configured origins
	handlerWithCORS := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(cfg.CORSAllowedOrigins, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else if len(cfg.CORSAllowedOrigins) > 0 {
			w.Header().Set("Access-Control-Allow-Origin", cfg.CORSAllowedOrigins[0])
		}
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})

	// Chain middleware: request ID -> metrics -> audit -> rate limit -> content type -> JWT -> CORS
	rootHandler := withRequestID(
		metrics.HTTPMetricsMiddleware(
			middleware.AuditMiddleware(auditLogger)(
				middleware.RateLimitMiddleware(rateLimiter, log)(
					middleware.ValidateJSONContentType(log)(
						middleware.JWTMiddleware(tokenManager, log)(handlerWithCORS),
					),
				),
			),
		),
		log,
	)
	tracedHandler := otelhttp.NewHandler(rootHandler, "homerental")

	// 9. Start expiry worker in background
	if featureflags.Enabled("disable_expiry_sweep") {
		log.Info("expiry sweep disabled by flag")
	} else {
		expiryWorker := worker.NewExpiryWorker(store, log, time.Duration(cfg.SweepIntervalMinutes)*time.Minute)
		go expiryWorker.Start(ctx)
	}

	// 10. Start HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      tracedHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("server starting",
		slog.Int("port", cfg.ServerPort),
		slog.String("auth", "jwt"),
		slog.Int("rate_limit", cfg.RateLimitPerMinute),
		slog.String("rate_limit_window", "1m"),
	)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.String("error", err.Error()))
		}
	}()

	<-sigChan
	log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}

	cancel() // Stop expiry worker
	log.Info("server stopped")
}

type requestIDKey struct{}

// withRequestID attaches a request ID to the context and response headers for traceability
func withRequestID(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := generateRequestID()
		w.Header().Set("X-Request-ID", reqID)

		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		start := time.Now()

		next.ServeHTTP(w, r.WithContext(ctx))

		log.Info("request completed",
			slog.String("request_id", reqID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("duration_ms", time.Since(start)),
		)
	})
}

func originAllowed(allowed []string, origin string) bool {
	if origin == "" {
		return false
	}
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}

func generateRequestID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err == nil {
		return hex.EncodeToString(buf)
	}
	return fmt.Sprintf("req-%d", time.Now().UnixNano())
}
