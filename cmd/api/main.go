// Package main is the entrypoint for the Waylink API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/joho/godotenv/autoload"

	"github.com/waylink/waylink/internal/analytics"
	"github.com/waylink/waylink/internal/cache"
	"github.com/waylink/waylink/internal/config"
	"github.com/waylink/waylink/internal/deeplink"
	"github.com/waylink/waylink/internal/dispatch"
	"github.com/waylink/waylink/internal/handler"
	"github.com/waylink/waylink/internal/metrics"
	"github.com/waylink/waylink/internal/middleware"
	"github.com/waylink/waylink/internal/server"
	"github.com/waylink/waylink/internal/service"
	"github.com/waylink/waylink/internal/store"
	"github.com/waylink/waylink/internal/warmup"
)

func main() {
	// Initialize context
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize database
	st, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to database")

	// Initialize cache
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		st.Close()
		os.Exit(1)
	}
	logger.Info("connected to Redis")

	// Resolution pipeline
	metricsRecorder := metrics.NewInMemory()
	eventLog := analytics.NewRecorder(cfg.AnalyticsCapacity)
	dispatcher := dispatch.NewDispatcher(st, logger, metricsRecorder)
	prefetcher := cache.NewPrefetcher(cacheClient, cfg.PrefetchTTL, logger, metricsRecorder)
	resolver := service.NewResolver(dispatcher, prefetcher, eventLog, metricsRecorder)
	builder := deeplink.NewBuilder(cfg.AppScheme, cfg.UniversalHost, cfg.IsDevelopment())

	// Handlers
	deps := routerDeps{
		root:      handler.New(),
		health:    handler.NewHealthHandler(st, cacheClient),
		link:      handler.NewLinkHandler(resolver, builder, logger),
		route:     handler.NewRouteHandler(),
		analytics: handler.NewAnalyticsHandler(eventLog, metricsRecorder, logger),
		fallback:  handler.NewFallbackHandler(cfg.WebAppURL, eventLog, metricsRecorder, logger),
		wellKnown: handler.NewWellKnownHandler(cfg.AppleAppID, cfg.AndroidPackage, cfg.GetAndroidCertFingerprints()),
		token:     handler.NewTokenHandler(logger, st),
		metrics:   handler.NewMetricsHandler(metricsRecorder),
		store:     st,
		cache:     cacheClient,
		cfg:       cfg,
		logger:    logger,
	}

	r := setupRouter(deps)

	// Create and run server
	srv := server.New(
		r,
		server.Options{
			Port:            cfg.AppPort,
			ReadTimeout:     cfg.ReadTimeout,
			WriteTimeout:    cfg.WriteTimeout,
			ShutdownTimeout: cfg.ShutdownTimeout,
		},
		logger,
	)

	// Shutdown runs LIFO: warmup stops first, connections close last.
	srv.OnShutdown("store", func(context.Context) error {
		st.Close()
		return nil
	})
	srv.OnShutdown("cache", func(context.Context) error {
		return cacheClient.Close()
	})

	if cfg.WarmupEnabled {
		warmCtx, stopWarmer := context.WithCancel(ctx)
		warmer := warmup.New(st, prefetcher, warmup.Config{
			Interval: cfg.WarmupInterval,
			Sessions: cfg.WarmupSessions,
		}, logger)
		go warmer.Run(warmCtx)
		srv.OnShutdown("warmup", func(context.Context) error {
			stopWarmer()
			return nil
		})
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"scheme", cfg.AppScheme,
		"universal_host", cfg.UniversalHost,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// routerDeps bundles everything setupRouter wires together.
type routerDeps struct {
	root      *handler.Handler
	health    *handler.HealthHandler
	link      *handler.LinkHandler
	route     *handler.RouteHandler
	analytics *handler.AnalyticsHandler
	fallback  *handler.FallbackHandler
	wellKnown *handler.WellKnownHandler
	token     *handler.TokenHandler
	metrics   *handler.MetricsHandler
	store     *store.Store
	cache     *cache.Cache
	cfg       *config.Config
	logger    *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(deps routerDeps) *chi.Mux {
	cfg := deps.cfg
	logger := deps.logger

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment:      cfg.IsDevelopment(),
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	}))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	// Health endpoints (no auth required)
	r.Get("/healthz", deps.health.Healthz)
	r.Get("/readyz", deps.health.Readyz)

	// Root info endpoint
	r.Get("/", deps.root.Hello)

	// Metrics exposition
	r.Get("/metrics", deps.metrics.Metrics)

	// Universal-link association files, fetched by the app platforms
	r.Get("/.well-known/apple-app-site-association", deps.wellKnown.AppleAppSiteAssociation)
	r.Get("/.well-known/assetlinks.json", deps.wellKnown.AssetLinks)

	// Auth middleware configuration
	authCfg := middleware.AuthConfig{
		Logger: logger,
		Store:  deps.store,
		Cache:  deps.cache,
	}

	// Rate limit middleware configuration
	rateLimitCfg := middleware.RateLimitConfig{
		Logger:          logger,
		Cache:           deps.cache,
		APIEnabled:      cfg.RateLimitAPIEnabled,
		FallbackEnabled: cfg.RateLimitFallbackEnabled,
		FallbackRPS:     cfg.RateLimitFallbackRPS,
		FallbackBurst:   cfg.RateLimitFallbackBurst,
	}

	// API v1 routes (require authentication)
	r.Route("/api/v1", func(r chi.Router) {
		// Apply auth and rate limit middleware to all API routes
		r.Use(middleware.Auth(authCfg))
		r.Use(middleware.RateLimitAPI(rateLimitCfg))

		// Link resolution (requires resolve scope)
		r.Route("/links", func(r chi.Router) {
			r.With(middleware.RequireResolve()).Post("/parse", deps.link.Parse)
			r.With(middleware.RequireResolve()).Post("/resolve", deps.link.Resolve)
			r.With(middleware.RequireResolve()).Get("/build", deps.link.Build)
			r.With(middleware.RequireResolve()).Post("/build", deps.link.Build)
		})

		// Route table introspection
		r.Route("/routes", func(r chi.Router) {
			r.With(middleware.RequireResolve()).Get("/", deps.route.List)
			r.With(middleware.RequireResolve()).Get("/check", deps.route.Check)
		})

		// Analytics (clearing requires admin scope)
		r.Route("/analytics", func(r chi.Router) {
			r.With(middleware.RequireAnalytics()).Get("/events", deps.analytics.Events)
			r.With(middleware.RequireAnalytics()).Get("/stats", deps.analytics.Stats)
			r.With(middleware.RequireAnalytics()).Get("/report", deps.analytics.Report)
			r.With(middleware.RequireAdmin()).Delete("/events", deps.analytics.Clear)
		})

		// Client-token management (admin scope; tokens are not client-scoped)
		r.Route("/tokens", func(r chi.Router) {
			r.With(middleware.RequireAdmin()).Get("/", deps.token.List)
			r.With(middleware.RequireAdmin()).Post("/", deps.token.Create)
			r.With(middleware.RequireAdmin()).Delete("/{id}", deps.token.Revoke)
		})
	})

	// Browser fallback with IP-based rate limiting (no auth required)
	r.With(middleware.RateLimitIP(rateLimitCfg)).Get("/l/*", deps.fallback.Redirect)

	// 404 and 405 handlers
	r.NotFound(deps.root.NotFound)
	r.MethodNotAllowed(deps.root.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
