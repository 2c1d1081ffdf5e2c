package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	_ "golang.org/x/crypto/x509roots/fallback"

	"rankedoverlay/internal/adapters/cache"
	"rankedoverlay/internal/adapters/rankedapi"
	"rankedoverlay/internal/app"
	"rankedoverlay/internal/config"
	"rankedoverlay/internal/domain"
	"rankedoverlay/internal/logging"
	"rankedoverlay/internal/ports"
	"rankedoverlay/internal/reporting"
	"rankedoverlay/internal/telemetry"
)

// TODO: Put in config
const PROD_DOMAIN_SUFFIX = "rankedoverlay.com"
const STAGING_DOMAIN_SUFFIX = "rankedoverlay.pages.dev"

// Combined upstream request rate cap across all widget sessions
const upstreamRequestsPerSecond = 2
const upstreamRequestBurst = 10

// Widgets not read by any browser source for this long are reaped
const widgetIdleTTL = 10 * time.Minute

func main() {
	instanceID := uuid.New().String()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("instanceID", instanceID)

	fail := func(msg string, args ...any) {
		logger.Error(msg, args...)
		os.Exit(1)
	}

	// Load a local .env in development; missing files are fine
	_ = godotenv.Load()

	config, err := config.ConfigFromEnv()
	if err != nil {
		fail("Failed to load config", "error", err.Error())
	}
	logger.Info("Loaded config", "config", config.NonSensitiveString())

	ctx := logging.AddToContext(context.Background(), logger)

	if !config.IsDevelopment() {
		shutdownTelemetry, err := telemetry.SetupOTelSDK(ctx, "rankedoverlay")
		if err != nil {
			fail("Failed to initialize telemetry", "error", err.Error())
		}
		defer func() {
			if err := shutdownTelemetry(context.Background()); err != nil {
				logger.Error("Failed to shut down telemetry", "error", err.Error())
			}
		}()
	}

	sentryMiddleware, flush, err := reporting.NewSentryMiddlewareOrMock(config)
	if err != nil {
		fail("Failed to initialize Sentry", "error", err.Error())
	}
	defer flush()
	logger.Info("Initialized Sentry middleware")

	httpClient := &http.Client{
		Timeout:   10 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	rankedAPI, err := rankedapi.NewRankedAPI(httpClient, config.RankedAPIBaseURL())
	if err != nil {
		fail("Failed to initialize ranked API client", "error", err.Error())
	}
	pacedAPI := rankedapi.NewPacedAPI(rankedAPI, upstreamRequestsPerSecond, upstreamRequestBurst)
	logger.Info("Initialized ranked API client")

	playerCache := cache.NewTTLCache[domain.Player](1 * time.Minute)
	lookupPlayer := app.BuildLookupPlayerWithCache(playerCache, pacedAPI)
	collectMatches := app.BuildCollectMatches(pacedAPI)
	getStats := app.BuildGetStats(lookupPlayer, collectMatches, time.Now)
	startSession := app.BuildSessionStarter(ctx, lookupPlayer, collectMatches, time.Now)

	registry := app.NewWidgetRegistry(widgetIdleTTL)
	defer registry.Close()

	allowedOrigins, err := ports.NewDomainSuffixes(PROD_DOMAIN_SUFFIX, STAGING_DOMAIN_SUFFIX)
	if err != nil {
		fail("Failed to initialize allowed origins", "error", err.Error())
	}

	http.HandleFunc(
		"OPTIONS /v1/widgets",
		ports.BuildCORSHandler(allowedOrigins),
	)
	http.HandleFunc(
		"POST /v1/widgets",
		ports.MakeCreateWidgetHandler(
			startSession,
			registry,
			allowedOrigins,
			logger.With("port", "createwidget"),
			sentryMiddleware,
		),
	)

	http.HandleFunc(
		"OPTIONS /v1/widgets/{id}",
		ports.BuildCORSHandler(allowedOrigins),
	)
	http.HandleFunc(
		"GET /v1/widgets/{id}",
		ports.MakeGetWidgetHandler(
			registry,
			allowedOrigins,
			logger.With("port", "getwidget"),
			sentryMiddleware,
		),
	)
	http.HandleFunc(
		"DELETE /v1/widgets/{id}",
		ports.MakeDeleteWidgetHandler(
			registry,
			allowedOrigins,
			logger.With("port", "deletewidget"),
			sentryMiddleware,
		),
	)

	http.HandleFunc(
		"OPTIONS /v1/widgets/{id}/graph",
		ports.BuildCORSHandler(allowedOrigins),
	)
	http.HandleFunc(
		"GET /v1/widgets/{id}/graph",
		ports.MakeGetWidgetGraphHandler(
			registry,
			allowedOrigins,
			logger.With("port", "widgetgraph"),
			sentryMiddleware,
		),
	)

	http.HandleFunc(
		"OPTIONS /v1/stats",
		ports.BuildCORSHandler(allowedOrigins),
	)
	http.HandleFunc(
		"GET /v1/stats",
		ports.MakeGetStatsHandler(
			getStats,
			allowedOrigins,
			logger.With("port", "stats"),
			sentryMiddleware,
		),
	)

	logger.Info("Init complete")
	err = http.ListenAndServe(fmt.Sprintf(":%s", config.Port()), nil)
	if errors.Is(err, http.ErrServerClosed) {
		logger.Info("Server shutdown")
	} else {
		fail("Server error", "error", err.Error())
	}
}
