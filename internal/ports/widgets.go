package ports

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"rankedoverlay/internal/app"
	"rankedoverlay/internal/domain"
	"rankedoverlay/internal/logging"
	"rankedoverlay/internal/ratelimiting"
	"rankedoverlay/internal/reporting"
)

func writeJSON(w http.ResponseWriter, r *http.Request, statusCode int, payload any) {
	marshalled, err := json.Marshal(payload)
	if err != nil {
		reporting.Report(r.Context(), err)
		http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(marshalled)
}

func MakeCreateWidgetHandler(
	startSession app.SessionStarter,
	registry *app.WidgetRegistry,
	allowedOrigins *DomainSuffixes,
	logger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	tokenBucket, _ := ratelimiting.NewTokenBucketRateLimiter(
		ratelimiting.RefillPerSecond(1),
		ratelimiting.BurstSize(10),
	)
	ipRatelimiter := ratelimiting.NewRequestBasedRateLimiter(tokenBucket, ratelimiting.IPKeyFunc)
	middleware := ComposeMiddlewares(
		logging.NewRequestLoggerMiddleware(logger),
		sentryMiddleware,
		reporting.NewAddMetaMiddleware("createwidget"),
		buildMetricsMiddleware(),
		BuildCORSMiddleware(allowedOrigins),
		NewRateLimitMiddleware(ipRatelimiter),
	)

	handler := func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request body", http.StatusBadRequest)
			return
		}

		request := struct {
			Player string     `json:"player"`
			Since  *time.Time `json:"since"`
			Width  int        `json:"width"`
			Height int        `json:"height"`
		}{}
		if err := json.Unmarshal(body, &request); err != nil {
			http.Error(w, "Failed to parse request body", http.StatusBadRequest)
			return
		}

		config := app.WidgetConfig{
			PlayerName: request.Player,
			Reference:  request.Since,
			Width:      request.Width,
			Height:     request.Height,
		}
		if err := config.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		session := startSession(config)
		widgetID := registry.Register(r.Context(), session)

		writeJSON(w, r, http.StatusCreated, struct {
			WidgetID string `json:"widgetId"`
			Player   string `json:"player"`
			Width    int    `json:"width"`
			Height   int    `json:"height"`
		}{
			WidgetID: widgetID,
			Player:   config.PlayerName,
			Width:    config.Width,
			Height:   config.Height,
		})
	}

	return middleware(handler)
}

func MakeGetWidgetHandler(
	registry *app.WidgetRegistry,
	allowedOrigins *DomainSuffixes,
	logger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	tokenBucket, _ := ratelimiting.NewTokenBucketRateLimiter(
		ratelimiting.RefillPerSecond(2),
		ratelimiting.BurstSize(120),
	)
	ipRatelimiter := ratelimiting.NewRequestBasedRateLimiter(tokenBucket, ratelimiting.IPKeyFunc)
	middleware := ComposeMiddlewares(
		logging.NewRequestLoggerMiddleware(logger),
		sentryMiddleware,
		reporting.NewAddMetaMiddleware("getwidget"),
		buildMetricsMiddleware(),
		BuildCORSMiddleware(allowedOrigins),
		NewRateLimitMiddleware(ipRatelimiter),
	)

	handler := func(w http.ResponseWriter, r *http.Request) {
		widgetID := r.PathValue("id")

		ctx := reporting.SetWidgetIDInContext(r.Context(), widgetID)
		r = r.WithContext(ctx)

		session, err := registry.Get(widgetID)
		if errors.Is(err, domain.ErrWidgetNotFound) {
			http.Error(w, "Widget not found", http.StatusNotFound)
			return
		} else if err != nil {
			reporting.Report(r.Context(), err)
			http.Error(w, "Failed to get widget", http.StatusInternalServerError)
			return
		}

		writeJSON(w, r, http.StatusOK, statsSnapshotToResponse(session.Snapshot()))
	}

	return middleware(handler)
}

func MakeDeleteWidgetHandler(
	registry *app.WidgetRegistry,
	allowedOrigins *DomainSuffixes,
	logger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	tokenBucket, _ := ratelimiting.NewTokenBucketRateLimiter(
		ratelimiting.RefillPerSecond(1),
		ratelimiting.BurstSize(30),
	)
	ipRatelimiter := ratelimiting.NewRequestBasedRateLimiter(tokenBucket, ratelimiting.IPKeyFunc)
	middleware := ComposeMiddlewares(
		logging.NewRequestLoggerMiddleware(logger),
		sentryMiddleware,
		reporting.NewAddMetaMiddleware("deletewidget"),
		buildMetricsMiddleware(),
		BuildCORSMiddleware(allowedOrigins),
		NewRateLimitMiddleware(ipRatelimiter),
	)

	handler := func(w http.ResponseWriter, r *http.Request) {
		widgetID := r.PathValue("id")

		ctx := reporting.SetWidgetIDInContext(r.Context(), widgetID)
		r = r.WithContext(ctx)

		err := registry.Delete(r.Context(), widgetID)
		if errors.Is(err, domain.ErrWidgetNotFound) {
			http.Error(w, "Widget not found", http.StatusNotFound)
			return
		} else if err != nil {
			reporting.Report(r.Context(), err)
			http.Error(w, "Failed to delete widget", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}

	return middleware(handler)
}
