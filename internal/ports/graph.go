package ports

import (
	"errors"
	"log/slog"
	"net/http"

	"rankedoverlay/internal/app"
	"rankedoverlay/internal/domain"
	"rankedoverlay/internal/logging"
	"rankedoverlay/internal/ratelimiting"
	"rankedoverlay/internal/reporting"
)

// MakeGetWidgetGraphHandler serves the raw per-match rating series for a
// widget's tracked player, oldest first. Rendering is left entirely to the
// consumer.
func MakeGetWidgetGraphHandler(
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
		reporting.NewAddMetaMiddleware("widgetgraph"),
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

		snapshot := session.Snapshot()

		writeJSON(w, r, http.StatusOK, struct {
			UUID   string               `json:"uuid"`
			Points []graphPointResponse `json:"points"`
		}{
			UUID:   snapshot.UUID,
			Points: matchesToGraphPoints(session.Matches(), snapshot.UUID),
		})
	}

	return middleware(handler)
}
