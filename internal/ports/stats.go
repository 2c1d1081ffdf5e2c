package ports

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"rankedoverlay/internal/app"
	"rankedoverlay/internal/domain"
	"rankedoverlay/internal/logging"
	"rankedoverlay/internal/ratelimiting"
	"rankedoverlay/internal/reporting"
)

// MakeGetStatsHandler serves one-shot statistics computations for generator
// previews. Query params: player (required), since (optional RFC3339).
func MakeGetStatsHandler(
	getStats app.GetStats,
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
		reporting.NewAddMetaMiddleware("stats"),
		buildMetricsMiddleware(),
		BuildCORSMiddleware(allowedOrigins),
		NewRateLimitMiddleware(ipRatelimiter),
	)

	handler := func(w http.ResponseWriter, r *http.Request) {
		player := r.URL.Query().Get("player")
		if player == "" {
			http.Error(w, "Missing player", http.StatusBadRequest)
			return
		}

		var since *time.Time
		if rawSince := r.URL.Query().Get("since"); rawSince != "" {
			parsed, err := time.Parse(time.RFC3339, rawSince)
			if err != nil {
				http.Error(w, "Invalid since timestamp", http.StatusBadRequest)
				return
			}
			since = &parsed
		}

		snapshot, err := getStats(r.Context(), player, since)
		if errors.Is(err, domain.ErrPlayerNotFound) {
			http.Error(w, "Player not found", http.StatusNotFound)
			return
		} else if errors.Is(err, domain.ErrTemporarilyUnavailable) {
			http.Error(w, "Temporarily unavailable", http.StatusServiceUnavailable)
			return
		} else if err != nil {
			http.Error(w, "Failed to compute stats", http.StatusInternalServerError)
			return
		}

		writeJSON(w, r, http.StatusOK, statsSnapshotToResponse(*snapshot))
	}

	return middleware(handler)
}
