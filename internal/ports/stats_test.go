package ports_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rankedoverlay/internal/app"
	"rankedoverlay/internal/domain"
	"rankedoverlay/internal/ports"
)

func TestMakeGetStatsHandler(t *testing.T) {
	t.Parallel()

	allowedOrigins := testAllowedOrigins(t)

	makeHandler := func(getStats app.GetStats) http.HandlerFunc {
		return ports.MakeGetStatsHandler(getStats, allowedOrigins, testLogger, noopMiddleware)
	}

	serve := func(handler http.HandlerFunc, target string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", target, nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		since := time.Date(2024, time.October, 18, 12, 0, 0, 0, time.UTC)
		eloRate := 1699

		called := false
		getStats := func(ctx context.Context, nameOrUUID string, gotSince *time.Time) (*app.StatsSnapshot, error) {
			called = true
			require.Equal(t, "7rowl", nameOrUUID)
			require.NotNil(t, gotSince)
			require.Equal(t, since, *gotSince)
			return &app.StatsSnapshot{
				State:                 app.WidgetStateActive,
				UUID:                  trackedUUID,
				Nickname:              "7rowl",
				EloRate:               &eloRate,
				RankTier:              "Diamond 2",
				Wins:                  3,
				Losses:                1,
				TotalMatches:          4,
				WinRate:               75,
				EloDelta:              "+21",
				AverageCompletionTime: "11:30",
			}, nil
		}

		w := serve(makeHandler(getStats), "/v1/stats?player=7rowl&since=2024-10-18T12:00:00Z")
		require.Equal(t, http.StatusOK, w.Code)
		require.True(t, called)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Diamond 2", body["playerRank"])
		assert.Equal(t, float64(1699), body["elo"])
		assert.Equal(t, float64(75), body["winRate"])
		assert.Equal(t, "+21", body["eloPlusMinus"])
		assert.Equal(t, "11:30", body["averageTime"])
	})

	t.Run("missing player", func(t *testing.T) {
		t.Parallel()

		getStats := func(ctx context.Context, nameOrUUID string, since *time.Time) (*app.StatsSnapshot, error) {
			t.Error("getStats should not be called")
			return nil, nil
		}

		w := serve(makeHandler(getStats), "/v1/stats")
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid since", func(t *testing.T) {
		t.Parallel()

		getStats := func(ctx context.Context, nameOrUUID string, since *time.Time) (*app.StatsSnapshot, error) {
			t.Error("getStats should not be called")
			return nil, nil
		}

		w := serve(makeHandler(getStats), "/v1/stats?player=7rowl&since=yesterday")
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("player not found", func(t *testing.T) {
		t.Parallel()

		getStats := func(ctx context.Context, nameOrUUID string, since *time.Time) (*app.StatsSnapshot, error) {
			return nil, fmt.Errorf("failed to look up player: %w", domain.ErrPlayerNotFound)
		}

		w := serve(makeHandler(getStats), "/v1/stats?player=doesnotexist")
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("temporarily unavailable", func(t *testing.T) {
		t.Parallel()

		getStats := func(ctx context.Context, nameOrUUID string, since *time.Time) (*app.StatsSnapshot, error) {
			return nil, fmt.Errorf("failed to collect matches: %w", domain.ErrTemporarilyUnavailable)
		}

		w := serve(makeHandler(getStats), "/v1/stats?player=7rowl")
		require.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
