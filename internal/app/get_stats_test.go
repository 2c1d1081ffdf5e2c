package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rankedoverlay/internal/app"
	"rankedoverlay/internal/domain"
)

func TestGetStats(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.October, 18, 12, 0, 0, 0, time.UTC)
	nowFunc := func() time.Time { return now }

	eloRate := 1699
	player := &domain.Player{
		QueriedAt: now,
		UUID:      trackedUUID,
		Nickname:  "7rowl",
		EloRate:   &eloRate,
	}
	lookupPlayer := func(ctx context.Context, nameOrUUID string) (*domain.Player, error) {
		require.Equal(t, "7rowl", nameOrUUID)
		return player, nil
	}

	t.Run("with since", func(t *testing.T) {
		t.Parallel()

		since := now.Add(-time.Hour)
		completion := 10 * time.Minute
		trackedWinner := trackedUUID

		collectMatches := func(ctx context.Context, uuid string, reference time.Time) (*app.MatchCollection, error) {
			require.Equal(t, trackedUUID, uuid)
			require.Equal(t, since, reference)
			return &app.MatchCollection{
				Matches: []domain.Match{
					{
						ID:   2,
						Date: now.Add(-10 * time.Minute),
						Result: &domain.MatchResult{
							WinnerUUID:     &trackedWinner,
							CompletionTime: &completion,
						},
						Changes: []domain.EloChange{{UUID: trackedUUID, Change: 16}},
					},
					{
						ID:      1,
						Date:    now.Add(-20 * time.Minute),
						Result:  &domain.MatchResult{},
						Changes: []domain.EloChange{{UUID: trackedUUID, Change: 0}},
					},
				},
				Wins:  1,
				Draws: 1,
			}, nil
		}

		getStats := app.BuildGetStats(lookupPlayer, collectMatches, nowFunc)
		snapshot, err := getStats(context.Background(), "7rowl", &since)
		require.NoError(t, err)

		assert.Equal(t, app.WidgetStateActive, snapshot.State)
		assert.Equal(t, trackedUUID, snapshot.UUID)
		assert.Equal(t, "7rowl", snapshot.Nickname)
		assert.Equal(t, "Diamond 2", snapshot.RankTier)
		assert.Equal(t, 1, snapshot.Wins)
		assert.Equal(t, 0, snapshot.Losses)
		assert.Equal(t, 1, snapshot.Draws)
		assert.Equal(t, 2, snapshot.TotalMatches)
		assert.InDelta(t, 50.0, snapshot.WinRate, 1e-9)
		assert.Equal(t, "+16", snapshot.EloDelta)
		assert.Equal(t, "10:00", snapshot.AverageCompletionTime)
		assert.Equal(t, since, snapshot.Reference)
		assert.Equal(t, now, snapshot.UpdatedAt)
	})

	t.Run("nil since counts from now", func(t *testing.T) {
		t.Parallel()

		collectMatches := func(ctx context.Context, uuid string, reference time.Time) (*app.MatchCollection, error) {
			require.Equal(t, now, reference)
			return &app.MatchCollection{}, nil
		}

		getStats := app.BuildGetStats(lookupPlayer, collectMatches, nowFunc)
		snapshot, err := getStats(context.Background(), "7rowl", nil)
		require.NoError(t, err)

		assert.Zero(t, snapshot.TotalMatches)
		assert.Equal(t, "0", snapshot.EloDelta)
		assert.Equal(t, "N/A", snapshot.AverageCompletionTime)
	})

	t.Run("lookup failure propagates", func(t *testing.T) {
		t.Parallel()

		lookupPlayer := func(ctx context.Context, nameOrUUID string) (*domain.Player, error) {
			return nil, domain.ErrPlayerNotFound
		}
		collectMatches := func(ctx context.Context, uuid string, reference time.Time) (*app.MatchCollection, error) {
			t.Fatal("collectMatches should not be called")
			return nil, nil
		}

		getStats := app.BuildGetStats(lookupPlayer, collectMatches, nowFunc)
		_, err := getStats(context.Background(), "7rowl", nil)
		require.ErrorIs(t, err, domain.ErrPlayerNotFound)
	})

	t.Run("unrated player gets the unranked label", func(t *testing.T) {
		t.Parallel()

		lookupPlayer := func(ctx context.Context, nameOrUUID string) (*domain.Player, error) {
			return &domain.Player{UUID: trackedUUID, Nickname: "7rowl"}, nil
		}
		collectMatches := func(ctx context.Context, uuid string, reference time.Time) (*app.MatchCollection, error) {
			return &app.MatchCollection{}, nil
		}

		getStats := app.BuildGetStats(lookupPlayer, collectMatches, nowFunc)
		snapshot, err := getStats(context.Background(), "7rowl", nil)
		require.NoError(t, err)
		assert.Nil(t, snapshot.EloRate)
		assert.Equal(t, domain.UnrankedLabel, snapshot.RankTier)
	})
}
