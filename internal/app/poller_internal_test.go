package app

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rankedoverlay/internal/domain"
)

const pollerTrackedUUID = "70eb9286e3e24153a8b37c8f884f1292"

func pollerTestPlayer() *domain.Player {
	eloRate := 1699
	return &domain.Player{
		UUID:     pollerTrackedUUID,
		Nickname: "7rowl",
		EloRate:  &eloRate,
	}
}

func TestWidgetSessionLifecycle(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.October, 18, 12, 0, 0, 0, time.UTC)
	nowFunc := func() time.Time { return now }

	t.Run("initializes and goes active", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var references []time.Time

		lookupPlayer := func(ctx context.Context, nameOrUUID string) (*domain.Player, error) {
			return pollerTestPlayer(), nil
		}
		collectMatches := func(ctx context.Context, uuid string, reference time.Time) (*MatchCollection, error) {
			mu.Lock()
			references = append(references, reference)
			calls := len(references)
			mu.Unlock()
			return &MatchCollection{Wins: calls}, nil
		}

		session := startWidgetSession(
			context.Background(),
			lookupPlayer,
			collectMatches,
			WidgetConfig{PlayerName: "7rowl"},
			nowFunc,
			10*time.Millisecond,
		)
		defer session.Stop()

		require.Eventually(t, func() bool {
			return session.Snapshot().State == WidgetStateActive
		}, time.Second, time.Millisecond)

		snapshot := session.Snapshot()
		assert.Equal(t, pollerTrackedUUID, snapshot.UUID)
		assert.Equal(t, "Diamond 2", snapshot.RankTier)
		assert.Equal(t, now, snapshot.Reference)
		assert.False(t, snapshot.PlayerNotFound)
		assert.False(t, snapshot.Unavailable)

		// Further polls re-aggregate against the same fixed reference
		require.Eventually(t, func() bool {
			return session.Snapshot().Wins > 1
		}, time.Second, time.Millisecond)

		mu.Lock()
		defer mu.Unlock()
		for _, reference := range references {
			assert.Equal(t, now, reference)
		}
	})

	t.Run("player not found is terminal", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		lookups := 0

		lookupPlayer := func(ctx context.Context, nameOrUUID string) (*domain.Player, error) {
			mu.Lock()
			lookups++
			mu.Unlock()
			return nil, domain.ErrPlayerNotFound
		}
		collectMatches := func(ctx context.Context, uuid string, reference time.Time) (*MatchCollection, error) {
			t.Error("collectMatches should not be called")
			return nil, nil
		}

		session := startWidgetSession(
			context.Background(),
			lookupPlayer,
			collectMatches,
			WidgetConfig{PlayerName: "doesnotexist"},
			nowFunc,
			10*time.Millisecond,
		)
		defer session.Stop()

		require.Eventually(t, func() bool {
			return session.Snapshot().PlayerNotFound
		}, time.Second, time.Millisecond)
		assert.Equal(t, WidgetStateStopped, session.Snapshot().State)

		// No retry timer keeps running for a missing player
		time.Sleep(50 * time.Millisecond)
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, 1, lookups)
	})

	t.Run("initialization retries after intermittent failure", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		lookups := 0

		lookupPlayer := func(ctx context.Context, nameOrUUID string) (*domain.Player, error) {
			mu.Lock()
			defer mu.Unlock()
			lookups++
			if lookups == 1 {
				return nil, fmt.Errorf("upstream is down (%w)", domain.ErrTemporarilyUnavailable)
			}
			return pollerTestPlayer(), nil
		}
		collectMatches := func(ctx context.Context, uuid string, reference time.Time) (*MatchCollection, error) {
			return &MatchCollection{}, nil
		}

		session := startWidgetSession(
			context.Background(),
			lookupPlayer,
			collectMatches,
			WidgetConfig{PlayerName: "7rowl"},
			nowFunc,
			10*time.Millisecond,
		)
		defer session.Stop()

		require.Eventually(t, func() bool {
			snapshot := session.Snapshot()
			return snapshot.State == WidgetStateInitializing && snapshot.Unavailable
		}, time.Second, time.Millisecond)

		require.Eventually(t, func() bool {
			return session.Snapshot().State == WidgetStateActive
		}, time.Second, time.Millisecond)
		assert.False(t, session.Snapshot().Unavailable)
	})

	t.Run("poll failure keeps last known statistics", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		aggregations := 0
		failing := false

		lookupPlayer := func(ctx context.Context, nameOrUUID string) (*domain.Player, error) {
			return pollerTestPlayer(), nil
		}
		collectMatches := func(ctx context.Context, uuid string, reference time.Time) (*MatchCollection, error) {
			mu.Lock()
			defer mu.Unlock()
			aggregations++
			if failing {
				return nil, fmt.Errorf("upstream is down (%w)", domain.ErrTemporarilyUnavailable)
			}
			return &MatchCollection{Wins: 3, Losses: 1}, nil
		}

		session := startWidgetSession(
			context.Background(),
			lookupPlayer,
			collectMatches,
			WidgetConfig{PlayerName: "7rowl"},
			nowFunc,
			10*time.Millisecond,
		)
		defer session.Stop()

		require.Eventually(t, func() bool {
			return session.Snapshot().State == WidgetStateActive
		}, time.Second, time.Millisecond)

		mu.Lock()
		failing = true
		mu.Unlock()

		require.Eventually(t, func() bool {
			return session.Snapshot().State == WidgetStateErrorRetrying
		}, time.Second, time.Millisecond)

		snapshot := session.Snapshot()
		assert.True(t, snapshot.Unavailable)
		assert.Equal(t, 3, snapshot.Wins)
		assert.Equal(t, 1, snapshot.Losses)

		// Recovers on a later tick
		mu.Lock()
		failing = false
		mu.Unlock()

		require.Eventually(t, func() bool {
			snapshot := session.Snapshot()
			return snapshot.State == WidgetStateActive && !snapshot.Unavailable
		}, time.Second, time.Millisecond)
	})

	t.Run("stop discards in-flight results", func(t *testing.T) {
		t.Parallel()

		gate := make(chan struct{})
		var mu sync.Mutex
		aggregations := 0

		lookupPlayer := func(ctx context.Context, nameOrUUID string) (*domain.Player, error) {
			return pollerTestPlayer(), nil
		}
		collectMatches := func(ctx context.Context, uuid string, reference time.Time) (*MatchCollection, error) {
			mu.Lock()
			aggregations++
			calls := aggregations
			mu.Unlock()
			if calls == 1 {
				return &MatchCollection{Wins: 1}, nil
			}
			// Block subsequent polls until the gate opens
			<-gate
			return &MatchCollection{Wins: 99}, nil
		}

		session := startWidgetSession(
			context.Background(),
			lookupPlayer,
			collectMatches,
			WidgetConfig{PlayerName: "7rowl"},
			nowFunc,
			10*time.Millisecond,
		)

		require.Eventually(t, func() bool {
			return session.Snapshot().State == WidgetStateActive
		}, time.Second, time.Millisecond)

		// Wait for a poll to block on the gate, then stop the session
		require.Eventually(t, func() bool {
			mu.Lock()
			defer mu.Unlock()
			return aggregations >= 2
		}, time.Second, time.Millisecond)

		session.Stop()
		close(gate)

		time.Sleep(50 * time.Millisecond)
		snapshot := session.Snapshot()
		assert.Equal(t, WidgetStateStopped, snapshot.State)
		assert.Equal(t, 1, snapshot.Wins)
	})
}

func TestWidgetSessionCountdown(t *testing.T) {
	t.Parallel()

	session := &WidgetSession{
		pollInterval: defaultPollInterval,
		snapshot:     StatsSnapshot{CountdownSeconds: 2},
	}

	session.decrementCountdown()
	assert.Equal(t, 1, session.Snapshot().CountdownSeconds)
	session.decrementCountdown()
	assert.Equal(t, 0, session.Snapshot().CountdownSeconds)
	// Never goes negative
	session.decrementCountdown()
	assert.Equal(t, 0, session.Snapshot().CountdownSeconds)
}
