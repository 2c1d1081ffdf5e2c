package app

import (
	"context"
	"fmt"
	"time"
)

type GetStats = func(ctx context.Context, nameOrUUID string, since *time.Time) (*StatsSnapshot, error)

// BuildGetStats returns a one-shot statistics computation: resolve the
// player, aggregate their match history and derive every widget statistic
// in a single pass. A nil since counts from the moment of the call, which
// yields all-zero counters.
func BuildGetStats(
	lookupPlayer LookupPlayer,
	collectMatches CollectMatches,
	nowFunc func() time.Time,
) GetStats {
	return func(ctx context.Context, nameOrUUID string, since *time.Time) (*StatsSnapshot, error) {
		player, err := lookupPlayer(ctx, nameOrUUID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up player: %w", err)
		}

		now := nowFunc()
		reference := now
		if since != nil {
			reference = *since
		}

		collection, err := collectMatches(ctx, player.UUID, reference)
		if err != nil {
			return nil, fmt.Errorf("failed to collect matches: %w", err)
		}

		snapshot := &StatsSnapshot{State: WidgetStateActive}
		snapshotStats(snapshot, player, collection, reference, now)

		return snapshot, nil
	}
}
