package app

import (
	"context"
	"fmt"

	"rankedoverlay/internal/adapters/cache"
	"rankedoverlay/internal/adapters/rankedapi"
	"rankedoverlay/internal/domain"
)

type LookupPlayer = func(ctx context.Context, nameOrUUID string) (*domain.Player, error)

// BuildLookupPlayerWithCache resolves players through the given provider,
// deduplicating concurrent lookups and reusing recent results through the
// cache. Failed lookups are not cached.
func BuildLookupPlayerWithCache(
	playerCache cache.Cache[domain.Player],
	provider rankedapi.PlayerProvider,
) LookupPlayer {
	return func(ctx context.Context, nameOrUUID string) (*domain.Player, error) {
		player, err := cache.GetOrCreate(ctx, playerCache, nameOrUUID, func() (domain.Player, error) {
			player, err := provider.GetPlayer(ctx, nameOrUUID)
			if err != nil {
				// NOTE: PlayerProvider implementations handle their own error reporting
				return domain.Player{}, err
			}
			return *player, nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to resolve player: %w", err)
		}

		return &player, nil
	}
}
