package cache

import (
	"context"
	"fmt"

	"rankedoverlay/internal/logging"
)

func GetOrCreate[T any](ctx context.Context, cache Cache[T], key string, create func() (T, error)) (T, error) {
	// Clean up the cache if we claim an entry, but don't set it
	// This allows other callers to try again
	claimed := false
	set := false
	defer func() {
		if claimed && !set {
			cache.delete(key)
		}
	}()

	for {
		result := cache.getOrClaim(key)

		if result.claimed {
			claimed = true

			logging.FromContext(ctx).Info("Resolving player", "cache", "miss")

			data, err := create()
			if err != nil {
				var empty T
				return empty, fmt.Errorf("failed to create cache entry: %w", err)
			}

			cache.set(key, data)
			set = true

			return data, nil
		}

		if result.valid {
			// Cache hit
			logging.FromContext(ctx).Info("Resolving player", "cache", "hit")
			return result.data, nil
		}

		// Another caller has claimed the entry but not filled it yet
		cache.wait()
	}
}
