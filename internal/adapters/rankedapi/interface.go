package rankedapi

import (
	"context"

	"rankedoverlay/internal/domain"
)

type PlayerProvider interface {
	// Raises domain.ErrPlayerNotFound if no player exists for the given name or UUID
	//
	// Raises domain.ErrTemporarilyUnavailable if the provider implementation receives an error believed to be intermittent. The call may be retried later.
	GetPlayer(ctx context.Context, nameOrUUID string) (*domain.Player, error)
}

type MatchProvider interface {
	// GetMatchPage fetches one page of the player's ranked match history,
	// newest first, with a fixed page size of PageSize.
	//
	// Raises domain.ErrPlayerNotFound if no player exists for the given UUID
	//
	// Raises domain.ErrTemporarilyUnavailable if the provider implementation receives an error believed to be intermittent. The call may be retried later.
	GetMatchPage(ctx context.Context, uuid string, page int) ([]domain.Match, error)
}
