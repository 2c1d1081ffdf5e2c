package domain

import (
	"time"
)

// Player is the identity of a tracked ladder player, resolved once per
// widget session. Only the rating fields change between polls.
type Player struct {
	QueriedAt time.Time

	UUID     string
	Nickname string

	// EloRate is nil for players without a placement rating this season
	EloRate *int
	// EloRank is the ladder placement, nil when unranked
	EloRank *int
}
