package app

import (
	"time"

	"rankedoverlay/internal/domain"
)

type WidgetState string

const (
	// WidgetStateInitializing is the state before the first successful
	// player resolution and aggregation
	WidgetStateInitializing WidgetState = "initializing"
	// WidgetStateActive means the session has live statistics and a running
	// poll timer
	WidgetStateActive WidgetState = "active"
	// WidgetStateErrorRetrying means the last attempt failed and the session
	// will retry on the next tick. Any previously computed statistics are
	// retained in the snapshot.
	WidgetStateErrorRetrying WidgetState = "error_retrying"
	// WidgetStateStopped is terminal
	WidgetStateStopped WidgetState = "stopped"
)

// StatsSnapshot is the full set of values a widget renders. It is always
// internally consistent: every field was derived from the same aggregation
// pass.
type StatsSnapshot struct {
	State WidgetState

	// PlayerNotFound is set when the configured player does not exist.
	// Distinct from Unavailable, which marks an intermittent failure.
	PlayerNotFound bool
	Unavailable    bool

	UUID     string
	Nickname string
	EloRate  *int
	RankTier string

	Wins         int
	Losses       int
	Draws        int
	TotalMatches int
	WinRate      float64

	EloDelta              string
	AverageCompletionTime string

	// CountdownSeconds counts down to the next scheduled poll. Cosmetic; the
	// poll timer runs independently of it.
	CountdownSeconds int

	Reference time.Time
	UpdatedAt time.Time
}

// snapshotStats fills the statistics fields of a snapshot from one
// aggregation pass. Identity, state and countdown fields are left to the
// caller.
func snapshotStats(snapshot *StatsSnapshot, player *domain.Player, collection *MatchCollection, reference time.Time, now time.Time) {
	snapshot.UUID = player.UUID
	snapshot.Nickname = player.Nickname
	snapshot.EloRate = player.EloRate
	if player.EloRate != nil {
		snapshot.RankTier = domain.RankTier(*player.EloRate)
	} else {
		snapshot.RankTier = domain.UnrankedLabel
	}

	snapshot.Wins = collection.Wins
	snapshot.Losses = collection.Losses
	snapshot.Draws = collection.Draws
	snapshot.TotalMatches = ComputeTotalMatches(collection.Wins, collection.Losses, collection.Draws)
	snapshot.WinRate = ComputeWinRate(collection.Wins, collection.Losses, collection.Draws)
	snapshot.EloDelta = FormatSignedDelta(ComputeEloDelta(collection.Matches, player.UUID, reference))
	snapshot.AverageCompletionTime = FormatCompletionTime(ComputeAverageCompletionTime(collection.Matches, player.UUID, reference))

	snapshot.Reference = reference
	snapshot.UpdatedAt = now
}
