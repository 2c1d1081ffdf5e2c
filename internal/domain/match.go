package domain

import (
	"time"
)

// Match is a single historical ranked contest. Matches are immutable once
// fetched; all derived statistics are computed by filtering and folding
// over them.
type Match struct {
	ID     int64
	Type   int
	Season int

	Date time.Time

	Forfeited bool
	Decayed   bool

	Participants []MatchParticipant

	// Result is nil when the upstream reported no result at all.
	// A nil WinnerUUID inside a present result marks a draw.
	Result *MatchResult

	Changes []EloChange
}

type MatchParticipant struct {
	UUID     string
	Nickname string

	// EloRate is the participant's rating at the time of the match
	EloRate *int
}

type MatchResult struct {
	WinnerUUID *string

	// CompletionTime is set for completed matches with a timed finish
	CompletionTime *time.Duration
}

type EloChange struct {
	UUID   string
	Change int

	// EloRate is the participant's rating after the change was applied
	EloRate *int
}

type Outcome int

const (
	OutcomeDraw Outcome = iota
	OutcomeWin
	OutcomeLoss
)

// OutcomeFor classifies the match relative to the tracked player.
// A missing result and a result without a winner both count as a draw.
func (m *Match) OutcomeFor(uuid string) Outcome {
	if m.Result == nil || m.Result.WinnerUUID == nil {
		return OutcomeDraw
	}
	if *m.Result.WinnerUUID == uuid {
		return OutcomeWin
	}
	return OutcomeLoss
}

// EloChangeFor returns the tracked player's signed rating change for this
// match. The second return is false when the match carries no change entry
// for the player.
func (m *Match) EloChangeFor(uuid string) (int, bool) {
	for _, change := range m.Changes {
		if change.UUID == uuid {
			return change.Change, true
		}
	}
	return 0, false
}
