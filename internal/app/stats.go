package app

import (
	"fmt"
	"math"
	"time"

	"rankedoverlay/internal/domain"
)

// ComputeTotalMatches returns the number of counted matches.
func ComputeTotalMatches(wins, losses, draws int) int {
	return wins + losses + draws
}

// ComputeWinRate returns the win percentage rounded to one decimal.
// No counted matches means a win rate of 0.
func ComputeWinRate(wins, losses, draws int) float64 {
	total := ComputeTotalMatches(wins, losses, draws)
	if total == 0 {
		return 0
	}
	return math.Round(float64(wins)/float64(total)*1000) / 10
}

// ComputeEloDelta sums the tracked player's rating changes across matches
// strictly after the reference timestamp.
func ComputeEloDelta(matches []domain.Match, uuid string, reference time.Time) int {
	delta := 0
	for _, match := range matches {
		if !match.Date.After(reference) {
			continue
		}
		if change, ok := match.EloChangeFor(uuid); ok {
			delta += change
		}
	}
	return delta
}

// FormatSignedDelta renders a net rating change with an explicit sign for
// gains ("+5", "0", "-3").
func FormatSignedDelta(n int) string {
	if n > 0 {
		return fmt.Sprintf("+%d", n)
	}
	return fmt.Sprintf("%d", n)
}

// ComputeAverageCompletionTime averages the completion times of the tracked
// player's wins strictly after the reference timestamp. Returns nil when no
// win with a recorded completion time qualifies.
func ComputeAverageCompletionTime(matches []domain.Match, uuid string, reference time.Time) *time.Duration {
	var total time.Duration
	count := 0
	for _, match := range matches {
		if !match.Date.After(reference) {
			continue
		}
		if match.OutcomeFor(uuid) != domain.OutcomeWin {
			continue
		}
		if match.Result == nil || match.Result.CompletionTime == nil {
			continue
		}
		total += *match.Result.CompletionTime
		count++
	}

	if count == 0 {
		return nil
	}

	average := total / time.Duration(count)
	return &average
}

// FormatCompletionTime renders a duration as "M:SS" with unpadded minutes.
// A nil duration renders as "N/A".
func FormatCompletionTime(d *time.Duration) string {
	if d == nil {
		return "N/A"
	}
	totalSeconds := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", totalSeconds/60, totalSeconds%60)
}
