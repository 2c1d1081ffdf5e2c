package ports

import (
	"time"

	"rankedoverlay/internal/app"
	"rankedoverlay/internal/domain"
)

// The JSON field names match what overlay widgets render
// (elo/eloPlusMinus/winCount/...).
type widgetStatsResponse struct {
	State          string `json:"state"`
	PlayerNotFound bool   `json:"playerNotFound"`
	Unavailable    bool   `json:"unavailable"`

	UUID       string `json:"uuid"`
	Nickname   string `json:"nickname"`
	Elo        *int   `json:"elo"`
	PlayerRank string `json:"playerRank"`

	WinCount     int     `json:"winCount"`
	LossCount    int     `json:"lossCount"`
	DrawCount    int     `json:"drawCount"`
	TotalMatches int     `json:"totalMatches"`
	WinRate      float64 `json:"winRate"`

	EloPlusMinus string `json:"eloPlusMinus"`
	AverageTime  string `json:"averageTime"`

	Countdown int `json:"countdown"`

	Reference *time.Time `json:"reference,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

func statsSnapshotToResponse(snapshot app.StatsSnapshot) widgetStatsResponse {
	response := widgetStatsResponse{
		State:          string(snapshot.State),
		PlayerNotFound: snapshot.PlayerNotFound,
		Unavailable:    snapshot.Unavailable,

		UUID:       snapshot.UUID,
		Nickname:   snapshot.Nickname,
		Elo:        snapshot.EloRate,
		PlayerRank: snapshot.RankTier,

		WinCount:     snapshot.Wins,
		LossCount:    snapshot.Losses,
		DrawCount:    snapshot.Draws,
		TotalMatches: snapshot.TotalMatches,
		WinRate:      snapshot.WinRate,

		EloPlusMinus: snapshot.EloDelta,
		AverageTime:  snapshot.AverageCompletionTime,

		Countdown: snapshot.CountdownSeconds,
	}

	if !snapshot.Reference.IsZero() {
		reference := snapshot.Reference
		response.Reference = &reference
	}
	if !snapshot.UpdatedAt.IsZero() {
		updatedAt := snapshot.UpdatedAt
		response.UpdatedAt = &updatedAt
	}

	return response
}

type graphPointResponse struct {
	MatchID   int64     `json:"matchId"`
	Date      time.Time `json:"date"`
	Elo       *int      `json:"elo"`
	Change    *int      `json:"change"`
	Outcome   string    `json:"outcome"`
	Forfeited bool      `json:"forfeited"`
	Decayed   bool      `json:"decayed"`
}

// matchesToGraphPoints converts the newest-first match list into an
// oldest-first rating series for the tracked player.
func matchesToGraphPoints(matches []domain.Match, uuid string) []graphPointResponse {
	points := make([]graphPointResponse, 0, len(matches))
	for i := len(matches) - 1; i >= 0; i-- {
		match := matches[i]

		point := graphPointResponse{
			MatchID:   match.ID,
			Date:      match.Date,
			Outcome:   outcomeLabel(match.OutcomeFor(uuid)),
			Forfeited: match.Forfeited,
			Decayed:   match.Decayed,
		}

		for _, change := range match.Changes {
			if change.UUID == uuid {
				c := change.Change
				point.Change = &c
				point.Elo = change.EloRate
				break
			}
		}

		points = append(points, point)
	}
	return points
}

func outcomeLabel(outcome domain.Outcome) string {
	switch outcome {
	case domain.OutcomeWin:
		return "win"
	case domain.OutcomeLoss:
		return "loss"
	default:
		return "draw"
	}
}
