package rankedapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"rankedoverlay/internal/domain"
)

type userResponse struct {
	Status string   `json:"status"`
	Data   *apiUser `json:"data"`
}

type apiUser struct {
	UUID     string `json:"uuid"`
	Nickname string `json:"nickname"`
	EloRate  *int   `json:"eloRate"`
	EloRank  *int   `json:"eloRank"`
}

type matchesResponse struct {
	Status string     `json:"status"`
	Data   []apiMatch `json:"data"`
}

type apiMatch struct {
	ID        int64            `json:"id"`
	Type      int              `json:"type"`
	Season    int              `json:"season"`
	Date      int64            `json:"date"`
	Forfeited bool             `json:"forfeited"`
	Decayed   bool             `json:"decayed"`
	Players   []apiPlayer     `json:"players"`
	Result    *apiMatchResult `json:"result"`
	Changes   []apiEloChange  `json:"changes"`
}

type apiPlayer struct {
	UUID     string `json:"uuid"`
	Nickname string `json:"nickname"`
	EloRate  *int   `json:"eloRate"`
}

type apiMatchResult struct {
	UUID *string `json:"uuid"`
	// Time is the completion time in milliseconds
	Time *int64 `json:"time"`
}

type apiEloChange struct {
	UUID    string `json:"uuid"`
	Change  int    `json:"change"`
	EloRate *int   `json:"eloRate"`
}

// checkForAPIError absorbs non-success status codes into the error
// taxonomy. 404 means the queried player does not exist; everything else
// unexpected is treated as intermittent.
func checkForAPIError(statusCode int, data []byte) error {
	if statusCode == http.StatusOK {
		// Check for HTML response
		if len(data) > 0 && data[0] == '<' {
			return fmt.Errorf("ranked API returned HTML (%w)", domain.ErrTemporarilyUnavailable)
		}
		return nil
	}

	if statusCode == http.StatusNotFound {
		return domain.ErrPlayerNotFound
	}

	switch statusCode {
	case http.StatusTooManyRequests:
		return fmt.Errorf("ranked API ratelimit exceeded (%w)", domain.ErrTemporarilyUnavailable)
	case 500, 502, 503, 504, 520, 521, 522, 523, 524, 525, 526, 527, 530:
		return fmt.Errorf("ranked API returned status code %d (%s) (%w)", statusCode, http.StatusText(statusCode), domain.ErrTemporarilyUnavailable)
	}

	return fmt.Errorf("ranked API returned unsupported status code: %d (%w)", statusCode, domain.ErrTemporarilyUnavailable)
}

func playerFromUserResponse(statusCode int, data []byte, queriedAt time.Time) (*domain.Player, error) {
	if err := checkForAPIError(statusCode, data); err != nil {
		return nil, err
	}

	var response userResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to parse user response: %s (%w)", err.Error(), domain.ErrTemporarilyUnavailable)
	}

	if response.Data == nil {
		return nil, domain.ErrPlayerNotFound
	}

	return &domain.Player{
		QueriedAt: queriedAt,
		UUID:      response.Data.UUID,
		Nickname:  response.Data.Nickname,
		EloRate:   response.Data.EloRate,
		EloRank:   response.Data.EloRank,
	}, nil
}

func matchesFromMatchesResponse(statusCode int, data []byte) ([]domain.Match, error) {
	if err := checkForAPIError(statusCode, data); err != nil {
		return nil, err
	}

	var response matchesResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to parse matches response: %s (%w)", err.Error(), domain.ErrTemporarilyUnavailable)
	}

	matches := make([]domain.Match, 0, len(response.Data))
	for _, apiMatch := range response.Data {
		matches = append(matches, matchFromAPIMatch(apiMatch))
	}
	return matches, nil
}

func matchFromAPIMatch(m apiMatch) domain.Match {
	participants := make([]domain.MatchParticipant, 0, len(m.Players))
	for _, player := range m.Players {
		participants = append(participants, domain.MatchParticipant{
			UUID:     player.UUID,
			Nickname: player.Nickname,
			EloRate:  player.EloRate,
		})
	}

	var result *domain.MatchResult
	if m.Result != nil {
		var completionTime *time.Duration
		if m.Result.Time != nil {
			duration := time.Duration(*m.Result.Time) * time.Millisecond
			completionTime = &duration
		}
		result = &domain.MatchResult{
			WinnerUUID:     m.Result.UUID,
			CompletionTime: completionTime,
		}
	}

	changes := make([]domain.EloChange, 0, len(m.Changes))
	for _, change := range m.Changes {
		changes = append(changes, domain.EloChange{
			UUID:    change.UUID,
			Change:  change.Change,
			EloRate: change.EloRate,
		})
	}

	return domain.Match{
		ID:           m.ID,
		Type:         m.Type,
		Season:       m.Season,
		Date:         time.Unix(m.Date, 0).UTC(),
		Forfeited:    m.Forfeited,
		Decayed:      m.Decayed,
		Participants: participants,
		Result:       result,
		Changes:      changes,
	}
}
