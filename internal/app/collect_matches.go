package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"rankedoverlay/internal/adapters/rankedapi"
	"rankedoverlay/internal/domain"
	"rankedoverlay/internal/logging"
	"rankedoverlay/internal/reporting"
)

// maxMatchPages bounds the pagination loop when the upstream keeps serving
// full pages of matches newer than the reference.
const maxMatchPages = 100

// MatchCollection is the result of one full aggregation pass. Matches holds
// every fetched match in upstream order (newest first), including matches at
// or before the reference. The counters only cover matches strictly after
// the reference.
type MatchCollection struct {
	Matches []domain.Match

	Wins   int
	Losses int
	Draws  int
}

type CollectMatches = func(ctx context.Context, uuid string, reference time.Time) (*MatchCollection, error)

// BuildCollectMatches returns a function that walks the player's match
// history page by page until it has seen every match after the reference
// timestamp. Any page failure aborts the whole pass; no partial aggregate
// is ever returned.
func BuildCollectMatches(matchProvider rankedapi.MatchProvider) CollectMatches {
	return func(ctx context.Context, uuid string, reference time.Time) (*MatchCollection, error) {
		logger := logging.FromContext(ctx)

		collection := &MatchCollection{}

		var previousLeadingID int64
		for page := 0; ; page++ {
			if page >= maxMatchPages {
				err := fmt.Errorf("match history pagination exceeded %d pages (%w)", maxMatchPages, domain.ErrTemporarilyUnavailable)
				reporting.Report(ctx, err, map[string]string{
					"uuid":      uuid,
					"reference": reference.Format(time.RFC3339),
				})
				return nil, err
			}

			matches, err := matchProvider.GetMatchPage(ctx, uuid, page)
			if err != nil {
				// NOTE: MatchProvider implementations handle their own error reporting
				return nil, fmt.Errorf("failed to fetch match page %d: %w", page, err)
			}

			if len(matches) > 0 && page > 0 && matches[0].ID == previousLeadingID {
				// The upstream served the same page twice; walking further
				// would loop forever
				err := fmt.Errorf("match history pagination is stuck (%w)", domain.ErrTemporarilyUnavailable)
				reporting.Report(ctx, err, map[string]string{
					"uuid":      uuid,
					"page":      strconv.Itoa(page),
					"leadingId": strconv.FormatInt(matches[0].ID, 10),
				})
				return nil, err
			}
			if len(matches) > 0 {
				previousLeadingID = matches[0].ID
			}

			for _, match := range matches {
				collection.Matches = append(collection.Matches, match)

				if !match.Date.After(reference) {
					continue
				}

				switch match.OutcomeFor(uuid) {
				case domain.OutcomeWin:
					collection.Wins++
				case domain.OutcomeLoss:
					collection.Losses++
				case domain.OutcomeDraw:
					collection.Draws++
				}
			}

			if len(matches) < rankedapi.PageSize {
				break
			}
			oldest := matches[len(matches)-1]
			if !oldest.Date.After(reference) {
				break
			}
		}

		logger.Info(
			"collected match history",
			"uuid", uuid,
			"matches", len(collection.Matches),
			"wins", collection.Wins,
			"losses", collection.Losses,
			"draws", collection.Draws,
		)

		return collection, nil
	}
}
