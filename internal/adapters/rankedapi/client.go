package rankedapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"rankedoverlay/internal/constants"
	"rankedoverlay/internal/domain"
	"rankedoverlay/internal/logging"
	"rankedoverlay/internal/reporting"
)

// PageSize is the fixed match-history page size served by the ranked API.
const PageSize = 50

// matchTypeRanked selects ranked (season) matches in the history endpoint.
const matchTypeRanked = 2

type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type rankedAPI struct {
	httpClient HttpClient
	baseURL    string

	metrics rankedAPIMetricsCollection
}

var _ PlayerProvider = &rankedAPI{}
var _ MatchProvider = &rankedAPI{}

func NewRankedAPI(httpClient HttpClient, baseURL string) (*rankedAPI, error) {
	meter := otel.Meter("rankedapi/client")
	metrics, err := setupRankedAPIMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("failed to set up metrics: %w", err)
	}

	return &rankedAPI{
		httpClient: httpClient,
		baseURL:    baseURL,

		metrics: metrics,
	}, nil
}

func (r *rankedAPI) GetPlayer(ctx context.Context, nameOrUUID string) (*domain.Player, error) {
	url := fmt.Sprintf("%s/users/%s", r.baseURL, nameOrUUID)

	data, statusCode, queriedAt, err := r.get(ctx, url)
	if err != nil {
		// NOTE: get handles its own error reporting
		return nil, fmt.Errorf("failed to get user data: %w", err)
	}

	player, err := playerFromUserResponse(statusCode, data, queriedAt)
	if err != nil {
		r.reportResponseError(ctx, err, url, statusCode, data)
		return nil, fmt.Errorf("failed to convert user response to player: %w", err)
	}

	r.metrics.requestCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", "users"),
	))

	return player, nil
}

func (r *rankedAPI) GetMatchPage(ctx context.Context, uuid string, page int) ([]domain.Match, error) {
	url := fmt.Sprintf(
		"%s/users/%s/matches?type=%d&excludedecay=false&count=%d&page=%d",
		r.baseURL, uuid, matchTypeRanked, PageSize, page,
	)

	data, statusCode, _, err := r.get(ctx, url)
	if err != nil {
		// NOTE: get handles its own error reporting
		return nil, fmt.Errorf("failed to get match page: %w", err)
	}

	matches, err := matchesFromMatchesResponse(statusCode, data)
	if err != nil {
		r.reportResponseError(ctx, err, url, statusCode, data)
		return nil, fmt.Errorf("failed to convert matches response: %w", err)
	}

	r.metrics.requestCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", "matches"),
		attribute.Int("page_length", len(matches)),
	))

	return matches, nil
}

func (r *rankedAPI) get(ctx context.Context, url string) ([]byte, int, time.Time, error) {
	logger := logging.FromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		err := fmt.Errorf("failed to create request: %w", err)
		logger.Error(err.Error())
		reporting.Report(ctx, err)
		return nil, -1, time.Time{}, err
	}

	req.Header.Set("User-Agent", constants.USER_AGENT)

	start := time.Now()
	resp, err := r.httpClient.Do(req)
	if err != nil {
		err := fmt.Errorf("failed to send request: %s (%w)", err.Error(), domain.ErrTemporarilyUnavailable)
		logger.Error(err.Error())
		reporting.Report(ctx, err)
		return nil, -1, time.Time{}, err
	}

	queriedAt := time.Now()

	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		err := fmt.Errorf("failed to read response body: %s (%w)", err.Error(), domain.ErrTemporarilyUnavailable)
		logger.Error(err.Error())
		reporting.Report(ctx, err)
		return nil, -1, time.Time{}, err
	}
	logger.Info("ranked api request completed", "url", url, "status", resp.StatusCode, "duration", time.Since(start).String())

	return data, resp.StatusCode, queriedAt, nil
}

func (r *rankedAPI) reportResponseError(ctx context.Context, err error, url string, statusCode int, data []byte) {
	// Expected conditions are part of the normal flow and not worth a report
	if statusCode == http.StatusNotFound {
		return
	}
	reporting.Report(ctx, err, map[string]string{
		"url":        url,
		"statusCode": fmt.Sprint(statusCode),
		"data":       string(data),
	})
}

type rankedAPIMetricsCollection struct {
	requestCount metric.Int64Counter
}

func setupRankedAPIMetrics(meter metric.Meter) (rankedAPIMetricsCollection, error) {
	requestCount, err := meter.Int64Counter("rankedapi/client/completed_requests")
	if err != nil {
		return rankedAPIMetricsCollection{}, fmt.Errorf("failed to create metric: %w", err)
	}

	return rankedAPIMetricsCollection{
		requestCount: requestCount,
	}, nil
}
