package rankedapi

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"rankedoverlay/internal/domain"
)

// API is the full client surface consumed by the application layer.
type API interface {
	PlayerProvider
	MatchProvider
}

type pacedAPI struct {
	inner   API
	limiter *rate.Limiter
}

var _ API = &pacedAPI{}

// NewPacedAPI wraps a client so all widget sessions combined never exceed
// the given steady request rate against the upstream API. Waiting respects
// context cancellation, so a disposed widget does not hold a slot.
func NewPacedAPI(inner API, requestsPerSecond float64, burst int) *pacedAPI {
	return &pacedAPI{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

func (p *pacedAPI) GetPlayer(ctx context.Context, nameOrUUID string) (*domain.Player, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("canceled while waiting for request slot: %w", err)
	}
	return p.inner.GetPlayer(ctx, nameOrUUID)
}

func (p *pacedAPI) GetMatchPage(ctx context.Context, uuid string, page int) ([]domain.Match, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("canceled while waiting for request slot: %w", err)
	}
	return p.inner.GetMatchPage(ctx, uuid, page)
}
