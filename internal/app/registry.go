package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"

	"rankedoverlay/internal/domain"
	"rankedoverlay/internal/logging"
)

// WidgetRegistry owns all live widget sessions. Sessions that have not been
// read for the idle TTL are assumed abandoned by their browser source and
// are stopped and evicted.
type WidgetRegistry struct {
	sessions *ttlcache.Cache[string, *WidgetSession]
}

func NewWidgetRegistry(idleTTL time.Duration) *WidgetRegistry {
	sessions := ttlcache.New(
		ttlcache.WithTTL[string, *WidgetSession](idleTTL),
	)

	sessions.OnEviction(func(ctx context.Context, reason ttlcache.EvictionReason, item *ttlcache.Item[string, *WidgetSession]) {
		item.Value().Stop()
	})

	go sessions.Start()

	return &WidgetRegistry{
		sessions: sessions,
	}
}

// Register stores the session under a fresh widget ID and returns the ID.
func (r *WidgetRegistry) Register(ctx context.Context, session *WidgetSession) string {
	id := uuid.New().String()
	r.sessions.Set(id, session, ttlcache.DefaultTTL)

	logging.FromContext(ctx).Info("Registered widget session", "widgetId", id, "player", session.Config().PlayerName)

	return id
}

// Get returns the session for the given widget ID. Reading a session
// refreshes its idle TTL.
//
// Raises domain.ErrWidgetNotFound if no live session exists for the ID
func (r *WidgetRegistry) Get(id string) (*WidgetSession, error) {
	item := r.sessions.Get(id)
	if item == nil {
		return nil, domain.ErrWidgetNotFound
	}
	return item.Value(), nil
}

// Delete stops and removes the session for the given widget ID.
//
// Raises domain.ErrWidgetNotFound if no live session exists for the ID
func (r *WidgetRegistry) Delete(ctx context.Context, id string) error {
	item := r.sessions.Get(id, ttlcache.WithDisableTouchOnHit[string, *WidgetSession]())
	if item == nil {
		return domain.ErrWidgetNotFound
	}

	// The eviction callback stops the session
	r.sessions.Delete(id)

	logging.FromContext(ctx).Info("Deleted widget session", "widgetId", id)

	return nil
}

// Close stops the reaper and every live session.
func (r *WidgetRegistry) Close() {
	r.sessions.Stop()
	r.sessions.DeleteAll()
}
