package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"rankedoverlay/internal/domain"
	"rankedoverlay/internal/logging"
)

const defaultPollInterval = 2 * time.Minute

// WidgetSession is a live polling session for one overlay widget. It
// resolves the configured player, fixes a reference timestamp, and then
// re-aggregates the match history on a fixed interval until stopped.
//
// All snapshot access is synchronized; the session is safe for concurrent
// use by HTTP handlers.
type WidgetSession struct {
	config         WidgetConfig
	lookupPlayer   LookupPlayer
	collectMatches CollectMatches
	nowFunc        func() time.Time

	pollInterval time.Duration

	cancel context.CancelFunc
	done   chan struct{}

	// polling guards against overlapping aggregation passes. A tick that
	// arrives while a poll is in flight is skipped entirely.
	polling atomic.Bool

	mu        sync.Mutex
	snapshot  StatsSnapshot
	matches   []domain.Match
	reference time.Time
	refFixed  bool
	stopped   bool
}

func StartWidgetSession(
	ctx context.Context,
	lookupPlayer LookupPlayer,
	collectMatches CollectMatches,
	config WidgetConfig,
	nowFunc func() time.Time,
) *WidgetSession {
	return startWidgetSession(ctx, lookupPlayer, collectMatches, config, nowFunc, defaultPollInterval)
}

type SessionStarter = func(config WidgetConfig) *WidgetSession

// BuildSessionStarter binds the session dependencies and a base context so
// transport handlers can start sessions that outlive their request.
func BuildSessionStarter(
	ctx context.Context,
	lookupPlayer LookupPlayer,
	collectMatches CollectMatches,
	nowFunc func() time.Time,
) SessionStarter {
	return func(config WidgetConfig) *WidgetSession {
		return StartWidgetSession(ctx, lookupPlayer, collectMatches, config, nowFunc)
	}
}

func startWidgetSession(
	ctx context.Context,
	lookupPlayer LookupPlayer,
	collectMatches CollectMatches,
	config WidgetConfig,
	nowFunc func() time.Time,
	pollInterval time.Duration,
) *WidgetSession {
	ctx, cancel := context.WithCancel(ctx)

	session := &WidgetSession{
		config:         config,
		lookupPlayer:   lookupPlayer,
		collectMatches: collectMatches,
		nowFunc:        nowFunc,
		pollInterval:   pollInterval,
		cancel:         cancel,
		done:           make(chan struct{}),
		snapshot: StatsSnapshot{
			State:            WidgetStateInitializing,
			CountdownSeconds: int(pollInterval / time.Second),
		},
	}

	go session.run(ctx)

	return session
}

// Snapshot returns the current widget statistics. During initialization the
// statistics fields are zero; after a failed poll they hold the last
// successful aggregation.
func (s *WidgetSession) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Matches returns the raw match list from the last successful aggregation,
// newest first.
func (s *WidgetSession) Matches() []domain.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matches
}

// Config returns the session's widget configuration.
func (s *WidgetSession) Config() WidgetConfig {
	return s.config
}

// Stop tears the session down. The poll timer is cancelled and any
// in-flight aggregation is discarded; the snapshot never changes again.
// Stop is idempotent.
func (s *WidgetSession) Stop() {
	s.cancel()

	s.mu.Lock()
	if !s.stopped {
		s.stopped = true
		s.snapshot.State = WidgetStateStopped
	}
	s.mu.Unlock()

	<-s.done
}

func (s *WidgetSession) run(ctx context.Context) {
	defer close(s.done)

	if fatal := s.initialize(ctx); fatal {
		return
	}

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()
	countdown := time.NewTicker(time.Second)
	defer countdown.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-countdown.C:
			s.decrementCountdown()
		case <-ticker.C:
			if s.initialized() {
				go s.poll(ctx)
				continue
			}
			if fatal := s.initialize(ctx); fatal {
				return
			}
		}
	}
}

// initialize resolves the player, fixes the reference timestamp and runs
// the first aggregation. Returns true when the session cannot make progress
// and must not keep a poll timer running.
func (s *WidgetSession) initialize(ctx context.Context) (fatal bool) {
	logger := logging.FromContext(ctx)

	player, err := s.lookupPlayer(ctx, s.config.PlayerName)
	if errors.Is(err, domain.ErrPlayerNotFound) {
		logger.Info("Player not found, stopping widget session", "player", s.config.PlayerName)
		s.applyNotFound(ctx)
		return true
	} else if err != nil {
		logger.Error("Failed to resolve player, will retry", "player", s.config.PlayerName, "error", err)
		s.applyFailure(ctx, WidgetStateInitializing)
		return false
	}

	// The reference stays fixed for the whole session, even if the first
	// aggregation fails and initialization is retried
	s.mu.Lock()
	if !s.refFixed {
		if s.config.Reference != nil {
			s.reference = *s.config.Reference
		} else {
			s.reference = s.nowFunc()
		}
		s.refFixed = true
	}
	reference := s.reference
	s.mu.Unlock()

	collection, err := s.collectMatches(ctx, player.UUID, reference)
	if err != nil {
		logger.Error("Failed initial aggregation, will retry", "player", s.config.PlayerName, "error", err)
		s.applyFailure(ctx, WidgetStateInitializing)
		return false
	}

	s.applySuccess(ctx, player, collection, reference)
	return false
}

func (s *WidgetSession) initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.State == WidgetStateActive || (s.snapshot.State == WidgetStateErrorRetrying && s.snapshot.UUID != "")
}

func (s *WidgetSession) poll(ctx context.Context) {
	if !s.polling.CompareAndSwap(false, true) {
		// Previous poll still in flight, skip this tick
		logging.FromContext(ctx).Info("Skipping poll, previous poll still running")
		return
	}
	defer s.polling.Store(false)

	s.mu.Lock()
	uuid := s.snapshot.UUID
	reference := s.reference
	s.mu.Unlock()

	player, err := s.lookupPlayer(ctx, uuid)
	if err != nil {
		logging.FromContext(ctx).Error("Failed to refresh player", "uuid", uuid, "error", err)
		s.applyFailure(ctx, WidgetStateErrorRetrying)
		return
	}

	collection, err := s.collectMatches(ctx, player.UUID, reference)
	if err != nil {
		logging.FromContext(ctx).Error("Failed to refresh match history", "uuid", uuid, "error", err)
		s.applyFailure(ctx, WidgetStateErrorRetrying)
		return
	}

	s.applySuccess(ctx, player, collection, reference)
}

func (s *WidgetSession) applySuccess(ctx context.Context, player *domain.Player, collection *MatchCollection, reference time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || ctx.Err() != nil {
		return
	}

	snapshotStats(&s.snapshot, player, collection, reference, s.nowFunc())
	s.snapshot.State = WidgetStateActive
	s.snapshot.Unavailable = false
	s.snapshot.CountdownSeconds = int(s.pollInterval / time.Second)
	s.matches = collection.Matches
}

func (s *WidgetSession) applyFailure(ctx context.Context, state WidgetState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || ctx.Err() != nil {
		return
	}

	s.snapshot.State = state
	s.snapshot.Unavailable = true
	s.snapshot.CountdownSeconds = int(s.pollInterval / time.Second)
}

func (s *WidgetSession) applyNotFound(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || ctx.Err() != nil {
		return
	}

	s.snapshot.State = WidgetStateStopped
	s.snapshot.PlayerNotFound = true
}

func (s *WidgetSession) decrementCountdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot.CountdownSeconds > 0 {
		s.snapshot.CountdownSeconds--
	}
}
