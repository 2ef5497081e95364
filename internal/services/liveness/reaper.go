package liveness

import (
	"context"
	"log/slog"
	"time"

	"github.com/mcoot/rushmax/internal/dependencies/clock"
	"github.com/mcoot/rushmax/internal/metrics"
	"github.com/mcoot/rushmax/internal/model"
)

// Registry is the part of the player registry the reaper needs
type Registry interface {
	Reap(now time.Time, timeout time.Duration) []model.PlayerID
	Timeout() time.Duration
}

// Lobby runs the reap under its matchmaking lock and drops the reaped players
// from queues, rooms and pending matches
type Lobby interface {
	Evict(ctx context.Context, reap func() []model.PlayerID) []model.PlayerID
}

// Reaper evicts idle players and everything they were waiting in
type Reaper struct {
	registry Registry
	lobby    Lobby
	clock    clock.Clock
	logger   *slog.Logger
}

// New creates a reaper
func New(registry Registry, lobby Lobby, clock clock.Clock, logger *slog.Logger) *Reaper {
	return &Reaper{
		registry: registry,
		lobby:    lobby,
		clock:    clock,
		logger:   logger,
	}
}

// Sweep reaps idle players and returns how many were removed
func (r *Reaper) Sweep(ctx context.Context) int {
	reaped := r.lobby.Evict(ctx, func() []model.PlayerID {
		return r.registry.Reap(r.clock.Now(), r.registry.Timeout())
	})
	for _, id := range reaped {
		r.logger.Info("player reaped", slog.String("player_id", string(id)))
	}
	if len(reaped) > 0 {
		metrics.PlayersReapedTotal.Add(float64(len(reaped)))
	}
	return len(reaped)
}

// Run sweeps every interval until ctx is cancelled
func (r *Reaper) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.logger.Info("reaper started", slog.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reaper stopped")
			return nil
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}
