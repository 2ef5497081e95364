package scoring

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/mcoot/rushmax/internal/dependencies/clock"
	"github.com/mcoot/rushmax/internal/metrics"
	"github.com/mcoot/rushmax/internal/model"
	"github.com/mcoot/rushmax/internal/storage"
)

// DefaultTopN is how many entries Top returns when n is not positive
const DefaultTopN = 10

// Leaderboard is the mode-scoped, append-only score log
type Leaderboard struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger

	mu   sync.RWMutex
	logs map[string][]model.ScoreRecord
}

// NewLeaderboard creates an empty leaderboard backed by storage
func NewLeaderboard(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Leaderboard {
	return &Leaderboard{
		storage: storage,
		clock:   clock,
		logger:  logger,
		logs:    make(map[string][]model.ScoreRecord),
	}
}

// Load replaces the in-memory logs with the persisted ones
func (l *Leaderboard) Load(ctx context.Context) error {
	scores, err := l.storage.LoadScores(ctx)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.logs = scores

	total := 0
	for _, records := range scores {
		total += len(records)
	}
	l.logger.Info("leaderboard loaded",
		slog.Int("modes", len(scores)),
		slog.Int("records", total),
	)
	return nil
}

// Submit scores the telemetry and appends it to the mode's log.
// Persistence is best-effort: a failed flush is logged and the in-memory entry stands.
func (l *Leaderboard) Submit(ctx context.Context, nickname string, sub model.ScoreSubmission) (*model.ScoreRecord, error) {
	breakdown, err := Compute(sub)
	if err != nil {
		return nil, err
	}

	record := model.ScoreRecord{
		Nickname:       nickname,
		CanonicalScore: breakdown.Canonical,
		RawTime:        sub.TimeSeconds,
		Breakdown:      breakdown,
		SubmittedAt:    l.clock.Now(),
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.logs[breakdown.Mode] = append(l.logs[breakdown.Mode], record)
	metrics.ScoresSubmittedTotal.WithLabelValues(breakdown.Mode).Inc()

	if err := l.storage.AppendScore(ctx, breakdown.Mode, record); err != nil {
		metrics.LeaderboardPersistErrorsTotal.Inc()
		l.logger.Error("failed to persist score",
			slog.String("mode", breakdown.Mode),
			slog.String("nickname", nickname),
			slog.String("error", err.Error()),
		)
	}

	l.logger.Info("score submitted",
		slog.String("mode", breakdown.Mode),
		slog.String("nickname", nickname),
		slog.Int("canonical", breakdown.Canonical),
	)

	return &record, nil
}

// Top returns up to n records for mode, highest canonical score first.
// Ties keep submission order.
func (l *Leaderboard) Top(mode string, n int) []model.ScoreRecord {
	if n <= 0 {
		n = DefaultTopN
	}

	l.mu.RLock()
	records := append([]model.ScoreRecord(nil), l.logs[NormalizeMode(mode)]...)
	l.mu.RUnlock()

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CanonicalScore > records[j].CanonicalScore
	})
	if len(records) > n {
		records = records[:n]
	}
	return records
}

// Interface for dependency injection
type LeaderboardInterface interface {
	Submit(ctx context.Context, nickname string, sub model.ScoreSubmission) (*model.ScoreRecord, error)
	Top(mode string, n int) []model.ScoreRecord
}

var _ LeaderboardInterface = (*Leaderboard)(nil)
