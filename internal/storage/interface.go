package storage

import (
	"context"

	"github.com/mcoot/rushmax/internal/model"
)

// Storage persists the mode-keyed leaderboard log. It is the only state that
// survives a restart; everything else lives in the services.
type Storage interface {
	// AppendScore durably appends one record to the mode's log
	AppendScore(ctx context.Context, mode string, record model.ScoreRecord) error

	// LoadScores returns every mode's log in insertion order
	LoadScores(ctx context.Context) (map[string][]model.ScoreRecord, error)

	// Close releases any held connection or file
	Close() error
}
