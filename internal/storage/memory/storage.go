package memory

import (
	"context"
	"sync"

	"github.com/mcoot/rushmax/internal/model"
	"github.com/mcoot/rushmax/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu     sync.RWMutex
	scores map[string][]model.ScoreRecord
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		scores: make(map[string][]model.ScoreRecord),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) AppendScore(ctx context.Context, mode string, record model.ScoreRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores[mode] = append(s.scores[mode], record)
	return nil
}

func (s *Storage) LoadScores(ctx context.Context) (map[string][]model.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]model.ScoreRecord, len(s.scores))
	for mode, records := range s.scores {
		out[mode] = append([]model.ScoreRecord(nil), records...)
	}
	return out, nil
}

func (s *Storage) Close() error {
	return nil
}
