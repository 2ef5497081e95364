package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"

	"github.com/mcoot/rushmax/internal/model"
	"github.com/mcoot/rushmax/internal/storage"
)

// Storage keeps the leaderboard as one mode-keyed JSON document on disk.
// The document is rewritten through a temp file and rename after every append.
type Storage struct {
	path string

	mu     sync.Mutex
	scores map[string][]model.ScoreRecord
}

// New opens the document at path, creating parent directories as needed.
// A missing file is an empty leaderboard.
func New(path string) (*Storage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating leaderboard directory: %w", err)
	}

	s := &Storage{
		path:   path,
		scores: make(map[string][]model.ScoreRecord),
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, err
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.scores); err != nil {
			return nil, fmt.Errorf("parsing leaderboard %s: %w", path, err)
		}
	}
	return s, nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) AppendScore(ctx context.Context, mode string, record model.ScoreRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scores[mode] = append(s.scores[mode], record)
	return s.flushLocked()
}

func (s *Storage) LoadScores(ctx context.Context) (map[string][]model.ScoreRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string][]model.ScoreRecord, len(s.scores))
	for mode, records := range s.scores {
		out[mode] = append([]model.ScoreRecord(nil), records...)
	}
	return out, nil
}

func (s *Storage) Close() error {
	return nil
}

func (s *Storage) flushLocked() error {
	data, err := json.MarshalIndent(s.scores, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".leaderboard-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
