package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/mcoot/rushmax/internal/model"
	"github.com/mcoot/rushmax/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
	keys   keyspace
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
		keys:   keyspace(cfg.KeyPrefix),
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) AppendScore(ctx context.Context, mode string, record model.ScoreRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	// Use pipeline for atomic append + index update
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, s.keys.scores(mode), data)
	pipe.SAdd(ctx, s.keys.modes(), mode)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) LoadScores(ctx context.Context) (map[string][]model.ScoreRecord, error) {
	modes, err := s.client.SMembers(ctx, s.keys.modes()).Result()
	if err != nil {
		return nil, err
	}

	scores := make(map[string][]model.ScoreRecord, len(modes))
	for _, mode := range modes {
		raw, err := s.client.LRange(ctx, s.keys.scores(mode), 0, -1).Result()
		if err != nil {
			return nil, err
		}

		records := make([]model.ScoreRecord, 0, len(raw))
		for i, item := range raw {
			var record model.ScoreRecord
			if err := json.Unmarshal([]byte(item), &record); err != nil {
				return nil, fmt.Errorf("decoding %s score %d: %w", mode, i, err)
			}
			records = append(records, record)
		}
		scores[mode] = records
	}
	return scores, nil
}
