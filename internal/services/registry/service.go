package registry

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mcoot/rushmax/internal/dependencies/clock"
	"github.com/mcoot/rushmax/internal/metrics"
	"github.com/mcoot/rushmax/internal/model"
)

// DefaultNickname is used when a player registers without one
const DefaultNickname = "anonymous"

// Config holds configuration for the player registry
type Config struct {
	// PlayerTimeout is how long a player may stay idle before being reaped
	PlayerTimeout time.Duration
}

// DefaultConfig returns default registry configuration
func DefaultConfig() Config {
	return Config{
		PlayerTimeout: 10 * time.Minute,
	}
}

// Service issues player identities and session tokens and tracks liveness
type Service struct {
	clock  clock.Clock
	logger *slog.Logger
	cfg    Config

	mu      sync.RWMutex
	players map[model.PlayerID]*model.Player
	tokens  map[string]model.PlayerID
}

// New creates a new player registry
func New(clock clock.Clock, cfg Config, logger *slog.Logger) *Service {
	if cfg.PlayerTimeout == 0 {
		cfg.PlayerTimeout = DefaultConfig().PlayerTimeout
	}
	return &Service{
		clock:   clock,
		logger:  logger,
		cfg:     cfg,
		players: make(map[model.PlayerID]*model.Player),
		tokens:  make(map[string]model.PlayerID),
	}
}

// Timeout returns the configured idle timeout
func (s *Service) Timeout() time.Duration {
	return s.cfg.PlayerTimeout
}

// Register creates a player with a fresh id and session token
func (s *Service) Register(ctx context.Context, nickname string) (*model.Player, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		nickname = DefaultNickname
	}

	now := s.clock.Now()
	player := &model.Player{
		ID:           model.PlayerID(uuid.NewString()),
		Nickname:     nickname,
		SessionToken: generateToken("sess_"),
		CreatedAt:    now,
		LastActiveAt: now,
	}

	s.mu.Lock()
	s.players[player.ID] = player
	s.tokens[player.SessionToken] = player.ID
	s.mu.Unlock()

	metrics.PlayersRegisteredTotal.Inc()
	s.logger.Info("player registered",
		slog.String("player_id", string(player.ID)),
		slog.String("nickname", nickname),
	)

	copied := *player
	return &copied, nil
}

// Resolve maps either credential to a live player id. The id wins when both are given.
func (s *Service) Resolve(playerID model.PlayerID, token string) (model.PlayerID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolveLocked(playerID, token)
}

func (s *Service) resolveLocked(playerID model.PlayerID, token string) (model.PlayerID, error) {
	if playerID != "" {
		if _, ok := s.players[playerID]; ok {
			return playerID, nil
		}
	}
	if token != "" {
		if id, ok := s.tokens[token]; ok {
			return id, nil
		}
	}
	return "", model.ErrUnknownPlayer
}

// Heartbeat refreshes the player's last activity and returns a snapshot of it
func (s *Service) Heartbeat(ctx context.Context, playerID model.PlayerID, token string) (*model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.resolveLocked(playerID, token)
	if err != nil {
		return nil, err
	}

	player := s.players[id]
	player.LastActiveAt = s.clock.Now()

	copied := *player
	return &copied, nil
}

// GetPlayer returns a snapshot of a live player
func (s *Service) GetPlayer(ctx context.Context, playerID model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	player, ok := s.players[playerID]
	if !ok {
		return nil, model.ErrUnknownPlayer
	}
	copied := *player
	return &copied, nil
}

// Nickname returns the player's nickname, or DefaultNickname for unknown players
func (s *Service) Nickname(playerID model.PlayerID) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if player, ok := s.players[playerID]; ok {
		return player.Nickname
	}
	return DefaultNickname
}

// Reap removes every player idle for longer than timeout at now and returns their ids.
// Callers cascade the removal into queues, rooms, and the mailbox.
func (s *Service) Reap(now time.Time, timeout time.Duration) []model.PlayerID {
	s.mu.Lock()
	defer s.mu.Unlock()

	var reaped []model.PlayerID
	for id, player := range s.players {
		if player.IdleSince(now, timeout) {
			delete(s.tokens, player.SessionToken)
			delete(s.players, id)
			reaped = append(reaped, id)
		}
	}
	return reaped
}

// Count returns the number of live players
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players)
}

// generateToken generates an unguessable token with a prefix
func generateToken(prefix string) string {
	b := make([]byte, 24)
	_, _ = rand.Read(b)
	return prefix + base64.RawURLEncoding.EncodeToString(b)
}

// Interface for dependency injection
type ServiceInterface interface {
	Register(ctx context.Context, nickname string) (*model.Player, error)
	Resolve(playerID model.PlayerID, token string) (model.PlayerID, error)
	Heartbeat(ctx context.Context, playerID model.PlayerID, token string) (*model.Player, error)
	GetPlayer(ctx context.Context, playerID model.PlayerID) (*model.Player, error)
	Nickname(playerID model.PlayerID) string
	Reap(now time.Time, timeout time.Duration) []model.PlayerID
	Count() int
}

var _ ServiceInterface = (*Service)(nil)
