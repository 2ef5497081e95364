package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/mcoot/rushmax/internal/config"
	"github.com/mcoot/rushmax/internal/dependencies/clock"
	"github.com/mcoot/rushmax/internal/dependencies/random"
	"github.com/mcoot/rushmax/internal/services/game"
	"github.com/mcoot/rushmax/internal/services/judge"
	"github.com/mcoot/rushmax/internal/services/liveness"
	"github.com/mcoot/rushmax/internal/services/lobby"
	"github.com/mcoot/rushmax/internal/services/mailbox"
	"github.com/mcoot/rushmax/internal/services/questions"
	"github.com/mcoot/rushmax/internal/services/registry"
	"github.com/mcoot/rushmax/internal/services/scoring"
	"github.com/mcoot/rushmax/internal/storage"
	filestorage "github.com/mcoot/rushmax/internal/storage/file"
	"github.com/mcoot/rushmax/internal/storage/memory"
	redisstorage "github.com/mcoot/rushmax/internal/storage/redis"
)

// App contains all wired application components
type App struct {
	// InstanceID identifies this process to clients
	InstanceID string

	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Registry        *registry.Service
	Mailbox         *mailbox.Mailbox
	Questions       *questions.Service
	GameController  *game.Controller
	LobbyController *lobby.Controller
	Reaper          *liveness.Reaper
	Leaderboard     *scoring.Leaderboard
	Judge           *judge.Service
}

// Config holds configuration for the application factory
type Config struct {
	// QuestionsPath is the question bank file (optional)
	// If empty, questions must be loaded manually
	QuestionsPath string
	// QuestionsPerGame is the classic rule question count
	QuestionsPerGame int
	// Registry, Lobby and Judge hold per-service settings (optional)
	// Zero values fall back to each service's defaults
	Registry registry.Config
	Lobby    lobby.Config
	Judge    judge.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the leaderboard backend ("memory", "file" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// LeaderboardPath is the document used by the file backend
	LeaderboardPath string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// ConfigFrom maps server configuration onto factory configuration
func ConfigFrom(c *config.Config, logger *slog.Logger) Config {
	cfg := Config{
		QuestionsPath:    c.QuestionsPath,
		QuestionsPerGame: c.QuestionsPerGame,
		Registry:         registry.Config{PlayerTimeout: c.PlayerTimeout},
		Lobby: lobby.Config{
			Quorum:              c.Quorum,
			DefaultRoomCapacity: c.DefaultRoomCapacity,
		},
		Judge: judge.Config{
			URL:     c.JudgeURL,
			Timeout: c.JudgeTimeout,
		},
		Logger:          logger,
		StorageType:     c.Storage,
		LeaderboardPath: c.LeaderboardPath,
	}
	if c.Storage == config.StorageRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = c.RedisURL
		redisCfg.KeyPrefix = c.RedisKeyPrefix
		cfg.RedisConfig = &redisCfg
	}
	return cfg
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = config.StorageMemory
	}

	switch storageType {
	case config.StorageMemory:
		store = memory.New()
	case config.StorageFile:
		if cfg.LeaderboardPath == "" {
			return nil, errors.New("LeaderboardPath required when StorageType is file")
		}
		fileStore, err := filestorage.New(cfg.LeaderboardPath)
		if err != nil {
			return nil, err
		}
		store = fileStore
	case config.StorageRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'file' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Use default registry config if not provided
	if cfg.Registry.PlayerTimeout == 0 {
		cfg.Registry = registry.DefaultConfig()
	}

	app := newWithDependencies(store, clk, rnd, cfg, &http.Client{}, logger)

	if err := app.Leaderboard.Load(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}

	if cfg.QuestionsPath != "" {
		if err := app.Questions.LoadFromFile(ctx, cfg.QuestionsPath); err != nil {
			logger.Warn("could not load question bank", slog.String("error", err.Error()))
		}
	}

	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, cfg Config, client *http.Client, logger *slog.Logger) *App {
	// Create services
	registryService := registry.New(clk, cfg.Registry, logger)
	box := mailbox.New()
	questionService := questions.New(rnd, logger)
	gameController := game.NewController(questionService, clk, cfg.QuestionsPerGame, logger)
	lobbyController := lobby.NewController(gameController, box, clk, cfg.Lobby, logger)
	reaper := liveness.New(registryService, lobbyController, clk, logger)
	leaderboard := scoring.NewLeaderboard(store, clk, logger)
	judgeService := judge.New(client, cfg.Judge, logger)

	return &App{
		InstanceID:      uuid.NewString(),
		Storage:         store,
		Clock:           clk,
		Random:          rnd,
		Registry:        registryService,
		Mailbox:         box,
		Questions:       questionService,
		GameController:  gameController,
		LobbyController: lobbyController,
		Reaper:          reaper,
		Leaderboard:     leaderboard,
		Judge:           judgeService,
	}
}

// Close releases the storage backend
func (a *App) Close() error {
	return a.Storage.Close()
}
