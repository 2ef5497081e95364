package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. RUSHMAX_PORT
const EnvPrefix = "RUSHMAX"

// Storage backend names
const (
	StorageMemory = "memory"
	StorageFile   = "file"
	StorageRedis  = "redis"
)

// Config is the server configuration
type Config struct {
	ConfigFile string

	Bind      string
	Port      int
	LogLevel  string
	LogFormat string

	QuestionsPath       string
	QuestionsPerGame    int
	Quorum              int
	DefaultRoomCapacity int

	PlayerTimeout time.Duration
	ReapInterval  time.Duration

	Storage         string
	LeaderboardPath string
	RedisURL        string
	RedisKeyPrefix  string

	JudgeURL     string
	JudgeTimeout time.Duration
}

// RegisterFlags declares every setting on fs with its default
func (c *Config) RegisterFlags(fs *pflag.FlagSet) {
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&c.ConfigFile, "config", "c", "", "optional YAML config file (env: RUSHMAX_CONFIG)")
	fs.StringVarP(&c.Bind, "bind", "b", "0.0.0.0", "address to bind to (env: RUSHMAX_BIND)")
	fs.IntVarP(&c.Port, "port", "p", 8080, "port to listen on (env: RUSHMAX_PORT)")
	fs.StringVar(&c.LogLevel, "log-level", "info", "debug, info, warn or error (env: RUSHMAX_LOG_LEVEL)")
	fs.StringVar(&c.LogFormat, "log-format", "json", "json or text (env: RUSHMAX_LOG_FORMAT)")
	fs.StringVar(&c.QuestionsPath, "questions-path", "data/questions.json", "question bank file (env: RUSHMAX_QUESTIONS_PATH)")
	fs.IntVar(&c.QuestionsPerGame, "questions-per-game", 10, "questions in a classic game (env: RUSHMAX_QUESTIONS_PER_GAME)")
	fs.IntVar(&c.Quorum, "quorum", 3, "players needed to start a queued game (env: RUSHMAX_QUORUM)")
	fs.IntVar(&c.DefaultRoomCapacity, "default-room-capacity", 3, "room capacity when none is given (env: RUSHMAX_DEFAULT_ROOM_CAPACITY)")
	fs.DurationVar(&c.PlayerTimeout, "player-timeout", 10*time.Minute, "time before idle players are reaped (env: RUSHMAX_PLAYER_TIMEOUT)")
	fs.DurationVar(&c.ReapInterval, "reap-interval", 0, "periodic reap interval, 0 reaps only on queue joins (env: RUSHMAX_REAP_INTERVAL)")
	fs.StringVar(&c.Storage, "storage", StorageFile, "leaderboard backend: memory, file or redis (env: RUSHMAX_STORAGE)")
	fs.StringVar(&c.LeaderboardPath, "leaderboard-path", "data/leaderboard.json", "leaderboard document for the file backend (env: RUSHMAX_LEADERBOARD_PATH)")
	fs.StringVar(&c.RedisURL, "redis-url", "redis://localhost:6379", "redis URL for the redis backend (env: RUSHMAX_REDIS_URL)")
	fs.StringVar(&c.RedisKeyPrefix, "redis-key-prefix", "rushmax", "namespace for leaderboard keys in redis (env: RUSHMAX_REDIS_KEY_PREFIX)")
	fs.StringVar(&c.JudgeURL, "judge-url", "http://localhost:1234/v1/chat/completions", "default AI judge endpoint (env: RUSHMAX_JUDGE_URL)")
	fs.DurationVar(&c.JudgeTimeout, "judge-timeout", 30*time.Second, "AI judge request timeout (env: RUSHMAX_JUDGE_TIMEOUT)")
}

// Load fills flags the user did not set from the environment, then from the config file,
// so precedence is flag, env, file, default. Call it after fs has been parsed.
func (c *Config) Load(fs *pflag.FlagSet) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := bindFlags(fs, v); err != nil {
		return err
	}

	if c.ConfigFile != "" {
		v.SetConfigFile(c.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
		if err := bindFlags(fs, v); err != nil {
			return err
		}
	}

	return c.Validate()
}

func bindFlags(fs *pflag.FlagSet, v *viper.Viper) error {
	var errs []error
	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			if err := fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name))); err != nil {
				errs = append(errs, fmt.Errorf("invalid %s: %w", f.Name, err))
			}
		}
	})
	return errors.Join(errs...)
}

// Validate checks settings that flags cannot constrain
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Port)
	}
	if c.QuestionsPerGame < 1 {
		return fmt.Errorf("questions-per-game must be positive: %d", c.QuestionsPerGame)
	}
	if c.Quorum < 1 {
		return fmt.Errorf("quorum must be positive: %d", c.Quorum)
	}
	if c.DefaultRoomCapacity < 1 {
		return fmt.Errorf("default-room-capacity must be positive: %d", c.DefaultRoomCapacity)
	}
	if c.PlayerTimeout <= 0 {
		return errors.New("player-timeout must be positive")
	}
	if c.ReapInterval < 0 {
		return errors.New("reap-interval must not be negative")
	}
	switch c.Storage {
	case StorageMemory, StorageFile, StorageRedis:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage)
	}
	if c.Storage == StorageFile && c.LeaderboardPath == "" {
		return errors.New("leaderboard-path is required for the file backend")
	}
	if c.Storage == StorageRedis && c.RedisURL == "" {
		return errors.New("redis-url is required for the redis backend")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Bind, strconv.Itoa(c.Port))
}

// NewLogger builds the process logger writing to w
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}
