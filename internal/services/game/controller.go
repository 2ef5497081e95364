package game

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/mcoot/rushmax/internal/dependencies/clock"
	"github.com/mcoot/rushmax/internal/metrics"
	"github.com/mcoot/rushmax/internal/model"
)

// DefaultQuestionsPerGame is the classic rule question count
const DefaultQuestionsPerGame = 10

var errNoMembers = errors.New("game needs at least one member")

// QuestionSource provides shuffled, answer-free question subsets
type QuestionSource interface {
	SamplePublic(n int) []model.PublicQuestion
}

// Controller is the game store: it owns every game and its shared question cursor
type Controller struct {
	questions        QuestionSource
	clock            clock.Clock
	logger           *slog.Logger
	questionsPerGame int

	mu    sync.Mutex
	games map[model.GameID]*model.Game
}

// NewController creates a new game store
func NewController(
	questions QuestionSource,
	clock clock.Clock,
	questionsPerGame int,
	logger *slog.Logger,
) *Controller {
	if questionsPerGame <= 0 {
		questionsPerGame = DefaultQuestionsPerGame
	}
	return &Controller{
		questions:        questions,
		clock:            clock,
		logger:           logger,
		questionsPerGame: questionsPerGame,
		games:            make(map[model.GameID]*model.Game),
	}
}

// CreateGame fixes the members and draws the question sequence for a new match
func (c *Controller) CreateGame(ctx context.Context, members []model.PlayerID, rule model.Rule, source model.GameSource, roomID model.RoomID) (*model.Game, error) {
	if len(members) == 0 {
		return nil, errNoMembers
	}

	game := &model.Game{
		ID:        model.GameID(uuid.NewString()),
		Rule:      rule,
		Source:    source,
		RoomID:    roomID,
		Members:   append([]model.PlayerID(nil), members...),
		Questions: c.questions.SamplePublic(rule.QuestionCount(c.questionsPerGame)),
		Cursor:    0,
		CreatedAt: c.clock.Now(),
	}

	c.mu.Lock()
	c.games[game.ID] = game
	c.mu.Unlock()

	metrics.MatchesCreatedTotal.WithLabelValues(string(source), string(rule)).Inc()
	c.logger.Info("game created",
		slog.String("game_id", string(game.ID)),
		slog.String("rule", string(rule)),
		slog.String("source", string(source)),
		slog.Int("player_count", len(members)),
		slog.Int("question_count", len(game.Questions)),
	)

	return game.Clone(), nil
}

// GetGame returns a snapshot of a game
func (c *Controller) GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	game, ok := c.games[gameID]
	if !ok {
		return nil, model.ErrUnknownGame
	}
	return game.Clone(), nil
}

// NextQuestion hands out the question at the shared cursor and advances it.
// The first member to poll consumes the question for everyone; once the
// sequence is exhausted every call reports Finished.
func (c *Controller) NextQuestion(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.QuestionDelivery, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	game, ok := c.games[gameID]
	if !ok {
		return nil, model.ErrUnknownGame
	}
	if !game.HasMember(playerID) {
		return nil, model.ErrNotInGame
	}

	total := len(game.Questions)
	if game.IsFinished() {
		return &model.QuestionDelivery{Index: total, Total: total, Finished: true}, nil
	}

	q := game.Questions[game.Cursor]
	delivery := &model.QuestionDelivery{
		Question: &q,
		Index:    game.Cursor,
		Total:    total,
	}
	game.Cursor++

	if game.IsFinished() {
		c.logger.Info("game finished",
			slog.String("game_id", string(game.ID)),
			slog.Int("question_count", total),
			slog.Duration("elapsed", c.clock.Since(game.CreatedAt)),
		)
	}

	return delivery, nil
}

// Count returns the number of games held
func (c *Controller) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.games)
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateGame(ctx context.Context, members []model.PlayerID, rule model.Rule, source model.GameSource, roomID model.RoomID) (*model.Game, error)
	GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error)
	NextQuestion(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.QuestionDelivery, error)
	Count() int
}

var _ ControllerInterface = (*Controller)(nil)
