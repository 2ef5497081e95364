package lobby

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/rushmax/internal/dependencies/clock"
	"github.com/mcoot/rushmax/internal/metrics"
	"github.com/mcoot/rushmax/internal/model"
	"github.com/mcoot/rushmax/internal/services/game"
	"github.com/mcoot/rushmax/internal/services/mailbox"
)

// Config holds matchmaking settings
type Config struct {
	// Quorum is the number of queued players popped into one game
	Quorum int
	// DefaultRoomCapacity applies when a room is created without a capacity
	DefaultRoomCapacity int
	// PasswordCost is the bcrypt cost used for room passwords
	PasswordCost int
}

// DefaultConfig returns the default matchmaking configuration
func DefaultConfig() Config {
	return Config{
		Quorum:              3,
		DefaultRoomCapacity: 3,
		PasswordCost:        bcrypt.DefaultCost,
	}
}

// RoomOptions are the caller-supplied settings for a new room
type RoomOptions struct {
	Name     string
	Password string
	Capacity int
	Rule     model.Rule
}

// Controller owns the rule queues and the rooms. Every membership check, insertion,
// and conversion into a game happens under one lock so a player is never admitted twice.
type Controller struct {
	games   game.ControllerInterface
	mailbox *mailbox.Mailbox
	clock   clock.Clock
	logger  *slog.Logger
	cfg     Config

	mu     sync.Mutex
	queues map[model.Rule][]model.QueueEntry
	rooms  map[model.RoomID]*model.Room
}

// NewController creates a new queue and room manager
func NewController(
	games game.ControllerInterface,
	mailbox *mailbox.Mailbox,
	clock clock.Clock,
	cfg Config,
	logger *slog.Logger,
) *Controller {
	defaults := DefaultConfig()
	if cfg.Quorum <= 0 {
		cfg.Quorum = defaults.Quorum
	}
	if cfg.DefaultRoomCapacity <= 0 {
		cfg.DefaultRoomCapacity = defaults.DefaultRoomCapacity
	}
	if cfg.PasswordCost == 0 {
		cfg.PasswordCost = defaults.PasswordCost
	}
	return &Controller{
		games:   games,
		mailbox: mailbox,
		clock:   clock,
		logger:  logger,
		cfg:     cfg,
		queues:  make(map[model.Rule][]model.QueueEntry),
		rooms:   make(map[model.RoomID]*model.Room),
	}
}

// Quorum returns the configured queue quorum
func (c *Controller) Quorum() int {
	return c.cfg.Quorum
}

// Queue operations

// JoinQueue admits the player into the rule's queue and pops games while a quorum is waiting.
// A pending match is returned instead when one exists.
func (c *Controller) JoinQueue(ctx context.Context, playerID model.PlayerID, rule model.Rule) (*model.QueueResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if result, ok, err := c.takePendingLocked(ctx, playerID); ok || err != nil {
		return result, err
	}

	if c.isOccupiedLocked(playerID) {
		return nil, model.ErrAlreadyQueued
	}

	c.queues[rule] = append(c.queues[rule], model.QueueEntry{
		PlayerID:   playerID,
		EnqueuedAt: c.clock.Now(),
	})
	metrics.QueueJoinsTotal.WithLabelValues(string(rule)).Inc()
	c.logger.Info("player queued",
		slog.String("player_id", string(playerID)),
		slog.String("rule", string(rule)),
		slog.Int("waiting", len(c.queues[rule])),
	)

	for len(c.queues[rule]) >= c.cfg.Quorum {
		g, err := c.popQuorumLocked(ctx, rule)
		if err != nil {
			return nil, err
		}
		if g.HasMember(playerID) {
			c.mailbox.Clear(playerID)
			return &model.QueueResult{Status: model.QueueStatusMatched, Rule: rule, Game: g}, nil
		}
	}

	return c.queueStatusLocked(playerID)
}

// popQuorumLocked removes the oldest quorum entries and turns them into a game
func (c *Controller) popQuorumLocked(ctx context.Context, rule model.Rule) (*model.Game, error) {
	queue := c.queues[rule]
	sort.SliceStable(queue, func(i, j int) bool {
		return queue[i].EnqueuedAt.Before(queue[j].EnqueuedAt)
	})

	members := make([]model.PlayerID, c.cfg.Quorum)
	for i := range members {
		members[i] = queue[i].PlayerID
	}

	g, err := c.games.CreateGame(ctx, members, rule, model.GameSourceQueue, "")
	if err != nil {
		return nil, fmt.Errorf("creating queue game: %w", err)
	}

	c.queues[rule] = append([]model.QueueEntry(nil), queue[c.cfg.Quorum:]...)
	for _, id := range members {
		c.mailbox.Post(id, g.ID)
	}
	c.logger.Info("queue matched",
		slog.String("game_id", string(g.ID)),
		slog.String("rule", string(rule)),
		slog.Duration("longest_wait", c.clock.Since(queue[0].EnqueuedAt)),
	)
	return g, nil
}

// PollQueue returns the player's pending match, or their place in line
func (c *Controller) PollQueue(ctx context.Context, playerID model.PlayerID) (*model.QueueResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if result, ok, err := c.takePendingLocked(ctx, playerID); ok || err != nil {
		return result, err
	}
	return c.queueStatusLocked(playerID)
}

// LeaveQueue removes the player from whichever queue holds them
func (c *Controller) LeaveQueue(ctx context.Context, playerID model.PlayerID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.removeFromQueuesLocked(playerID) {
		return model.ErrNotQueued
	}
	c.logger.Info("player left queue", slog.String("player_id", string(playerID)))
	return nil
}

// takePendingLocked converts a mailbox entry into a matched result
func (c *Controller) takePendingLocked(ctx context.Context, playerID model.PlayerID) (*model.QueueResult, bool, error) {
	gameID, ok := c.mailbox.Take(playerID)
	if !ok {
		return nil, false, nil
	}
	g, err := c.games.GetGame(ctx, gameID)
	if err != nil {
		return nil, false, err
	}
	return &model.QueueResult{Status: model.QueueStatusMatched, Rule: g.Rule, Game: g}, true, nil
}

func (c *Controller) queueStatusLocked(playerID model.PlayerID) (*model.QueueResult, error) {
	for rule, queue := range c.queues {
		for i, entry := range queue {
			if entry.PlayerID == playerID {
				return &model.QueueResult{
					Status:       model.QueueStatusWaiting,
					Rule:         rule,
					Position:     i + 1,
					TotalWaiting: len(queue),
				}, nil
			}
		}
	}
	return nil, model.ErrNotQueued
}

func (c *Controller) isQueuedLocked(playerID model.PlayerID) bool {
	for _, queue := range c.queues {
		for _, entry := range queue {
			if entry.PlayerID == playerID {
				return true
			}
		}
	}
	return false
}

func (c *Controller) removeFromQueuesLocked(playerID model.PlayerID) bool {
	for rule, queue := range c.queues {
		for i, entry := range queue {
			if entry.PlayerID == playerID {
				c.queues[rule] = append(queue[:i:i], queue[i+1:]...)
				return true
			}
		}
	}
	return false
}

// isOccupiedLocked reports whether the player is matched, queued, or in a room
func (c *Controller) isOccupiedLocked(playerID model.PlayerID) bool {
	return c.mailbox.Has(playerID) || c.isQueuedLocked(playerID) || c.roomOfLocked(playerID) != nil
}

// Room operations

// CreateRoom opens a room with the creator as its first member
func (c *Controller) CreateRoom(ctx context.Context, creatorID model.PlayerID, opts RoomOptions) (*model.Room, error) {
	var hash string
	if opts.Password != "" {
		b, err := bcrypt.GenerateFromPassword([]byte(opts.Password), c.cfg.PasswordCost)
		if err != nil {
			return nil, err
		}
		hash = string(b)
	}

	capacity := opts.Capacity
	if capacity == 0 {
		capacity = c.cfg.DefaultRoomCapacity
	}
	capacity = max(1, capacity)

	rule := opts.Rule
	if rule == "" {
		rule = model.RuleClassic
	}

	id := model.RoomID(uuid.NewString())
	name := opts.Name
	if name == "" {
		name = "room-" + string(id)[:6]
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isOccupiedLocked(creatorID) {
		return nil, model.ErrAlreadyQueued
	}

	room := &model.Room{
		ID:           id,
		Name:         name,
		PasswordHash: hash,
		Capacity:     capacity,
		Rule:         rule,
		Members:      []model.PlayerID{creatorID},
		CreatorID:    creatorID,
		CreatedAt:    c.clock.Now(),
	}
	c.rooms[id] = room

	c.logger.Info("room created",
		slog.String("room_id", string(id)),
		slog.String("creator_id", string(creatorID)),
		slog.Int("capacity", capacity),
		slog.String("rule", string(rule)),
	)

	return room.Clone(), nil
}

// JoinRoom adds the player to a room, converting it into a game once full.
// Re-joining as an existing member is how clients poll a room.
func (c *Controller) JoinRoom(ctx context.Context, playerID model.PlayerID, roomID model.RoomID, password string) (*model.RoomResult, error) {
	if err := c.checkRoomPassword(roomID, playerID, password); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if gameID, ok := c.mailbox.Take(playerID); ok {
		g, err := c.games.GetGame(ctx, gameID)
		if err != nil {
			return nil, err
		}
		return &model.RoomResult{Status: model.RoomStatusStarted, Game: g}, nil
	}

	room, ok := c.rooms[roomID]
	if !ok {
		return nil, model.ErrUnknownRoom
	}

	if !room.HasMember(playerID) {
		if c.isQueuedLocked(playerID) || c.roomOfLocked(playerID) != nil {
			return nil, model.ErrAlreadyQueued
		}
		if room.IsFull() {
			return nil, model.ErrRoomFull
		}
		room.Members = append(room.Members, playerID)
		c.logger.Info("player joined room",
			slog.String("room_id", string(roomID)),
			slog.String("player_id", string(playerID)),
			slog.Int("members", len(room.Members)),
			slog.Int("capacity", room.Capacity),
		)
	}

	if !room.IsFull() {
		return &model.RoomResult{Status: model.RoomStatusWaiting, Room: room.Clone()}, nil
	}

	members := append([]model.PlayerID(nil), room.Members[:room.Capacity]...)
	g, err := c.games.CreateGame(ctx, members, room.Rule, model.GameSourceRoom, room.ID)
	if err != nil {
		return nil, fmt.Errorf("creating room game: %w", err)
	}
	for _, id := range members {
		if id != playerID {
			c.mailbox.Post(id, g.ID)
		}
	}
	delete(c.rooms, roomID)

	c.logger.Info("room converted to game",
		slog.String("room_id", string(roomID)),
		slog.String("game_id", string(g.ID)),
	)

	return &model.RoomResult{Status: model.RoomStatusStarted, Game: g}, nil
}

// checkRoomPassword verifies the password outside the matchmaking lock since bcrypt is slow.
// Members polling their own room are not asked again. A missing room is left for the locked path to report.
func (c *Controller) checkRoomPassword(roomID model.RoomID, playerID model.PlayerID, password string) error {
	c.mu.Lock()
	room, ok := c.rooms[roomID]
	var hash string
	if ok && !room.HasMember(playerID) {
		hash = room.PasswordHash
	}
	c.mu.Unlock()

	if hash == "" {
		return nil
	}
	if password == "" || bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return model.ErrBadPassword
	}
	return nil
}

// LeaveRoom removes the player from the named room, destroying it when it empties
func (c *Controller) LeaveRoom(ctx context.Context, playerID model.PlayerID, roomID model.RoomID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.rooms[roomID]
	if !ok {
		return model.ErrUnknownRoom
	}
	if !room.HasMember(playerID) {
		return model.ErrNotInRoom
	}
	c.leaveRoomLocked(room, playerID)
	return nil
}

// GetRoom returns a snapshot of a room
func (c *Controller) GetRoom(ctx context.Context, roomID model.RoomID) (*model.Room, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.rooms[roomID]
	if !ok {
		return nil, model.ErrUnknownRoom
	}
	return room.Clone(), nil
}

// ListRooms returns snapshots of every open room, oldest first
func (c *Controller) ListRooms(ctx context.Context) []*model.Room {
	c.mu.Lock()
	defer c.mu.Unlock()

	rooms := make([]*model.Room, 0, len(c.rooms))
	for _, room := range c.rooms {
		rooms = append(rooms, room.Clone())
	}
	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].CreatedAt.Equal(rooms[j].CreatedAt) {
			return rooms[i].ID < rooms[j].ID
		}
		return rooms[i].CreatedAt.Before(rooms[j].CreatedAt)
	})
	return rooms
}

func (c *Controller) roomOfLocked(playerID model.PlayerID) *model.Room {
	for _, room := range c.rooms {
		if room.HasMember(playerID) {
			return room
		}
	}
	return nil
}

func (c *Controller) removeFromRoomsLocked(playerID model.PlayerID) bool {
	room := c.roomOfLocked(playerID)
	if room == nil {
		return false
	}
	c.leaveRoomLocked(room, playerID)
	return true
}

func (c *Controller) leaveRoomLocked(room *model.Room, playerID model.PlayerID) {
	room.RemoveMember(playerID)
	c.logger.Info("player left room",
		slog.String("room_id", string(room.ID)),
		slog.String("player_id", string(playerID)),
	)
	if len(room.Members) == 0 {
		delete(c.rooms, room.ID)
		c.logger.Info("room destroyed", slog.String("room_id", string(room.ID)))
	}
}

// Cascades

// Evict calls reap with the matchmaking lock held and drops every returned player
// from queues, rooms and the mailbox before releasing it. No queue pop or room
// conversion can pick up a player between their reap and their removal.
func (c *Controller) Evict(ctx context.Context, reap func() []model.PlayerID) []model.PlayerID {
	c.mu.Lock()
	defer c.mu.Unlock()

	evicted := reap()
	for _, id := range evicted {
		c.removeFromQueuesLocked(id)
		c.removeFromRoomsLocked(id)
		c.mailbox.Clear(id)
	}
	return evicted
}

// QueuedCount returns the number of players waiting across all rules
func (c *Controller) QueuedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0
	for _, queue := range c.queues {
		total += len(queue)
	}
	return total
}

// RoomCount returns the number of open rooms
func (c *Controller) RoomCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.rooms)
}

// Interface for dependency injection
type ControllerInterface interface {
	JoinQueue(ctx context.Context, playerID model.PlayerID, rule model.Rule) (*model.QueueResult, error)
	PollQueue(ctx context.Context, playerID model.PlayerID) (*model.QueueResult, error)
	LeaveQueue(ctx context.Context, playerID model.PlayerID) error
	CreateRoom(ctx context.Context, creatorID model.PlayerID, opts RoomOptions) (*model.Room, error)
	JoinRoom(ctx context.Context, playerID model.PlayerID, roomID model.RoomID, password string) (*model.RoomResult, error)
	LeaveRoom(ctx context.Context, playerID model.PlayerID, roomID model.RoomID) error
	GetRoom(ctx context.Context, roomID model.RoomID) (*model.Room, error)
	ListRooms(ctx context.Context) []*model.Room
	Evict(ctx context.Context, reap func() []model.PlayerID) []model.PlayerID
	QueuedCount() int
	RoomCount() int
}

var _ ControllerInterface = (*Controller)(nil)
