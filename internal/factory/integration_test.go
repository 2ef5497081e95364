package factory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/rushmax/internal/model"
	"github.com/mcoot/rushmax/internal/services/lobby"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
	s.app.LoadTestQuestions(30)
}

func (s *IntegrationSuite) register(nickname string) *model.Player {
	player, err := s.app.Registry.Register(s.ctx, nickname)
	s.Require().NoError(err)
	return player
}

// Test: queue match through to a finished game and a leaderboard entry
func (s *IntegrationSuite) TestQueueMatchFlow() {
	a := s.register("A")
	b := s.register("B")
	c := s.register("C")

	// Step 1: A and B wait
	for _, p := range []*model.Player{a, b} {
		result, err := s.app.LobbyController.JoinQueue(s.ctx, p.ID, model.RuleSpeed)
		s.Require().NoError(err)
		s.Equal(model.QueueStatusWaiting, result.Status)
		s.app.MockClock.Advance(time.Second)
	}

	// Step 2: C completes the quorum and gets the game directly
	result, err := s.app.LobbyController.JoinQueue(s.ctx, c.ID, model.RuleSpeed)
	s.Require().NoError(err)
	s.Require().Equal(model.QueueStatusMatched, result.Status)
	game := result.Game
	s.Equal([]model.PlayerID{a.ID, b.ID, c.ID}, game.Members)

	// Step 3: A and B pick the same game up from the mailbox
	for _, p := range []*model.Player{a, b} {
		polled, err := s.app.LobbyController.PollQueue(s.ctx, p.ID)
		s.Require().NoError(err)
		s.Equal(game.ID, polled.Game.ID)
	}

	// Step 4: members drain the shared cursor
	delivered := 0
	for i := 0; ; i++ {
		member := game.Members[i%len(game.Members)]
		d, err := s.app.GameController.NextQuestion(s.ctx, game.ID, member)
		s.Require().NoError(err)
		if d.Finished {
			break
		}
		delivered++
	}
	s.Equal(model.SpeedQuestionCount, delivered)

	// Step 5: score submission lands on the leaderboard
	total := 5
	record, err := s.app.Leaderboard.Submit(s.ctx, s.app.Registry.Nickname(a.ID), model.ScoreSubmission{
		Mode: model.ModeRTA, CorrectCount: 4, TotalQuestions: &total, TimeSeconds: 10,
	})
	s.Require().NoError(err)
	s.Equal(800+500, record.CanonicalScore)
	s.Equal("A", s.app.Leaderboard.Top(model.ModeRTA, 10)[0].Nickname)
}

// Test: a room converts when full and every member receives the game
func (s *IntegrationSuite) TestRoomFlow() {
	host := s.register("host")
	guest := s.register("guest")

	room, err := s.app.LobbyController.CreateRoom(s.ctx, host.ID, lobby.RoomOptions{
		Name: "friends", Password: "pw", Capacity: 2, Rule: model.RuleChallenge,
	})
	s.Require().NoError(err)

	result, err := s.app.LobbyController.JoinRoom(s.ctx, guest.ID, room.ID, "pw")
	s.Require().NoError(err)
	s.Require().Equal(model.RoomStatusStarted, result.Status)
	s.Len(result.Game.Questions, 15)

	polled, err := s.app.LobbyController.JoinRoom(s.ctx, host.ID, room.ID, "pw")
	s.Require().NoError(err)
	s.Equal(result.Game.ID, polled.Game.ID)
}

// Test: reaping idle players leaves no orphaned queue or room entries
func (s *IntegrationSuite) TestReapFlow() {
	idle := s.register("idle")
	host := s.register("host")
	_, err := s.app.LobbyController.JoinQueue(s.ctx, idle.ID, model.RuleClassic)
	s.Require().NoError(err)
	_, err = s.app.LobbyController.CreateRoom(s.ctx, host.ID, lobby.RoomOptions{})
	s.Require().NoError(err)

	s.app.MockClock.Advance(11 * time.Minute)
	s.Equal(2, s.app.Reaper.Sweep(s.ctx))

	s.Equal(0, s.app.Registry.Count())
	s.Equal(0, s.app.LobbyController.QueuedCount())
	s.Equal(0, s.app.LobbyController.RoomCount())
}

// Test: the file backend survives a restart through New
func (s *IntegrationSuite) TestNewWithFileBackend() {
	path := filepath.Join(s.T().TempDir(), "leaderboard.json")
	cfg := Config{StorageType: "file", LeaderboardPath: path}

	app, err := New(s.ctx, cfg)
	s.Require().NoError(err)
	_, err = app.Leaderboard.Submit(s.ctx, "alice", model.ScoreSubmission{Mode: model.ModeSolo, CorrectCount: 3})
	s.Require().NoError(err)
	s.Require().NoError(app.Close())

	restarted, err := New(s.ctx, cfg)
	s.Require().NoError(err)
	defer restarted.Close()

	top := restarted.Leaderboard.Top(model.ModeSolo, 10)
	s.Require().Len(top, 1)
	s.Equal("alice", top[0].Nickname)
}

func (s *IntegrationSuite) TestNewRejectsUnknownStorage() {
	_, err := New(s.ctx, Config{StorageType: "tape"})
	s.Error(err)
}
