package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/rushmax/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) TestAppendAndLoadKeepsOrderPerMode() {
	s.Require().NoError(s.storage.AppendScore(s.ctx, model.ModeRTA, model.ScoreRecord{Nickname: "a", CanonicalScore: 1}))
	s.Require().NoError(s.storage.AppendScore(s.ctx, model.ModeRTA, model.ScoreRecord{Nickname: "b", CanonicalScore: 2}))
	s.Require().NoError(s.storage.AppendScore(s.ctx, model.ModeSolo, model.ScoreRecord{Nickname: "c", CanonicalScore: 3}))

	scores, err := s.storage.LoadScores(s.ctx)
	s.Require().NoError(err)

	s.Require().Len(scores[model.ModeRTA], 2)
	s.Equal("a", scores[model.ModeRTA][0].Nickname)
	s.Equal("b", scores[model.ModeRTA][1].Nickname)
	s.Len(scores[model.ModeSolo], 1)
}

func (s *StorageSuite) TestLoadReturnsCopy() {
	_ = s.storage.AppendScore(s.ctx, model.ModeRTA, model.ScoreRecord{Nickname: "a"})

	scores, _ := s.storage.LoadScores(s.ctx)
	scores[model.ModeRTA][0].Nickname = "changed"

	again, _ := s.storage.LoadScores(s.ctx)
	s.Equal("a", again[model.ModeRTA][0].Nickname)
}
