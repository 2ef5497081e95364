package mailbox

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type MailboxSuite struct {
	suite.Suite
	mailbox *Mailbox
}

func TestMailboxSuite(t *testing.T) {
	suite.Run(t, new(MailboxSuite))
}

func (s *MailboxSuite) SetupTest() {
	s.mailbox = New()
}

func (s *MailboxSuite) TestTakeDeliversOnce() {
	s.mailbox.Post("p1", "g1")

	gameID, ok := s.mailbox.Take("p1")
	s.True(ok)
	s.Equal("g1", string(gameID))

	_, ok = s.mailbox.Take("p1")
	s.False(ok)
}

func (s *MailboxSuite) TestPostOverwrites() {
	s.mailbox.Post("p1", "g1")
	s.mailbox.Post("p1", "g2")

	gameID, _ := s.mailbox.Take("p1")
	s.Equal("g2", string(gameID))
	s.Equal(0, s.mailbox.Len())
}

func (s *MailboxSuite) TestClear() {
	s.mailbox.Post("p1", "g1")
	s.True(s.mailbox.Has("p1"))

	s.mailbox.Clear("p1")
	s.False(s.mailbox.Has("p1"))
}
