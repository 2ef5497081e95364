package model

import "time"

// GameID uniquely identifies a game
type GameID string

// GameSource records what produced the game
type GameSource string

const (
	GameSourceQueue GameSource = "queue"
	GameSourceRoom  GameSource = "room"
)

// Game is a match with a fixed question sequence and a cursor shared by all members
type Game struct {
	ID        GameID
	Rule      Rule
	Source    GameSource
	RoomID    RoomID // set when Source is room
	Members   []PlayerID
	Questions []PublicQuestion
	Cursor    int
	CreatedAt time.Time
}

// HasMember reports whether the player belongs to this game
func (g *Game) HasMember(playerID PlayerID) bool {
	for _, id := range g.Members {
		if id == playerID {
			return true
		}
	}
	return false
}

// IsFinished returns true once every question has been delivered
func (g *Game) IsFinished() bool {
	return g.Cursor >= len(g.Questions)
}

// Clone returns a copy safe to hand out of the store's lock
func (g *Game) Clone() *Game {
	c := *g
	c.Members = append([]PlayerID(nil), g.Members...)
	c.Questions = append([]PublicQuestion(nil), g.Questions...)
	return &c
}

// QuestionDelivery is the result of polling a game for its next question
type QuestionDelivery struct {
	Question *PublicQuestion // nil when Finished
	Index    int
	Total    int
	Finished bool
}
