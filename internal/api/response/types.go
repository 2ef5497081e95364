package response

import (
	"time"

	"github.com/mcoot/rushmax/internal/model"
	"github.com/mcoot/rushmax/internal/services/judge"
)

// Registration is returned once, when a player registers
type Registration struct {
	PlayerID     string `json:"player_id"`
	SessionToken string `json:"session_token"`
	Nickname     string `json:"nickname"`
}

// RegistrationFromModel converts a freshly registered player
func RegistrationFromModel(p *model.Player) Registration {
	return Registration{
		PlayerID:     string(p.ID),
		SessionToken: p.SessionToken,
		Nickname:     p.Nickname,
	}
}

// Player represents a player in API responses. The session token is never echoed.
type Player struct {
	PlayerID     string    `json:"player_id"`
	Nickname     string    `json:"nickname"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		PlayerID:     string(p.ID),
		Nickname:     p.Nickname,
		CreatedAt:    p.CreatedAt,
		LastActiveAt: p.LastActiveAt,
	}
}

// Game is a match assignment. Questions are fetched one at a time.
type Game struct {
	GameID        string   `json:"game_id"`
	Rule          string   `json:"rule"`
	Source        string   `json:"source"`
	RoomID        string   `json:"room_id,omitempty"`
	Members       []string `json:"members"`
	QuestionCount int      `json:"question_count"`
}

// GameFromModel converts a model.Game
func GameFromModel(g *model.Game) *Game {
	if g == nil {
		return nil
	}
	return &Game{
		GameID:        string(g.ID),
		Rule:          string(g.Rule),
		Source:        string(g.Source),
		RoomID:        string(g.RoomID),
		Members:       playerIDs(g.Members),
		QuestionCount: len(g.Questions),
	}
}

// QueueStatus is the outcome of a queue join or poll
type QueueStatus struct {
	Status       string `json:"status"`
	Rule         string `json:"rule,omitempty"`
	Position     int    `json:"position,omitempty"`
	TotalWaiting int    `json:"total_waiting,omitempty"`
	Game         *Game  `json:"game,omitempty"`
}

// QueueStatusFromModel converts a model.QueueResult
func QueueStatusFromModel(r *model.QueueResult) QueueStatus {
	return QueueStatus{
		Status:       string(r.Status),
		Rule:         string(r.Rule),
		Position:     r.Position,
		TotalWaiting: r.TotalWaiting,
		Game:         GameFromModel(r.Game),
	}
}

// Room represents a room. The password hash is never exposed.
type Room struct {
	RoomID      string    `json:"room_id"`
	Name        string    `json:"name"`
	HasPassword bool      `json:"has_password"`
	Capacity    int       `json:"capacity"`
	Rule        string    `json:"rule"`
	Members     []string  `json:"members"`
	CreatorID   string    `json:"creator_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// RoomFromModel converts a model.Room
func RoomFromModel(r *model.Room) *Room {
	if r == nil {
		return nil
	}
	return &Room{
		RoomID:      string(r.ID),
		Name:        r.Name,
		HasPassword: r.HasPassword(),
		Capacity:    r.Capacity,
		Rule:        string(r.Rule),
		Members:     playerIDs(r.Members),
		CreatorID:   string(r.CreatorID),
		CreatedAt:   r.CreatedAt,
	}
}

// RoomList wraps a room listing
type RoomList struct {
	Rooms []*Room `json:"rooms"`
}

// RoomListFromModel converts a room listing
func RoomListFromModel(rooms []*model.Room) RoomList {
	out := RoomList{Rooms: make([]*Room, len(rooms))}
	for i, r := range rooms {
		out.Rooms[i] = RoomFromModel(r)
	}
	return out
}

// RoomStatus is the outcome of a room join or poll
type RoomStatus struct {
	Status string `json:"status"`
	Room   *Room  `json:"room,omitempty"`
	Game   *Game  `json:"game,omitempty"`
}

// RoomStatusFromModel converts a model.RoomResult
func RoomStatusFromModel(r *model.RoomResult) RoomStatus {
	return RoomStatus{
		Status: string(r.Status),
		Room:   RoomFromModel(r.Room),
		Game:   GameFromModel(r.Game),
	}
}

// Question is one delivery from a game's shared cursor
type Question struct {
	QuestionID string `json:"question_id,omitempty"`
	Prompt     string `json:"prompt,omitempty"`
	Index      int    `json:"index"`
	Total      int    `json:"total"`
	Finished   bool   `json:"finished"`
}

// QuestionFromDelivery converts a model.QuestionDelivery
func QuestionFromDelivery(d *model.QuestionDelivery) Question {
	q := Question{Index: d.Index, Total: d.Total, Finished: d.Finished}
	if d.Question != nil {
		q.QuestionID = d.Question.ID
		q.Prompt = d.Question.Prompt
	}
	return q
}

// SoloQuestion includes answers for client-side validation
type SoloQuestion struct {
	QuestionID string   `json:"question_id"`
	Prompt     string   `json:"prompt"`
	Answers    []string `json:"answers"`
	Answer     string   `json:"answer"`
}

// SoloQuestionFromModel converts a model.Question
func SoloQuestionFromModel(q model.Question) SoloQuestion {
	answers := q.Answers
	if answers == nil {
		answers = []string{}
	}
	var first string
	if len(answers) > 0 {
		first = answers[0]
	}
	return SoloQuestion{
		QuestionID: q.ID,
		Prompt:     q.Prompt,
		Answers:    answers,
		Answer:     first,
	}
}

// SoloQuestionList wraps a batch of solo questions
type SoloQuestionList struct {
	Questions []SoloQuestion `json:"questions"`
}

// ScoreAccepted is returned after a score submission
type ScoreAccepted struct {
	OK             bool                 `json:"ok"`
	CanonicalScore int                  `json:"canonical_score"`
	Breakdown      model.ScoreBreakdown `json:"breakdown"`
}

// TopScores is a leaderboard slice
type TopScores struct {
	Mode   string              `json:"mode"`
	Scores []model.ScoreRecord `json:"scores"`
}

// Stats is a point-in-time count of live state
type Stats struct {
	LivePlayers   int `json:"live_players"`
	QueuedPlayers int `json:"queued_players"`
	ActiveGames   int `json:"active_games"`
	ActiveRooms   int `json:"active_rooms"`
}

// StatsFromModel converts model.ServerStats
func StatsFromModel(s model.ServerStats) Stats {
	return Stats{
		LivePlayers:   s.LivePlayers,
		QueuedPlayers: s.QueuedPlayers,
		ActiveGames:   s.ActiveGames,
		ActiveRooms:   s.ActiveRooms,
	}
}

// Status identifies the server instance
type Status struct {
	ServerID       string `json:"server_id"`
	QuestionsCount int    `json:"questions_count"`
}

// Verdict is the AI judge's answer
type Verdict struct {
	AIResponse    string  `json:"ai_response"`
	Reasoning     *string `json:"reasoning,omitempty"`
	Valid         *bool   `json:"valid,omitempty"`
	InvalidReason *string `json:"invalid_reason,omitempty"`
	Available     bool    `json:"available"`
}

// VerdictFromJudge converts a judge.Verdict
func VerdictFromJudge(v judge.Verdict) Verdict {
	return Verdict{
		AIResponse:    v.AIResponse,
		Reasoning:     v.Reasoning,
		Valid:         v.Valid,
		InvalidReason: v.InvalidReason,
		Available:     v.Available,
	}
}

// Probe reports whether an AI server answered
type Probe struct {
	OK      bool   `json:"ok"`
	Checked string `json:"checked,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ProbeFromJudge converts a judge.ProbeResult
func ProbeFromJudge(p judge.ProbeResult) Probe {
	return Probe{OK: p.OK, Checked: p.Checked, Error: p.Error}
}

func playerIDs(ids []model.PlayerID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
