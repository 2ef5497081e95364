package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"

	"github.com/mcoot/rushmax/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Registration:
		o.printRegistration(v)
	case response.Player:
		o.printPlayer(v)
	case response.QueueStatus:
		o.printQueueStatus(v)
	case response.Room:
		o.printRoom(v)
	case response.RoomList:
		o.printRoomList(v)
	case response.RoomStatus:
		o.printRoomStatus(v)
	case response.Question:
		o.printQuestion(v)
	case response.ScoreAccepted:
		o.printScoreAccepted(v)
	case response.TopScores:
		o.printTopScores(v)
	case response.SoloQuestionList:
		o.printSoloQuestions(v)
	case response.Verdict:
		o.printVerdict(v)
	case response.Probe:
		o.printProbe(v)
	case response.Status:
		fmt.Fprintf(o.w, "Server: %s\n", v.ServerID)
		fmt.Fprintf(o.w, "Questions: %d\n", v.QuestionsCount)
	case response.Stats:
		o.printStats(v)
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printRegistration(r response.Registration) {
	fmt.Fprintf(o.w, "Player: %s (%s)\n", r.Nickname, r.PlayerID)
	fmt.Fprintf(o.w, "Token: %s\n", r.SessionToken)
}

func (o *Output) printPlayer(p response.Player) {
	fmt.Fprintf(o.w, "Player: %s (%s)\n", p.Nickname, p.PlayerID)
	fmt.Fprintf(o.w, "Last active: %s\n", p.LastActiveAt.Format("2006-01-02 15:04:05"))
}

func (o *Output) printGame(g *response.Game) {
	fmt.Fprintf(o.w, "Game: %s\n", g.GameID)
	fmt.Fprintf(o.w, "Rule: %s (%d questions)\n", g.Rule, g.QuestionCount)
	if g.RoomID != "" {
		fmt.Fprintf(o.w, "From room: %s\n", g.RoomID)
	}
	fmt.Fprintf(o.w, "Members: %s\n", strings.Join(g.Members, ", "))
}

func (o *Output) printQueueStatus(q response.QueueStatus) {
	if q.Game != nil {
		fmt.Fprintln(o.w, "Matched!")
		o.printGame(q.Game)
		return
	}
	fmt.Fprintf(o.w, "Waiting in %s queue: position %d of %d\n", q.Rule, q.Position, q.TotalWaiting)
}

func (o *Output) printRoom(r response.Room) {
	lock := ""
	if r.HasPassword {
		lock = " [password]"
	}
	fmt.Fprintf(o.w, "Room: %s (%s)%s\n", r.Name, r.RoomID, lock)
	fmt.Fprintf(o.w, "Rule: %s\n", r.Rule)
	fmt.Fprintf(o.w, "Seats: %d/%d\n", len(r.Members), r.Capacity)
	for _, m := range r.Members {
		host := ""
		if m == r.CreatorID {
			host = " [creator]"
		}
		fmt.Fprintf(o.w, "  - %s%s\n", m, host)
	}
}

func (o *Output) printRoomList(l response.RoomList) {
	if len(l.Rooms) == 0 {
		fmt.Fprintln(o.w, "No open rooms")
		return
	}
	for _, r := range l.Rooms {
		lock := ""
		if r.HasPassword {
			lock = " [password]"
		}
		fmt.Fprintf(o.w, "%s  %-20s %s  %d/%d%s\n", r.RoomID, r.Name, r.Rule, len(r.Members), r.Capacity, lock)
	}
}

func (o *Output) printRoomStatus(s response.RoomStatus) {
	if s.Game != nil {
		fmt.Fprintln(o.w, "Room started!")
		o.printGame(s.Game)
		return
	}
	if s.Room != nil {
		o.printRoom(*s.Room)
	}
}

func (o *Output) printQuestion(q response.Question) {
	if q.Finished {
		fmt.Fprintf(o.w, "Game finished (%d questions)\n", q.Total)
		return
	}
	fmt.Fprintf(o.w, "Question %d/%d: %s\n", q.Index+1, q.Total, q.Prompt)
}

func (o *Output) printScoreAccepted(s response.ScoreAccepted) {
	fmt.Fprintf(o.w, "Score: %d\n", s.CanonicalScore)
	b := s.Breakdown
	fmt.Fprintf(o.w, "Mode: %s, correct %d/%d, accuracy %.2f\n", b.Mode, b.Correct, b.Total, b.Accuracy)
	fmt.Fprintf(o.w, "Base %d + time bonus %d\n", b.Base, b.TimeBonus)
}

func (o *Output) printTopScores(t response.TopScores) {
	fmt.Fprintf(o.w, "Top %s scores:\n", t.Mode)
	if len(t.Scores) == 0 {
		fmt.Fprintln(o.w, "  (none)")
		return
	}
	for i, s := range t.Scores {
		fmt.Fprintf(o.w, "%3d. %-20s %d\n", i+1, s.Nickname, s.CanonicalScore)
	}
}

func (o *Output) printSoloQuestions(l response.SoloQuestionList) {
	for i, q := range l.Questions {
		fmt.Fprintf(o.w, "%d. %s\n", i+1, q.Prompt)
		fmt.Fprintf(o.w, "   answer: %s\n", q.Answer)
	}
}

func (o *Output) printVerdict(v response.Verdict) {
	if !v.Available {
		fmt.Fprintf(o.w, "Judge unavailable: %s\n", v.AIResponse)
		return
	}
	fmt.Fprintf(o.w, "Answer: %s\n", v.AIResponse)
	if v.Reasoning != nil {
		fmt.Fprintf(o.w, "Reasoning: %s\n", *v.Reasoning)
	}
	if v.Valid != nil {
		fmt.Fprintf(o.w, "Valid: %t\n", *v.Valid)
	}
	if v.InvalidReason != nil && *v.InvalidReason != "" {
		fmt.Fprintf(o.w, "Invalid reason: %s\n", *v.InvalidReason)
	}
}

func (o *Output) printProbe(p response.Probe) {
	if p.OK {
		fmt.Fprintf(o.w, "OK (%s)\n", p.Checked)
		return
	}
	fmt.Fprintf(o.w, "Unreachable: %s\n", p.Error)
}

func (o *Output) printStats(s response.Stats) {
	fmt.Fprintf(o.w, "Live players: %d\n", s.LivePlayers)
	fmt.Fprintf(o.w, "Queued players: %d\n", s.QueuedPlayers)
	fmt.Fprintf(o.w, "Active games: %d\n", s.ActiveGames)
	fmt.Fprintf(o.w, "Active rooms: %d\n", s.ActiveRooms)
}
