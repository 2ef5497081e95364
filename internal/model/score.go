package model

import "time"

// Score modes
const (
	ModeRTA  = "rta"
	ModeSolo = "solo"
)

// ScoreSubmission is the raw telemetry a client reports after a session
type ScoreSubmission struct {
	Mode           string
	CorrectCount   int
	TotalQuestions *int // nil means no wrong answers
	TimeSeconds    float64
}

// ScoreBreakdown is the server-computed canonical score and the intermediate values
type ScoreBreakdown struct {
	Mode         string  `json:"mode"`
	Correct      int     `json:"correct"`
	Total        int     `json:"total"`
	Wrong        int     `json:"wrong"`
	Accuracy     float64 `json:"accuracy"`
	Base         int     `json:"base"`
	ExpectedTime float64 `json:"expected_time,omitempty"`
	TimeBonus    int     `json:"time_bonus"`
	Canonical    int     `json:"canonical"`
}

// ScoreRecord is one append-only leaderboard entry
type ScoreRecord struct {
	Nickname       string         `json:"nickname"`
	CanonicalScore int            `json:"canonical_score"`
	RawTime        float64        `json:"raw_time"`
	Breakdown      ScoreBreakdown `json:"breakdown"`
	SubmittedAt    time.Time      `json:"submitted_at"`
}
