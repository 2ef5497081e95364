package request

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Nickname string `json:"nickname"`
}

// JoinQueueRequest is the request body for joining a matchmaking queue
type JoinQueueRequest struct {
	Rule string `json:"rule,omitempty"`
}

// CreateRoomRequest is the request body for creating a room
type CreateRoomRequest struct {
	Name     string `json:"name,omitempty"`
	Password string `json:"password,omitempty"`
	Capacity int    `json:"capacity,omitempty"`
	Rule     string `json:"rule,omitempty"`
}

// JoinRoomRequest is the request body for joining a room
type JoinRoomRequest struct {
	Password string `json:"password,omitempty"`
}

// SubmitScoreRequest is the request body for submitting score telemetry
type SubmitScoreRequest struct {
	Mode           string  `json:"mode"`
	CorrectCount   int     `json:"correct_count"`
	TotalQuestions *int    `json:"total_questions,omitempty"`
	TimeSeconds    float64 `json:"time_seconds"`
}

// AskRequest is the request body for asking the AI judge
type AskRequest struct {
	Question     string `json:"question"`
	TargetAnswer string `json:"target_answer"`
	LMServer     string `json:"lm_server,omitempty"`
}

// ProbeRequest is the request body for probing an AI server
type ProbeRequest struct {
	LMServer string `json:"lm_server"`
}
