package model

// Question is a bank entry including its accepted answers
type Question struct {
	ID      string
	Prompt  string
	Answers []string
}

// Sanitize strips the answers for multiplayer delivery
func (q Question) Sanitize() PublicQuestion {
	return PublicQuestion{ID: q.ID, Prompt: q.Prompt}
}

// PublicQuestion is the answer-free form delivered in multiplayer games
type PublicQuestion struct {
	ID     string
	Prompt string
}
