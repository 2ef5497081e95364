package model

import "time"

// QueueEntry is a player waiting in a rule-scoped matchmaking queue
type QueueEntry struct {
	PlayerID   PlayerID
	EnqueuedAt time.Time
}

// QueueStatus is the outcome of a queue join or poll
type QueueStatus string

const (
	QueueStatusWaiting QueueStatus = "waiting"
	QueueStatusMatched QueueStatus = "matched"
)

// QueueResult describes either a match assignment or the caller's place in line
type QueueResult struct {
	Status       QueueStatus
	Rule         Rule
	Position     int // 1-based, zero when matched
	TotalWaiting int
	Game         *Game
}
