package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Player represents an anonymous participant holding an opaque session token
type Player struct {
	ID           PlayerID
	Nickname     string
	SessionToken string
	CreatedAt    time.Time
	LastActiveAt time.Time
}

// IdleSince reports whether the player has been inactive for longer than timeout at now
func (p *Player) IdleSince(now time.Time, timeout time.Duration) bool {
	return now.Sub(p.LastActiveAt) > timeout
}
