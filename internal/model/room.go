package model

import "time"

// RoomID uniquely identifies a private room
type RoomID string

// Room is a player-created, capacity-bounded group that converts into a game once full
type Room struct {
	ID           RoomID
	Name         string
	PasswordHash string // bcrypt hash, empty when the room is open
	Capacity     int
	Rule         Rule
	Members      []PlayerID
	CreatorID    PlayerID
	CreatedAt    time.Time
}

// HasPassword reports whether joining requires a password
func (r *Room) HasPassword() bool {
	return r.PasswordHash != ""
}

// HasMember reports whether the player is already in the room
func (r *Room) HasMember(playerID PlayerID) bool {
	for _, id := range r.Members {
		if id == playerID {
			return true
		}
	}
	return false
}

// IsFull returns true once membership has reached capacity
func (r *Room) IsFull() bool {
	return len(r.Members) >= r.Capacity
}

// RemoveMember drops the player from the member list, returning whether they were present
func (r *Room) RemoveMember(playerID PlayerID) bool {
	for i, id := range r.Members {
		if id == playerID {
			r.Members = append(r.Members[:i], r.Members[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a copy safe to hand out of the room manager's lock
func (r *Room) Clone() *Room {
	c := *r
	c.Members = append([]PlayerID(nil), r.Members...)
	return &c
}

// RoomStatus is the outcome of a room join
type RoomStatus string

const (
	RoomStatusWaiting RoomStatus = "waiting"
	RoomStatusStarted RoomStatus = "started"
)

// RoomResult carries either current occupancy or the game the room converted into
type RoomResult struct {
	Status RoomStatus
	Room   *Room // snapshot, nil once started
	Game   *Game
}
