package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrUnknownPlayer = errors.New("unknown player")

	// Queue errors
	ErrAlreadyQueued = errors.New("player is already queued, in a room, or has a pending match")
	ErrNotQueued     = errors.New("player is not queued")
	ErrInvalidRule   = errors.New("invalid rule")

	// Room errors
	ErrUnknownRoom = errors.New("room not found")
	ErrBadPassword = errors.New("bad room password")
	ErrRoomFull    = errors.New("room is full")
	ErrNotInRoom   = errors.New("player is not in a room")

	// Game errors
	ErrUnknownGame = errors.New("game not found")
	ErrNotInGame   = errors.New("player is not in this game")

	// Question bank errors
	ErrNoQuestions = errors.New("no questions available")

	// Scoring errors
	ErrInvalidSubmission = errors.New("invalid score submission")
)
