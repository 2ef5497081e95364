package model

// ServerStats is a point-in-time count of live state
type ServerStats struct {
	LivePlayers   int
	QueuedPlayers int
	ActiveGames   int
	ActiveRooms   int
}
