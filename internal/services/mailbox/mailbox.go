package mailbox

import (
	"sync"

	"github.com/mcoot/rushmax/internal/metrics"
	"github.com/mcoot/rushmax/internal/model"
)

// Mailbox holds at most one pending match per player until that player's next poll
type Mailbox struct {
	mu      sync.Mutex
	pending map[model.PlayerID]model.GameID
}

// New creates an empty mailbox
func New() *Mailbox {
	return &Mailbox{
		pending: make(map[model.PlayerID]model.GameID),
	}
}

// Post records a match for the player, overwriting any earlier one
func (m *Mailbox) Post(playerID model.PlayerID, gameID model.GameID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending[playerID] = gameID
}

// Take returns and clears the player's pending match
func (m *Mailbox) Take(playerID model.PlayerID) (model.GameID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	gameID, ok := m.pending[playerID]
	if ok {
		delete(m.pending, playerID)
		metrics.MailboxDeliveriesTotal.Inc()
	}
	return gameID, ok
}

// Has reports whether the player has a pending match without clearing it
func (m *Mailbox) Has(playerID model.PlayerID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.pending[playerID]
	return ok
}

// Clear drops any pending match for the player
func (m *Mailbox) Clear(playerID model.PlayerID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, playerID)
}

// Len returns the number of undelivered matches
func (m *Mailbox) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}
