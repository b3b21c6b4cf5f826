package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/spellchain/spellchain-backend/internal/entity"
)

// Hub tracks live connections by session handle and fans broadcasts out to
// the sessions a mutation addresses. It is the publisher the game manager
// talks to; publishing happens strictly after the room lock is released.
type Hub struct {
	logger *slog.Logger

	mu      sync.RWMutex
	clients map[string]*client
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:  logger.With("component", "ws-hub"),
		clients: make(map[string]*client),
	}
}

// Publish delivers one game update to every recipient of the broadcast.
func (that *Hub) Publish(broadcast *entity.Broadcast) {
	payload := GameUpdatePayload{
		Started:       broadcast.Snapshot.Started,
		Capacity:      broadcast.Snapshot.Capacity,
		JoinedCount:   broadcast.Snapshot.Joined,
		HostNumber:    broadcast.Snapshot.Host,
		CurrentPlayer: broadcast.Snapshot.Current,
		Sequence:      broadcast.Snapshot.Sequence,
		Scores:        broadcast.Snapshot.Scores,
		Round:         broadcast.Snapshot.Round,
		LastPlayer:    broadcast.LastPlayer,
		LastChar:      broadcast.LastChar,
		Messages:      broadcast.Messages,
	}

	raw, err := marshalMessage(actionGameUpdate, payload)
	if err != nil {
		that.logger.Error("failed to marshal game update", "room", broadcast.RoomCode, "error", err)
		return
	}

	that.mu.RLock()
	defer that.mu.RUnlock()

	for _, sessionID := range broadcast.Recipients {
		c, ok := that.clients[sessionID]
		if !ok {
			continue
		}

		c.enqueue(raw)
	}
}

func (that *Hub) register(c *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.clients[c.sessionID] = c
}

func (that *Hub) unregister(sessionID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.clients, sessionID)
}

func marshalMessage(action string, payload any) ([]byte, error) {
	rawPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return json.Marshal(Message{Action: action, Payload: rawPayload})
}
