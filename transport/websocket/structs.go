package websocket

import "encoding/json"

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Inbound actions.
const (
	actionRoomCreate = "room:create"
	actionRoomJoin   = "room:join"
	actionGameStart  = "game:start"
	actionGameTurn   = "game:turn"
	actionRoomLeave  = "room:leave"
)

// Outbound actions.
const (
	actionRoomCreated = "room:created"
	actionGameUpdate  = "game:update"
	actionError       = "error"
)

type JoinRoomPayload struct {
	RoomCode string `json:"roomCode"`
}

type StartGamePayload struct {
	RoomCode string `json:"roomCode"`
}

type TurnPayload struct {
	RoomCode string `json:"roomCode"`
	Char     string `json:"char"`
}

// RoomCreatedPayload is the direct reply to room:create and room:join.
type RoomCreatedPayload struct {
	RoomCode     string `json:"roomCode"`
	PlayerNumber int    `json:"playerNumber"`
	Capacity     int    `json:"capacity"`
	Started      bool   `json:"started"`
}

// ErrorPayload is sent only to the connection whose command failed.
type ErrorPayload struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// GameUpdatePayload is the broadcast sent to every member of a room after a
// successful mutation.
type GameUpdatePayload struct {
	Started       bool        `json:"started"`
	Capacity      int         `json:"capacity"`
	JoinedCount   int         `json:"joinedCount"`
	HostNumber    int         `json:"hostNumber"`
	CurrentPlayer int         `json:"currentPlayer"`
	Sequence      string      `json:"sequence"`
	Scores        map[int]int `json:"scores"`
	Round         int         `json:"round"`
	LastPlayer    int         `json:"lastPlayer,omitempty"`
	LastChar      string      `json:"lastChar,omitempty"`
	Messages      []string    `json:"messages,omitempty"`
}
