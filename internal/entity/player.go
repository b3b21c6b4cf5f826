package entity

// Player is one seat in a room: a stable number in [1..capacity] bound to
// the opaque session handle of the connection occupying it.
type Player struct {
	Number    int    `json:"number"`
	SessionID string `json:"session_id"`
}
