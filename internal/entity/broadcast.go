package entity

// Snapshot is a point-in-time projection of a room's externally visible
// state, taken while holding the room lock. It is the unit broadcast to
// observers and is never partially updated.
type Snapshot struct {
	Started  bool        `json:"started"`
	Capacity int         `json:"capacity"`
	Joined   int         `json:"joinedCount"`
	Host     int         `json:"hostNumber"`
	Current  int         `json:"currentPlayer"`
	Sequence string      `json:"sequence"`
	Scores   map[int]int `json:"scores"`
	Round    int         `json:"round"`
}

// Broadcast describes one successful room mutation, addressed to every
// session that should observe it.
type Broadcast struct {
	RoomCode   string
	Snapshot   Snapshot
	LastPlayer int
	LastChar   string
	Messages   []string
	Recipients []string
}

// JoinResult reports a completed join, including whether it filled the room
// and triggered the auto-start.
type JoinResult struct {
	Player      int
	AutoStarted bool
	Snapshot    Snapshot
	Recipients  []string
}

// StartResult reports a manual start. StartedNow is false when the game was
// already running, in which case nothing changed.
type StartResult struct {
	StartedNow bool
	Snapshot   Snapshot
	Recipients []string
}

// Move is the outcome of a single character addition. Word completion and
// round end are independent: one move can do both.
type Move struct {
	Player        int
	Char          string
	Candidate     string
	CompletedWord string
	Points        int
	AlreadyUsed   bool
	RoundOver     bool
	Snapshot      Snapshot
	Recipients    []string
}

// Departure is the outcome of removing a session from a room. When Closed is
// true the room must be destroyed; Recipients still lists everyone who was a
// member at the time, including the leaver.
type Departure struct {
	Player     int
	WasStarted bool
	Closed     bool
	Snapshot   Snapshot
	Recipients []string
}
