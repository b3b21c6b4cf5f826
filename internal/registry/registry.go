package registry

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/spellchain/spellchain-backend/internal/apperror"
	"github.com/spellchain/spellchain-backend/internal/entity"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6
)

// Registry owns the set of live rooms and the session→room back-reference.
// Both indexes are per-key safe, so unrelated rooms never contend on a
// shared lock. The room owns its players; the session index is a lookup
// convenience kept consistent on every add/remove/destroy path.
type Registry struct {
	rooms    sync.Map // code -> *entity.Room
	sessions sync.Map // session ID -> code
}

func New() *Registry {
	return &Registry{}
}

// CreateRoom builds a room under a fresh unique code and registers it.
func (that *Registry) CreateRoom(capacity, minPlayers int, punctuation string) *entity.Room {
	for {
		code := randomCode()
		room := entity.NewRoom(code, capacity, minPlayers, punctuation)

		if _, exists := that.rooms.LoadOrStore(code, room); !exists {
			return room
		}
	}
}

// Room resolves a code, case-insensitively.
func (that *Registry) Room(code string) (*entity.Room, error) {
	value, ok := that.rooms.Load(Normalize(code))
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrRoomNotFound, Normalize(code))
	}

	return value.(*entity.Room), nil
}

// Bind records the session as a member of the room with the given code.
func (that *Registry) Bind(sessionID, code string) {
	that.sessions.Store(sessionID, Normalize(code))
}

// Unbind drops the session's room mapping.
func (that *Registry) Unbind(sessionID string) {
	that.sessions.Delete(sessionID)
}

// SessionRoom returns the code of the room the session currently occupies.
func (that *Registry) SessionRoom(sessionID string) (string, bool) {
	value, ok := that.sessions.Load(sessionID)
	if !ok {
		return "", false
	}

	return value.(string), true
}

// Destroy removes the room and the reverse mappings of the given sessions.
// It reports whether this call actually removed the room, so concurrent
// triggers (exit, disconnect, host-left, game-ended) tear down exactly once.
func (that *Registry) Destroy(code string, sessionIDs []string) bool {
	_, existed := that.rooms.LoadAndDelete(Normalize(code))

	for _, sessionID := range sessionIDs {
		that.sessions.Delete(sessionID)
	}

	return existed
}

// Normalize canonicalizes a room code for lookup.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func randomCode() string {
	var sb strings.Builder
	sb.Grow(codeLength)

	max := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < codeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(fmt.Errorf("failed to generate room code: %w", err))
		}

		sb.WriteByte(codeAlphabet[n.Int64()])
	}

	return sb.String()
}
