package apperror

import "errors"

var (
	ErrRoomNotFound = errors.New("room not found")

	ErrRoomFull         = errors.New("room is full")
	ErrAlreadyStarted   = errors.New("game already started")
	ErrNotStarted       = errors.New("game has not started")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrNotHost          = errors.New("only the host can start the game")
	ErrNotEnoughPlayers = errors.New("not enough players to start")
	ErrNotInRoom        = errors.New("player not in room")

	ErrInvalidCharacter = errors.New("invalid character")
)

const (
	KindNotFound     = "not_found"
	KindConflict     = "conflict"
	KindInvalidInput = "invalid_input"
	KindInternal     = "internal"
)

// Kind classifies an error for the wire: callers get one of the three
// caller-local kinds, anything unrecognized is reported as internal.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrRoomNotFound):
		return KindNotFound
	case errors.Is(err, ErrRoomFull),
		errors.Is(err, ErrAlreadyStarted),
		errors.Is(err, ErrNotStarted),
		errors.Is(err, ErrNotYourTurn),
		errors.Is(err, ErrNotHost),
		errors.Is(err, ErrNotEnoughPlayers),
		errors.Is(err, ErrNotInRoom):
		return KindConflict
	case errors.Is(err, ErrInvalidCharacter):
		return KindInvalidInput
	default:
		return KindInternal
	}
}
