package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spellchain/spellchain-backend/internal/config"
	"github.com/spellchain/spellchain-backend/internal/entity"
	"github.com/spellchain/spellchain-backend/internal/registry"
)

const completionRecordTimeout = 5 * time.Second

type roomRegistry interface {
	CreateRoom(capacity, minPlayers int, punctuation string) *entity.Room
	Room(code string) (*entity.Room, error)
	Bind(sessionID, code string)
	Unbind(sessionID string)
	SessionRoom(sessionID string) (string, bool)
	Destroy(code string, sessionIDs []string) bool
}

type publisher interface {
	Publish(broadcast *entity.Broadcast)
}

type completionRecorder interface {
	RecordCompletion(ctx context.Context, word string, points int) error
}

// RoomTicket is the direct reply to a create or join command.
type RoomTicket struct {
	RoomCode string
	Player   int
	Capacity int
	Started  bool
}

// GameManager translates player commands into registry and room operations
// and packages every successful mutation into one broadcast for the room's
// members. Validation failures are returned to the caller, never broadcast.
type GameManager struct {
	logger *slog.Logger

	dict        entity.Dictionary
	rooms       roomRegistry
	publisher   publisher
	completions completionRecorder

	game config.Game
}

// NewGameManager wires the coordinator. completions may be nil, which
// disables leaderboard recording.
func NewGameManager(logger *slog.Logger, dict entity.Dictionary, rooms roomRegistry, publisher publisher, completions completionRecorder, game config.Game) *GameManager {
	return &GameManager{
		logger:      logger,
		dict:        dict,
		rooms:       rooms,
		publisher:   publisher,
		completions: completions,
		game:        game,
	}
}

// CreateRoom opens a fresh room with the caller as host (#1). A session may
// occupy at most one room, so any previous membership is left first.
func (that *GameManager) CreateRoom(ctx context.Context, sessionID string) (*RoomTicket, error) {
	log := that.logger.With("method", "CreateRoom")

	if _, ok := that.rooms.SessionRoom(sessionID); ok {
		if err := that.Exit(ctx, sessionID); err != nil {
			return nil, fmt.Errorf("failed to leave previous room: %w", err)
		}
	}

	room := that.rooms.CreateRoom(that.game.MaxPlayers, that.game.MinPlayers, that.game.AllowedPunctuation)

	joined, err := room.Join(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to seat host: %w", err)
	}

	that.rooms.Bind(sessionID, room.Code())

	that.publisher.Publish(&entity.Broadcast{
		RoomCode: room.Code(),
		Snapshot: joined.Snapshot,
		Messages: []string{
			fmt.Sprintf("Room created. Share code: %s. Waiting to start (auto-start at %d).", room.Code(), room.Capacity()),
		},
		Recipients: joined.Recipients,
	})

	log.Info("created room", "room", room.Code())

	return &RoomTicket{
		RoomCode: room.Code(),
		Player:   joined.Player,
		Capacity: room.Capacity(),
		Started:  joined.Snapshot.Started,
	}, nil
}

// JoinRoom seats the caller in the room with the given code. Joining the
// room the session already occupies is idempotent; joining a different one
// first leaves the previous room. Filling the last seat auto-starts.
func (that *GameManager) JoinRoom(ctx context.Context, sessionID, code string) (*RoomTicket, error) {
	log := that.logger.With("method", "JoinRoom")

	code = registry.Normalize(code)

	room, err := that.rooms.Room(code)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve room: %w", err)
	}

	if prev, ok := that.rooms.SessionRoom(sessionID); ok {
		if prev == code {
			if num := room.PlayerNumber(sessionID); num > 0 {
				return &RoomTicket{RoomCode: code, Player: num, Capacity: room.Capacity(), Started: room.Started()}, nil
			}

			// Stale mapping: clean and join fresh.
			that.rooms.Unbind(sessionID)
		} else if err = that.Exit(ctx, sessionID); err != nil {
			return nil, fmt.Errorf("failed to leave previous room: %w", err)
		}
	}

	joined, err := room.Join(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to join room: %w", err)
	}

	that.rooms.Bind(sessionID, code)

	messages := []string{
		fmt.Sprintf("Player %d joined (%d/%d).", joined.Player, joined.Snapshot.Joined, room.Capacity()),
	}
	if joined.AutoStarted {
		messages = append(messages, fmt.Sprintf("Auto-started at %d players.", room.Capacity()))
	}

	that.publisher.Publish(&entity.Broadcast{
		RoomCode:   code,
		Snapshot:   joined.Snapshot,
		Messages:   messages,
		Recipients: joined.Recipients,
	})

	log.Info("session joined room", "room", code, "player", joined.Player)

	return &RoomTicket{
		RoomCode: code,
		Player:   joined.Player,
		Capacity: room.Capacity(),
		Started:  joined.Snapshot.Started,
	}, nil
}

// StartGame starts a room manually on behalf of the host.
func (that *GameManager) StartGame(_ context.Context, sessionID, code string) error {
	log := that.logger.With("method", "StartGame")

	room, err := that.rooms.Room(code)
	if err != nil {
		return fmt.Errorf("failed to resolve room: %w", err)
	}

	started, err := room.Start(sessionID)
	if err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}

	if !started.StartedNow {
		return nil
	}

	that.publisher.Publish(&entity.Broadcast{
		RoomCode:   room.Code(),
		Snapshot:   started.Snapshot,
		Messages:   []string{"Game started by host."},
		Recipients: started.Recipients,
	})

	log.Info("game started", "room", room.Code())

	return nil
}

// AddCharacter applies one character from the caller and broadcasts the
// outcome. A completed unused word is also recorded on the leaderboard,
// off the room lock and off the caller's path.
func (that *GameManager) AddCharacter(_ context.Context, sessionID, code, char string) error {
	log := that.logger.With("method", "AddCharacter")

	room, err := that.rooms.Room(code)
	if err != nil {
		return fmt.Errorf("failed to resolve room: %w", err)
	}

	move, err := room.ApplyCharacter(that.dict, sessionID, char)
	if err != nil {
		return fmt.Errorf("failed to apply character: %w", err)
	}

	var messages []string

	switch {
	case move.AlreadyUsed:
		messages = append(messages, fmt.Sprintf("%q has already been used. No points this round.", move.CompletedWord))
	case move.CompletedWord != "":
		plural := ""
		if move.Points != 1 {
			plural = "s"
		}

		messages = append(messages, fmt.Sprintf(
			"*** Player %d completed %q! (%d Point%s) *** Definition: %s",
			move.Player, move.CompletedWord, move.Points, plural, that.dict.Definition(move.CompletedWord),
		))
	}

	if move.RoundOver {
		messages = append(messages, fmt.Sprintf("%q is not a valid prefix. Round over. Sequence reset.", move.Candidate))
	}

	that.publisher.Publish(&entity.Broadcast{
		RoomCode:   room.Code(),
		Snapshot:   move.Snapshot,
		LastPlayer: move.Player,
		LastChar:   move.Char,
		Messages:   messages,
		Recipients: move.Recipients,
	})

	if move.Points > 0 {
		that.recordCompletion(move.CompletedWord, move.Points)
	}

	log.Info("character processed", "room", room.Code(), "player", move.Player, "char", move.Char)

	return nil
}

// Exit removes the caller from whatever room it occupies. Unknown or stale
// sessions are a no-op.
func (that *GameManager) Exit(_ context.Context, sessionID string) error {
	log := that.logger.With("method", "Exit")

	code, ok := that.rooms.SessionRoom(sessionID)
	if !ok {
		return nil
	}

	that.rooms.Unbind(sessionID)

	room, err := that.rooms.Room(code)
	if err != nil {
		return nil //nolint:nilerr // mapping outlived the room, nothing to do
	}

	departed, err := room.RemoveSession(sessionID)
	if err != nil {
		return nil //nolint:nilerr // already removed by a concurrent path
	}

	var message string

	switch {
	case departed.WasStarted:
		message = fmt.Sprintf("Player %d left. Game ended.", departed.Player)
	case departed.Player == 1:
		message = "Host left. Room closed."
	default:
		message = fmt.Sprintf("Player %d left.", departed.Player)
	}

	if departed.Closed {
		that.rooms.Destroy(code, departed.Recipients)
		log.Info("room removed", "room", code)
	}

	that.publisher.Publish(&entity.Broadcast{
		RoomCode:   code,
		Snapshot:   departed.Snapshot,
		Messages:   []string{message},
		Recipients: departed.Recipients,
	})

	log.Info("session left room", "room", code, "player", departed.Player)

	return nil
}

func (that *GameManager) recordCompletion(word string, points int) {
	if that.completions == nil {
		return
	}

	log := that.logger.With("method", "recordCompletion")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), completionRecordTimeout)
		defer cancel()

		if err := that.completions.RecordCompletion(ctx, word, points); err != nil {
			log.Error("failed to record completion", "word", word, "error", err)
		}
	}()
}
