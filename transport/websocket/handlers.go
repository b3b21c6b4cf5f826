package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spellchain/spellchain-backend/internal/apperror"
	"github.com/spellchain/spellchain-backend/internal/usecase"
)

func (that *Server) handleRoomCreate(ctx context.Context, c *client, _ *Message) error {
	ticket, err := that.game.CreateRoom(ctx, c.sessionID)
	if err != nil {
		that.sendError(c, err)
		return fmt.Errorf("failed to create room: %w", err)
	}

	return that.sendTicket(c, ticket)
}

func (that *Server) handleRoomJoin(ctx context.Context, c *client, msg *Message) error {
	var payload JoinRoomPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		that.sendError(c, fmt.Errorf("malformed payload: %w", err))
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	ticket, err := that.game.JoinRoom(ctx, c.sessionID, payload.RoomCode)
	if err != nil {
		that.sendError(c, err)
		return fmt.Errorf("failed to join room: %w", err)
	}

	return that.sendTicket(c, ticket)
}

func (that *Server) handleGameStart(ctx context.Context, c *client, msg *Message) error {
	var payload StartGamePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		that.sendError(c, fmt.Errorf("malformed payload: %w", err))
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if err := that.game.StartGame(ctx, c.sessionID, payload.RoomCode); err != nil {
		that.sendError(c, err)
		return fmt.Errorf("failed to start game: %w", err)
	}

	return nil
}

func (that *Server) handleGameTurn(ctx context.Context, c *client, msg *Message) error {
	var payload TurnPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		that.sendError(c, fmt.Errorf("malformed payload: %w", err))
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if err := that.game.AddCharacter(ctx, c.sessionID, payload.RoomCode, payload.Char); err != nil {
		that.sendError(c, err)
		return fmt.Errorf("failed to add character: %w", err)
	}

	return nil
}

func (that *Server) handleRoomLeave(ctx context.Context, c *client, _ *Message) error {
	if err := that.game.Exit(ctx, c.sessionID); err != nil {
		that.sendError(c, err)
		return fmt.Errorf("failed to leave room: %w", err)
	}

	return nil
}

func (that *Server) sendTicket(c *client, ticket *usecase.RoomTicket) error {
	raw, err := marshalMessage(actionRoomCreated, RoomCreatedPayload{
		RoomCode:     ticket.RoomCode,
		PlayerNumber: ticket.Player,
		Capacity:     ticket.Capacity,
		Started:      ticket.Started,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal reply: %w", err)
	}

	c.enqueue(raw)

	return nil
}

// sendError reports a failed command to the calling connection only; errors
// are never broadcast and never change room state.
func (that *Server) sendError(c *client, err error) {
	raw, marshalErr := marshalMessage(actionError, ErrorPayload{
		Kind:    apperror.Kind(err),
		Message: err.Error(),
	})
	if marshalErr != nil {
		that.logger.Error("failed to marshal error reply", "error", marshalErr)
		return
	}

	c.enqueue(raw)
}
