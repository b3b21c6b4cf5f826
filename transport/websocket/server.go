package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/spellchain/spellchain-backend/internal/usecase"
)

type gameUseCase interface {
	CreateRoom(ctx context.Context, sessionID string) (*usecase.RoomTicket, error)
	JoinRoom(ctx context.Context, sessionID, code string) (*usecase.RoomTicket, error)
	StartGame(ctx context.Context, sessionID, code string) error
	AddCharacter(ctx context.Context, sessionID, code, char string) error
	Exit(ctx context.Context, sessionID string) error
}

type Server struct {
	logger   *slog.Logger
	game     gameUseCase
	hub      *Hub
	upgrader websocket.Upgrader
	handlers map[string]func(ctx context.Context, c *client, msg *Message) error
}

func New(logger *slog.Logger, game gameUseCase, hub *Hub) *Server {
	server := &Server{
		logger: logger.With("component", "ws-server"),
		game:   game,
		hub:    hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
		handlers: make(map[string]func(context.Context, *client, *Message) error),
	}

	server.handlers[actionRoomCreate] = server.handleRoomCreate
	server.handlers[actionRoomJoin] = server.handleRoomJoin
	server.handlers[actionGameStart] = server.handleGameStart
	server.handlers[actionGameTurn] = server.handleGameTurn
	server.handlers[actionRoomLeave] = server.handleRoomLeave

	return server
}

// Start - starts the WebSocket server and blocks until it fails or the
// context is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveWS(ctx, w, r)
	})

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveWS upgrades the connection, assigns it an opaque session handle and
// pumps messages until the peer goes away. A dropped connection counts as an
// exit from whatever room the session occupied.
func (that *Server) serveWS(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveWS")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	c := newClient(that.logger, conn, uuid.NewString())
	that.hub.register(c)

	log = log.With("session", c.sessionID)
	log.Info("WebSocket connection established")

	go c.writePump()

	defer func() {
		that.hub.unregister(c.sessionID)
		close(c.send)

		if exitErr := that.game.Exit(ctx, c.sessionID); exitErr != nil {
			log.Error("failed to clean up session", "error", exitErr)
		}

		log.Info("WebSocket connection closed")
	}()

	that.readLoop(ctx, c)
}

func (that *Server) readLoop(ctx context.Context, c *client) {
	log := that.logger.With("method", "readLoop", "session", c.sessionID)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Error("unexpected close", "error", err)
			}
			return
		}

		var msg Message
		if err = json.Unmarshal(raw, &msg); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			that.sendError(c, fmt.Errorf("malformed message: %w", err))
			continue
		}

		handler, ok := that.handlers[msg.Action]
		if !ok {
			log.Error("unknown action", "action", msg.Action)
			that.sendError(c, fmt.Errorf("unknown action %q", msg.Action))
			continue
		}

		if err = handler(ctx, c, &msg); err != nil {
			log.Error("error processing message", "action", msg.Action, "error", err)
		}
	}
}
