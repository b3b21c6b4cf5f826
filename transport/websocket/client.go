package websocket

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 4096
	sendQueueSize  = 32
)

// client is one live connection with its opaque session handle and a
// buffered outbound queue drained by writePump.
type client struct {
	logger    *slog.Logger
	conn      *websocket.Conn
	sessionID string
	send      chan []byte
}

func newClient(logger *slog.Logger, conn *websocket.Conn, sessionID string) *client {
	return &client{
		logger:    logger.With("session", sessionID),
		conn:      conn,
		sessionID: sessionID,
		send:      make(chan []byte, sendQueueSize),
	}
}

// enqueue hands a marshaled message to the write pump without blocking the
// caller; a subscriber that cannot keep up loses messages, not the room.
func (that *client) enqueue(raw []byte) {
	select {
	case that.send <- raw:
	default:
		that.logger.Warn("dropping message for slow consumer")
	}
}

func (that *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = that.conn.Close()
	}()

	for {
		select {
		case raw, ok := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = that.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := that.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				that.logger.Debug("write failed, closing connection", "error", err)
				return
			}
		case <-ticker.C:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
