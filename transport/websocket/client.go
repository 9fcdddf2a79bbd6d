package websocket

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	sendBufferSize = 16
)

// client is one live connection. All writes go through the send channel and a
// single writePump goroutine, since the underlying connection does not allow
// concurrent writers. enqueue never blocks: a subscriber too slow to drain
// its buffer loses the update instead of holding up the room.
type client struct {
	id     string
	conn   *websocket.Conn
	logger *slog.Logger

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func newClient(id string, conn *websocket.Conn, logger *slog.Logger) *client {
	return &client{
		id:     id,
		conn:   conn,
		logger: logger.With("connection", id),
		send:   make(chan []byte, sendBufferSize),
	}
}

func (that *client) writePump() {
	defer func() {
		_ = that.conn.Close()
	}()

	for payload := range that.send {
		_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := that.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			that.logger.Debug("failed to write message", "error", err)
			return
		}
	}

	_ = that.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

func (that *client) enqueue(payload []byte) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return
	}

	select {
	case that.send <- payload:
	default:
		that.logger.Debug("send buffer full, dropping update")
	}
}

func (that *client) closeSend() {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return
	}

	that.closed = true
	close(that.send)
}
