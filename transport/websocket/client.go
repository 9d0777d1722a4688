package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 4096

	sendBufferSize = 64
)

type client struct {
	server *Server
	conn   *websocket.Conn
	send   chan []byte
}

func newClient(server *Server, conn *websocket.Conn) *client {
	return &client{
		server: server,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
	}
}

// readPump dispatches incoming messages until the peer goes away.
func (that *client) readPump(ctx context.Context) {
	log := that.server.logger.With("method", "readPump")

	defer func() {
		that.server.unregister(that)
		that.conn.Close()
	}()

	that.conn.SetReadLimit(maxMessageSize)
	_ = that.conn.SetReadDeadline(time.Now().Add(pongWait))
	that.conn.SetPongHandler(func(string) error {
		return that.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := that.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("unexpected close", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			that.server.sendErrorResponse(that, actionError, errMalformedMessage)
			continue
		}

		handler, ok := that.server.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			that.server.sendErrorResponse(that, message.Action, errUnknownAction)
			continue
		}

		if err = handler(ctx, that, &message); err != nil {
			log.Warn("failed to process message", "action", message.Action, "error", err)
			that.server.sendErrorResponse(that, message.Action, err)
		}
	}
}

// writePump is the only writer of conn.
func (that *client) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		that.conn.Close()
	}()

	for {
		select {
		case data, ok := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = that.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := that.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
