package session

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512 * 1024
)

// Client is one websocket connection attached to the hub, and once joined,
// to a single session as a side or a spectator.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	session *Session
	id      uuid.UUID
	side    string // "blue", "red", "spectator"
	ready   bool
	logger  *zap.SugaredLogger
}

func NewClient(hub *Hub, conn *websocket.Conn, logger *zap.SugaredLogger) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		id:     uuid.New(),
		logger: logger,
	}
}

// ID returns the connection's identifier.
func (c *Client) ID() uuid.UUID {
	return c.id
}

func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warnw("websocket read failed", "client", c.id, "error", err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.Debugw("dropping malformed message", "client", c.id, "error", err)
			continue
		}

		c.handleMessage(&msg)
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(msg *Message) {
	switch msg.Type {
	case MessageTypeJoinSession:
		var payload JoinSessionPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			c.sendError("INVALID_PAYLOAD", "Invalid join session payload")
			return
		}
		c.hub.joinSession <- &JoinSessionRequest{
			Client:    c,
			SessionID: payload.SessionID,
			Side:      payload.Side,
		}

	case MessageTypeReady:
		var payload ReadyPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			c.sendError("INVALID_PAYLOAD", "Invalid ready payload")
			return
		}
		if c.session != nil {
			c.session.ready <- &ReadyRequest{Client: c, Ready: payload.Ready}
		}

	case MessageTypeStartDraft:
		if c.session != nil {
			c.session.startDraft <- c
		}

	case MessageTypeApplyAction:
		var payload ApplyActionPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			c.sendError("INVALID_PAYLOAD", "Invalid apply action payload")
			return
		}
		if c.session != nil {
			c.session.applyAction <- &ApplyActionRequest{Client: c, ChampionID: payload.ChampionID}
		}

	case MessageTypeRetractSlot:
		var payload RetractSlotPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			c.sendError("INVALID_PAYLOAD", "Invalid retract payload")
			return
		}
		if c.session != nil {
			c.session.retractSlot <- &RetractSlotRequest{Client: c, Payload: payload}
		}

	case MessageTypeResetDraft:
		if c.session != nil {
			c.session.resetDraft <- c
		}

	case MessageTypePauseDraft:
		if c.session != nil {
			c.session.pauseDraft <- c
		}

	case MessageTypeResumeDraft:
		if c.session != nil {
			c.session.resumeDraft <- c
		}

	case MessageTypeRetryPrediction:
		if c.session != nil {
			c.session.retryPrediction <- c
		}

	case MessageTypeSyncState:
		if c.session != nil {
			c.session.syncState <- c
		}

	default:
		c.sendError("UNKNOWN_MESSAGE", "Unknown message type")
	}
}

func (c *Client) Send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Errorw("failed to marshal message", "error", err)
		return
	}

	select {
	case c.send <- data:
	default:
		// Buffer full, skip
	}
}

func (c *Client) sendError(code, message string) {
	msg, _ := NewMessage(MessageTypeError, ErrorPayload{Code: code, Message: message})
	c.Send(msg)
}

// Close closes the client's send channel.
func (c *Client) Close() {
	defer func() {
		recover() // Channel may already be closed
	}()
	close(c.send)
}
