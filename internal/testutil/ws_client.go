package testutil

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/dom/league-draft-engine/internal/session"
	gorillaWS "github.com/gorilla/websocket"
)

// WSClient is a test WebSocket client
type WSClient struct {
	t        *testing.T
	conn     *gorillaWS.Conn
	messages chan *session.Message
	errors   chan error
	done     chan struct{}
	mu       sync.Mutex
}

// NewWSClient creates a new WebSocket test client
func NewWSClient(t *testing.T, url string) *WSClient {
	t.Helper()

	dialer := gorillaWS.DefaultDialer
	dialer.HandshakeTimeout = 5 * time.Second

	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to connect to websocket: %v", err)
	}

	client := &WSClient{
		t:        t,
		conn:     conn,
		messages: make(chan *session.Message, 100),
		errors:   make(chan error, 10),
		done:     make(chan struct{}),
	}

	go client.readPump()

	t.Cleanup(func() {
		client.Close()
	})

	return client
}

// readPump reads messages from the WebSocket connection
func (c *WSClient) readPump() {
	defer close(c.messages)
	for {
		select {
		case <-c.done:
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				select {
				case <-c.done:
					return
				case c.errors <- err:
				}
				return
			}

			var msg session.Message
			if err := json.Unmarshal(data, &msg); err != nil {
				c.errors <- err
				continue
			}

			select {
			case c.messages <- &msg:
			case <-c.done:
				return
			}
		}
	}
}

// Close closes the WebSocket connection gracefully
func (c *WSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.done:
		return
	default:
		close(c.done)
		c.conn.WriteMessage(gorillaWS.CloseMessage, gorillaWS.FormatCloseMessage(gorillaWS.CloseNormalClosure, ""))
		c.conn.Close()
	}
}

func (c *WSClient) send(msgType session.MessageType, payload interface{}) {
	c.t.Helper()

	msg, err := session.NewMessage(msgType, payload)
	if err != nil {
		c.t.Fatalf("failed to build message: %v", err)
	}

	data, err := json.Marshal(msg)
	if err != nil {
		c.t.Fatalf("failed to marshal message: %v", err)
	}

	c.mu.Lock()
	err = c.conn.WriteMessage(gorillaWS.TextMessage, data)
	c.mu.Unlock()

	if err != nil {
		c.t.Fatalf("failed to send message: %v", err)
	}
}

// JoinSession joins a draft session on the given side
func (c *WSClient) JoinSession(sessionID, side string) {
	c.send(session.MessageTypeJoinSession, session.JoinSessionPayload{
		SessionID: sessionID,
		Side:      side,
	})
}

// Ready marks the player ready or not ready
func (c *WSClient) Ready(ready bool) {
	c.send(session.MessageTypeReady, session.ReadyPayload{Ready: ready})
}

// StartDraft requests the draft to start
func (c *WSClient) StartDraft() {
	c.send(session.MessageTypeStartDraft, struct{}{})
}

// ApplyAction commits a champion for the current turn
func (c *WSClient) ApplyAction(championID string) {
	c.send(session.MessageTypeApplyAction, session.ApplyActionPayload{
		ChampionID: championID,
	})
}

// RetractPick clears a committed pick slot
func (c *WSClient) RetractPick(side, role string) {
	c.send(session.MessageTypeRetractSlot, session.RetractSlotPayload{
		Side:     side,
		SlotType: "pick",
		Role:     role,
	})
}

// RetractBan clears a committed ban slot
func (c *WSClient) RetractBan(side string, banIndex int) {
	c.send(session.MessageTypeRetractSlot, session.RetractSlotPayload{
		Side:     side,
		SlotType: "ban",
		BanIndex: banIndex,
	})
}

// SyncState requests a full state sync
func (c *WSClient) SyncState() {
	c.send(session.MessageTypeSyncState, struct{}{})
}

// RetryPrediction re-requests the win probability for a completed draft
func (c *WSClient) RetryPrediction() {
	c.send(session.MessageTypeRetryPrediction, struct{}{})
}

// ExpectMessage waits for a message of the given type, skipping others
func (c *WSClient) ExpectMessage(msgType session.MessageType, timeout time.Duration) *session.Message {
	c.t.Helper()

	deadline := time.After(timeout)
	for {
		select {
		case msg, ok := <-c.messages:
			if !ok {
				c.t.Fatalf("connection closed while waiting for %s", msgType)
				return nil
			}
			if msg.Type == msgType {
				return msg
			}
		case err := <-c.errors:
			c.t.Fatalf("websocket error while waiting for %s: %v", msgType, err)
			return nil
		case <-deadline:
			c.t.Fatalf("timed out waiting for %s", msgType)
			return nil
		}
	}
}

// ExpectStateSync waits for and decodes a STATE_SYNC message
func (c *WSClient) ExpectStateSync(timeout time.Duration) *session.StateSyncPayload {
	c.t.Helper()

	msg := c.ExpectMessage(session.MessageTypeStateSync, timeout)
	var payload session.StateSyncPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		c.t.Fatalf("failed to decode state sync: %v", err)
	}
	return &payload
}

// ExpectActionApplied waits for and decodes an ACTION_APPLIED message
func (c *WSClient) ExpectActionApplied(timeout time.Duration) *session.ActionAppliedPayload {
	c.t.Helper()

	msg := c.ExpectMessage(session.MessageTypeActionApplied, timeout)
	var payload session.ActionAppliedPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		c.t.Fatalf("failed to decode action applied: %v", err)
	}
	return &payload
}

// ExpectDraftCompleted waits for and decodes a DRAFT_COMPLETED message
func (c *WSClient) ExpectDraftCompleted(timeout time.Duration) *session.DraftCompletedPayload {
	c.t.Helper()

	msg := c.ExpectMessage(session.MessageTypeDraftCompleted, timeout)
	var payload session.DraftCompletedPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		c.t.Fatalf("failed to decode draft completed: %v", err)
	}
	return &payload
}

// ExpectErrorWithCode waits for an ERROR message carrying the given code
func (c *WSClient) ExpectErrorWithCode(code string, timeout time.Duration) *session.ErrorPayload {
	c.t.Helper()

	deadline := time.After(timeout)
	for {
		select {
		case msg, ok := <-c.messages:
			if !ok {
				c.t.Fatalf("connection closed while waiting for error %s", code)
				return nil
			}
			if msg.Type != session.MessageTypeError {
				continue
			}
			var payload session.ErrorPayload
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				c.t.Fatalf("failed to decode error payload: %v", err)
			}
			if payload.Code == code {
				return &payload
			}
		case <-deadline:
			c.t.Fatalf("timed out waiting for error %s", code)
			return nil
		}
	}
}

// ExpectNoMessage asserts nothing arrives within the window
func (c *WSClient) ExpectNoMessage(timeout time.Duration) {
	c.t.Helper()

	select {
	case msg, ok := <-c.messages:
		if ok {
			c.t.Fatalf("expected no message, got %s", msg.Type)
		}
	case <-time.After(timeout):
	}
}

// DrainMessages discards everything buffered so far
func (c *WSClient) DrainMessages() {
	for {
		select {
		case <-c.messages:
		default:
			return
		}
	}
}
