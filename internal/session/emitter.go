package session

import (
	"encoding/json"

	"github.com/dom/league-draft-engine/internal/draft"
	"github.com/dom/league-draft-engine/internal/oracle"
)

// emitter broadcasts session events to connected clients. It exists as an
// interface so the engine-facing session logic can be exercised in tests
// without websocket plumbing.
type emitter interface {
	DraftStarted(turn TurnInfo)
	TurnChanged(turn TurnInfo)
	ActionApplied(p ActionAppliedPayload)
	SlotRetracted(p SlotRetractedPayload)
	DraftReset()
	TimerTick(remaining int)
	TimerExpired(index int, side string)
	DraftPaused(pausedBy string, remaining int)
	DraftResumed(resumedBy string, remaining int)
	DraftCompleted(snap draft.Snapshot)
	Recommendations(p RecommendationsPayload)
	RecommendationsError(turnIndex int, msg string)
	Prediction(pred oracle.Prediction)
	PredictionError(msg string)
	PlayerUpdate(side string, player *PlayerInfo, action string)
}

// broadcastEmitter sends every event to all clients of one session.
type broadcastEmitter struct {
	session *Session
}

// Broadcast sends a message to all clients in the session. Safe to call
// with or without the session lock held; it only touches client send
// channels.
func (e *broadcastEmitter) broadcast(msg *Message) {
	data, _ := json.Marshal(msg)
	e.session.eachClient(func(client *Client) {
		e.trySend(client, data)
	})
}

// trySend attempts to send to a client, safely handling closed channels.
func (e *broadcastEmitter) trySend(client *Client, data []byte) {
	defer func() {
		if recover() != nil {
			// Channel closed, client is disconnecting - skip silently
		}
	}()

	select {
	case client.send <- data:
	default:
		// Buffer full, skip
	}
}

func (e *broadcastEmitter) emit(msgType MessageType, payload interface{}) {
	msg, _ := NewMessage(msgType, payload)
	e.broadcast(msg)
}

func (e *broadcastEmitter) DraftStarted(turn TurnInfo) {
	e.emit(MessageTypeDraftStarted, DraftStartedPayload{Turn: turn})
}

func (e *broadcastEmitter) TurnChanged(turn TurnInfo) {
	e.emit(MessageTypeTurnChanged, TurnChangedPayload{Turn: turn})
}

func (e *broadcastEmitter) ActionApplied(p ActionAppliedPayload) {
	e.emit(MessageTypeActionApplied, p)
}

func (e *broadcastEmitter) SlotRetracted(p SlotRetractedPayload) {
	e.emit(MessageTypeSlotRetracted, p)
}

func (e *broadcastEmitter) DraftReset() {
	e.emit(MessageTypeDraftReset, struct{}{})
}

func (e *broadcastEmitter) TimerTick(remaining int) {
	e.emit(MessageTypeTimerTick, TimerTickPayload{Remaining: remaining})
}

func (e *broadcastEmitter) TimerExpired(index int, side string) {
	e.emit(MessageTypeTimerExpired, TimerExpiredPayload{Index: index, Side: side})
}

func (e *broadcastEmitter) DraftPaused(pausedBy string, remaining int) {
	e.emit(MessageTypeDraftPaused, DraftPausedPayload{PausedBy: pausedBy, Remaining: remaining})
}

func (e *broadcastEmitter) DraftResumed(resumedBy string, remaining int) {
	e.emit(MessageTypeDraftResumed, DraftResumedPayload{ResumedBy: resumedBy, Remaining: remaining})
}

func (e *broadcastEmitter) DraftCompleted(snap draft.Snapshot) {
	e.emit(MessageTypeDraftCompleted, DraftCompletedPayload{Draft: snap})
}

func (e *broadcastEmitter) Recommendations(p RecommendationsPayload) {
	e.emit(MessageTypeRecommendations, p)
}

func (e *broadcastEmitter) RecommendationsError(turnIndex int, msg string) {
	e.emit(MessageTypeRecommendationsError, RecommendationsErrorPayload{TurnIndex: turnIndex, Message: msg})
}

func (e *broadcastEmitter) Prediction(pred oracle.Prediction) {
	e.emit(MessageTypePrediction, PredictionPayload{Prediction: pred})
}

func (e *broadcastEmitter) PredictionError(msg string) {
	e.emit(MessageTypePredictionError, PredictionErrorPayload{Message: msg})
}

func (e *broadcastEmitter) PlayerUpdate(side string, player *PlayerInfo, action string) {
	e.emit(MessageTypePlayerUpdate, PlayerUpdatePayload{Side: side, Player: player, Action: action})
}
