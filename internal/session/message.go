package session

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/dom/league-draft-engine/internal/domain"
	"github.com/dom/league-draft-engine/internal/draft"
	"github.com/dom/league-draft-engine/internal/oracle"
)

type MessageType string

const (
	// Client to Server
	MessageTypeJoinSession     MessageType = "JOIN_SESSION"
	MessageTypeReady           MessageType = "READY"
	MessageTypeStartDraft      MessageType = "START_DRAFT"
	MessageTypeApplyAction     MessageType = "APPLY_ACTION"
	MessageTypeRetractSlot     MessageType = "RETRACT_SLOT"
	MessageTypeResetDraft      MessageType = "RESET_DRAFT"
	MessageTypePauseDraft      MessageType = "PAUSE_DRAFT"
	MessageTypeResumeDraft     MessageType = "RESUME_DRAFT"
	MessageTypeRetryPrediction MessageType = "RETRY_PREDICTION"
	MessageTypeSyncState       MessageType = "SYNC_STATE"

	// Server to Client
	MessageTypeStateSync            MessageType = "STATE_SYNC"
	MessageTypePlayerUpdate         MessageType = "PLAYER_UPDATE"
	MessageTypeDraftStarted         MessageType = "DRAFT_STARTED"
	MessageTypeActionApplied        MessageType = "ACTION_APPLIED"
	MessageTypeTurnChanged          MessageType = "TURN_CHANGED"
	MessageTypeSlotRetracted        MessageType = "SLOT_RETRACTED"
	MessageTypeDraftReset           MessageType = "DRAFT_RESET"
	MessageTypeTimerTick            MessageType = "TIMER_TICK"
	MessageTypeTimerExpired         MessageType = "TIMER_EXPIRED"
	MessageTypeDraftPaused          MessageType = "DRAFT_PAUSED"
	MessageTypeDraftResumed         MessageType = "DRAFT_RESUMED"
	MessageTypeDraftCompleted       MessageType = "DRAFT_COMPLETED"
	MessageTypeRecommendations      MessageType = "RECOMMENDATIONS"
	MessageTypeRecommendationsError MessageType = "RECOMMENDATIONS_ERROR"
	MessageTypePrediction           MessageType = "PREDICTION"
	MessageTypePredictionError      MessageType = "PREDICTION_ERROR"
	MessageTypeError                MessageType = "ERROR"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		Payload:   payloadBytes,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// Client to Server payloads

type JoinSessionPayload struct {
	SessionID string `json:"sessionId"`
	Side      string `json:"side"`
}

type ReadyPayload struct {
	Ready bool `json:"ready"`
}

type ApplyActionPayload struct {
	ChampionID string `json:"championId"`
}

// RetractSlotPayload names a slot out of band: picks by role, bans by
// index within the side's ban list.
type RetractSlotPayload struct {
	Side     string `json:"side"`
	SlotType string `json:"slotType"` // "ban" or "pick"
	Role     string `json:"role,omitempty"`
	BanIndex int    `json:"banIndex,omitempty"`
}

// Server to Client payloads

type StateSyncPayload struct {
	Session        SessionInfo    `json:"session"`
	Draft          draft.Snapshot `json:"draft"`
	Turn           *TurnInfo      `json:"turn"`
	Players        PlayersInfo    `json:"players"`
	YourSide       string         `json:"yourSide"`
	SpectatorCount int            `json:"spectatorCount"`
}

type SessionInfo struct {
	ID            string `json:"id"`
	ShortCode     string `json:"shortCode"`
	Status        string `json:"status"`
	TimerDuration int    `json:"timerDuration"`
}

type TurnInfo struct {
	Index      int    `json:"index"`
	Side       string `json:"side"`
	Action     string `json:"action"`
	Role       string `json:"role,omitempty"`
	Remaining  int    `json:"remaining"`
	TimerState string `json:"timerState"`
}

type PlayersInfo struct {
	Blue *PlayerInfo `json:"blue"`
	Red  *PlayerInfo `json:"red"`
}

type PlayerInfo struct {
	ClientID string `json:"clientId"`
	Ready    bool   `json:"ready"`
}

type PlayerUpdatePayload struct {
	Side   string      `json:"side"`
	Player *PlayerInfo `json:"player"`
	Action string      `json:"action"` // "joined", "left", "ready_changed"
}

type DraftStartedPayload struct {
	Turn TurnInfo `json:"turn"`
}

type ActionAppliedPayload struct {
	Index      int    `json:"index"`
	Side       string `json:"side"`
	Action     string `json:"action"`
	Role       string `json:"role,omitempty"`
	ChampionID string `json:"championId"`
}

type TurnChangedPayload struct {
	Turn TurnInfo `json:"turn"`
}

type SlotRetractedPayload struct {
	Side       string `json:"side"`
	SlotType   string `json:"slotType"`
	Role       string `json:"role,omitempty"`
	BanIndex   int    `json:"banIndex,omitempty"`
	ChampionID string `json:"championId"`
}

type TimerTickPayload struct {
	Remaining int `json:"remaining"`
}

type TimerExpiredPayload struct {
	Index int    `json:"index"`
	Side  string `json:"side"`
}

type DraftPausedPayload struct {
	PausedBy  string `json:"pausedBy"`
	Remaining int    `json:"remaining"`
}

type DraftResumedPayload struct {
	ResumedBy string `json:"resumedBy"`
	Remaining int    `json:"remaining"`
}

type DraftCompletedPayload struct {
	Draft draft.Snapshot `json:"draft"`
}

type RecommendationsPayload struct {
	TurnIndex       int                     `json:"turnIndex"`
	Side            string                  `json:"side"`
	Recommendations []oracle.Recommendation `json:"recommendations"`
}

type RecommendationsErrorPayload struct {
	TurnIndex int    `json:"turnIndex"`
	Message   string `json:"message"`
}

type PredictionPayload struct {
	Prediction oracle.Prediction `json:"prediction"`
}

type PredictionErrorPayload struct {
	Message string `json:"message"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func turnInfo(t draft.Turn, index, remaining int, timerState draft.CountdownState) TurnInfo {
	return TurnInfo{
		Index:      index,
		Side:       string(t.Side),
		Action:     string(t.Action),
		Role:       string(t.Role),
		Remaining:  remaining,
		TimerState: string(timerState),
	}
}

// errorCode maps engine errors onto wire codes.
func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrDraftNotStarted):
		return "DRAFT_NOT_STARTED"
	case errors.Is(err, domain.ErrDraftComplete):
		return "DRAFT_COMPLETE"
	case errors.Is(err, domain.ErrChampionUnavailable):
		return "CHAMPION_UNAVAILABLE"
	case errors.Is(err, domain.ErrChampionUnknown):
		return "CHAMPION_UNKNOWN"
	case errors.Is(err, domain.ErrBanListFull):
		return "BAN_LIST_FULL"
	case errors.Is(err, domain.ErrSlotEmpty):
		return "SLOT_EMPTY"
	case errors.Is(err, domain.ErrSlotOutOfRange):
		return "SLOT_OUT_OF_RANGE"
	case errors.Is(err, domain.ErrInvalidSide):
		return "INVALID_SIDE"
	case errors.Is(err, domain.ErrInvalidRole):
		return "INVALID_ROLE"
	default:
		return "INTERNAL"
	}
}
