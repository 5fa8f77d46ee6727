package session

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/dom/league-draft-engine/internal/draft"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const messageTimeout = 2 * time.Second

// newTestClient builds a client without a websocket connection; tests
// read its send buffer directly instead of running the pumps.
func newTestClient(side string) *Client {
	return &Client{
		send:   make(chan []byte, 256),
		id:     uuid.New(),
		side:   side,
		logger: zap.NewNop().Sugar(),
	}
}

func newTestSession(t *testing.T, p *countingProvider) *Session {
	t.Helper()
	s := New(uuid.New(), "TEST01", Config{
		Provider:      p,
		TimerDuration: 300,
		OracleTimeout: time.Second,
		Logger:        zap.NewNop().Sugar(),
	})
	go s.Run()
	t.Cleanup(func() {
		s.Stop()
		s.Wait()
	})
	return s
}

// expectMessage reads from the client's buffer until a message of the
// wanted type arrives, skipping everything else.
func expectMessage(t *testing.T, c *Client, want MessageType) json.RawMessage {
	t.Helper()
	deadline := time.After(messageTimeout)
	for {
		select {
		case data := <-c.send:
			var msg Message
			require.NoError(t, json.Unmarshal(data, &msg))
			if msg.Type == want {
				return msg.Payload
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", want)
			return nil
		}
	}
}

func expectError(t *testing.T, c *Client, code string) {
	t.Helper()
	var payload ErrorPayload
	raw := expectMessage(t, c, MessageTypeError)
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, code, payload.Code)
}

func joinSeated(t *testing.T, s *Session, side string) *Client {
	t.Helper()
	c := newTestClient(side)
	s.join <- c
	var sync StateSyncPayload
	require.NoError(t, json.Unmarshal(expectMessage(t, c, MessageTypeStateSync), &sync))
	require.Equal(t, side, sync.YourSide)
	return c
}

func startDraft(t *testing.T, s *Session, blue, red *Client) {
	t.Helper()
	s.ready <- &ReadyRequest{Client: blue, Ready: true}
	s.ready <- &ReadyRequest{Client: red, Ready: true}
	s.startDraft <- blue
	expectMessage(t, blue, MessageTypeDraftStarted)
	expectMessage(t, red, MessageTypeDraftStarted)
}

// ownerFor maps a turn to the client seated on its side.
func ownerFor(turn draft.Turn, blue, red *Client) *Client {
	if turn.Side == "blue" {
		return blue
	}
	return red
}

func TestSession_JoinAssignsSides(t *testing.T) {
	s := newTestSession(t, &countingProvider{})

	blue := joinSeated(t, s, "blue")
	_ = blue

	// A second claim on blue demotes the newcomer to spectator.
	late := newTestClient("blue")
	s.join <- late
	expectError(t, late, "SIDE_TAKEN")
	var sync StateSyncPayload
	require.NoError(t, json.Unmarshal(expectMessage(t, late, MessageTypeStateSync), &sync))
	assert.Equal(t, "spectator", sync.YourSide)
}

func TestSession_StartRequiresSeatedReadyPlayers(t *testing.T) {
	s := newTestSession(t, &countingProvider{})
	blue := joinSeated(t, s, "blue")

	s.startDraft <- blue
	expectError(t, blue, "MISSING_PLAYERS")

	red := joinSeated(t, s, "red")
	s.startDraft <- blue
	expectError(t, blue, "NOT_READY")

	s.ready <- &ReadyRequest{Client: blue, Ready: true}
	s.ready <- &ReadyRequest{Client: red, Ready: true}
	s.startDraft <- red
	expectMessage(t, blue, MessageTypeDraftStarted)
}

func TestSession_RejectsOutOfTurnAction(t *testing.T) {
	s := newTestSession(t, &countingProvider{})
	blue := joinSeated(t, s, "blue")
	red := joinSeated(t, s, "red")
	startDraft(t, s, blue, red)

	// Turn 0 belongs to blue.
	s.applyAction <- &ApplyActionRequest{Client: red, ChampionID: "aatrox"}
	expectError(t, red, "NOT_YOUR_TURN")

	s.applyAction <- &ApplyActionRequest{Client: blue, ChampionID: "aatrox"}
	var applied ActionAppliedPayload
	require.NoError(t, json.Unmarshal(expectMessage(t, blue, MessageTypeActionApplied), &applied))
	assert.Equal(t, 0, applied.Index)
	assert.Equal(t, "blue", applied.Side)
	assert.Equal(t, "ban", applied.Action)
	assert.Equal(t, "aatrox", applied.ChampionID)
}

func TestSession_RejectsDuplicateChampion(t *testing.T) {
	s := newTestSession(t, &countingProvider{})
	blue := joinSeated(t, s, "blue")
	red := joinSeated(t, s, "red")
	startDraft(t, s, blue, red)

	s.applyAction <- &ApplyActionRequest{Client: blue, ChampionID: "aatrox"}
	expectMessage(t, blue, MessageTypeActionApplied)

	s.applyAction <- &ApplyActionRequest{Client: red, ChampionID: "aatrox"}
	expectError(t, red, "CHAMPION_UNAVAILABLE")
}

func TestSession_FullDraftPredictsOnce(t *testing.T) {
	p := &countingProvider{}
	s := newTestSession(t, p)
	blue := joinSeated(t, s, "blue")
	red := joinSeated(t, s, "red")
	startDraft(t, s, blue, red)

	seq := draft.StandardSequence()
	for i, turn := range seq {
		owner := ownerFor(turn, blue, red)
		s.applyAction <- &ApplyActionRequest{Client: owner, ChampionID: fmt.Sprintf("champ-%d", i)}
		var applied ActionAppliedPayload
		require.NoError(t, json.Unmarshal(expectMessage(t, owner, MessageTypeActionApplied), &applied))
		require.Equal(t, i, applied.Index)
		require.Equal(t, string(turn.Side), applied.Side)
		require.Equal(t, string(turn.Action), applied.Action)
	}

	var completed DraftCompletedPayload
	require.NoError(t, json.Unmarshal(expectMessage(t, blue, MessageTypeDraftCompleted), &completed))
	assert.True(t, completed.Draft.Complete)
	assert.Len(t, completed.Draft.BlueBans, 5)
	assert.Len(t, completed.Draft.RedBans, 5)

	expectMessage(t, red, MessageTypePrediction)

	// Further actions bounce off the completed draft.
	s.applyAction <- &ApplyActionRequest{Client: blue, ChampionID: "leftover"}
	expectError(t, blue, "DRAFT_COMPLETE")

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, p.calls())

	// An explicit retry re-runs the prediction without touching the draft.
	s.retryPrediction <- blue
	expectMessage(t, blue, MessageTypePrediction)
	assert.Equal(t, 2, p.calls())
}

func TestSession_RetractFreesChampion(t *testing.T) {
	s := newTestSession(t, &countingProvider{})
	blue := joinSeated(t, s, "blue")
	red := joinSeated(t, s, "red")
	startDraft(t, s, blue, red)

	s.applyAction <- &ApplyActionRequest{Client: blue, ChampionID: "aatrox"}
	expectMessage(t, blue, MessageTypeActionApplied)

	// Only the owning side may retract.
	s.retractSlot <- &RetractSlotRequest{Client: red, Payload: RetractSlotPayload{
		Side: "blue", SlotType: "ban", BanIndex: 0,
	}}
	expectError(t, red, "NOT_YOUR_SLOT")

	s.retractSlot <- &RetractSlotRequest{Client: blue, Payload: RetractSlotPayload{
		Side: "blue", SlotType: "ban", BanIndex: 0,
	}}
	var retracted SlotRetractedPayload
	require.NoError(t, json.Unmarshal(expectMessage(t, blue, MessageTypeSlotRetracted), &retracted))
	assert.Equal(t, "aatrox", retracted.ChampionID)

	// The freed champion is available to the other side; the cursor did
	// not move back, so red bans at turn 1.
	s.applyAction <- &ApplyActionRequest{Client: red, ChampionID: "aatrox"}
	var applied ActionAppliedPayload
	require.NoError(t, json.Unmarshal(expectMessage(t, red, MessageTypeActionApplied), &applied))
	assert.Equal(t, 1, applied.Index)
	assert.Equal(t, "red", applied.Side)
}

func TestSession_PauseAndResume(t *testing.T) {
	s := newTestSession(t, &countingProvider{})
	blue := joinSeated(t, s, "blue")
	red := joinSeated(t, s, "red")
	startDraft(t, s, blue, red)

	spectator := newTestClient("spectator")
	s.join <- spectator
	expectMessage(t, spectator, MessageTypeStateSync)

	s.pauseDraft <- spectator
	expectError(t, spectator, "SPECTATOR")

	s.pauseDraft <- blue
	var paused DraftPausedPayload
	require.NoError(t, json.Unmarshal(expectMessage(t, red, MessageTypeDraftPaused), &paused))
	assert.Equal(t, "blue", paused.PausedBy)

	s.pauseDraft <- blue
	expectError(t, blue, "NOT_RUNNING")

	s.resumeDraft <- red
	expectMessage(t, blue, MessageTypeDraftResumed)
}

func TestSession_ResetClearsDraftAndReady(t *testing.T) {
	s := newTestSession(t, &countingProvider{})
	blue := joinSeated(t, s, "blue")
	red := joinSeated(t, s, "red")
	startDraft(t, s, blue, red)

	s.applyAction <- &ApplyActionRequest{Client: blue, ChampionID: "aatrox"}
	expectMessage(t, blue, MessageTypeActionApplied)

	s.resetDraft <- red
	expectMessage(t, blue, MessageTypeDraftReset)

	s.syncState <- blue
	var sync StateSyncPayload
	require.NoError(t, json.Unmarshal(expectMessage(t, blue, MessageTypeStateSync), &sync))
	assert.False(t, sync.Draft.Started)
	assert.Equal(t, 0, sync.Draft.Index)
	assert.Empty(t, sync.Draft.BlueBans)
	assert.Equal(t, "waiting", sync.Session.Status)
	require.NotNil(t, sync.Players.Blue)
	assert.False(t, sync.Players.Blue.Ready)
}

func TestSession_RetryPredictionRequiresCompleteDraft(t *testing.T) {
	s := newTestSession(t, &countingProvider{})
	blue := joinSeated(t, s, "blue")
	red := joinSeated(t, s, "red")
	startDraft(t, s, blue, red)

	s.retryPrediction <- blue
	expectError(t, blue, "DRAFT_NOT_COMPLETE")
}

func TestSession_LeaveFreesSeat(t *testing.T) {
	s := newTestSession(t, &countingProvider{})
	blue := joinSeated(t, s, "blue")

	s.leave <- blue
	require.Eventually(t, s.Empty, messageTimeout, 10*time.Millisecond)

	// Seat is open again.
	relict := newTestClient("blue")
	s.join <- relict
	var sync StateSyncPayload
	require.NoError(t, json.Unmarshal(expectMessage(t, relict, MessageTypeStateSync), &sync))
	assert.Equal(t, "blue", sync.YourSide)
}
