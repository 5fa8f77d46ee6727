package session

import (
	"context"
	"sync"
	"time"

	"github.com/dom/league-draft-engine/internal/domain"
	"github.com/dom/league-draft-engine/internal/draft"
	"github.com/dom/league-draft-engine/internal/oracle"
	"github.com/dom/league-draft-engine/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session hosts one live draft: the engine state, the per-turn countdown,
// the recommendation coordinator and the prediction trigger, plus the
// clients watching or playing it.
//
// All mutations run on the session's Run goroutine; the mutex only guards
// cross-goroutine reads (snapshots and broadcasts from oracle callbacks).
type Session struct {
	id        uuid.UUID
	shortCode string

	clients    map[*Client]bool
	blueClient *Client
	redClient  *Client
	spectators map[*Client]bool
	blueReady  bool
	redReady   bool

	state     *draft.State
	countdown *draft.Countdown
	timerGen  int

	coordinator  *Coordinator
	predictor    *PredictionTrigger
	emitter      emitter
	championRepo repository.ChampionRepository
	logger       *zap.SugaredLogger

	// Channels
	join            chan *Client
	leave           chan *Client
	ready           chan *ReadyRequest
	startDraft      chan *Client
	applyAction     chan *ApplyActionRequest
	retractSlot     chan *RetractSlotRequest
	resetDraft      chan *Client
	pauseDraft      chan *Client
	resumeDraft     chan *Client
	retryPrediction chan *Client
	syncState       chan *Client
	ticks           chan int
	stop            chan struct{}
	done            chan struct{}
	tickerStop      chan struct{}

	mu sync.RWMutex
}

type ReadyRequest struct {
	Client *Client
	Ready  bool
}

type ApplyActionRequest struct {
	Client     *Client
	ChampionID string
}

type RetractSlotRequest struct {
	Client  *Client
	Payload RetractSlotPayload
}

// Config carries everything a session needs beyond its identity.
type Config struct {
	Sequence      draft.Sequence
	EloBracket    domain.EloBracket
	Patch         string
	TimerDuration int // seconds per turn
	OracleTimeout time.Duration
	Provider      oracle.Provider
	ChampionRepo  repository.ChampionRepository
	Logger        *zap.SugaredLogger
}

func New(id uuid.UUID, shortCode string, cfg Config) *Session {
	if cfg.TimerDuration <= 0 {
		cfg.TimerDuration = draft.DefaultTurnSeconds
	}
	if len(cfg.Sequence) == 0 {
		cfg.Sequence = draft.StandardSequence()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}

	s := &Session{
		id:           id,
		shortCode:    shortCode,
		clients:      make(map[*Client]bool),
		spectators:   make(map[*Client]bool),
		state:        draft.NewState(cfg.Sequence, cfg.EloBracket, cfg.Patch),
		countdown:    draft.NewCountdown(cfg.TimerDuration),
		championRepo: cfg.ChampionRepo,
		logger:       cfg.Logger,

		join:            make(chan *Client),
		leave:           make(chan *Client),
		ready:           make(chan *ReadyRequest),
		startDraft:      make(chan *Client),
		applyAction:     make(chan *ApplyActionRequest),
		retractSlot:     make(chan *RetractSlotRequest),
		resetDraft:      make(chan *Client),
		pauseDraft:      make(chan *Client),
		resumeDraft:     make(chan *Client),
		retryPrediction: make(chan *Client),
		syncState:       make(chan *Client),
		ticks:           make(chan int, 1),
		stop:            make(chan struct{}),
		done:            make(chan struct{}),
	}

	s.emitter = &broadcastEmitter{session: s}
	s.coordinator = NewCoordinator(cfg.Provider, cfg.OracleTimeout, cfg.Logger,
		s.deliverRecommendations, s.deliverRecommendationError)
	s.predictor = NewPredictionTrigger(cfg.Provider, cfg.OracleTimeout, cfg.Logger,
		s.deliverPrediction, s.deliverPredictionError)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// ShortCode returns the join code of the session.
func (s *Session) ShortCode() string {
	return s.shortCode
}

func (s *Session) Run() {
	defer close(s.done)

	for {
		select {
		case <-s.stop:
			s.stopTicker()
			s.coordinator.Invalidate()
			return

		case client := <-s.join:
			s.handleJoin(client)

		case client := <-s.leave:
			s.handleLeave(client)

		case req := <-s.ready:
			s.handleReady(req)

		case client := <-s.startDraft:
			s.handleStartDraft(client)

		case req := <-s.applyAction:
			s.handleApplyAction(req)

		case req := <-s.retractSlot:
			s.handleRetractSlot(req)

		case client := <-s.resetDraft:
			s.handleResetDraft(client)

		case client := <-s.pauseDraft:
			s.handlePauseDraft(client)

		case client := <-s.resumeDraft:
			s.handleResumeDraft(client)

		case client := <-s.retryPrediction:
			s.handleRetryPrediction(client)

		case client := <-s.syncState:
			s.sendStateSync(client)

		case gen := <-s.ticks:
			s.handleTick(gen)
		}
	}
}

// Stop shuts the session down. Safe to call once.
func (s *Session) Stop() {
	close(s.stop)
}

// Wait blocks until Run has exited.
func (s *Session) Wait() {
	<-s.done
}

// eachClient calls fn for every connected client. Used by the emitter.
func (s *Session) eachClient(fn func(*Client)) {
	s.mu.RLock()
	targets := make([]*Client, 0, len(s.clients))
	for client := range s.clients {
		targets = append(targets, client)
	}
	s.mu.RUnlock()

	for _, client := range targets {
		fn(client)
	}
}

// --- join / leave ---

func (s *Session) handleJoin(client *Client) {
	s.mu.Lock()
	s.clients[client] = true

	switch client.side {
	case string(domain.SideBlue):
		if s.blueClient != nil && s.blueClient != client {
			client.side = string(domain.SideSpectator)
			s.spectators[client] = true
			s.mu.Unlock()
			client.sendError("SIDE_TAKEN", "Blue side is already taken")
			s.afterJoin(client)
			return
		}
		s.blueClient = client
	case string(domain.SideRed):
		if s.redClient != nil && s.redClient != client {
			client.side = string(domain.SideSpectator)
			s.spectators[client] = true
			s.mu.Unlock()
			client.sendError("SIDE_TAKEN", "Red side is already taken")
			s.afterJoin(client)
			return
		}
		s.redClient = client
	default:
		client.side = string(domain.SideSpectator)
		s.spectators[client] = true
	}
	s.mu.Unlock()

	s.afterJoin(client)
}

func (s *Session) afterJoin(client *Client) {
	s.sendStateSync(client)
	s.emitter.PlayerUpdate(client.side, &PlayerInfo{
		ClientID: client.id.String(),
		Ready:    client.ready,
	}, "joined")
}

func (s *Session) handleLeave(client *Client) {
	s.mu.Lock()
	delete(s.clients, client)
	delete(s.spectators, client)
	if s.blueClient == client {
		s.blueClient = nil
		s.blueReady = false
	}
	if s.redClient == client {
		s.redClient = nil
		s.redReady = false
	}
	s.mu.Unlock()

	s.emitter.PlayerUpdate(client.side, nil, "left")
}

// Empty reports whether no clients remain connected.
func (s *Session) Empty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients) == 0
}

// --- draft lifecycle ---

func (s *Session) handleReady(req *ReadyRequest) {
	s.mu.Lock()
	if s.state.Started() {
		s.mu.Unlock()
		return
	}
	switch req.Client.side {
	case string(domain.SideBlue):
		s.blueReady = req.Ready
	case string(domain.SideRed):
		s.redReady = req.Ready
	default:
		s.mu.Unlock()
		return
	}
	req.Client.ready = req.Ready
	s.mu.Unlock()

	s.emitter.PlayerUpdate(req.Client.side, &PlayerInfo{
		ClientID: req.Client.id.String(),
		Ready:    req.Ready,
	}, "ready_changed")
}

func (s *Session) handleStartDraft(client *Client) {
	s.mu.Lock()
	if s.state.Started() {
		s.mu.Unlock()
		client.sendError("ALREADY_STARTED", "Draft already started")
		return
	}
	if s.blueClient == nil || s.redClient == nil {
		s.mu.Unlock()
		client.sendError("MISSING_PLAYERS", "Both sides must have a player")
		return
	}
	if !s.blueReady || !s.redReady {
		s.mu.Unlock()
		client.sendError("NOT_READY", "Both players must be ready")
		return
	}

	s.state.Start()
	s.countdown.Start()
	s.timerGen++
	gen := s.timerGen
	turn, _ := s.state.CurrentTurn()
	info := turnInfo(turn, 0, s.countdown.Remaining(), s.countdown.State())
	snap := s.state.Snapshot()
	s.mu.Unlock()

	s.startTicker(gen)
	s.predictor.Reset()
	s.emitter.DraftStarted(info)
	s.coordinator.TurnChanged(0, partialRequest(snap, turn))
}

func (s *Session) handleApplyAction(req *ApplyActionRequest) {
	s.mu.Lock()
	turn, ok := s.state.CurrentTurn()
	if s.state.Started() && ok && !s.isTurnOwner(req.Client, turn) {
		s.mu.Unlock()
		req.Client.sendError("NOT_YOUR_TURN", "It's not your turn")
		return
	}
	s.mu.Unlock()

	// Catalogue lookup happens outside the state lock; the draft engine
	// only sees ids that exist.
	if err := s.championExists(req.ChampionID); err != nil {
		req.Client.sendError(errorCode(err), "Champion not in catalogue")
		return
	}

	s.mu.Lock()
	index := s.state.Index()
	if err := s.state.ApplyAction(req.ChampionID); err != nil {
		s.mu.Unlock()
		req.Client.sendError(errorCode(err), err.Error())
		return
	}

	// The countdown reset shares the critical section with the state
	// mutation so no tick can observe the previous turn's remaining time
	// once the action is in.
	s.countdown.Start()
	s.timerGen++
	gen := s.timerGen

	applied := ActionAppliedPayload{
		Index:      index,
		Side:       string(turn.Side),
		Action:     string(turn.Action),
		Role:       string(turn.Role),
		ChampionID: req.ChampionID,
	}
	next, running := s.state.CurrentTurn()
	nextIndex := s.state.Index()
	var info TurnInfo
	if running {
		info = turnInfo(next, nextIndex, s.countdown.Remaining(), s.countdown.State())
	} else {
		s.countdown.Stop()
	}
	snap := s.state.Snapshot()
	s.mu.Unlock()

	s.emitter.ActionApplied(applied)

	if !running {
		s.finishDraft(snap)
		return
	}
	// A tick queued before the action carries the old generation and is
	// dropped; the fresh ticker counts the new turn from the top.
	s.startTicker(gen)
	s.emitter.TurnChanged(info)
	s.coordinator.TurnChanged(nextIndex, partialRequest(snap, next))
}

// finishDraft handles the last-turn to none transition: the timer stops,
// any in-flight recommendation is invalidated and the prediction fires
// exactly once.
func (s *Session) finishDraft(snap draft.Snapshot) {
	s.stopTicker()
	s.coordinator.Invalidate()
	s.emitter.DraftCompleted(snap)

	req, err := fullRequest(snap)
	if err != nil {
		// Retraction can leave holes in a finished sequence; a prediction
		// over an incomplete composition would be garbage.
		s.logger.Warnw("skipping prediction for incomplete draft", "error", err)
		s.emitter.PredictionError(err.Error())
		return
	}
	s.predictor.DraftCompleted(req)
}

func (s *Session) handleRetractSlot(req *RetractSlotRequest) {
	side := domain.Side(req.Payload.Side)

	s.mu.Lock()
	if req.Client.side != req.Payload.Side {
		s.mu.Unlock()
		req.Client.sendError("NOT_YOUR_SLOT", "A side can only retract its own slots")
		return
	}

	var championID string
	var err error
	switch req.Payload.SlotType {
	case string(domain.ActionTypePick):
		role := domain.Role(req.Payload.Role)
		championID = s.state.Composition(side)[role]
		err = s.state.RetractPick(side, role)
	case string(domain.ActionTypeBan):
		if bans := s.state.Bans(side); req.Payload.BanIndex >= 0 && req.Payload.BanIndex < len(bans) {
			championID = bans[req.Payload.BanIndex]
		}
		err = s.state.RetractBan(side, req.Payload.BanIndex)
	default:
		err = domain.ErrInvalidRole
	}
	s.mu.Unlock()

	if err != nil {
		req.Client.sendError(errorCode(err), err.Error())
		return
	}

	s.emitter.SlotRetracted(SlotRetractedPayload{
		Side:       req.Payload.Side,
		SlotType:   req.Payload.SlotType,
		Role:       req.Payload.Role,
		BanIndex:   req.Payload.BanIndex,
		ChampionID: championID,
	})
}

func (s *Session) handleResetDraft(client *Client) {
	if !client.seated() {
		client.sendError("SPECTATOR", "Spectators cannot reset the draft")
		return
	}

	s.mu.Lock()
	s.state.Reset()
	s.countdown.Stop()
	s.timerGen++
	s.blueReady = false
	s.redReady = false
	if s.blueClient != nil {
		s.blueClient.ready = false
	}
	if s.redClient != nil {
		s.redClient.ready = false
	}
	s.mu.Unlock()

	s.stopTicker()
	s.coordinator.Invalidate()
	s.predictor.Reset()
	s.emitter.DraftReset()
}

func (s *Session) handlePauseDraft(client *Client) {
	if !client.seated() {
		client.sendError("SPECTATOR", "Spectators cannot pause the draft")
		return
	}

	s.mu.Lock()
	if !s.countdown.Running() {
		s.mu.Unlock()
		client.sendError("NOT_RUNNING", "No running timer to pause")
		return
	}
	s.countdown.Pause()
	remaining := s.countdown.Remaining()
	s.mu.Unlock()

	s.emitter.DraftPaused(client.side, remaining)
}

func (s *Session) handleResumeDraft(client *Client) {
	if !client.seated() {
		client.sendError("SPECTATOR", "Spectators cannot resume the draft")
		return
	}

	s.mu.Lock()
	if s.countdown.State() != draft.CountdownPaused {
		s.mu.Unlock()
		client.sendError("NOT_PAUSED", "Draft is not paused")
		return
	}
	s.countdown.Resume()
	remaining := s.countdown.Remaining()
	s.mu.Unlock()

	s.emitter.DraftResumed(client.side, remaining)
}

func (s *Session) handleRetryPrediction(client *Client) {
	s.mu.RLock()
	complete := s.state.Complete()
	snap := s.state.Snapshot()
	s.mu.RUnlock()

	if !complete {
		client.sendError("DRAFT_NOT_COMPLETE", "Prediction requires a complete draft")
		return
	}
	req, err := fullRequest(snap)
	if err != nil {
		client.sendError("DRAFT_NOT_COMPLETE", err.Error())
		return
	}
	s.predictor.Retry(req)
}

// --- timer ---

func (s *Session) startTicker(gen int) {
	s.stopTicker()
	stopC := make(chan struct{})
	s.tickerStop = stopC

	go func() {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-stopC:
				return
			case <-ticker.C:
				select {
				case s.ticks <- gen:
				case <-stopC:
					return
				case <-s.stop:
					return
				}
			}
		}
	}()
}

func (s *Session) stopTicker() {
	if s.tickerStop != nil {
		close(s.tickerStop)
		s.tickerStop = nil
	}
}

// handleTick consumes one time unit. A tick generated before an action was
// applied carries a stale generation and is dropped, so a reset always
// wins over a concurrently expiring tick.
func (s *Session) handleTick(gen int) {
	s.mu.Lock()
	if gen != s.timerGen || !s.countdown.Running() {
		s.mu.Unlock()
		return
	}
	expired := s.countdown.Tick()
	remaining := s.countdown.Remaining()
	index := s.state.Index()
	turn, ok := s.state.CurrentTurn()
	s.mu.Unlock()

	s.emitter.TimerTick(remaining)
	if expired && ok {
		// Expiry is observable but advancing the turn stays an explicit
		// action; a ranked mode forcing a pick would hook in here.
		s.emitter.TimerExpired(index, string(turn.Side))
	}
}

// --- oracle callbacks ---

func (s *Session) deliverRecommendations(turnIndex int, recs []oracle.Recommendation) {
	s.mu.RLock()
	turn, ok := s.state.CurrentTurn()
	current := s.state.Index()
	s.mu.RUnlock()

	// The coordinator already suppressed stale responses; this re-check
	// closes the window between its tag compare and this delivery.
	if !ok || current != turnIndex {
		return
	}
	s.emitter.Recommendations(RecommendationsPayload{
		TurnIndex:       turnIndex,
		Side:            string(turn.Side),
		Recommendations: recs,
	})
}

func (s *Session) deliverRecommendationError(turnIndex int, err error) {
	s.emitter.RecommendationsError(turnIndex, err.Error())
}

func (s *Session) deliverPrediction(pred *oracle.Prediction) {
	s.emitter.Prediction(*pred)
}

func (s *Session) deliverPredictionError(err error) {
	s.emitter.PredictionError(err.Error())
}

// --- helpers ---

func (s *Session) isTurnOwner(client *Client, turn draft.Turn) bool {
	switch turn.Side {
	case domain.SideBlue:
		return client == s.blueClient
	case domain.SideRed:
		return client == s.redClient
	}
	return false
}

func (c *Client) seated() bool {
	return c.side == string(domain.SideBlue) || c.side == string(domain.SideRed)
}

func (s *Session) championExists(championID string) error {
	if s.championRepo == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	champ, err := s.championRepo.GetByID(ctx, championID)
	if err != nil || champ == nil {
		return domain.ErrChampionUnknown
	}
	return nil
}

func (s *Session) sendStateSync(client *Client) {
	s.mu.RLock()
	snap := s.state.Snapshot()
	var turn *TurnInfo
	if t, ok := s.state.CurrentTurn(); ok {
		info := turnInfo(t, snap.Index, s.countdown.Remaining(), s.countdown.State())
		turn = &info
	}

	status := "waiting"
	if snap.Started {
		status = "in_progress"
	}
	if snap.Complete {
		status = "completed"
	}

	var bluePlayer, redPlayer *PlayerInfo
	if s.blueClient != nil {
		bluePlayer = &PlayerInfo{ClientID: s.blueClient.id.String(), Ready: s.blueReady}
	}
	if s.redClient != nil {
		redPlayer = &PlayerInfo{ClientID: s.redClient.id.String(), Ready: s.redReady}
	}
	spectators := len(s.spectators)
	duration := s.countdown.Remaining()
	s.mu.RUnlock()

	msg, _ := NewMessage(MessageTypeStateSync, StateSyncPayload{
		Session: SessionInfo{
			ID:            s.id.String(),
			ShortCode:     s.shortCode,
			Status:        status,
			TimerDuration: duration,
		},
		Draft:          snap,
		Turn:           turn,
		Players:        PlayersInfo{Blue: bluePlayer, Red: redPlayer},
		YourSide:       client.side,
		SpectatorCount: spectators,
	})
	client.Send(msg)
}

// Snapshot returns a read-only copy of the draft for the HTTP API.
func (s *Session) Snapshot() draft.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Snapshot()
}

// partialRequest describes the draft as of the given turn for a
// recommendation fetch.
func partialRequest(snap draft.Snapshot, turn draft.Turn) oracle.DraftRequest {
	return oracle.DraftRequest{
		EloBracket:      snap.EloBracket,
		Patch:           snap.Patch,
		Side:            turn.Side,
		Action:          turn.Action,
		Role:            turn.Role,
		BlueComposition: snap.BlueComposition,
		RedComposition:  snap.RedComposition,
		BlueBans:        snap.BlueBans,
		RedBans:         snap.RedBans,
	}
}

// fullRequest builds a prediction request, re-validating completeness
// even though the cursor should guarantee it.
func fullRequest(snap draft.Snapshot) (oracle.DraftRequest, error) {
	for _, comp := range []map[domain.Role]string{snap.BlueComposition, snap.RedComposition} {
		for _, role := range domain.AllRoles {
			if comp[role] == "" {
				return oracle.DraftRequest{}, domain.ErrSlotEmpty
			}
		}
	}
	return oracle.DraftRequest{
		EloBracket:      snap.EloBracket,
		Patch:           snap.Patch,
		BlueComposition: snap.BlueComposition,
		RedComposition:  snap.RedComposition,
		BlueBans:        snap.BlueBans,
		RedBans:         snap.RedBans,
	}, nil
}
