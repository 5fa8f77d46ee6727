package session

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"sync"

	"github.com/dom/league-draft-engine/internal/config"
	"github.com/dom/league-draft-engine/internal/oracle"
	"github.com/dom/league-draft-engine/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Hub tracks live sessions and routes clients into them. Sessions are
// indexed both by id and by short code.
type Hub struct {
	sessions     map[string]*Session
	clients      map[*Client]bool
	register     chan *Client
	unregister   chan *Client
	joinSession  chan *JoinSessionRequest
	stop         chan struct{}
	done         chan struct{} // closed when Run() exits
	stopped      bool
	provider     oracle.Provider
	championRepo repository.ChampionRepository
	cfg          *config.Config
	logger       *zap.SugaredLogger
	mu           sync.RWMutex
}

type JoinSessionRequest struct {
	Client    *Client
	SessionID string
	Side      string
}

func NewHub(provider oracle.Provider, championRepo repository.ChampionRepository, cfg *config.Config, logger *zap.SugaredLogger) *Hub {
	return &Hub{
		sessions:     make(map[string]*Session),
		clients:      make(map[*Client]bool),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		joinSession:  make(chan *JoinSessionRequest),
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
		provider:     provider,
		championRepo: championRepo,
		cfg:          cfg,
		logger:       logger,
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true

			unique := make(map[*Session]bool)
			for _, s := range h.sessions {
				unique[s] = true
			}
			for s := range unique {
				s.Stop()
			}
			h.mu.Unlock()

			// Wait for session goroutines without holding the lock.
			for s := range unique {
				s.Wait()
			}

			h.mu.Lock()
			for client := range h.clients {
				client.Close()
			}
			h.clients = make(map[*Client]bool)
			h.sessions = make(map[string]*Session)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if !h.stopped {
				h.clients[client] = true
			}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if !h.stopped {
				if _, ok := h.clients[client]; ok {
					delete(h.clients, client)
					client.Close()

					if client.session != nil {
						client.session.leave <- client
					}
				}
			}
			h.mu.Unlock()

		case req := <-h.joinSession:
			h.mu.RLock()
			stopped := h.stopped
			h.mu.RUnlock()
			if !stopped {
				h.handleJoinSession(req)
			}
		}
	}
}

// Stop shuts down the hub and every session it hosts. Blocks until all
// session goroutines have exited.
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()

	close(h.stop)
	<-h.done
}

func (h *Hub) handleJoinSession(req *JoinSessionRequest) {
	h.mu.Lock()
	s, exists := h.sessions[req.SessionID]
	h.mu.Unlock()

	if !exists {
		req.Client.sendError("SESSION_NOT_FOUND", "Session does not exist")
		return
	}

	if req.Client.session != nil && req.Client.session != s {
		req.Client.session.leave <- req.Client
	}

	req.Client.side = req.Side
	req.Client.session = s
	s.join <- req.Client
}

// CreateSession registers a new draft session and starts its goroutine.
func (h *Hub) CreateSession(cfg Config) *Session {
	h.mu.Lock()
	defer h.mu.Unlock()

	if cfg.Provider == nil {
		cfg.Provider = h.provider
	}
	if cfg.ChampionRepo == nil {
		cfg.ChampionRepo = h.championRepo
	}
	if cfg.Logger == nil {
		cfg.Logger = h.logger
	}
	if cfg.TimerDuration <= 0 && h.cfg != nil {
		cfg.TimerDuration = h.cfg.DefaultTimerSeconds
	}
	if cfg.OracleTimeout <= 0 && h.cfg != nil {
		cfg.OracleTimeout = h.cfg.OracleTimeout
	}

	id := uuid.New()
	shortCode := generateShortCode()
	s := New(id, shortCode, cfg)
	h.sessions[id.String()] = s
	h.sessions[shortCode] = s

	go s.Run()

	h.logger.Infow("created session", "id", id, "code", shortCode)
	return s
}

// GetSession looks a session up by id or short code.
func (h *Hub) GetSession(key string) *Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.sessions[key]
}

// DeleteSession removes a stopped session from the index.
func (h *Hub) DeleteSession(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, s.id.String())
	delete(h.sessions, s.shortCode)
}

func generateShortCode() string {
	bytes := make([]byte, 3)
	rand.Read(bytes)
	return strings.ToUpper(hex.EncodeToString(bytes))
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister detaches a client, tolerating a hub mid-shutdown.
func (h *Hub) Unregister(client *Client) {
	h.mu.RLock()
	stopped := h.stopped
	h.mu.RUnlock()
	if stopped {
		return
	}

	select {
	case h.unregister <- client:
	default:
	}
}
