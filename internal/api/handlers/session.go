package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dom/league-draft-engine/internal/config"
	"github.com/dom/league-draft-engine/internal/domain"
	"github.com/dom/league-draft-engine/internal/draft"
	"github.com/dom/league-draft-engine/internal/session"
	"github.com/go-chi/chi/v5"
)

type SessionHandler struct {
	hub *session.Hub
	cfg *config.Config
}

func NewSessionHandler(hub *session.Hub, cfg *config.Config) *SessionHandler {
	return &SessionHandler{hub: hub, cfg: cfg}
}

type CreateSessionRequest struct {
	EloBracket    string `json:"eloBracket"`
	Patch         string `json:"patch"`
	TimerDuration int    `json:"timerDuration"` // seconds per turn
}

type SessionResponse struct {
	ID        string         `json:"id"`
	ShortCode string         `json:"shortCode"`
	Draft     draft.Snapshot `json:"draft"`
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if r.Body != nil {
		// An empty body means all defaults.
		json.NewDecoder(r.Body).Decode(&req)
	}

	bracket := domain.EloBracket(req.EloBracket)
	if req.EloBracket == "" {
		bracket = domain.EloBracket(h.cfg.DefaultEloBracket)
	}
	if !bracket.IsValid() {
		http.Error(w, "Invalid elo bracket", http.StatusBadRequest)
		return
	}

	patch := req.Patch
	if patch == "" {
		patch = h.cfg.DefaultPatch
	}

	s := h.hub.CreateSession(session.Config{
		EloBracket:    bracket,
		Patch:         patch,
		TimerDuration: req.TimerDuration,
	})

	resp := SessionResponse{
		ID:        s.ID().String(),
		ShortCode: s.ShortCode(),
		Draft:     s.Snapshot(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	idOrCode := chi.URLParam(r, "idOrCode")

	s := h.hub.GetSession(idOrCode)
	if s == nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	resp := SessionResponse{
		ID:        s.ID().String(),
		ShortCode: s.ShortCode(),
		Draft:     s.Snapshot(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
