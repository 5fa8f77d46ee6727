package api

import (
	"net/http"

	"github.com/dom/league-draft-engine/internal/api/handlers"
	"github.com/dom/league-draft-engine/internal/api/middleware"
	"github.com/dom/league-draft-engine/internal/config"
	"github.com/dom/league-draft-engine/internal/service"
	"github.com/dom/league-draft-engine/internal/session"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func NewRouter(services *service.Services, hub *session.Hub, cfg *config.Config, logger *zap.SugaredLogger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	championHandler := handlers.NewChampionHandler(services.Champion)
	sessionHandler := handlers.NewSessionHandler(hub, cfg)
	wsHandler := handlers.NewWebSocketHandler(hub, logger)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Champion catalogue
		r.Route("/champions", func(r chi.Router) {
			r.Get("/", championHandler.GetAll)
			r.Get("/{id}", championHandler.Get)
			r.Post("/sync", championHandler.Sync) // Should be admin-only in production
		})

		// Draft sessions
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessionHandler.Create)
			r.Get("/{idOrCode}", sessionHandler.Get)
		})

		// WebSocket endpoint
		r.Get("/ws", wsHandler.Handle)
	})

	return r
}
