/*
Package api
File: server.go
Description:
    Wires one game session to HTTP.

    The engine is single-threaded, so every handler takes the session lock:
    queries share a read lock, actions hold the write lock for their whole
    duration. Engine notifications reach websocket clients through the Hub.
*/

package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/everforgeworks/age-of-sail/internal/game"
)

// History serves log lines older than the in-state ring.
type History interface {
	RecentEntries(limit int) ([]game.LogEntry, error)
}

// Server serves a single game session.
type Server struct {
	mu      sync.RWMutex // Guards game; held for the whole of each handler
	game    *game.Game
	hub     *Hub
	history History
	log     *slog.Logger
}

// NewServer wraps a game. The game's Sink should include hub so engine
// events reach websocket clients.
func NewServer(g *game.Game, hub *Hub, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{game: g, hub: hub, log: logger}
}

// SetHistory enables the full log endpoint. Without it /api/logs serves
// only the lines kept in the game state.
func (s *Server) SetHistory(h History) { s.history = h }

// Routes builds the HTTP router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		// Queries
		r.Get("/state", s.handleGetState)
		r.Get("/market", s.handleGetMarket)
		r.Get("/quests", s.handleGetQuests)
		r.Get("/recommendations", s.handleGetRecommendations)
		r.Get("/routes", s.handleGetRoutes)
		r.Get("/routes/{city}", s.handleRoutePreview)
		r.Get("/universe", s.handleGetUniverse)
		r.Get("/logs", s.handleGetLogs)

		// Actions
		r.Post("/buy", s.handleBuy)
		r.Post("/sell", s.handleSell)
		r.Post("/travel", s.handleTravel)
		r.Post("/repair", s.handleRepair)
		r.Post("/crew/hire", s.handleHireCrew)
		r.Post("/ships/buy", s.handleBuyShip)
		r.Post("/upgrades/buy", s.handleBuyUpgrade)
		r.Post("/quests/refresh", s.handleRefreshQuests)
		r.Post("/quests/{id}/claim", s.handleClaimQuest)
		r.Post("/quests/{id}/abandon", s.handleAbandonQuest)
	})

	r.Get("/ws", s.handleWs)
	return r
}

// corsMiddleware lets a browser client on another origin talk to the server.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleWs(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.NotFound(w, r)
		return
	}
	// Actions publish under the write lock, so the welcome snapshot and the
	// join are ordered against every state broadcast.
	ServeWs(s.hub, w, r, s.mu.RLocker(), func() ([]byte, error) {
		return json.Marshal(Message{Type: MsgWelcome, Payload: s.game.Snapshot(), Sender: "system"})
	})
}

// published broadcasts the new state after a successful action.
// Caller must hold s.mu.
func (s *Server) published() {
	if s.hub != nil {
		s.hub.Publish(MsgState, s.game.Snapshot())
	}
}
