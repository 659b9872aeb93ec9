/*
Package api
File: handlers.go
Description:
    Contains the HTTP handlers for the REST API.
    These functions decode JSON requests, call the game engine, and return
    JSON responses.

    Key Responsibilities:
    - Input Validation (Is the JSON valid?)
    - Calling the engine action under the session lock
    - Mapping engine failures to HTTP status codes
*/

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/everforgeworks/age-of-sail/internal/game"
)

// Request DTOs. These define exactly what we expect the client to send.

type TradeRequest struct {
	Good     game.GoodID `json:"good"`
	Quantity int         `json:"quantity"`
}

type TravelRequest struct {
	Destination game.CityID `json:"destination"`
}

type BuyShipRequest struct {
	Ship game.ShipID `json:"ship"`
}

type BuyUpgradeRequest struct {
	Upgrade game.UpgradeID `json:"upgrade"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`   // Machine-readable reason, e.g. "insufficient_funds"
	Message string `json:"message"` // Human-readable detail
}

// MarketRow is one good as seen from the player's current port.
type MarketRow struct {
	Good        game.GoodID      `json:"good"`
	Icon        string           `json:"icon"`
	Price       int              `json:"price"`
	Stock       int              `json:"stock"`
	MaxStock    int              `json:"max_stock"`
	StockStatus game.StockStatus `json:"stock_status"`
	Held        int              `json:"held"`
	AverageCost int              `json:"average_cost,omitempty"`
	Profit      int              `json:"profit"` // Unrealized profit if sold here
	MaxBuy      int              `json:"max_buy"`
}

// MarketResponse is the local market of the current port.
type MarketResponse struct {
	City   game.CityID  `json:"city"`
	Goods  []MarketRow  `json:"goods"`
	Rumors []game.Rumor `json:"rumors"`
}

// ActionResponse wraps an action's receipt with the new state.
type ActionResponse struct {
	Result any           `json:"result,omitempty"`
	State  game.Snapshot `json:"state"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusFor maps an engine failure to an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, game.ErrInvalidDestination),
		errors.Is(err, game.ErrInvalidQuantity):
		return http.StatusBadRequest
	case game.Reason(err) != "":
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	reason := game.Reason(err)
	if reason == "" {
		reason = "internal"
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "path", r.URL.Path, "error", err)
	} else {
		s.log.Debug("action rejected", "path", r.URL.Path, "reason", reason, "error", err)
	}
	writeJSON(w, status, ErrorResponse{Error: reason, Message: err.Error()})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: msg})
}

// decode reads a JSON body into v, answering 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		badRequest(w, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// act runs an engine action under the write lock and answers with its
// result and the new state.
func (s *Server) act(w http.ResponseWriter, r *http.Request, fn func() (any, error)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := fn()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.published()
	writeJSON(w, http.StatusOK, ActionResponse{Result: result, State: s.game.Snapshot()})
}

// --- Queries ---

// handleGetState returns the full session snapshot.
func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	writeJSON(w, http.StatusOK, s.game.Snapshot())
}

// handleGetMarket returns the current port's prices, stock and the player's
// position in each good.
func (s *Server) handleGetMarket(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.game.Snapshot()
	u := s.game.Universe()
	stock := s.game.CurrentCityStock()
	prices := snap.Prices[snap.City]

	resp := MarketResponse{City: snap.City, Goods: make([]MarketRow, 0, len(u.Goods)), Rumors: snap.Rumors}
	for _, g := range u.Goods {
		maxStock := s.game.MaxStockFor(g.Key)
		resp.Goods = append(resp.Goods, MarketRow{
			Good:        g.Key,
			Icon:        g.Icon,
			Price:       prices[g.Key],
			Stock:       stock[g.Key],
			MaxStock:    maxStock,
			StockStatus: game.StatusOf(stock[g.Key], maxStock),
			Held:        snap.Inventory[g.Key],
			AverageCost: snap.AvgCost[g.Key],
			Profit:      game.ProfitEstimate(g.Key, snap.Inventory, snap.AvgCost, prices),
			MaxBuy:      s.game.MaxBuyQuantity(g.Key),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetQuests(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	writeJSON(w, http.StatusOK, struct {
		game.QuestBoard
		PendingRewards game.Reward `json:"pending_rewards"`
	}{s.game.Quests(), s.game.PendingRewards()})
}

func (s *Server) handleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	writeJSON(w, http.StatusOK, s.game.Recommendations())
}

// handleGetRoutes quotes every lane out of the current port.
func (s *Server) handleGetRoutes(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	writeJSON(w, http.StatusOK, s.game.RoutePreviews())
}

// handleRoutePreview quotes one voyage without taking it.
func (s *Server) handleRoutePreview(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, err := s.game.RoutePreview(game.CityID(chi.URLParam(r, "city")))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleGetUniverse returns the reference data. It never changes, so no lock.
func (s *Server) handleGetUniverse(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.game.Universe())
}

// handleGetLogs returns the captain's log, oldest first. ?limit= caps it
// (default 50).
func (s *Server) handleGetLogs(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			badRequest(w, "limit must be a positive integer")
			return
		}
		limit = n
	}

	if s.history != nil {
		entries, err := s.history.RecentEntries(limit)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		lines := make([]string, len(entries))
		for i, e := range entries {
			lines[i] = e.String()
		}
		writeJSON(w, http.StatusOK, lines)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	lines := s.game.Snapshot().Logs
	if len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	writeJSON(w, http.StatusOK, lines)
}

// --- Actions ---

func (s *Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	var req TradeRequest
	if !decode(w, r, &req) {
		return
	}
	s.act(w, r, func() (any, error) { return s.game.BuyGood(req.Good, req.Quantity) })
}

func (s *Server) handleSell(w http.ResponseWriter, r *http.Request) {
	var req TradeRequest
	if !decode(w, r, &req) {
		return
	}
	s.act(w, r, func() (any, error) { return s.game.SellGood(req.Good, req.Quantity) })
}

func (s *Server) handleTravel(w http.ResponseWriter, r *http.Request) {
	var req TravelRequest
	if !decode(w, r, &req) {
		return
	}
	s.act(w, r, func() (any, error) {
		v, err := s.game.Travel(req.Destination)
		if err != nil {
			return nil, err
		}
		s.log.Info("voyage", "from", v.From, "to", v.To, "cost", v.Cost, "hazard", v.Hazard)
		return v, nil
	})
}

func (s *Server) handleRepair(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, func() (any, error) {
		cost, err := s.game.RepairShip()
		return map[string]int{"cost": cost}, err
	})
}

func (s *Server) handleHireCrew(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, func() (any, error) {
		cost, err := s.game.HireCrew()
		return map[string]int{"cost": cost}, err
	})
}

func (s *Server) handleBuyShip(w http.ResponseWriter, r *http.Request) {
	var req BuyShipRequest
	if !decode(w, r, &req) {
		return
	}
	s.act(w, r, func() (any, error) { return nil, s.game.BuyShip(req.Ship) })
}

func (s *Server) handleBuyUpgrade(w http.ResponseWriter, r *http.Request) {
	var req BuyUpgradeRequest
	if !decode(w, r, &req) {
		return
	}
	s.act(w, r, func() (any, error) { return nil, s.game.BuyUpgrade(req.Upgrade) })
}

func (s *Server) handleRefreshQuests(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, func() (any, error) { return s.game.RefreshQuests() })
}

func (s *Server) handleClaimQuest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.act(w, r, func() (any, error) { return s.game.ClaimQuestReward(id) })
}

func (s *Server) handleAbandonQuest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.act(w, r, func() (any, error) { return nil, s.game.AbandonQuest(id) })
}
