package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/everforgeworks/age-of-sail/internal/game"
)

// halfRand makes every draw 0.5: no price drift and no hazards on safe lanes.
type halfRand struct{}

func (halfRand) Float64() float64 { return 0.5 }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	var sink game.Sink
	if hub != nil {
		sink = hub
	}
	g, err := game.New(game.DefaultUniverse(), game.Options{
		Rand:         halfRand{},
		Sink:         sink,
		StablePrices: true,
	})
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	srv := httptest.NewServer(NewServer(g, hub, quietLogger()).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	resp, err := http.Post(srv.URL+path, "application/json", &buf)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, srv *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func TestGetState(t *testing.T) {
	srv := newTestServer(t, nil)
	resp := get(t, srv, "/api/state")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	s := decodeBody[game.Snapshot](t, resp)
	if s.Gold != 7500 || s.City != "리스본" || s.TotalAssets != 7500 {
		t.Fatalf("unexpected state gold=%d city=%s assets=%d", s.Gold, s.City, s.TotalAssets)
	}
}

func TestBuyAndMarket(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := post(t, srv, "/api/buy", TradeRequest{Good: "와인", Quantity: 5})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	out := decodeBody[struct {
		Result game.Trade    `json:"result"`
		State  game.Snapshot `json:"state"`
	}](t, resp)
	if out.Result.Total != 1050 || out.State.Gold != 7500-1050 {
		t.Fatalf("unexpected trade %+v gold %d", out.Result, out.State.Gold)
	}

	market := decodeBody[MarketResponse](t, get(t, srv, "/api/market"))
	if market.City != "리스본" || len(market.Goods) != 7 {
		t.Fatalf("unexpected market %+v", market)
	}
	for _, row := range market.Goods {
		if row.Good != "와인" {
			continue
		}
		if row.Price != 210 || row.Held != 5 || row.AverageCost != 210 || row.Stock != 75 {
			t.Fatalf("unexpected wine row %+v", row)
		}
		return
	}
	t.Fatalf("wine missing from market")
}

func TestErrorStatuses(t *testing.T) {
	srv := newTestServer(t, nil)
	tests := []struct {
		name   string
		path   string
		body   any
		status int
		reason string
	}{
		{"unknown good", "/api/buy", TradeRequest{Good: "차", Quantity: 1}, http.StatusNotFound, "not_found"},
		{"zero quantity", "/api/buy", TradeRequest{Good: "와인", Quantity: 0}, http.StatusBadRequest, "invalid_quantity"},
		{"more than stocked", "/api/buy", TradeRequest{Good: "와인", Quantity: 1000}, http.StatusConflict, "insufficient_stock"},
		{"sell what is not held", "/api/sell", TradeRequest{Good: "와인", Quantity: 1}, http.StatusConflict, "insufficient_goods"},
		{"ship too expensive", "/api/ships/buy", BuyShipRequest{Ship: "캐랙"}, http.StatusPaymentRequired, "insufficient_funds"},
		{"unconnected port", "/api/travel", TravelRequest{Destination: "인도"}, http.StatusBadRequest, "invalid_destination"},
		{"unknown port", "/api/travel", TravelRequest{Destination: "아틀란티스"}, http.StatusNotFound, "invalid_destination"},
		{"hull already sound", "/api/repair", nil, http.StatusConflict, "nothing_to_repair"},
		{"unknown quest", "/api/quests/nope/claim", nil, http.StatusNotFound, "not_found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv, tt.path, tt.body)
			if resp.StatusCode != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, resp.StatusCode)
			}
			e := decodeBody[ErrorResponse](t, resp)
			if e.Error != tt.reason {
				t.Fatalf("expected reason %q, got %q (%s)", tt.reason, e.Error, e.Message)
			}
		})
	}

	// Nothing above changed the session.
	s := decodeBody[game.Snapshot](t, get(t, srv, "/api/state"))
	if s.Gold != 7500 || len(s.Inventory) != 0 {
		t.Fatalf("rejected actions mutated state: gold=%d inv=%v", s.Gold, s.Inventory)
	}
}

func TestMalformedBody(t *testing.T) {
	srv := newTestServer(t, nil)
	resp, err := http.Post(srv.URL+"/api/buy", "application/json", strings.NewReader("{"))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if e := decodeBody[ErrorResponse](t, resp); e.Error != "bad_request" {
		t.Fatalf("expected bad_request, got %q", e.Error)
	}
}

func TestRoutePreview(t *testing.T) {
	srv := newTestServer(t, nil)

	p := decodeBody[game.RoutePreview](t, get(t, srv, "/api/routes/세비야"))
	if p.Distance != 3 || p.Cost != 450 || !p.Affordable || !p.Seaworthy {
		t.Fatalf("unexpected preview %+v", p)
	}
	if p.Arrival != (game.Date{Year: 1492, Month: 4}) {
		t.Fatalf("expected arrival 1492-04, got %s", p.Arrival)
	}

	all := decodeBody[[]game.RoutePreview](t, get(t, srv, "/api/routes"))
	if len(all) != 2 {
		t.Fatalf("expected 2 lanes out of 리스본, got %d", len(all))
	}

	if resp := get(t, srv, "/api/routes/인도"); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for an unconnected port, got %d", resp.StatusCode)
	}
}

func TestTravel(t *testing.T) {
	srv := newTestServer(t, nil)
	resp := post(t, srv, "/api/travel", TravelRequest{Destination: "세비야"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	out := decodeBody[struct {
		Result game.Voyage    `json:"result"`
		State  game.Snapshot `json:"state"`
	}](t, resp)
	if out.Result.Arrived != (game.Date{Year: 1492, Month: 4}) || out.Result.Hazard != game.HazardNone {
		t.Fatalf("unexpected voyage %+v", out.Result)
	}
	if out.State.City != "세비야" || out.State.Gold != 7050 {
		t.Fatalf("unexpected state city=%s gold=%d", out.State.City, out.State.Gold)
	}
}

func TestQuestBoard(t *testing.T) {
	srv := newTestServer(t, nil)
	board := decodeBody[game.QuestBoard](t, get(t, srv, "/api/quests"))
	if len(board.Active) != 3 {
		t.Fatalf("expected 3 active quests, got %d", len(board.Active))
	}

	id := board.Active[0].ID
	if resp := post(t, srv, "/api/quests/"+id+"/claim", nil); resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 claiming an active quest, got %d", resp.StatusCode)
	}
	if resp := post(t, srv, "/api/quests/"+id+"/abandon", nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 abandoning, got %d", resp.StatusCode)
	}
	board = decodeBody[game.QuestBoard](t, get(t, srv, "/api/quests"))
	if len(board.Active) != 2 {
		t.Fatalf("expected 2 active quests after abandoning, got %d", len(board.Active))
	}

	if resp := post(t, srv, "/api/quests/refresh", nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("expected refresh to succeed below the cap, got %d", resp.StatusCode)
	}
}

func TestWebsocketBroadcast(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(quietLogger())
	go hub.Run(ctx)
	srv := newTestServer(t, hub)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	read := func() Message {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var m Message
		if err := conn.ReadJSON(&m); err != nil {
			t.Fatalf("read: %v", err)
		}
		return m
	}

	if m := read(); m.Type != MsgWelcome {
		t.Fatalf("expected welcome first, got %q", m.Type)
	}

	if resp := post(t, srv, "/api/buy", TradeRequest{Good: "와인", Quantity: 1}); resp.StatusCode != http.StatusOK {
		t.Fatalf("buy failed with %d", resp.StatusCode)
	}

	seen := map[string]bool{}
	for !seen[MsgState] {
		seen[read().Type] = true
	}
	if !seen[MsgLog] {
		t.Fatalf("expected the purchase log line before the state update, saw %v", seen)
	}
}

type fakeHistory []game.LogEntry

func (h fakeHistory) RecentEntries(limit int) ([]game.LogEntry, error) {
	if len(h) > limit {
		return h[len(h)-limit:], nil
	}
	return h, nil
}

func TestLogs(t *testing.T) {
	srv := newTestServer(t, nil)
	lines := decodeBody[[]string](t, get(t, srv, "/api/logs"))
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "[1492-01] ") {
		t.Fatalf("unexpected opening log %q", lines)
	}
	if resp := get(t, srv, "/api/logs?limit=0"); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for limit=0, got %d", resp.StatusCode)
	}

	g, err := game.New(game.DefaultUniverse(), game.Options{Rand: halfRand{}, StablePrices: true})
	if err != nil {
		t.Fatal(err)
	}
	s := NewServer(g, nil, quietLogger())
	s.SetHistory(fakeHistory{
		{Date: game.Date{Year: 1492, Month: 1}, Message: "a"},
		{Date: game.Date{Year: 1492, Month: 2}, Message: "b"},
		{Date: game.Date{Year: 1492, Month: 3}, Message: "c"},
	})
	hs := httptest.NewServer(s.Routes())
	defer hs.Close()

	lines = decodeBody[[]string](t, get(t, hs, "/api/logs?limit=2"))
	if len(lines) != 2 || lines[0] != "[1492-02] b" || lines[1] != "[1492-03] c" {
		t.Fatalf("unexpected history %q", lines)
	}
}
