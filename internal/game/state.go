/*
Package game
File: state.go
Description:
    Manages the runtime state of one game session.
    The Game aggregate owns everything that changes while playing: the
    player's purse and hold, the ship, the calendar, the market and the
    quest board. Every action validates first and only then mutates, so a
    failed action leaves the state exactly as it was.

    A Game is not safe for concurrent use. The API layer serializes access.
*/

package game

import (
	"fmt"
	"slices"
	"time"

	"github.com/dustin/go-humanize"
)

// State is the full mutable state of a session.
type State struct {
	Gold      int            `json:"gold"`
	City      CityID         `json:"city"`
	Date      Date           `json:"date"`
	Inventory Inventory      `json:"inventory"`
	AvgCost   map[GoodID]int `json:"average_cost"`

	Ship      ShipID      `json:"ship"`
	Upgrades  []UpgradeID `json:"upgrades"`
	Condition int         `json:"condition"`
	Crew      int         `json:"crew"`

	Market

	Quests []Quest   `json:"quests"`
	Logs   []string  `json:"logs"` // Most recent last, at most log_retention entries

	TradeCount    int `json:"trade_count"`
	HighestAssets int `json:"highest_assets"`
	Reputation    int `json:"reputation"`
}

func (s State) clone() State {
	out := s
	out.Inventory = s.Inventory.Clone()
	out.AvgCost = make(map[GoodID]int, len(s.AvgCost))
	for k, v := range s.AvgCost {
		out.AvgCost[k] = v
	}
	out.Upgrades = slices.Clone(s.Upgrades)
	out.Market = s.Market.Clone()
	out.Quests = make([]Quest, len(s.Quests))
	for i, q := range s.Quests {
		out.Quests[i] = q.clone()
	}
	out.Logs = slices.Clone(s.Logs)
	return out
}

// Options configures a new Game. The zero value is usable.
type Options struct {
	Rand         Rand             // Defaults to a time-seeded source
	Now          func() time.Time // Timestamps for log entries and events
	Sink         Sink             // Receives every log line and event
	StablePrices bool             // Opening prices without random factor
}

// Game is one single-player session.
type Game struct {
	u    *Universe
	rng  Rand
	now  func() time.Time
	sink Sink

	st    State
	title int // Index into u.Titles of the current rank
}

// New starts a session at the universe's start city with the start ship.
func New(u *Universe, opts Options) (*Game, error) {
	if opts.Rand == nil {
		opts.Rand = NewRand(0)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Sink == nil {
		opts.Sink = discardSink{}
	}
	if _, err := u.City(u.StartCity); err != nil {
		return nil, err
	}
	ship, err := u.Ship(u.StartShip)
	if err != nil {
		return nil, err
	}

	b := u.Balance
	g := &Game{u: u, rng: opts.Rand, now: opts.Now, sink: opts.Sink}
	start := Date{Year: b.InitialYear, Month: b.InitialMonth}
	g.st = State{
		Gold:          b.InitialGold,
		City:          u.StartCity,
		Date:          start,
		Inventory:     Inventory{},
		AvgCost:       map[GoodID]int{},
		Ship:          ship.Key,
		Condition:     min(b.InitialShipCondition, ship.Durability),
		Crew:          b.InitialCrew,
		Market:        NewMarket(u, opts.Rand, opts.StablePrices),
		HighestAssets: b.InitialGold,
	}
	g.st.Quests = InitialQuests(u, opts.Rand, start, u.StartCity)
	g.st.Quests = UpdateQuestProgress(g.st.Quests, QuestAction{Kind: ActionAssets, TotalAssets: g.TotalAssets()})
	g.title = u.titleIndex(g.TotalAssets())
	g.log("대항해의 시대가 시작되었습니다!")
	return g, nil
}

// Universe returns the reference data the session runs on.
func (g *Game) Universe() *Universe { return g.u }

// Snapshot is a deep copy of the state plus derived figures.
type Snapshot struct {
	State
	TotalAssets int       `json:"total_assets"`
	TotalCargo  int       `json:"total_cargo"`
	Title       Title     `json:"title"`
	ShipStats   ShipStats `json:"ship_stats"`
}

// Snapshot returns a copy the caller may keep and modify.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		State:       g.st.clone(),
		TotalAssets: g.TotalAssets(),
		TotalCargo:  g.TotalCargo(),
		Title:       g.Title(),
		ShipStats:   g.EffectiveShip(),
	}
}

// TotalAssets is gold plus the hold valued at average cost.
func (g *Game) TotalAssets() int {
	total := g.st.Gold
	for good, qty := range g.st.Inventory {
		total += g.st.AvgCost[good] * qty
	}
	return total
}

// TotalCargo is the number of units in the hold.
func (g *Game) TotalCargo() int { return g.st.Inventory.Total() }

// Title returns the rank for the current total assets.
func (g *Game) Title() Title {
	return g.u.Titles[g.u.titleIndex(g.TotalAssets())]
}

// titleIndex returns the highest-ranked title whose threshold is met.
// Titles are sorted by descending threshold; the last one is the floor.
func (u *Universe) titleIndex(assets int) int {
	for i, t := range u.Titles {
		if assets >= t.Threshold {
			return i
		}
	}
	return len(u.Titles) - 1
}

// EffectiveShip returns the current ship's stats with upgrades applied.
func (g *Game) EffectiveShip() ShipStats {
	ship, err := g.u.Ship(g.st.Ship)
	if err != nil {
		return ShipStats{}
	}
	return g.u.EffectiveStats(ship, g.st.Upgrades)
}

// CurrentCityStock returns a copy of the stock at the player's port.
func (g *Game) CurrentCityStock() map[GoodID]int {
	row := g.st.Stocks[g.st.City]
	out := make(map[GoodID]int, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

// MaxStockFor returns the stock ceiling of a good at the player's port.
func (g *Game) MaxStockFor(good GoodID) int {
	return g.u.MaxStock(g.st.City, good)
}

// MaxBuyQuantity is the largest purchase that would currently succeed.
func (g *Game) MaxBuyQuantity(good GoodID) int {
	n := MaxAffordableQuantity(good, g.st.Gold, g.st.Inventory, g.st.Prices[g.st.City], g.EffectiveShip().MaxCargo)
	return min(n, g.st.Stocks.Get(g.st.City, good))
}

// Recommendations returns the top three arbitrage hints from the current port.
func (g *Game) Recommendations() []Recommendation {
	return TopRecommendations(g.u, g.st.City, g.st.Prices, 3)
}

// RoutePreview describes a prospective voyage without taking it.
type RoutePreview struct {
	Destination CityID    `json:"destination"`
	Distance    int       `json:"distance"`
	Risk        float64   `json:"risk"`
	Cost        int       `json:"cost"`
	Affordable  bool      `json:"affordable"`
	Seaworthy   bool      `json:"seaworthy"`
	Arrival     Date      `json:"arrival"`
	BestTrade   BestTrade `json:"best_trade"`
}

// RoutePreview quotes a voyage to dest from the current port.
func (g *Game) RoutePreview(dest CityID) (RoutePreview, error) {
	route, err := g.route(dest)
	if err != nil {
		return RoutePreview{}, err
	}
	cost := g.u.TravelCost(route.Distance, g.st.Crew, g.EffectiveShip().Speed)
	return RoutePreview{
		Destination: dest,
		Distance:    route.Distance,
		Risk:        route.Risk,
		Cost:        cost,
		Affordable:  g.st.Gold >= cost,
		Seaworthy:   g.st.Condition >= g.u.Balance.MinConditionForTravel,
		Arrival:     g.st.Date.Add(route.Distance),
		BestTrade:   BestTradeForRoute(g.u, dest, g.st.City, g.st.Inventory, g.st.AvgCost, g.st.Prices),
	}, nil
}

// RoutePreviews quotes every lane out of the current port.
func (g *Game) RoutePreviews() []RoutePreview {
	c, err := g.u.City(g.st.City)
	if err != nil {
		return nil
	}
	out := make([]RoutePreview, 0, len(c.Routes))
	for _, r := range c.Routes {
		if p, err := g.RoutePreview(r.To); err == nil {
			out = append(out, p)
		}
	}
	return out
}

func (g *Game) route(dest CityID) (Route, error) {
	if _, err := g.u.City(dest); err != nil {
		return Route{}, fmt.Errorf("%w: %w", ErrInvalidDestination, err)
	}
	c, err := g.u.City(g.st.City)
	if err != nil {
		return Route{}, err
	}
	r, ok := c.Route(dest)
	if !ok {
		return Route{}, fmt.Errorf("%w: no lane from %s to %s", ErrInvalidDestination, g.st.City, dest)
	}
	return r, nil
}

// QuestBoard is the quest list split by status.
type QuestBoard struct {
	Active    []Quest `json:"active"`
	Completed []Quest `json:"completed"`
	Failed    []Quest `json:"failed"`
}

// Quests returns the quest list partitioned by status.
func (g *Game) Quests() QuestBoard {
	a, c, f := QuestsByStatus(g.st.Quests)
	return QuestBoard{Active: a, Completed: c, Failed: f}
}

// PendingRewards sums the rewards waiting to be claimed.
func (g *Game) PendingRewards() Reward {
	return CompletedRewards(g.st.Quests)
}

// log appends to the ring and forwards to the sink.
func (g *Game) log(format string, args ...any) {
	e := LogEntry{Date: g.st.Date, Message: fmt.Sprintf(format, args...), Time: g.now()}
	keep := g.u.Balance.LogRetention
	if keep <= 0 {
		keep = 10
	}
	g.st.Logs = append(g.st.Logs, e.String())
	if over := len(g.st.Logs) - keep; over > 0 {
		g.st.Logs = slices.Delete(g.st.Logs, 0, over)
	}
	g.sink.Log(e)
}

func (g *Game) notify(kind EventKind, sev Severity, title, format string, args ...any) {
	g.sink.Notify(Event{
		Kind:     kind,
		Severity: sev,
		Title:    title,
		Message:  fmt.Sprintf(format, args...),
		Date:     g.st.Date,
		Time:     g.now(),
	})
}

// progress applies a quest action and announces newly completed quests.
func (g *Game) progress(a QuestAction) {
	next := UpdateQuestProgress(g.st.Quests, a)
	for i := range next {
		if g.st.Quests[i].Status == QuestActive && next[i].Status == QuestCompleted {
			g.log("퀘스트 완료: %s", next[i].Name)
			g.notify(EventQuest, SeveritySuccess, "퀘스트 완료!", "%s 보상을 받으세요.", next[i].Name)
		}
	}
	g.st.Quests = next
}

// expire fails overdue quests and announces them.
func (g *Game) expire() {
	next := CheckExpiredQuests(g.st.Quests, g.st.Date)
	for i := range next {
		if g.st.Quests[i].Status == QuestActive && next[i].Status == QuestFailed {
			g.log("퀘스트 기한 만료: %s", next[i].Name)
			g.notify(EventQuest, SeverityWarning, "퀘스트 실패", "%s 기한이 지났습니다.", next[i].Name)
		}
	}
	g.st.Quests = next
}

// settle runs after every successful action: wealth quests see the new
// total, the asset record is raised, and promotions are announced.
func (g *Game) settle() {
	total := g.TotalAssets()
	g.progress(QuestAction{Kind: ActionAssets, TotalAssets: total})

	if total > g.st.HighestAssets {
		g.st.HighestAssets = total
		g.notify(EventRecord, SeveritySuccess, "신기록!", "최고 자산 %s 두카트", humanize.Comma(int64(total)))
	}

	idx := g.u.titleIndex(total)
	if idx < g.title {
		t := g.u.Titles[idx]
		g.log("%s %s 칭호를 얻었습니다", t.Icon, t.Title)
		g.notify(EventTitle, SeveritySuccess, "칭호 승급!", "%s %s", t.Icon, t.Title)
	}
	g.title = idx
}

func (g *Game) questIndex(id string) (int, error) {
	i := slices.IndexFunc(g.st.Quests, func(q Quest) bool { return q.ID == id })
	if i < 0 {
		return -1, fmt.Errorf("%w: quest %q", ErrNotFound, id)
	}
	return i, nil
}
