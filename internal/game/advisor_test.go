package game

import "testing"

func TestBestTradeForRoute(t *testing.T) {
	u := DefaultUniverse()
	inv := Inventory{"비단": 10}
	avg := map[GoodID]int{"비단": 800}

	tests := []struct {
		name       string
		destWine   int
		wantGood   GoodID
		wantProfit int
	}{
		// Held silk earns 1000; a wine spread of 110 beats a tenth of that.
		{"buy spread beats a tenth", 320, "와인", 110},
		{"held cargo kept", 290, "비단", 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prices := InitialPrices(u, nil)
			prices["세비야"]["비단"] = 900
			prices["세비야"]["와인"] = tt.destWine
			best := BestTradeForRoute(u, "세비야", "리스본", inv, avg, prices)
			if best.Good != tt.wantGood || best.Profit != tt.wantProfit {
				t.Fatalf("expected %s/%d, got %s/%d", tt.wantGood, tt.wantProfit, best.Good, best.Profit)
			}
		})
	}

	empty := BestTradeForRoute(u, "리스본", "세비야", Inventory{}, nil, InitialPrices(u, nil))
	if empty.Profit <= 0 || empty.Good != "올리브유" {
		t.Fatalf("expected olive oil spread from its origin, got %+v", empty)
	}
}

func TestTopRecommendations(t *testing.T) {
	u := DefaultUniverse()
	prices := InitialPrices(u, nil)
	prices["베네치아"]["와인"] = 600

	recs := TopRecommendations(u, "리스본", prices, 3)
	if len(recs) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(recs))
	}
	if recs[0].Destination != "베네치아" || recs[0].ProfitPercent != 186 {
		t.Fatalf("expected 베네치아 at 186%%, got %+v", recs[0])
	}
	for i := 1; i < len(recs); i++ {
		if recs[i].ProfitPercent > recs[i-1].ProfitPercent {
			t.Fatalf("recommendations not sorted: %+v", recs)
		}
		if recs[i].ProfitPercent != 86 {
			t.Fatalf("expected 86%%, got %d", recs[i].ProfitPercent)
		}
	}

	for c := range prices {
		prices[c]["와인"] = 300
	}
	prices["리스본"]["와인"] = 200
	if got := TopRecommendations(u, "리스본", prices, 3); len(got) != 0 {
		t.Fatalf("expected nothing at exactly 50%%, got %+v", got)
	}
}

func TestMaxAffordableQuantity(t *testing.T) {
	prices := map[GoodID]int{"와인": 210}
	tests := []struct {
		name     string
		gold     int
		inv      Inventory
		capacity int
		want     int
	}{
		{"cannot afford one", 209, Inventory{}, 100, 0},
		{"hold full", 1 << 40, Inventory{"비단": 100}, 100, 0},
		{"gold bound", 1000, Inventory{}, 100, 4},
		{"cargo bound", 100000, Inventory{"비단": 98}, 100, 2},
		{"over capacity", 100000, Inventory{"비단": 150}, 100, 0},
	}
	for _, tt := range tests {
		if got := MaxAffordableQuantity("와인", tt.gold, tt.inv, prices, tt.capacity); got != tt.want {
			t.Fatalf("%s: expected %d, got %d", tt.name, tt.want, got)
		}
	}
}

func TestProfitEstimate(t *testing.T) {
	prices := map[GoodID]int{"와인": 390}
	if got := ProfitEstimate("와인", Inventory{"와인": 10}, map[GoodID]int{"와인": 210}, prices); got != 1800 {
		t.Fatalf("expected 1800, got %d", got)
	}
	if got := ProfitEstimate("와인", Inventory{}, nil, prices); got != 0 {
		t.Fatalf("expected 0 for goods not held, got %d", got)
	}
}
