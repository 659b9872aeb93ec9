/*
Package game
File: advisor.go
Description:
    The Trade Advisor. Read-only helpers that turn the price table and the
    hold into hints for the player. Nothing here mutates state.
*/

package game

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Inventory maps a held good to its quantity. Zero-quantity keys never exist.
type Inventory map[GoodID]int

// Clone returns a copy.
func (inv Inventory) Clone() Inventory {
	out := make(Inventory, len(inv))
	for k, v := range inv {
		out[k] = v
	}
	return out
}

// Total returns the number of units held.
func (inv Inventory) Total() int {
	n := 0
	for _, q := range inv {
		n += q
	}
	return n
}

// BestTrade is the single most promising move for a destination.
type BestTrade struct {
	Good   GoodID `json:"good,omitempty"`
	Profit int    `json:"profit"`
}

// BestTradeForRoute picks the best good to carry to dest.
//
// Held goods are scored by (dest price - average cost) * quantity. Goods
// produced in the current city are then scored by their per-unit spread, and
// one replaces the running best when it beats a tenth of it. Held cargo is
// therefore favored only weakly.
func BestTradeForRoute(u *Universe, dest, current CityID, inv Inventory, avgCost map[GoodID]int, prices PriceTable) BestTrade {
	var best BestTrade
	destRow := prices[dest]

	for _, g := range u.Goods {
		qty := inv[g.Key]
		if qty <= 0 {
			continue
		}
		profit := (destRow[g.Key] - avgCost[g.Key]) * qty
		if profit > best.Profit {
			best = BestTrade{Good: g.Key, Profit: profit}
		}
	}

	curRow := prices[current]
	for i := range u.Goods {
		g := &u.Goods[i]
		if !g.IsOrigin(current) {
			continue
		}
		spread := destRow[g.Key] - curRow[g.Key]
		if float64(spread) > float64(best.Profit)/10 {
			best = BestTrade{Good: g.Key, Profit: spread}
		}
	}
	return best
}

// Recommendation is a ranked arbitrage hint.
type Recommendation struct {
	Text          string `json:"text"`
	Good          GoodID `json:"good"`
	Destination   CityID `json:"destination"`
	ProfitPercent int    `json:"profit_percent"`
}

// TopRecommendations lists goods made in current that sell for more than
// 50% above the local price elsewhere, best first, at most limit entries.
func TopRecommendations(u *Universe, current CityID, prices PriceTable, limit int) []Recommendation {
	var recs []Recommendation
	curRow := prices[current]
	for _, c := range u.Cities {
		if c.Key == current {
			continue
		}
		for i := range u.Goods {
			g := &u.Goods[i]
			if !g.IsOrigin(current) {
				continue
			}
			buy := curRow[g.Key]
			if buy <= 0 {
				continue
			}
			sell := prices[c.Key][g.Key]
			pct := int(decimal.NewFromInt(int64(sell - buy)).
				Div(decimal.NewFromInt(int64(buy))).
				Mul(decimal.NewFromInt(100)).
				Round(0).IntPart())
			if pct <= 50 {
				continue
			}
			recs = append(recs, Recommendation{
				Text:          fmt.Sprintf("%s의 %s %s을(를) %s에서 팔면 약 %d%% 이익!", current, g.Icon, g.Key, c.Key, pct),
				Good:          g.Key,
				Destination:   c.Key,
				ProfitPercent: pct,
			})
		}
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].ProfitPercent > recs[j].ProfitPercent })
	if limit >= 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}

// ProfitEstimate returns the unrealized profit of a held good at the given
// city prices, or 0 if it is not held.
func ProfitEstimate(good GoodID, inv Inventory, avgCost map[GoodID]int, cityPrices map[GoodID]int) int {
	qty := inv[good]
	if qty <= 0 {
		return 0
	}
	return (cityPrices[good] - avgCost[good]) * qty
}

// MaxAffordableQuantity returns how many units the player could buy ignoring
// stock: the smaller of free cargo and gold / price, never negative.
func MaxAffordableQuantity(good GoodID, gold int, inv Inventory, cityPrices map[GoodID]int, capacity int) int {
	price := cityPrices[good]
	if price <= 0 {
		return 0
	}
	return max(0, min(capacity-inv.Total(), gold/price))
}
