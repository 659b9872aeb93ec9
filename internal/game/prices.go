/*
Package game
File: prices.go
Description:
    The Price Engine.
    Origin cities sell a good cheap (supply), every other city pays a premium
    (demand). That gap is the arbitrage the whole game is built on.
    Each turn prices are nudged by rumors and a bounded random drift.
*/

package game

// PriceTable maps city -> good -> price. It is always fully populated.
type PriceTable map[CityID]map[GoodID]int

// Clone returns a deep copy.
func (p PriceTable) Clone() PriceTable {
	out := make(PriceTable, len(p))
	for city, row := range p {
		r := make(map[GoodID]int, len(row))
		for good, v := range row {
			r[good] = v
		}
		out[city] = r
	}
	return out
}

// InitialPrices computes the opening price table. With a nil source the
// result is deterministic (no random factor); otherwise every cell gets a
// uniform factor in [0.9, 1.1].
func InitialPrices(u *Universe, rng Rand) PriceTable {
	prices := make(PriceTable, len(u.Cities))
	for _, c := range u.Cities {
		row := make(map[GoodID]int, len(u.Goods))
		for i := range u.Goods {
			g := &u.Goods[i]
			mult := 1.3
			if g.IsOrigin(c.Key) {
				mult = 0.7
			}
			f := 1.0
			if rng != nil {
				f = between(rng, 0.9, 1.1)
			}
			row[g.Key] = scale(g.BasePrice, mult*f)
		}
		prices[c.Key] = row
	}
	return prices
}

// priceBounds returns the clamp range for a good in a city.
func priceBounds(g *Good, city CityID) (lo, hi int) {
	if g.IsOrigin(city) {
		lo, hi = scale(g.BasePrice, 0.5), scale(g.BasePrice, 1.2)
	} else {
		lo, hi = scale(g.BasePrice, 0.8), scale(g.BasePrice, 2)
	}
	if lo < 1 {
		lo = 1
	}
	return lo, hi
}

// ApplyRumorsAndDrift returns the next turn's prices. Demand, supply and
// monopoly rumors multiply their cell first; pirate and plague rumors never
// touch prices. Then every cell drifts by a uniform factor in [0.9, 1.1] and
// is clamped to its bounds. The input table is not modified.
func ApplyRumorsAndDrift(u *Universe, prices PriceTable, rumors []Rumor, rng Rand) PriceTable {
	next := prices.Clone()

	for _, r := range rumors {
		if !r.Type.AffectsPrice() {
			continue
		}
		row, ok := next[r.City]
		if !ok {
			continue
		}
		if cur, ok := row[r.Good]; ok && cur > 0 {
			row[r.Good] = scale(cur, r.Effect)
		}
	}

	for _, c := range u.Cities {
		row := next[c.Key]
		if row == nil {
			row = make(map[GoodID]int, len(u.Goods))
			next[c.Key] = row
		}
		for i := range u.Goods {
			g := &u.Goods[i]
			drifted := scale(row[g.Key], between(rng, 0.9, 1.1))
			lo, hi := priceBounds(g, c.Key)
			row[g.Key] = max(lo, min(hi, drifted))
		}
	}
	return next
}
