/*
Package game
File: stock.go
Description:
    The Stock Engine: how many units of each good a port has for sale.
    Producers and specialty ports hold a lot, far-away ports hold little.
    Stock refills a fraction of the base level every month at sea.
*/

package game

// StockTable maps city -> good -> available units. Values are never negative.
type StockTable map[CityID]map[GoodID]int

// Clone returns a deep copy.
func (s StockTable) Clone() StockTable {
	out := make(StockTable, len(s))
	for city, row := range s {
		r := make(map[GoodID]int, len(row))
		for good, v := range row {
			r[good] = v
		}
		out[city] = r
	}
	return out
}

// Get returns the stock of a good in a city (0 when absent).
func (s StockTable) Get(city CityID, good GoodID) int {
	return s[city][good]
}

// StockStatus is a coarse display tier.
type StockStatus string

const (
	StockEmpty  StockStatus = "empty"
	StockLow    StockStatus = "low"
	StockNormal StockStatus = "normal"
	StockPlenty StockStatus = "plenty"
)

// BaseStock returns the nominal stock level of a good in a city.
//
// The "rare" tier only looks at direct lanes from the city to an origin;
// a city with no direct lane to any origin counts as far away.
func (u *Universe) BaseStock(city CityID, good GoodID) int {
	c, err := u.City(city)
	if err != nil {
		return 0
	}
	g, err := u.Good(good)
	if err != nil {
		return 0
	}
	b := u.Balance

	if c.Specialty == good || g.IsOrigin(city) {
		return b.StockSpecialty
	}
	if nearestOrigin(c, g) > b.StockRareDistance {
		return b.StockRare
	}
	return b.StockBase
}

// nearestOrigin returns the shortest direct-lane distance from c to any
// origin of g, or 100 when no origin is one hop away.
func nearestOrigin(c *City, g *Good) int {
	best := 100
	for _, o := range g.Origins {
		if r, ok := c.Route(o); ok && r.Distance > 0 {
			best = min(best, r.Distance)
		}
	}
	return best
}

// MaxStock returns round(BaseStock * stock_max_multiplier).
func (u *Universe) MaxStock(city CityID, good GoodID) int {
	return scale(u.BaseStock(city, good), u.Balance.StockMaxMultiplier)
}

// InitialStocks fills every (city, good) with BaseStock times a uniform
// factor in [0.8, 1.2].
func InitialStocks(u *Universe, rng Rand) StockTable {
	stocks := make(StockTable, len(u.Cities))
	for _, c := range u.Cities {
		row := make(map[GoodID]int, len(u.Goods))
		for _, g := range u.Goods {
			base := u.BaseStock(c.Key, g.Key)
			row[g.Key] = min(u.MaxStock(c.Key, g.Key), scale(base, between(rng, 0.8, 1.2)))
		}
		stocks[c.Key] = row
	}
	return stocks
}

// RefillStocks returns a new table where every cell gained
// round(BaseStock * refill_rate * months), capped at MaxStock.
func RefillStocks(u *Universe, stocks StockTable, months int) StockTable {
	next := stocks.Clone()
	if months <= 0 {
		return next
	}
	for _, c := range u.Cities {
		row := next[c.Key]
		if row == nil {
			row = make(map[GoodID]int, len(u.Goods))
			next[c.Key] = row
		}
		for _, g := range u.Goods {
			refill := scale(u.BaseStock(c.Key, g.Key)*months, u.Balance.StockRefillRate)
			row[g.Key] = min(u.MaxStock(c.Key, g.Key), row[g.Key]+refill)
		}
	}
	return next
}

// ConsumeStock returns a new table with qty units removed from one cell,
// floored at zero. Callers reject oversized purchases beforehand.
func ConsumeStock(stocks StockTable, city CityID, good GoodID, qty int) StockTable {
	next := stocks.Clone()
	row := next[city]
	if row == nil {
		row = make(map[GoodID]int)
		next[city] = row
	}
	row[good] = max(0, row[good]-qty)
	return next
}

// StatusOf classifies a stock level against its maximum.
func StatusOf(stock, maxStock int) StockStatus {
	if stock <= 0 {
		return StockEmpty
	}
	if maxStock <= 0 {
		return StockPlenty
	}
	ratio := float64(stock) / float64(maxStock)
	switch {
	case ratio > 0.6:
		return StockPlenty
	case ratio > 0.2:
		return StockNormal
	}
	return StockLow
}
