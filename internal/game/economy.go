/*
Package game
File: economy.go
Description:
    Handles the economic simulation of the seas.
    This includes:
    1. Holding the market state (prices, stock, current rumors).
    2. The market tick run on every voyage: stock replenishment,
       the rumor + drift price pass, and a fresh batch of rumors.
    3. Depleting stock when the player buys.
*/

package game

// Market is the shared economic state of every port.
type Market struct {
	Prices PriceTable `json:"prices"`
	Stocks StockTable `json:"stocks"`
	Rumors []Rumor    `json:"rumors"`
}

// NewMarket builds the opening market. With stable set, prices carry no
// random factor; stock and rumors are always drawn from rng.
func NewMarket(u *Universe, rng Rand, stable bool) Market {
	var priceRng Rand
	if !stable {
		priceRng = rng
	}
	return Market{
		Prices: InitialPrices(u, priceRng),
		Stocks: InitialStocks(u, rng),
		Rumors: GenerateRumors(u, rng),
	}
}

// Clone returns a deep copy.
func (m Market) Clone() Market {
	return Market{
		Prices: m.Prices.Clone(),
		Stocks: m.Stocks.Clone(),
		Rumors: append([]Rumor(nil), m.Rumors...),
	}
}

// Tick advances the market by the given number of months.
//
// Stock refills first. The rumors current before the tick move prices,
// every cell drifts, and only then is the next batch of rumors drawn.
func (m Market) Tick(u *Universe, months int, rng Rand) Market {
	return Market{
		Stocks: RefillStocks(u, m.Stocks, months),
		Prices: ApplyRumorsAndDrift(u, m.Prices, m.Rumors, rng),
		Rumors: GenerateRumors(u, rng),
	}
}

// Purchase removes qty units of a good from a port's stock.
func (m Market) Purchase(city CityID, good GoodID, qty int) Market {
	m.Stocks = ConsumeStock(m.Stocks, city, good, qty)
	return m
}
