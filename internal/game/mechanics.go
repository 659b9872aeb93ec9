/*
Package game
File: mechanics.go
Description:
    Lookup helpers and the "physics" of the rules engine: money rounding,
    the calendar, travel cost and effective ship statistics.
*/

package game

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// City returns the city with the given id.
func (u *Universe) City(id CityID) (*City, error) {
	i, ok := u.cities[id]
	if !ok {
		return nil, fmt.Errorf("%w: city %q", ErrNotFound, id)
	}
	return &u.Cities[i], nil
}

// Good returns the good with the given id.
func (u *Universe) Good(id GoodID) (*Good, error) {
	i, ok := u.goods[id]
	if !ok {
		return nil, fmt.Errorf("%w: good %q", ErrNotFound, id)
	}
	return &u.Goods[i], nil
}

// Ship returns the ship profile with the given id.
func (u *Universe) Ship(id ShipID) (*ShipProfile, error) {
	i, ok := u.ships[id]
	if !ok {
		return nil, fmt.Errorf("%w: ship %q", ErrNotFound, id)
	}
	return &u.Ships[i], nil
}

// Upgrade returns the ship upgrade with the given id.
func (u *Universe) Upgrade(id UpgradeID) (*Upgrade, error) {
	i, ok := u.upgrades[id]
	if !ok {
		return nil, fmt.Errorf("%w: upgrade %q", ErrNotFound, id)
	}
	return &u.Upgrades[i], nil
}

// HasShipyard reports whether ships and upgrades are sold in the city.
// An empty shipyard list means every port has one.
func (u *Universe) HasShipyard(id CityID) bool {
	return len(u.ShipyardCities) == 0 || slices.Contains(u.ShipyardCities, id)
}

// Route returns the outgoing lane from c to dest, if any.
func (c *City) Route(dest CityID) (Route, bool) {
	for _, r := range c.Routes {
		if r.To == dest {
			return r, true
		}
	}
	return Route{}, false
}

// IsOrigin reports whether the good is produced in the city.
func (g *Good) IsOrigin(city CityID) bool {
	return slices.Contains(g.Origins, city)
}

// scale returns n*f rounded half-up to an integer. Decimal arithmetic keeps
// products like 450*1.1 from landing on the wrong side of .5.
func scale(n int, f float64) int {
	return int(decimal.NewFromInt(int64(n)).Mul(decimal.NewFromFloat(f)).Round(0).IntPart())
}

// scaleDown returns floor(n*f).
func scaleDown(n int, f float64) int {
	return int(decimal.NewFromInt(int64(n)).Mul(decimal.NewFromFloat(f)).Floor().IntPart())
}

// weightedAverage returns round((oldAvg*oldQty + price*qty) / (oldQty+qty)).
func weightedAverage(oldQty, oldAvg, qty, price int) int {
	total := decimal.NewFromInt(int64(oldAvg)*int64(oldQty) + int64(price)*int64(qty))
	return int(total.Div(decimal.NewFromInt(int64(oldQty + qty))).Round(0).IntPart())
}

// Date is a (year, month) position on the game calendar. Month is 1-based.
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// Add advances the date by n months, carrying into the year.
func (d Date) Add(months int) Date {
	m := d.Month - 1 + months
	return Date{Year: d.Year + m/12, Month: m%12 + 1}
}

// After reports whether d is strictly later than o.
func (d Date) After(o Date) bool {
	return d.Year > o.Year || (d.Year == o.Year && d.Month > o.Month)
}

func (d Date) String() string {
	return fmt.Sprintf("%d-%02d", d.Year, d.Month)
}

// ShipStats are the effective statistics of the player's ship.
type ShipStats struct {
	MaxCargo      int     `json:"max_cargo"`
	Speed         float64 `json:"speed"`
	Durability    int     `json:"durability"`
	PirateDefense float64 `json:"pirate_defense"`
}

// EffectiveStats combines a ship profile with its installed upgrades.
// Unknown upgrade ids are ignored.
func (u *Universe) EffectiveStats(ship *ShipProfile, upgrades []UpgradeID) ShipStats {
	stats := ShipStats{
		MaxCargo:      ship.MaxCargo,
		Speed:         ship.Speed,
		Durability:    ship.Durability,
		PirateDefense: ship.PirateDefense,
	}
	speed := decimal.NewFromFloat(ship.Speed)
	copper := false
	for _, id := range upgrades {
		m, err := u.Upgrade(id)
		if err != nil {
			continue
		}
		switch m.StatModifier {
		case StatCargo:
			stats.MaxCargo += int(m.StatValue)
		case StatSpeed:
			speed = speed.Add(decimal.NewFromFloat(m.StatValue))
		case StatDurability:
			stats.Durability += int(m.StatValue)
		case StatPirateDefense:
			stats.PirateDefense += m.StatValue
		}
		if id == u.Balance.CopperPlatingUpgrade {
			copper = true
		}
	}
	if copper {
		stats.Durability += u.Balance.CopperPlatingBonus
	}
	stats.Speed = speed.InexactFloat64()
	return stats
}

// TravelCost returns round((distance*base + crew*distance*perCrew) * speed).
func (u *Universe) TravelCost(distance, crew int, speed float64) int {
	b := u.Balance
	raw := distance*b.TravelBaseCostPerDistance + crew*distance*b.TravelCrewCostPerDistance
	return scale(raw, speed)
}
