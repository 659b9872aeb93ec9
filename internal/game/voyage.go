/*
Package game
File: voyage.go
Description:
    Travel between ports. A voyage pays its cost up front, may run into one
    hazard (pirates, a storm or illness), then advances the calendar by the
    lane's distance and ticks the market once for the whole trip.
*/

package game

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Hazard is the random event met at sea, if any.
type Hazard string

const (
	HazardNone    Hazard = ""
	HazardPirates Hazard = "pirates"
	HazardStorm   Hazard = "storm"
	HazardIllness Hazard = "illness"
)

// Voyage is the outcome of a successful Travel call.
type Voyage struct {
	From     CityID         `json:"from"`
	To       CityID         `json:"to"`
	Distance int            `json:"distance"`
	Cost     int            `json:"cost"`
	Hazard   Hazard         `json:"hazard,omitempty"`
	Repelled bool           `json:"repelled,omitempty"` // Pirates beaten off
	GoldLost int            `json:"gold_lost,omitempty"`
	Damage   int            `json:"damage,omitempty"`
	Spoiled  map[GoodID]int `json:"spoiled,omitempty"`
	CrewLost int            `json:"crew_lost,omitempty"`
	Arrived  Date           `json:"arrived"`
}

// Travel sails to a directly connected port.
func (g *Game) Travel(dest CityID) (*Voyage, error) {
	route, err := g.route(dest)
	if err != nil {
		return nil, err
	}
	b := g.u.Balance
	stats := g.EffectiveShip()
	cost := g.u.TravelCost(route.Distance, g.st.Crew, stats.Speed)
	if g.st.Gold < cost {
		return nil, fmt.Errorf("%w: voyage costs %d", ErrInsufficientFunds, cost)
	}
	if g.st.Condition < b.MinConditionForTravel {
		return nil, fmt.Errorf("%w: condition %d, need %d", ErrShipNotSeaworthy, g.st.Condition, b.MinConditionForTravel)
	}

	v := &Voyage{From: g.st.City, To: dest, Distance: route.Distance, Cost: cost}
	purse := g.st.Gold
	g.st.Gold -= cost

	if g.rng.Float64()*100 < route.Risk {
		g.hazard(v, purse, stats)
	}

	g.st.City = dest
	g.st.Date = g.st.Date.Add(route.Distance)
	g.st.Market = g.st.Market.Tick(g.u, route.Distance, g.rng)
	v.Arrived = g.st.Date

	g.progress(QuestAction{Kind: ActionTravel, City: dest})
	g.expire()
	g.log("%s에 도착 (%d개월, %s 두카트)", dest, route.Distance, humanize.Comma(int64(cost)))
	g.settle()
	return v, nil
}

// hazard resolves one sea event. Pirates take a share of the purse held
// before the voyage cost was paid.
func (g *Game) hazard(v *Voyage, purse int, stats ShipStats) {
	b := g.u.Balance
	switch roll := g.rng.Float64(); {
	case roll < 0.3:
		v.Hazard = HazardPirates
		if g.rng.Float64()*100 < stats.PirateDefense {
			v.Repelled = true
			g.log("해적의 습격을 물리쳤습니다!")
			g.notify(EventHazard, SeveritySuccess, "해적 격퇴!", "대포가 불을 뿜었습니다. 손실 없음.")
			return
		}
		loss := scale(purse, b.PirateGoldLossRate)
		v.GoldLost = min(loss, g.st.Gold)
		g.st.Gold = max(0, g.st.Gold-loss)
		g.log("해적 습격! %s 두카트 손실", humanize.Comma(int64(loss)))
		g.notify(EventHazard, SeverityDanger, "해적 습격!", "%s 두카트를 빼앗겼습니다!", humanize.Comma(int64(loss)))

	case roll < 0.6:
		v.Hazard = HazardStorm
		v.Damage = min(b.StormShipDamage, g.st.Condition)
		g.st.Condition = max(0, g.st.Condition-b.StormShipDamage)
		for _, gd := range g.u.Goods {
			held := g.st.Inventory[gd.Key]
			if !gd.Perishable || held == 0 {
				continue
			}
			loss := scaleDown(held, b.StormCargoLossRate)
			if loss <= 0 {
				continue
			}
			if v.Spoiled == nil {
				v.Spoiled = map[GoodID]int{}
			}
			v.Spoiled[gd.Key] = loss
			if left := held - loss; left > 0 {
				g.st.Inventory[gd.Key] = left
			} else {
				delete(g.st.Inventory, gd.Key)
				delete(g.st.AvgCost, gd.Key)
			}
			g.log("폭풍으로 %s %d개 손실", gd.Key, loss)
		}
		g.notify(EventHazard, SeverityWarning, "폭풍우!", "배가 손상되고 부패품이 손실되었습니다!")

	default:
		v.Hazard = HazardIllness
		loss := scaleDown(g.st.Crew, b.IllnessCrewLossRate)
		next := max(b.MinCrew, g.st.Crew-loss)
		v.CrewLost = g.st.Crew - next
		g.st.Crew = next
		g.log("괴혈병 발생! 선원 %d명 사망", loss)
		g.notify(EventHazard, SeverityDanger, "괴혈병 발생!", "선원 %d명이 사망했습니다.", loss)
	}
}
