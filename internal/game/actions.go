/*
Package game
File: actions.go
Description:
    Player actions in port: trading, repairs, hiring, the shipyard and the
    quest board. Voyages live in voyage.go.
*/

package game

import (
	"fmt"
	"slices"

	"github.com/dustin/go-humanize"
)

// Trade is the receipt of a completed buy or sell.
type Trade struct {
	Good     GoodID `json:"good"`
	Quantity int    `json:"quantity"`
	Price    int    `json:"price"`  // Per unit
	Total    int    `json:"total"`  // Gold paid or received
	Profit   int    `json:"profit"` // Sells only: (price - average cost) * quantity
}

// BuyGood buys qty units of a good at the current port's price.
func (g *Game) BuyGood(good GoodID, qty int) (Trade, error) {
	gd, err := g.u.Good(good)
	if err != nil {
		return Trade{}, err
	}
	if qty <= 0 {
		return Trade{}, fmt.Errorf("%w: %d", ErrInvalidQuantity, qty)
	}
	city := g.st.City
	if stock := g.st.Stocks.Get(city, good); stock < qty {
		return Trade{}, fmt.Errorf("%w: %d %s left in %s", ErrInsufficientStock, stock, good, city)
	}
	price := g.st.Prices[city][good]
	total := price * qty
	if g.st.Gold < total {
		return Trade{}, fmt.Errorf("%w: need %d, have %d", ErrInsufficientFunds, total, g.st.Gold)
	}
	if capacity := g.EffectiveShip().MaxCargo; g.TotalCargo()+qty > capacity {
		return Trade{}, fmt.Errorf("%w: %d/%d loaded", ErrInsufficientCargo, g.TotalCargo(), capacity)
	}

	held := g.st.Inventory[good]
	g.st.Gold -= total
	g.st.AvgCost[good] = weightedAverage(held, g.st.AvgCost[good], qty, price)
	g.st.Inventory[good] = held + qty
	g.st.Market = g.st.Market.Purchase(city, good, qty)
	g.st.TradeCount++

	g.log("%s %s %d개를 %s 두카트에 구매", gd.Icon, good, qty, humanize.Comma(int64(total)))
	g.progress(QuestAction{Kind: ActionBuy, Good: good, Quantity: qty, City: city})
	g.settle()
	return Trade{Good: good, Quantity: qty, Price: price, Total: total}, nil
}

// SellGood sells qty held units at the current port's price.
func (g *Game) SellGood(good GoodID, qty int) (Trade, error) {
	gd, err := g.u.Good(good)
	if err != nil {
		return Trade{}, err
	}
	if qty <= 0 {
		return Trade{}, fmt.Errorf("%w: %d", ErrInvalidQuantity, qty)
	}
	held := g.st.Inventory[good]
	if held < qty {
		return Trade{}, fmt.Errorf("%w: hold has %d %s", ErrInsufficientGoods, held, good)
	}

	city := g.st.City
	price := g.st.Prices[city][good]
	total := price * qty
	profit := (price - g.st.AvgCost[good]) * qty

	g.st.Gold += total
	if held == qty {
		delete(g.st.Inventory, good)
		delete(g.st.AvgCost, good)
	} else {
		g.st.Inventory[good] = held - qty
	}
	g.st.TradeCount++

	sign := ""
	if profit > 0 {
		sign = "+"
	}
	g.log("%s %s %d개 판매 (이익: %s%s)", gd.Icon, good, qty, sign, humanize.Comma(int64(profit)))
	if profit > 0 {
		g.notify(EventTrade, SeveritySuccess, "거래 성공", "%s 두카트의 이익!", humanize.Comma(int64(profit)))
	}
	g.progress(QuestAction{Kind: ActionSell, Good: good, Quantity: qty, City: city})
	g.settle()
	return Trade{Good: good, Quantity: qty, Price: price, Total: total, Profit: profit}, nil
}

// RepairShip restores the hull to its effective durability. Returns the cost.
func (g *Game) RepairShip() (int, error) {
	maxCond := g.EffectiveShip().Durability
	if g.st.Condition >= maxCond {
		return 0, ErrNothingToRepair
	}
	cost := (maxCond - g.st.Condition) * g.u.Balance.RepairCostPerPoint
	if g.st.Gold < cost {
		return 0, fmt.Errorf("%w: repair costs %d", ErrInsufficientFunds, cost)
	}

	g.st.Gold -= cost
	g.st.Condition = maxCond
	g.log("선박 수리 완료 (%s 두카트)", humanize.Comma(int64(cost)))
	g.notify(EventRepair, SeveritySuccess, "수리 완료", "선박이 완전히 수리되었습니다!")
	g.settle()
	return cost, nil
}

// HireCrew signs on a fixed batch of sailors, capped at max_crew.
// Returns the cost.
func (g *Game) HireCrew() (int, error) {
	b := g.u.Balance
	if g.st.Crew >= b.MaxCrew {
		return 0, ErrCrewAlreadyFull
	}
	cost := b.CrewHireCount * b.CrewHireCost
	if g.st.Gold < cost {
		return 0, fmt.Errorf("%w: hiring costs %d", ErrInsufficientFunds, cost)
	}

	g.st.Gold -= cost
	g.st.Crew = min(b.MaxCrew, g.st.Crew+b.CrewHireCount)
	g.log("선원 %d명 고용 (%s 두카트)", b.CrewHireCount, humanize.Comma(int64(cost)))
	g.notify(EventCrew, SeveritySuccess, "고용 완료", "%d명의 선원이 승선했습니다!", b.CrewHireCount)
	g.settle()
	return cost, nil
}

// BuyShip replaces the current ship. Upgrades stay with the old hull and the
// new one starts at full durability.
func (g *Game) BuyShip(id ShipID) error {
	ship, err := g.u.Ship(id)
	if err != nil {
		return err
	}
	if !g.u.HasShipyard(g.st.City) {
		return fmt.Errorf("%w: %s", ErrNoShipyard, g.st.City)
	}
	if g.st.Ship == id {
		return fmt.Errorf("%w: ship %s", ErrAlreadyOwned, id)
	}
	if g.st.Gold < ship.Price {
		return fmt.Errorf("%w: %s costs %d", ErrInsufficientFunds, id, ship.Price)
	}
	if cargo := g.TotalCargo(); cargo > ship.MaxCargo {
		return fmt.Errorf("%w: %d units aboard, %s holds %d", ErrInsufficientCargo, cargo, id, ship.MaxCargo)
	}

	g.st.Gold -= ship.Price
	g.st.Ship = id
	g.st.Upgrades = nil
	g.st.Condition = g.u.EffectiveStats(ship, nil).Durability
	g.log("%s %s 구입 (%s 두카트)", ship.Icon, id, humanize.Comma(int64(ship.Price)))
	g.notify(EventShipyard, SeveritySuccess, "새 선박", "%s %s의 선장이 되었습니다!", ship.Icon, id)
	g.settle()
	return nil
}

// BuyUpgrade installs an upgrade on the current ship.
func (g *Game) BuyUpgrade(id UpgradeID) error {
	up, err := g.u.Upgrade(id)
	if err != nil {
		return err
	}
	if !g.u.HasShipyard(g.st.City) {
		return fmt.Errorf("%w: %s", ErrNoShipyard, g.st.City)
	}
	if slices.Contains(g.st.Upgrades, id) {
		return fmt.Errorf("%w: upgrade %s", ErrAlreadyOwned, id)
	}
	if g.st.Gold < up.Price {
		return fmt.Errorf("%w: %s costs %d", ErrInsufficientFunds, id, up.Price)
	}

	g.st.Gold -= up.Price
	g.st.Upgrades = append(g.st.Upgrades, id)
	g.log("%s %s 설치 (%s 두카트)", up.Icon, up.Name, humanize.Comma(int64(up.Price)))
	g.notify(EventShipyard, SeveritySuccess, "개조 완료", "%s %s", up.Icon, up.Name)
	g.settle()
	return nil
}

// ClaimQuestReward pays out a completed quest and removes it from the board.
func (g *Game) ClaimQuestReward(id string) (Reward, error) {
	i, err := g.questIndex(id)
	if err != nil {
		return Reward{}, err
	}
	q := g.st.Quests[i]
	if q.Status != QuestCompleted {
		return Reward{}, fmt.Errorf("%w: %s is %s", ErrQuestNotCompleted, id, q.Status)
	}

	g.st.Gold += q.Reward.Gold
	g.st.Reputation += q.Reward.Reputation
	g.st.Quests = slices.Delete(g.st.Quests, i, i+1)
	g.log("퀘스트 보상 수령: %s (+%s 두카트, 명성 +%d)", q.Name, humanize.Comma(int64(q.Reward.Gold)), q.Reward.Reputation)
	g.settle()
	return q.Reward, nil
}

// AbandonQuest drops a quest at a reputation cost, floored at zero.
func (g *Game) AbandonQuest(id string) error {
	i, err := g.questIndex(id)
	if err != nil {
		return err
	}
	q := g.st.Quests[i]

	g.st.Quests = slices.Delete(g.st.Quests, i, i+1)
	g.st.Reputation = max(0, g.st.Reputation-g.u.Balance.AbandonReputationPenalty)
	g.log("퀘스트 포기: %s", q.Name)
	g.settle()
	return nil
}

// RefreshQuests posts one new quest while the active count is below the cap.
func (g *Game) RefreshQuests() (Quest, error) {
	active := 0
	ids := make([]string, 0, len(g.st.Quests))
	for _, q := range g.st.Quests {
		ids = append(ids, q.ID)
		if q.Status == QuestActive {
			active++
		}
	}
	if limit := g.u.Balance.MaxActiveQuests; active >= limit {
		return Quest{}, fmt.Errorf("%w: %d/%d", ErrTooManyActiveQuests, active, limit)
	}

	q := GenerateQuest(g.u, g.rng, g.st.Date, g.st.City, ids)
	g.st.Quests = append(g.st.Quests, q)
	g.log("새 퀘스트: %s", q.Name)
	g.settle()
	return q.clone(), nil
}
