/*
Package game
File: quests.go
Description:
    The Quest Engine.
    1. Generates procedural quests from templates (like the job board contracts).
    2. Tracks progress against player actions.
    3. Fails quests whose deadline has passed.
*/

package game

import (
	"slices"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// QuestType is the display category of a quest.
type QuestType string

const (
	QuestDelivery QuestType = "delivery"
	QuestTrade    QuestType = "trade"
	QuestExplore  QuestType = "explore"
	QuestWealth   QuestType = "wealth"
)

// ConditionType selects how progress is measured.
type ConditionType string

const (
	CondDeliverGoods   ConditionType = "deliver_goods"   // Sell a good in a given city
	CondTradeAmount    ConditionType = "trade_amount"    // Buy or sell units of a good anywhere
	CondTradeCount     ConditionType = "trade_count"     // Any completed buy or sell
	CondVisitCity      ConditionType = "visit_city"      // Arrive in a given city
	CondAccumulateGold ConditionType = "accumulate_gold" // Reach a total-assets figure
)

// QuestStatus is the lifecycle state of a quest. Expiry sets QuestFailed.
type QuestStatus string

const (
	QuestActive    QuestStatus = "active"
	QuestCompleted QuestStatus = "completed"
	QuestFailed    QuestStatus = "failed"
)

// Condition is what a quest asks for and how far along the player is.
type Condition struct {
	Type    ConditionType `json:"type"`
	Good    GoodID        `json:"good,omitempty"`
	City    CityID        `json:"city,omitempty"`
	Amount  int           `json:"amount"`
	Current int           `json:"current"`
}

// Reward is paid out when a completed quest is claimed.
type Reward struct {
	Gold       int `yaml:"gold" json:"gold"`
	Reputation int `yaml:"reputation" json:"reputation"`
}

// Quest is a generated quest instance.
type Quest struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Type        QuestType   `json:"type"`
	Icon        string      `json:"icon"`
	Giver       string      `json:"giver"`
	GiverCity   CityID      `json:"giver_city"`
	Condition   Condition   `json:"condition"`
	Reward      Reward      `json:"reward"`
	TimeLimit   int         `json:"time_limit,omitempty"`
	ExpiresAt   *Date       `json:"expires_at,omitempty"`
	Status      QuestStatus `json:"status"`
	StartedAt   Date        `json:"started_at"`
}

func (q Quest) clone() Quest {
	if q.ExpiresAt != nil {
		exp := *q.ExpiresAt
		q.ExpiresAt = &exp
	}
	return q
}

// ActionKind is the player action a quest update is reacting to.
type ActionKind string

const (
	ActionBuy    ActionKind = "buy"
	ActionSell   ActionKind = "sell"
	ActionTravel ActionKind = "travel"
	ActionAssets ActionKind = "assets"
)

// QuestAction describes one progress-relevant event.
// City is the sale location for sells and the destination for travel.
type QuestAction struct {
	Kind        ActionKind
	Good        GoodID
	Quantity    int
	City        CityID
	TotalAssets int
}

// questAmount looks up the target amount for a condition type and difficulty.
func (u *Universe) questAmount(c ConditionType, d Difficulty) int {
	def := u.QuestTuning.DefaultAmount
	if def <= 0 {
		def = 10
	}
	row, ok := u.QuestTuning.Amounts[c]
	if !ok {
		return def
	}
	return int(row.Get(d, float64(def)))
}

// GenerateQuest builds one quest from a random template. The target city is
// never the current city. The id is unique against exclude.
func GenerateQuest(u *Universe, rng Rand, now Date, current CityID, exclude []string) Quest {
	t := u.QuestTemplates[pick(rng, len(u.QuestTemplates))]

	targets := make([]CityID, 0, len(u.Cities))
	for _, c := range u.Cities {
		if c.Key != current {
			targets = append(targets, c.Key)
		}
	}
	city := targets[pick(rng, len(targets))]
	good := &u.Goods[pick(rng, len(u.Goods))]

	amount := u.questAmount(t.Condition, t.Difficulty)
	mult := u.QuestTuning.RewardMultipliers.Get(t.Difficulty, 1)

	cond := Condition{Type: t.Condition}
	switch t.Condition {
	case CondDeliverGoods:
		cond.Good, cond.City, cond.Amount = good.Key, city, amount
	case CondTradeAmount:
		cond.Good, cond.Amount = good.Key, amount
	case CondVisitCity:
		cond.City, cond.Amount = city, 1
	default:
		cond.Amount = amount
	}

	name := strings.Replace(t.Name, "{good}", good.Icon+" "+string(good.Key), 1)
	name = strings.Replace(name, "{city}", string(city), 1)
	name = strings.Replace(name, "{amount}", strconv.Itoa(amount), 1)

	desc := strings.Replace(t.Description, "{good}", string(good.Key), 1)
	desc = strings.Replace(desc, "{city}", string(city), 1)
	desc = strings.Replace(desc, "{amount}", humanize.Comma(int64(amount)), 1)

	q := Quest{
		ID:          newQuestID(exclude),
		Name:        name,
		Description: desc,
		Type:        t.Type,
		Icon:        t.Icon,
		Giver:       t.Giver,
		GiverCity:   current,
		Condition:   cond,
		Reward: Reward{
			Gold:       scale(t.Reward.Gold, mult),
			Reputation: scale(t.Reward.Reputation, mult),
		},
		TimeLimit: t.TimeLimit,
		Status:    QuestActive,
		StartedAt: now,
	}
	if t.TimeLimit > 0 {
		exp := now.Add(t.TimeLimit)
		q.ExpiresAt = &exp
	}
	return q
}

func newQuestID(exclude []string) string {
	for {
		id := "quest_" + uuid.NewString()
		if !slices.Contains(exclude, id) {
			return id
		}
	}
}

// InitialQuests generates the opening batch of quests.
func InitialQuests(u *Universe, rng Rand, now Date, current CityID) []Quest {
	n := u.Balance.InitialQuests
	quests := make([]Quest, 0, n)
	used := make([]string, 0, n)
	for i := 0; i < n; i++ {
		q := GenerateQuest(u, rng, now, current, used)
		quests = append(quests, q)
		used = append(used, q.ID)
	}
	return quests
}

// UpdateQuestProgress applies an action to every active quest and returns the
// new list. Quests that reach their target become completed. The input slice
// is not modified.
func UpdateQuestProgress(quests []Quest, a QuestAction) []Quest {
	out := make([]Quest, len(quests))
	for i, q := range quests {
		out[i] = q
		if q.Status != QuestActive {
			continue
		}
		c := &out[i].Condition
		switch c.Type {
		case CondDeliverGoods:
			if a.Kind == ActionSell && a.Good == c.Good && a.City == c.City {
				c.Current += a.Quantity
			}
		case CondTradeAmount:
			if (a.Kind == ActionBuy || a.Kind == ActionSell) && a.Good == c.Good {
				c.Current += a.Quantity
			}
		case CondTradeCount:
			if a.Kind == ActionBuy || a.Kind == ActionSell {
				c.Current++
			}
		case CondVisitCity:
			if a.Kind == ActionTravel && a.City == c.City {
				c.Current = 1
			}
		case CondAccumulateGold:
			if a.Kind == ActionAssets && a.TotalAssets > 0 {
				c.Current = a.TotalAssets
			}
		}
		if c.Current >= c.Amount {
			out[i].Status = QuestCompleted
		}
	}
	return out
}

// CheckExpiredQuests fails every active quest whose deadline is strictly
// before now. A quest expiring this month is still open.
func CheckExpiredQuests(quests []Quest, now Date) []Quest {
	out := make([]Quest, len(quests))
	for i, q := range quests {
		out[i] = q
		if q.Status == QuestActive && q.ExpiresAt != nil && now.After(*q.ExpiresAt) {
			out[i].Status = QuestFailed
		}
	}
	return out
}

// QuestsByStatus partitions quests by status, preserving order.
func QuestsByStatus(quests []Quest) (active, completed, failed []Quest) {
	for _, q := range quests {
		switch q.Status {
		case QuestActive:
			active = append(active, q)
		case QuestCompleted:
			completed = append(completed, q)
		case QuestFailed:
			failed = append(failed, q)
		}
	}
	return active, completed, failed
}

// CompletedRewards sums the rewards of all completed quests. Display only.
func CompletedRewards(quests []Quest) Reward {
	var r Reward
	for _, q := range quests {
		if q.Status == QuestCompleted {
			r.Gold += q.Reward.Gold
			r.Reputation += q.Reward.Reputation
		}
	}
	return r
}
