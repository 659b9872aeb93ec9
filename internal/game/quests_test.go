package game

import (
	"strings"
	"testing"
)

func TestDateAdd(t *testing.T) {
	tests := []struct {
		from   Date
		months int
		want   Date
	}{
		{Date{1492, 1}, 3, Date{1492, 4}},
		{Date{1492, 11}, 3, Date{1493, 2}},
		{Date{1492, 12}, 0, Date{1492, 12}},
		{Date{1492, 6}, 12, Date{1493, 6}},
		{Date{1492, 1}, 40, Date{1495, 5}},
	}
	for _, tt := range tests {
		if got := tt.from.Add(tt.months); got != tt.want {
			t.Fatalf("%s + %d: expected %s, got %s", tt.from, tt.months, tt.want, got)
		}
	}
}

func TestGenerateQuestFromTemplate(t *testing.T) {
	u := DefaultUniverse()
	// Template 1 (urgent delivery, medium), first non-current city, first good.
	q := GenerateQuest(u, seq(0.2, 0, 0), Date{1492, 1}, "리스본", nil)

	if q.Condition.Type != CondDeliverGoods {
		t.Fatalf("expected deliver_goods, got %s", q.Condition.Type)
	}
	if q.Condition.City != "세비야" || q.Condition.Good != "향신료" || q.Condition.Amount != 25 {
		t.Fatalf("unexpected condition %+v", q.Condition)
	}
	if q.Reward.Gold != 7500 || q.Reward.Reputation != 30 {
		t.Fatalf("expected medium reward 7500/30, got %+v", q.Reward)
	}
	if q.ExpiresAt == nil || *q.ExpiresAt != (Date{1492, 4}) {
		t.Fatalf("expected expiry 1492-04, got %v", q.ExpiresAt)
	}
	if q.Description != "향신료 25개를 세비야로 긴급 배달! 빠른 배송 필수!" {
		t.Fatalf("unexpected description %q", q.Description)
	}
	if q.Status != QuestActive || q.GiverCity != "리스본" || q.Condition.Current != 0 {
		t.Fatalf("unexpected quest %+v", q)
	}
	if !strings.HasPrefix(q.ID, "quest_") {
		t.Fatalf("unexpected id %q", q.ID)
	}
}

func TestGenerateQuestPlaceholders(t *testing.T) {
	u := DefaultUniverse()

	q := GenerateQuest(u, seq(0, 0, 0), Date{1492, 1}, "리스본", nil)
	if q.Name != "🌶️ 향신료 배달 의뢰" {
		t.Fatalf("unexpected name %q", q.Name)
	}

	// Wealth quests have no deadline and a thousands-separated amount.
	w := GenerateQuest(u, seq(0.9, 0, 0), Date{1492, 1}, "리스본", nil)
	if w.Condition.Type != CondAccumulateGold || w.Condition.Amount != 100000 {
		t.Fatalf("unexpected condition %+v", w.Condition)
	}
	if w.ExpiresAt != nil {
		t.Fatalf("expected no expiry, got %v", w.ExpiresAt)
	}
	if w.Description != "총 자산 100,000 두카트를 달성하세요." {
		t.Fatalf("unexpected description %q", w.Description)
	}
	if w.Reward.Gold != 12500 {
		t.Fatalf("expected hard reward 12500, got %d", w.Reward.Gold)
	}
}

func TestGenerateQuestNeverTargetsCurrentCity(t *testing.T) {
	u := DefaultUniverse()
	rng := NewRand(42)
	for i := 0; i < 500; i++ {
		q := GenerateQuest(u, rng, Date{1492, 1}, "베네치아", nil)
		if q.Condition.City == "베네치아" {
			t.Fatalf("quest %q targets the current city", q.Name)
		}
	}
}

func TestInitialQuestsUniqueIDs(t *testing.T) {
	u := DefaultUniverse()
	qs := InitialQuests(u, NewRand(1), Date{1492, 1}, "리스본")
	if len(qs) != 3 {
		t.Fatalf("expected 3 quests, got %d", len(qs))
	}
	seen := map[string]bool{}
	for _, q := range qs {
		if seen[q.ID] {
			t.Fatalf("duplicate id %s", q.ID)
		}
		seen[q.ID] = true
	}
}

func deliverQuest() Quest {
	return Quest{
		ID:        "q-deliver",
		Condition: Condition{Type: CondDeliverGoods, Good: "비단", City: "베네치아", Amount: 25},
		Status:    QuestActive,
	}
}

func TestUpdateQuestProgressDeliver(t *testing.T) {
	quests := []Quest{deliverQuest()}

	wrongCity := UpdateQuestProgress(quests, QuestAction{Kind: ActionSell, Good: "비단", Quantity: 25, City: "리스본"})
	if wrongCity[0].Condition.Current != 0 || wrongCity[0].Status != QuestActive {
		t.Fatalf("sale in the wrong city progressed the quest: %+v", wrongCity[0])
	}

	bought := UpdateQuestProgress(quests, QuestAction{Kind: ActionBuy, Good: "비단", Quantity: 25, City: "베네치아"})
	if bought[0].Condition.Current != 0 {
		t.Fatalf("a purchase progressed a delivery quest")
	}

	done := UpdateQuestProgress(quests, QuestAction{Kind: ActionSell, Good: "비단", Quantity: 25, City: "베네치아"})
	if done[0].Condition.Current != 25 || done[0].Status != QuestCompleted {
		t.Fatalf("expected completed with 25, got %+v", done[0])
	}
	if quests[0].Condition.Current != 0 {
		t.Fatalf("input slice was modified")
	}
}

func TestUpdateQuestProgressKinds(t *testing.T) {
	quests := []Quest{
		{ID: "amount", Status: QuestActive, Condition: Condition{Type: CondTradeAmount, Good: "와인", Amount: 30}},
		{ID: "count", Status: QuestActive, Condition: Condition{Type: CondTradeCount, Amount: 2}},
		{ID: "visit", Status: QuestActive, Condition: Condition{Type: CondVisitCity, City: "세비야", Amount: 1}},
		{ID: "gold", Status: QuestActive, Condition: Condition{Type: CondAccumulateGold, Amount: 20000}},
		{ID: "failed", Status: QuestFailed, Condition: Condition{Type: CondTradeCount, Amount: 1}},
	}

	quests = UpdateQuestProgress(quests, QuestAction{Kind: ActionBuy, Good: "와인", Quantity: 20, City: "리스본"})
	quests = UpdateQuestProgress(quests, QuestAction{Kind: ActionSell, Good: "와인", Quantity: 10, City: "세비야"})
	quests = UpdateQuestProgress(quests, QuestAction{Kind: ActionTravel, City: "세비야"})
	quests = UpdateQuestProgress(quests, QuestAction{Kind: ActionTravel, City: "세비야"})
	quests = UpdateQuestProgress(quests, QuestAction{Kind: ActionAssets, TotalAssets: 12000})
	quests = UpdateQuestProgress(quests, QuestAction{Kind: ActionAssets, TotalAssets: 9000})

	want := map[string]struct {
		current int
		status  QuestStatus
	}{
		"amount": {30, QuestCompleted},
		"count":  {2, QuestCompleted},
		"visit":  {1, QuestCompleted},
		"gold":   {9000, QuestActive},
		"failed": {0, QuestFailed},
	}
	for _, q := range quests {
		w := want[q.ID]
		if q.Condition.Current != w.current || q.Status != w.status {
			t.Fatalf("%s: expected %d/%s, got %d/%s", q.ID, w.current, w.status, q.Condition.Current, q.Status)
		}
	}
}

func TestCheckExpiredQuests(t *testing.T) {
	exp := Date{1492, 4}
	quests := []Quest{
		{ID: "a", Status: QuestActive, ExpiresAt: &exp},
		{ID: "b", Status: QuestCompleted, ExpiresAt: &exp},
		{ID: "c", Status: QuestActive},
	}

	same := CheckExpiredQuests(quests, Date{1492, 4})
	if same[0].Status != QuestActive {
		t.Fatalf("quest expired in its final month")
	}

	later := CheckExpiredQuests(quests, Date{1492, 5})
	if later[0].Status != QuestFailed {
		t.Fatalf("expected failed, got %s", later[0].Status)
	}
	if later[1].Status != QuestCompleted || later[2].Status != QuestActive {
		t.Fatalf("expiry touched a quest it should not: %+v", later)
	}
	if quests[0].Status != QuestActive {
		t.Fatalf("input slice was modified")
	}
}

func TestQuestPartitionsAndRewards(t *testing.T) {
	quests := []Quest{
		{ID: "a", Status: QuestActive, Reward: Reward{Gold: 100}},
		{ID: "b", Status: QuestCompleted, Reward: Reward{Gold: 2000, Reputation: 10}},
		{ID: "c", Status: QuestCompleted, Reward: Reward{Gold: 500, Reputation: 5}},
		{ID: "d", Status: QuestFailed, Reward: Reward{Gold: 900}},
	}
	a, c, f := QuestsByStatus(quests)
	if len(a) != 1 || len(c) != 2 || len(f) != 1 {
		t.Fatalf("unexpected partition %d/%d/%d", len(a), len(c), len(f))
	}
	if r := CompletedRewards(quests); r.Gold != 2500 || r.Reputation != 15 {
		t.Fatalf("expected 2500/15, got %+v", r)
	}
}
