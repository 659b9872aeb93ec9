package game

import "strings"

// RumorType classifies a rumor.
type RumorType string

const (
	RumorDemand   RumorType = "demand"
	RumorSupply   RumorType = "supply"
	RumorMonopoly RumorType = "monopoly"
	RumorPirate   RumorType = "pirate"
	RumorPlague   RumorType = "plague"
)

// AffectsPrice reports whether the price pass applies this rumor type.
// Pirate and plague rumors are flavor only.
func (t RumorType) AffectsPrice() bool {
	return t == RumorDemand || t == RumorSupply || t == RumorMonopoly
}

// Rumor is a generated market hint. Reliable is cosmetic: unreliable
// rumors still move prices.
type Rumor struct {
	Text     string    `json:"text"`
	City     CityID    `json:"city"`
	Good     GoodID    `json:"good"`
	Type     RumorType `json:"type"`
	Effect   float64   `json:"effect"`
	Reliable bool      `json:"reliable"`
}

// GenerateRumors draws rumors_per_turn rumors from random templates, cities and goods.
func GenerateRumors(u *Universe, rng Rand) []Rumor {
	n := u.Balance.RumorsPerTurn
	if n <= 0 || len(u.RumorTemplates) == 0 {
		return nil
	}
	rumors := make([]Rumor, 0, n)
	for i := 0; i < n; i++ {
		t := u.RumorTemplates[pick(rng, len(u.RumorTemplates))]
		city := u.Cities[pick(rng, len(u.Cities))].Key
		good := u.Goods[pick(rng, len(u.Goods))].Key

		text := strings.Replace(t.Text, "{city}", string(city), 1)
		text = strings.Replace(text, "{good}", string(good), 1)

		rumors = append(rumors, Rumor{
			Text:     text,
			City:     city,
			Good:     good,
			Type:     t.Type,
			Effect:   t.Effect,
			Reliable: rng.Float64() > 0.5,
		})
	}
	return rumors
}
