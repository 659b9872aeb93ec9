package game

import "testing"

func TestInitialPricesDeterministic(t *testing.T) {
	u := DefaultUniverse()
	p := InitialPrices(u, nil)

	if got := p["리스본"]["와인"]; got != 210 {
		t.Fatalf("expected wine at its origin to cost 210, got %d", got)
	}
	if got := p["세비야"]["와인"]; got != 390 {
		t.Fatalf("expected wine away from its origin to cost 390, got %d", got)
	}

	again := InitialPrices(u, nil)
	for _, c := range u.Cities {
		for _, g := range u.Goods {
			if p[c.Key][g.Key] != again[c.Key][g.Key] {
				t.Fatalf("deterministic prices differ at %s/%s", c.Key, g.Key)
			}
			if p[c.Key][g.Key] <= 0 {
				t.Fatalf("expected positive price at %s/%s", c.Key, g.Key)
			}
		}
	}
}

func TestInitialPricesRandomFactor(t *testing.T) {
	u := DefaultUniverse()
	low := InitialPrices(u, seq().withRest(0))
	high := InitialPrices(u, seq().withRest(0.999999))

	if got := low["리스본"]["와인"]; got != 189 {
		t.Fatalf("expected round(300*0.7*0.9)=189, got %d", got)
	}
	if got := high["리스본"]["와인"]; got != 231 {
		t.Fatalf("expected round(300*0.7*1.1)=231, got %d", got)
	}
}

func TestApplyRumorsAndDrift(t *testing.T) {
	u := DefaultUniverse()
	base := InitialPrices(u, nil)

	tests := []struct {
		name  string
		rumor Rumor
		want  int
	}{
		{"demand", Rumor{City: "리스본", Good: "와인", Type: RumorDemand, Effect: 1.5}, 315},
		{"supply", Rumor{City: "리스본", Good: "와인", Type: RumorSupply, Effect: 0.7}, 150},
		{"monopoly", Rumor{City: "리스본", Good: "와인", Type: RumorMonopoly, Effect: 1.3}, 273},
		// Pirate and plague rumors are generated but never move prices.
		{"pirate ignored", Rumor{City: "리스본", Good: "와인", Type: RumorPirate, Effect: 1.5}, 210},
		{"plague ignored", Rumor{City: "리스본", Good: "와인", Type: RumorPlague, Effect: 0.5}, 210},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := ApplyRumorsAndDrift(u, base, []Rumor{tt.rumor}, seq())
			if got := next["리스본"]["와인"]; got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
			if base["리스본"]["와인"] != 210 {
				t.Fatalf("input table was modified")
			}
		})
	}
}

func TestApplyRumorsAndDriftClamps(t *testing.T) {
	u := DefaultUniverse()
	p := InitialPrices(u, nil)
	p["세비야"]["와인"] = 5000
	p["리스본"]["와인"] = 1

	next := ApplyRumorsAndDrift(u, p, nil, seq())
	if got := next["세비야"]["와인"]; got != 600 {
		t.Fatalf("expected non-origin ceiling 600, got %d", got)
	}
	if got := next["리스본"]["와인"]; got != 150 {
		t.Fatalf("expected origin floor 150, got %d", got)
	}

	// Repeated upward drift never escapes the bounds.
	up := seq().withRest(0.999999)
	for i := 0; i < 50; i++ {
		p = ApplyRumorsAndDrift(u, p, []Rumor{{City: "베네치아", Good: "총포", Type: RumorDemand, Effect: 1.5}}, up)
	}
	for _, c := range u.Cities {
		for i := range u.Goods {
			g := &u.Goods[i]
			lo, hi := priceBounds(g, c.Key)
			if v := p[c.Key][g.Key]; v < lo || v > hi {
				t.Fatalf("%s/%s = %d outside [%d, %d]", c.Key, g.Key, v, lo, hi)
			}
		}
	}
}
