/*
Package game
File: universe.go
Description:
    Loads and validates the reference data ('universe.yaml').
    Validation happens in two passes:
    1. The raw document is checked against the embedded JSON Schema.
    2. Cross references (routes, origins, specialties, start city/ship) are resolved.
*/

package game

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed universe.yaml
var defaultUniverseYAML []byte

//go:embed universe.schema.json
var universeSchemaJSON string

const universeSchemaURL = "universe.schema.json"

var universeSchema = jsonschema.MustCompileString(universeSchemaURL, universeSchemaJSON)

// LoadUniverse reads and validates a reference-data file.
func LoadUniverse(path string) (*Universe, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	u, err := ParseUniverse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return u, nil
}

// DefaultUniverse returns the reference data compiled into the binary.
func DefaultUniverse() *Universe {
	u, err := ParseUniverse(defaultUniverseYAML)
	if err != nil {
		panic("embedded universe.yaml: " + err.Error())
	}
	return u
}

// ParseUniverse decodes YAML reference data and validates it.
func ParseUniverse(raw []byte) (*Universe, error) {
	if err := validateSchema(raw); err != nil {
		return nil, err
	}

	var u Universe
	if err := yaml.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidUniverse, err)
	}
	if err := u.index(); err != nil {
		return nil, err
	}
	if err := u.check(); err != nil {
		return nil, err
	}
	return &u, nil
}

// validateSchema checks the generic document shape. The YAML tree is
// round-tripped through JSON so the validator sees plain JSON values.
func validateSchema(raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidUniverse, err)
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidUniverse, err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidUniverse, err)
	}
	if err := universeSchema.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidUniverse, err)
	}
	return nil
}

func (u *Universe) index() error {
	u.cities = make(map[CityID]int, len(u.Cities))
	for i, c := range u.Cities {
		if _, dup := u.cities[c.Key]; dup {
			return fmt.Errorf("%w: duplicate city %q", ErrInvalidUniverse, c.Key)
		}
		u.cities[c.Key] = i
	}
	u.goods = make(map[GoodID]int, len(u.Goods))
	for i, g := range u.Goods {
		if _, dup := u.goods[g.Key]; dup {
			return fmt.Errorf("%w: duplicate good %q", ErrInvalidUniverse, g.Key)
		}
		u.goods[g.Key] = i
	}
	u.ships = make(map[ShipID]int, len(u.Ships))
	for i, s := range u.Ships {
		if _, dup := u.ships[s.Key]; dup {
			return fmt.Errorf("%w: duplicate ship %q", ErrInvalidUniverse, s.Key)
		}
		u.ships[s.Key] = i
	}
	u.upgrades = make(map[UpgradeID]int, len(u.Upgrades))
	for i, m := range u.Upgrades {
		if _, dup := u.upgrades[m.Key]; dup {
			return fmt.Errorf("%w: duplicate upgrade %q", ErrInvalidUniverse, m.Key)
		}
		u.upgrades[m.Key] = i
	}

	// Titles are matched from the highest threshold down.
	sort.SliceStable(u.Titles, func(i, j int) bool {
		return u.Titles[i].Threshold > u.Titles[j].Threshold
	})
	return nil
}

// check resolves every cross reference and sanity-checks the balance constants.
func (u *Universe) check() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	for _, c := range u.Cities {
		if _, ok := u.goods[c.Specialty]; !ok {
			add("city %q: unknown specialty %q", c.Key, c.Specialty)
		}
		seen := make(map[CityID]bool, len(c.Routes))
		for _, r := range c.Routes {
			if _, ok := u.cities[r.To]; !ok {
				add("city %q: route to unknown city %q", c.Key, r.To)
			}
			if r.To == c.Key {
				add("city %q: route to itself", c.Key)
			}
			if seen[r.To] {
				add("city %q: duplicate route to %q", c.Key, r.To)
			}
			seen[r.To] = true
		}
	}
	for _, g := range u.Goods {
		if g.BasePrice <= 0 {
			add("good %q: base price must be positive", g.Key)
		}
		for _, o := range g.Origins {
			if _, ok := u.cities[o]; !ok {
				add("good %q: unknown origin %q", g.Key, o)
			}
		}
	}
	for _, s := range u.ShipyardCities {
		if _, ok := u.cities[s]; !ok {
			add("shipyard in unknown city %q", s)
		}
	}
	if _, ok := u.cities[u.StartCity]; !ok {
		add("unknown start city %q", u.StartCity)
	}
	if _, ok := u.ships[u.StartShip]; !ok {
		add("unknown start ship %q", u.StartShip)
	}
	// Every speed upgrade stacked on the slowest hull must still cost something to sail.
	boost := decimal.Zero
	for _, m := range u.Upgrades {
		if m.StatModifier == StatSpeed && m.StatValue < 0 {
			boost = boost.Add(decimal.NewFromFloat(m.StatValue))
		}
	}
	for _, s := range u.Ships {
		if decimal.NewFromFloat(s.Speed).Add(boost).Sign() <= 0 {
			add("ship %q: speed %v with every speed upgrade is not positive", s.Key, s.Speed)
		}
	}
	for _, t := range u.QuestTemplates {
		if t.Condition == CondVisitCity || t.Condition == CondDeliverGoods {
			if len(u.Cities) < 2 {
				add("quest template %q needs at least two cities", t.Name)
			}
		}
	}
	if len(u.Titles) == 0 || u.Titles[len(u.Titles)-1].Threshold != 0 {
		add("titles need a 0 threshold floor")
	}

	b := u.Balance
	if b.MinCrew > b.MaxCrew {
		add("min_crew %d exceeds max_crew %d", b.MinCrew, b.MaxCrew)
	}
	if b.InitialCrew < b.MinCrew || b.InitialCrew > b.MaxCrew {
		add("initial_crew %d outside [%d, %d]", b.InitialCrew, b.MinCrew, b.MaxCrew)
	}
	if b.LogRetention <= 0 {
		add("log_retention must be positive")
	}
	if b.MaxActiveQuests <= 0 {
		add("max_active_quests must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidUniverse, strings.Join(problems, "; "))
	}
	return nil
}
