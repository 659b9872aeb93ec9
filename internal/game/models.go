/*
Package game
File: models.go
Description:
    Defines the reference-data structures of the Age of Sail universe.
    These map directly to 'universe.yaml' and to the JSON API responses.

    Reference data is loaded once (see universe.go) and never mutated by the
    engine. Runtime state lives in state.go.
*/

package game

// Typed identifiers. Every id is validated against the Universe at load time,
// so a lookup that fails at runtime means the caller passed an unknown id.
type (
	CityID    string
	GoodID    string
	ShipID    string
	UpgradeID string
)

// Balance stores the numeric tuning constants loaded from 'universe.yaml'.
type Balance struct {
	InitialGold          int `yaml:"initial_gold" json:"initial_gold"`
	InitialYear          int `yaml:"initial_year" json:"initial_year"`
	InitialMonth         int `yaml:"initial_month" json:"initial_month"`
	InitialShipCondition int `yaml:"initial_ship_condition" json:"initial_ship_condition"`
	InitialCrew          int `yaml:"initial_crew" json:"initial_crew"`
	MaxCrew              int `yaml:"max_crew" json:"max_crew"`
	MinCrew              int `yaml:"min_crew" json:"min_crew"`

	MinConditionForTravel int `yaml:"min_ship_condition_for_travel" json:"min_ship_condition_for_travel"`
	RepairCostPerPoint    int `yaml:"repair_cost_per_point" json:"repair_cost_per_point"`
	CrewHireCount         int `yaml:"crew_hire_count" json:"crew_hire_count"`
	CrewHireCost          int `yaml:"crew_hire_cost" json:"crew_hire_cost"` // Per sailor

	TravelBaseCostPerDistance int `yaml:"travel_base_cost_per_distance" json:"travel_base_cost_per_distance"`
	TravelCrewCostPerDistance int `yaml:"travel_crew_cost_per_distance" json:"travel_crew_cost_per_distance"`

	// Hazards
	PirateGoldLossRate  float64 `yaml:"pirate_gold_loss_rate" json:"pirate_gold_loss_rate"`
	StormShipDamage     int     `yaml:"storm_ship_damage" json:"storm_ship_damage"`
	StormCargoLossRate  float64 `yaml:"storm_cargo_loss_rate" json:"storm_cargo_loss_rate"`
	IllnessCrewLossRate float64 `yaml:"illness_crew_loss_rate" json:"illness_crew_loss_rate"`

	// Stock tiers
	StockBase          int     `yaml:"stock_base" json:"stock_base"`
	StockSpecialty     int     `yaml:"stock_specialty" json:"stock_specialty"`
	StockRare          int     `yaml:"stock_rare" json:"stock_rare"`
	StockRareDistance  int     `yaml:"stock_rare_distance" json:"stock_rare_distance"` // Nearest origin farther than this is "rare"
	StockRefillRate    float64 `yaml:"stock_refill_rate" json:"stock_refill_rate"`       // Fraction of base stock restored per month
	StockMaxMultiplier float64 `yaml:"stock_max_multiplier" json:"stock_max_multiplier"` // Max stock = base stock * multiplier

	MaxActiveQuests          int `yaml:"max_active_quests" json:"max_active_quests"`
	InitialQuests            int `yaml:"initial_quests" json:"initial_quests"`
	AbandonReputationPenalty int `yaml:"abandon_reputation_penalty" json:"abandon_reputation_penalty"`
	LogRetention             int `yaml:"log_retention" json:"log_retention"`
	RumorsPerTurn            int `yaml:"rumors_per_turn" json:"rumors_per_turn"`

	// The copper plating upgrade grants a flat durability bonus on top of its stat modifier.
	CopperPlatingUpgrade UpgradeID `yaml:"copper_plating_upgrade" json:"copper_plating_upgrade"`
	CopperPlatingBonus   int       `yaml:"copper_plating_bonus" json:"copper_plating_bonus"`
}

// Route is one outgoing sea lane. Lanes are stored per direction; the engine
// never assumes the reverse lane has the same distance or risk.
type Route struct {
	To       CityID  `yaml:"to" json:"to"`
	Distance int     `yaml:"distance" json:"distance"` // Months at sea
	Risk     float64 `yaml:"risk" json:"risk"`         // Hazard chance in percent (0-100)
}

// City is a port (node) on the sea map.
type City struct {
	Key         CityID  `yaml:"key" json:"key"`
	Description string  `yaml:"description" json:"description"`
	Specialty   GoodID  `yaml:"specialty" json:"specialty"`
	Routes      []Route `yaml:"routes" json:"routes"`
}

// Good is a tradeable commodity.
type Good struct {
	Key        GoodID   `yaml:"key" json:"key"`
	BasePrice  int      `yaml:"base_price" json:"base_price"`
	Origins    []CityID `yaml:"origins" json:"origins"` // Cities producing this good (cheap there)
	Perishable bool     `yaml:"perishable" json:"perishable"`
	Icon       string   `yaml:"icon" json:"icon"`
}

// ShipProfile is the static description of a purchasable hull.
type ShipProfile struct {
	Key           ShipID  `yaml:"key" json:"key"`
	Icon          string  `yaml:"icon" json:"icon"`
	Description   string  `yaml:"description" json:"description"`
	Price         int     `yaml:"price" json:"price"`
	MaxCargo      int     `yaml:"max_cargo" json:"max_cargo"`
	Speed         float64 `yaml:"speed" json:"speed"` // Travel cost multiplier; lower is faster
	Durability    int     `yaml:"durability" json:"durability"`
	PirateDefense float64 `yaml:"pirate_defense" json:"pirate_defense"` // Percent chance to repel pirates
}

// Stat names an upgradable ship statistic.
type Stat string

const (
	StatCargo         Stat = "cargo"
	StatSpeed         Stat = "speed"
	StatDurability    Stat = "durability"
	StatPirateDefense Stat = "pirate_defense"
)

// Upgrade is an installable ship improvement. Each one adds StatValue to a single stat.
type Upgrade struct {
	Key          UpgradeID `yaml:"key" json:"key"`
	Name         string    `yaml:"name" json:"name"`
	Icon         string    `yaml:"icon" json:"icon"`
	Description  string    `yaml:"description" json:"description"`
	Price        int       `yaml:"price" json:"price"`
	StatModifier Stat      `yaml:"stat_modifier" json:"stat_modifier"`
	StatValue    float64   `yaml:"stat_value" json:"stat_value"`
}

// Difficulty scales quest targets and rewards.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// ByDifficulty is a per-difficulty lookup row.
type ByDifficulty struct {
	Easy   float64 `yaml:"easy" json:"easy"`
	Medium float64 `yaml:"medium" json:"medium"`
	Hard   float64 `yaml:"hard" json:"hard"`
}

// Get returns the value for d, or def when d is unknown.
func (b ByDifficulty) Get(d Difficulty, def float64) float64 {
	switch d {
	case Easy:
		return b.Easy
	case Medium:
		return b.Medium
	case Hard:
		return b.Hard
	}
	return def
}

// QuestTuning holds the target-amount table and reward multipliers.
type QuestTuning struct {
	Amounts           map[ConditionType]ByDifficulty `yaml:"amounts" json:"amounts"`
	DefaultAmount     int                            `yaml:"default_amount" json:"default_amount"`
	RewardMultipliers ByDifficulty                   `yaml:"reward_multipliers" json:"reward_multipliers"`
}

// QuestTemplate is the blueprint quests are generated from.
// Name and Description may contain {good}, {city} and {amount} placeholders.
type QuestTemplate struct {
	Type        QuestType     `yaml:"type" json:"type"`
	Name        string        `yaml:"name" json:"name"`
	Description string        `yaml:"description" json:"description"`
	Icon        string        `yaml:"icon" json:"icon"`
	Giver       string        `yaml:"giver" json:"giver"`
	Condition   ConditionType `yaml:"condition" json:"condition"`
	Reward      Reward        `yaml:"reward" json:"reward"`
	TimeLimit   int           `yaml:"time_limit" json:"time_limit,omitempty"` // Months; 0 means no limit
	Difficulty  Difficulty    `yaml:"difficulty" json:"difficulty"`
}

// RumorTemplate is the blueprint rumors are generated from.
type RumorTemplate struct {
	Text   string    `yaml:"text" json:"text"`
	Type   RumorType `yaml:"type" json:"type"`
	Effect float64   `yaml:"effect" json:"effect"`
}

// Title is a rank label unlocked by total assets.
type Title struct {
	Threshold int    `yaml:"threshold" json:"threshold"`
	Title     string `yaml:"title" json:"title"`
	Icon      string `yaml:"icon" json:"icon"`
	Color     string `yaml:"color" json:"color"`
}

// Universe is the root reference-data bundle, mapping to the entire 'universe.yaml' file.
type Universe struct {
	Balance        Balance         `yaml:"game_balance" json:"game_balance"`
	StartCity      CityID          `yaml:"start_city" json:"start_city"`
	StartShip      ShipID          `yaml:"start_ship" json:"start_ship"`
	ShipyardCities []CityID        `yaml:"shipyard_cities" json:"shipyard_cities"`
	Cities         []City          `yaml:"cities" json:"cities"`
	Goods          []Good          `yaml:"goods" json:"goods"`
	Ships          []ShipProfile   `yaml:"ships" json:"ships"`
	Upgrades       []Upgrade       `yaml:"ship_upgrades" json:"ship_upgrades"`
	QuestTuning    QuestTuning     `yaml:"quest_tuning" json:"quest_tuning"`
	QuestTemplates []QuestTemplate `yaml:"quest_templates" json:"quest_templates"`
	RumorTemplates []RumorTemplate `yaml:"rumor_templates" json:"rumor_templates"`
	Titles         []Title         `yaml:"titles" json:"titles"` // Sorted by descending threshold after load

	// Lookup indexes, built by index().
	cities   map[CityID]int
	goods    map[GoodID]int
	ships    map[ShipID]int
	upgrades map[UpgradeID]int
}
