// Package types defines the shared data structures for the tallgrass simulator.
// This package contains only type definitions, no logic and no methods.
package types

// Stat names a battle statistic. The values double as keys in content files.
type Stat string

const (
	StatHP        Stat = "hp"
	StatAttack    Stat = "attack"
	StatDefense   Stat = "defense"
	StatSpAttack  Stat = "special-attack"
	StatSpDefense Stat = "special-defense"
	StatSpeed     Stat = "speed"
)

// Stats is a full stat block, used both for species base stats and for
// stats-at-level snapshots.
type Stats struct {
	HP        int `json:"hp"`
	Attack    int `json:"attack"`
	Defense   int `json:"defense"`
	SpAttack  int `json:"special-attack"`
	SpDefense int `json:"special-defense"`
	Speed     int `json:"speed"`
}

// Status is a persistent status condition. The zero value means healthy.
type Status string

const (
	StatusNone      Status = ""
	StatusParalyzed Status = "paralyzed"
	StatusPoisoned  Status = "poisoned"
	StatusAsleep    Status = "asleep"
	StatusBurned    Status = "burned"
	StatusFrozen    Status = "frozen"
)

// Category selects which stat pair a move uses.
type Category string

const (
	CategoryPhysical Category = "physical"
	CategorySpecial  Category = "special"
	CategoryStatus   Category = "status"
)

// Mode is the environment's current mode.
type Mode string

const (
	ModeExploration Mode = "exploration"
	ModeCombat      Mode = "combat"
)

// Tile is a world grid cell code. Values match the original map encoding.
type Tile int

const (
	TilePath  Tile = 0
	TileWall  Tile = 1
	TileGrass Tile = 2
	TileGoal  Tile = 9
)

// Effectiveness tags a damage roll for display.
type Effectiveness string

const (
	EffectNeutral     Effectiveness = "neutral"
	EffectSuper       Effectiveness = "super-effective"
	EffectNotVery     Effectiveness = "not-very-effective"
	EffectNone        Effectiveness = "no-effect"
	EffectUnavailable Effectiveness = "" // the move dealt no damage at all
)

// Event is emitted by a step for logging, tracing, and higher layers.
type Event struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}

// Observation is what a policy sees after every step.
// Exactly one of Grid and Vector is populated, matching Mode.
type Observation struct {
	Mode   Mode          `json:"mode"`
	Grid   [][][]float32 `json:"grid,omitempty"`   // channel, row, col
	Vector []float32     `json:"vector,omitempty"` // combat scalars
}

// Result is the output of a single environment step.
type Result struct {
	Observation Observation    `json:"observation"`
	Reward      float64        `json:"reward"`
	Done        bool           `json:"done"`
	Info        map[string]any `json:"info"`
	Events      []Event        `json:"events,omitempty"`
	Output      []string       `json:"output,omitempty"`
}
