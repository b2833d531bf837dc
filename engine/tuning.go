package engine

// Rewards are the per-step reward components.
type Rewards struct {
	GoalHigh    float64 `yaml:"goal_high"`    // goal reached at or above TargetLevel
	GoalLow     float64 `yaml:"goal_low"`     // goal reached below TargetLevel
	WinLow      float64 `yaml:"win_low"`      // battle won below WinLevelCap
	WinHigh     float64 `yaml:"win_high"`     // battle won at or above WinLevelCap
	Step        float64 `yaml:"step"`         // every valid exploration move
	Grass       float64 `yaml:"grass"`        // replaces Step on grass below TargetLevel
	DamageScale float64 `yaml:"damage_scale"` // combat turn reward per point of damage dealt
	Wall        float64 `yaml:"wall"`
	Invalid     float64 `yaml:"invalid"`
	Faint       float64 `yaml:"faint"`
}

// Tuning holds every environment constant.
type Tuning struct {
	Seed          int64   `yaml:"seed"`
	Starter       string  `yaml:"starter"`
	StarterLevel  int     `yaml:"starter_level"`
	EncounterRate float64 `yaml:"encounter_rate"`
	TargetLevel   int     `yaml:"target_level"`
	WinLevelCap   int     `yaml:"win_level_cap"`
	WildLevelBase int     `yaml:"wild_level_base"` // lowest wild level on map 0
	WildLevelStep int     `yaml:"wild_level_step"` // added per map index
	WildLevelSpan int     `yaml:"wild_level_span"` // highest minus lowest
	FleeTarget    int     `yaml:"flee_target"`     // 1d6 roll needed to escape
	Rewards       Rewards `yaml:"rewards"`
}

// DefaultTuning returns the stock constants.
func DefaultTuning() Tuning {
	return Tuning{
		Seed:          1,
		Starter:       "charmander",
		StarterLevel:  5,
		EncounterRate: 0.2,
		TargetLevel:   25,
		WinLevelCap:   30,
		WildLevelBase: 3,
		WildLevelStep: 5,
		WildLevelSpan: 3,
		FleeTarget:    4,
		Rewards: Rewards{
			GoalHigh:    500,
			GoalLow:     150,
			WinLow:      100,
			WinHigh:     20,
			Step:        -0.01,
			Grass:       0.1,
			DamageScale: 0.05,
			Wall:        -0.5,
			Invalid:     -0.5,
			Faint:       -50,
		},
	}
}

// WildLevels returns the inclusive wild level band of a map.
func (t Tuning) WildLevels(mapIndex int) (lo, hi int) {
	lo = t.WildLevelBase + t.WildLevelStep*mapIndex
	if lo < 1 {
		lo = 1
	}
	hi = lo + t.WildLevelSpan
	return lo, hi
}

func (t Tuning) goalReward(level int) float64 {
	if level >= t.TargetLevel {
		return t.Rewards.GoalHigh
	}
	return t.Rewards.GoalLow
}

func (t Tuning) winReward(level int) float64 {
	if level < t.WinLevelCap {
		return t.Rewards.WinLow
	}
	return t.Rewards.WinHigh
}
