// Package battle implements combat resolution: stats at level, damage,
// status moves, residual damage and experience.
package battle

import "github.com/nathoo/tallgrass/types"

// Stage bounds for stat modifiers.
const (
	MinStage = -6
	MaxStage = 6
)

// StatsAtLevel derives the stat block of a creature from its species base
// stats. It is the only source of truth for max stats: snapshots must be
// recomputed whenever the level changes.
//
//	hp    = 3*base*L/100 + L + 10
//	other = 3*base*L/100 + L + 5
func StatsAtLevel(base types.Stats, level int) types.Stats {
	if level < 1 {
		level = 1
	}
	scale := func(b int) int {
		if b < 0 {
			b = 0
		}
		return (3*b*level)/100 + level
	}
	return types.Stats{
		HP:        scale(base.HP) + 10,
		Attack:    scale(base.Attack) + 5,
		Defense:   scale(base.Defense) + 5,
		SpAttack:  scale(base.SpAttack) + 5,
		SpDefense: scale(base.SpDefense) + 5,
		Speed:     scale(base.Speed) + 5,
	}
}

// StageMultiplier converts a stat stage into a multiplier: (2+s)/2 for
// s >= 0, 2/(2+|s|) below zero. Stages outside [-6, 6] are clamped first.
func StageMultiplier(stage int) float64 {
	stage = ClampStage(stage)
	if stage >= 0 {
		return float64(2+stage) / 2
	}
	return 2 / float64(2-stage)
}

// ClampStage limits a stage to [MinStage, MaxStage].
func ClampStage(stage int) int {
	if stage < MinStage {
		return MinStage
	}
	if stage > MaxStage {
		return MaxStage
	}
	return stage
}

// StatValue reads one stat out of a block.
func StatValue(s types.Stats, stat types.Stat) int {
	switch stat {
	case types.StatHP:
		return s.HP
	case types.StatAttack:
		return s.Attack
	case types.StatDefense:
		return s.Defense
	case types.StatSpAttack:
		return s.SpAttack
	case types.StatSpDefense:
		return s.SpDefense
	case types.StatSpeed:
		return s.Speed
	}
	return 0
}

// AllStats lists the stats in display order.
var AllStats = []types.Stat{
	types.StatHP, types.StatAttack, types.StatDefense,
	types.StatSpAttack, types.StatSpDefense, types.StatSpeed,
}
