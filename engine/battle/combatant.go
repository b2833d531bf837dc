package battle

import (
	"github.com/nathoo/tallgrass/engine/dex"
	"github.com/nathoo/tallgrass/types"
)

// MaxMoves is the size of an active move-set.
const MaxMoves = 4

// Combatant is the mutable battle state of one creature.
type Combatant struct {
	SpeciesID  string             `json:"species"`
	Name       string             `json:"name"`
	Types      []string           `json:"types"`
	Base       types.Stats        `json:"base"`
	Level      int                `json:"level"`
	Experience int                `json:"experience"`
	Stats      types.Stats        `json:"stats"` // snapshot of StatsAtLevel(Base, Level)
	HP         int                `json:"hp"`
	Status     types.Status       `json:"status,omitempty"`
	Stages     map[types.Stat]int `json:"stages,omitempty"`
	Protected  bool               `json:"protected,omitempty"`
	Moves      []string           `json:"moves"`
}

// New creates a full-health combatant of the given species and level using
// the default experience curve. With no moves, the first four of the
// species learnset are used.
func New(sp dex.Species, level int, moves []string) *Combatant {
	return DefaultCurve.Spawn(sp, level, moves)
}

// Fainted reports whether the combatant is at 0 HP.
func (c *Combatant) Fainted() bool {
	return c.HP <= 0
}

// MaxHP returns the max HP at the current level.
func (c *Combatant) MaxHP() int {
	return c.Stats.HP
}

// HPRatio returns current over max HP in [0, 1].
func (c *Combatant) HPRatio() float64 {
	if c.Stats.HP <= 0 {
		return 0
	}
	return float64(c.HP) / float64(c.Stats.HP)
}

// HasType reports whether the combatant carries type t.
func (c *Combatant) HasType(t string) bool {
	for _, ct := range c.Types {
		if ct == t {
			return true
		}
	}
	return false
}

// Stage returns the current stage of a stat.
func (c *Combatant) Stage(stat types.Stat) int {
	return c.Stages[stat]
}

// ShiftStage adds delta to a stat stage, clamped to [-6, 6]. It returns the
// change actually applied, which is 0 when the stage was already at the
// bound in that direction.
func (c *Combatant) ShiftStage(stat types.Stat, delta int) int {
	if c.Stages == nil {
		c.Stages = map[types.Stat]int{}
	}
	before := c.Stages[stat]
	after := ClampStage(before + delta)
	if after == 0 {
		delete(c.Stages, stat)
	} else {
		c.Stages[stat] = after
	}
	return after - before
}

// ResetStages drops all stat stages.
func (c *Combatant) ResetStages() {
	c.Stages = map[types.Stat]int{}
}

// TakeDamage lowers HP by n, never below zero. Returns the HP lost.
func (c *Combatant) TakeDamage(n int) int {
	if n <= 0 {
		return 0
	}
	if n > c.HP {
		n = c.HP
	}
	c.HP -= n
	return n
}

// Heal raises HP by n, capped at max HP. Fainted combatants cannot be
// healed this way. Returns the HP restored.
func (c *Combatant) Heal(n int) int {
	if n <= 0 || c.Fainted() {
		return 0
	}
	if c.HP+n > c.Stats.HP {
		n = c.Stats.HP - c.HP
	}
	c.HP += n
	return n
}

// Restore brings the combatant back to full health and clears every
// battle modifier, reviving it if it had fainted.
func (c *Combatant) Restore() {
	c.Stats = StatsAtLevel(c.Base, c.Level)
	c.HP = c.Stats.HP
	c.Status = types.StatusNone
	c.Protected = false
	c.ResetStages()
}

// Clone returns a deep copy.
func (c *Combatant) Clone() *Combatant {
	cp := *c
	cp.Types = append([]string(nil), c.Types...)
	cp.Moves = append([]string(nil), c.Moves...)
	cp.Stages = make(map[types.Stat]int, len(c.Stages))
	for k, v := range c.Stages {
		cp.Stages[k] = v
	}
	return &cp
}

// MoveAt returns the move name in slot i.
func (c *Combatant) MoveAt(i int) (string, bool) {
	if i < 0 || i >= len(c.Moves) {
		return "", false
	}
	return c.Moves[i], true
}
