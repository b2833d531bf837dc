package battle

import (
	"github.com/nathoo/tallgrass/engine/dex"
	"github.com/nathoo/tallgrass/types"
)

// MaxLevel caps leveling.
const MaxLevel = 100

// Curve holds the experience tuning constants.
type Curve struct {
	XPPerLevel  int // xp awarded per level of the defeated combatant
	XPThreshold int // leveling from L to L+1 takes L*XPThreshold xp
}

// DefaultCurve levels a starter roughly once per fair fight.
var DefaultCurve = Curve{XPPerLevel: 80, XPThreshold: 100}

// Floor returns the cumulative experience of a combatant that has just
// reached the given level.
func (cv Curve) Floor(level int) int {
	if level <= 1 {
		return 0
	}
	return cv.XPThreshold * level * (level - 1) / 2
}

// Spawn creates a full-health combatant at the floor of its level.
func (cv Curve) Spawn(sp dex.Species, level int, moves []string) *Combatant {
	if level < 1 {
		level = 1
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	if len(moves) == 0 {
		moves = sp.Moves
	}
	if len(moves) > MaxMoves {
		moves = moves[:MaxMoves]
	}
	if len(moves) == 0 {
		moves = []string{dex.Struggle.Name}
	}
	c := &Combatant{
		SpeciesID:  sp.ID,
		Name:       sp.Name,
		Types:      append([]string(nil), sp.Types...),
		Base:       sp.Base,
		Level:      level,
		Experience: cv.Floor(level),
		Moves:      append([]string(nil), moves...),
	}
	c.Restore()
	return c
}

// LevelUp is the result of GainExperience.
type LevelUp struct {
	XP        int
	LeveledUp bool
	Levels    int         // how many levels were gained
	Previous  types.Stats // stats before the first level-up
}

// GainExperience awards xp for defeating a combatant of defeatedLevel and
// applies every level-up it pays for. Each level-up recomputes stats,
// raises current HP by the max-HP gain, and clears status and stages.
func (cv Curve) GainExperience(winner *Combatant, defeatedLevel int) LevelUp {
	if defeatedLevel < 1 {
		defeatedLevel = 1
	}
	res := LevelUp{XP: defeatedLevel * cv.XPPerLevel, Previous: winner.Stats}
	winner.Experience += res.XP

	for winner.Level < MaxLevel && winner.Experience >= cv.Floor(winner.Level+1) {
		oldMax := winner.Stats.HP
		winner.Level++
		winner.Stats = StatsAtLevel(winner.Base, winner.Level)
		if !winner.Fainted() {
			winner.HP += winner.Stats.HP - oldMax
		}
		if winner.HP > winner.Stats.HP {
			winner.HP = winner.Stats.HP
		}
		winner.Status = types.StatusNone
		winner.ResetStages()
		res.Levels++
	}
	res.LeveledUp = res.Levels > 0
	return res
}

// GainExperience applies DefaultCurve.
func GainExperience(winner *Combatant, defeatedLevel int) LevelUp {
	return DefaultCurve.GainExperience(winner, defeatedLevel)
}

// ToNextLevel returns how much xp the combatant still needs to level up.
func (cv Curve) ToNextLevel(c *Combatant) int {
	if c.Level >= MaxLevel {
		return 0
	}
	n := cv.Floor(c.Level+1) - c.Experience
	if n < 0 {
		return 0
	}
	return n
}
