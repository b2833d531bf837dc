package battle

import (
	"fmt"
	"math"

	"github.com/nathoo/tallgrass/engine/dex"
	"github.com/nathoo/tallgrass/types"
)

// Battle tuning constants.
const (
	CritChance     = 1.0 / 16
	CritMultiplier = 1.5
	STAB           = 1.5
	MinRandom      = 0.85
	MaxRandom      = 1.0

	wakeChance     = 0.25
	paralysisFail  = 0.25
	freezeFail     = 0.8
	burnAttackMult = 0.5
)

// Rand is the randomness a battle needs. *engine.RNG satisfies it, and so
// does *math/rand.Rand.
type Rand interface {
	Float64() float64
}

// Outcome describes one move resolution.
type Outcome struct {
	Move          string
	Acted         bool // passed the status gate
	Damage        int
	Effectiveness types.Effectiveness
	Critical      bool
	Missed        bool
	Blocked       bool // stopped by protection
	Failed        bool // status move had no effect
	Messages      []string
}

func (o *Outcome) say(format string, args ...any) {
	o.Messages = append(o.Messages, fmt.Sprintf(format, args...))
}

// CanAct applies the status gate at the start of a combatant's turn. It may
// wake a sleeper or thaw a frozen combatant. The returned message is empty
// when nothing noteworthy happened.
func CanAct(c *Combatant, rng Rand) (bool, string) {
	if c.Fainted() {
		return false, fmt.Sprintf("%s has fainted and cannot move!", c.Name)
	}
	switch c.Status {
	case types.StatusAsleep:
		if rng.Float64() < wakeChance {
			c.Status = types.StatusNone
			return true, fmt.Sprintf("%s woke up!", c.Name)
		}
		return false, fmt.Sprintf("%s is fast asleep.", c.Name)
	case types.StatusParalyzed:
		if rng.Float64() < paralysisFail {
			return false, fmt.Sprintf("%s is paralyzed! It can't move!", c.Name)
		}
	case types.StatusFrozen:
		if rng.Float64() < freezeFail {
			return false, fmt.Sprintf("%s is frozen solid!", c.Name)
		}
		c.Status = types.StatusNone
		return true, fmt.Sprintf("%s thawed out!", c.Name)
	}
	return true, ""
}

// Modifiers are the random parts of a damage roll, made explicit.
type Modifiers struct {
	Critical bool
	Random   float64 // in [MinRandom, MaxRandom]; zero means MaxRandom
}

// RollModifiers draws the crit and random factor, in that order.
func RollModifiers(rng Rand) Modifiers {
	crit := rng.Float64() < CritChance
	return Modifiers{
		Critical: crit,
		Random:   MinRandom + (MaxRandom-MinRandom)*rng.Float64(),
	}
}

// attackPair returns the attacking and defending stat values for a move.
// Physical moves apply stat stages; special moves do not.
func attackPair(attacker, defender *Combatant, move dex.Move) (float64, float64) {
	if move.Category == types.CategorySpecial {
		return float64(attacker.Stats.SpAttack), float64(defender.Stats.SpDefense)
	}
	atk := float64(attacker.Stats.Attack) * StageMultiplier(attacker.Stage(types.StatAttack))
	def := float64(defender.Stats.Defense) * StageMultiplier(defender.Stage(types.StatDefense))
	return atk, def
}

// Damage is the deterministic damage formula:
//
//	(((2*L/5+2) * power * atk/def) / 50 + 2) * STAB * type * crit * random
//
// Burn halves physical damage. The result is floored with a minimum of 1,
// even when the type chart grants immunity. Damage does not touch HP.
func Damage(attacker, defender *Combatant, move dex.Move, chart dex.TypeChart, mods Modifiers) (int, types.Effectiveness) {
	if move.Power <= 0 {
		return 0, types.EffectUnavailable
	}
	atk, def := attackPair(attacker, defender, move)
	if atk < 1 {
		atk = 1
	}
	if def < 1 {
		def = 1
	}
	level := float64(attacker.Level)
	base := ((2*level/5+2)*float64(move.Power)*atk/def)/50 + 2

	mult := chart.Multiplier(move.Type, defender.Types)
	stab := 1.0
	if attacker.HasType(move.Type) {
		stab = STAB
	}
	crit := 1.0
	if mods.Critical {
		crit = CritMultiplier
	}
	random := mods.Random
	if random == 0 {
		random = MaxRandom
	}

	dmg := base * stab * mult * crit * random
	if attacker.Status == types.StatusBurned && move.Category == types.CategoryPhysical {
		dmg *= burnAttackMult
	}
	n := int(math.Floor(dmg))
	if n < 1 {
		n = 1
	}
	return n, EffectivenessOf(mult)
}

// EffectivenessOf tags a type multiplier.
func EffectivenessOf(mult float64) types.Effectiveness {
	switch {
	case mult == 0:
		return types.EffectNone
	case mult > 1:
		return types.EffectSuper
	case mult < 1:
		return types.EffectNotVery
	}
	return types.EffectNeutral
}

// CalculateDamage resolves one use of move by attacker against defender:
// protection reset, status gate, protection check, accuracy, then either
// the move's effect or a damage roll. It does not apply the damage; the
// caller subtracts Outcome.Damage from the defender.
func CalculateDamage(attacker, defender *Combatant, move dex.Move, chart dex.TypeChart, rng Rand) Outcome {
	out := Outcome{Move: move.Name, Effectiveness: types.EffectUnavailable}

	// Protection only lasts until the protected side's next turn.
	attacker.Protected = false

	ok, msg := CanAct(attacker, rng)
	if msg != "" {
		out.Messages = append(out.Messages, msg)
	}
	if !ok {
		return out
	}
	out.Acted = true
	out.say("%s used %s!", attacker.Name, dex.DisplayName(move.Name))

	if defender.Protected && move.Power > 0 {
		defender.Protected = false
		out.Blocked = true
		out.say("%s protected itself!", defender.Name)
		return out
	}

	if move.Accuracy > 0 && move.Accuracy < 1 && rng.Float64() >= move.Accuracy {
		out.Missed = true
		out.say("%s's attack missed!", attacker.Name)
		return out
	}

	if move.Power <= 0 {
		res := ApplyEffect(attacker, defender, move)
		out.Failed = !res.Applied
		out.Messages = append(out.Messages, res.Message)
		return out
	}

	mods := RollModifiers(rng)
	out.Damage, out.Effectiveness = Damage(attacker, defender, move, chart, mods)
	out.Critical = mods.Critical
	if out.Critical {
		out.say("A critical hit!")
	}
	switch out.Effectiveness {
	case types.EffectSuper:
		out.say("It's super effective!")
	case types.EffectNotVery:
		out.say("It's not very effective...")
	case types.EffectNone:
		out.say("It doesn't affect %s...", defender.Name)
	}
	return out
}
