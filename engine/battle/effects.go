package battle

import (
	"fmt"
	"math"

	"github.com/nathoo/tallgrass/engine/dex"
	"github.com/nathoo/tallgrass/types"
)

// statusImmunity lists the type that shrugs off each status.
var statusImmunity = map[types.Status]string{
	types.StatusBurned:    "fire",
	types.StatusFrozen:    "ice",
	types.StatusPoisoned:  "poison",
	types.StatusParalyzed: "electric",
}

// EffectResult reports what a status move did.
type EffectResult struct {
	Applied bool
	Message string
}

func applied(format string, args ...any) EffectResult {
	return EffectResult{Applied: true, Message: fmt.Sprintf(format, args...)}
}

func failed(format string, args ...any) EffectResult {
	return EffectResult{Message: fmt.Sprintf(format, args...)}
}

var stageWords = map[int]string{
	1: "rose", 2: "sharply rose", 3: "rose drastically",
	-1: "fell", -2: "harshly fell", -3: "severely fell",
}

func stageWord(delta int) string {
	if delta > 3 {
		delta = 3
	}
	if delta < -3 {
		delta = -3
	}
	return stageWords[delta]
}

// ApplyEffect resolves a status move. All state mutation of status moves
// goes through here.
func ApplyEffect(attacker, defender *Combatant, move dex.Move) EffectResult {
	if move.Effect == nil {
		return failed("%s is not supported yet!", dex.DisplayName(move.Name))
	}
	target := attacker
	if move.Effect.Target() == dex.TargetOpponent {
		target = defender
	}

	switch e := move.Effect.(type) {
	case dex.HealEffect:
		if target.Fainted() || target.HP >= target.MaxHP() {
			return failed("But it failed!")
		}
		amount := int(math.Floor(float64(target.MaxHP()) * e.Fraction))
		if amount < 1 {
			amount = 1
		}
		healed := target.Heal(amount)
		return applied("%s regained %d HP!", target.Name, healed)

	case dex.ProtectEffect:
		target.Protected = true
		return applied("%s protected itself!", target.Name)

	case dex.StageEffect:
		if target.Fainted() {
			return failed("But it failed!")
		}
		got := target.ShiftStage(e.Stat, e.Delta)
		if got == 0 {
			dir := "higher"
			if e.Delta < 0 {
				dir = "lower"
			}
			return failed("%s's %s won't go any %s!", target.Name, e.Stat, dir)
		}
		return applied("%s's %s %s!", target.Name, e.Stat, stageWord(got))

	case dex.StatusEffect:
		if target.Fainted() || target.Status != types.StatusNone {
			return failed("But it failed!")
		}
		if t, ok := statusImmunity[e.Status]; ok && target.HasType(t) {
			return failed("It doesn't affect %s...", target.Name)
		}
		target.Status = e.Status
		return applied("%s is %s!", target.Name, e.Status)
	}
	return failed("%s is not supported yet!", dex.DisplayName(move.Name))
}
