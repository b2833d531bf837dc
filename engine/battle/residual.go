package battle

import (
	"fmt"

	"github.com/nathoo/tallgrass/types"
)

// residualFraction is the share of max HP lost at end of turn.
var residualFraction = map[types.Status]int{
	types.StatusPoisoned: 8,
	types.StatusBurned:   16,
}

// EndOfTurn applies residual status damage. It returns the HP lost and a
// message, or 0 and "" when nothing happened.
func EndOfTurn(c *Combatant) (int, string) {
	div, ok := residualFraction[c.Status]
	if !ok || c.Fainted() {
		return 0, ""
	}
	n := c.MaxHP() / div
	if n < 1 {
		n = 1
	}
	lost := c.TakeDamage(n)
	verb := "poison"
	if c.Status == types.StatusBurned {
		verb = "burn"
	}
	return lost, fmt.Sprintf("%s is hurt by its %s!", c.Name, verb)
}
