package policy

import (
	"github.com/nathoo/tallgrass/engine"
	"github.com/nathoo/tallgrass/types"
)

// Random picks uniformly among the actions of the current mode.
type Random struct {
	RNG           *engine.RNG
	CombatActions int // 0 means engine.NumCombatActions
}

// NewRandom returns a random policy with its own seeded stream.
func NewRandom(seed int64) *Random {
	return &Random{RNG: engine.NewRNG(seed)}
}

func (p *Random) SelectAction(obs types.Observation) int {
	return p.RNG.Intn(ActionCount(obs.Mode, p.CombatActions))
}
