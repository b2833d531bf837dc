package policy

import (
	"github.com/nathoo/tallgrass/engine"
	"github.com/nathoo/tallgrass/engine/world"
	"github.com/nathoo/tallgrass/types"
)

// Scripted walks the shortest path to the goal and always attacks with
// its first move slot. While Farming reports true it seeks tall grass and
// paces inside it instead, so encounters keep coming.
type Scripted struct {
	Farming func() bool
	// FleeBelow makes the policy flee once its hp ratio drops under this
	// value. Zero never flees.
	FleeBelow float64
	// MoveSlot picks the combat move; nil always uses slot 0.
	MoveSlot func(obs types.Observation) int

	pace int
}

func (p *Scripted) SelectAction(obs types.Observation) int {
	if obs.Mode == types.ModeCombat {
		return p.combat(obs)
	}
	return p.explore(obs)
}

func (p *Scripted) combat(obs types.Observation) int {
	if p.FleeBelow > 0 && len(obs.Vector) > 0 && float64(obs.Vector[0]) < p.FleeBelow {
		return engine.ActionFlee
	}
	if p.MoveSlot != nil {
		return p.MoveSlot(obs)
	}
	return 0
}

func (p *Scripted) explore(obs types.Observation) int {
	g, pos, ok := GridFromObservation(obs)
	if !ok {
		return engine.ActionUp
	}

	if p.Farming != nil && p.Farming() {
		if dir, ok := p.farm(g, pos); ok {
			return int(dir)
		}
	}

	dirs, ok := g.Path(pos, func(_ world.Pos, t types.Tile) bool { return t == types.TileGoal })
	if !ok || len(dirs) == 0 {
		return p.anyStep(g, pos)
	}
	return int(dirs[0])
}

// farm steps toward the nearest grass, or between grass tiles when already
// standing in it. Goal tiles are avoided.
func (p *Scripted) farm(g *world.Grid, pos world.Pos) (world.Direction, bool) {
	here, _ := g.At(pos)
	if here == types.TileGrass {
		for i := 0; i < world.NumDirections; i++ {
			d := world.Direction((p.pace + i) % world.NumDirections)
			if t, ok := g.At(g.Neighbor(pos, d)); ok && t == types.TileGrass {
				p.pace = int(d) + 1
				return d, true
			}
		}
	}
	dirs, ok := g.Path(pos, func(q world.Pos, t types.Tile) bool {
		return t == types.TileGrass && q != pos
	})
	if !ok || len(dirs) == 0 {
		return 0, false
	}
	return dirs[0], true
}

func (p *Scripted) anyStep(g *world.Grid, pos world.Pos) int {
	for d := world.Direction(0); d < world.NumDirections; d++ {
		if g.Walkable(g.Neighbor(pos, d)) {
			return int(d)
		}
	}
	return engine.ActionUp
}
