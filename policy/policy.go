// Package policy holds action-selection strategies. A policy sees only the
// observation a step returns and answers with an integer action.
package policy

import (
	"github.com/nathoo/tallgrass/engine"
	"github.com/nathoo/tallgrass/engine/world"
	"github.com/nathoo/tallgrass/types"
)

// Policy turns an observation into an action.
type Policy interface {
	SelectAction(obs types.Observation) int
}

// Func adapts an ordinary function to the Policy interface.
type Func func(obs types.Observation) int

func (f Func) SelectAction(obs types.Observation) int { return f(obs) }

// ActionCount returns how many actions are legal to attempt in a mode.
// combatActions overrides the engine's combat count when positive, for
// managers that add potion and switch actions.
func ActionCount(mode types.Mode, combatActions int) int {
	if mode == types.ModeCombat {
		if combatActions > 0 {
			return combatActions
		}
		return engine.NumCombatActions
	}
	return engine.NumExploreActions
}

// GridFromObservation rebuilds the map and player position from an
// exploration observation.
func GridFromObservation(obs types.Observation) (*world.Grid, world.Pos, bool) {
	if obs.Mode != types.ModeExploration || len(obs.Grid) < engine.NumChannels {
		return nil, world.Pos{}, false
	}
	walls := obs.Grid[engine.ChannelWalls]
	interest := obs.Grid[engine.ChannelInterest]
	player := obs.Grid[engine.ChannelPlayer]

	var pos world.Pos
	found := false
	tiles := make([][]types.Tile, len(walls))
	for r := range walls {
		tiles[r] = make([]types.Tile, len(walls[r]))
		for c := range walls[r] {
			switch {
			case walls[r][c] > 0:
				tiles[r][c] = types.TileWall
			case interest[r][c] >= 1:
				tiles[r][c] = types.TileGoal
			case interest[r][c] > 0:
				tiles[r][c] = types.TileGrass
			}
			if player[r][c] > 0 {
				pos = world.Pos{Row: r, Col: c}
				found = true
			}
		}
	}
	g, err := world.New("observed", tiles, pos)
	if err != nil || !found {
		return nil, world.Pos{}, false
	}
	return g, pos, true
}
