package engine

import (
	"github.com/nathoo/tallgrass/engine/battle"
	"github.com/nathoo/tallgrass/engine/world"
	"github.com/nathoo/tallgrass/types"
)

// Observation channel layout for exploration.
const (
	ChannelWalls    = 0
	ChannelInterest = 1 // grass 0.5, goal 1.0
	ChannelPlayer   = 2
	NumChannels     = 3

	CombatVectorLen = 10
	statScale       = 300.0
)

// Observe returns the observation for the current mode. It is a pure
// function of the session.
func (e *Engine) Observe() types.Observation {
	s := e.Session
	if s.InCombat() {
		return types.Observation{Mode: types.ModeCombat, Vector: CombatVector(s.Player, s.Opponent)}
	}
	return types.Observation{Mode: types.ModeExploration, Grid: e.mapChannels()}
}

func (e *Engine) mapChannels() [][][]float32 {
	g := e.Grid()
	if g == nil {
		return nil
	}
	out := make([][][]float32, NumChannels)
	for ch := range out {
		out[ch] = make([][]float32, g.Rows())
		for row := range out[ch] {
			out[ch][row] = make([]float32, g.Cols())
		}
	}
	for row := 0; row < g.Rows(); row++ {
		for col := 0; col < g.Cols(); col++ {
			tile, _ := g.At(world.Pos{Row: row, Col: col})
			switch tile {
			case types.TileWall:
				out[ChannelWalls][row][col] = 1
			case types.TileGrass:
				out[ChannelInterest][row][col] = 0.5
			case types.TileGoal:
				out[ChannelInterest][row][col] = 1
			}
		}
	}
	p := e.Session.Pos
	if g.InBounds(p) {
		out[ChannelPlayer][p.Row][p.Col] = 1
	}
	return out
}

// CombatVector encodes both sides as hp ratio followed by attack, defense,
// special attack and special defense scaled down by 300.
func CombatVector(player, opponent *battle.Combatant) []float32 {
	v := make([]float32, 0, CombatVectorLen)
	for _, c := range []*battle.Combatant{player, opponent} {
		if c == nil {
			v = append(v, 0, 0, 0, 0, 0)
			continue
		}
		v = append(v,
			float32(c.HPRatio()),
			float32(float64(c.Stats.Attack)/statScale),
			float32(float64(c.Stats.Defense)/statScale),
			float32(float64(c.Stats.SpAttack)/statScale),
			float32(float64(c.Stats.SpDefense)/statScale),
		)
	}
	return v
}
