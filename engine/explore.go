package engine

import (
	"fmt"

	"github.com/nathoo/tallgrass/engine/battle"
	"github.com/nathoo/tallgrass/engine/events"
	"github.com/nathoo/tallgrass/engine/world"
	"github.com/nathoo/tallgrass/types"
)

func (e *Engine) stepExplore(r *types.Result, action int) {
	s := e.Session
	g := e.Grid()
	if action < 0 || action >= NumExploreActions {
		e.invalid(r, action, "not a direction")
		return
	}
	if g == nil {
		e.invalid(r, action, "no map loaded")
		return
	}

	dir := world.Direction(action)
	next := g.Neighbor(s.Pos, dir)
	if !g.Walkable(next) {
		r.Reward += e.Tuning.Rewards.Wall
		r.Events = append(r.Events, events.New(events.Blocked, "direction", dir.String()))
		r.Output = append(r.Output, "You bump into a wall.")
		return
	}

	s.Pos = next
	tile, _ := g.At(next)
	r.Events = append(r.Events, events.New(events.Moved, "direction", dir.String(), "row", next.Row, "col", next.Col))

	switch tile {
	case types.TileGoal:
		e.reachGoal(r)
	case types.TileGrass:
		if s.Player.Level < e.Tuning.TargetLevel {
			r.Reward += e.Tuning.Rewards.Grass
		} else {
			r.Reward += e.Tuning.Rewards.Step
		}
		if e.RNG.Float64() < e.Tuning.EncounterRate {
			opp := e.WildOpponent()
			e.StartBattle(opp)
			r.Events = append(r.Events, events.New(events.Encounter,
				"species", opp.SpeciesID, "level", opp.Level, "wild", true))
			r.Output = append(r.Output, fmt.Sprintf("A wild %s (Lv. %d) appeared!", opp.Name, opp.Level))
		}
	default:
		r.Reward += e.Tuning.Rewards.Step
	}
}

// reachGoal always reports the goal; the episode only ends when the
// player is eligible to leave the map.
func (e *Engine) reachGoal(r *types.Result) {
	s := e.Session
	eligible := e.Eligible == nil || e.Eligible(s)
	r.Reward += e.Tuning.goalReward(s.Player.Level)
	r.Events = append(r.Events, events.New(events.GoalReached,
		"map", s.MapIndex, "level", s.Player.Level, "eligible", eligible))
	if eligible {
		s.Done = true
		r.Output = append(r.Output, fmt.Sprintf("You reached the end of %s!", e.MapDef().Name))
	} else {
		r.Output = append(r.Output, "You reached the exit, but your team is not ready to move on.")
	}
}

// WildOpponent generates a wild combatant for the current map from its
// encounter pool (or the whole dex) within the map's level band. A map
// with weights draws its pool by those odds.
func (e *Engine) WildOpponent() *battle.Combatant {
	md := e.MapDef()
	pool := md.Encounters
	if len(pool) == 0 {
		pool = e.Dex.SpeciesIDs()
	}
	lo, hi := e.Tuning.WildLevels(e.Session.MapIndex)
	var id string
	switch {
	case len(pool) > 0 && len(md.Weights) == len(pool):
		id = pool[e.RNG.WeightedSelect(md.Weights)]
	case len(pool) > 0:
		id = pool[e.RNG.Intn(len(pool))]
	}
	level := lo + e.RNG.Intn(hi-lo+1)
	return battle.New(e.Dex.SpeciesByID(id), level, nil)
}

// StartBattle switches to combat against a wild opp.
func (e *Engine) StartBattle(opp *battle.Combatant) {
	e.Session.Mode = types.ModeCombat
	e.Session.Opponent = opp
	e.Session.Trainer = false
	if e.Session.Player != nil {
		e.Session.Player.Protected = false
	}
}

// StartTrainerBattle switches to combat against a trainer's opp, which
// the player cannot flee from.
func (e *Engine) StartTrainerBattle(opp *battle.Combatant) {
	e.StartBattle(opp)
	e.Session.Trainer = true
}

// SendOut replaces the opponent mid-battle, as a trainer does after a faint.
func (e *Engine) SendOut(opp *battle.Combatant) {
	e.Session.Mode = types.ModeCombat
	e.Session.Opponent = opp
	e.Session.Trainer = true
}

// EndBattle returns to exploration. Stat stages and protection do not
// outlast a battle.
func (e *Engine) EndBattle() {
	e.Session.Mode = types.ModeExploration
	e.Session.Opponent = nil
	e.Session.Trainer = false
	if p := e.Session.Player; p != nil {
		p.ResetStages()
		p.Protected = false
	}
}
