package engine

import (
	"fmt"

	"github.com/nathoo/tallgrass/engine/battle"
	"github.com/nathoo/tallgrass/engine/dex"
	"github.com/nathoo/tallgrass/engine/events"
	"github.com/nathoo/tallgrass/types"
)

func (e *Engine) chart() dex.TypeChart {
	if e.Dex.Chart == nil {
		return dex.DefaultTypeChart()
	}
	return e.Dex.Chart
}

func (e *Engine) stepCombat(r *types.Result, action int) {
	s := e.Session
	if !s.InCombat() {
		e.invalid(r, action, "no opponent")
		return
	}
	if s.Player == nil || s.Player.Fainted() {
		e.invalid(r, action, "active combatant has fainted")
		return
	}

	if action == ActionFlee {
		e.flee(r)
		return
	}
	name, ok := s.Player.MoveAt(action)
	if action < 0 || action >= battle.MaxMoves || !ok {
		e.invalid(r, action, "no move in that slot")
		return
	}

	dealt := e.useMove(r, "player", s.Player, s.Opponent, name)
	if s.Opponent.Fainted() {
		e.win(r)
		return
	}
	r.Reward += float64(dealt) * e.Tuning.Rewards.DamageScale
	Merge(r, e.OpponentTurn())
}

// useMove resolves one move and applies its damage. Returns HP removed.
func (e *Engine) useMove(r *types.Result, actor string, attacker, defender *battle.Combatant, name string) int {
	move := e.Dex.Move(name)
	out := battle.CalculateDamage(attacker, defender, move, e.chart(), e.RNG)
	dealt := defender.TakeDamage(out.Damage)
	r.Output = append(r.Output, out.Messages...)
	if dealt > 0 {
		r.Output = append(r.Output, fmt.Sprintf("%s took %d damage.", defender.Name, dealt))
	}
	r.Events = append(r.Events, events.New(events.MoveUsed,
		"actor", actor,
		"move", move.Name,
		"acted", out.Acted,
		"damage", dealt,
		"effectiveness", string(out.Effectiveness),
		"critical", out.Critical,
		"missed", out.Missed,
		"blocked", out.Blocked,
	))
	return dealt
}

// OpponentTurn lets the opponent act, then applies end-of-turn residual
// damage to both sides. Switching, potions and a failed flee all cost the
// player's move this way.
func (e *Engine) OpponentTurn() types.Result {
	var r types.Result
	s := e.Session
	if !s.InCombat() || s.Opponent.Fainted() {
		return r
	}

	slot := e.chooseMove(s.Opponent)
	name, ok := s.Opponent.MoveAt(slot)
	if !ok {
		name = dex.Struggle.Name
	}
	e.useMove(&r, "opponent", s.Opponent, s.Player, name)
	if s.Player.Fainted() {
		e.faint(&r)
		return r
	}

	e.residual(&r)
	return r
}

func (e *Engine) chooseMove(opp *battle.Combatant) int {
	if e.ChooseMove != nil {
		return e.ChooseMove(opp, e.RNG)
	}
	return e.RNG.Intn(len(opp.Moves))
}

func (e *Engine) residual(r *types.Result) {
	s := e.Session
	for _, side := range []struct {
		who string
		c   *battle.Combatant
	}{{"player", s.Player}, {"opponent", s.Opponent}} {
		lost, msg := battle.EndOfTurn(side.c)
		if msg == "" {
			continue
		}
		r.Output = append(r.Output, msg)
		r.Events = append(r.Events, events.New(events.Residual,
			"actor", side.who, "status", string(side.c.Status), "damage", lost))
	}
	// Both sides can drop in the same residual; the win is credited first.
	if s.Opponent.Fainted() {
		e.win(r)
	}
	if s.Player.Fainted() {
		e.faint(r)
	}
}

// win grants experience and returns to exploration.
func (e *Engine) win(r *types.Result) {
	s := e.Session
	p, o := s.Player, s.Opponent
	r.Output = append(r.Output, fmt.Sprintf("%s fainted!", o.Name))
	r.Events = append(r.Events, events.New(events.BattleWon,
		"species", o.SpeciesID, "level", o.Level, "trainer", s.Trainer))

	c := e.xpReceiver()
	lv := battle.GainExperience(c, o.Level)
	r.Events = append(r.Events, events.New(events.XPGained,
		"species", c.SpeciesID, "xp", lv.XP, "total", c.Experience))
	r.Output = append(r.Output, fmt.Sprintf("%s gained %d experience.", c.Name, lv.XP))
	if lv.LeveledUp {
		r.Events = append(r.Events, events.New(events.LevelUp,
			"species", c.SpeciesID, "level", c.Level, "levels", lv.Levels,
			"previous_hp", lv.Previous.HP, "max_hp", c.MaxHP()))
		r.Output = append(r.Output, fmt.Sprintf("%s grew to level %d!", c.Name, c.Level))
	}
	r.Reward += e.Tuning.winReward(p.Level)
	e.EndBattle()
}

func (e *Engine) xpReceiver() *battle.Combatant {
	if e.XPReceiver != nil {
		if c := e.XPReceiver(e.Session); c != nil {
			return c
		}
	}
	return e.Session.Player
}

// faint ends the episode for the active combatant.
func (e *Engine) faint(r *types.Result) {
	p := e.Session.Player
	r.Output = append(r.Output, fmt.Sprintf("%s fainted!", p.Name))
	r.Events = append(r.Events, events.New(events.Fainted, "species", p.SpeciesID, "level", p.Level))
	r.Reward += e.Tuning.Rewards.Faint
	e.Session.Done = true
}

func (e *Engine) flee(r *types.Result) {
	s := e.Session
	if s.Trainer {
		e.invalid(r, ActionFlee, "cannot flee from a trainer battle")
		return
	}
	s.Player.Protected = false
	roll := e.RNG.Roll(6)
	if roll >= e.Tuning.FleeTarget {
		r.Events = append(r.Events, events.New(events.Fled, "roll", roll))
		r.Output = append(r.Output, "Got away safely!")
		r.Reward += e.Tuning.Rewards.Step
		e.EndBattle()
		return
	}
	r.Events = append(r.Events, events.New(events.FleeFailed, "roll", roll))
	r.Output = append(r.Output, "Can't escape!")
	Merge(r, e.OpponentTurn())
}

// Merge appends the reward, events and output of src into dst.
func Merge(dst *types.Result, src types.Result) {
	dst.Reward += src.Reward
	dst.Events = append(dst.Events, src.Events...)
	dst.Output = append(dst.Output, src.Output...)
	if src.Done {
		dst.Done = true
	}
}
