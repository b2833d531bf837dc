// Package engine provides the Reset/Step environment that wires together
// the world grid, the battle engine and rewards into a single turn.
package engine

import (
	"fmt"

	"github.com/nathoo/tallgrass/engine/battle"
	"github.com/nathoo/tallgrass/engine/dex"
	"github.com/nathoo/tallgrass/engine/events"
	"github.com/nathoo/tallgrass/engine/world"
	"github.com/nathoo/tallgrass/types"
)

// Action ids. Exploration uses the four directions, combat uses the move
// slots and flee.
const (
	ActionUp    = int(world.Up)
	ActionDown  = int(world.Down)
	ActionLeft  = int(world.Left)
	ActionRight = int(world.Right)
	ActionFlee  = battle.MaxMoves

	NumExploreActions = world.NumDirections
	NumCombatActions  = battle.MaxMoves + 1
)

// Session is the mutable environment state.
type Session struct {
	Mode     types.Mode        `json:"mode"`
	MapIndex int               `json:"map"`
	Pos      world.Pos         `json:"pos"`
	Start    world.Pos         `json:"start"`
	Player   *battle.Combatant `json:"player"`
	Opponent *battle.Combatant `json:"opponent,omitempty"`
	Trainer  bool              `json:"trainer,omitempty"` // opponent cannot be fled from
	Done     bool              `json:"done"`
	Turn     int               `json:"turn"`
}

// InCombat reports whether a battle is running.
func (s *Session) InCombat() bool {
	return s.Mode == types.ModeCombat && s.Opponent != nil
}

// Engine holds the content tables and mutable session.
type Engine struct {
	Dex     *dex.Dex
	Tuning  Tuning
	Session *Session
	RNG     *RNG

	// Eligible decides whether reaching a goal ends the episode.
	// nil means always.
	Eligible func(*Session) bool

	// ChooseMove picks the opponent's move slot. nil means uniform random.
	ChooseMove func(opponent *battle.Combatant, rng *RNG) int

	// XPReceiver picks who is credited with a win. nil means the player.
	XPReceiver func(*Session) *battle.Combatant
}

// New creates an engine over the given content. The session is ready to
// step without calling Reset.
func New(d *dex.Dex, t Tuning) *Engine {
	if d == nil {
		d = dex.Builtin()
	}
	e := &Engine{
		Dex:    d,
		Tuning: t,
		RNG:    NewRNG(t.Seed),
	}
	e.Reset()
	return e
}

// ResetOption customizes Reset.
type ResetOption func(*resetConfig)

type resetConfig struct {
	seed   *int64
	mapIdx *int
	rng    *RNG
	player *battle.Combatant
}

// WithSeed reseeds the RNG.
func WithSeed(seed int64) ResetOption {
	return func(c *resetConfig) { c.seed = &seed }
}

// WithMap starts on the map at index i.
func WithMap(i int) ResetOption {
	return func(c *resetConfig) { c.mapIdx = &i }
}

// WithRNG injects a ready RNG, for example one restored from a save.
func WithRNG(rng *RNG) ResetOption {
	return func(c *resetConfig) { c.rng = rng }
}

// WithPlayer replaces the active combatant.
func WithPlayer(p *battle.Combatant) ResetOption {
	return func(c *resetConfig) { c.player = p }
}

// RequestedMap reports the map index opts ask for, if any.
func RequestedMap(opts ...ResetOption) (int, bool) {
	rc := applyOptions(opts)
	if rc.mapIdx == nil {
		return 0, false
	}
	return *rc.mapIdx, true
}

func applyOptions(opts []ResetOption) resetConfig {
	var rc resetConfig
	for _, o := range opts {
		o(&rc)
	}
	return rc
}

// Reset starts a new episode and returns the first observation. The active
// combatant carries over between episodes, restored to full health; the
// first reset spawns the configured starter.
func (e *Engine) Reset(opts ...ResetOption) types.Observation {
	rc := applyOptions(opts)
	switch {
	case rc.rng != nil:
		e.RNG = rc.rng
	case rc.seed != nil:
		e.RNG = NewRNG(*rc.seed)
	}

	var prev *Session
	if e.Session != nil {
		prev = e.Session
	}
	s := &Session{Mode: types.ModeExploration}
	if rc.mapIdx != nil {
		s.MapIndex = *rc.mapIdx
	} else if prev != nil {
		s.MapIndex = prev.MapIndex
	}
	if _, ok := e.Dex.Map(s.MapIndex); !ok {
		s.MapIndex = 0
	}

	switch {
	case rc.player != nil:
		s.Player = rc.player
	case prev != nil && prev.Player != nil:
		s.Player = prev.Player
		s.Player.Restore()
	default:
		s.Player = e.spawnStarter()
	}

	e.Session = s
	e.placeAtStart()
	return e.Observe()
}

func (e *Engine) spawnStarter() *battle.Combatant {
	sp := e.Dex.SpeciesByID(e.Tuning.Starter)
	level := e.Tuning.StarterLevel
	if level < 1 {
		level = 5
	}
	return battle.New(sp, level, nil)
}

// Grid returns the current map's grid.
func (e *Engine) Grid() *world.Grid {
	m, ok := e.Dex.Map(e.Session.MapIndex)
	if !ok {
		return nil
	}
	return m.Grid
}

// MapDef returns the current map definition.
func (e *Engine) MapDef() dex.MapDef {
	m, _ := e.Dex.Map(e.Session.MapIndex)
	return m
}

func (e *Engine) placeAtStart() {
	if g := e.Grid(); g != nil {
		e.Session.Start = g.Start()
	}
	e.Session.Pos = e.Session.Start
}

// Step advances the environment by one action and returns the result.
func (e *Engine) Step(action int) types.Result {
	var r types.Result
	s := e.Session

	switch {
	case s.Done:
		e.invalid(&r, action, "episode is finished")
	case s.Mode == types.ModeCombat:
		e.stepCombat(&r, action)
	default:
		e.stepExplore(&r, action)
	}

	s.Turn++
	r.Observation = e.Observe()
	r.Done = s.Done
	r.Info = e.Info()
	return r
}

// invalid applies the invalid-action penalty without changing state.
func (e *Engine) invalid(r *types.Result, action int, reason string) {
	r.Reward += e.Tuning.Rewards.Invalid
	r.Events = append(r.Events, events.New(events.InvalidAction, "action", action, "reason", reason))
	r.Output = append(r.Output, fmt.Sprintf("Invalid action %d: %s.", action, reason))
}

// Info returns diagnostic facts about the session.
func (e *Engine) Info() map[string]any {
	s := e.Session
	info := map[string]any{
		"mode":  string(s.Mode),
		"map":   s.MapIndex,
		"row":   s.Pos.Row,
		"col":   s.Pos.Col,
		"turn":  s.Turn,
		"rng":   e.RNG.Position(),
		"level": 0,
	}
	if s.Player != nil {
		info["player"] = s.Player.Name
		info["level"] = s.Player.Level
		info["hp"] = s.Player.HP
		info["max_hp"] = s.Player.MaxHP()
		info["xp"] = s.Player.Experience
	}
	if s.Opponent != nil {
		info["opponent"] = s.Opponent.Name
		info["opponent_level"] = s.Opponent.Level
		info["opponent_hp"] = s.Opponent.HP
	}
	return info
}

// SetPlayer swaps the active combatant. Used by the team manager for
// switching and after a faint; an alive replacement resumes the episode.
func (e *Engine) SetPlayer(c *battle.Combatant) {
	e.Session.Player = c
	if c != nil && !c.Fainted() {
		e.Session.Done = false
	}
}

// SetMap moves to the start of the map at index i and leaves combat.
func (e *Engine) SetMap(i int) bool {
	if _, ok := e.Dex.Map(i); !ok {
		return false
	}
	e.Session.MapIndex = i
	e.Session.Mode = types.ModeExploration
	e.Session.Opponent = nil
	e.Session.Done = false
	e.placeAtStart()
	return true
}

// ReturnToStart sends the player back to the current map's start.
func (e *Engine) ReturnToStart() {
	e.Session.Done = false
	e.placeAtStart()
}

// Resume clears the done flag so a managed run can continue.
func (e *Engine) Resume() {
	e.Session.Done = false
}

// Finish marks the episode as done.
func (e *Engine) Finish() {
	e.Session.Done = true
}
