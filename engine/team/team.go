// Package team runs a whole playthrough on top of the environment: a
// roster with switching and potions, per-map level gates, map
// progression and the final gym leader.
package team

import (
	"fmt"
	"math"

	"github.com/nathoo/tallgrass/engine"
	"github.com/nathoo/tallgrass/engine/battle"
	"github.com/nathoo/tallgrass/engine/events"
	"github.com/nathoo/tallgrass/types"
)

// Extra actions on top of the environment's action space. They are valid
// in both modes and cost the turn in combat.
const (
	ActionPotion = engine.NumCombatActions
	ActionSwitch = engine.NumCombatActions + 1
	NumActions   = engine.NumCombatActions + 2
)

// Options configures the roster.
type Options struct {
	Size           int      `yaml:"size"`
	Level          int      `yaml:"level"`
	Potions        int      `yaml:"potions"`         // refilled on every map
	PotionFraction float64  `yaml:"potion_fraction"` // share of max HP a potion restores
	Members        []string `yaml:"members"`         // species ids; empty draws at random
}

// DefaultOptions returns the stock roster settings.
func DefaultOptions() Options {
	return Options{Size: 6, Level: 5, Potions: 10, PotionFraction: 0.5}
}

// Manager drives an engine through the map progression.
type Manager struct {
	Engine  *engine.Engine
	Options Options

	Roster  []*battle.Combatant
	Active  int
	Potions int

	Boss      []*battle.Combatant
	BossIndex int
	BossMode  bool
	Champion  bool

	handlers []events.Handler
	pending  []string
}

// New builds a manager over e, draws a roster and loads the first map.
func New(e *engine.Engine, opts Options) *Manager {
	if opts.Size <= 0 {
		opts.Size = DefaultOptions().Size
	}
	if opts.Level <= 0 {
		opts.Level = DefaultOptions().Level
	}
	if opts.PotionFraction <= 0 {
		opts.PotionFraction = DefaultOptions().PotionFraction
	}
	m := &Manager{Engine: e, Options: opts}
	e.Eligible = func(*engine.Session) bool { return !m.Farming() }
	e.XPReceiver = func(*engine.Session) *battle.Combatant { return m.Weakest() }
	m.handlers = []events.Handler{
		{EventType: events.Encounter, When: m.wild, Run: m.onEncounter},
		{EventType: events.GoalReached, Run: m.onGoal},
		{EventType: events.BattleWon, When: m.bossFight, Run: m.onBossWin},
		{EventType: events.Fainted, Run: m.onFaint},
	}
	m.Reset()
	return m
}

// Reset starts a new playthrough with a freshly drawn roster, on the
// first map unless opts pick another.
func (m *Manager) Reset(opts ...engine.ResetOption) types.Observation {
	idx, ok := engine.RequestedMap(opts...)
	if _, valid := m.Engine.Dex.Map(idx); !ok || !valid {
		idx = 0
	}
	m.Engine.Reset(append(opts, engine.WithMap(idx))...)
	m.Roster = m.draw()
	m.Boss = nil
	m.BossIndex = 0
	m.BossMode = false
	m.Champion = false
	m.LoadMap(idx)
	m.pending = nil
	return m.Engine.Observe()
}

func (m *Manager) draw() []*battle.Combatant {
	d := m.Engine.Dex
	ids := m.Options.Members
	if len(ids) == 0 {
		all := d.SpeciesIDs()
		n := m.Options.Size
		if n > len(all) {
			n = len(all)
		}
		for i := 0; i < n; i++ {
			j := i + m.Engine.RNG.Intn(len(all)-i)
			all[i], all[j] = all[j], all[i]
		}
		ids = all[:n]
	}
	roster := make([]*battle.Combatant, 0, len(ids))
	for _, id := range ids {
		sp := d.SpeciesByID(id)
		moves := SelectMoves(d, sp, m.Options.Level, m.Engine.RNG)
		roster = append(roster, battle.New(sp, m.Options.Level, moves))
	}
	if len(roster) == 0 {
		roster = append(roster, battle.New(d.SpeciesByID(""), m.Options.Level, nil))
	}
	return roster
}

func (m *Manager) say(format string, args ...any) {
	m.pending = append(m.pending, fmt.Sprintf(format, args...))
}

// ActiveMember returns the combatant in play.
func (m *Manager) ActiveMember() *battle.Combatant {
	return m.Roster[m.Active]
}

// Weakest returns the lowest-level member, fainted or not. Ties go to the
// earlier slot.
func (m *Manager) Weakest() *battle.Combatant {
	var low *battle.Combatant
	for _, c := range m.Roster {
		if low == nil || c.Level < low.Level {
			low = c
		}
	}
	return low
}

// Gate returns the level every member must reach to leave the current map.
func (m *Manager) Gate() int {
	return m.Engine.MapDef().Gate
}

// Farming reports whether any member is still below the map's gate.
func (m *Manager) Farming() bool {
	gate := m.Gate()
	for _, c := range m.Roster {
		if c.Level < gate {
			return true
		}
	}
	return false
}

// Alive returns how many members can still fight.
func (m *Manager) Alive() int {
	n := 0
	for _, c := range m.Roster {
		if !c.Fainted() {
			n++
		}
	}
	return n
}

// HealTeam restores every member and refills potions.
func (m *Manager) HealTeam() {
	for _, c := range m.Roster {
		c.Restore()
	}
	m.Potions = m.Options.Potions
}

// LoadMap moves the team to map i, healed, with the first member leading.
func (m *Manager) LoadMap(i int) bool {
	if !m.Engine.SetMap(i) {
		return false
	}
	m.HealTeam()
	m.Active = 0
	m.Engine.SetPlayer(m.ActiveMember())
	m.say("Now entering %s.", m.Engine.MapDef().Name)
	return true
}

// StartBoss heals the team and begins the gym leader battle.
func (m *Manager) StartBoss() {
	d := m.Engine.Dex
	m.Boss = m.Boss[:0]
	for _, b := range d.Boss {
		sp := d.SpeciesByID(b.SpeciesID)
		m.Boss = append(m.Boss, battle.New(sp, b.Level, SelectMoves(d, sp, b.Level, m.Engine.RNG)))
	}
	m.BossMode = true
	m.BossIndex = 0
	m.HealTeam()
	m.Active = 0
	m.Engine.SetPlayer(m.ActiveMember())
	if len(m.Boss) == 0 {
		m.crown()
		return
	}
	m.Engine.StartTrainerBattle(m.Boss[0])
	m.say("The gym leader sends out %s (Lv. %d)!", m.Boss[0].Name, m.Boss[0].Level)
}

func (m *Manager) crown() {
	m.Champion = true
	m.Engine.Finish()
	m.say("You defeated the gym leader. You are the champion!")
}

// Step applies one action and then the team rules for whatever happened.
func (m *Manager) Step(action int) types.Result {
	var r types.Result
	switch action {
	case ActionPotion:
		r = m.turnAction(action, m.usePotion)
	case ActionSwitch:
		r = m.turnAction(action, m.switchNext)
	default:
		r = m.Engine.Step(action)
	}

	follow := events.Dispatch(r.Events, m.handlers)
	r.Events = append(r.Events, follow...)
	r.Output = append(r.Output, m.pending...)
	m.pending = nil

	r.Observation = m.Engine.Observe()
	r.Done = m.Engine.Session.Done
	r.Info = m.Info()
	return r
}

// turnAction runs a team action that replaces the player's move.
func (m *Manager) turnAction(action int, do func(*types.Result) bool) types.Result {
	var r types.Result
	e := m.Engine
	s := e.Session
	if s.Done {
		m.invalid(&r, action, "episode is finished")
	} else if do(&r) && s.InCombat() {
		// Protection lasts for the player's own move only.
		s.Player.Protected = false
		engine.Merge(&r, e.OpponentTurn())
	}
	s.Turn++
	return r
}

func (m *Manager) invalid(r *types.Result, action int, reason string) {
	r.Reward += m.Engine.Tuning.Rewards.Invalid
	r.Events = append(r.Events, events.New(events.InvalidAction, "action", action, "reason", reason))
	r.Output = append(r.Output, fmt.Sprintf("Invalid action %d: %s.", action, reason))
}

// usePotion heals the most injured living member.
func (m *Manager) usePotion(r *types.Result) bool {
	if m.Potions <= 0 {
		m.invalid(r, ActionPotion, "no potions left")
		return false
	}
	target := -1
	for i, c := range m.Roster {
		if c.Fainted() || c.HP >= c.MaxHP() {
			continue
		}
		if target < 0 || c.HPRatio() < m.Roster[target].HPRatio() {
			target = i
		}
	}
	if target < 0 {
		m.invalid(r, ActionPotion, "nobody needs healing")
		return false
	}
	c := m.Roster[target]
	amount := int(math.Floor(float64(c.MaxHP()) * m.Options.PotionFraction))
	if amount < 1 {
		amount = 1
	}
	healed := c.Heal(amount)
	m.Potions--
	r.Events = append(r.Events, events.New(events.PotionUsed,
		"member", target, "healed", healed, "left", m.Potions))
	r.Output = append(r.Output, fmt.Sprintf("Used a potion on %s (+%d HP).", c.Name, healed))
	return true
}

// nextAlive returns the next living member after the active one.
func (m *Manager) nextAlive() (int, bool) {
	for k := 1; k <= len(m.Roster); k++ {
		i := (m.Active + k) % len(m.Roster)
		if i != m.Active && !m.Roster[i].Fainted() {
			return i, true
		}
	}
	return 0, false
}

// switchNext sends in the next living member.
func (m *Manager) switchNext(r *types.Result) bool {
	i, ok := m.nextAlive()
	if !ok {
		m.invalid(r, ActionSwitch, "no one to switch to")
		return false
	}
	m.switchTo(i)
	r.Events = append(r.Events, events.New(events.Switched,
		"member", i, "species", m.ActiveMember().SpeciesID, "reason", "switch"))
	r.Output = append(r.Output, fmt.Sprintf("Go, %s!", m.ActiveMember().Name))
	return true
}

func (m *Manager) switchTo(i int) {
	out := m.ActiveMember()
	out.ResetStages()
	out.Protected = false
	m.Active = i
	m.Engine.SetPlayer(m.ActiveMember())
}

func (m *Manager) wild(types.Event) bool {
	return !m.BossMode
}

func (m *Manager) bossFight(types.Event) bool {
	return m.BossMode
}

func (m *Manager) onEncounter(types.Event) []types.Event {
	if m.Farming() {
		return nil
	}
	m.Engine.EndBattle()
	m.say("The repel kept the wild creature away.")
	return []types.Event{events.New(events.Repelled)}
}

func (m *Manager) onGoal(ev types.Event) []types.Event {
	if eligible, _ := ev.Data["eligible"].(bool); !eligible {
		m.Engine.ReturnToStart()
		m.say("Your team is below level %d. Back to the start to train.", m.Gate())
		return []types.Event{events.New(events.SentBack, "gate", m.Gate())}
	}
	cleared := m.Engine.Session.MapIndex
	if m.LoadMap(cleared + 1) {
		return []types.Event{events.New(events.MapCleared, "map", cleared, "next", cleared+1)}
	}
	m.Engine.Resume()
	m.StartBoss()
	out := []types.Event{events.New(events.MapCleared, "map", cleared)}
	if m.Champion {
		return append(out, events.New(events.Champion))
	}
	return append(out, events.New(events.BossBattle, "size", len(m.Boss)))
}

func (m *Manager) onBossWin(types.Event) []types.Event {
	m.BossIndex++
	if m.BossIndex >= len(m.Boss) {
		m.crown()
		return []types.Event{events.New(events.BossDefeated, "index", m.BossIndex-1), events.New(events.Champion)}
	}
	next := m.Boss[m.BossIndex]
	m.Engine.SendOut(next)
	m.say("The gym leader sends out %s (Lv. %d)!", next.Name, next.Level)
	return []types.Event{events.New(events.BossDefeated, "index", m.BossIndex-1, "next", next.SpeciesID)}
}

func (m *Manager) onFaint(types.Event) []types.Event {
	if m.Champion {
		return nil
	}
	if i, ok := m.nextAlive(); ok {
		m.switchTo(i)
		m.say("Go, %s!", m.ActiveMember().Name)
		return []types.Event{events.New(events.Switched,
			"member", i, "species", m.ActiveMember().SpeciesID, "reason", "faint")}
	}

	m.say("Your whole team fainted. You rush back to heal.")
	m.Engine.EndBattle()
	m.BossMode = false
	m.Boss = nil
	m.LoadMap(m.Engine.Session.MapIndex)
	return []types.Event{events.New(events.WipedOut, "map", m.Engine.Session.MapIndex)}
}

// Info extends the engine's info with team facts.
func (m *Manager) Info() map[string]any {
	info := m.Engine.Info()
	info["active"] = m.Active
	info["alive"] = m.Alive()
	info["potions"] = m.Potions
	info["farming"] = m.Farming()
	info["gate"] = m.Gate()
	info["boss"] = m.BossMode
	info["boss_index"] = m.BossIndex
	info["champion"] = m.Champion
	return info
}
