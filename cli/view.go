package cli

import (
	"fmt"
	"strings"

	"github.com/nathoo/tallgrass/engine/battle"
	"github.com/nathoo/tallgrass/engine/dex"
	"github.com/nathoo/tallgrass/engine/events"
	"github.com/nathoo/tallgrass/engine/parser"
	"github.com/nathoo/tallgrass/engine/resolve"
	"github.com/nathoo/tallgrass/engine/team"
	"github.com/nathoo/tallgrass/types"
)

// Legend explains the map glyphs.
const Legend = "Legend: @ you  # wall  * tall grass  G goal  . path"

// Command parses a line of player input and steps the manager with it.
// In battle a bare number names a 1-based move slot, as listed by Describe.
func Command(m *team.Manager, input string) (types.Result, error) {
	intent := parser.Parse(input)
	mode := m.Engine.Session.Mode
	if mode == types.ModeCombat && intent.Verb == parser.VerbAction {
		intent = parser.Intent{Verb: parser.VerbUse, Object: intent.Object}
	}
	action, err := resolve.Action(intent, mode, m.ActiveMember().Moves)
	if err != nil {
		return types.Result{}, err
	}
	return m.Step(action), nil
}

// Describe renders the current situation: the map while exploring, both
// combatants and the move list in battle.
func Describe(m *team.Manager) []string {
	s := m.Engine.Session
	if s.InCombat() {
		return describeBattle(m)
	}

	md := m.Engine.MapDef()
	lines := []string{fmt.Sprintf("%s (map %d of %d)", md.Name, s.MapIndex+1, len(m.Engine.Dex.Maps))}
	if g := m.Engine.Grid(); g != nil {
		lines = append(lines, g.Render(s.Pos)...)
	}
	lines = append(lines, Legend)
	if m.Farming() {
		lines = append(lines, fmt.Sprintf("Train every member to level %d before leaving.", m.Gate()))
	} else {
		lines = append(lines, "Your team is ready. Head for the goal.")
	}
	return lines
}

func describeBattle(m *team.Manager) []string {
	s := m.Engine.Session
	lines := []string{
		"Foe:  " + Combatant(s.Opponent),
		"You:  " + Combatant(s.Player),
		"Moves:",
	}
	for i, name := range s.Player.Moves {
		mv := m.Engine.Dex.Move(name)
		detail := fmt.Sprintf("%s, power %d", mv.Type, mv.Power)
		if mv.IsStatus() {
			detail = mv.Type + ", status"
		}
		lines = append(lines, fmt.Sprintf("  %d. %s (%s)", i+1, dex.DisplayName(name), detail))
	}
	opts := "Type a move name or number, flee, potion, or switch."
	if s.Trainer {
		opts = "Type a move name or number, potion, or switch."
	}
	return append(lines, opts)
}

// Combatant is a one-line summary: name, level, hp and status.
func Combatant(c *battle.Combatant) string {
	if c == nil {
		return "-"
	}
	line := fmt.Sprintf("%s Lv.%d  HP %d/%d", c.Name, c.Level, c.HP, c.MaxHP())
	if c.Status != types.StatusNone {
		line += "  [" + string(c.Status) + "]"
	}
	if c.Fainted() {
		line += "  (fainted)"
	}
	return line
}

// Team lists the roster with the active member marked.
func Team(m *team.Manager) []string {
	lines := []string{fmt.Sprintf("Team (%d alive, %d potions):", m.Alive(), m.Potions)}
	for i, c := range m.Roster {
		mark := " "
		if i == m.Active {
			mark = "*"
		}
		lines = append(lines, fmt.Sprintf(" %s %d. %s  xp %d, %d to next", mark, i+1, Combatant(c), c.Experience, battle.DefaultCurve.ToNextLevel(c)))
	}
	return lines
}

// Narrate turns a silent step into a short line so every command gets
// feedback.
func Narrate(m *team.Manager, r types.Result) []string {
	if len(r.Output) > 0 {
		return r.Output
	}
	if ev, ok := events.Find(r.Events, events.Moved); ok {
		tile, _ := m.Engine.Grid().At(m.Engine.Session.Pos)
		if tile == types.TileGrass {
			return []string{fmt.Sprintf("You wade %s through tall grass.", ev.Data["direction"])}
		}
		return []string{fmt.Sprintf("You walk %s.", ev.Data["direction"])}
	}
	return nil
}

// Trace formats the structured side of a result.
func Trace(r types.Result) []string {
	lines := []string{fmt.Sprintf("[trace] reward %+.2f done=%v", r.Reward, r.Done)}
	for _, e := range r.Events {
		if len(e.Data) == 0 {
			lines = append(lines, fmt.Sprintf("[trace]   %s", e.Type))
			continue
		}
		lines = append(lines, fmt.Sprintf("[trace]   %s %v", e.Type, e.Data))
	}
	return lines
}

// State dumps debugging counters.
func State(m *team.Manager) []string {
	s := m.Engine.Session
	return []string{
		fmt.Sprintf("Turn: %d", s.Turn),
		fmt.Sprintf("Mode: %s", s.Mode),
		fmt.Sprintf("Map: %d at (%d, %d)", s.MapIndex, s.Pos.Row, s.Pos.Col),
		fmt.Sprintf("Gate: %d (farming: %v)", m.Gate(), m.Farming()),
		fmt.Sprintf("Boss: %v (slot %d)", m.BossMode, m.BossIndex),
		fmt.Sprintf("RNG: seed %d position %d", m.Engine.RNG.Seed(), m.Engine.RNG.Position()),
	}
}

// Help lists meta-commands and game commands.
func Help() []string {
	return []string{
		"System:",
		"  /save [name]  Save game (default: quicksave)",
		"  /load [name]  Load game (default: quicksave)",
		"  /auto [n]     Let the autopilot play n steps (default 1)",
		"  /quit         Exit game",
		"  /help         Show this help",
		"  /state        Debug: dump current state",
		"  /trace        Toggle debug trace output",
		"",
		"Exploring:",
		"  go <dir>      Move up/down/left/right (or n/s/e/w)",
		"  look (l)      Show the map",
		"  team (t)      Show your team",
		"",
		"Battle:",
		"  use <move>    Attack with a move (name, word or slot number)",
		"  flee (run)    Try to escape a wild battle",
		"  potion        Heal the most injured member (costs the turn)",
		"  switch        Send out the next member (costs the turn)",
		"",
		"  again (g)     Repeat your last command",
	}
}

// Banner is printed once at startup.
func Banner(m *team.Manager) []string {
	return []string{
		"tallgrass: train a team through the tall grass and beat the gym leader.",
		fmt.Sprintf("%d maps, %d species. Type /help for commands.", len(m.Engine.Dex.Maps), len(m.Engine.Dex.Species)),
		"",
	}
}

// IsLook reports whether input asks for the map or battle view.
func IsLook(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "look", "l", "map", "m":
		return true
	}
	return false
}

// IsTeam reports whether input asks for the roster.
func IsTeam(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "team", "t", "party":
		return true
	}
	return false
}
