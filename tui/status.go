package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/tallgrass/engine/battle"
	"github.com/nathoo/tallgrass/engine/world"
)

const hpBarWidth = 12

// renderStatusBar produces a full-width inverted status line showing the
// map, the active member, and the turn count.
func (m Model) renderStatusBar() string {
	mgr := m.manager
	s := mgr.Engine.Session
	p := mgr.ActiveMember()

	left := fmt.Sprintf(" %s (%d/%d) | %s Lv.%d HP %d/%d",
		mgr.Engine.MapDef().Name, s.MapIndex+1, len(mgr.Engine.Dex.Maps),
		p.Name, p.Level, p.HP, p.MaxHP())
	right := fmt.Sprintf("T:%d ", s.Turn)

	// Team facts only if they fit.
	candidate := fmt.Sprintf("Team %d/%d | Potions %d | T:%d ", mgr.Alive(), len(mgr.Roster), mgr.Potions, s.Turn)
	if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
		right = candidate
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}

// renderPanel draws the side panel: the coloured map while exploring, or
// both combatants with HP bars in battle.
func (m Model) renderPanel() string {
	mgr := m.manager
	s := mgr.Engine.Session

	var lines []string
	if s.InCombat() {
		title := "Wild battle"
		if mgr.BossMode {
			title = fmt.Sprintf("Gym leader %d/%d", mgr.BossIndex+1, len(mgr.Boss))
		}
		lines = append(lines, stylePanelTitle.Render(title), "")
		lines = append(lines, combatantLines(s.Opponent)...)
		lines = append(lines, "")
		lines = append(lines, combatantLines(s.Player)...)
	} else {
		lines = append(lines, stylePanelTitle.Render(mgr.Engine.MapDef().Name))
		if g := mgr.Engine.Grid(); g != nil {
			lines = append(lines, mapLines(g, s.Pos)...)
		}
		if mgr.Farming() {
			lines = append(lines, "", fmt.Sprintf("Gate: Lv.%d", mgr.Gate()))
		} else {
			lines = append(lines, "", "Ready to leave")
		}
	}
	return stylePanel.Render(strings.Join(lines, "\n"))
}

// mapLines renders the grid with one style per tile.
func mapLines(g *world.Grid, player world.Pos) []string {
	lines := make([]string, g.Rows())
	for r := 0; r < g.Rows(); r++ {
		var b strings.Builder
		for c := 0; c < g.Cols(); c++ {
			p := world.Pos{Row: r, Col: c}
			t, _ := g.At(p)
			glyph := string(world.Glyph(t))
			if p == player {
				glyph = "@"
			}
			b.WriteString(tileStyle(t, p == player).Render(glyph))
		}
		lines[r] = b.String()
	}
	return lines
}

func combatantLines(c *battle.Combatant) []string {
	if c == nil {
		return nil
	}
	head := fmt.Sprintf("%s Lv.%d", c.Name, c.Level)
	if c.Status != "" {
		head += " " + strings.ToUpper(string(c.Status)[:3])
	}
	return []string{head, hpBar(c.HP, c.MaxHP())}
}

// hpBar draws "[#####.....] 12/20" coloured by the remaining share.
func hpBar(hp, max int) string {
	if max <= 0 {
		max = 1
	}
	if hp < 0 {
		hp = 0
	}
	if hp > max {
		hp = max
	}
	ratio := float64(hp) / float64(max)
	filled := int(ratio*hpBarWidth + 0.5)
	if hp > 0 && filled == 0 {
		filled = 1
	}
	bar := strings.Repeat("#", filled) + strings.Repeat(".", hpBarWidth-filled)
	return "[" + hpStyle(ratio).Render(bar) + fmt.Sprintf("] %d/%d", hp, max)
}
