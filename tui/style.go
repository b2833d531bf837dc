package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/tallgrass/types"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarrative = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleBattle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleGood = lipgloss.NewStyle().
			Foreground(lipgloss.Color("78")).
			Bold(true)

	styleBad = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	stylePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	stylePanelTitle = lipgloss.NewStyle().Bold(true)
)

// Tile colours for the map panel.
var (
	styleTileWall   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleTileGrass  = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	styleTileGoal   = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true)
	styleTilePath   = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	styleTilePlayer = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarrative lineKind = iota
	kindBattle
	kindGood
	kindBad
	kindSystem
	kindError
	kindTrace
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "Invalid action"),
		strings.HasPrefix(line, "You can't"),
		strings.HasPrefix(line, "Go where?"),
		strings.HasPrefix(line, "Unknown"):
		return kindError
	case strings.Contains(line, "fainted"),
		strings.Contains(line, "bump into"),
		strings.Contains(line, "not very effective"),
		strings.Contains(line, "missed"),
		strings.HasPrefix(line, "Can't escape"),
		strings.HasPrefix(line, "Your team is below"):
		return kindBad
	case strings.Contains(line, "super effective"),
		strings.Contains(line, "grew to level"),
		strings.Contains(line, "champion"),
		strings.HasPrefix(line, "You reached the end"),
		strings.HasPrefix(line, "Got away"):
		return kindGood
	case strings.HasPrefix(line, "A wild"),
		strings.Contains(line, " used "),
		strings.Contains(line, "sends out"),
		strings.HasPrefix(line, "Go, "):
		return kindBattle
	default:
		return kindNarrative
	}
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindBattle:
		return styleBattle.Render(line)
	case kindGood:
		return styleGood.Render(line)
	case kindBad:
		return styleBad.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleNarrative.Render(line)
	}
}

// tileStyle picks the map panel colour for a tile, or for the player.
func tileStyle(t types.Tile, player bool) lipgloss.Style {
	if player {
		return styleTilePlayer
	}
	switch t {
	case types.TileWall:
		return styleTileWall
	case types.TileGrass:
		return styleTileGrass
	case types.TileGoal:
		return styleTileGoal
	default:
		return styleTilePath
	}
}

// hpStyle colours an HP bar by how much is left.
func hpStyle(ratio float64) lipgloss.Style {
	switch {
	case ratio > 0.5:
		return styleGood
	case ratio > 0.2:
		return styleBattle
	default:
		return styleBad
	}
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
