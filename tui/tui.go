package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/tallgrass/cli"
	"github.com/nathoo/tallgrass/engine/team"
	"github.com/nathoo/tallgrass/policy"
	"github.com/nathoo/tallgrass/types"
)

// minNarrativeWidth is the narrowest viewport that still gets a side panel.
const minNarrativeWidth = 40

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for echoed player input
	isSystem bool // true for system messages
}

// Model is the Bubble Tea model for the tallgrass TUI.
type Model struct {
	manager   *team.Manager
	content   string
	autopilot policy.Policy

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine // accumulated narrative lines (unstyled, for re-wrapping)

	width     int
	height    int
	showPanel bool
	ready     bool
	trace     bool
	quitting  bool
	lastCmd   string
	saveDir   string
}

// gameOutputMsg carries output into the Update loop.
type gameOutputMsg struct {
	input    string   // echoed player input (empty for intro)
	lines    []string // output lines
	isSystem bool     // true for meta-command output
}

// New creates a TUI model wired to the given manager. autopilot may be nil.
func New(m *team.Manager, content string, autopilot policy.Policy) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	return Model{
		manager:   m,
		content:   content,
		autopilot: autopilot,
		input:     ti,
		history:   NewHistory(100),
		saveDir:   cli.DefaultSaveDir(),
	}
}

// Run starts the Bubble Tea program.
func Run(m *team.Manager, content string, autopilot policy.Policy) error {
	p := tea.NewProgram(New(m, content, autopilot), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init returns the initial command that produces the banner and first view.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput())
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		lines := cli.Banner(m.manager)
		lines = append(lines, cli.Describe(m.manager)...)
		return gameOutputMsg{lines: lines}
	}
}

// Update handles messages (key presses, window resize, game output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 2 // 1 status bar + 1 input line
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Height = vpHeight
		}

		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.ResetCursor()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case gameOutputMsg:
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}

	m.history.Push(input)
	m.history.ResetCursor()

	// Handle "again" / "g".
	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if m.lastCmd == "" {
			m = m.appendOutput(gameOutputMsg{
				input: input, lines: []string{"Nothing to repeat."}, isSystem: true,
			})
			return m, nil
		}
		input = m.lastCmd
	} else if !strings.HasPrefix(input, "/") {
		m.lastCmd = input
	}

	// Meta-commands.
	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(gameOutputMsg{input: input, lines: output, isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	m = m.appendOutput(gameOutputMsg{input: input, lines: m.command(input)})
	return m, nil
}

// command runs one game command and returns its narration.
func (m *Model) command(input string) []string {
	switch {
	case cli.IsLook(input):
		return cli.Describe(m.manager)
	case cli.IsTeam(input):
		return cli.Team(m.manager)
	}

	s := m.manager.Engine.Session
	mode, mapIdx := s.Mode, s.MapIndex
	result, err := cli.Command(m.manager, input)
	if err != nil {
		msg := err.Error()
		return []string{strings.ToUpper(msg[:1]) + msg[1:] + "."}
	}
	out := m.narrate(result)
	s = m.manager.Engine.Session
	if s.Mode != mode && s.InCombat() {
		out = append(out, cli.Describe(m.manager)...)
	} else if s.MapIndex != mapIdx {
		out = append(out, "", fmt.Sprintf("Now on map %d of %d.", s.MapIndex+1, len(m.manager.Engine.Dex.Maps)))
	}
	return out
}

func (m *Model) narrate(r types.Result) []string {
	out := cli.Narrate(m.manager, r)
	if m.trace {
		out = append(out, cli.Trace(r)...)
	}
	if r.Done {
		out = append(out, "The run is over. /load a save, or /quit.")
	}
	return out
}

// appendOutput adds lines to the narrative and refreshes the viewport.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{
			text: "> " + msg.input, isInput: true,
		})
	}

	for _, line := range msg.lines {
		rl := rawLine{text: line, isSystem: msg.isSystem}
		if !msg.isSystem {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}

	// Blank line separator between turns.
	m.rawLines = append(m.rawLines, rawLine{})

	m.refreshViewport()

	return m
}

// layout sizes the viewport around the side panel, dropping the panel
// when the terminal is too narrow for both.
func (m *Model) layout() {
	pw := lipgloss.Width(m.renderPanel())
	m.showPanel = m.width-pw >= minNarrativeWidth
	if m.showPanel {
		m.viewport.Width = m.width - pw
	} else {
		m.viewport.Width = m.width
	}
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.layout()

	width := m.viewport.Width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		wrapped := wordWrap(rl.text, width)

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries. Lines already within the width keep their spacing, so map
// rows and indented move lists survive.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wLen := len(word)

		if i == 0 {
			result.WriteString(word)
			lineLen = wLen
			continue
		}

		if lineLen+1+wLen > width {
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = wLen
		} else {
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wLen
		}
	}

	return result.String()
}

// View renders the full TUI layout: viewport and panel, status bar, input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	top := m.viewport.View()
	if m.showPanel {
		top = lipgloss.JoinHorizontal(lipgloss.Top, top, m.renderPanel())
	}
	return top + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/save":
		msg, err := cli.SaveGame(m.manager, m.content, m.saveDir, arg)
		if err != nil {
			return []string{fmt.Sprintf("Save failed: %v", err)}, false
		}
		return []string{msg}, false

	case "/load":
		msg, err := cli.LoadGame(m.manager, m.content, m.saveDir, arg)
		if err != nil {
			return []string{fmt.Sprintf("Load failed: %v", err)}, false
		}
		return append([]string{msg}, cli.Describe(m.manager)...), false

	case "/auto":
		return m.cmdAuto(arg), false

	case "/help":
		return append(cli.Help(), "", "Navigation: PgUp/PgDn to scroll, Up/Down for command history"), false

	case "/state":
		return cli.State(m.manager), false

	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (m *Model) cmdAuto(arg string) []string {
	if m.autopilot == nil {
		return []string{"No autopilot configured."}
	}
	n := 1
	if arg != "" {
		v, err := strconv.Atoi(arg)
		if err != nil || v < 1 {
			return []string{fmt.Sprintf("Bad step count %q.", arg)}
		}
		n = v
	}

	var out []string
	mgr := m.manager
	ep, _ := policy.Run(func(a int) (types.Result, error) {
		return mgr.Step(a), nil
	}, mgr.Engine.Observe(), m.autopilot, n, func(r types.Result) {
		out = append(out, m.narrate(r)...)
	})
	return append(out, fmt.Sprintf("Autopilot took %d step(s), reward %+.2f.", ep.Steps, ep.Reward))
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
