// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for the tallgrass simulator.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nathoo/tallgrass/engine/save"
	"github.com/nathoo/tallgrass/engine/team"
	"github.com/nathoo/tallgrass/policy"
	"github.com/nathoo/tallgrass/types"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Manager   *team.Manager
	Content   string // content set name recorded in saves
	Autopilot policy.Policy
	In        io.Reader
	Out       io.Writer
	SaveDir   string
	Trace     bool
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// DefaultSaveDir is where saves go unless overridden.
func DefaultSaveDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".tallgrass", "saves")
}

// New creates a CLI wired to the given manager.
func New(m *team.Manager, content string) *CLI {
	return &CLI{
		Manager: m,
		Content: content,
		In:      os.Stdin,
		Out:     os.Stdout,
		SaveDir: DefaultSaveDir(),
	}
}

// Run starts the game loop: banner, first view, then prompt, input,
// dispatch and output until input ends or /quit.
func (c *CLI) Run() {
	c.printLines(Banner(c.Manager))
	c.printLines(Describe(c.Manager))

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		c.command(input)
	}
}

// command runs one game command and prints what happened.
func (c *CLI) command(input string) {
	switch {
	case IsLook(input):
		c.printLines(Describe(c.Manager))
		return
	case IsTeam(input):
		c.printLines(Team(c.Manager))
		return
	}

	before := c.snapshot()
	result, err := Command(c.Manager, input)
	if err != nil {
		c.printLine(capitalize(err.Error()) + ".")
		return
	}
	c.report(before, result)
}

type view struct {
	mode   types.Mode
	mapIdx int
}

func (c *CLI) snapshot() view {
	s := c.Manager.Engine.Session
	return view{mode: s.Mode, mapIdx: s.MapIndex}
}

// report prints a step's narration and redraws the view when the mode or
// map changed underneath the player.
func (c *CLI) report(before view, result types.Result) {
	c.printLines(Narrate(c.Manager, result))
	if c.Trace {
		c.printLines(Trace(result))
	}
	if before != c.snapshot() {
		c.printLine("")
		c.printLines(Describe(c.Manager))
	}
	if result.Done {
		c.printSystem("The run is over. /load a save, or /quit.")
	}
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/save":
		c.cmdSave(arg)

	case "/load":
		c.cmdLoad(arg)

	case "/auto":
		c.cmdAuto(arg)

	case "/help":
		c.printLines(Help())

	case "/state":
		for _, line := range State(c.Manager) {
			c.printSystem(line)
		}

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdSave(name string) {
	if msg, err := SaveGame(c.Manager, c.Content, c.SaveDir, name); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
	} else {
		c.printSystem(msg)
	}
}

func (c *CLI) cmdLoad(name string) {
	msg, err := LoadGame(c.Manager, c.Content, c.SaveDir, name)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}
	c.printSystem(msg)
	c.printLines(Describe(c.Manager))
}

func (c *CLI) cmdAuto(arg string) {
	if c.Autopilot == nil {
		c.printSystem("No autopilot configured.")
		return
	}
	n := 1
	if arg != "" {
		v, err := strconv.Atoi(arg)
		if err != nil || v < 1 {
			c.printSystem(fmt.Sprintf("Bad step count %q.", arg))
			return
		}
		n = v
	}

	m := c.Manager
	before := c.snapshot()
	ep, _ := policy.Run(func(a int) (types.Result, error) {
		before = c.snapshot()
		return m.Step(a), nil
	}, m.Engine.Observe(), c.Autopilot, n, func(r types.Result) {
		c.report(before, r)
	})
	c.printSystem(fmt.Sprintf("Autopilot took %d step(s), reward %+.2f.", ep.Steps, ep.Reward))
}

// SaveGame writes a snapshot under dir and returns a status message.
func SaveGame(m *team.Manager, content, dir, name string) (string, error) {
	if name == "" {
		name = "quicksave"
	}
	data, err := save.Save(m, content)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, name+".json"), data, 0o644); err != nil {
		return "", err
	}
	return fmt.Sprintf("Game saved to %s.", name), nil
}

// LoadGame restores a snapshot from dir and returns a status message.
func LoadGame(m *team.Manager, content, dir, name string) (string, error) {
	if name == "" {
		name = "quicksave"
	}
	data, err := os.ReadFile(filepath.Join(dir, name+".json"))
	if err != nil {
		return "", err
	}
	sd, err := save.Load(data)
	if err != nil {
		return "", err
	}
	if sd.Content != content {
		return "", fmt.Errorf("save was made with content %q, running %q", sd.Content, content)
	}
	if err := save.ApplySave(m, sd); err != nil {
		return "", err
	}
	return fmt.Sprintf("Game loaded from %s (turn %d).", name, sd.Turn), nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (c *CLI) printLines(lines []string) {
	for _, line := range lines {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
