package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nathoo/tallgrass/engine"
	"github.com/nathoo/tallgrass/engine/battle"
	"github.com/nathoo/tallgrass/engine/dex"
	"github.com/nathoo/tallgrass/engine/team"
	"github.com/nathoo/tallgrass/engine/world"
	"github.com/nathoo/tallgrass/policy"
	"github.com/nathoo/tallgrass/types"
)

// testManager builds a two-map manager over "S.*G" with a one-member roster.
func testManager(t *testing.T, encounterRate float64) *team.Manager {
	t.Helper()
	d := dex.Builtin()
	d.Maps = nil
	for _, id := range []string{"first", "second"} {
		g, err := world.Parse(id, []string{"S.*G"})
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		d.Maps = append(d.Maps, dex.MapDef{Grid: g, Name: dex.DisplayName(id), Gate: 10, Encounters: []string{"rattata"}})
	}
	tu := engine.DefaultTuning()
	tu.EncounterRate = encounterRate
	m := team.New(engine.New(d, tu), team.Options{Size: 1, Level: 5, Potions: 2, Members: []string{"charmander"}})
	return m
}

func newTestCLI(t *testing.T, m *team.Manager, input string) (*CLI, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	c := &CLI{
		Manager: m,
		Content: "test",
		In:      strings.NewReader(input),
		Out:     &out,
		SaveDir: t.TempDir(),
	}
	return c, &out
}

func TestCLI_BannerAndMap(t *testing.T) {
	c, out := newTestCLI(t, testManager(t, 0), "/quit\n")
	c.Run()

	output := out.String()
	for _, want := range []string{"tallgrass:", "First (map 1 of 2)", "@.*G", Legend, "Train every member to level 10"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestCLI_Movement(t *testing.T) {
	c, out := newTestCLI(t, testManager(t, 0), "right\ngo east\n/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "You walk right.") {
		t.Error("expected walk narration")
	}
	if !strings.Contains(output, "You wade right through tall grass.") {
		t.Error("expected grass narration")
	}
	if got := c.Manager.Engine.Session.Pos; got != (world.Pos{Col: 2}) {
		t.Errorf("pos = %v, want col 2", got)
	}
}

func TestCLI_WallBump(t *testing.T) {
	c, out := newTestCLI(t, testManager(t, 0), "up\n/quit\n")
	c.Run()
	if !strings.Contains(out.String(), "You bump into a wall.") {
		t.Errorf("expected wall message:\n%s", out.String())
	}
}

func TestCLI_GoalWhileFarmingSendsBack(t *testing.T) {
	c, out := newTestCLI(t, testManager(t, 0), "right\nright\nright\n/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "Back to the start to train.") {
		t.Errorf("expected sent-back message:\n%s", output)
	}
	if c.Manager.Engine.Session.Pos != (world.Pos{}) {
		t.Errorf("pos = %v, want start", c.Manager.Engine.Session.Pos)
	}
}

func TestCLI_BattleCommands(t *testing.T) {
	m := testManager(t, 1)
	c, out := newTestCLI(t, m, "right\nright\nlook\n/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "A wild Rattata") {
		t.Fatalf("expected an encounter:\n%s", output)
	}
	for _, want := range []string{"Foe:  Rattata", "You:  Charmander", "Moves:", "  1. "} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in battle view", want)
		}
	}
}

func TestCommand_BareNumberIsMoveSlotInBattle(t *testing.T) {
	m := testManager(t, 0)
	m.Engine.StartBattle(battle.New(m.Engine.Dex.SpeciesByID("rattata"), 3, nil))

	if _, err := Command(m, "1"); err != nil {
		t.Fatalf("Command(1): %v", err)
	}
	if _, err := Command(m, "9"); err == nil {
		t.Error("slot 9 should not resolve")
	}
}

func TestCommand_ModeErrors(t *testing.T) {
	m := testManager(t, 0)
	if _, err := Command(m, "flee"); err == nil {
		t.Error("fleeing while exploring should fail")
	}
	if _, err := Command(m, "dance"); err == nil {
		t.Error("unknown verb should fail")
	}
}

func TestCLI_ErrorsAreCapitalized(t *testing.T) {
	c, out := newTestCLI(t, testManager(t, 0), "go nowhere\n/quit\n")
	c.Run()
	if !strings.Contains(out.String(), "Go where?") {
		t.Errorf("expected capitalized error:\n%s", out.String())
	}
}

func TestCLI_HelpCommand(t *testing.T) {
	c, out := newTestCLI(t, testManager(t, 0), "/help\n/quit\n")
	c.Run()

	output := out.String()
	for _, want := range []string{"/save", "/load", "/auto", "/quit", "flee", "potion", "again"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in help output", want)
		}
	}
}

func TestCLI_TeamCommand(t *testing.T) {
	c, out := newTestCLI(t, testManager(t, 0), "team\n/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "Team (1 alive, 2 potions):") {
		t.Errorf("expected team header:\n%s", output)
	}
	if !strings.Contains(output, " * 1. Charmander Lv.5") {
		t.Errorf("expected active member line:\n%s", output)
	}
}

func TestCLI_SaveAndLoad(t *testing.T) {
	m := testManager(t, 0)
	c, out := newTestCLI(t, m, "right\n/save slot1\nright\n/load slot1\n/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "Game saved to slot1.") {
		t.Errorf("expected save confirmation:\n%s", output)
	}
	if !strings.Contains(output, "Game loaded from slot1 (turn 1).") {
		t.Errorf("expected load confirmation:\n%s", output)
	}
	if got := m.Engine.Session.Pos; got != (world.Pos{Col: 1}) {
		t.Errorf("pos after load = %v, want col 1", got)
	}
}

func TestCLI_LoadRejectsOtherContent(t *testing.T) {
	m := testManager(t, 0)
	dir := t.TempDir()
	if _, err := SaveGame(m, "kanto", dir, "x"); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}
	if _, err := LoadGame(m, "test", dir, "x"); err == nil {
		t.Error("loading a save from other content should fail")
	}
}

func TestCLI_LoadNonexistent(t *testing.T) {
	c, out := newTestCLI(t, testManager(t, 0), "/load nope\n/quit\n")
	c.Run()
	if !strings.Contains(out.String(), "Load failed") {
		t.Error("expected load failure message")
	}
}

func TestCLI_UnknownMetaCommand(t *testing.T) {
	c, out := newTestCLI(t, testManager(t, 0), "/foobar\n/quit\n")
	c.Run()
	if !strings.Contains(out.String(), "Unknown command: /foobar") {
		t.Error("expected unknown command message")
	}
}

func TestCLI_TraceToggle(t *testing.T) {
	c, out := newTestCLI(t, testManager(t, 0), "/trace\nright\n/trace\n/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "Trace output enabled.") || !strings.Contains(output, "Trace output disabled.") {
		t.Error("expected trace toggle messages")
	}
	if !strings.Contains(output, "[trace]   moved") {
		t.Errorf("expected traced event:\n%s", output)
	}
}

func TestCLI_StateCommand(t *testing.T) {
	c, out := newTestCLI(t, testManager(t, 0), "/state\n/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "Mode: exploration") || !strings.Contains(output, "Gate: 10") {
		t.Errorf("expected state dump:\n%s", output)
	}
}

func TestCLI_EmptyInputAndComments(t *testing.T) {
	c, out := newTestCLI(t, testManager(t, 0), "\n# a comment\n   \n/quit\n")
	c.Run()
	if strings.Contains(out.String(), "a comment") {
		t.Error("comment lines should be skipped")
	}
}

func TestCLI_Again_RepeatsLastCommand(t *testing.T) {
	c, _ := newTestCLI(t, testManager(t, 0), "right\nagain\n/quit\n")
	c.Run()
	if got := c.Manager.Engine.Session.Pos; got != (world.Pos{Col: 2}) {
		t.Errorf("pos = %v, want col 2", got)
	}
}

func TestCLI_G_RepeatsLastCommand(t *testing.T) {
	c, _ := newTestCLI(t, testManager(t, 0), "right\ng\n/quit\n")
	c.Run()
	if got := c.Manager.Engine.Session.Pos; got != (world.Pos{Col: 2}) {
		t.Errorf("pos = %v, want col 2", got)
	}
}

func TestCLI_Again_NothingToRepeat(t *testing.T) {
	c, out := newTestCLI(t, testManager(t, 0), "again\n/quit\n")
	c.Run()
	if !strings.Contains(out.String(), "Nothing to repeat.") {
		t.Error("expected 'Nothing to repeat.' message")
	}
}

func TestCLI_Auto(t *testing.T) {
	m := testManager(t, 0)
	c, out := newTestCLI(t, m, "/auto 2\n/quit\n")
	c.Autopilot = policy.Func(func(types.Observation) int { return engine.ActionRight })
	c.Run()

	if !strings.Contains(out.String(), "Autopilot took 2 step(s)") {
		t.Errorf("expected autopilot summary:\n%s", out.String())
	}
	if got := m.Engine.Session.Pos; got != (world.Pos{Col: 2}) {
		t.Errorf("pos = %v, want col 2", got)
	}
}

func TestCLI_AutoWithoutPolicy(t *testing.T) {
	c, out := newTestCLI(t, testManager(t, 0), "/auto\n/quit\n")
	c.Run()
	if !strings.Contains(out.String(), "No autopilot configured.") {
		t.Error("expected missing autopilot message")
	}
}
