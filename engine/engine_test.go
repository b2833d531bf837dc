package engine

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/nathoo/tallgrass/engine/battle"
	"github.com/nathoo/tallgrass/engine/dex"
	"github.com/nathoo/tallgrass/engine/events"
	"github.com/nathoo/tallgrass/engine/world"
	"github.com/nathoo/tallgrass/types"
)

// testDex returns the builtin content with a single custom map.
func testDex(t *testing.T, rows ...string) *dex.Dex {
	t.Helper()
	g, err := world.Parse("test", rows)
	if err != nil {
		t.Fatalf("parse map: %v", err)
	}
	d := dex.Builtin()
	d.Maps = []dex.MapDef{{Grid: g, Name: "Test", Gate: 10, Encounters: []string{"rattata"}}}
	return d
}

func testEngine(t *testing.T, mutate func(*Tuning), rows ...string) *Engine {
	t.Helper()
	tu := DefaultTuning()
	if mutate != nil {
		mutate(&tu)
	}
	return New(testDex(t, rows...), tu)
}

func spawn(d *dex.Dex, id string, level int, moves ...string) *battle.Combatant {
	return battle.New(d.SpeciesByID(id), level, moves)
}

func TestReset_StartsExploring(t *testing.T) {
	e := New(dex.Builtin(), DefaultTuning())
	obs := e.Reset(WithSeed(3))

	if obs.Mode != types.ModeExploration {
		t.Fatalf("mode = %q, want exploration", obs.Mode)
	}
	if len(obs.Grid) != NumChannels || len(obs.Grid[0]) != 10 || len(obs.Grid[0][0]) != 10 {
		t.Fatalf("grid shape wrong: %d channels", len(obs.Grid))
	}
	if e.Session.Pos != (world.Pos{}) {
		t.Errorf("pos = %v, want start", e.Session.Pos)
	}
	if e.Session.Player.SpeciesID != "charmander" || e.Session.Player.Level != 5 {
		t.Errorf("player = %s Lv%d", e.Session.Player.SpeciesID, e.Session.Player.Level)
	}
}

func TestReset_WithMap(t *testing.T) {
	e := New(dex.Builtin(), DefaultTuning())
	e.Reset(WithMap(2))
	if e.Session.MapIndex != 2 {
		t.Errorf("map = %d, want 2", e.Session.MapIndex)
	}
	e.Reset(WithMap(99))
	if e.Session.MapIndex != 0 {
		t.Errorf("out of range map = %d, want 0", e.Session.MapIndex)
	}
}

func TestReset_KeepsPlayerRestored(t *testing.T) {
	e := New(dex.Builtin(), DefaultTuning())
	p := e.Session.Player
	p.TakeDamage(5)
	p.Status = types.StatusBurned
	e.Reset()
	if e.Session.Player != p || p.HP != p.MaxHP() || p.Status != types.StatusNone {
		t.Error("reset should keep the same combatant at full health")
	}
}

func TestObserve_Channels(t *testing.T) {
	e := New(dex.Builtin(), DefaultTuning())
	g := e.Observe().Grid

	if g[ChannelWalls][1][1] != 1 {
		t.Error("wall at (1,1) missing")
	}
	if g[ChannelInterest][0][3] != 0.5 {
		t.Error("grass at (0,3) should be 0.5")
	}
	if g[ChannelInterest][9][9] != 1 {
		t.Error("goal at (9,9) should be 1")
	}
	if g[ChannelPlayer][0][0] != 1 {
		t.Error("player marker missing")
	}
	if !reflect.DeepEqual(g, e.Observe().Grid) {
		t.Error("observation should be a pure function of the session")
	}
}

func TestStep_WallBump(t *testing.T) {
	e := New(dex.Builtin(), DefaultTuning())
	res := e.Step(ActionUp) // off the top edge

	if res.Reward != -0.5 {
		t.Errorf("reward = %v, want -0.5", res.Reward)
	}
	if e.Session.Pos != (world.Pos{}) {
		t.Errorf("pos = %v, want unchanged", e.Session.Pos)
	}
	if !events.Has(res.Events, events.Blocked) {
		t.Error("expected blocked event")
	}

	e.Step(ActionDown)
	res = e.Step(ActionRight) // (1,1) is a wall
	if res.Reward != -0.5 || e.Session.Pos != (world.Pos{Row: 1}) {
		t.Errorf("wall bump: reward %v pos %v", res.Reward, e.Session.Pos)
	}
}

func TestStep_PathAndGrassRewards(t *testing.T) {
	e := testEngine(t, func(tu *Tuning) { tu.EncounterRate = 0 }, "S.*")
	if res := e.Step(ActionRight); res.Reward != -0.01 {
		t.Errorf("path reward = %v, want -0.01", res.Reward)
	}
	if res := e.Step(ActionRight); res.Reward != 0.1 {
		t.Errorf("grass reward = %v, want 0.1", res.Reward)
	}
}

func TestStep_GoalTerminal(t *testing.T) {
	e := testEngine(t, nil, "S.G")
	e.Step(ActionRight)
	res := e.Step(ActionRight)

	if !events.Has(res.Events, events.GoalReached) {
		t.Fatal("expected goal_reached")
	}
	if !res.Done {
		t.Error("goal should be terminal without an eligibility hook")
	}
	if res.Reward != 150 {
		t.Errorf("reward = %v, want 150 below target level", res.Reward)
	}

	res = e.Step(ActionLeft)
	if !events.Has(res.Events, events.InvalidAction) || e.Session.Pos.Col != 2 {
		t.Error("steps after done should be rejected")
	}
}

func TestStep_GoalNotEligible(t *testing.T) {
	e := testEngine(t, nil, "S.G")
	e.Eligible = func(*Session) bool { return false }

	for i := 0; i < 3; i++ {
		e.Step(ActionRight)
		res := e.Step(ActionRight)
		if !events.Has(res.Events, events.GoalReached) {
			t.Fatalf("visit %d: goal_reached missing", i)
		}
		if res.Done {
			t.Fatalf("visit %d: goal should not be terminal", i)
		}
		e.Step(ActionLeft)
		e.Step(ActionLeft)
	}
}

func TestStep_GoalHighLevelReward(t *testing.T) {
	e := testEngine(t, nil, "SG")
	e.Reset(WithPlayer(spawn(e.Dex, "charmander", 30)))
	if res := e.Step(ActionRight); res.Reward != 500 {
		t.Errorf("reward = %v, want 500", res.Reward)
	}
}

func TestStep_InvalidExploreAction(t *testing.T) {
	e := New(dex.Builtin(), DefaultTuning())
	before := *e.Session
	for _, a := range []int{-1, 4, 7} {
		res := e.Step(a)
		if res.Reward != -0.5 || !events.Has(res.Events, events.InvalidAction) {
			t.Errorf("action %d: reward %v events %v", a, res.Reward, res.Events)
		}
	}
	if e.Session.Pos != before.Pos || e.Session.Mode != before.Mode {
		t.Error("invalid actions changed state")
	}
}

func TestStep_Deterministic(t *testing.T) {
	run := func() []types.Result {
		tu := DefaultTuning()
		tu.Seed = 99
		e := New(dex.Builtin(), tu)
		actions := rand.New(rand.NewSource(5))
		var out []types.Result
		for i := 0; i < 300 && !e.Session.Done; i++ {
			out = append(out, e.Step(actions.Intn(NumCombatActions)))
		}
		return out
	}
	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Reward != b[i].Reward || !reflect.DeepEqual(a[i].Info, b[i].Info) {
			t.Fatalf("step %d differs", i)
		}
	}
}

func TestWildOpponent_Weights(t *testing.T) {
	e := testEngine(t, nil, "S*")
	e.Dex.Maps[0].Encounters = []string{"rattata", "pidgey"}
	e.Dex.Maps[0].Weights = []int{1, 99}

	pidgey := 0
	for i := 0; i < 200; i++ {
		if e.WildOpponent().SpeciesID == "pidgey" {
			pidgey++
		}
	}
	if pidgey < 180 {
		t.Errorf("pidgey drawn %d/200 times at 99%% odds", pidgey)
	}

	// Weights that do not line up with the pool fall back to even odds.
	e.Dex.Maps[0].Weights = []int{1}
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		seen[e.WildOpponent().SpeciesID] = true
	}
	if !seen["rattata"] || !seen["pidgey"] {
		t.Errorf("seen = %v, want both species", seen)
	}
}
