package loader

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/tallgrass/engine/dex"
	"github.com/nathoo/tallgrass/types"
)

func newTestVM() (*lua.LState, *collector) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibs(L)
	sandbox(L)
	coll := &collector{}
	registerAPI(L, coll)
	return L, coll
}

func writeContent(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, src := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoad_Minimal(t *testing.T) {
	d, err := Load("testdata/minimal")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(d.Species) != 2 || len(d.Moves) != 7 {
		t.Fatalf("got %d species, %d moves; want 2, 7", len(d.Species), len(d.Moves))
	}

	mankey, ok := d.LookupSpecies("mankey")
	if !ok {
		t.Fatal("species ids should be lowercased")
	}
	if mankey.Name != "Pig Monkey" {
		t.Errorf("Name = %q", mankey.Name)
	}
	if !reflect.DeepEqual(mankey.Types, []string{"fighting"}) {
		t.Errorf("Types = %v", mankey.Types)
	}
	if mankey.Base.Attack != 80 || mankey.Base.SpDefense != 45 {
		t.Errorf("Base = %+v", mankey.Base)
	}
	if got := d.Species["charmander"].Name; got != "Charmander" {
		t.Errorf("default name = %q, want Charmander", got)
	}

	// Charts default to the classic table.
	if d.Multiplier("fire", []string{"grass"}) != 2 {
		t.Error("expected the default type chart")
	}
}

func TestLoad_MoveCategories(t *testing.T) {
	d, err := Load("testdata/minimal")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tests := []struct {
		move     string
		category types.Category
		accuracy float64
	}{
		{"tackle", types.CategoryPhysical, 1.0},
		{"ember", types.CategorySpecial, 1.0},
		{"karate-chop", types.CategorySpecial, 0.9},
		{"growl", types.CategoryStatus, 1.0},
		{"spore", types.CategoryStatus, 0.75},
	}
	for _, tt := range tests {
		t.Run(tt.move, func(t *testing.T) {
			m, ok := d.LookupMove(tt.move)
			if !ok {
				t.Fatalf("move %q missing", tt.move)
			}
			if m.Category != tt.category {
				t.Errorf("Category = %q, want %q", m.Category, tt.category)
			}
			if m.Accuracy != tt.accuracy {
				t.Errorf("Accuracy = %v, want %v", m.Accuracy, tt.accuracy)
			}
		})
	}
}

func TestLoad_Effects(t *testing.T) {
	d, err := Load("testdata/minimal")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := map[string]dex.Effect{
		"growl":   dex.StageEffect{Who: dex.TargetOpponent, Stat: types.StatAttack, Delta: -1},
		"recover": dex.HealEffect{Fraction: 0.5},
		"protect": dex.ProtectEffect{},
		"spore":   dex.StatusEffect{Who: dex.TargetOpponent, Status: types.StatusAsleep},
		"tackle":  nil,
	}
	for name, eff := range want {
		if got := d.Moves[name].Effect; !reflect.DeepEqual(got, eff) {
			t.Errorf("%s effect = %#v, want %#v", name, got, eff)
		}
	}
}

func TestLoad_MapsInDefinitionOrder(t *testing.T) {
	d, err := Load("testdata/minimal")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(d.Maps) != 2 {
		t.Fatalf("got %d maps, want 2", len(d.Maps))
	}
	if d.Maps[0].Grid.ID != "second" || d.Maps[1].Grid.ID != "first" {
		t.Errorf("map order = %s, %s", d.Maps[0].Grid.ID, d.Maps[1].Grid.ID)
	}
	first := d.Maps[1]
	if first.Name != "The Start" || first.Gate != 10 {
		t.Errorf("first = %q gate %d", first.Name, first.Gate)
	}
	if d.Maps[0].Name != "Second" {
		t.Errorf("default map name = %q, want Second", d.Maps[0].Name)
	}
	if !reflect.DeepEqual(first.Encounters, []string{"mankey"}) || !reflect.DeepEqual(first.Weights, []int{4}) {
		t.Errorf("Encounters = %v weights = %v", first.Encounters, first.Weights)
	}
	if d.Maps[0].Weights != nil {
		t.Errorf("unweighted map has weights %v", d.Maps[0].Weights)
	}
	if first.Grid.Rows() != 2 || first.Grid.Cols() != 3 {
		t.Errorf("grid is %dx%d, want 2x3", first.Grid.Rows(), first.Grid.Cols())
	}
}

func TestLoad_BossLevels(t *testing.T) {
	d, err := Load("testdata/minimal")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := []dex.BossEntry{
		{SpeciesID: "charmander", Level: 42},
		{SpeciesID: "mankey", Level: 50},
	}
	if !reflect.DeepEqual(d.Boss, want) {
		t.Errorf("Boss = %+v, want %+v", d.Boss, want)
	}
}

func TestLoad_KantoMatchesBuiltin(t *testing.T) {
	d, err := Load("../content/kanto")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	b := dex.Builtin()

	if !reflect.DeepEqual(d.Chart, b.Chart) {
		t.Error("type chart differs from builtin")
	}
	if len(d.Moves) != len(b.Moves) {
		t.Errorf("got %d moves, builtin has %d", len(d.Moves), len(b.Moves))
	}
	for name, m := range b.Moves {
		if !reflect.DeepEqual(d.Moves[name], m) {
			t.Errorf("move %s = %+v, want %+v", name, d.Moves[name], m)
		}
	}
	if len(d.Species) != len(b.Species) {
		t.Errorf("got %d species, builtin has %d", len(d.Species), len(b.Species))
	}
	for id, sp := range b.Species {
		if !reflect.DeepEqual(d.Species[id], sp) {
			t.Errorf("species %s = %+v, want %+v", id, d.Species[id], sp)
		}
	}
	if len(d.Maps) != len(b.Maps) {
		t.Fatalf("got %d maps, builtin has %d", len(d.Maps), len(b.Maps))
	}
	for i, md := range b.Maps {
		got := d.Maps[i]
		if got.Name != md.Name || got.Gate != md.Gate || !reflect.DeepEqual(got.Encounters, md.Encounters) ||
			!reflect.DeepEqual(got.Weights, md.Weights) {
			t.Errorf("map %d = %s gate %d, want %s gate %d", i, got.Name, got.Gate, md.Name, md.Gate)
		}
		if !reflect.DeepEqual(got.Grid.Render(got.Grid.Start()), md.Grid.Render(md.Grid.Start())) {
			t.Errorf("map %d layout differs", i)
		}
	}
	if !reflect.DeepEqual(d.Boss, b.Boss) {
		t.Errorf("Boss = %+v, want %+v", d.Boss, b.Boss)
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	_, err := Load("testdata/broken")
	if err == nil {
		t.Fatal("expected validation errors")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error %T is not a *ValidationError", err)
	}

	wantFragments := []string{
		`inflicts unknown status "cursed"`,
		`accuracy 1.5 is outside`,
		`unknown stat "luck"`,
		`undefined move "shadow-sneak"`,
		`no goal is reachable`,
		`undefined species "missingno"`,
		`has 2 weights for 1 encounters`,
		`boss slot 1 references undefined species "nobody"`,
	}
	msg := err.Error()
	for _, frag := range wantFragments {
		if !strings.Contains(msg, frag) {
			t.Errorf("error is missing %q:\n%s", frag, msg)
		}
	}
}

func TestLoad_BadLuaSyntax_Fails(t *testing.T) {
	_, err := Load("testdata/bad_lua")
	if err == nil {
		t.Fatal("expected error for bad Lua syntax")
	}
	if !strings.Contains(err.Error(), "executing content.lua") {
		t.Errorf("error = %q", err)
	}
}

func TestLoad_MissingDirectory(t *testing.T) {
	if _, err := Load("testdata/does-not-exist"); err == nil {
		t.Fatal("expected error for a missing directory")
	}
}

func TestLoad_NoLuaFiles(t *testing.T) {
	dir := writeContent(t, map[string]string{"README.txt": "nothing here"})
	_, err := Load(dir)
	if err == nil || !strings.Contains(err.Error(), "no .lua files") {
		t.Fatalf("err = %v, want no .lua files", err)
	}
}

func TestLoad_NoSpeciesOrMaps(t *testing.T) {
	dir := writeContent(t, map[string]string{
		"content.lua": `Move "tackle" { type = "normal", power = 40 }`,
	})
	_, err := Load(dir)
	if err == nil {
		t.Fatal("expected error")
	}
	for _, frag := range []string{"no species defined", "no maps defined"} {
		if !strings.Contains(err.Error(), frag) {
			t.Errorf("error is missing %q", frag)
		}
	}
}

func TestLoad_CustomChart(t *testing.T) {
	dir := writeContent(t, map[string]string{
		"content.lua": `
TypeChart { Light = { dark = 2, light = 0.5 }, dark = { light = 3 } }
Move "flash" { type = "light", power = 40 }
Species "glim" { types = { "light" }, base = { hp = 40 }, moves = { "flash" } }
Map "m" { rows = { "S*G" } }
`,
	})
	_, err := Load(dir)
	if err == nil || !strings.Contains(err.Error(), "dark -> light has multiplier 3") {
		t.Fatalf("err = %v, want a bad multiplier error", err)
	}
}

func TestLoad_SandboxEnforced(t *testing.T) {
	L, _ := newTestVM()
	defer L.Close()

	for _, src := range []string{
		`os.execute("echo pwned")`,
		`io.open("/etc/passwd")`,
		`dofile("x.lua")`,
		`math.random(6)`,
	} {
		if err := L.DoString(src); err == nil {
			t.Errorf("expected sandbox to block %s", src)
		}
	}
}

func TestSortedLuaFiles(t *testing.T) {
	got := sortedLuaFiles([]string{"species.lua", "moves.lua", "content.lua", "chart.lua"})
	want := []string{"content.lua", "chart.lua", "moves.lua", "species.lua"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sortedLuaFiles = %v, want %v", got, want)
	}
}
