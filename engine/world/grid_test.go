package world

import (
	"reflect"
	"strings"
	"testing"

	"github.com/nathoo/tallgrass/types"
)

func mustParse(t *testing.T, rows ...string) *Grid {
	t.Helper()
	g, err := Parse("test", rows)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return g
}

func TestParse(t *testing.T) {
	g := mustParse(t,
		"#S*",
		".#G",
	)
	if g.Rows() != 2 || g.Cols() != 3 {
		t.Fatalf("size = %dx%d, want 2x3", g.Rows(), g.Cols())
	}
	if g.Start() != (Pos{Row: 0, Col: 1}) {
		t.Errorf("start = %v", g.Start())
	}
	tests := []struct {
		p    Pos
		want types.Tile
	}{
		{Pos{0, 0}, types.TileWall},
		{Pos{0, 1}, types.TilePath},
		{Pos{0, 2}, types.TileGrass},
		{Pos{1, 0}, types.TilePath},
		{Pos{1, 2}, types.TileGoal},
	}
	for _, tt := range tests {
		if got, ok := g.At(tt.p); !ok || got != tt.want {
			t.Errorf("At(%v) = %v, %v; want %v", tt.p, got, ok, tt.want)
		}
	}
	if g.Count(types.TileGrass) != 1 || len(g.Goals()) != 1 {
		t.Errorf("grass = %d goals = %v", g.Count(types.TileGrass), g.Goals())
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		want string
	}{
		{"empty", nil, "empty grid"},
		{"ragged", []string{"S..", ".."}, "row 1 has 2 tiles"},
		{"unknown tile", []string{"S.x"}, "unknown tile"},
		{"start on wall", []string{"#.G"}, "is not walkable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("bad", tt.rows)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestAtOutOfBoundsIsWall(t *testing.T) {
	g := mustParse(t, "S.")
	if tile, ok := g.At(Pos{Row: -1}); ok || tile != types.TileWall {
		t.Errorf("At(-1, 0) = %v, %v", tile, ok)
	}
	if g.Walkable(Pos{Col: 2}) {
		t.Error("off-grid position should not be walkable")
	}
}

func TestRender(t *testing.T) {
	g := mustParse(t, "S.*", "##G")
	got := g.Render(Pos{Row: 0, Col: 2})
	want := []string{"..@", "##G"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestPath(t *testing.T) {
	g := mustParse(t,
		"S.#G",
		"#...",
	)
	goal := func(_ Pos, t types.Tile) bool { return t == types.TileGoal }

	dirs, ok := g.Path(g.Start(), goal)
	if !ok {
		t.Fatal("goal should be reachable")
	}
	want := []Direction{Right, Down, Right, Right, Up}
	if !reflect.DeepEqual(dirs, want) {
		t.Errorf("Path = %v, want %v", dirs, want)
	}

	dirs, ok = g.Path(Pos{Row: 0, Col: 3}, goal)
	if !ok || len(dirs) != 0 {
		t.Errorf("Path from goal = %v, %v", dirs, ok)
	}
}

func TestPath_Unreachable(t *testing.T) {
	g := mustParse(t, "S#G")
	if _, ok := g.Path(g.Start(), func(_ Pos, t types.Tile) bool { return t == types.TileGoal }); ok {
		t.Error("goal behind a wall should be unreachable")
	}
}

func TestBuiltinMapsReachable(t *testing.T) {
	grids := Builtin()
	if len(grids) != len(BuiltinMapRows) {
		t.Fatalf("got %d maps", len(grids))
	}
	for _, g := range grids {
		if _, ok := g.Path(g.Start(), func(_ Pos, t types.Tile) bool { return t == types.TileGoal }); !ok {
			t.Errorf("map %s: goal unreachable", g.ID)
		}
		if g.Count(types.TileGrass) == 0 {
			t.Errorf("map %s: no tall grass", g.ID)
		}
	}
}

func TestDirectionString(t *testing.T) {
	if Left.String() != "left" || Direction(7).String() != "direction(7)" {
		t.Errorf("got %q and %q", Left.String(), Direction(7).String())
	}
}
