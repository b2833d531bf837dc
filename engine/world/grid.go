// Package world holds the static tile maps the player explores.
package world

import (
	"fmt"
	"strings"

	"github.com/nathoo/tallgrass/types"
)

// Pos is a (row, col) coordinate on a grid.
type Pos struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Direction is an exploration action. The numeric values are the action ids.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// NumDirections is the size of the exploration action space.
const NumDirections = 4

var directionNames = [...]string{"up", "down", "left", "right"}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return fmt.Sprintf("direction(%d)", int(d))
	}
	return directionNames[d]
}

// Delta returns the row and column offsets for the direction.
func (d Direction) Delta() (dr, dc int) {
	switch d {
	case Up:
		return -1, 0
	case Down:
		return 1, 0
	case Left:
		return 0, -1
	case Right:
		return 0, 1
	}
	return 0, 0
}

// Grid is an immutable rectangular tile map.
type Grid struct {
	ID    string
	tiles [][]types.Tile
	start Pos
}

// New builds a grid from tile rows. Rows must be non-empty and rectangular,
// and start must be an in-bounds, non-wall tile.
func New(id string, tiles [][]types.Tile, start Pos) (*Grid, error) {
	if len(tiles) == 0 || len(tiles[0]) == 0 {
		return nil, fmt.Errorf("map %q: empty grid", id)
	}
	cols := len(tiles[0])
	cp := make([][]types.Tile, len(tiles))
	for r, row := range tiles {
		if len(row) != cols {
			return nil, fmt.Errorf("map %q: row %d has %d tiles, want %d", id, r, len(row), cols)
		}
		cp[r] = append([]types.Tile(nil), row...)
	}
	g := &Grid{ID: id, tiles: cp, start: start}
	tile, ok := g.At(start)
	if !ok || tile == types.TileWall {
		return nil, fmt.Errorf("map %q: start %v is not walkable", id, start)
	}
	return g, nil
}

// Legend for ASCII maps.
const (
	glyphPath  = '.'
	glyphWall  = '#'
	glyphGrass = '*'
	glyphGoal  = 'G'
	glyphStart = 'S'
)

// Parse builds a grid from ASCII rows: '.' path, '#' wall, '*' tall grass,
// 'G' goal, 'S' start (a path tile). Without an 'S' the start is (0, 0).
func Parse(id string, rows []string) (*Grid, error) {
	tiles := make([][]types.Tile, len(rows))
	start := Pos{}
	for r, line := range rows {
		tiles[r] = make([]types.Tile, 0, len(line))
		for c, ch := range line {
			switch ch {
			case glyphPath:
				tiles[r] = append(tiles[r], types.TilePath)
			case glyphWall:
				tiles[r] = append(tiles[r], types.TileWall)
			case glyphGrass:
				tiles[r] = append(tiles[r], types.TileGrass)
			case glyphGoal:
				tiles[r] = append(tiles[r], types.TileGoal)
			case glyphStart:
				tiles[r] = append(tiles[r], types.TilePath)
				start = Pos{Row: r, Col: c}
			default:
				return nil, fmt.Errorf("map %q: unknown tile %q at row %d col %d", id, ch, r, c)
			}
		}
	}
	return New(id, tiles, start)
}

// Rows returns the grid height.
func (g *Grid) Rows() int { return len(g.tiles) }

// Cols returns the grid width.
func (g *Grid) Cols() int { return len(g.tiles[0]) }

// Start returns the spawn position.
func (g *Grid) Start() Pos { return g.start }

// InBounds reports whether p lies on the grid.
func (g *Grid) InBounds(p Pos) bool {
	return p.Row >= 0 && p.Row < g.Rows() && p.Col >= 0 && p.Col < g.Cols()
}

// At returns the tile at p, or false when p is off the grid.
func (g *Grid) At(p Pos) (types.Tile, bool) {
	if !g.InBounds(p) {
		return types.TileWall, false
	}
	return g.tiles[p.Row][p.Col], true
}

// Neighbor returns the coordinate one step from p in direction d.
// The result may be out of bounds.
func (g *Grid) Neighbor(p Pos, d Direction) Pos {
	dr, dc := d.Delta()
	return Pos{Row: p.Row + dr, Col: p.Col + dc}
}

// Walkable reports whether the player may stand on p.
func (g *Grid) Walkable(p Pos) bool {
	t, ok := g.At(p)
	return ok && t != types.TileWall
}

// Goals returns every goal tile, row-major.
func (g *Grid) Goals() []Pos {
	var out []Pos
	for r, row := range g.tiles {
		for c, t := range row {
			if t == types.TileGoal {
				out = append(out, Pos{Row: r, Col: c})
			}
		}
	}
	return out
}

// Count returns how many tiles of kind t the grid holds.
func (g *Grid) Count(t types.Tile) int {
	n := 0
	for _, row := range g.tiles {
		for _, tile := range row {
			if tile == t {
				n++
			}
		}
	}
	return n
}

// Render draws the grid in the ASCII legend with the player marked '@'.
func (g *Grid) Render(player Pos) []string {
	lines := make([]string, g.Rows())
	for r, row := range g.tiles {
		var b strings.Builder
		for c, t := range row {
			if r == player.Row && c == player.Col {
				b.WriteByte('@')
				continue
			}
			b.WriteRune(Glyph(t))
		}
		lines[r] = b.String()
	}
	return lines
}

// Glyph returns the ASCII legend character for a tile.
func Glyph(t types.Tile) rune {
	switch t {
	case types.TileWall:
		return glyphWall
	case types.TileGrass:
		return glyphGrass
	case types.TileGoal:
		return glyphGoal
	default:
		return glyphPath
	}
}

// Path returns the shortest walk from p to the nearest tile satisfying
// target, as a list of directions. It reports false when no such tile is
// reachable. Ties between equally short walks break in Direction order.
func (g *Grid) Path(p Pos, target func(Pos, types.Tile) bool) ([]Direction, bool) {
	if !g.InBounds(p) {
		return nil, false
	}
	type step struct {
		prev Pos
		dir  Direction
	}
	came := map[Pos]step{}
	seen := map[Pos]bool{p: true}
	queue := []Pos{p}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if t, _ := g.At(cur); target(cur, t) {
			var dirs []Direction
			for cur != p {
				s := came[cur]
				dirs = append(dirs, s.dir)
				cur = s.prev
			}
			for i, j := 0, len(dirs)-1; i < j; i, j = i+1, j-1 {
				dirs[i], dirs[j] = dirs[j], dirs[i]
			}
			return dirs, true
		}
		for d := Direction(0); d < NumDirections; d++ {
			n := g.Neighbor(cur, d)
			if seen[n] || !g.Walkable(n) {
				continue
			}
			seen[n] = true
			came[n] = step{prev: cur, dir: d}
			queue = append(queue, n)
		}
	}
	return nil, false
}
