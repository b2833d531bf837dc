package world

// BuiltinMapRows are the default progression maps, easiest first.
var BuiltinMapRows = []struct {
	ID   string
	Rows []string
}{
	{"route-1", []string{
		"S..**.....",
		".#.**.###.",
		".#.......#",
		".#####.#..",
		"...**..#..",
		".#.**#.#.#",
		".#....*...",
		".####.**#.",
		"......**#.",
		".#.#.....G",
	}},
	{"viridian-woods", []string{
		"S.#*****..",
		"..#***#*..",
		"..#.*.#...",
		"..#.#.#.#.",
		"....#...#.",
		"###.####*.",
		"**..*****.",
		"**#.#.###.",
		".*#...*..#",
		"...##.*#.G",
	}},
	{"mt-moon", []string{
		"S...#.....",
		"###.#.###.",
		"....#...#.",
		".####.#.#.",
		".*..*.#...",
		".**.*.####",
		".#..#..**.",
		".#.##.#**.",
		".#....#.#.",
		"...##...#G",
	}},
	{"seafoam-path", []string{
		"S*********",
		".#######*.",
		"........*.",
		"*######.*.",
		"*.......*.",
		"*.#######.",
		"*.........",
		"*######.#.",
		"********#.",
		"........#G",
	}},
	{"victory-road", []string{
		"S.#...#...",
		".*#.#.#.#.",
		".*#.#...#.",
		".*#.#####.",
		".*..*...#.",
		"##.#*.#.#.",
		"...#**#...",
		".###*.###.",
		"...**.....",
		"##.##.###G",
	}},
}

// Builtin parses the default maps. The rows are fixed, so a parse failure
// is a programming error.
func Builtin() []*Grid {
	grids := make([]*Grid, 0, len(BuiltinMapRows))
	for _, m := range BuiltinMapRows {
		g, err := Parse(m.ID, m.Rows)
		if err != nil {
			panic(err)
		}
		grids = append(grids, g)
	}
	return grids
}
