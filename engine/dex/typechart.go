package dex

import "strings"

// TypeChart maps attacking type → defending type → multiplier.
// Missing entries mean neutral (1.0). A chart is never mutated after
// construction and may be shared between engines.
type TypeChart map[string]map[string]float64

// Multiplier returns the combined effectiveness of an attack type against
// all of a defender's types. Unknown attack types are neutral; any immunity
// makes the whole product zero.
func (tc TypeChart) Multiplier(attackType string, defenderTypes []string) float64 {
	row, ok := tc[strings.ToLower(attackType)]
	if !ok {
		return 1.0
	}
	multiplier := 1.0
	for _, dt := range defenderTypes {
		if m, ok := row[strings.ToLower(dt)]; ok {
			multiplier *= m
		}
	}
	return multiplier
}

// DefaultTypeChart returns the classic fifteen-type chart.
func DefaultTypeChart() TypeChart {
	return TypeChart{
		"normal":   {"rock": 0.5, "ghost": 0},
		"fire":     {"fire": 0.5, "water": 0.5, "grass": 2, "ice": 2, "bug": 2, "rock": 0.5, "dragon": 0.5},
		"water":    {"fire": 2, "water": 0.5, "grass": 0.5, "ground": 2, "rock": 2, "dragon": 0.5},
		"electric": {"water": 2, "electric": 0.5, "grass": 0.5, "ground": 0, "flying": 2, "dragon": 0.5},
		"grass":    {"fire": 0.5, "water": 2, "grass": 0.5, "poison": 0.5, "ground": 2, "flying": 0.5, "bug": 0.5, "rock": 2, "dragon": 0.5},
		"ice":      {"fire": 0.5, "water": 0.5, "grass": 2, "ice": 0.5, "ground": 2, "flying": 2, "dragon": 2},
		"fighting": {"normal": 2, "ice": 2, "poison": 0.5, "flying": 0.5, "psychic": 0.5, "bug": 0.5, "rock": 2, "ghost": 0},
		"poison":   {"grass": 2, "poison": 0.5, "ground": 0.5, "rock": 0.5, "ghost": 0.5},
		"ground":   {"fire": 2, "electric": 2, "grass": 0.5, "poison": 2, "flying": 0, "bug": 0.5, "rock": 2},
		"flying":   {"electric": 0.5, "grass": 2, "fighting": 2, "bug": 2, "rock": 0.5},
		"psychic":  {"fighting": 2, "poison": 2, "psychic": 0.5},
		"bug":      {"fire": 0.5, "grass": 2, "fighting": 0.5, "poison": 2, "flying": 0.5, "psychic": 2, "ghost": 0.5},
		"rock":     {"fire": 2, "ice": 2, "fighting": 0.5, "ground": 0.5, "flying": 2, "bug": 2},
		"ghost":    {"normal": 0, "psychic": 2, "ghost": 2},
		"dragon":   {"dragon": 2},
	}
}

// Types returns every attacking type named in the chart.
func (tc TypeChart) Types() []string {
	out := make([]string, 0, len(tc))
	for t := range tc {
		out = append(out, t)
	}
	return out
}
