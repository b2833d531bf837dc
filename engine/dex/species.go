package dex

import "github.com/nathoo/tallgrass/types"

// Species is a static species template.
type Species struct {
	ID    string
	Name  string
	Types []string
	Base  types.Stats
	Moves []string // eligible move names, in learnset order
}

// DefaultSpecies stands in for any species id that cannot be resolved.
var DefaultSpecies = Species{
	ID:    "bugmon",
	Name:  "BugMon",
	Types: []string{"normal"},
	Base:  types.Stats{HP: 40, Attack: 40, Defense: 40, SpAttack: 40, SpDefense: 40, Speed: 40},
	Moves: []string{"tackle"},
}

// HasType reports whether the species carries type t.
func (s Species) HasType(t string) bool {
	for _, st := range s.Types {
		if st == t {
			return true
		}
	}
	return false
}
