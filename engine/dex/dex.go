// Package dex holds the read-only game tables: species, moves, the type
// chart and the map progression. A Dex is built once at startup and shared.
package dex

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nathoo/tallgrass/engine/world"
)

// MapDef is one step of the map progression.
type MapDef struct {
	Grid       *world.Grid
	Name       string
	Gate       int      // minimum team level to leave the map
	Encounters []string // species ids of wild encounters; empty means any
	Weights    []int    // relative odds per encounter; empty means even
}

// BossEntry is one member of the final gym leader's team.
type BossEntry struct {
	SpeciesID string
	Level     int
}

// Dex is the immutable content registry.
type Dex struct {
	Species map[string]Species
	Moves   map[string]Move
	Chart   TypeChart
	Maps    []MapDef
	Boss    []BossEntry
}

func normalize(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// LookupMove returns the move with the given name.
func (d *Dex) LookupMove(name string) (Move, bool) {
	if d == nil {
		return Move{}, false
	}
	m, ok := d.Moves[normalize(name)]
	return m, ok
}

// Move returns the named move, or Struggle when it is unknown.
func (d *Dex) Move(name string) Move {
	if normalize(name) == Struggle.Name {
		return Struggle
	}
	if m, ok := d.LookupMove(name); ok {
		return m
	}
	return Struggle
}

// LookupSpecies returns the species with the given id.
func (d *Dex) LookupSpecies(id string) (Species, bool) {
	if d == nil {
		return Species{}, false
	}
	s, ok := d.Species[normalize(id)]
	return s, ok
}

// SpeciesByID returns the species, or DefaultSpecies when it is unknown.
func (d *Dex) SpeciesByID(id string) Species {
	if s, ok := d.LookupSpecies(id); ok {
		return s
	}
	return DefaultSpecies
}

// SpeciesIDs returns all species ids, sorted for deterministic draws.
func (d *Dex) SpeciesIDs() []string {
	if d == nil {
		return nil
	}
	ids := make([]string, 0, len(d.Species))
	for id := range d.Species {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Map returns the map at index i of the progression.
func (d *Dex) Map(i int) (MapDef, bool) {
	if d == nil || i < 0 || i >= len(d.Maps) {
		return MapDef{}, false
	}
	return d.Maps[i], true
}

// Multiplier is shorthand for d.Chart.Multiplier.
func (d *Dex) Multiplier(attackType string, defenderTypes []string) float64 {
	if d == nil || d.Chart == nil {
		return DefaultTypeChart().Multiplier(attackType, defenderTypes)
	}
	return d.Chart.Multiplier(attackType, defenderTypes)
}

// DisplayName turns a content id like "body-slam" into "Body Slam".
// A Caser carries state, so each call builds its own.
func DisplayName(id string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(id, "-", " "))
}
