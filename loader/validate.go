package loader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/tallgrass/engine/dex"
	"github.com/nathoo/tallgrass/engine/world"
	"github.com/nathoo/tallgrass/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

func (e *ValidationError) errorf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

func (e *ValidationError) warnf(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

var validStats = map[types.Stat]bool{
	types.StatAttack:    true,
	types.StatDefense:   true,
	types.StatSpAttack:  true,
	types.StatSpDefense: true,
	types.StatSpeed:     true,
}

var validStatuses = map[types.Status]bool{
	types.StatusParalyzed: true,
	types.StatusPoisoned:  true,
	types.StatusAsleep:    true,
	types.StatusBurned:    true,
	types.StatusFrozen:    true,
}

var validCategories = map[types.Category]bool{
	types.CategoryPhysical: true,
	types.CategorySpecial:  true,
	types.CategoryStatus:   true,
}

var validMultipliers = map[float64]bool{0: true, 0.5: true, 1: true, 2: true}

// validate checks the compiled Dex for referential integrity and value
// ranges. Iteration is sorted so messages come out in a stable order.
func validate(d *dex.Dex, ve *ValidationError) {
	if len(d.Species) == 0 {
		ve.errorf("no species defined")
	}
	if len(d.Maps) == 0 {
		ve.errorf("no maps defined")
	}

	knownTypes := map[string]bool{}
	for _, attack := range d.Chart.Types() {
		knownTypes[attack] = true
		for defender := range d.Chart[attack] {
			knownTypes[defender] = true
		}
	}
	for _, attack := range sortedKeys(d.Chart) {
		row := d.Chart[attack]
		for _, defender := range sortedKeys(row) {
			if !validMultipliers[row[defender]] {
				ve.errorf("type chart %s -> %s has multiplier %v, want 0, 0.5, 1 or 2",
					attack, defender, row[defender])
			}
		}
	}

	for _, name := range sortedKeys(d.Moves) {
		validateMove(d.Moves[name], knownTypes, ve)
	}

	for _, id := range d.SpeciesIDs() {
		sp := d.Species[id]
		if len(sp.Types) == 0 {
			ve.errorf("species %q has no types", id)
		}
		for _, t := range sp.Types {
			if !knownTypes[t] {
				ve.warnf("species %q type %q is not in the type chart", id, t)
			}
		}
		if sp.Base.HP <= 0 {
			ve.errorf("species %q needs a positive base hp", id)
		}
		if len(sp.Moves) == 0 {
			ve.warnf("species %q has no moves and will only struggle", id)
		}
		for _, m := range sp.Moves {
			if _, ok := d.Moves[m]; !ok {
				ve.errorf("species %q references undefined move %q", id, m)
			}
		}
	}

	for i, md := range d.Maps {
		if md.Gate < 0 {
			ve.errorf("map %q has a negative gate", md.Grid.ID)
		}
		if md.Grid.Count(types.TileGoal) == 0 {
			ve.errorf("map %q has no goal tile", md.Grid.ID)
		}
		if md.Grid.Count(types.TileGrass) == 0 {
			ve.warnf("map %q has no tall grass", md.Grid.ID)
		}
		if !reachable(md.Grid) {
			ve.errorf("map %q: no goal is reachable from the start", md.Grid.ID)
		}
		if i > 0 && md.Gate < d.Maps[i-1].Gate {
			ve.warnf("map %q gate %d is below the previous map's gate", md.Grid.ID, md.Gate)
		}
		for _, id := range md.Encounters {
			if _, ok := d.Species[id]; !ok {
				ve.errorf("map %q encounter references undefined species %q", md.Grid.ID, id)
			}
		}
		if len(md.Weights) > 0 && len(md.Weights) != len(md.Encounters) {
			ve.errorf("map %q has %d weights for %d encounters", md.Grid.ID, len(md.Weights), len(md.Encounters))
		}
		for j, w := range md.Weights {
			if w <= 0 {
				ve.errorf("map %q weight %d is %d, want positive", md.Grid.ID, j+1, w)
			}
		}
	}

	for i, b := range d.Boss {
		if _, ok := d.Species[b.SpeciesID]; !ok {
			ve.errorf("boss slot %d references undefined species %q", i+1, b.SpeciesID)
		}
	}
}

func validateMove(m dex.Move, knownTypes map[string]bool, ve *ValidationError) {
	if !knownTypes[m.Type] {
		ve.warnf("move %q type %q is not in the type chart", m.Name, m.Type)
	}
	if !validCategories[m.Category] {
		ve.errorf("move %q has unknown category %q", m.Name, m.Category)
	}
	if m.Power < 0 {
		ve.errorf("move %q has negative power", m.Name)
	}
	if m.Accuracy <= 0 || m.Accuracy > 1 {
		ve.errorf("move %q accuracy %v is outside (0, 1]", m.Name, m.Accuracy)
	}
	if m.Power > 0 && m.Effect != nil {
		ve.warnf("move %q deals damage, its effect is ignored", m.Name)
	}
	if m.Power == 0 && m.Effect == nil {
		ve.warnf("move %q has no effect and is not supported in battle", m.Name)
	}

	switch eff := m.Effect.(type) {
	case dex.HealEffect:
		if eff.Fraction <= 0 || eff.Fraction > 1 {
			ve.errorf("move %q heal fraction %v is outside (0, 1]", m.Name, eff.Fraction)
		}
	case dex.StageEffect:
		if !validStats[eff.Stat] {
			ve.errorf("move %q changes unknown stat %q", m.Name, eff.Stat)
		}
		if eff.Delta == 0 {
			ve.warnf("move %q has a zero stage delta", m.Name)
		}
	case dex.StatusEffect:
		if !validStatuses[eff.Status] {
			ve.errorf("move %q inflicts unknown status %q", m.Name, eff.Status)
		}
	}
}

// reachable reports whether any goal can be walked to from the start.
func reachable(g *world.Grid) bool {
	_, ok := g.Path(g.Start(), func(_ world.Pos, t types.Tile) bool {
		return t == types.TileGoal
	})
	return ok
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
