package team

import (
	"sort"

	"github.com/nathoo/tallgrass/engine"
	"github.com/nathoo/tallgrass/engine/battle"
	"github.com/nathoo/tallgrass/engine/dex"
)

// fallbackMoves is the move-set of a species with nothing usable.
var fallbackMoves = []string{"tackle", dex.Struggle.Name}

// PowerCap is the strongest damaging move a combatant of the given level
// may carry.
func PowerCap(level int) int {
	return 45 + 2*level
}

// Usable reports whether a move passes the whitelist at level: damaging
// moves up to PowerCap, or status moves the engine can resolve.
func Usable(m dex.Move, level int) bool {
	return m.Supported() && m.Power <= PowerCap(level)
}

// SelectMoves picks up to four moves from the species learnset: the two
// strongest same-type damaging moves, then one status move, then a random
// fill from what remains.
func SelectMoves(d *dex.Dex, sp dex.Species, level int, rng *engine.RNG) []string {
	var valid []dex.Move
	seen := map[string]bool{}
	for _, name := range sp.Moves {
		m, ok := d.LookupMove(name)
		if !ok || seen[m.Name] || !Usable(m, level) {
			continue
		}
		seen[m.Name] = true
		valid = append(valid, m)
	}
	if len(valid) == 0 {
		return append([]string(nil), fallbackMoves...)
	}

	var stab []dex.Move
	for _, m := range valid {
		if m.Power > 0 && sp.HasType(m.Type) {
			stab = append(stab, m)
		}
	}
	sort.SliceStable(stab, func(i, j int) bool { return stab[i].Power > stab[j].Power })
	if len(stab) > 2 {
		stab = stab[:2]
	}

	chosen := make([]string, 0, battle.MaxMoves)
	taken := map[string]bool{}
	for _, m := range stab {
		chosen = append(chosen, m.Name)
		taken[m.Name] = true
	}

	var pool, status []string
	for _, m := range valid {
		if taken[m.Name] {
			continue
		}
		pool = append(pool, m.Name)
		if m.Power <= 0 {
			status = append(status, m.Name)
		}
	}
	if len(status) > 0 && len(chosen) < battle.MaxMoves {
		pick := status[rng.Intn(len(status))]
		chosen = append(chosen, pick)
		pool = remove(pool, pick)
	}

	for len(chosen) < battle.MaxMoves && len(pool) > 0 {
		i := rng.Intn(len(pool))
		chosen = append(chosen, pool[i])
		pool = append(pool[:i], pool[i+1:]...)
	}
	return chosen
}

func remove(list []string, name string) []string {
	out := list[:0]
	for _, s := range list {
		if s != name {
			out = append(out, s)
		}
	}
	return out
}
