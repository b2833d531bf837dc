// Package loader loads Lua content (species, moves, maps, type chart, gym
// boss) into a dex.Dex at startup. The Lua VM is discarded after loading,
// so nothing runs Lua during a simulation.
package loader

import (
	"fmt"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/tallgrass/engine/dex"
	"github.com/nathoo/tallgrass/engine/world"
	"github.com/nathoo/tallgrass/types"
)

type rawSpecies struct {
	id    string
	table *lua.LTable
}

type rawMove struct {
	id    string
	table *lua.LTable
}

type rawMap struct {
	id    string
	table *lua.LTable
	order int
}

type rawBoss struct {
	species string
	level   int
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getNumber returns a numeric field from a Lua table, or def if missing.
func getNumber(tbl *lua.LTable, key string, def float64) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return def
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key, 0))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// getInts returns the numeric elements of an array field in order.
func getInts(tbl *lua.LTable, key string) []int {
	arr := getTable(tbl, key)
	if arr == nil {
		return nil
	}
	var out []int
	for i := 1; i <= arr.MaxN(); i++ {
		if n, ok := arr.RawGetInt(i).(lua.LNumber); ok {
			out = append(out, int(n))
		}
	}
	return out
}

// getStrings returns the string elements of an array field in order.
func getStrings(tbl *lua.LTable, key string) []string {
	arr := getTable(tbl, key)
	if arr == nil {
		return nil
	}
	var out []string
	for i := 1; i <= arr.MaxN(); i++ {
		if s, ok := arr.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// compile converts the collected Lua data into a Dex. Problems that make a
// definition unusable are recorded on ve; compile always returns a Dex so
// validation can report everything in one pass.
func compile(coll *collector, ve *ValidationError) *dex.Dex {
	d := &dex.Dex{
		Species: map[string]dex.Species{},
		Moves:   map[string]dex.Move{},
		Chart:   dex.DefaultTypeChart(),
	}

	if coll.chart != nil {
		d.Chart = compileChart(coll.chart)
	}

	for _, raw := range coll.moves {
		m, err := compileMove(raw)
		if err != nil {
			ve.Errors = append(ve.Errors, fmt.Sprintf("move %q: %v", raw.id, err))
			continue
		}
		if _, dup := d.Moves[m.Name]; dup {
			ve.Errors = append(ve.Errors, fmt.Sprintf("duplicate move %q", m.Name))
		}
		d.Moves[m.Name] = m
	}

	for _, raw := range coll.species {
		sp := compileSpecies(raw)
		if _, dup := d.Species[sp.ID]; dup {
			ve.Errors = append(ve.Errors, fmt.Sprintf("duplicate species %q", sp.ID))
		}
		d.Species[sp.ID] = sp
	}

	maps := append([]rawMap(nil), coll.maps...)
	sort.SliceStable(maps, func(i, j int) bool { return maps[i].order < maps[j].order })
	for _, raw := range maps {
		md, err := compileMap(raw)
		if err != nil {
			ve.Errors = append(ve.Errors, err.Error())
			continue
		}
		d.Maps = append(d.Maps, md)
	}

	bossLevel := dex.BuiltinBossLevel
	if coll.content != nil {
		if lvl := getInt(coll.content, "boss_level"); lvl > 0 {
			bossLevel = lvl
		}
	}
	for _, b := range coll.boss {
		level := b.level
		if level <= 0 {
			level = bossLevel
		}
		d.Boss = append(d.Boss, dex.BossEntry{SpeciesID: normalizeID(b.species), Level: level})
	}

	return d
}

func compileChart(tbl *lua.LTable) dex.TypeChart {
	chart := dex.TypeChart{}
	tbl.ForEach(func(k, v lua.LValue) {
		attack, ok := k.(lua.LString)
		if !ok {
			return
		}
		row, ok := v.(*lua.LTable)
		if !ok {
			return
		}
		entries := map[string]float64{}
		row.ForEach(func(dk, dv lua.LValue) {
			defender, ok := dk.(lua.LString)
			if !ok {
				return
			}
			if n, ok := dv.(lua.LNumber); ok {
				entries[normalizeID(string(defender))] = float64(n)
			}
		})
		chart[normalizeID(string(attack))] = entries
	})
	return chart
}

func compileMove(raw rawMove) (dex.Move, error) {
	tbl := raw.table
	m := dex.Move{
		Name:     normalizeID(raw.id),
		Type:     normalizeID(getString(tbl, "type")),
		Power:    getInt(tbl, "power"),
		Accuracy: getNumber(tbl, "accuracy", 1.0),
	}
	if m.Type == "" {
		m.Type = "normal"
	}

	switch cat := types.Category(getString(tbl, "category")); {
	case cat != "":
		m.Category = cat
	case m.Power > 0:
		m.Category = dex.CategoryFor(m.Type)
	default:
		m.Category = types.CategoryStatus
	}

	if effTbl := getTable(tbl, "effect"); effTbl != nil {
		eff, err := compileEffect(effTbl)
		if err != nil {
			return dex.Move{}, err
		}
		m.Effect = eff
	}
	return m, nil
}

func compileTarget(s string) (dex.Target, error) {
	switch t := dex.Target(s); t {
	case dex.TargetSelf, dex.TargetOpponent:
		return t, nil
	}
	return "", fmt.Errorf("unknown effect target %q", s)
}

func compileEffect(tbl *lua.LTable) (dex.Effect, error) {
	switch typ := getString(tbl, "type"); typ {
	case "heal":
		return dex.HealEffect{Fraction: getNumber(tbl, "fraction", 0)}, nil
	case "protect":
		return dex.ProtectEffect{}, nil
	case "stage":
		who, err := compileTarget(getString(tbl, "target"))
		if err != nil {
			return nil, err
		}
		return dex.StageEffect{
			Who:   who,
			Stat:  types.Stat(getString(tbl, "stat")),
			Delta: getInt(tbl, "delta"),
		}, nil
	case "status":
		who, err := compileTarget(getString(tbl, "target"))
		if err != nil {
			return nil, err
		}
		return dex.StatusEffect{Who: who, Status: types.Status(getString(tbl, "status"))}, nil
	default:
		return nil, fmt.Errorf("unknown effect type %q", typ)
	}
}

func compileSpecies(raw rawSpecies) dex.Species {
	tbl := raw.table
	id := normalizeID(raw.id)
	sp := dex.Species{
		ID:   id,
		Name: getString(tbl, "name"),
	}
	if sp.Name == "" {
		sp.Name = dex.DisplayName(id)
	}
	for _, t := range getStrings(tbl, "types") {
		sp.Types = append(sp.Types, normalizeID(t))
	}
	for _, m := range getStrings(tbl, "moves") {
		sp.Moves = append(sp.Moves, normalizeID(m))
	}
	if base := getTable(tbl, "base"); base != nil {
		sp.Base = types.Stats{
			HP:        getInt(base, "hp"),
			Attack:    getInt(base, "attack"),
			Defense:   getInt(base, "defense"),
			SpAttack:  getInt(base, "sp_attack"),
			SpDefense: getInt(base, "sp_defense"),
			Speed:     getInt(base, "speed"),
		}
	}
	return sp
}

func compileMap(raw rawMap) (dex.MapDef, error) {
	tbl := raw.table
	grid, err := world.Parse(raw.id, getStrings(tbl, "rows"))
	if err != nil {
		return dex.MapDef{}, err
	}
	md := dex.MapDef{
		Grid: grid,
		Name: getString(tbl, "name"),
		Gate: getInt(tbl, "gate"),
	}
	if md.Name == "" {
		md.Name = dex.DisplayName(raw.id)
	}
	for _, e := range getStrings(tbl, "encounters") {
		md.Encounters = append(md.Encounters, normalizeID(e))
	}
	md.Weights = getInts(tbl, "weights")
	return md, nil
}

// sortedLuaFiles returns .lua files with content.lua first and the rest
// sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var contentFile string
	var others []string
	for _, f := range files {
		if f == "content.lua" {
			contentFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if contentFile != "" {
		return append([]string{contentFile}, others...)
	}
	return others
}
