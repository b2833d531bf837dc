package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerEffectHelpers(L)
}

// curried returns a Lua function taking an id and returning a function that
// takes the definition table: Name "id" { ... }.
func curried(L *lua.LState, add func(id string, tbl *lua.LTable)) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			add(id, L.CheckTable(1))
			return 0
		}))
		return 1
	})
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Content { name = "...", boss_level = 60 }
	L.SetGlobal("Content", L.NewFunction(func(L *lua.LState) int {
		coll.content = L.CheckTable(1)
		return 0
	}))

	// TypeChart { fire = { grass = 2, water = 0.5 }, ... }
	L.SetGlobal("TypeChart", L.NewFunction(func(L *lua.LState) int {
		coll.chart = L.CheckTable(1)
		return 0
	}))

	L.SetGlobal("Species", curried(L, func(id string, tbl *lua.LTable) {
		coll.species = append(coll.species, rawSpecies{id: id, table: tbl})
	}))

	L.SetGlobal("Move", curried(L, func(id string, tbl *lua.LTable) {
		coll.moves = append(coll.moves, rawMove{id: id, table: tbl})
	}))

	// Map "id" { gate = 10, encounters = {...}, weights = {...}, rows = {...} }
	// Maps form the progression in definition order.
	L.SetGlobal("Map", curried(L, func(id string, tbl *lua.LTable) {
		coll.maps = append(coll.maps, rawMap{id: id, table: tbl, order: coll.nextSourceOrder()})
	}))

	// Boss { "gyarados", { species = "snorlax", level = 62 }, ... }
	L.SetGlobal("Boss", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		tbl.ForEach(func(k, v lua.LValue) {
			if _, ok := k.(lua.LNumber); !ok {
				return
			}
			switch val := v.(type) {
			case lua.LString:
				coll.boss = append(coll.boss, rawBoss{species: string(val)})
			case *lua.LTable:
				coll.boss = append(coll.boss, rawBoss{
					species: getString(val, "species"),
					level:   getInt(val, "level"),
				})
			}
		})
		return 0
	}))
}

func registerEffectHelpers(L *lua.LState) {
	// Heal(fraction)
	L.SetGlobal("Heal", L.NewFunction(func(L *lua.LState) int {
		fraction := L.CheckNumber(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("heal"))
		tbl.RawSetString("fraction", fraction)
		L.Push(tbl)
		return 1
	}))

	// Stage("self"|"opponent", "attack", delta)
	L.SetGlobal("Stage", L.NewFunction(func(L *lua.LState) int {
		target := L.CheckString(1)
		stat := L.CheckString(2)
		delta := L.CheckNumber(3)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("stage"))
		tbl.RawSetString("target", lua.LString(target))
		tbl.RawSetString("stat", lua.LString(stat))
		tbl.RawSetString("delta", delta)
		L.Push(tbl)
		return 1
	}))

	// Inflict("self"|"opponent", "paralyzed")
	L.SetGlobal("Inflict", L.NewFunction(func(L *lua.LState) int {
		target := L.CheckString(1)
		status := L.CheckString(2)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("status"))
		tbl.RawSetString("target", lua.LString(target))
		tbl.RawSetString("status", lua.LString(status))
		L.Push(tbl)
		return 1
	}))

	// Protect()
	L.SetGlobal("Protect", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("protect"))
		L.Push(tbl)
		return 1
	}))
}
