package dex

import (
	"github.com/nathoo/tallgrass/engine/world"
	"github.com/nathoo/tallgrass/types"
)

// specialTypes use the special stat pair, as in the first generation.
var specialTypes = map[string]bool{
	"fire": true, "water": true, "grass": true, "electric": true,
	"ice": true, "psychic": true, "dragon": true,
}

// CategoryFor returns the damage category implied by a move type.
func CategoryFor(moveType string) types.Category {
	if specialTypes[moveType] {
		return types.CategorySpecial
	}
	return types.CategoryPhysical
}

func attack(name, typ string, power int, accuracy float64) Move {
	return Move{Name: name, Type: typ, Category: CategoryFor(typ), Power: power, Accuracy: accuracy}
}

func status(name, typ string, accuracy float64, eff Effect) Move {
	return Move{Name: name, Type: typ, Category: types.CategoryStatus, Accuracy: accuracy, Effect: eff}
}

func builtinMoves() []Move {
	return []Move{
		attack("tackle", "normal", 40, 1.0),
		attack("scratch", "normal", 40, 1.0),
		attack("cut", "normal", 50, 0.95),
		attack("slam", "normal", 80, 0.75),
		attack("headbutt", "normal", 70, 1.0),
		attack("body-slam", "normal", 85, 1.0),
		attack("hyper-beam", "normal", 150, 0.9),
		attack("quick-attack", "normal", 40, 1.0),
		attack("bite", "normal", 60, 1.0),
		attack("ember", "fire", 40, 1.0),
		attack("flamethrower", "fire", 90, 1.0),
		attack("fire-blast", "fire", 110, 0.85),
		attack("fire-punch", "fire", 75, 1.0),
		attack("fire-spin", "fire", 35, 0.85),
		attack("water-gun", "water", 40, 1.0),
		attack("bubble-beam", "water", 65, 1.0),
		attack("hydro-pump", "water", 110, 0.8),
		attack("surf", "water", 90, 1.0),
		attack("waterfall", "water", 80, 1.0),
		attack("crabhammer", "water", 100, 0.9),
		attack("vine-whip", "grass", 45, 1.0),
		attack("razor-leaf", "grass", 55, 0.95),
		attack("solar-beam", "grass", 120, 1.0),
		attack("mega-drain", "grass", 40, 1.0),
		attack("petal-dance", "grass", 120, 1.0),
		attack("thunder-shock", "electric", 40, 1.0),
		attack("thunderbolt", "electric", 90, 1.0),
		attack("thunder", "electric", 110, 0.7),
		attack("thunder-punch", "electric", 75, 1.0),
		attack("ice-beam", "ice", 90, 1.0),
		attack("blizzard", "ice", 110, 0.7),
		attack("aurora-beam", "ice", 65, 1.0),
		attack("karate-chop", "fighting", 50, 1.0),
		attack("submission", "fighting", 80, 0.8),
		attack("seismic-toss", "fighting", 60, 1.0),
		attack("poison-sting", "poison", 15, 1.0),
		attack("sludge", "poison", 65, 1.0),
		attack("acid", "poison", 40, 1.0),
		attack("sludge-bomb", "poison", 90, 1.0),
		attack("earthquake", "ground", 100, 1.0),
		attack("dig", "ground", 80, 1.0),
		attack("bone-club", "ground", 65, 0.85),
		attack("fly", "flying", 90, 0.95),
		attack("peck", "flying", 35, 1.0),
		attack("drill-peck", "flying", 80, 1.0),
		attack("wing-attack", "flying", 60, 1.0),
		attack("psychic", "psychic", 90, 1.0),
		attack("psybeam", "psychic", 65, 1.0),
		attack("confusion", "psychic", 50, 1.0),
		attack("twineedle", "bug", 25, 1.0),
		attack("pin-missile", "bug", 25, 0.95),
		attack("rock-throw", "rock", 50, 0.9),
		attack("rock-slide", "rock", 75, 0.9),
		attack("lick", "ghost", 30, 1.0),
		attack("shadow-ball", "ghost", 80, 1.0),
		attack("dragon-rage", "dragon", 40, 1.0),

		status("growl", "normal", 1.0, StageEffect{Who: TargetOpponent, Stat: types.StatAttack, Delta: -1}),
		status("tail-whip", "normal", 1.0, StageEffect{Who: TargetOpponent, Stat: types.StatDefense, Delta: -1}),
		status("leer", "normal", 1.0, StageEffect{Who: TargetOpponent, Stat: types.StatDefense, Delta: -1}),
		status("screech", "normal", 0.85, StageEffect{Who: TargetOpponent, Stat: types.StatDefense, Delta: -2}),
		status("string-shot", "bug", 0.95, StageEffect{Who: TargetOpponent, Stat: types.StatSpeed, Delta: -1}),
		status("harden", "normal", 1.0, StageEffect{Who: TargetSelf, Stat: types.StatDefense, Delta: 1}),
		status("withdraw", "water", 1.0, StageEffect{Who: TargetSelf, Stat: types.StatDefense, Delta: 1}),
		status("defense-curl", "normal", 1.0, StageEffect{Who: TargetSelf, Stat: types.StatDefense, Delta: 1}),
		status("sharpen", "normal", 1.0, StageEffect{Who: TargetSelf, Stat: types.StatAttack, Delta: 1}),
		status("swords-dance", "normal", 1.0, StageEffect{Who: TargetSelf, Stat: types.StatAttack, Delta: 2}),
		status("agility", "psychic", 1.0, StageEffect{Who: TargetSelf, Stat: types.StatSpeed, Delta: 2}),
		status("recover", "normal", 1.0, HealEffect{Fraction: 0.5}),
		status("soft-boiled", "normal", 1.0, HealEffect{Fraction: 0.5}),
		status("protect", "normal", 1.0, ProtectEffect{}),
		status("detect", "fighting", 1.0, ProtectEffect{}),
		status("thunder-wave", "electric", 1.0, StatusEffect{Who: TargetOpponent, Status: types.StatusParalyzed}),
		status("stun-spore", "grass", 0.75, StatusEffect{Who: TargetOpponent, Status: types.StatusParalyzed}),
		status("poison-powder", "poison", 0.75, StatusEffect{Who: TargetOpponent, Status: types.StatusPoisoned}),
		status("toxic", "poison", 0.9, StatusEffect{Who: TargetOpponent, Status: types.StatusPoisoned}),
		status("sleep-powder", "grass", 0.75, StatusEffect{Who: TargetOpponent, Status: types.StatusAsleep}),
		status("hypnosis", "psychic", 0.6, StatusEffect{Who: TargetOpponent, Status: types.StatusAsleep}),
		status("sing", "normal", 0.55, StatusEffect{Who: TargetOpponent, Status: types.StatusAsleep}),
		status("will-o-wisp", "fire", 0.85, StatusEffect{Who: TargetOpponent, Status: types.StatusBurned}),
		status("freeze-ray", "ice", 0.7, StatusEffect{Who: TargetOpponent, Status: types.StatusFrozen}),
		// Known but unsupported: no effect descriptor.
		status("splash", "normal", 1.0, nil),
	}
}

func species(id string, typs []string, hp, atk, def, spa, spd, spe int, moves ...string) Species {
	return Species{
		ID:    id,
		Name:  DisplayName(id),
		Types: typs,
		Base:  types.Stats{HP: hp, Attack: atk, Defense: def, SpAttack: spa, SpDefense: spd, Speed: spe},
		Moves: moves,
	}
}

func builtinSpecies() []Species {
	t := func(ts ...string) []string { return ts }
	return []Species{
		species("bulbasaur", t("grass", "poison"), 45, 49, 49, 65, 65, 45, "tackle", "growl", "vine-whip", "razor-leaf", "sleep-powder", "poison-powder", "solar-beam"),
		species("charmander", t("fire"), 39, 52, 43, 60, 50, 65, "scratch", "growl", "ember", "fire-spin", "flamethrower", "fire-blast"),
		species("squirtle", t("water"), 44, 48, 65, 50, 64, 43, "tackle", "tail-whip", "withdraw", "water-gun", "bubble-beam", "surf", "hydro-pump"),
		species("pikachu", t("electric"), 35, 55, 40, 50, 50, 90, "thunder-shock", "growl", "quick-attack", "thunder-wave", "thunderbolt", "agility", "thunder"),
		species("pidgey", t("normal", "flying"), 40, 45, 40, 35, 35, 56, "tackle", "peck", "quick-attack", "wing-attack", "agility"),
		species("rattata", t("normal"), 30, 56, 35, 25, 35, 72, "tackle", "tail-whip", "quick-attack", "bite", "headbutt"),
		species("caterpie", t("bug"), 45, 30, 35, 20, 20, 45, "tackle", "string-shot", "twineedle"),
		species("weedle", t("bug", "poison"), 40, 35, 30, 20, 20, 50, "poison-sting", "string-shot", "twineedle", "pin-missile"),
		species("nidoran-m", t("poison"), 46, 57, 40, 40, 40, 50, "tackle", "leer", "peck", "acid", "toxic", "sludge"),
		species("spearow", t("normal", "flying"), 40, 60, 30, 31, 31, 70, "peck", "growl", "leer", "wing-attack", "drill-peck"),
		species("geodude", t("rock", "ground"), 40, 80, 100, 30, 30, 20, "tackle", "defense-curl", "rock-throw", "rock-slide", "earthquake"),
		species("zubat", t("poison", "flying"), 40, 45, 35, 30, 40, 55, "bite", "wing-attack", "acid", "screech"),
		species("oddish", t("grass", "poison"), 45, 50, 55, 75, 65, 30, "acid", "poison-powder", "stun-spore", "sleep-powder", "mega-drain", "petal-dance"),
		species("machop", t("fighting"), 70, 80, 50, 35, 35, 35, "karate-chop", "leer", "seismic-toss", "submission"),
		species("abra", t("psychic"), 25, 20, 15, 105, 55, 90, "confusion", "psybeam", "recover", "psychic"),
		species("gastly", t("ghost", "poison"), 30, 35, 30, 100, 35, 80, "lick", "hypnosis", "sludge", "shadow-ball"),
		species("onix", t("rock", "ground"), 35, 45, 160, 30, 45, 70, "tackle", "harden", "rock-throw", "slam", "dig"),
		species("magikarp", t("water"), 20, 10, 55, 15, 20, 80, "splash", "tackle"),
		species("growlithe", t("fire"), 55, 70, 45, 70, 50, 60, "bite", "ember", "leer", "will-o-wisp", "flamethrower"),
		species("jigglypuff", t("normal"), 115, 45, 20, 45, 25, 20, "sing", "defense-curl", "body-slam", "slam"),
		species("dratini", t("dragon"), 41, 64, 45, 50, 50, 50, "dragon-rage", "thunder-wave", "agility", "slam", "hyper-beam"),
		species("snorlax", t("normal"), 160, 110, 65, 65, 110, 30, "headbutt", "defense-curl", "body-slam", "protect", "hyper-beam"),
		species("gyarados", t("water", "flying"), 95, 125, 79, 60, 100, 81, "bite", "leer", "surf", "hydro-pump", "hyper-beam"),
		species("alakazam", t("psychic"), 55, 50, 45, 135, 95, 120, "confusion", "psybeam", "recover", "psychic"),
		species("charizard", t("fire", "flying"), 78, 84, 78, 109, 85, 100, "ember", "wing-attack", "swords-dance", "flamethrower", "fire-blast"),
		species("dragonite", t("dragon", "flying"), 91, 134, 95, 100, 100, 80, "dragon-rage", "thunder-wave", "agility", "wing-attack", "hyper-beam"),
		species("lapras", t("water", "ice"), 130, 85, 80, 85, 95, 60, "sing", "body-slam", "surf", "ice-beam", "freeze-ray"),
	}
}

// BuiltinGates are the default per-map level gates.
var BuiltinGates = []int{10, 20, 30, 40, 55}

var builtinEncounters = [][]string{
	{"pidgey", "rattata", "caterpie", "weedle", "spearow", "nidoran-m"},
	{"oddish", "pikachu", "bulbasaur", "caterpie", "zubat"},
	{"zubat", "geodude", "gastly", "machop", "jigglypuff", "onix"},
	{"magikarp", "squirtle", "growlithe", "abra", "dratini"},
	{"dratini", "machop", "geodude", "onix", "growlithe", "gastly"},
}

var builtinWeights = [][]int{
	{30, 30, 15, 15, 5, 5},
	{25, 5, 10, 40, 20},
	{30, 30, 10, 15, 10, 5},
	{50, 15, 15, 15, 5},
	{10, 20, 20, 20, 20, 10},
}

// BuiltinBossLevel is the level of the default gym leader's team.
const BuiltinBossLevel = 60

var builtinBoss = []string{"gyarados", "alakazam", "snorlax", "dragonite", "lapras", "charizard"}

// Builtin returns the content shipped with the simulator. Each call builds
// a fresh Dex.
func Builtin() *Dex {
	d := &Dex{
		Species: map[string]Species{},
		Moves:   map[string]Move{},
		Chart:   DefaultTypeChart(),
	}
	for _, m := range builtinMoves() {
		d.Moves[m.Name] = m
	}
	for _, s := range builtinSpecies() {
		d.Species[s.ID] = s
	}
	for i, g := range world.Builtin() {
		d.Maps = append(d.Maps, MapDef{
			Grid:       g,
			Name:       DisplayName(g.ID),
			Gate:       BuiltinGates[i],
			Encounters: builtinEncounters[i],
			Weights:    builtinWeights[i],
		})
	}
	for _, id := range builtinBoss {
		d.Boss = append(d.Boss, BossEntry{SpeciesID: id, Level: BuiltinBossLevel})
	}
	return d
}
