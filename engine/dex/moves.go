package dex

import "github.com/nathoo/tallgrass/types"

// Target selects who a status effect lands on.
type Target string

const (
	TargetSelf     Target = "self"
	TargetOpponent Target = "opponent"
)

// Effect describes what a status move does. The concrete variants are
// HealEffect, StageEffect, StatusEffect and ProtectEffect.
type Effect interface {
	// Target reports who the effect lands on.
	Target() Target
	effect()
}

// HealEffect restores a fraction of the user's max HP.
type HealEffect struct {
	Fraction float64
}

// StageEffect shifts one stat stage of the target by Delta.
type StageEffect struct {
	Who   Target
	Stat  types.Stat
	Delta int
}

// StatusEffect inflicts a status condition on the target.
type StatusEffect struct {
	Who    Target
	Status types.Status
}

// ProtectEffect shields the user from the next damaging move.
type ProtectEffect struct{}

func (HealEffect) Target() Target     { return TargetSelf }
func (e StageEffect) Target() Target  { return e.Who }
func (e StatusEffect) Target() Target { return e.Who }
func (ProtectEffect) Target() Target  { return TargetSelf }
func (HealEffect) effect()            {}
func (StageEffect) effect()           {}
func (StatusEffect) effect()          {}
func (ProtectEffect) effect()         {}

// Move is an immutable catalog entry.
type Move struct {
	Name     string
	Type     string
	Category types.Category
	Power    int
	Accuracy float64 // (0, 1]
	Effect   Effect  // nil for damaging moves
}

// Struggle is used whenever a move name cannot be resolved.
var Struggle = Move{
	Name:     "struggle",
	Type:     "normal",
	Category: types.CategoryPhysical,
	Power:    50,
	Accuracy: 1.0,
}

// IsStatus reports whether the move deals no direct damage.
func (m Move) IsStatus() bool {
	return m.Power <= 0
}

// Supported reports whether the engine can resolve the move: damaging
// moves always can, status moves only with a known effect.
func (m Move) Supported() bool {
	return m.Power > 0 || m.Effect != nil
}
