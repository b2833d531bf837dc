// Package resolve maps parsed intents to environment action ids, matching
// move names against the active combatant's move-set.
package resolve

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/tallgrass/engine"
	"github.com/nathoo/tallgrass/engine/battle"
	"github.com/nathoo/tallgrass/engine/parser"
	"github.com/nathoo/tallgrass/engine/team"
	"github.com/nathoo/tallgrass/engine/world"
	"github.com/nathoo/tallgrass/types"
)

// AmbiguityError indicates multiple moves matched a name.
type AmbiguityError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	names := strings.Join(e.Candidates, ", ")
	return fmt.Sprintf("which %s? (%s)", e.Name, names)
}

// NotFoundError indicates no move matched a name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("you don't know a move called %q", e.Name)
}

// ModeError indicates a command that makes no sense in the current mode.
type ModeError struct {
	Verb string
	Mode types.Mode
}

func (e *ModeError) Error() string {
	if e.Mode == types.ModeCombat {
		return fmt.Sprintf("you can't %s in the middle of a battle", e.Verb)
	}
	return fmt.Sprintf("you can't %s outside of a battle", e.Verb)
}

// UnknownCommandError indicates a verb the game does not understand.
type UnknownCommandError struct {
	Verb string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("I don't know how to %q", e.Verb)
}

var directions = map[string]world.Direction{
	"up": world.Up, "down": world.Down, "left": world.Left, "right": world.Right,
}

// Action maps an intent to an action id for the given mode. moves is the
// active combatant's move-set.
func Action(intent parser.Intent, mode types.Mode, moves []string) (int, error) {
	switch intent.Verb {
	case parser.VerbAction:
		n, err := strconv.Atoi(intent.Object)
		if err != nil {
			return 0, fmt.Errorf("bad action id %q: %w", intent.Object, err)
		}
		return n, nil

	case parser.VerbGo:
		if mode == types.ModeCombat {
			return 0, &ModeError{Verb: "walk away", Mode: mode}
		}
		dir, ok := directions[intent.Object]
		if !ok {
			return 0, errors.New("go where? (up, down, left, right)")
		}
		return int(dir), nil

	case parser.VerbUse:
		if mode != types.ModeCombat {
			return 0, &ModeError{Verb: "use a move", Mode: mode}
		}
		if intent.Object == "" {
			return 0, fmt.Errorf("use which move? (%s)", strings.Join(moves, ", "))
		}
		return Move(moves, intent.Object)

	case parser.VerbFlee:
		if mode != types.ModeCombat {
			return 0, &ModeError{Verb: "flee", Mode: mode}
		}
		return engine.ActionFlee, nil

	case parser.VerbPotion:
		return team.ActionPotion, nil

	case parser.VerbSwitch:
		return team.ActionSwitch, nil
	}
	return 0, &UnknownCommandError{Verb: intent.Verb}
}

// Move resolves a move name, or a 1-based slot number, to a slot index.
// Exact names win; otherwise the query may match any word of a move name.
func Move(moves []string, name string) (int, error) {
	query := normalize(name)
	if n, err := strconv.Atoi(query); err == nil {
		if n >= 1 && n <= len(moves) && n <= battle.MaxMoves {
			return n - 1, nil
		}
		return 0, &NotFoundError{Name: name}
	}

	for i, m := range moves {
		if normalize(m) == query {
			return i, nil
		}
	}

	var matches []int
	for i, m := range moves {
		for _, word := range strings.Split(normalize(m), "-") {
			if word == query {
				matches = append(matches, i)
				break
			}
		}
	}

	switch len(matches) {
	case 0:
		return 0, &NotFoundError{Name: name}
	case 1:
		return matches[0], nil
	default:
		cands := make([]string, len(matches))
		for i, idx := range matches {
			cands[i] = moves[idx]
		}
		return 0, &AmbiguityError{Name: name, Candidates: cands}
	}
}

// normalize lowercases and hyphenates: "Thunder Shock" → "thunder-shock".
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}
