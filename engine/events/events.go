// Package events names the facts the simulator emits and implements
// single-pass handler dispatch. Handlers may emit follow-up events but
// those are not dispatched again.
package events

import "github.com/nathoo/tallgrass/types"

// Event types emitted by the environment.
const (
	Moved         = "moved"
	Blocked       = "blocked"
	Encounter     = "encounter"
	GoalReached   = "goal_reached"
	MoveUsed      = "move_used"
	BattleWon     = "battle_won"
	XPGained      = "xp_gained"
	LevelUp       = "level_up"
	Fainted       = "fainted"
	Fled          = "fled"
	FleeFailed    = "flee_failed"
	Residual      = "residual"
	InvalidAction = "invalid_action"
)

// Event types emitted by the team manager.
const (
	Repelled     = "repelled"
	Switched     = "switched"
	PotionUsed   = "potion_used"
	WipedOut     = "wiped_out"
	MapCleared   = "map_cleared"
	SentBack     = "sent_back"
	BossBattle   = "boss_battle"
	BossDefeated = "boss_defeated"
	Champion     = "champion"
)

// New builds an event from alternating key/value pairs.
func New(typ string, kv ...any) types.Event {
	ev := types.Event{Type: typ}
	if len(kv) == 0 {
		return ev
	}
	ev.Data = make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			ev.Data[k] = kv[i+1]
		}
	}
	return ev
}

// Has reports whether an event of the given type is in the list.
func Has(evts []types.Event, typ string) bool {
	_, ok := Find(evts, typ)
	return ok
}

// Find returns the first event of the given type.
func Find(evts []types.Event, typ string) (types.Event, bool) {
	for _, ev := range evts {
		if ev.Type == typ {
			return ev, true
		}
	}
	return types.Event{}, false
}

// Handler reacts to one event type. When is optional.
type Handler struct {
	EventType string
	When      func(types.Event) bool
	Run       func(types.Event) []types.Event
}

// Dispatch runs handlers against the emitted events. Single pass, no
// recursion: events returned by handlers are collected, not dispatched.
func Dispatch(evts []types.Event, handlers []Handler) []types.Event {
	var result []types.Event

	for _, event := range evts {
		for _, h := range handlers {
			if h.EventType != event.Type {
				continue
			}
			if h.When != nil && !h.When(event) {
				continue
			}
			if h.Run != nil {
				result = append(result, h.Run(event)...)
			}
		}
	}

	return result
}
