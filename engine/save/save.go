// Package save implements JSON serialization and deserialization of a
// playthrough.
package save

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nathoo/tallgrass/engine"
	"github.com/nathoo/tallgrass/engine/battle"
	"github.com/nathoo/tallgrass/engine/team"
	"github.com/nathoo/tallgrass/engine/world"
	"github.com/nathoo/tallgrass/types"
)

// FormatVersion is bumped whenever SaveData changes shape.
const FormatVersion = 1

// SaveData is the JSON-serializable save format.
type SaveData struct {
	Version     int                 `json:"version"`
	Content     string              `json:"content"`
	Turn        int                 `json:"turn"`
	Mode        types.Mode          `json:"mode"`
	Map         int                 `json:"map"`
	Pos         world.Pos           `json:"pos"`
	Done        bool                `json:"done"`
	Roster      []*battle.Combatant `json:"roster"`
	Active      int                 `json:"active"`
	Potions     int                 `json:"potions"`
	Opponent    *battle.Combatant   `json:"opponent,omitempty"`
	Trainer     bool                `json:"trainer,omitempty"`
	Boss        []*battle.Combatant `json:"boss,omitempty"`
	BossIndex   int                 `json:"boss_index,omitempty"`
	BossMode    bool                `json:"boss_mode,omitempty"`
	Champion    bool                `json:"champion,omitempty"`
	RNGSeed     int64               `json:"rng_seed"`
	RNGPosition int64               `json:"rng_position"`
}

// Save serializes a playthrough to JSON bytes. content names the content
// set the run was played with.
func Save(m *team.Manager, content string) ([]byte, error) {
	s := m.Engine.Session
	data := SaveData{
		Version:     FormatVersion,
		Content:     content,
		Turn:        s.Turn,
		Mode:        s.Mode,
		Map:         s.MapIndex,
		Pos:         s.Pos,
		Done:        s.Done,
		Roster:      m.Roster,
		Active:      m.Active,
		Potions:     m.Potions,
		Opponent:    s.Opponent,
		Trainer:     s.Trainer,
		Boss:        m.Boss,
		BossIndex:   m.BossIndex,
		BossMode:    m.BossMode,
		Champion:    m.Champion,
		RNGSeed:     m.Engine.RNG.Seed(),
		RNGPosition: m.Engine.RNG.Position(),
	}
	return json.MarshalIndent(data, "", "  ")
}

// Load deserializes JSON bytes into SaveData.
func Load(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, err
	}
	if sd.Version != FormatVersion {
		return nil, fmt.Errorf("save format %d, want %d", sd.Version, FormatVersion)
	}
	if len(sd.Roster) == 0 {
		return nil, errors.New("save has an empty roster")
	}
	if sd.Active < 0 || sd.Active >= len(sd.Roster) {
		return nil, fmt.Errorf("active member %d out of range", sd.Active)
	}
	for i, c := range sd.Roster {
		if c == nil {
			return nil, fmt.Errorf("roster entry %d is empty", i)
		}
	}
	for i, c := range sd.Boss {
		if c == nil {
			return nil, fmt.Errorf("boss entry %d is empty", i)
		}
	}
	if sd.Mode == types.ModeCombat && sd.Opponent == nil {
		return nil, errors.New("save is in combat without an opponent")
	}
	// Ensure maps are never nil after load.
	for _, c := range append(append([]*battle.Combatant{}, sd.Roster...), sd.Boss...) {
		if c.Stages == nil {
			c.Stages = map[types.Stat]int{}
		}
	}
	if sd.Opponent != nil && sd.Opponent.Stages == nil {
		sd.Opponent.Stages = map[types.Stat]int{}
	}
	return &sd, nil
}

// ApplySave applies loaded save data onto a manager and its engine.
func ApplySave(m *team.Manager, sd *SaveData) error {
	e := m.Engine
	if _, ok := e.Dex.Map(sd.Map); !ok {
		return fmt.Errorf("save refers to map %d, content has %d", sd.Map, len(e.Dex.Maps))
	}
	m.Roster = sd.Roster
	m.Active = sd.Active
	m.Potions = sd.Potions
	m.Boss = sd.Boss
	m.BossIndex = sd.BossIndex
	m.BossMode = sd.BossMode
	m.Champion = sd.Champion

	e.Reset(
		engine.WithRNG(engine.RestoreRNG(sd.RNGSeed, sd.RNGPosition)),
		engine.WithMap(sd.Map),
		engine.WithPlayer(m.Roster[sd.Active]),
	)
	s := e.Session
	s.Mode = sd.Mode
	s.Pos = sd.Pos
	s.Opponent = sd.Opponent
	s.Trainer = sd.Trainer
	s.Done = sd.Done
	s.Turn = sd.Turn
	return nil
}
