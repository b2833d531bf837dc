// Package config loads simulator settings from a YAML file, layered over
// built-in defaults and environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nathoo/tallgrass/engine"
	"github.com/nathoo/tallgrass/engine/team"
)

// Policy names accepted by the Policy field.
const (
	PolicyHuman    = "human"
	PolicyRandom   = "random"
	PolicyScripted = "scripted"
	PolicyGemini   = "gemini"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// Remote holds websocket server settings.
type Remote struct {
	Addr string `yaml:"addr"`
}

// Gemini holds settings for the LLM-backed policy.
type Gemini struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// Config holds the application configuration.
type Config struct {
	Engine  engine.Tuning `yaml:"engine"`
	Team    team.Options  `yaml:"team"`
	Content string        `yaml:"content"` // Lua content directory; empty uses the builtin dex
	Policy  string        `yaml:"policy"`
	Remote  Remote        `yaml:"remote"`
	Gemini  Gemini        `yaml:"gemini"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		Engine: engine.DefaultTuning(),
		Team:   team.DefaultOptions(),
		Policy: PolicyHuman,
		Remote: Remote{Addr: "localhost:8765"},
		Gemini: Gemini{Model: DefaultGeminiModel},
	}
}

// Load reads the YAML file at path over the defaults. An empty path skips
// the file. Environment overrides apply last, then the result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := cfg.decode(data); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode merges YAML into c. Unknown keys are rejected so typos surface.
func (c *Config) decode(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(c)
}

func (c *Config) applyEnv() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Gemini.APIKey = key
	}
	if dir := os.Getenv("TALLGRASS_CONTENT"); dir != "" {
		c.Content = dir
	}
}

// Save writes c to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks value ranges and that the rewards keep their intended
// ordering: goal > battle win > exploration step > wall bump > faint.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	t := c.Engine
	r := t.Rewards
	check(t.EncounterRate >= 0 && t.EncounterRate <= 1,
		"engine.encounter_rate %v is outside [0, 1]", t.EncounterRate)
	check(t.StarterLevel >= 1, "engine.starter_level must be at least 1")
	check(t.WildLevelSpan >= 0, "engine.wild_level_span must not be negative")
	check(t.FleeTarget >= 1, "engine.flee_target must be at least 1")

	goal := min(r.GoalHigh, r.GoalLow)
	win := max(r.WinLow, r.WinHigh)
	explore := max(r.Step, r.Grass)
	check(goal > win, "rewards: goal (%v) must exceed battle win (%v)", goal, win)
	check(win > explore, "rewards: battle win (%v) must exceed exploration (%v)", win, explore)
	check(explore > r.Wall, "rewards: exploration (%v) must exceed wall (%v)", explore, r.Wall)
	check(r.Wall > r.Faint, "rewards: wall (%v) must exceed faint (%v)", r.Wall, r.Faint)

	check(c.Team.Size >= 1 && c.Team.Size <= 6, "team.size %d is outside [1, 6]", c.Team.Size)
	check(c.Team.Level >= 1, "team.level must be at least 1")
	check(c.Team.Potions >= 0, "team.potions must not be negative")
	check(c.Team.PotionFraction > 0 && c.Team.PotionFraction <= 1,
		"team.potion_fraction %v is outside (0, 1]", c.Team.PotionFraction)

	switch c.Policy {
	case PolicyHuman, PolicyRandom, PolicyScripted:
	case PolicyGemini:
		check(c.Gemini.APIKey != "", "policy gemini needs gemini.api_key or GEMINI_API_KEY")
	default:
		check(false, "unknown policy %q", c.Policy)
	}

	return errors.Join(errs...)
}
