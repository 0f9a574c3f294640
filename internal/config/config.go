// Package config provides YAML and TOML configuration loading and
// difficulty presets for Collapse.
package config

import (
	"time"

	"github.com/vovakirdan/tui-collapse/internal/games/collapse/core"
)

// CollapseConfig contains all configuration for the Collapse game.
type CollapseConfig struct {
	Board    BoardConfig     `yaml:"board" toml:"board"`
	Tiers    core.Thresholds `yaml:"tiers" toml:"tiers"`
	Pool     PoolConfig      `yaml:"pool" toml:"pool"`
	Timing   TimingConfig    `yaml:"timing" toml:"timing"`
	Gameplay GameplayConfig  `yaml:"gameplay" toml:"gameplay"`
}

// BoardConfig defines the grid dimensions and color count.
type BoardConfig struct {
	Columns int `yaml:"columns" toml:"columns"`
	Rows    int `yaml:"rows" toml:"rows"`
	Colors  int `yaml:"colors" toml:"colors"`
}

// PoolConfig sizes the pre-allocated item pool.
type PoolConfig struct {
	Multiplier int `yaml:"multiplier" toml:"multiplier"` // items per color = cells * multiplier
}

// TimingConfig defines deferred work after taps and deadlocks.
type TimingConfig struct {
	SettleFrames int           `yaml:"settle_frames" toml:"settle_frames"`
	ShuffleDelay time.Duration `yaml:"shuffle_delay" toml:"shuffle_delay"`
	ShuffleMode  string        `yaml:"shuffle_mode" toml:"shuffle_mode"` // "biased" or "uniform"
}

// GameplayConfig defines the scoring session around the board.
type GameplayConfig struct {
	Moves int `yaml:"moves" toml:"moves"` // taps per game, 0 means unlimited
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// DefaultCollapseConfig returns the hardcoded configuration used when no
// file can be read.
func DefaultCollapseConfig() CollapseConfig {
	p := core.DefaultParams()
	return CollapseConfig{
		Board: BoardConfig{
			Columns: p.Columns,
			Rows:    p.Rows,
			Colors:  p.Colors,
		},
		Tiers: p.Thresholds,
		Pool: PoolConfig{
			Multiplier: p.PoolMultiplier,
		},
		Timing: TimingConfig{
			SettleFrames: p.SettleFrames,
			ShuffleDelay: p.ShuffleDelay,
			ShuffleMode:  string(p.ShuffleMode),
		},
		Gameplay: GameplayConfig{
			Moves: 40,
		},
	}
}

// ToParams converts the configuration into board parameters.
// Validation is left to the engine.
func (c CollapseConfig) ToParams() core.Params {
	return core.Params{
		Columns:        c.Board.Columns,
		Rows:           c.Board.Rows,
		Colors:         c.Board.Colors,
		Thresholds:     c.Tiers,
		PoolMultiplier: c.Pool.Multiplier,
		SettleFrames:   c.Timing.SettleFrames,
		ShuffleDelay:   c.Timing.ShuffleDelay,
		ShuffleMode:    core.ShuffleMode(c.Timing.ShuffleMode),
	}
}

// ApplyCollapsePreset modifies the config based on a difficulty preset.
// Fewer colors make large blocks more likely.
func ApplyCollapsePreset(cfg *CollapseConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Board.Colors = max(cfg.Board.Colors-1, core.MinColors)
		if cfg.Gameplay.Moves > 0 {
			cfg.Gameplay.Moves += 10
		}
	case DifficultyHard:
		cfg.Board.Colors = min(cfg.Board.Colors+1, core.MaxColors)
		if cfg.Gameplay.Moves > 10 {
			cfg.Gameplay.Moves -= 10
		}
	}
}

// ParsePreset validates a preset name. The empty string means normal.
func ParsePreset(s string) (DifficultyPreset, bool) {
	switch DifficultyPreset(s) {
	case "", DifficultyNormal:
		return DifficultyNormal, true
	case DifficultyEasy, DifficultyHard:
		return DifficultyPreset(s), true
	default:
		return "", false
	}
}
