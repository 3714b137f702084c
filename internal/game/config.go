package game

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the complete game configuration.
type Config struct {
	Game    GameSettings   `hcl:"game,block"`
	Players []PlayerConfig `hcl:"player,block"`
}

// GameSettings contains the table dimensions and timing knobs. All
// durations are in milliseconds, matching how the config file states them.
type GameSettings struct {
	Features            int    `hcl:"features,optional"`
	Options             int    `hcl:"options,optional"`
	TableSize           int    `hcl:"table_size,optional"`
	TurnTimeoutMillis   int    `hcl:"turn_timeout_ms,optional"`
	WarnTimeMillis      int    `hcl:"warn_time_ms,optional"`
	PointFreezeMillis   int    `hcl:"point_freeze_ms,optional"`
	PenaltyFreezeMillis int    `hcl:"penalty_freeze_ms,optional"`
	TableDelayMillis    int    `hcl:"table_delay_ms,optional"`
	RefreshMillis       int    `hcl:"refresh_ms,optional"`
	Seed                int64  `hcl:"seed,optional"`
	LogLevel            string `hcl:"log_level,optional"`
	LogFile             string `hcl:"log_file,optional"`
}

// PlayerConfig defines one seat at the table.
type PlayerConfig struct {
	Name  string `hcl:"name,label"`
	Human bool   `hcl:"human,optional"`
}

// envOverrides are applied on top of the file config, SETGAME_* variables
// winning over file values.
type envOverrides struct {
	TurnTimeoutMillis int    `env:"SETGAME_TURN_TIMEOUT_MS"`
	Seed              int64  `env:"SETGAME_SEED"`
	LogLevel          string `env:"SETGAME_LOG_LEVEL"`
	LogFile           string `env:"SETGAME_LOG_FILE"`
}

// DefaultConfig returns the standard game: 81 cards on a 12-slot board,
// one human seat against two bots.
func DefaultConfig() *Config {
	return &Config{
		Game: GameSettings{
			Features:            4,
			Options:             3,
			TableSize:           12,
			TurnTimeoutMillis:   60000,
			WarnTimeMillis:      10000,
			PointFreezeMillis:   1000,
			PenaltyFreezeMillis: 3000,
			TableDelayMillis:    0,
			RefreshMillis:       250,
			LogLevel:            "info",
		},
		Players: []PlayerConfig{
			{Name: "you", Human: true},
			{Name: "bot-1"},
			{Name: "bot-2"},
		},
	}
}

// LoadConfig loads configuration from an HCL file, falling back to the
// defaults when the file does not exist, then applies environment
// overrides.
func LoadConfig(filename string) (*Config, error) {
	config := DefaultConfig()

	if filename != "" {
		if _, err := os.Stat(filename); err == nil {
			parser := hclparse.NewParser()
			file, diags := parser.ParseHCLFile(filename)
			if diags.HasErrors() {
				return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
			}

			var parsed Config
			diags = gohcl.DecodeBody(file.Body, nil, &parsed)
			if diags.HasErrors() {
				return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
			}
			applyDefaults(&parsed)
			config = &parsed
		}
	}

	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if overrides.TurnTimeoutMillis > 0 {
		config.Game.TurnTimeoutMillis = overrides.TurnTimeoutMillis
	}
	if overrides.Seed != 0 {
		config.Game.Seed = overrides.Seed
	}
	if overrides.LogLevel != "" {
		config.Game.LogLevel = overrides.LogLevel
	}
	if overrides.LogFile != "" {
		config.Game.LogFile = overrides.LogFile
	}

	return config, nil
}

func applyDefaults(c *Config) {
	d := DefaultConfig().Game
	if c.Game.Features == 0 {
		c.Game.Features = d.Features
	}
	if c.Game.Options == 0 {
		c.Game.Options = d.Options
	}
	if c.Game.TableSize == 0 {
		c.Game.TableSize = d.TableSize
	}
	if c.Game.TurnTimeoutMillis == 0 {
		c.Game.TurnTimeoutMillis = d.TurnTimeoutMillis
	}
	if c.Game.WarnTimeMillis == 0 {
		c.Game.WarnTimeMillis = d.WarnTimeMillis
	}
	if c.Game.PointFreezeMillis == 0 {
		c.Game.PointFreezeMillis = d.PointFreezeMillis
	}
	if c.Game.PenaltyFreezeMillis == 0 {
		c.Game.PenaltyFreezeMillis = d.PenaltyFreezeMillis
	}
	if c.Game.RefreshMillis == 0 {
		c.Game.RefreshMillis = d.RefreshMillis
	}
	if c.Game.LogLevel == "" {
		c.Game.LogLevel = d.LogLevel
	}
	if len(c.Players) == 0 {
		c.Players = DefaultConfig().Players
	}
}

// Validate checks the configuration for contradictions.
func (c *Config) Validate() error {
	if c.Game.Features < 1 {
		return fmt.Errorf("features must be at least 1, got %d", c.Game.Features)
	}
	if c.Game.Options < 2 {
		return fmt.Errorf("options must be at least 2, got %d", c.Game.Options)
	}
	if c.Game.TableSize < c.Game.Options {
		return fmt.Errorf("table size %d cannot hold a set of %d", c.Game.TableSize, c.Game.Options)
	}
	if c.Game.TurnTimeoutMillis <= 0 {
		return fmt.Errorf("turn timeout must be positive")
	}
	if c.Game.WarnTimeMillis < 0 || c.Game.WarnTimeMillis > c.Game.TurnTimeoutMillis {
		return fmt.Errorf("warn time must be within the turn timeout")
	}
	if len(c.Players) == 0 {
		return fmt.Errorf("at least one player must be configured")
	}
	seen := map[string]bool{}
	for _, p := range c.Players {
		if p.Name == "" {
			return fmt.Errorf("player names must not be empty")
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate player name %q", p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

// SetSize returns the number of cards in a claim, equal to the option
// count of the feature space.
func (c *Config) SetSize() int {
	return c.Game.Options
}

// DeckSize returns the total card count the feature space encodes.
func (c *Config) DeckSize() int {
	size := 1
	for i := 0; i < c.Game.Features; i++ {
		size *= c.Game.Options
	}
	return size
}

// TurnTimeout returns the round length.
func (c *Config) TurnTimeout() time.Duration {
	return time.Duration(c.Game.TurnTimeoutMillis) * time.Millisecond
}

// WarnTime returns the window before the deadline in which the countdown
// display turns urgent.
func (c *Config) WarnTime() time.Duration {
	return time.Duration(c.Game.WarnTimeMillis) * time.Millisecond
}

// PointFreeze returns the pause awarded for a correct claim.
func (c *Config) PointFreeze() time.Duration {
	return time.Duration(c.Game.PointFreezeMillis) * time.Millisecond
}

// PenaltyFreeze returns the pause imposed for an incorrect claim.
func (c *Config) PenaltyFreeze() time.Duration {
	return time.Duration(c.Game.PenaltyFreezeMillis) * time.Millisecond
}

// TableDelay returns the artificial per-placement pause.
func (c *Config) TableDelay() time.Duration {
	return time.Duration(c.Game.TableDelayMillis) * time.Millisecond
}

// Refresh returns the countdown display refresh interval.
func (c *Config) Refresh() time.Duration {
	return time.Duration(c.Game.RefreshMillis) * time.Millisecond
}
