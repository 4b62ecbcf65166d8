// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
}

// PracticeConfig maps practice-related settings. Nil fields were not set.
type PracticeConfig struct {
	Words   *int    `toml:"words"`
	Pause   *string `toml:"pause"`
	Tick    *string `toml:"tick"`
	Scoring *string `toml:"scoring"`
	Seed    *int64  `toml:"seed"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	if _, err := ParseDuration("pause", cfg.Practice.Pause); err != nil {
		return FileConfig{}, err
	}
	if _, err := ParseDuration("tick", cfg.Practice.Tick); err != nil {
		return FileConfig{}, err
	}
	return cfg, nil
}

// ParseDuration parses an optional duration value. A nil value yields nil.
func ParseDuration(name string, value *string) (*time.Duration, error) {
	if value == nil {
		return nil, nil
	}
	d, err := time.ParseDuration(*value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", name, *value, err)
	}
	return &d, nil
}
