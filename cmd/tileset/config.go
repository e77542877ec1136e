// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultTick        = 16 * time.Millisecond
	DefaultStore       = "tileset.db"
	DefaultPlaceholder = "placeholder.png"
)

// Config holds the settings read from the TOML config file.
type Config struct {
	Placeholder string `toml:"placeholder"` // Image used for missing tiles
	Tick        string `toml:"tick"`        // Simulation tick, e.g. "16ms"
	Store       string `toml:"store"`       // Path of the session store
	Strict      bool   `toml:"strict"`      // Reject chained animations
	LogLevel    string `toml:"log_level"`   // debug, info, warn or error
}

// defaultConfig returns the configuration used when no file is given
func defaultConfig() Config {
	return Config{
		Placeholder: DefaultPlaceholder,
		Tick:        DefaultTick.String(),
		Store:       DefaultStore,
		LogLevel:    "warn",
	}
}

// loadConfig reads the config file on top of the defaults
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	if _, err := cfg.TickInterval(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TickInterval returns the parsed simulation tick.
func (c Config) TickInterval() (time.Duration, error) {
	tick, err := time.ParseDuration(c.Tick)
	switch {
	case err != nil:
		return 0, fmt.Errorf("invalid tick '%s': %w", c.Tick, err)
	case tick <= 0:
		return 0, fmt.Errorf("invalid tick '%s': must be positive", c.Tick)
	default:
		return tick, nil
	}
}

// Level returns the configured log level.
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
