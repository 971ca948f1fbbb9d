// SteamPeek
// Copyright (c) 2026 The SteamPeek Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of SteamPeek.
//
// SteamPeek is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// SteamPeek is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with SteamPeek.  If not, see <http://www.gnu.org/licenses/>.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/SteamPeekProject/steampeek/pkg/helpers/syncutil"
	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
)

const (
	SchemaVersion = 1
	CfgEnv        = "STEAMPEEK_CFG"
)

type Values struct {
	Tracker      Tracker `toml:"tracker"`
	API          API     `toml:"api,omitempty"`
	ConfigSchema int     `toml:"config_schema"`
	DebugLogging bool    `toml:"debug_logging"`
}

// Tracker configures the presence polling loop.
type Tracker struct {
	APIKey         string   `toml:"api_key"`
	SteamIDs       []string `toml:"steam_ids,omitempty,multiline" validate:"dive,numeric"`
	UpdateInterval int      `toml:"update_interval"                validate:"gt=0"`
}

// API configures the read-only HTTP API.
type API struct {
	Enabled bool `toml:"enabled"`
	Port    int  `toml:"port" validate:"gte=0,lte=65535"`
}

var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	Tracker: Tracker{
		UpdateInterval: 60,
	},
	API: API{
		Enabled: true,
		Port:    7497,
	},
}

type Instance struct {
	cfgPath  string
	vals     Values
	defaults Values
	mu       syncutil.RWMutex
}

var validate = validator.New(validator.WithRequiredStructEnabled())

//nolint:gocritic // config struct copied for immutability
func NewConfig(configDir string, defaults Values) (*Instance, error) {
	cfgPath := os.Getenv(CfgEnv)
	log.Debug().Msgf("env config path: %s", cfgPath)

	if cfgPath == "" {
		cfgPath = filepath.Join(configDir, CfgFile)
	}

	cfg := Instance{
		mu:       syncutil.RWMutex{},
		cfgPath:  cfgPath,
		vals:     defaults,
		defaults: defaults,
	}

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		log.Info().Msg("saving new default config to disk")

		err := os.MkdirAll(filepath.Dir(cfgPath), 0o750)
		if err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		err = cfg.Save()
		if err != nil {
			return nil, err
		}
	}

	err := cfg.Load()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	if _, err := os.Stat(c.cfgPath); err != nil {
		return fmt.Errorf("failed to stat config file: %w", err)
	}

	data, err := os.ReadFile(c.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then unmarshal file values on top.
	// This ensures fields not present in the file retain their default values.
	newVals := c.defaults
	err = toml.Unmarshal(data, &newVals)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if newVals.ConfigSchema != SchemaVersion {
		log.Error().Msgf(
			"schema version mismatch: got %d, expecting %d",
			newVals.ConfigSchema,
			SchemaVersion,
		)
		return errors.New("schema version mismatch")
	}

	if err := validate.Struct(&newVals); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	c.vals = newVals

	return nil
}

func (c *Instance) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	data, err := toml.Marshal(&c.vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(c.cfgPath, data, 0o600)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// UpdateInterval returns the time to wait between presence polls.
func (c *Instance) UpdateInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Duration(c.vals.Tracker.UpdateInterval) * time.Second
}

// APIKey returns the Steam Web API key.
func (c *Instance) APIKey() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Tracker.APIKey
}

// SteamIDs returns the ordered list of tracked Steam IDs.
func (c *Instance) SteamIDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, len(c.vals.Tracker.SteamIDs))
	copy(ids, c.vals.Tracker.SteamIDs)
	return ids
}

// SetSteamIDs replaces the list of tracked Steam IDs.
func (c *Instance) SetSteamIDs(ids []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Tracker.SteamIDs = ids
}

// APIEnabled returns true if the HTTP API should be served.
func (c *Instance) APIEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.API.Enabled
}

// APIPort returns the port the HTTP API listens on.
func (c *Instance) APIPort() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.API.Port
}

// DebugLogging returns true if debug level logging is enabled.
func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}
