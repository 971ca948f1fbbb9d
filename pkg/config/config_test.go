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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigWritesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, CfgFile))
	require.NoError(t, err)

	assert.Equal(t, 60*time.Second, cfg.UpdateInterval())
	assert.Empty(t, cfg.SteamIDs())
	assert.True(t, cfg.APIEnabled())
	assert.Equal(t, 7497, cfg.APIPort())
	assert.False(t, cfg.DebugLogging())
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	data := []byte(`config_schema = 1
debug_logging = true

[tracker]
api_key = "secret"
update_interval = 30
steam_ids = [
    "76561197960287930",
    "76561197960287931",
]
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, CfgFile), data, 0o600))

	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.UpdateInterval())
	assert.Equal(t, "secret", cfg.APIKey())
	assert.Equal(t, []string{"76561197960287930", "76561197960287931"}, cfg.SteamIDs())
	assert.True(t, cfg.DebugLogging())
	// Unset sections keep their defaults.
	assert.True(t, cfg.APIEnabled())
	assert.Equal(t, 7497, cfg.APIPort())
}

func TestLoadRejectsSchemaMismatch(t *testing.T) {
	dir := t.TempDir()
	data := []byte("config_schema = 99\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, CfgFile), data, 0o600))

	_, err := NewConfig(dir, BaseDefaults)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema version mismatch")
}

func TestLoadRejectsNonPositiveInterval(t *testing.T) {
	dir := t.TempDir()
	data := []byte(`config_schema = 1

[tracker]
update_interval = 0
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, CfgFile), data, 0o600))

	_, err := NewConfig(dir, BaseDefaults)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestLoadRejectsNonNumericSteamIDs(t *testing.T) {
	dir := t.TempDir()
	data := []byte(`config_schema = 1

[tracker]
update_interval = 60
steam_ids = ["not-a-steam-id"]
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, CfgFile), data, 0o600))

	_, err := NewConfig(dir, BaseDefaults)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestSteamIDsReturnsCopy(t *testing.T) {
	dir := t.TempDir()

	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)

	cfg.SetSteamIDs([]string{"100", "200"})

	ids := cfg.SteamIDs()
	ids[0] = "mutated"

	assert.Equal(t, []string{"100", "200"}, cfg.SteamIDs())
}
