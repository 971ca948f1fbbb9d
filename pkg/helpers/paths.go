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

package helpers

import (
	"path/filepath"

	"github.com/SteamPeekProject/steampeek/pkg/config"
	"github.com/adrg/xdg"
)

// DataDir returns the path where player records and logs are stored.
func DataDir() string {
	return filepath.Join(xdg.DataHome, config.AppName)
}

// ConfigDir returns the path where the config file is stored.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, config.AppName)
}
