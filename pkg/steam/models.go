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

package steam

// PlayerSummary is one player's status from GetPlayerSummaries. GameID and
// GameExtraInfo are only present while the player is in a game; a nil
// GameExtraInfo means the key was absent from the response.
type PlayerSummary struct {
	GameExtraInfo *string `json:"gameextrainfo,omitempty"`
	SteamID       string  `json:"steamid"`
	PersonaName   string  `json:"personaname"`
	GameID        string  `json:"gameid,omitempty"`
}

// Playing returns true if the summary reports the player in a game.
func (p *PlayerSummary) Playing() bool {
	return p.GameID != "" && p.GameExtraInfo != nil
}

// APIResponse represents the root response structure from the Steam Web API
type APIResponse struct {
	Response *APIResponseData `json:"response,omitempty"`
}

// APIResponseData contains the player list from API responses
type APIResponseData struct {
	Players []PlayerSummary `json:"players"`
}
