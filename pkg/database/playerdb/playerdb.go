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

// Package playerdb stores per-player game session history as one JSON
// document per player. Every mutation is a full load, modify, overwrite of
// the player's record. There is exactly one writer, so no file locking.
package playerdb

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
)

// TimestampLayout is the wall clock format used in player records.
const TimestampLayout = "2006-01-02 15:04:05"

// ErrPlayerNotFound is returned when reading a player with no record on disk.
// Callers are expected to EnsurePlayer before any read.
var ErrPlayerNotFound = errors.New("player record not found")

// GameSession is one continuous interval of a player running a game. An empty
// OfflineTime marks the session as still open.
type GameSession struct {
	GameExtraInfo string  `json:"game_extra_info"`
	GameID        string  `json:"game_id"`
	OnlineTime    string  `json:"online_time"`
	OfflineTime   string  `json:"offline_time"`
	Uncertainty   float64 `json:"uncertainty"`
}

// Open returns true while the session has not been closed.
func (s *GameSession) Open() bool {
	return s.OfflineTime == ""
}

// PlayerRecord is the full persisted state for one tracked player. Sessions
// are append-only and kept in insertion order.
type PlayerRecord struct {
	SteamID      string        `json:"steam_id"`
	PersonaName  string        `json:"persona_name"`
	GameSessions []GameSession `json:"game_sessions"`
}

// PlayerDB reads and writes player records under a single directory, one
// <steamid>.json file per player.
type PlayerDB struct {
	fs    afero.Fs
	clock clockwork.Clock
	dir   string
}

// Open creates the record directory if needed and returns a PlayerDB over it.
func Open(fs afero.Fs, clock clockwork.Clock, dir string) (*PlayerDB, error) {
	if err := fs.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create player record directory: %w", err)
	}
	return &PlayerDB{fs: fs, clock: clock, dir: dir}, nil
}

func (db *PlayerDB) recordPath(steamID string) (string, error) {
	if steamID == "" || strings.ContainsAny(steamID, `/\`) {
		return "", fmt.Errorf("invalid steam id: %q", steamID)
	}
	return filepath.Join(db.dir, steamID+".json"), nil
}

func (db *PlayerDB) readRecord(steamID string) (*PlayerRecord, error) {
	path, err := db.recordPath(steamID)
	if err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(db.fs, path)
	if err != nil {
		if errors.Is(err, afero.ErrFileNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to read player record: %w", err)
	}

	var record PlayerRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal player record: %w", err)
	}

	return &record, nil
}

func (db *PlayerDB) writeRecord(record *PlayerRecord) error {
	path, err := db.recordPath(record.SteamID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(record, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal player record: %w", err)
	}

	if err := afero.WriteFile(db.fs, path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write player record: %w", err)
	}

	return nil
}

// EnsurePlayer creates an empty record for the player if none exists yet.
// It never touches an existing record, including its persona name.
func (db *PlayerDB) EnsurePlayer(steamID, personaName string) error {
	path, err := db.recordPath(steamID)
	if err != nil {
		return err
	}

	exists, err := afero.Exists(db.fs, path)
	if err != nil {
		return fmt.Errorf("failed to stat player record: %w", err)
	}
	if exists {
		return nil
	}

	return db.writeRecord(&PlayerRecord{
		SteamID:      steamID,
		PersonaName:  personaName,
		GameSessions: []GameSession{},
	})
}

// Player returns the full record for a player.
func (db *PlayerDB) Player(steamID string) (*PlayerRecord, error) {
	return db.readRecord(steamID)
}

// ListPlayers returns the IDs of all players with a record on disk, sorted.
func (db *PlayerDB) ListPlayers() ([]string, error) {
	entries, err := afero.ReadDir(db.fs, db.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read player record directory: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(ids)

	return ids, nil
}

// OpenSessions returns all sessions of the player that have not been closed,
// in stored order.
func (db *PlayerDB) OpenSessions(steamID string) ([]GameSession, error) {
	record, err := db.readRecord(steamID)
	if err != nil {
		return nil, err
	}

	var open []GameSession
	for i := range record.GameSessions {
		if record.GameSessions[i].Open() {
			open = append(open, record.GameSessions[i])
		}
	}

	return open, nil
}

// StartSession appends a new open session stamped with the current time.
// It performs no de-duplication: the caller must check OpenSessions first if
// it wants at most one open session per game.
func (db *PlayerDB) StartSession(steamID, gameID, gameExtraInfo string, uncertainty float64) error {
	record, err := db.readRecord(steamID)
	if err != nil {
		return err
	}

	record.GameSessions = append(record.GameSessions, GameSession{
		GameExtraInfo: gameExtraInfo,
		GameID:        gameID,
		OnlineTime:    db.clock.Now().Format(TimestampLayout),
		OfflineTime:   "",
		Uncertainty:   uncertainty,
	})

	return db.writeRecord(record)
}

// StopSession closes the first open session matching gameID, leaving any
// later duplicates untouched. Closing a game with no matching open session
// is a no-op: callers may stop sessions that were already stopped.
func (db *PlayerDB) StopSession(steamID, gameID string) error {
	record, err := db.readRecord(steamID)
	if err != nil {
		return err
	}

	for i := range record.GameSessions {
		s := &record.GameSessions[i]
		if s.GameID == gameID && s.Open() {
			s.OfflineTime = db.clock.Now().Format(TimestampLayout)
			return db.writeRecord(record)
		}
	}

	return nil
}
