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

// Package service runs the presence polling loop. On each cycle it queries
// the Steam Web API for every tracked player, compares the reported game
// against the player's open sessions and opens or closes sessions to match.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/SteamPeekProject/steampeek/pkg/config"
	"github.com/SteamPeekProject/steampeek/pkg/database/playerdb"
	"github.com/SteamPeekProject/steampeek/pkg/steam"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Presence is the remote API the tracker polls for player status.
type Presence interface {
	GetPlayerSummaries(ctx context.Context, steamIDs []string) ([]steam.PlayerSummary, error)
}

// SessionStore is the per-player session storage driven by the tracker.
type SessionStore interface {
	EnsurePlayer(steamID, personaName string) error
	OpenSessions(steamID string) ([]playerdb.GameSession, error)
	StartSession(steamID, gameID, gameExtraInfo string, uncertainty float64) error
	StopSession(steamID, gameID string) error
}

// Tracker owns the poll/compare/react loop. It is single threaded: one cycle
// finishes, including all store writes, before the next one starts.
type Tracker struct {
	lastPoll time.Time
	cfg      *config.Instance
	store    SessionStore
	presence Presence
	clock    clockwork.Clock
	out      io.Writer
}

// NewTracker creates a Tracker printing player status lines to stdout.
func NewTracker(cfg *config.Instance, store SessionStore, presence Presence) *Tracker {
	return &Tracker{
		cfg:      cfg,
		store:    store,
		presence: presence,
		clock:    clockwork.NewRealClock(),
		out:      os.Stdout,
	}
}

// Run polls until ctx is cancelled. Cancellation is a clean nil return. Any
// store failure is logged and returned: the tracker does not self-heal from
// unexpected errors, restarting is the operator's job.
func (t *Tracker) Run(ctx context.Context) error {
	log.Info().
		Dur("interval", t.cfg.UpdateInterval()).
		Int("players", len(t.cfg.SteamIDs())).
		Msg("presence tracker starting")

	for {
		if err := t.cycle(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			log.Error().Err(err).Msg("presence cycle failed")
			return err
		}

		select {
		case <-ctx.Done():
			log.Info().Msg("presence tracker stopped")
			return nil
		case <-t.clock.After(t.cfg.UpdateInterval()):
		}
	}
}

// uncertainty returns the seconds elapsed since the last successful poll, the
// upper bound on how stale a just-detected transition can be. It is -1 until
// the first poll succeeds.
func (t *Tracker) uncertainty() float64 {
	if t.lastPoll.IsZero() {
		return -1
	}
	return t.clock.Since(t.lastPoll).Seconds()
}

func (t *Tracker) cycle(ctx context.Context) error {
	steamIDs := t.cfg.SteamIDs()
	if len(steamIDs) == 0 {
		return nil
	}

	// Captured before lastPoll moves: sessions opened this cycle are bounded
	// by the gap to the previous successful poll, not to this one.
	uncertainty := t.uncertainty()

	players, err := t.presence.GetPlayerSummaries(ctx, steamIDs)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn().Err(err).Msg("presence query failed, treating snapshot as empty")
		players = nil
	} else {
		t.lastPoll = t.clock.Now()
	}

	for i := range players {
		if err := t.processPlayer(&players[i], uncertainty); err != nil {
			return err
		}
	}

	return nil
}

func (t *Tracker) processPlayer(player *steam.PlayerSummary, uncertainty float64) error {
	if err := t.store.EnsurePlayer(player.SteamID, player.PersonaName); err != nil {
		return err
	}

	openSessions, err := t.store.OpenSessions(player.SteamID)
	if err != nil {
		return err
	}

	now := t.clock.Now().Format(playerdb.TimestampLayout)

	if player.Playing() {
		alreadyOpen := false
		for i := range openSessions {
			if openSessions[i].GameID == player.GameID {
				alreadyOpen = true
				break
			}
		}
		// On a direct game-to-game switch the previous game's session stays
		// open; readers treat the most recently opened session as current.
		if !alreadyOpen {
			err := t.store.StartSession(player.SteamID, player.GameID, *player.GameExtraInfo, uncertainty)
			if err != nil {
				return err
			}
			log.Debug().
				Str("steam_id", player.SteamID).
				Str("game_id", player.GameID).
				Float64("uncertainty", uncertainty).
				Msg("session started")
		}
		_, _ = fmt.Fprintf(t.out, "%s: User %s (%s) is playing game %s (%s).\n",
			now, player.SteamID, player.PersonaName, player.GameID, *player.GameExtraInfo)
		return nil
	}

	for i := range openSessions {
		if openSessions[i].GameID != player.GameID {
			if err := t.store.StopSession(player.SteamID, openSessions[i].GameID); err != nil {
				return err
			}
			log.Debug().
				Str("steam_id", player.SteamID).
				Str("game_id", openSessions[i].GameID).
				Msg("session stopped")
		}
	}
	_, _ = fmt.Fprintf(t.out, "%s: User %s (%s) is not playing any game.\n",
		now, player.SteamID, player.PersonaName)
	return nil
}
