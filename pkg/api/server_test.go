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

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SteamPeekProject/steampeek/pkg/config"
	"github.com/SteamPeekProject/steampeek/pkg/database/playerdb"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *playerdb.PlayerDB) {
	t.Helper()

	cfg, err := config.NewConfig(t.TempDir(), config.BaseDefaults)
	require.NoError(t, err)

	db, err := playerdb.Open(afero.NewMemMapFs(), clockwork.NewFakeClock(), "/players")
	require.NoError(t, err)

	return NewServer(cfg, db), db
}

func doRequest(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	return rec
}

func TestHandleStatus(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, "/api/v1/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var status map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Contains(t, status, "version")
	assert.InDelta(t, 60, status["update_interval"], 0.001)
}

func TestHandlePlayers(t *testing.T) {
	t.Parallel()

	srv, db := newTestServer(t)
	require.NoError(t, db.EnsurePlayer("100", "alice"))
	require.NoError(t, db.StartSession("100", "440", "Team Fortress 2", -1))
	require.NoError(t, db.EnsurePlayer("200", "bob"))

	rec := doRequest(t, srv, "/api/v1/players")
	require.Equal(t, http.StatusOK, rec.Code)

	var players []playerSummaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &players))
	require.Len(t, players, 2)
	assert.Equal(t, "100", players[0].SteamID)
	assert.Equal(t, "440", players[0].CurrentGame)
	assert.Equal(t, 1, players[0].SessionCount)
	assert.Equal(t, "bob", players[1].PersonaName)
	assert.Empty(t, players[1].CurrentGame)
}

func TestHandlePlayer(t *testing.T) {
	t.Parallel()

	srv, db := newTestServer(t)
	require.NoError(t, db.EnsurePlayer("100", "alice"))

	rec := doRequest(t, srv, "/api/v1/players/100")
	require.Equal(t, http.StatusOK, rec.Code)

	var record playerdb.PlayerRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(t, "alice", record.PersonaName)
}

func TestHandlePlayerNotFound(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, "/api/v1/players/100")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlePlayerInvalidID(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, "/api/v1/players/not-numeric")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlePlayerSessions(t *testing.T) {
	t.Parallel()

	srv, db := newTestServer(t)
	require.NoError(t, db.EnsurePlayer("100", "alice"))
	require.NoError(t, db.StartSession("100", "440", "Team Fortress 2", -1))
	require.NoError(t, db.StopSession("100", "440"))
	require.NoError(t, db.StartSession("100", "570", "Dota 2", 60))

	rec := doRequest(t, srv, "/api/v1/players/100/sessions")
	require.Equal(t, http.StatusOK, rec.Code)

	var sessions []playerdb.GameSession
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sessions))
	assert.Len(t, sessions, 2)

	rec = doRequest(t, srv, "/api/v1/players/100/sessions?open=true")
	require.Equal(t, http.StatusOK, rec.Code)

	sessions = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sessions))
	require.Len(t, sessions, 1)
	assert.Equal(t, "570", sessions[0].GameID)
}
