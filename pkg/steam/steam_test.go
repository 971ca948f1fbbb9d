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

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlayerSummariesSingleID(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "100", r.URL.Query().Get("steamids"))
		_, _ = w.Write([]byte(`{
			"response": {
				"players": [
					{"steamid": "100", "personaname": "alice",
					 "gameid": "440", "gameextrainfo": "Team Fortress 2"}
				]
			}
		}`))
	}))
	defer srv.Close()

	client := NewClient(nil, "test-key", srv.URL)

	players, err := client.GetPlayerSummaries(context.Background(), []string{"100"})
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, "100", players[0].SteamID)
	assert.Equal(t, "alice", players[0].PersonaName)
	assert.Equal(t, "440", players[0].GameID)
	require.NotNil(t, players[0].GameExtraInfo)
	assert.Equal(t, "Team Fortress 2", *players[0].GameExtraInfo)
	assert.True(t, players[0].Playing())
}

func TestGetPlayerSummariesMultipleIDs(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "100,200", r.URL.Query().Get("steamids"))
		_, _ = w.Write([]byte(`{
			"response": {
				"players": [
					{"steamid": "100", "personaname": "alice"},
					{"steamid": "200", "personaname": "bob"}
				]
			}
		}`))
	}))
	defer srv.Close()

	client := NewClient(nil, "test-key", srv.URL)

	players, err := client.GetPlayerSummaries(context.Background(), []string{"100", "200"})
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.False(t, players[0].Playing())
	assert.Nil(t, players[0].GameExtraInfo)
}

func TestGetPlayerSummariesUnexpectedShape(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"unexpected": true}`))
	}))
	defer srv.Close()

	client := NewClient(nil, "test-key", srv.URL)

	players, err := client.GetPlayerSummaries(context.Background(), []string{"100"})
	require.NoError(t, err)
	assert.Empty(t, players)
}

func TestGetPlayerSummariesInvalidJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	client := NewClient(nil, "test-key", srv.URL)

	players, err := client.GetPlayerSummaries(context.Background(), []string{"100"})
	require.NoError(t, err)
	assert.Empty(t, players)
}

func TestGetPlayerSummariesServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(nil, "test-key", srv.URL)

	_, err := client.GetPlayerSummaries(context.Background(), []string{"100"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestGetPlayerSummariesNoIDs(t *testing.T) {
	t.Parallel()

	client := NewClient(nil, "test-key", "")

	_, err := client.GetPlayerSummaries(context.Background(), nil)
	require.Error(t, err)
}
