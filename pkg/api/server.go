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

// Package api serves a small read-only HTTP API over the recorded session
// data. It never writes to the store: the tracker is the only writer.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/SteamPeekProject/steampeek/pkg/config"
	"github.com/SteamPeekProject/steampeek/pkg/database/playerdb"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// PlayerStore is the read side of the session store.
type PlayerStore interface {
	Player(steamID string) (*playerdb.PlayerRecord, error)
	ListPlayers() ([]string, error)
	OpenSessions(steamID string) ([]playerdb.GameSession, error)
}

// Server serves the read-only API.
type Server struct {
	cfg      *config.Instance
	db       PlayerStore
	validate *validator.Validate
}

// NewServer creates an API server over the given store.
func NewServer(cfg *config.Instance, db PlayerStore) *Server {
	return &Server{
		cfg:      cfg,
		db:       db,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Routes returns the API router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/players", s.handlePlayers)
		r.Get("/players/{steamID}", s.handlePlayer)
		r.Get("/players/{steamID}/sessions", s.handlePlayerSessions)
	})

	return r
}

// Serve blocks until ctx is cancelled, then shuts the listener down
// gracefully.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.APIPort()),
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Info().Int("port", s.cfg.APIPort()).Msg("api server listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down api server: %w", err)
		}
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server failed: %w", err)
		}
		return nil
	}
}

type statusResponse struct {
	Version        string `json:"version"`
	TrackedPlayers int    `json:"tracked_players"`
	UpdateInterval int    `json:"update_interval"`
	APIPort        int    `json:"api_port"`
}

type playerSummaryResponse struct {
	SteamID      string `json:"steam_id"`
	PersonaName  string `json:"persona_name"`
	CurrentGame  string `json:"current_game,omitempty"`
	SessionCount int    `json:"session_count"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Version:        config.AppVersion,
		TrackedPlayers: len(s.cfg.SteamIDs()),
		UpdateInterval: int(s.cfg.UpdateInterval().Seconds()),
		APIPort:        s.cfg.APIPort(),
	})
}

func (s *Server) handlePlayers(w http.ResponseWriter, _ *http.Request) {
	ids, err := s.db.ListPlayers()
	if err != nil {
		log.Error().Err(err).Msg("failed to list players")
		writeError(w, http.StatusInternalServerError, "failed to list players")
		return
	}

	players := make([]playerSummaryResponse, 0, len(ids))
	for _, id := range ids {
		record, err := s.db.Player(id)
		if err != nil {
			log.Error().Err(err).Str("steam_id", id).Msg("failed to read player record")
			writeError(w, http.StatusInternalServerError, "failed to read player record")
			return
		}
		players = append(players, summarizePlayer(record))
	}

	writeJSON(w, http.StatusOK, players)
}

func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	steamID, ok := s.steamIDParam(w, r)
	if !ok {
		return
	}

	record, err := s.db.Player(steamID)
	if err != nil {
		if errors.Is(err, playerdb.ErrPlayerNotFound) {
			writeError(w, http.StatusNotFound, "unknown player")
			return
		}
		log.Error().Err(err).Str("steam_id", steamID).Msg("failed to read player record")
		writeError(w, http.StatusInternalServerError, "failed to read player record")
		return
	}

	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handlePlayerSessions(w http.ResponseWriter, r *http.Request) {
	steamID, ok := s.steamIDParam(w, r)
	if !ok {
		return
	}

	var sessions []playerdb.GameSession
	var err error
	if r.URL.Query().Get("open") == "true" {
		sessions, err = s.db.OpenSessions(steamID)
	} else {
		var record *playerdb.PlayerRecord
		record, err = s.db.Player(steamID)
		if record != nil {
			sessions = record.GameSessions
		}
	}
	if err != nil {
		if errors.Is(err, playerdb.ErrPlayerNotFound) {
			writeError(w, http.StatusNotFound, "unknown player")
			return
		}
		log.Error().Err(err).Str("steam_id", steamID).Msg("failed to read player sessions")
		writeError(w, http.StatusInternalServerError, "failed to read player sessions")
		return
	}

	if sessions == nil {
		sessions = []playerdb.GameSession{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) steamIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	steamID := chi.URLParam(r, "steamID")
	if err := s.validate.Var(steamID, "required,numeric"); err != nil {
		writeError(w, http.StatusBadRequest, "invalid steam id")
		return "", false
	}
	return steamID, true
}

func summarizePlayer(record *playerdb.PlayerRecord) playerSummaryResponse {
	summary := playerSummaryResponse{
		SteamID:      record.SteamID,
		PersonaName:  record.PersonaName,
		SessionCount: len(record.GameSessions),
	}
	// Newest open session wins: a superseded session can still be open after
	// a direct game-to-game switch.
	for i := len(record.GameSessions) - 1; i >= 0; i-- {
		if record.GameSessions[i].Open() {
			summary.CurrentGame = record.GameSessions[i].GameID
			break
		}
	}
	return summary
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
