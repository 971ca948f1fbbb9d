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

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/SteamPeekProject/steampeek/pkg/api"
	"github.com/SteamPeekProject/steampeek/pkg/config"
	"github.com/SteamPeekProject/steampeek/pkg/database/playerdb"
	"github.com/SteamPeekProject/steampeek/pkg/helpers"
	"github.com/SteamPeekProject/steampeek/pkg/service"
	"github.com/SteamPeekProject/steampeek/pkg/steam"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	configDir := flag.String(
		"config",
		"",
		"path to config directory",
	)
	showVersion := flag.Bool(
		"version",
		false,
		"print version and exit",
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s v%s\n", config.AppName, config.AppVersion)
		return nil
	}

	if err := helpers.InitLogging([]io.Writer{os.Stderr}); err != nil {
		return fmt.Errorf("failed to init logging: %w", err)
	}

	dir := *configDir
	if dir == "" {
		dir = helpers.ConfigDir()
	}

	cfg, err := config.NewConfig(dir, config.BaseDefaults)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.DebugLogging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	db, err := playerdb.Open(
		afero.NewOsFs(),
		clockwork.NewRealClock(),
		filepath.Join(helpers.DataDir(), config.PlayersDir),
	)
	if err != nil {
		return fmt.Errorf("failed to open player database: %w", err)
	}

	client := steam.NewClient(nil, cfg.APIKey(), steam.DefaultAPIURL)
	tracker := service.NewTracker(cfg, db, client)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return tracker.Run(ctx)
	})
	if cfg.APIEnabled() {
		srv := api.NewServer(cfg, db)
		g.Go(func() error {
			return srv.Serve(ctx)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return nil
}
