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

// Package steam queries the Steam Web API for player presence.
package steam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/SteamPeekProject/steampeek/pkg/shared/httpclient"
	"github.com/rs/zerolog/log"
)

// DefaultAPIURL is the GetPlayerSummaries endpoint of the public Steam Web API.
const DefaultAPIURL = "https://api.steampowered.com/ISteamUser/GetPlayerSummaries/v0002/"

// Client queries player summaries from the Steam Web API.
type Client struct {
	httpClient *httpclient.Client
	apiKey     string
	apiURL     string
}

// NewClient creates a Steam Web API client. A nil httpClient falls back to
// the shared default client.
func NewClient(httpClient *httpclient.Client, apiKey, apiURL string) *Client {
	if httpClient == nil {
		httpClient = httpclient.DefaultClient
	}
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &Client{
		httpClient: httpClient,
		apiKey:     apiKey,
		apiURL:     apiURL,
	}
}

func (c *Client) buildSummariesURL(steamIDs []string) (string, error) {
	base, err := url.Parse(c.apiURL)
	if err != nil {
		return "", fmt.Errorf("invalid api url: %w", err)
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	if len(steamIDs) == 1 {
		params.Set("steamids", steamIDs[0])
	} else {
		params.Set("steamids", strings.Join(steamIDs, ","))
	}
	base.RawQuery = params.Encode()

	return base.String(), nil
}

// GetPlayerSummaries fetches the current status of the given players in one
// batched call. A reachable API whose response lacks the expected shape
// yields an empty snapshot and no error; transport failures and non-200
// statuses are returned as errors so the caller can tell a failed poll from
// an empty one.
func (c *Client) GetPlayerSummaries(ctx context.Context, steamIDs []string) ([]PlayerSummary, error) {
	if len(steamIDs) == 0 {
		return nil, errors.New("no steam ids given")
	}

	reqURL, err := c.buildSummariesURL(steamIDs)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to query player summaries: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("steam api returned status %d", resp.StatusCode)
	}

	var apiResp APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		log.Warn().Err(err).Msg("failed to decode player summaries, treating as empty")
		return []PlayerSummary{}, nil
	}

	if apiResp.Response == nil {
		log.Warn().Msg("player summaries response missing expected shape, treating as empty")
		return []PlayerSummary{}, nil
	}

	return apiResp.Response.Players, nil
}
