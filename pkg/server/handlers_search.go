/*
 * stream-share is a project to efficiently share the use of an IPTV service.
 * Copyright (C) 2025  Lucas Duport
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/lucasduport/stalker-share/pkg/portal"
	"github.com/lucasduport/stalker-share/pkg/types"
	"github.com/lucasduport/stalker-share/pkg/utils"
	"golang.org/x/sync/errgroup"
)

const minSearchLength = 2

// search queries channels, vod and series concurrently. A kind that fails
// contributes no results.
func (c *Config) search(ctx *gin.Context) {
	q := strings.TrimSpace(ctx.Query("q"))
	kind := ctx.DefaultQuery("type", "all")

	if utf8.RuneCountInString(q) < minSearchLength {
		ctx.JSON(http.StatusBadRequest, types.Error("Search query must be at least 2 characters").
			With("results", []json.RawMessage{}))
		return
	}

	results := types.SearchResults{
		Channels: []json.RawMessage{},
		VOD:      []json.RawMessage{},
		Series:   []json.RawMessage{},
	}

	g, gctx := errgroup.WithContext(ctx.Request.Context())
	for _, target := range []struct {
		kind        string
		contentType string
		into        *[]json.RawMessage
	}{
		{"channels", portal.TypeITV, &results.Channels},
		{"vod", portal.TypeVOD, &results.VOD},
		{"series", portal.TypeSeries, &results.Series},
	} {
		if kind != "all" && kind != target.kind {
			continue
		}
		target := target
		g.Go(func() error {
			*target.into = c.searchKind(gctx, target.contentType, q)
			return nil
		})
	}
	g.Wait() // nolint: errcheck

	utils.DebugLog("Search %q in %s: %d results", q, kind, results.Total())
	ctx.JSON(http.StatusOK, types.OK(types.SourcePortal).
		With("query", q).
		With("totalResults", results.Total()).
		With("results", results))
}

func (c *Config) searchKind(ctx context.Context, contentType, q string) []json.RawMessage {
	items, err := c.fetchItems(ctx, searchAction(contentType, q))
	if err != nil {
		utils.WarnLog("Search in %s failed: %v", contentType, err)
		return []json.RawMessage{}
	}
	return items
}
