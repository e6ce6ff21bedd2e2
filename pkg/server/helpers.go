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

	"github.com/gin-gonic/gin"
	"github.com/lucasduport/stalker-share/pkg/catalog"
	"github.com/lucasduport/stalker-share/pkg/metrics"
	"github.com/lucasduport/stalker-share/pkg/portal"
	"github.com/lucasduport/stalker-share/pkg/utils"
)

// fetch makes sure the shared login and profile are in place, then runs a.
func (c *Config) fetch(ctx context.Context, a portal.Action) (*portal.Response, error) {
	if _, err := c.sessions.EnsureProfile(ctx); err != nil {
		return nil, err
	}
	return c.sessions.Call(ctx, a)
}

// fetchItems runs a and decodes its list, whatever shape the portal used.
func (c *Config) fetchItems(ctx context.Context, a portal.Action) ([]json.RawMessage, error) {
	resp, err := c.fetch(ctx, a)
	if err != nil {
		return nil, err
	}
	items, shape := resp.Items()
	utils.DebugLog("%s/%s answered %d items (%s)", a.Type, a.Name, len(items), shape)
	return orEmpty(items), nil
}

// fetchCategories is fetchItems behind the category cache.
func (c *Config) fetchCategories(ctx context.Context, a portal.Action) ([]json.RawMessage, error) {
	key := a.Type + "/" + a.Name
	if items, ok := c.categories.get(key); ok {
		return items, nil
	}

	items, err := c.fetchItems(ctx, a)
	if err != nil {
		return nil, err
	}
	c.categories.put(key, items)
	return items, nil
}

// fetchPages collects every page of an ordered list.
func (c *Config) fetchPages(ctx context.Context, a portal.Action) (catalog.Listing, error) {
	if _, err := c.sessions.EnsureProfile(ctx); err != nil {
		return catalog.Listing{}, err
	}
	listing, err := catalog.FetchPages(ctx, c.sessions, a, c.pages)
	listing.Items = orEmpty(listing.Items)
	return listing, err
}

// degraded records that a catalog route answered with empty or fallback
// content because the portal failed. The client still gets a 200.
func degraded(ctx *gin.Context, err error) {
	route := ctx.FullPath()
	metrics.CatalogDegraded.WithLabelValues(route).Inc()
	utils.WarnLog("%s: portal unavailable, serving degraded content: %v", route, err)
}

func orEmpty(items []json.RawMessage) []json.RawMessage {
	if items == nil {
		return []json.RawMessage{}
	}
	return items
}
