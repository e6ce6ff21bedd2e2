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

// Package catalog turns portal listings into the shapes served to the UI:
// multi-page ordered lists, category cards and EPG windows.
package catalog

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/lucasduport/stalker-share/pkg/config"
	"github.com/lucasduport/stalker-share/pkg/portal"
	"github.com/lucasduport/stalker-share/pkg/utils"
	"go.uber.org/ratelimit"
)

// Caller runs one authenticated portal action.
type Caller interface {
	Call(ctx context.Context, a portal.Action) (*portal.Response, error)
}

// Options bounds a paginated fetch.
type Options struct {
	// MaxPages caps the number of pages requested, page 1 included.
	MaxPages int
	// Limiter paces pages 2..n. Nil means unlimited.
	Limiter ratelimit.Limiter
}

// NewOptions builds Options from a page cap and a pages-per-second rate,
// 0 meaning unlimited.
func NewOptions(maxPages, pagesPerSecond int) Options {
	opts := Options{MaxPages: maxPages, Limiter: ratelimit.NewUnlimited()}
	if pagesPerSecond > 0 {
		opts.Limiter = ratelimit.New(pagesPerSecond)
	}
	return opts
}

// Listing is the concatenation of every page that answered with items,
// with the pagination reported by page 1.
type Listing struct {
	Items        []json.RawMessage
	TotalItems   int
	MaxPageItems int
	TotalPages   int
	PagesFetched int
}

// FetchPages requests page 1 of a, then pages 2..min(total_pages, MaxPages)
// in order. A failure on page 1 is returned; later pages that fail or come
// back empty are skipped.
func FetchPages(ctx context.Context, caller Caller, a portal.Action, opts Options) (Listing, error) {
	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = config.DefaultMaxPages
	}
	limiter := opts.Limiter
	if limiter == nil {
		limiter = ratelimit.NewUnlimited()
	}

	first, err := caller.Call(ctx, a.With("p", "1"))
	if err != nil {
		return Listing{}, err
	}

	items, _ := first.Items()
	total, pageSize := first.Pagination()
	if pageSize <= 0 {
		pageSize = config.DefaultPageSize
	}
	listing := Listing{
		Items:        items,
		TotalItems:   total,
		MaxPageItems: pageSize,
		TotalPages:   pageCount(total, pageSize),
		PagesFetched: 1,
	}
	if len(items) == 0 {
		return listing, nil
	}

	last := listing.TotalPages
	if last > maxPages {
		utils.DebugLog("%s/%s reports %d pages, fetching the first %d", a.Type, a.Name, last, maxPages)
		last = maxPages
	}

	for page := 2; page <= last; page++ {
		if ctx.Err() != nil {
			utils.DebugLog("Pagination of %s/%s stopped at page %d: %v", a.Type, a.Name, page, ctx.Err())
			break
		}
		limiter.Take()

		resp, err := caller.Call(ctx, a.With("p", strconv.Itoa(page)))
		if err != nil {
			utils.WarnLog("Skipping page %d of %s/%s: %v", page, a.Type, a.Name, err)
			continue
		}
		pageItems, _ := resp.Items()
		if len(pageItems) == 0 {
			utils.DebugLog("Page %d of %s/%s is empty", page, a.Type, a.Name)
			continue
		}
		listing.Items = append(listing.Items, pageItems...)
		listing.PagesFetched++
	}

	utils.DebugLog("Fetched %d items from %d pages of %s/%s", len(listing.Items), listing.PagesFetched, a.Type, a.Name)
	return listing, nil
}

func pageCount(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}
