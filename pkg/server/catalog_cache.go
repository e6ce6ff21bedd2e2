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
	"encoding/json"
	"time"

	"github.com/lucasduport/stalker-share/pkg/metrics"
	"github.com/lucasduport/stalker-share/pkg/utils"
	"github.com/maypok86/otter/v2"
)

const categoryCacheSize = 256

// categoryCache keeps category listings (genres and categories per content
// type) for a short while. They change rarely and every page of the UI
// asks for them. A nil cache is disabled.
type categoryCache struct {
	entries *otter.Cache[string, []json.RawMessage]
}

func newCategoryCache(ttl time.Duration) *categoryCache {
	if ttl <= 0 {
		utils.InfoLog("Category cache disabled")
		return nil
	}
	return &categoryCache{
		entries: otter.Must(&otter.Options[string, []json.RawMessage]{
			MaximumSize:      categoryCacheSize,
			ExpiryCalculator: otter.ExpiryWriting[string, []json.RawMessage](ttl),
		}),
	}
}

func (cc *categoryCache) get(key string) ([]json.RawMessage, bool) {
	if cc == nil {
		return nil, false
	}
	items, ok := cc.entries.GetIfPresent(key)
	if ok {
		metrics.CatalogCache.WithLabelValues("hit").Inc()
		utils.DebugLog("Category cache hit for %s", key)
	} else {
		metrics.CatalogCache.WithLabelValues("miss").Inc()
	}
	return items, ok
}

// put stores a non-empty listing. Empty answers are never cached so a
// portal hiccup does not stick.
func (cc *categoryCache) put(key string, items []json.RawMessage) {
	if cc == nil || len(items) == 0 {
		return
	}
	cc.entries.Set(key, items)
}
