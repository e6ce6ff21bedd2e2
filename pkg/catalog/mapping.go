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

package catalog

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/lucasduport/stalker-share/pkg/portal"
	"github.com/lucasduport/stalker-share/pkg/utils"
)

// AllCategoryID is the portal's synthetic "everything" category.
const AllCategoryID = "*"

const placeholderPoster = "https://via.placeholder.com/200x300?text="

// Category is a browsable category card.
type Category struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Alias    string `json:"alias"`
	Censored *int   `json:"censored,omitempty"`
	Poster   string `json:"poster,omitempty"`
}

// PosterStyle picks how a category poster is chosen.
type PosterStyle int

const (
	// PosterOwnOrPlaceholder uses the category poster, else a placeholder.
	PosterOwnOrPlaceholder PosterStyle = iota
	// PosterArtwork walks poster, screenshot_uri, cover_big and img.
	PosterArtwork
	// PosterArtworkOrPlaceholder is PosterArtwork with a placeholder last.
	PosterArtworkOrPlaceholder
	// PosterOwn uses the category poster or nothing.
	PosterOwn
)

var artworkFields = []string{"poster", "screenshot_uri", "cover_big", "img"}

// PlaceholderPoster returns the generated poster URL for title.
func PlaceholderPoster(title string) string {
	return placeholderPoster + strings.ReplaceAll(url.QueryEscape(title), "+", "%20")
}

// MapCategories drops the "*" category and projects the rest to cards.
// censored is carried when withCensored is set.
func MapCategories(items []json.RawMessage, style PosterStyle, withCensored bool) []Category {
	out := make([]Category, 0, len(items))
	for _, item := range items {
		id := portal.StringField(item, "id")
		if id == AllCategoryID {
			continue
		}

		c := Category{
			ID:    id,
			Title: portal.StringField(item, "title"),
			Alias: portal.StringField(item, "alias"),
		}
		if withCensored {
			censored := int(portal.IntField(item, "censored"))
			c.Censored = &censored
		}

		switch style {
		case PosterOwnOrPlaceholder:
			c.Poster = firstField(item, "poster")
			if c.Poster == "" {
				c.Poster = PlaceholderPoster(c.Title)
			}
		case PosterArtwork:
			c.Poster = firstField(item, artworkFields...)
		case PosterArtworkOrPlaceholder:
			c.Poster = firstField(item, artworkFields...)
			if c.Poster == "" {
				c.Poster = PlaceholderPoster(c.Title)
			}
		case PosterOwn:
			c.Poster = firstField(item, "poster")
		}
		out = append(out, c)
	}
	return out
}

// WithChannelArtwork sets icon to logo||icon and poster to
// logo||icon||poster on every channel, keeping all other fields as sent.
func WithChannelArtwork(items []json.RawMessage) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		out = append(out, channelArtwork(item))
	}
	return out
}

func channelArtwork(item json.RawMessage) json.RawMessage {
	if _, dataType, _, err := jsonparser.Get(item); err != nil || dataType != jsonparser.Object {
		return item
	}

	icon := firstField(item, "logo", "icon")
	poster := firstField(item, "logo", "icon", "poster")

	mapped := append(json.RawMessage(nil), item...)
	for key, value := range map[string]string{"icon": icon, "poster": poster} {
		var err error
		if value == "" {
			mapped = jsonparser.Delete(mapped, key)
			continue
		}
		quoted, _ := json.Marshal(value)
		mapped, err = jsonparser.Set(mapped, quoted, key)
		if err != nil {
			utils.DebugLog("Cannot set %s on channel entry, passing it through: %v", key, err)
			return item
		}
	}
	return mapped
}

// firstField returns the first non-empty string among keys.
func firstField(item json.RawMessage, keys ...string) string {
	for _, key := range keys {
		if v := portal.StringField(item, key); v != "" {
			return v
		}
	}
	return ""
}
