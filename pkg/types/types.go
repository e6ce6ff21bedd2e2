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

package types

import "encoding/json"

// Envelope status values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Envelope source values.
const (
	SourcePortal      = "portal"
	SourceFallback    = "fallback"
	SourceVODRedirect = "vod_redirect"
)

// Envelope is the JSON body of every catalog route:
// {"status": ..., "source": ..., <payload key>: ...}. The payload key
// changes per route so the envelope is a flat map.
type Envelope map[string]interface{}

// OK starts a successful envelope from source.
func OK(source string) Envelope {
	return Envelope{"status": StatusOK, "source": source}
}

// Error builds an error envelope.
func Error(message string) Envelope {
	return Envelope{"status": StatusError, "message": message}
}

// With sets key to value and returns the envelope for chaining.
func (e Envelope) With(key string, value interface{}) Envelope {
	e[key] = value
	return e
}

// PortalInfo is the public part of the portal configuration.
type PortalInfo struct {
	URL            string `json:"url"`
	MAC            string `json:"mac"`
	MaxConnections int    `json:"maxConnections"`
	ExpireDate     string `json:"expireDate"`
	CreatedDate    string `json:"createdDate"`
}

// ConfigView is the payload of /api/config.
type ConfigView struct {
	Portal         PortalInfo `json:"portal"`
	MaxConnections int        `json:"maxConnections"`
	ExpireDate     string     `json:"expireDate"`
	CreatedDate    string     `json:"createdDate"`
}

// SearchResults groups search hits by content kind.
type SearchResults struct {
	Channels []json.RawMessage `json:"channels"`
	VOD      []json.RawMessage `json:"vod"`
	Series   []json.RawMessage `json:"series"`
}

// Total returns the number of hits across kinds.
func (r SearchResults) Total() int {
	return len(r.Channels) + len(r.VOD) + len(r.Series)
}

// FavoriteToggle is the body accepted by POST /favorites/vod/:id.
type FavoriteToggle struct {
	Favorite bool `json:"favorite"`
}

// SessionHealth reports the shared portal login.
type SessionHealth struct {
	Authenticated bool   `json:"authenticated"`
	HasProfile    bool   `json:"hasProfile"`
	Age           string `json:"age"`
	TTL           string `json:"ttl"`
}
