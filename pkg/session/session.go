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

// Package session keeps the single portal login shared by the whole
// process. A Session value is immutable once published; the manager swaps
// whole values so token, profile and timestamp are always read together.
package session

import (
	"encoding/json"
	"time"
)

// Session is one login against the portal. The zero value is the empty
// session.
type Session struct {
	Token     string
	Profile   json.RawMessage
	FetchedAt time.Time
}

// HasToken reports whether a token is present.
func (s *Session) HasToken() bool {
	return s != nil && s.Token != ""
}

// HasProfile reports whether token and profile are both present.
func (s *Session) HasProfile() bool {
	return s.HasToken() && len(s.Profile) > 0
}

// Fresh reports whether the session was fetched less than ttl before now.
func (s *Session) Fresh(now time.Time, ttl time.Duration) bool {
	if s == nil || s.FetchedAt.IsZero() {
		return false
	}
	return now.Sub(s.FetchedAt) < ttl
}

// Age returns how long ago the session was fetched, 0 for an empty one.
func (s *Session) Age(now time.Time) time.Duration {
	if s == nil || s.FetchedAt.IsZero() {
		return 0
	}
	return now.Sub(s.FetchedAt)
}
