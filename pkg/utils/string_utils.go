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

package utils

import (
	"net/url"
	"strings"
)

// query keys that carry credentials on portal and media URLs
var sensitiveParams = map[string]bool{
	"token":      true,
	"play_token": true,
	"mac":        true,
	"sn":         true,
	"signature":  true,
	"prehash":    true,
	"password":   true,
}

// MaskString masks sensitive parts of strings for logging.
func MaskString(s string) string {
	if len(s) <= 8 {
		if len(s) == 0 {
			return "[empty]"
		}
		return s[:1] + "******"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

// MaskURL masks credential-looking query values so URLs can be logged.
// Unparsable input is masked as a whole.
func MaskURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return MaskString(raw)
	}
	q := u.Query()
	changed := false
	for key, vals := range q {
		if !sensitiveParams[strings.ToLower(key)] {
			continue
		}
		for i := range vals {
			vals[i] = MaskString(vals[i])
		}
		changed = true
	}
	if changed {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// Snippet returns at most max bytes of body as a single log-friendly line.
func Snippet(body []byte, max int) string {
	s := string(body)
	if len(s) > max {
		s = s[:max] + "..."
	}
	return strings.Join(strings.Fields(s), " ")
}
