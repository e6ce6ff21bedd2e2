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

package portal

import (
	"strings"

	"github.com/buger/jsonparser"
	"github.com/grafana/regexp"
)

// older portal builds answer the handshake in XML
var xmlTokenPattern = regexp.MustCompile(`<token>([^<]+)</token>`)

// ExtractToken reads js.token from a JSON handshake body and falls back to
// an XML <token> element.
func ExtractToken(body []byte) (string, bool) {
	if token, err := jsonparser.GetString(body, "js", "token"); err == nil {
		if token = strings.TrimSpace(token); token != "" {
			return token, true
		}
	}

	if m := xmlTokenPattern.FindSubmatch(body); m != nil {
		if token := strings.TrimSpace(string(m[1])); token != "" {
			return token, true
		}
	}
	return "", false
}
