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

package stream

import (
	"bytes"
	"net/url"
	"path"
	"strings"

	"github.com/grafov/m3u8"
	"github.com/lucasduport/stalker-share/pkg/utils"
)

// PlaylistBase returns the URL relative entries of the playlist at u are
// resolved against: its origin and directory, with a trailing slash.
func PlaylistBase(u *url.URL) *url.URL {
	dir := "/"
	if u.Path != "" {
		dir = path.Dir(u.Path)
	}
	if !strings.HasSuffix(dir, "/") {
		dir += "/"
	}
	return &url.URL{Scheme: u.Scheme, Host: u.Host, Path: dir}
}

// RewritePlaylist routes every URI line of an HLS playlist through the
// proxy. Comments and blank lines are kept byte for byte, a line that
// cannot be resolved is kept too. The output has as many lines as body.
func RewritePlaylist(body []byte, playlistURL *url.URL) []byte {
	base := PlaylistBase(playlistURL)
	lines := strings.Split(string(body), "\n")

	unresolved := 0
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
			lines[i] = ProxyURL(trimmed)
			continue
		}

		ref, err := url.Parse(trimmed)
		if err != nil {
			unresolved++
			utils.DebugLog("Keeping unresolvable playlist line %q: %v", trimmed, err)
			continue
		}
		abs := base.ResolveReference(ref)
		if !abs.IsAbs() || abs.Host == "" {
			unresolved++
			continue
		}
		lines[i] = ProxyURL(abs.String())
	}

	if unresolved > 0 {
		utils.DebugLog("%d playlist lines left untouched for %s", unresolved, utils.MaskURL(playlistURL.String()))
	}
	return []byte(strings.Join(lines, "\n"))
}

// PlaylistKind classifies a playlist body as master, media or unknown.
// Only used for logs and metrics; rewriting never depends on it.
func PlaylistKind(body []byte) string {
	_, listType, err := m3u8.DecodeFrom(bytes.NewReader(body), false)
	if err != nil {
		return "unknown"
	}
	switch listType {
	case m3u8.MASTER:
		return "master"
	case m3u8.MEDIA:
		return "media"
	default:
		return "unknown"
	}
}
