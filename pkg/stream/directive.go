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

// Package stream relays media from upstream servers to browsers through a
// same-origin path, rewriting HLS playlists so segments follow the same way.
package stream

import (
	"errors"
	"net/url"
	"strings"
)

// ProxyPath is the route that serves proxied media.
const ProxyPath = "/proxy-stream"

const autoPrefix = "auto "

var (
	// ErrEmptyDirective is returned for an empty stream command.
	ErrEmptyDirective = errors.New("empty stream directive")
	// ErrInvalidURL is returned when the upstream is not an absolute http(s) URL.
	ErrInvalidURL = errors.New("invalid upstream url")
)

// Directive is a resolved stream command.
type Directive struct {
	Cmd       string
	Upstream  string
	ProxyPath string
	VOD       bool
}

// ResolveDirective strips the "auto " prefix from cmd and returns the
// same-origin path that plays it. The VOD flag only feeds logs.
func ResolveDirective(cmd string) (Directive, error) {
	upstream := strings.TrimSpace(strings.TrimPrefix(cmd, autoPrefix))
	if upstream == "" {
		return Directive{}, ErrEmptyDirective
	}

	return Directive{
		Cmd:       cmd,
		Upstream:  upstream,
		ProxyPath: ProxyURL(upstream),
		VOD:       IsVOD(upstream),
	}, nil
}

// ProxyURL wraps an absolute upstream URL in the proxy path.
func ProxyURL(upstream string) string {
	return ProxyPath + "?url=" + url.QueryEscape(upstream)
}

// IsVOD reports whether upstream points at on-demand content.
func IsVOD(upstream string) bool {
	return strings.Contains(upstream, "/vod?") || strings.Contains(upstream, "movieId=")
}

// IsPlaylist reports whether upstream is an HLS playlist.
func IsPlaylist(upstream string) bool {
	return strings.Contains(upstream, ".m3u8")
}

// ParseUpstream validates the url query value of a proxy request. Values
// that arrive still percent-encoded are decoded once more.
func ParseUpstream(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http%3a") || strings.HasPrefix(lower, "https%3a") {
		if decoded, err := url.QueryUnescape(raw); err == nil {
			raw = decoded
		}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Join(ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidURL
	}
	return u, nil
}
