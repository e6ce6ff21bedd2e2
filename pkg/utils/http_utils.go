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

import "os"

const (
	defaultBrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/143.0.0.0 Safari/537.36 OPR/127.0.0.0"
	defaultSTBUserAgent     = "Mozilla/5.0 (QtEmbedded; U; Linux; C) AppleWebKit/533.3 (KHTML, like Gecko) MAG200 stbapp ver: 4 rev: 1812 Mobile Safari/533.3"
	defaultStreamUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	defaultLanguageHeader   = "en-US,en;q=0.9,ja;q=0.8,es;q=0.7,zh-CN;q=0.6,zh;q=0.5,hi;q=0.4,fr;q=0.3,id;q=0.2"

	// STBModelHeader is sent as X-User-Agent on authenticated portal calls.
	STBModelHeader = "Model: MAG254; Link: Ethernet,WiFi"
)

// GetBrowserUserAgent returns the user agent used for the portal handshake.
// BROWSER_USER_AGENT overrides it.
func GetBrowserUserAgent() string {
	return GetEnvOrDefault("BROWSER_USER_AGENT", defaultBrowserUserAgent)
}

// GetSTBUserAgent returns the set-top-box user agent used once a token exists.
// STB_USER_AGENT overrides it.
func GetSTBUserAgent() string {
	return GetEnvOrDefault("STB_USER_AGENT", defaultSTBUserAgent)
}

// GetStreamUserAgent returns the user agent used against media servers.
// Uses the USER_AGENT environment variable if set.
func GetStreamUserAgent() string {
	userAgent := os.Getenv("USER_AGENT")
	if userAgent == "" {
		return defaultStreamUserAgent
	}
	return userAgent
}

// GetLanguageHeader returns the Accept-Language value sent upstream
func GetLanguageHeader() string {
	return GetEnvOrDefault("ACCEPT_LANGUAGE", defaultLanguageHeader)
}
