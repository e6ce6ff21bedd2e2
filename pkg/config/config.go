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

package config

import (
	"net/url"
	"time"
)

// DebugLoggingEnabled mirrors the --debug-logging flag.
var DebugLoggingEnabled = false

// Defaults used when a flag or environment value is missing or invalid.
const (
	DefaultSessionTTL       = 30 * time.Minute
	DefaultAPITimeout       = 10 * time.Second
	DefaultMaxPages         = 10
	DefaultPageSize         = 14
	DefaultCatalogCacheTTL  = 5 * time.Minute
	DefaultPlaylistMaxBytes = 8 << 20
)

// CredentialString holds a secret. Log it with Masked.
type CredentialString string

// String returns the raw value.
func (c CredentialString) String() string {
	return string(c)
}

// PathEscape returns the value escaped for use in a URL path.
func (c CredentialString) PathEscape() string {
	return url.PathEscape(string(c))
}

// Masked returns a representation safe for logs.
func (c CredentialString) Masked() string {
	if len(c) <= 4 {
		return "****"
	}
	return string(c[:2]) + "****" + string(c[len(c)-2:])
}

// HostConfiguration contains the listening host infos
type HostConfiguration struct {
	Hostname string
	Port     int
}

// PortalConfig describes the single upstream Stalker account.
type PortalConfig struct {
	URL       string
	MAC       string
	Token     CredentialString
	Prehash   CredentialString
	DeviceID  CredentialString
	Serial    CredentialString
	Signature CredentialString

	MaxConnections int
	ExpireDate     string
	CreatedDate    string
}

// ProxyConfig holds everything the server needs at startup
type ProxyConfig struct {
	HostConfig *HostConfiguration
	Portal     *PortalConfig

	HTTPS bool

	SessionTTL       time.Duration
	APITimeout       time.Duration
	MaxPages         int
	PageRate         int
	CatalogCacheTTL  time.Duration
	PlaylistMaxBytes int64
}

// ApplyDefaults fills zero values with the package defaults.
func (c *ProxyConfig) ApplyDefaults() {
	if c.HostConfig == nil {
		c.HostConfig = &HostConfiguration{}
	}
	if c.HostConfig.Port == 0 {
		c.HostConfig.Port = 5000
	}
	if c.Portal == nil {
		c.Portal = &PortalConfig{}
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = DefaultSessionTTL
	}
	if c.APITimeout <= 0 {
		c.APITimeout = DefaultAPITimeout
	}
	if c.MaxPages <= 0 {
		c.MaxPages = DefaultMaxPages
	}
	if c.PageRate < 0 {
		c.PageRate = 0
	}
	if c.CatalogCacheTTL < 0 {
		c.CatalogCacheTTL = 0
	}
	if c.PlaylistMaxBytes <= 0 {
		c.PlaylistMaxBytes = DefaultPlaylistMaxBytes
	}
}
