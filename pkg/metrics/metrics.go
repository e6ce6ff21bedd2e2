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

// Package metrics exposes the Prometheus collectors shared by the portal
// session, the stream proxy and the HTTP layer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PortalRequests counts upstream portal calls by action and outcome
// (ok, auth_failed, unavailable, malformed).
var PortalRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "stalker_portal_requests_total",
	Help: "Portal requests by action and outcome",
}, []string{"action", "outcome"})

// PortalLatency observes how long a single portal round-trip takes.
var PortalLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "stalker_portal_request_duration_seconds",
	Help:    "Portal request latency",
	Buckets: prometheus.DefBuckets,
}, []string{"action"})

// SessionResets counts how many times the shared session was cleared
// after an authentication failure signal.
var SessionResets = promauto.NewCounter(prometheus.CounterOpts{
	Name: "stalker_session_resets_total",
	Help: "Session invalidations",
})

// SessionRefreshShared counts callers that joined an in-flight refresh
// instead of starting their own.
var SessionRefreshShared = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "stalker_session_refresh_shared_total",
	Help: "Refresh calls served by an in-flight refresh",
}, []string{"step"})

// ActiveStreams tracks proxied streams currently open, by kind (playlist, binary).
var ActiveStreams = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "stalker_proxy_active_streams",
	Help: "Number of open proxied streams",
}, []string{"kind"})

// StreamBytes counts bytes written to clients by the stream proxy.
var StreamBytes = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "stalker_proxy_bytes_total",
	Help: "Bytes forwarded to clients",
}, []string{"kind"})

// StreamErrors counts stream proxy failures by type.
var StreamErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "stalker_proxy_stream_errors_total",
	Help: "Stream proxy errors",
}, []string{"error_type"})

// PlaylistRewrites counts rewritten HLS playlists by playlist type.
var PlaylistRewrites = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "stalker_proxy_playlist_rewrites_total",
	Help: "HLS playlists rewritten through the proxy",
}, []string{"playlist_type"})

// CatalogDegraded counts catalog responses served empty or from fallback data.
var CatalogDegraded = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "stalker_catalog_degraded_total",
	Help: "Catalog responses degraded after an upstream failure",
}, []string{"route"})

// CatalogCache counts category cache lookups by result (hit, miss).
var CatalogCache = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "stalker_catalog_cache_total",
	Help: "Category cache lookups",
}, []string{"result"})
