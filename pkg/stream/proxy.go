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
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/lucasduport/stalker-share/pkg/config"
	"github.com/lucasduport/stalker-share/pkg/metrics"
	"github.com/lucasduport/stalker-share/pkg/utils"
)

const (
	chunkSize       = 64 * 1024
	notAvailableMsg = "Stream not available"
	exposedHeaders  = "Content-Length, Content-Range, Accept-Ranges"
	cacheControl    = "public, max-age=3600"

	kindPlaylist = "playlist"
	kindBinary   = "binary"
)

// Proxy relays upstream media to clients.
type Proxy struct {
	client           *http.Client
	maxPlaylistBytes int64
}

// NewProxy creates a proxy that buffers at most maxPlaylistBytes of a
// playlist before rewriting it.
func NewProxy(maxPlaylistBytes int64) *Proxy {
	if maxPlaylistBytes <= 0 {
		maxPlaylistBytes = config.DefaultPlaylistMaxBytes
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     false,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	// No global Timeout: a live stream lasts as long as the client stays.
	return &Proxy{
		client:           &http.Client{Transport: transport},
		maxPlaylistBytes: maxPlaylistBytes,
	}
}

// Forward fetches upstream and relays it to w. The upstream request is
// bound to r's context, so a client disconnect aborts it. Playlists are
// rewritten, everything else is copied in chunks as it arrives.
func (p *Proxy) Forward(w http.ResponseWriter, r *http.Request, upstream *url.URL) {
	streamID := uuid.New().String()
	kind := kindBinary
	if IsPlaylist(upstream.String()) {
		kind = kindPlaylist
	}
	utils.DebugLog("[%s] Proxying %s %s", streamID, kind, utils.MaskURL(upstream.String()))

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, upstream.String(), nil)
	if err != nil {
		utils.ErrorLog("[%s] Failed to create upstream request: %v", streamID, err)
		metrics.StreamErrors.WithLabelValues("request").Inc()
		writeText(w, http.StatusBadRequest, notAvailableMsg)
		return
	}
	req.Header.Set("User-Agent", utils.GetStreamUserAgent())
	req.Header.Set("Referer", selfOrigin(r)+"/")
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Encoding", "identity")
	if rng := r.Header.Get("Range"); rng != "" {
		req.Header.Set("Range", rng)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		if r.Context().Err() != nil {
			utils.DebugLog("[%s] Client left before upstream answered", streamID)
			return
		}
		utils.WarnLog("[%s] Upstream request failed: %v", streamID, err)
		metrics.StreamErrors.WithLabelValues("upstream_unreachable").Inc()
		writeText(w, http.StatusBadGateway, notAvailableMsg)
		return
	}
	defer resp.Body.Close()

	utils.DebugLog("[%s] Upstream status %d, type %q", streamID, resp.StatusCode, resp.Header.Get("Content-Type"))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.StreamErrors.WithLabelValues("upstream_status").Inc()
		writeText(w, resp.StatusCode, notAvailableMsg)
		return
	}

	h := w.Header()
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)
	h.Set("Cache-Control", cacheControl)
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Expose-Headers", exposedHeaders)
	h.Set("Accept-Ranges", "bytes")
	h.Set("X-Stream-Id", streamID)

	metrics.ActiveStreams.WithLabelValues(kind).Inc()
	defer metrics.ActiveStreams.WithLabelValues(kind).Dec()

	if kind == kindPlaylist {
		p.servePlaylist(w, resp, upstream, streamID)
		return
	}

	status := http.StatusOK
	if resp.StatusCode == http.StatusPartialContent {
		status = http.StatusPartialContent
		if cr := resp.Header.Get("Content-Range"); cr != "" {
			h.Set("Content-Range", cr)
		}
	}
	if cl := resp.Header.Get("Content-Length"); cl != "" {
		h.Set("Content-Length", cl)
	}
	w.WriteHeader(status)

	copyChunks(w, r, resp.Body, streamID)
}

// servePlaylist buffers the playlist and answers with the rewritten text.
// The rewritten document is complete, so it is always sent as a 200.
func (p *Proxy) servePlaylist(w http.ResponseWriter, resp *http.Response, upstream *url.URL, streamID string) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, p.maxPlaylistBytes+1))
	if err != nil {
		utils.WarnLog("[%s] Failed to read playlist: %v", streamID, err)
		metrics.StreamErrors.WithLabelValues("playlist_read").Inc()
		writeText(w, http.StatusBadGateway, notAvailableMsg)
		return
	}
	if int64(len(body)) > p.maxPlaylistBytes {
		utils.WarnLog("[%s] Playlist exceeds %d bytes, refusing to rewrite it", streamID, p.maxPlaylistBytes)
		metrics.StreamErrors.WithLabelValues("playlist_too_large").Inc()
		writeText(w, http.StatusBadGateway, notAvailableMsg)
		return
	}

	playlistType := PlaylistKind(body)
	rewritten := RewritePlaylist(body, upstream)
	metrics.PlaylistRewrites.WithLabelValues(playlistType).Inc()
	utils.DebugLog("[%s] Rewrote %s playlist (%d -> %d bytes)", streamID, playlistType, len(body), len(rewritten))

	w.Header().Set("Content-Length", strconv.Itoa(len(rewritten)))
	w.WriteHeader(http.StatusOK)
	n, err := w.Write(rewritten)
	metrics.StreamBytes.WithLabelValues(kindPlaylist).Add(float64(n))
	if err != nil {
		utils.DebugLog("[%s] Client write error: %v", streamID, err)
	}
}

// copyChunks relays body to w, flushing after every chunk, until the
// upstream ends, the client goes away or a write fails.
func copyChunks(w http.ResponseWriter, r *http.Request, body io.Reader, streamID string) {
	buf := make([]byte, chunkSize)
	var total int64
	defer func() {
		metrics.StreamBytes.WithLabelValues(kindBinary).Add(float64(total))
		utils.DebugLog("[%s] Stream closed after %d bytes", streamID, total)
	}()

	for {
		select {
		case <-r.Context().Done():
			utils.DebugLog("[%s] Client cancelled stream", streamID)
			return
		default:
		}

		n, rerr := body.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				utils.DebugLog("[%s] Client write error: %v", streamID, werr)
				metrics.StreamErrors.WithLabelValues("client_write").Inc()
				return
			}
			total += int64(n)
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}
		if rerr != nil {
			if rerr != io.EOF && r.Context().Err() == nil {
				utils.DebugLog("[%s] Upstream read error: %v", streamID, rerr)
				metrics.StreamErrors.WithLabelValues("upstream_read").Inc()
			}
			return
		}
	}
}

// selfOrigin is scheme://host of the proxy as the client reached it.
func selfOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	io.WriteString(w, msg) // nolint: errcheck
}
