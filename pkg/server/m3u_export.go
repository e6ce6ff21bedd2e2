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

package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jamesnetherton/m3u"
	"github.com/lucasduport/stalker-share/pkg/portal"
	"github.com/lucasduport/stalker-share/pkg/stream"
	"github.com/lucasduport/stalker-share/pkg/utils"
)

const m3uContentType = "audio/x-mpegurl"

// channelPlaylist exports a channel category as an M3U playlist whose
// entries point at this proxy.
func (c *Config) channelPlaylist(ctx *gin.Context) {
	id := ctx.Param("id")

	listing, err := c.fetchPages(ctx.Request.Context(), channelListAction(id))
	if err != nil {
		degraded(ctx, err)
	}

	playlist := channelTracks(listing.Items, id, c.publicOrigin(ctx.Request))

	var buf bytes.Buffer
	marshallInto(&buf, playlist)

	ctx.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", "category-"+id+".m3u"))
	ctx.Data(http.StatusOK, m3uContentType, buf.Bytes())
}

// channelTracks builds one track per channel that carries a playable cmd.
func channelTracks(items []json.RawMessage, group, origin string) *m3u.Playlist {
	playlist := &m3u.Playlist{Tracks: make([]m3u.Track, 0, len(items))}

	for _, item := range items {
		name := portal.StringField(item, "name")
		d, err := stream.ResolveDirective(portal.StringField(item, "cmd"))
		if name == "" || err != nil {
			utils.DebugLog("Skipping channel %q without a stream command", name)
			continue
		}

		track := m3u.Track{
			Name:   name,
			Length: -1,
			URI:    origin + d.ProxyPath,
		}
		if epgID := portal.StringField(item, "xmltv_id"); epgID != "" {
			track.Tags = append(track.Tags, m3u.Tag{Name: "tvg-id", Value: epgID})
		}
		track.Tags = append(track.Tags, m3u.Tag{Name: "tvg-name", Value: name})
		if num := portal.StringField(item, "number"); num != "" {
			track.Tags = append(track.Tags, m3u.Tag{Name: "tvg-chno", Value: num})
		}
		if logo := portal.StringField(item, "logo"); logo != "" {
			track.Tags = append(track.Tags, m3u.Tag{Name: "tvg-logo", Value: logo})
		}
		if group != "" {
			track.Tags = append(track.Tags, m3u.Tag{Name: "group-title", Value: group})
		}
		playlist.Tracks = append(playlist.Tracks, track)
	}

	utils.DebugLog("Exported %d of %d channels", len(playlist.Tracks), len(items))
	return playlist
}

// marshallInto writes playlist as extended M3U.
func marshallInto(into *bytes.Buffer, playlist *m3u.Playlist) {
	into.WriteString("#EXTM3U\n") // nolint: errcheck
	for _, track := range playlist.Tracks {
		into.WriteString("#EXTINF:")                       // nolint: errcheck
		into.WriteString(fmt.Sprintf("%d", track.Length)) // nolint: errcheck
		for _, tag := range track.Tags {
			into.WriteString(fmt.Sprintf(" %s=%q", tag.Name, tag.Value)) // nolint: errcheck
		}
		into.WriteString(fmt.Sprintf(",%s\n%s\n", track.Name, track.URI)) // nolint: errcheck
	}
}

// publicOrigin is the scheme://host clients reach this server at. A
// configured hostname wins over the request's Host header.
func (c *Config) publicOrigin(r *http.Request) string {
	protocol := "http"
	if c.HTTPS || r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		protocol = "https"
	}
	if c.HostConfig != nil && c.HostConfig.Hostname != "" {
		return fmt.Sprintf("%s://%s:%d", protocol, c.HostConfig.Hostname, c.HostConfig.Port)
	}
	return protocol + "://" + r.Host
}
