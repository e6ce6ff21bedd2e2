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
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lucasduport/stalker-share/pkg/stream"
	"github.com/lucasduport/stalker-share/pkg/types"
	"github.com/lucasduport/stalker-share/pkg/utils"
)

// streamLink turns a portal play command into a proxy path the player can
// open. It never talks to the portal.
func (c *Config) streamLink(ctx *gin.Context) {
	cmd := ctx.Query("cmd")
	if cmd == "" {
		ctx.JSON(http.StatusBadRequest, types.Error("No cmd parameter provided"))
		return
	}

	d, err := stream.ResolveDirective(cmd)
	if err != nil {
		utils.DebugLog("Rejecting stream command %q: %v", utils.MaskURL(cmd), err)
		ctx.JSON(http.StatusBadRequest, types.Error("No stream URL in cmd parameter"))
		return
	}

	kind := "channel"
	if d.VOD {
		kind = "vod"
	}
	utils.DebugLog("Resolved %s stream %s", kind, utils.MaskURL(d.Upstream))

	ctx.JSON(http.StatusOK, gin.H{
		"status": types.StatusOK,
		"url":    d.ProxyPath,
		"cmd":    d.Cmd,
	})
}

// proxyStream relays the media at ?url= to the client.
func (c *Config) proxyStream(ctx *gin.Context) {
	raw := ctx.Query("url")
	if raw == "" {
		ctx.JSON(http.StatusBadRequest, types.Error("No url parameter provided"))
		return
	}

	upstream, err := stream.ParseUpstream(raw)
	if err != nil {
		if errors.Is(err, stream.ErrInvalidURL) {
			utils.DebugLog("Rejecting proxy target %q", utils.MaskURL(raw))
		}
		ctx.JSON(http.StatusBadRequest, types.Error("Invalid url parameter"))
		return
	}

	c.proxy.Forward(ctx.Writer, ctx.Request, upstream)
}
