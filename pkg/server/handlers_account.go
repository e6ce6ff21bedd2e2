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
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lucasduport/stalker-share/pkg/catalog"
	"github.com/lucasduport/stalker-share/pkg/config"
	"github.com/lucasduport/stalker-share/pkg/portal"
	"github.com/lucasduport/stalker-share/pkg/types"
	"github.com/lucasduport/stalker-share/pkg/utils"
)

// apiConfig exposes the account details the UI shows. Credentials never
// leave the server.
func (c *Config) apiConfig(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, types.OK(types.SourcePortal).With("config", configView(c.Portal)))
}

func configView(p *config.PortalConfig) types.ConfigView {
	return types.ConfigView{
		Portal: types.PortalInfo{
			URL:            p.URL,
			MAC:            p.MAC,
			MaxConnections: p.MaxConnections,
			ExpireDate:     p.ExpireDate,
			CreatedDate:    p.CreatedDate,
		},
		MaxConnections: p.MaxConnections,
		ExpireDate:     p.ExpireDate,
		CreatedDate:    p.CreatedDate,
	}
}

// profile is the one route that reports a failed login to the client.
func (c *Config) profile(ctx *gin.Context) {
	profile, err := c.sessions.EnsureProfile(ctx.Request.Context())
	if err != nil {
		utils.WarnLog("Profile request failed: %v", err)
		ctx.JSON(http.StatusUnauthorized, types.Error("Authentication failed").With("source", types.SourcePortal))
		return
	}
	ctx.JSON(http.StatusOK, types.OK(types.SourcePortal).With("profile", profile))
}

func (c *Config) favoriteChannels(ctx *gin.Context) {
	a := portal.NewAction(portal.ActionGetAllFavChannels, portal.TypeITV,
		"fav", "1",
		"force_ch_link_check", "0",
	)
	items, err := c.fetchItems(ctx.Request.Context(), a)
	if err != nil {
		degraded(ctx, err)
		items = []json.RawMessage{}
	}
	ctx.JSON(http.StatusOK, types.OK(types.SourcePortal).With("favorites", catalog.WithChannelArtwork(items)))
}

func (c *Config) favoriteChannelIDs(ctx *gin.Context) {
	items, err := c.fetchItems(ctx.Request.Context(), portal.NewAction(portal.ActionGetFavIDs, portal.TypeITV))
	if err != nil {
		degraded(ctx, err)
		items = []json.RawMessage{}
	}
	ctx.JSON(http.StatusOK, types.OK(types.SourcePortal).With("ids", items))
}

func (c *Config) addFavoriteChannel(ctx *gin.Context) {
	c.setFavoriteChannel(ctx, true)
}

func (c *Config) removeFavoriteChannel(ctx *gin.Context) {
	c.setFavoriteChannel(ctx, false)
}

func (c *Config) setFavoriteChannel(ctx *gin.Context, favorite bool) {
	id := ctx.Param("id")
	a := portal.NewAction(portal.ActionSetFav, portal.TypeITV,
		"ch_id", id,
		"fav", favFlag(favorite),
	)
	if _, err := c.fetch(ctx.Request.Context(), a); err != nil {
		utils.WarnLog("Failed to set favorite=%t on channel %s: %v", favorite, id, err)
		ctx.JSON(http.StatusBadGateway, types.Error("Failed to update favorites").With("source", types.SourcePortal))
		return
	}
	ctx.JSON(http.StatusOK, types.OK(types.SourcePortal).
		With("channelId", id).
		With("favorite", favorite))
}

func (c *Config) favoriteVOD(ctx *gin.Context) {
	a := portal.NewAction(portal.ActionGetOrderedList, portal.TypeVOD,
		"fav", "1",
		"sortby", "added",
		"p", "1",
	)
	items, err := c.fetchItems(ctx.Request.Context(), a)
	if err != nil {
		degraded(ctx, err)
		items = []json.RawMessage{}
	}
	ctx.JSON(http.StatusOK, types.OK(types.SourcePortal).With("favorites", items))
}

func (c *Config) toggleFavoriteVOD(ctx *gin.Context) {
	id := ctx.Param("id")

	var body types.FavoriteToggle
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, types.Error("Invalid request body"))
		return
	}

	a := portal.NewAction(portal.ActionSetFav, portal.TypeVOD,
		"video_id", id,
		"fav", favFlag(body.Favorite),
	)
	if _, err := c.fetch(ctx.Request.Context(), a); err != nil {
		utils.WarnLog("Failed to set favorite=%t on video %s: %v", body.Favorite, id, err)
		ctx.JSON(http.StatusBadGateway, types.Error("Failed to update favorites").With("source", types.SourcePortal))
		return
	}
	ctx.JSON(http.StatusOK, types.OK(types.SourcePortal).
		With("videoId", id).
		With("favorite", body.Favorite))
}

func favFlag(favorite bool) string {
	if favorite {
		return "1"
	}
	return "0"
}
