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
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lucasduport/stalker-share/pkg/middleware"
	"github.com/lucasduport/stalker-share/pkg/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (c *Config) routes(r *gin.Engine) {
	// Media is relayed as-is, outside of the compressed group.
	r.GET("/proxy-stream", c.proxyStream)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", c.healthz)

	api := r.Group("/", middleware.Gzip())
	c.apiRoutes(api)
	c.catalogRoutes(api)
	c.favoriteRoutes(api)

	r.NoRoute(func(ctx *gin.Context) {
		p := ctx.Request.URL.Path
		if strings.HasPrefix(p, "/api") || strings.HasPrefix(p, "/proxy") {
			ctx.JSON(http.StatusNotFound, types.Error("Not found"))
			return
		}
		ctx.String(http.StatusNotFound, "404 page not found")
	})
}

func (c *Config) apiRoutes(r *gin.RouterGroup) {
	r.GET("/api/config", c.apiConfig)
	r.GET("/api/profile", c.profile)
	r.GET("/profile", c.profile)
	r.GET("/api/genres", c.genres)
	r.GET("/stream-link", c.streamLink)
	r.GET("/search", c.search)
}

func (c *Config) catalogRoutes(r *gin.RouterGroup) {
	r.GET("/channels", c.channelCategories)
	r.GET("/channels/:id", c.channelsByCategory)
	r.GET("/channels/:id/playlist.m3u", c.channelPlaylist)

	r.GET("/vod", c.vodCategories)
	r.GET("/vod/:id", c.vodByCategory)
	r.GET("/movies", c.legacyMovies)

	r.GET("/series", c.seriesCategories)
	r.GET("/series/:id", c.seriesByCategory)
	r.GET("/series/:id/seasons", c.seriesSeasons)
	r.GET("/series/:id/seasons/:season/episodes", c.seasonEpisodes)
	r.GET("/series/:id/seasons/:season/episodes/:episode", c.episode)

	r.GET("/radio", c.radioCategories)
	r.GET("/radio/:id", c.radioByCategory)

	r.GET("/epg", c.epg)
	r.GET("/epg/:id", c.channelEPG)
}

func (c *Config) favoriteRoutes(r *gin.RouterGroup) {
	r.GET("/favorites/channels", c.favoriteChannels)
	r.GET("/favorites/channels/ids", c.favoriteChannelIDs)
	r.POST("/favorites/channels/:id", c.addFavoriteChannel)
	r.DELETE("/favorites/channels/:id", c.removeFavoriteChannel)

	r.GET("/favorites/vod", c.favoriteVOD)
	r.POST("/favorites/vod/:id", c.toggleFavoriteVOD)
}
