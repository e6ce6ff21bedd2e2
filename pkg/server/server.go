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
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lucasduport/stalker-share/pkg/catalog"
	"github.com/lucasduport/stalker-share/pkg/config"
	"github.com/lucasduport/stalker-share/pkg/portal"
	"github.com/lucasduport/stalker-share/pkg/session"
	"github.com/lucasduport/stalker-share/pkg/stream"
	"github.com/lucasduport/stalker-share/pkg/utils"
)

// Config represent the server configuration
type Config struct {
	*config.ProxyConfig

	portal     *portal.Client
	sessions   *session.Manager
	proxy      *stream.Proxy
	pages      catalog.Options
	categories *categoryCache

	now func() time.Time
}

// NewServer wires the portal client, the shared session and the stream
// proxy from config.
func NewServer(cfg *config.ProxyConfig) (*Config, error) {
	cfg.ApplyDefaults()

	client, err := portal.New(cfg.Portal, cfg.APITimeout)
	if err != nil {
		return nil, utils.PrintErrorAndReturn(err)
	}
	utils.InfoLog("Portal endpoint: %s (mac %s)", client.URL(), cfg.Portal.MAC)

	return &Config{
		ProxyConfig: cfg,
		portal:      client,
		sessions:    session.NewManager(client, cfg.SessionTTL),
		proxy:       stream.NewProxy(cfg.PlaylistMaxBytes),
		pages:       catalog.NewOptions(cfg.MaxPages, cfg.PageRate),
		categories:  newCategoryCache(cfg.CatalogCacheTTL),
		now:         time.Now,
	}, nil
}

// Serve the stalker-share api
func (c *Config) Serve() error {
	utils.InfoLog("[stalker-share] Server is starting...")
	utils.InfoLog("Session window %v, portal timeout %v, page cap %d", c.SessionTTL, c.APITimeout, c.MaxPages)

	router := c.router()

	utils.InfoLog("[stalker-share] Server is ready and listening on :%d", c.HostConfig.Port)
	return router.Run(fmt.Sprintf(":%d", c.HostConfig.Port))
}

func (c *Config) router() *gin.Engine {
	if !config.DebugLoggingEnabled {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if config.DebugLoggingEnabled {
		router.Use(gin.Logger())
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Range")
	corsConfig.ExposeHeaders = []string{"Content-Length", "Content-Range", "Accept-Ranges"}
	router.Use(cors.New(corsConfig))

	c.routes(router)
	return router
}
