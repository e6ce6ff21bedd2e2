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
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lucasduport/stalker-share/pkg/types"
)

// healthz reports whether the shared portal login is usable. It never
// triggers a login itself.
func (c *Config) healthz(ctx *gin.Context) {
	s := c.sessions.Snapshot()
	now := c.now()

	health := types.SessionHealth{
		Authenticated: s.HasToken() && s.Fresh(now, c.sessions.TTL()),
		HasProfile:    s.HasProfile(),
		TTL:           c.sessions.TTL().String(),
	}
	if s.HasToken() {
		health.Age = s.Age(now).Truncate(time.Second).String()
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":  types.StatusOK,
		"session": health,
	})
}
