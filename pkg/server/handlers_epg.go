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
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lucasduport/stalker-share/pkg/catalog"
	"github.com/lucasduport/stalker-share/pkg/portal"
	"github.com/lucasduport/stalker-share/pkg/types"
	"github.com/lucasduport/stalker-share/pkg/utils"
)

const defaultEPGPeriod = 6

// epg serves the guide for every channel over the next period hours.
func (c *Config) epg(ctx *gin.Context) {
	period, err := strconv.Atoi(ctx.DefaultQuery("period", strconv.Itoa(defaultEPGPeriod)))
	if err != nil || period <= 0 {
		period = defaultEPGPeriod
	}

	a := portal.NewAction(portal.ActionGetEPGInfo, portal.TypeITV, "period", strconv.Itoa(period))
	resp, err := c.fetch(ctx.Request.Context(), a)
	if err != nil {
		degraded(ctx, err)
		ctx.JSON(http.StatusOK, types.OK(types.SourcePortal).
			With("period", period).
			With("epg", json.RawMessage("{}")))
		return
	}
	ctx.JSON(http.StatusOK, types.OK(types.SourcePortal).
		With("period", period).
		With("epg", resp.Object()))
}

// channelEPG serves the short guide of one channel with the programme on
// air and the one after it.
func (c *Config) channelEPG(ctx *gin.Context) {
	id := ctx.Param("id")

	a := portal.NewAction(portal.ActionGetShortEPG, portal.TypeITV, "ch_id", id)
	programs, err := c.fetchItems(ctx.Request.Context(), a)
	if err != nil {
		degraded(ctx, err)
		programs = []json.RawMessage{}
	}

	airing := catalog.OnAir(programs, c.now())
	utils.DebugLog("Channel %s: %d programmes, on air: %t", id, len(programs), airing.Current != nil)

	ctx.JSON(http.StatusOK, types.OK(types.SourcePortal).
		With("channelId", id).
		With("programs", programs).
		With("current", nullable(airing.Current)).
		With("next", nullable(airing.Next)))
}

func nullable(raw json.RawMessage) interface{} {
	if raw == nil {
		return nil
	}
	return raw
}
