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
	"github.com/lucasduport/stalker-share/pkg/portal"
	"github.com/lucasduport/stalker-share/pkg/types"
	"github.com/lucasduport/stalker-share/pkg/utils"
)

// Catalog reads never fail towards the client: a portal error turns into an
// empty listing or the fallback catalog, answered with a 200.

func (c *Config) genres(ctx *gin.Context) {
	items, err := c.fetchCategories(ctx.Request.Context(), portal.NewAction(portal.ActionGetGenres, portal.TypeITV))
	if err != nil || len(items) == 0 {
		if err != nil {
			degraded(ctx, err)
		}
		ctx.JSON(http.StatusOK, types.OK(types.SourceFallback).With("channels", []json.RawMessage{}))
		return
	}
	ctx.JSON(http.StatusOK, types.OK(types.SourcePortal).With("channels", items))
}

func (c *Config) channelCategories(ctx *gin.Context) {
	items, err := c.fetchCategories(ctx.Request.Context(), portal.NewAction(portal.ActionGetGenres, portal.TypeITV))
	if err != nil {
		degraded(ctx, err)
	}
	categories := catalog.MapCategories(items, catalog.PosterOwnOrPlaceholder, false)
	utils.DebugLog("Serving %d channel categories", len(categories))
	ctx.JSON(http.StatusOK, types.OK(types.SourcePortal).With("channels", categories))
}

func (c *Config) channelsByCategory(ctx *gin.Context) {
	id := ctx.Param("id")
	listing, err := c.fetchPages(ctx.Request.Context(), channelListAction(id))
	if err != nil {
		degraded(ctx, err)
		ctx.JSON(http.StatusOK, types.OK(types.SourcePortal).
			With("categoryId", id).
			With("channels", []json.RawMessage{}))
		return
	}

	ctx.JSON(http.StatusOK, listingEnvelope(id, listing).
		With("channels", catalog.WithChannelArtwork(listing.Items)))
}

// vodCategories serves /vod. With no usable answer from the portal the
// built-in category list is served instead.
func (c *Config) vodCategories(ctx *gin.Context) {
	c.serveVODCategories(ctx, "vod", types.SourcePortal)
}

// legacyMovies keeps the old /movies path alive for clients that still use it.
func (c *Config) legacyMovies(ctx *gin.Context) {
	c.serveVODCategories(ctx, "movies", types.SourceVODRedirect)
}

func (c *Config) serveVODCategories(ctx *gin.Context, key, source string) {
	items, err := c.fetchCategories(ctx.Request.Context(), portal.NewAction(portal.ActionGetCategories, portal.TypeVOD))
	if err != nil {
		degraded(ctx, err)
	}

	categories := catalog.MapCategories(items, catalog.PosterArtworkOrPlaceholder, true)
	if len(categories) == 0 {
		utils.InfoLog("No VOD categories from portal, serving %d built-in categories", len(catalog.FallbackVODCategories()))
		ctx.JSON(http.StatusOK, types.OK(types.SourceFallback).With(key, catalog.FallbackVODCategories()))
		return
	}
	ctx.JSON(http.StatusOK, types.OK(source).With(key, categories))
}

func (c *Config) vodByCategory(ctx *gin.Context) {
	id := ctx.Param("id")
	listing, err := c.fetchPages(ctx.Request.Context(), contentListAction(portal.TypeVOD, id))
	if err != nil {
		degraded(ctx, err)
		ctx.JSON(http.StatusOK, types.OK(types.SourcePortal).
			With("categoryId", id).
			With("items", []json.RawMessage{}))
		return
	}
	ctx.JSON(http.StatusOK, listingEnvelope(id, listing).With("items", listing.Items))
}

func (c *Config) seriesCategories(ctx *gin.Context) {
	items, err := c.fetchCategories(ctx.Request.Context(), portal.NewAction(portal.ActionGetCategories, portal.TypeSeries))
	if err != nil {
		degraded(ctx, err)
	}

	categories := catalog.MapCategories(items, catalog.PosterArtwork, true)
	if len(categories) == 0 {
		ctx.JSON(http.StatusOK, types.OK(types.SourceFallback).With("series", []catalog.Category{}))
		return
	}
	ctx.JSON(http.StatusOK, types.OK(types.SourcePortal).With("series", categories))
}

func (c *Config) seriesByCategory(ctx *gin.Context) {
	id := ctx.Param("id")
	listing, err := c.fetchPages(ctx.Request.Context(), contentListAction(portal.TypeSeries, id))
	if err != nil {
		degraded(ctx, err)
		ctx.JSON(http.StatusOK, types.OK(types.SourcePortal).
			With("categoryId", id).
			With("items", []json.RawMessage{}))
		return
	}
	ctx.JSON(http.StatusOK, types.OK(types.SourcePortal).
		With("categoryId", id).
		With("total_items", listing.TotalItems).
		With("items", listing.Items))
}

func (c *Config) seriesSeasons(ctx *gin.Context) {
	id := ctx.Param("id")
	a := seriesAction(portal.TypeSeries, seriesMovieID(id), seriesCategory(ctx), "0", "0")

	items, err := c.fetchItems(ctx.Request.Context(), a)
	if err != nil {
		degraded(ctx, err)
		items = []json.RawMessage{}
	}
	ctx.JSON(http.StatusOK, types.OK(types.SourcePortal).
		With("seriesId", id).
		With("seasons", items))
}

func (c *Config) seasonEpisodes(ctx *gin.Context) {
	id, season := ctx.Param("id"), ctx.Param("season")
	a := seriesAction(portal.TypeSeries, seriesMovieID(id), seriesCategory(ctx), season, "0")

	items, err := c.fetchItems(ctx.Request.Context(), a)
	if err != nil {
		degraded(ctx, err)
		items = []json.RawMessage{}
	}
	ctx.JSON(http.StatusOK, types.OK(types.SourcePortal).
		With("seriesId", id).
		With("seasonId", season).
		With("episodes", items))
}

func (c *Config) episode(ctx *gin.Context) {
	id, season, ep := ctx.Param("id"), ctx.Param("season"), ctx.Param("episode")
	a := seriesAction(portal.TypeSeries, seriesMovieID(id), seriesCategory(ctx), season, ep)

	var first json.RawMessage
	items, err := c.fetchItems(ctx.Request.Context(), a)
	if err != nil {
		degraded(ctx, err)
	} else if len(items) > 0 {
		first = items[0]
	}

	env := types.OK(types.SourcePortal).
		With("seriesId", id).
		With("seasonId", season).
		With("episodeId", ep)
	if first == nil {
		ctx.JSON(http.StatusOK, env.With("episode", nil))
		return
	}
	ctx.JSON(http.StatusOK, env.With("episode", first))
}

func (c *Config) radioCategories(ctx *gin.Context) {
	items, err := c.fetchCategories(ctx.Request.Context(), portal.NewAction(portal.ActionGetGenres, portal.TypeRadio))
	if err != nil {
		degraded(ctx, err)
	}
	ctx.JSON(http.StatusOK, types.OK(types.SourcePortal).
		With("channels", catalog.MapCategories(items, catalog.PosterOwn, false)))
}

func (c *Config) radioByCategory(ctx *gin.Context) {
	id := ctx.Param("id")
	listing, err := c.fetchPages(ctx.Request.Context(), radioListAction(id))
	if err != nil {
		degraded(ctx, err)
		ctx.JSON(http.StatusOK, types.OK(types.SourcePortal).
			With("categoryId", id).
			With("channels", []json.RawMessage{}))
		return
	}
	ctx.JSON(http.StatusOK, listingEnvelope(id, listing).
		With("channels", catalog.WithChannelArtwork(listing.Items)))
}

func listingEnvelope(categoryID string, listing catalog.Listing) types.Envelope {
	return types.OK(types.SourcePortal).
		With("categoryId", categoryID).
		With("total_items", listing.TotalItems).
		With("max_page_items", listing.MaxPageItems).
		With("total_pages", listing.TotalPages)
}

// seriesCategory is the category a series lookup is scoped to; "*" searches
// every category.
func seriesCategory(ctx *gin.Context) string {
	return ctx.DefaultQuery("category", catalog.AllCategoryID)
}
